// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package appconfig

import (
	"github.com/z5labs/pgrest/config"
	"github.com/z5labs/pgrest/config/key"
)

// EnvPrefix is the prefix of every environment variable read as configuration.
const EnvPrefix = "PGRST_"

const (
	keyDbAnonRole            = key.Name("db-anon-role")
	keyDbChannel             = key.Name("db-channel")
	keyDbChannelEnabled      = key.Name("db-channel-enabled")
	keyDbConfig              = key.Name("db-config")
	keyDbExtraSearchPath     = key.Name("db-extra-search-path")
	keyDbMaxRows             = key.Name("db-max-rows")
	keyDbPool                = key.Name("db-pool")
	keyDbPoolTimeout         = key.Name("db-pool-timeout")
	keyDbPreRequest          = key.Name("db-pre-request")
	keyDbPreparedStatements  = key.Name("db-prepared-statements")
	keyDbRootSpec            = key.Name("db-root-spec")
	keyDbSchemas             = key.Name("db-schemas")
	keyDbSchema              = key.Name("db-schema")
	keyDbTxEnd               = key.Name("db-tx-end")
	keyDbUri                 = key.Name("db-uri")
	keyJwtAud                = key.Name("jwt-aud")
	keyJwtRoleClaimKey       = key.Name("jwt-role-claim-key")
	keyJwtSecret             = key.Name("jwt-secret")
	keyJwtSecretIsBase64     = key.Name("jwt-secret-is-base64")
	keyLogLevel              = key.Name("log-level")
	keyOpenAPIServerProxyURI = key.Name("openapi-server-proxy-uri")
	keyRawMediaTypes         = key.Name("raw-media-types")
	keyServerHost            = key.Name("server-host")
	keyServerPort            = key.Name("server-port")
	keyServerUnixSocket      = key.Name("server-unix-socket")
	keyServerUnixSocketMode  = key.Name("server-unix-socket-mode")
)

var keyAppSettings = key.Chain{key.Name("app"), key.Name("settings")}

// Keys lists every recognized built-in key in serialization order.
var Keys = []key.Name{
	keyDbAnonRole,
	keyDbChannel,
	keyDbChannelEnabled,
	keyDbConfig,
	keyDbExtraSearchPath,
	keyDbMaxRows,
	keyDbPool,
	keyDbPoolTimeout,
	keyDbPreRequest,
	keyDbPreparedStatements,
	keyDbRootSpec,
	keyDbSchemas,
	keyDbSchema,
	keyDbTxEnd,
	keyDbUri,
	keyJwtAud,
	keyJwtRoleClaimKey,
	keyJwtSecret,
	keyJwtSecretIsBase64,
	keyLogLevel,
	keyOpenAPIServerProxyURI,
	keyRawMediaTypes,
	keyServerHost,
	keyServerPort,
	keyServerUnixSocket,
	keyServerUnixSocketMode,
}

// Reloadable reports which keys runtime overrides may satisfy. Keys that
// bind the server, size the pool, pick the anonymous role or configure
// logging only take effect at startup.
var Reloadable = config.AllExcept(
	keyDbAnonRole,
	keyDbChannel,
	keyDbChannelEnabled,
	keyDbConfig,
	keyDbPool,
	keyDbPoolTimeout,
	keyDbUri,
	keyLogLevel,
	keyServerHost,
	keyServerPort,
	keyServerUnixSocket,
	keyServerUnixSocketMode,
)
