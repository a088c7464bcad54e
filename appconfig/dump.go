// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package appconfig

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/z5labs/pgrest/jwk"

	"github.com/BurntSushi/toml"
)

// Dump writes c as key = value lines in a fixed order, followed by the
// application settings. The output parses back into an equal Config.
func Dump(w io.Writer, c *Config) error {
	d := &dumper{w: w}

	d.line(keyDbAnonRole.Key(), c.DbAnonRole)
	d.line(keyDbChannel.Key(), c.DbChannel)
	d.line(keyDbChannelEnabled.Key(), c.DbChannelEnabled)
	d.line(keyDbConfig.Key(), c.DbConfig)
	d.line(keyDbExtraSearchPath.Key(), strings.Join(c.DbExtraSearchPath, ","))
	if c.DbMaxRows != nil {
		d.line(keyDbMaxRows.Key(), *c.DbMaxRows)
	} else {
		d.line(keyDbMaxRows.Key(), "")
	}
	d.line(keyDbPool.Key(), c.DbPoolSize)
	d.line(keyDbPoolTimeout.Key(), c.DbPoolTimeout)
	d.line(keyDbPreRequest.Key(), c.DbPreRequest)
	d.line(keyDbPreparedStatements.Key(), c.DbPreparedStatements)
	d.line(keyDbRootSpec.Key(), c.DbRootSpec)
	d.line(keyDbSchemas.Key(), strings.Join(c.DbSchemas, ","))
	d.line(keyDbTxEnd.Key(), c.DbTxEnd.String())
	d.line(keyDbUri.Key(), c.DbUri)
	d.line(keyJwtAud.Key(), c.JwtAudience)
	d.line(keyJwtRoleClaimKey.Key(), c.JwtRoleClaimKey.String())
	d.line(keyJwtSecret.Key(), secretText(c))
	d.line(keyJwtSecretIsBase64.Key(), c.JwtSecretIsBase64)
	d.line(keyLogLevel.Key(), c.LogLevel.String())
	d.line(keyOpenAPIServerProxyURI.Key(), c.OpenAPIServerProxyURI)
	d.line(keyRawMediaTypes.Key(), strings.Join(c.RawMediaTypes, ","))
	d.line(keyServerHost.Key(), c.ServerHost)
	d.line(keyServerPort.Key(), c.ServerPort)
	d.line(keyServerUnixSocket.Key(), c.ServerUnixSocket)
	d.line(keyServerUnixSocketMode.Key(), fmt.Sprintf("%o", uint32(c.ServerUnixSocketMode)))

	for _, s := range c.AppSettings {
		d.prefixed(keyAppSettings.Key()+".", s.Name, s.Value)
	}
	return d.err
}

func secretText(c *Config) string {
	if c.JwtSecret == nil {
		return ""
	}
	if c.JwtSecretIsBase64 {
		return jwk.EncodeSecret(c.JwtSecret)
	}
	return string(c.JwtSecret)
}

type dumper struct {
	w   io.Writer
	buf bytes.Buffer
	err error
}

func (d *dumper) line(k string, v any) {
	d.prefixed("", k, v)
}

// prefixed lets the toml encoder quote k and v, so names that are not
// bare keys and values with quotes or control characters stay parseable.
func (d *dumper) prefixed(prefix, k string, v any) {
	if d.err != nil {
		return
	}

	d.buf.Reset()
	d.buf.WriteString(prefix)
	err := toml.NewEncoder(&d.buf).Encode(map[string]any{k: v})
	if err != nil {
		d.err = err
		return
	}
	_, d.err = d.w.Write(d.buf.Bytes())
}
