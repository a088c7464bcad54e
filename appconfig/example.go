// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package appconfig

// Example is a commented configuration file documenting every key.
const Example = `## The standard connection URI format, documented at
## https://www.postgresql.org/docs/current/libpq-connect.html#LIBPQ-CONNSTRING
db-uri = "postgresql://"

## The database role to use when no client authentication is provided
db-anon-role = "postgres"

## Notification channel for reloading the schema cache
db-channel = "pgrst"

## Enable or disable the notification channel
db-channel-enabled = false

## Enable in-database configuration
db-config = true

## Extra schemas to add to the search_path of every request
db-extra-search-path = "public"

## Limit rows in response
# db-max-rows = 1000

## Number of open connections in the pool
db-pool = 10

## Time in seconds to wait to acquire a slot from the connection pool
db-pool-timeout = 10

## Stored proc to exec immediately after auth
# db-pre-request = "stored_proc_name"

## Enable or disable prepared statements. Disabling is only necessary
## when behind a connection pooler.
db-prepared-statements = true

## Function to override the OpenAPI response
# db-root-spec = "root"

## The name of which database schema to expose to REST clients
db-schemas = "public"

## How to terminate database transactions
## Possible values are:
## commit (default)
##   Transaction is always committed, this can not be overriden
## commit-allow-override
##   Transaction is committed, but can be overriden with Prefer tx=rollback header
## rollback
##   Transaction is always rolled back, this can not be overriden
## rollback-allow-override
##   Transaction is rolled back, but can be overriden with Prefer tx=commit header
db-tx-end = "commit"

## JWT audience claim
# jwt-aud = "your_audience_claim"

## Jspath to the role claim key
jwt-role-claim-key = ".role"

## Choose a secret, JSON Web Key (or set) to enable JWT auth
## (use "@filename" to load from separate file)
# jwt-secret = "secret_with_at_least_32_characters"
jwt-secret-is-base64 = false

## Logging level, the admitted values are: crit, error, warn and info.
log-level = "error"

## Determine if the OpenAPI output should follow or ignore role privileges or be disabled entirely.
# openapi-server-proxy-uri = ""

## Content types to produce raw output
# raw-media-types = "image/png, image/jpg"

server-host = "!4"
server-port = 3000

## Unix socket location
## if specified it takes precedence over server-port
# server-unix-socket = "/tmp/pgrst.sock"

## Unix socket file mode
## When none is provided, 660 is applied by default
# server-unix-socket-mode = "660"

## Free form settings readable by SQL through current_setting('app.settings.*')
# app.settings.jwt_exp = "3600"
`
