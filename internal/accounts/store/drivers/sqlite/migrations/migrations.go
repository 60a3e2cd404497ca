// Package migrations embeds the SQL migration files so they compile
// into the binary and ship with it.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
