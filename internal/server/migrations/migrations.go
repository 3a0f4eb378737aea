// Package migrations embeds the goose SQL migrations that are applied
// against PostgreSQL at startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
