// Package migrations embeds the goose SQL migrations for the campaign
// database schema.
package migrations

import "embed"

// Migrations holds the embedded SQL migration files.
//
//go:embed *.sql
var Migrations embed.FS
