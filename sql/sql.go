// Package sql embeds the database migrations applied by the migrate
// command.
package sql

import "embed"

//go:embed *.sql
var FS embed.FS
