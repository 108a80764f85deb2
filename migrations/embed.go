// Package migrations embeds the SQL migrations of the submission journal.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
