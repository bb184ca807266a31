// Package migrations embeds the audit schema migrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
