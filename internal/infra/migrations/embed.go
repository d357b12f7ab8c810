// Package migrations embeds the schema so goose can apply it at startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
