// Package migrations embeds the SQL schema so the migrate command ships in
// the same binary image as the API.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
