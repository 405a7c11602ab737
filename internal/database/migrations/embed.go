package migrations

import "embed"

// Files holds the SQL migrations shipped with the binary.
//
//go:embed *.sql
var Files embed.FS
