// Package migrations embeds the SQL schema migrations so binaries and tests
// do not depend on the working directory.
package migrations

import "embed"

// FS holds every *.up.sql and *.down.sql file in this directory
//
//go:embed *.sql
var FS embed.FS
