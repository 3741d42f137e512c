// Package migrations embeds the goose SQL migrations for each supported
// database dialect.
package migrations

import "embed"

// MigrationsFS holds postgres/*.sql and sqlite/*.sql.
//
//go:embed postgres/*.sql sqlite/*.sql
var MigrationsFS embed.FS
