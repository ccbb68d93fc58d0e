package migration

import "embed"

const migrationsDir = "migrations"

// Only up migrations ship; the store never rolls schema back in place.
//go:embed migrations/*.up.sql
var embeddedMigrations embed.FS
