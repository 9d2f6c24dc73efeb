package migrations

import "embed"

// FS содержит SQL-миграции, вшитые в бинарник
//
//go:embed *.sql
var FS embed.FS
