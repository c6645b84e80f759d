//go:build sqlite_vec
// +build sqlite_vec

package storage

// This file is compiled when building with CGO and the sqlite_vec tag.
// It enables the sqlite-vec extension so cosine distance is computed at
// the SQL layer.
//
// Build command:
//   CGO_ENABLED=1 go build -tags "sqlite_vec,fts5" ./...
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use.
	DriverName = "sqlite3"

	// VectorExtensionAvailable indicates if the sqlite-vec extension is
	// available for SQL-level distance computation.
	VectorExtensionAvailable = true

	// BuildMode describes the current build configuration.
	BuildMode = "sqlite_vec"
)
