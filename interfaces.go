package main

import (
	"context"
	"database/sql"

	"github.com/alc6/mismo2schema/xsd"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// SchemaLoader reads and resolves XML schema input
type SchemaLoader interface {
	// LoadSchema reads a schema file, or every .xsd file below a directory
	LoadSchema(path string) (*xsd.Schema, error)
}

// DatabaseManager handles the scratch database used to verify generated DDL
type DatabaseManager interface {
	// Setup creates and initializes the database connection
	Setup(ctx context.Context) error
	// Close cleans up database resources
	Close(ctx context.Context) error
	// ApplyDDL executes the generated statements
	ApplyDDL(ctx context.Context, ddl string) error
	// GetDB returns the underlying database connection
	GetDB() *sql.DB
	// GetConnectionString returns the DSN used by external tools
	GetConnectionString() string
}

// ArtifactWriter stores generated files
type ArtifactWriter interface {
	// Write stores data under name and returns where it was written
	Write(ctx context.Context, name string, data []byte) (string, error)
}
