package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const defaultPostgresImage = "postgres:16-alpine"

// PostgreSQLManager runs a throwaway postgres container
type PostgreSQLManager struct {
	image     string
	container testcontainers.Container
	db        *sql.DB
	connStr   string
}

func NewPostgreSQLManager(image string) DatabaseManager {
	if image == "" {
		image = defaultPostgresImage
	}
	return &PostgreSQLManager{image: image}
}

func (p *PostgreSQLManager) Setup(ctx context.Context) error {
	slog.Debug("starting postgresql container", "image", p.image)
	container, err := postgres.Run(ctx,
		p.image,
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute)),
	)
	if err != nil {
		return fmt.Errorf("failed to start container: %w", err)
	}
	p.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return fmt.Errorf("failed to get connection string: %w", err)
	}
	slog.Debug("got database connection string", "connStr", connStr)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	p.db = db

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	p.connStr = connStr

	slog.Info("postgresql container ready")
	return nil
}

func (p *PostgreSQLManager) Close(ctx context.Context) error {
	if p.db != nil {
		p.db.Close()
	}
	if p.container != nil {
		return p.container.Terminate(ctx)
	}
	return nil
}

func (p *PostgreSQLManager) ApplyDDL(ctx context.Context, ddl string) error {
	if p.db == nil {
		return fmt.Errorf("database not set up")
	}
	if _, err := p.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to execute ddl: %w", err)
	}
	slog.Debug("applied ddl", "bytes", len(ddl))
	return nil
}

func (p *PostgreSQLManager) GetDB() *sql.DB {
	return p.db
}

func (p *PostgreSQLManager) GetConnectionString() string {
	return p.connStr
}

// SQLiteManager opens an in-memory SQLite database
type SQLiteManager struct {
	dsn string
	db  *sql.DB
}

func NewSQLiteManager() DatabaseManager {
	return &SQLiteManager{dsn: ":memory:"}
}

func (s *SQLiteManager) Setup(ctx context.Context) error {
	db, err := sql.Open("sqlite3", s.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	s.db = db
	slog.Debug("sqlite database ready", "dsn", s.dsn)
	return nil
}

func (s *SQLiteManager) Close(ctx context.Context) error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteManager) ApplyDDL(ctx context.Context, ddl string) error {
	if s.db == nil {
		return fmt.Errorf("database not set up")
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to execute ddl: %w", err)
	}
	slog.Debug("applied ddl", "bytes", len(ddl))
	return nil
}

func (s *SQLiteManager) GetDB() *sql.DB {
	return s.db
}

func (s *SQLiteManager) GetConnectionString() string {
	return s.dsn
}
