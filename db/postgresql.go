package db

import (
	"context"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

type Config struct {
	DBURL string
}

// InitDB opens the connection pool and checks that the database answers.
func InitDB(ctx context.Context, dataSourceName string) (*sqlx.DB, error) {
	conn, err := sqlx.Open("postgres", dataSourceName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	// Configure database connection pool settings
	conn.SetMaxOpenConns(20)
	conn.SetMaxIdleConns(10)

	log.Println("Database connection initialized successfully.")
	return conn, nil
}

// LoadDBConfig retrieves the database URL from environment variables.
func LoadDBConfig() (*Config, error) {
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		return nil, errors.New("database URL (DB_URL) environment variable is not set")
	}

	return &Config{
		DBURL: dbURL,
	}, nil
}
