package analytics

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/xaenox/helpdesk-bot/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// PostgresSink appends events to an events table. Rows are append-only;
// nothing in the reply path ever reads them back.
type PostgresSink struct {
	db *sql.DB
}

func NewPostgresSink(config DatabaseConfig) (*PostgresSink, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	sink := &PostgresSink{db: db}

	if err := sink.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}

	return sink, nil
}

func (s *PostgresSink) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %v", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %v", err)
	}

	return nil
}

func (s *PostgresSink) Log(ctx context.Context, event models.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, ts, user_id, username, input, reply, tokens, latency_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		event.ID, event.Timestamp, event.UserID, event.Username,
		event.Input, event.Reply, event.Tokens, event.LatencyMS)
	if err != nil {
		return fmt.Errorf("error inserting event: %v", err)
	}
	return nil
}

func (s *PostgresSink) Close() error {
	return s.db.Close()
}
