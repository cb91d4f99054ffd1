package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported driver names
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config holds the database connection settings
type Config struct {
	Driver string // DriverSQLite or DriverPostgres
	DSN    string // file path for sqlite, connection URL for postgres
}

// ConfigFromEnv builds a Config from environment variables. DB_TYPE selects
// the driver ("sqlite" by default); postgres reads DATABASE_URL, sqlite reads
// SQLITE_PATH.
func ConfigFromEnv() Config {
	if os.Getenv("DB_TYPE") == "postgres" {
		return Config{Driver: DriverPostgres, DSN: os.Getenv("DATABASE_URL")}
	}

	path := os.Getenv("SQLITE_PATH")
	if path == "" {
		path = filepath.Join("data", "wortschatz.db")
	}
	return Config{Driver: DriverSQLite, DSN: path}
}

// Connect opens the database and initializes the schema
func Connect(cfg Config) (*sqlx.DB, error) {
	switch cfg.Driver {
	case DriverSQLite:
		return connectSQLite(cfg.DSN)
	case DriverPostgres:
		return connectPostgres(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

func connectSQLite(path string) (*sqlx.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %v", err)
		}
	}

	db, err := sqlx.Connect(DriverSQLite, path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initializeSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func connectPostgres(dsn string) (*sqlx.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	db, err := sqlx.Connect(DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := initializeSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	serialPK := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == DriverPostgres {
		serialPK = "id BIGSERIAL PRIMARY KEY"
	}

	// Create vocabulary catalog table
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS vocabulary_entries (
			id TEXT PRIMARY KEY,
			lemma TEXT NOT NULL,
			language TEXT NOT NULL,
			level TEXT NOT NULL,
			part_of_speech TEXT NOT NULL DEFAULT '',
			gender TEXT NOT NULL DEFAULT '',
			translation TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(lemma, language)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create vocabulary_entries table: %v", err)
	}

	// Create user progress table
	_, err = db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS user_progress (
			%s,
			user_id INTEGER NOT NULL,
			entry_id TEXT NOT NULL,
			is_known BOOLEAN NOT NULL DEFAULT FALSE,
			confidence_level INTEGER NOT NULL DEFAULT 0,
			review_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (entry_id) REFERENCES vocabulary_entries(id),
			UNIQUE(user_id, entry_id)
		)
	`, serialPK))
	if err != nil {
		return fmt.Errorf("failed to create user_progress table: %v", err)
	}

	// Create curation queue for out-of-vocabulary lookups
	_, err = db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS unknown_words (
			%s,
			word TEXT NOT NULL,
			lemma TEXT NOT NULL,
			language TEXT NOT NULL,
			miss_count INTEGER NOT NULL DEFAULT 1,
			first_seen TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_seen TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(lemma, language)
		)
	`, serialPK))
	if err != nil {
		return fmt.Errorf("failed to create unknown_words table: %v", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_vocabulary_language_level ON vocabulary_entries(language, level)`)
	if err != nil {
		return fmt.Errorf("failed to create vocabulary index: %v", err)
	}

	return nil
}
