package store

import (
	"database/sql"
	"embed"
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/veridic/ARGX/errors"
	"github.com/veridic/ARGX/gsn"
	"github.com/veridic/ARGX/logger"
	"github.com/veridic/ARGX/sym"
)

//go:embed sqlite/migrations/*.sql
var migrations embed.FS

// SQLiteStore implements NodeStore and CaseStore over a SQLite file
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) the database at path, applies pragmas for
// concurrent-read operation, and runs pending migrations
func Open(path string) (*SQLiteStore, error) {
	logger.Debugw("Opening database", "path", path, "symbol", sym.DB)

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	// WAL for concurrent reads during writes
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "enable WAL mode")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "enable foreign keys")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "set busy timeout")
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Infow("Database opened",
		"path", path,
		"symbol", sym.DB,
		"wal_mode", true,
	)
	return store, nil
}

// NewSQLiteStore wraps an already opened handle. The caller owns the
// handle's lifecycle and schema.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Close releases the underlying handle
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// migrate applies every pending migration in filename order
func (s *SQLiteStore) migrate() error {
	entries, err := migrations.ReadDir("sqlite/migrations")
	if err != nil {
		return errors.Wrap(err, "read migrations")
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, filename := range files {
		version := strings.Split(filename, "_")[0]

		var exists bool
		err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)", version).Scan(&exists)
		if err != nil {
			// Table missing: only the bootstrap migration may run
			if version != "000" {
				return errors.Newf("schema_migrations table missing, but migration is not 000: %s", filename)
			}
		} else if exists {
			continue
		}

		sqlBytes, err := migrations.ReadFile(filepath.Join("sqlite/migrations", filename))
		if err != nil {
			return errors.Wrapf(err, "read %s", filename)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return errors.Wrapf(err, "begin tx for %s", filename)
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "execute %s", filename)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "record %s", filename)
		}
		if err := tx.Commit(); err != nil {
			return errors.Wrapf(err, "commit %s", filename)
		}

		logger.Debugw("Applied migration", "migration", filename, "symbol", sym.DB)
	}

	return nil
}

// CreateNode persists a labeled property document
func (s *SQLiteStore) CreateNode(label string, properties map[string]interface{}) (string, error) {
	if label == "" {
		return "", errors.New("node label is required")
	}

	id, _ := properties["id"].(string)
	if id == "" {
		id = "node-" + uuid.NewString()[:8]
	}

	copied := make(map[string]interface{}, len(properties)+1)
	for key, value := range properties {
		copied[key] = value
	}
	copied["id"] = id

	payload, err := json.Marshal(copied)
	if err != nil {
		return "", errors.Wrapf(err, "serialize node %s", id)
	}

	_, err = s.db.Exec("INSERT INTO nodes (id, label, properties) VALUES (?, ?, ?)", id, label, string(payload))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return "", errors.NewConflictError("node %s", id)
		}
		return "", errors.Wrapf(err, "insert node %s", id)
	}
	return id, nil
}

// GetNode returns a node's properties by id
func (s *SQLiteStore) GetNode(id string) (map[string]interface{}, error) {
	var payload string
	err := s.db.QueryRow("SELECT properties FROM nodes WHERE id = ?", id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("node %s", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "query node %s", id)
	}

	var properties map[string]interface{}
	if err := json.Unmarshal([]byte(payload), &properties); err != nil {
		return nil, errors.Wrapf(err, "deserialize node %s", id)
	}
	return properties, nil
}

// FindNodes returns label matches whose properties contain the filter.
// Label selection happens in SQL; property filtering happens here,
// since properties are an opaque JSON document to the schema.
func (s *SQLiteStore) FindNodes(label string, filter map[string]interface{}) ([]map[string]interface{}, error) {
	rows, err := s.db.Query("SELECT properties FROM nodes WHERE label = ?", label)
	if err != nil {
		return nil, errors.Wrapf(err, "query nodes with label %s", label)
	}
	defer rows.Close()

	var matched []map[string]interface{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.Wrap(err, "scan node row")
		}
		var properties map[string]interface{}
		if err := json.Unmarshal([]byte(payload), &properties); err != nil {
			return nil, errors.Wrap(err, "deserialize node row")
		}
		if propertiesMatch(properties, filter) {
			matched = append(matched, properties)
		}
	}
	return matched, rows.Err()
}

// SaveCase upserts the case's canonical JSON record
func (s *SQLiteStore) SaveCase(argCase *gsn.ArgumentCase) error {
	if argCase == nil || argCase.CaseID == "" {
		return errors.New("case with a case id is required")
	}

	payload, err := json.Marshal(argCase)
	if err != nil {
		return errors.Wrapf(err, "serialize case %s", argCase.CaseID)
	}

	_, err = s.db.Exec(`
		INSERT INTO cases (case_id, title, payload, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(case_id) DO UPDATE SET title = excluded.title, payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		argCase.CaseID, argCase.Title, string(payload))
	if err != nil {
		return errors.Wrapf(err, "save case %s", argCase.CaseID)
	}

	logger.Debugw("Case saved",
		"symbol", sym.DB,
		"case_id", argCase.CaseID,
		"nodes", len(argCase.Nodes),
	)
	return nil
}

// LoadCase restores a saved case
func (s *SQLiteStore) LoadCase(caseID string) (*gsn.ArgumentCase, error) {
	var payload string
	err := s.db.QueryRow("SELECT payload FROM cases WHERE case_id = ?", caseID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("case %s", caseID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "query case %s", caseID)
	}

	var argCase gsn.ArgumentCase
	if err := json.Unmarshal([]byte(payload), &argCase); err != nil {
		return nil, errors.Wrapf(err, "deserialize case %s", caseID)
	}
	return &argCase, nil
}
