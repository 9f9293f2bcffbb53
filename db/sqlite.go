package db

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"amp-trainer/models"
	"amp-trainer/utils"

	_ "github.com/mattn/go-sqlite3" // SQLite driver registration
)

// SQLiteClient stores the local run-history ledger.
type SQLiteClient struct {
	db *sql.DB
}

// DefaultHistoryPath is where the run ledger lives unless AMP_HISTORY_DB
// overrides it. It must stay outside any plausible export directory so the
// bundle only ever contains the two model files.
func DefaultHistoryPath() string {
	return utils.GetEnv("AMP_HISTORY_DB", filepath.Join(".amp-trainer", "history.db"))
}

func NewSQLiteClient(dataSourceName string) (*SQLiteClient, error) {
	// Extract the file path before query parameters
	dbPath := dataSourceName
	if idx := strings.Index(dataSourceName, "?"); idx != -1 {
		dbPath = dataSourceName[:idx]
	}

	// Create the directory if it doesn't exist (cross-platform)
	dbDir := filepath.Dir(dbPath)
	if dbDir != "." && dbDir != "" {
		if err := utils.CreateFolder(dbDir); err != nil {
			return nil, fmt.Errorf("error creating database directory: %s", err)
		}
	}

	// Add busy timeout param to DSN (milliseconds)
	if !strings.Contains(dataSourceName, "_busy_timeout") {
		if strings.Contains(dataSourceName, "?") {
			dataSourceName += "&_busy_timeout=5000" // 5 seconds
		} else {
			dataSourceName += "?_busy_timeout=5000"
		}
	}

	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("error connecting to SQLite: %s", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("error creating tables: %s", err)
	}

	return &SQLiteClient{db: db}, nil
}

// createTables creates the required tables if they don't exist
func createTables(db *sql.DB) error {
	createRunsTable := `
    CREATE TABLE IF NOT EXISTS training_runs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        started_at TIMESTAMP NOT NULL,
        finished_at TIMESTAMP NOT NULL,
        status TEXT NOT NULL,
        model_type TEXT NOT NULL,
        hidden_config TEXT NOT NULL,
        skip_connection INTEGER NOT NULL,
        epochs INTEGER NOT NULL,
        file_name TEXT NOT NULL,
        model_dir TEXT,
        out_dir TEXT,
        error TEXT
    );
    `

	if _, err := db.Exec(createRunsTable); err != nil {
		return fmt.Errorf("error creating training_runs table: %s", err)
	}
	return nil
}

// SaveRun appends one pipeline invocation to the ledger.
func (c *SQLiteClient) SaveRun(run *models.TrainingRun) (int64, error) {
	skip := 0
	if run.SkipConnection {
		skip = 1
	}

	result, err := c.db.Exec(`
        INSERT INTO training_runs
            (started_at, finished_at, status, model_type, hidden_config,
             skip_connection, epochs, file_name, model_dir, out_dir, error)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC(), run.FinishedAt.UTC(), run.Status, run.ModelType,
		run.HiddenConfig, skip, run.Epochs, run.FileName, run.ModelDir,
		run.OutDir, run.Error)
	if err != nil {
		return 0, fmt.Errorf("error inserting training run: %s", err)
	}
	return result.LastInsertId()
}

// ListRuns returns the most recent runs, newest first.
func (c *SQLiteClient) ListRuns(limit int) ([]models.TrainingRun, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := c.db.Query(`
        SELECT id, started_at, finished_at, status, model_type, hidden_config,
               skip_connection, epochs, file_name, model_dir, out_dir, error
        FROM training_runs
        ORDER BY id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying training runs: %s", err)
	}
	defer rows.Close()

	var runs []models.TrainingRun
	for rows.Next() {
		var run models.TrainingRun
		var started, finished time.Time
		var skip int
		var modelDir, outDir, runErr sql.NullString

		err := rows.Scan(&run.ID, &started, &finished, &run.Status,
			&run.ModelType, &run.HiddenConfig, &skip, &run.Epochs,
			&run.FileName, &modelDir, &outDir, &runErr)
		if err != nil {
			return nil, fmt.Errorf("error scanning training run: %s", err)
		}

		run.StartedAt = started
		run.FinishedAt = finished
		run.SkipConnection = skip == 1
		run.ModelDir = modelDir.String
		run.OutDir = outDir.String
		run.Error = runErr.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (c *SQLiteClient) Close() error {
	return c.db.Close()
}
