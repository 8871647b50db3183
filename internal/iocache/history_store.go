package iocache

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"  // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"freshscore/internal/contract"
	"freshscore/schema"
)

// Table names for history tracking.
const (
	runsTable   = "freshscore_runs"
	scoresTable = "freshscore_scores"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetHistoryDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=...", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{
			db:         nil,
			backend:    backend,
			driverName: "",
		}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and accessible", backend, err)
	}

	// Create the table schemas
	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createHistoryTables creates the history tracking tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{scoresTable, getCreateScoresQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for freshscore_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				cutoff_day INT NOT NULL,
				total_files INT NOT NULL DEFAULT 0,
				failures INT NOT NULL DEFAULT 0
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				cutoff_day INT NOT NULL,
				total_files INT NOT NULL DEFAULT 0,
				failures INT NOT NULL DEFAULT 0
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				cutoff_day INTEGER NOT NULL,
				total_files INTEGER NOT NULL DEFAULT 0,
				failures INTEGER NOT NULL DEFAULT 0
			);
		`, quotedTableName)
	}
}

// getCreateScoresQuery returns the CREATE TABLE query for freshscore_scores.
func getCreateScoresQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(scoresTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				movie VARCHAR(255) NOT NULL,
				release_date DATETIME(6) NOT NULL,
				cutoff_day INT NOT NULL,
				effective_day INT NOT NULL,
				percent_fresh DOUBLE NOT NULL,
				fresh_count INT NOT NULL,
				total_count INT NOT NULL,
				recorded_at DATETIME(6) NOT NULL,
				PRIMARY KEY (run_id, movie)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				movie TEXT NOT NULL,
				release_date TIMESTAMPTZ NOT NULL,
				cutoff_day INT NOT NULL,
				effective_day INT NOT NULL,
				percent_fresh DOUBLE PRECISION NOT NULL,
				fresh_count INT NOT NULL,
				total_count INT NOT NULL,
				recorded_at TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (run_id, movie)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				movie TEXT NOT NULL,
				release_date TEXT NOT NULL,
				cutoff_day INTEGER NOT NULL,
				effective_day INTEGER NOT NULL,
				percent_fresh REAL NOT NULL,
				fresh_count INTEGER NOT NULL,
				total_count INTEGER NOT NULL,
				recorded_at TEXT NOT NULL,
				PRIMARY KEY (run_id, movie)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new batch run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, cutoffDay int) (int64, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)

	var runID int64
	var err error
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, cutoff_day) VALUES ($1, $2) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, startTime, cutoffDay).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, cutoff_day) VALUES (?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, formatTime(startTime, hs.backend), cutoffDay)
		if err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	return runID, nil
}

// EndRun updates the run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, totalFiles, failures int) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)

	var query string
	var args []any
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`UPDATE %s SET end_time = $1, total_files = $2, failures = $3 WHERE run_id = $4`, quotedTableName)
		args = []any{endTime, totalFiles, failures, runID}
	default: // SQLite and MySQL
		query = fmt.Sprintf(`UPDATE %s SET end_time = ?, total_files = ?, failures = ? WHERE run_id = ?`, quotedTableName)
		args = []any{formatTime(endTime, hs.backend), totalFiles, failures, runID}
	}

	if _, err := hs.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordScore stores a per-movie cutoff score. Re-recording the same movie
// within a run replaces the earlier row.
func (hs *HistoryStoreImpl) RecordScore(runID int64, summary schema.MovieSummary) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(scoresTable, hs.backend)
	recordedAt := time.Now()

	var query string
	switch hs.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf(`
			INSERT INTO %s (run_id, movie, release_date, cutoff_day, effective_day,
			                percent_fresh, fresh_count, total_count, recorded_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE
				release_date = VALUES(release_date), cutoff_day = VALUES(cutoff_day),
				effective_day = VALUES(effective_day), percent_fresh = VALUES(percent_fresh),
				fresh_count = VALUES(fresh_count), total_count = VALUES(total_count),
				recorded_at = VALUES(recorded_at)
		`, quotedTableName)
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`
			INSERT INTO %s (run_id, movie, release_date, cutoff_day, effective_day,
			                percent_fresh, fresh_count, total_count, recorded_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (run_id, movie) DO UPDATE SET
				release_date = EXCLUDED.release_date, cutoff_day = EXCLUDED.cutoff_day,
				effective_day = EXCLUDED.effective_day, percent_fresh = EXCLUDED.percent_fresh,
				fresh_count = EXCLUDED.fresh_count, total_count = EXCLUDED.total_count,
				recorded_at = EXCLUDED.recorded_at
		`, quotedTableName)
	default: // SQLite
		query = fmt.Sprintf(`
			INSERT INTO %s (run_id, movie, release_date, cutoff_day, effective_day,
			                percent_fresh, fresh_count, total_count, recorded_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (run_id, movie) DO UPDATE SET
				release_date = excluded.release_date, cutoff_day = excluded.cutoff_day,
				effective_day = excluded.effective_day, percent_fresh = excluded.percent_fresh,
				fresh_count = excluded.fresh_count, total_count = excluded.total_count,
				recorded_at = excluded.recorded_at
		`, quotedTableName)
	}

	args := []any{
		runID, summary.Movie, formatTime(summary.ReleaseDate, hs.backend),
		summary.CutoffDay, summary.EffectiveDay, summary.PercentFresh,
		summary.FreshCount, summary.TotalCount, formatTime(recordedAt, hs.backend),
	}

	if _, err := hs.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert score for %s: %w", summary.Movie, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (hs *HistoryStoreImpl) ListRuns(limit int) ([]schema.RunRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)

	var query string
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT run_id, start_time, end_time, cutoff_day, total_files, failures FROM %s ORDER BY run_id DESC LIMIT $1`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT run_id, start_time, end_time, cutoff_day, total_files, failures FROM %s ORDER BY run_id DESC LIMIT ?`, quotedTableName)
	}

	rows, err := hs.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord

		switch hs.backend {
		case schema.SQLiteBackend:
			var startStr string
			var endStr sql.NullString
			if err := rows.Scan(&record.RunID, &startStr, &endStr, &record.CutoffDay, &record.TotalFiles, &record.Failures); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			record.StartTime, err = time.Parse(time.RFC3339Nano, startStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endStr.Valid {
				endTime, err := time.Parse(time.RFC3339Nano, endStr.String)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL store as native datetime
			var endTime sql.NullTime
			if err := rows.Scan(&record.RunID, &record.StartTime, &endTime, &record.CutoffDay, &record.TotalFiles, &record.Failures); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			if endTime.Valid {
				t := endTime.Time
				record.EndTime = &t
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return results, nil
}

// ListScores returns the scores recorded for a run, ordered by movie.
func (hs *HistoryStoreImpl) ListScores(runID int64) ([]schema.ScoreRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(scoresTable, hs.backend)

	var query string
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT run_id, movie, release_date, cutoff_day, effective_day, percent_fresh, fresh_count, total_count, recorded_at FROM %s WHERE run_id = $1 ORDER BY movie`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT run_id, movie, release_date, cutoff_day, effective_day, percent_fresh, fresh_count, total_count, recorded_at FROM %s WHERE run_id = ? ORDER BY movie`, quotedTableName)
	}

	rows, err := hs.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ScoreRecord
	for rows.Next() {
		var record schema.ScoreRecord

		switch hs.backend {
		case schema.SQLiteBackend:
			var releaseStr, recordedStr string
			if err := rows.Scan(&record.RunID, &record.Movie, &releaseStr, &record.CutoffDay, &record.EffectiveDay,
				&record.PercentFresh, &record.FreshCount, &record.TotalCount, &recordedStr); err != nil {
				return nil, fmt.Errorf("failed to scan score: %w", err)
			}
			record.ReleaseDate, err = time.Parse(time.RFC3339Nano, releaseStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse release_date: %w", err)
			}
			record.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse recorded_at: %w", err)
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.Movie, &record.ReleaseDate, &record.CutoffDay, &record.EffectiveDay,
				&record.PercentFresh, &record.FreshCount, &record.TotalCount, &record.RecordedAt); err != nil {
				return nil, fmt.Errorf("failed to scan score: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scores: %w", err)
	}

	return results, nil
}

// GetStatus returns status information about the store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{Backend: string(hs.backend)}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	if err := hs.db.Ping(); err != nil {
		return status, nil
	}
	status.Connected = true

	quotedTableName := quoteTableName(runsTable, hs.backend)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, quotedTableName)
	if err := hs.db.QueryRow(query).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to count runs: %w", err)
	}

	if status.TotalRuns > 0 {
		runs, err := hs.ListRuns(1)
		if err != nil {
			return status, err
		}
		if len(runs) > 0 {
			status.LastRun = runs[0].StartTime
		}
	}

	return status, nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// quoteTableName quotes a table name with the backend's identifier quoting.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("%q", name)
	}
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}
