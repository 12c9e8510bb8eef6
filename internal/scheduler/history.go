package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aleister1102/seotracker/internal/tracker"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// Cycle statuses stored in the history table
const (
	CycleStatusCompleted   = "COMPLETED"
	CycleStatusInterrupted = "INTERRUPTED"
	CycleStatusFailed      = "FAILED"
)

// HistoryDB records finished cycles in SQLite.
type HistoryDB struct {
	db     *sql.DB
	logger zerolog.Logger
}

// CycleHistoryEntry represents a record in the cycle_history table.
type CycleHistoryEntry struct {
	ID          int64
	CycleID     string
	StartTime   time.Time
	EndTime     time.Time
	Status      string
	RowsTotal   int
	RowsChecked int
	RowsSkipped int
	Changes     int
	Notified    bool
	ErrorText   sql.NullString
}

// NewHistoryDB opens the database at path and ensures the schema exists.
func NewHistoryDB(path string, logger zerolog.Logger) (*HistoryDB, error) {
	logger = logger.With().Str("component", "CycleHistory").Logger()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history database directory: %w", err)
	}

	dbInstance, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sql.Open failed for %s: %w", path, err)
	}
	dbInstance.SetMaxOpenConns(1)

	h := &HistoryDB{db: dbInstance, logger: logger}
	if err := h.initSchema(); err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	logger.Info().Str("path", path).Msg("Cycle history database ready")
	return h, nil
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}

func (h *HistoryDB) initSchema() error {
	_, err := h.db.Exec(`
	CREATE TABLE IF NOT EXISTS cycle_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		cycle_id TEXT NOT NULL,
		start_time INTEGER NOT NULL,
		end_time INTEGER NOT NULL,
		status TEXT NOT NULL,
		rows_total INTEGER DEFAULT 0,
		rows_checked INTEGER DEFAULT 0,
		rows_skipped INTEGER DEFAULT 0,
		changes INTEGER DEFAULT 0,
		notified INTEGER DEFAULT 0,
		error_text TEXT
	);`)
	return err
}

// RecordCycle stores the outcome of one cycle. result may be nil when the
// cycle failed before producing a summary.
func (h *HistoryDB) RecordCycle(ctx context.Context, start, end time.Time, result *tracker.CycleResult, cycleErr error) (int64, error) {
	entry := CycleHistoryEntry{
		CycleID:   fmt.Sprintf("cycle-%s", start.Format("20060102-150405")),
		StartTime: start,
		EndTime:   end,
		Status:    CycleStatusCompleted,
	}
	if result != nil {
		entry.CycleID = result.CycleID
		entry.RowsTotal = result.RowsTotal
		entry.RowsChecked = result.RowsChecked
		entry.RowsSkipped = result.RowsSkipped
		entry.Changes = result.Changes
		entry.Notified = result.Notified
		if result.Interrupted {
			entry.Status = CycleStatusInterrupted
		}
	}
	if cycleErr != nil {
		entry.Status = CycleStatusFailed
		entry.ErrorText = sql.NullString{String: cycleErr.Error(), Valid: true}
	}

	res, err := h.db.ExecContext(ctx,
		`INSERT INTO cycle_history (cycle_id, start_time, end_time, status, rows_total, rows_checked, rows_skipped, changes, notified, error_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.CycleID, entry.StartTime.UnixNano(), entry.EndTime.UnixNano(), entry.Status,
		entry.RowsTotal, entry.RowsChecked, entry.RowsSkipped, entry.Changes, entry.Notified, entry.ErrorText,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert cycle record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	h.logger.Debug().Int64("db_id", id).Str("cycle_id", entry.CycleID).Str("status", entry.Status).Msg("Recorded cycle")
	return id, nil
}

// GetLastCycleTime returns the start time of the most recent completed
// cycle, or nil when none has completed yet.
func (h *HistoryDB) GetLastCycleTime(ctx context.Context) (*time.Time, error) {
	var nanos int64
	err := h.db.QueryRowContext(ctx,
		`SELECT start_time FROM cycle_history WHERE status = ? ORDER BY start_time DESC LIMIT 1`,
		CycleStatusCompleted,
	).Scan(&nanos)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last cycle time: %w", err)
	}
	t := time.Unix(0, nanos)
	return &t, nil
}

// ListRecent returns up to limit cycles, newest first.
func (h *HistoryDB) ListRecent(ctx context.Context, limit int) ([]CycleHistoryEntry, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, cycle_id, start_time, end_time, status, rows_total, rows_checked, rows_skipped, changes, notified, error_text
		FROM cycle_history ORDER BY start_time DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query cycle history: %w", err)
	}
	defer rows.Close()

	var entries []CycleHistoryEntry
	for rows.Next() {
		var (
			e          CycleHistoryEntry
			start, end int64
		)
		if err := rows.Scan(&e.ID, &e.CycleID, &start, &end, &e.Status, &e.RowsTotal, &e.RowsChecked,
			&e.RowsSkipped, &e.Changes, &e.Notified, &e.ErrorText); err != nil {
			return nil, fmt.Errorf("failed to scan cycle history row: %w", err)
		}
		e.StartTime = time.Unix(0, start)
		e.EndTime = time.Unix(0, end)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
