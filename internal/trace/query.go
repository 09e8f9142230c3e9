// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/trace/query.go
// Summary: Read side of the journal used by `cuervo -dump-trace`.

package trace

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
)

// ErrNoRuns is returned when the journal holds no runs.
var ErrNoRuns = errors.New("no recorded runs")

func queryEvents(db *sql.DB, runID uuid.UUID, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.Query(
		"SELECT seq, timestamp, context, kind, detail FROM events WHERE run_id = ? ORDER BY seq LIMIT ?",
		runID.String(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e  Entry
			ts int64
		)
		if err := rows.Scan(&e.Seq, &ts, &e.Context, &e.Kind, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Timestamp = time.Unix(0, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

func lastRun(db *sql.DB) (Run, error) {
	var (
		r       Run
		id      string
		started int64
	)
	err := db.QueryRow("SELECT id, started, version, locale FROM runs ORDER BY started DESC LIMIT 1").
		Scan(&id, &started, &r.Version, &r.Locale)
	if err == sql.ErrNoRows {
		return Run{}, ErrNoRuns
	}
	if err != nil {
		return Run{}, fmt.Errorf("query runs: %w", err)
	}
	r.ID, err = uuid.Parse(id)
	if err != nil {
		return Run{}, fmt.Errorf("parse run id %q: %w", id, err)
	}
	r.Started = time.Unix(0, started)
	return r, nil
}

// DumpLast writes the most recent run in path to w, at most limit events.
func DumpLast(w io.Writer, path string, limit int) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("open trace: %w", err)
	}
	db, err := openDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := lastRun(db)
	if err != nil {
		return err
	}
	events, err := queryEvents(db, run.ID, limit)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "run %s started %s (%s, %s)\n",
		run.ID, run.Started.Format("2006-01-02 15:04:05"), run.Version, run.Locale)
	for _, e := range events {
		fmt.Fprintf(w, "%6d %s %s\n", e.Seq, e.Timestamp.Format("15:04:05.000"), e.Detail)
	}
	return nil
}
