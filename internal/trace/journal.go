// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/trace/journal.go
// Summary: SQLite journal of engine events, one run per process.
//
// Provides:
//   - Async batch recording so the tick loop never waits on disk
//   - Per-run ids so several sessions share one database
//   - Read helpers for dumping the most recent run

package trace

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/framegrace/cuervo/internal/embedder"
)

// Config holds configuration for the journal.
type Config struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BatchSize is the number of entries to accumulate before flushing.
	// Default: 64
	BatchSize int

	// BatchTimeout is how long to wait before flushing a partial batch.
	// Default: 1s
	BatchTimeout time.Duration

	// ChannelBuffer is the size of the async recording channel.
	// Default: 1024
	ChannelBuffer int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(dbPath string) Config {
	return Config{
		DBPath:        dbPath,
		BatchSize:     64,
		BatchTimeout:  time.Second,
		ChannelBuffer: 1024,
	}
}

// RunInfo describes the process that owns a run.
type RunInfo struct {
	Version string
	Locale  string
}

// Run is a stored run row.
type Run struct {
	ID      uuid.UUID
	Started time.Time
	Version string
	Locale  string
}

// Entry is a stored event row.
type Entry struct {
	Seq       int64
	Timestamp time.Time
	Context   string
	Kind      string
	Detail    string
}

type entry struct {
	seq     int64
	ts      time.Time
	context string
	kind    string
	detail  string
}

// Journal records engine events for one run.
type Journal struct {
	config Config
	db     *sql.DB
	runID  uuid.UUID

	seq     atomic.Int64
	dropped atomic.Int64

	batchChan chan entry
	stopCh    chan struct{}
	doneCh    chan struct{}
	flushCh   chan chan struct{}
	closeOnce sync.Once

	mu sync.Mutex
}

const journalSchema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    started INTEGER NOT NULL,       -- UnixNano
    version TEXT NOT NULL,
    locale TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
    run_id TEXT NOT NULL REFERENCES runs(id),
    seq INTEGER NOT NULL,
    timestamp INTEGER NOT NULL,     -- UnixNano
    context TEXT NOT NULL,
    kind TEXT NOT NULL,
    detail TEXT NOT NULL,
    PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started);
`

func openDB(path string) (*sql.DB, error) {
	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(2000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

// Open creates the database if needed and starts a new run.
func Open(config Config, info RunInfo) (*Journal, error) {
	def := DefaultConfig(config.DBPath)
	if config.BatchSize <= 0 {
		config.BatchSize = def.BatchSize
	}
	if config.BatchTimeout <= 0 {
		config.BatchTimeout = def.BatchTimeout
	}
	if config.ChannelBuffer <= 0 {
		config.ChannelBuffer = def.ChannelBuffer
	}

	if err := os.MkdirAll(filepath.Dir(config.DBPath), 0o750); err != nil {
		return nil, fmt.Errorf("create trace directory: %w", err)
	}
	db, err := openDB(config.DBPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(journalSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	runID := uuid.New()
	if _, err := db.Exec(
		"INSERT INTO runs (id, started, version, locale) VALUES (?, ?, ?, ?)",
		runID.String(), time.Now().UnixNano(), info.Version, info.Locale,
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("insert run: %w", err)
	}

	j := &Journal{
		config:    config,
		db:        db,
		runID:     runID,
		batchChan: make(chan entry, config.ChannelBuffer),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		flushCh:   make(chan chan struct{}),
	}
	go j.batchWriter()
	log.Printf("Trace: recording run %s to %s", runID, config.DBPath)
	return j, nil
}

// RunID identifies the current run.
func (j *Journal) RunID() uuid.UUID { return j.runID }

// Record queues env for writing. It never blocks; if the queue is full the
// event is dropped and counted.
func (j *Journal) Record(ts time.Time, env embedder.Envelope) {
	kind := "<nil>"
	if env.Event != nil {
		kind = env.Event.Kind()
	}
	e := entry{
		seq:     j.seq.Add(1),
		ts:      ts,
		context: string(env.Context),
		kind:    kind,
		detail:  env.String(),
	}
	select {
	case <-j.stopCh:
		return
	default:
	}
	select {
	case j.batchChan <- e:
	default:
		j.dropped.Add(1)
	}
}

// batchWriter runs in a background goroutine, batching entries and flushing periodically.
func (j *Journal) batchWriter() {
	defer close(j.doneCh)

	batch := make([]entry, 0, j.config.BatchSize)
	timer := time.NewTimer(j.config.BatchTimeout)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		j.flushBatch(batch)
		batch = batch[:0]
	}
	drain := func() {
		for {
			select {
			case e := <-j.batchChan:
				batch = append(batch, e)
			default:
				return
			}
		}
	}

	for {
		select {
		case e := <-j.batchChan:
			batch = append(batch, e)
			if len(batch) >= j.config.BatchSize {
				flush()
				timer.Reset(j.config.BatchTimeout)
			}
		case <-timer.C:
			flush()
			timer.Reset(j.config.BatchTimeout)
		case done := <-j.flushCh:
			drain()
			flush()
			close(done)
		case <-j.stopCh:
			drain()
			flush()
			return
		}
	}
}

// flushBatch writes a batch of entries in a single transaction.
func (j *Journal) flushBatch(batch []entry) {
	j.mu.Lock()
	defer j.mu.Unlock()

	tx, err := j.db.Begin()
	if err != nil {
		log.Printf("Trace: begin transaction: %v", err)
		return
	}
	stmt, err := tx.Prepare("INSERT OR REPLACE INTO events (run_id, seq, timestamp, context, kind, detail) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		log.Printf("Trace: prepare statement: %v", err)
		tx.Rollback()
		return
	}
	defer stmt.Close()

	run := j.runID.String()
	for _, e := range batch {
		if _, err := stmt.Exec(run, e.seq, e.ts.UnixNano(), e.context, e.kind, e.detail); err != nil {
			log.Printf("Trace: insert event %d: %v", e.seq, err)
			tx.Rollback()
			return
		}
	}
	if err := tx.Commit(); err != nil {
		log.Printf("Trace: commit batch: %v", err)
	}
}

// Flush blocks until all queued entries are written.
func (j *Journal) Flush() {
	done := make(chan struct{})
	select {
	case j.flushCh <- done:
		<-done
	case <-j.stopCh:
	}
}

// Events returns the entries of the current run in order.
func (j *Journal) Events(limit int) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return queryEvents(j.db, j.runID, limit)
}

// Close flushes pending writes and closes the database.
func (j *Journal) Close() error {
	var err error
	j.closeOnce.Do(func() {
		close(j.stopCh)
		<-j.doneCh
		if n := j.dropped.Load(); n > 0 {
			log.Printf("Trace: dropped %d events", n)
		}
		err = j.db.Close()
	})
	return err
}
