package results

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/waf-sim/waf-sim/nand/experiment"
)

const timeFormat = time.RFC3339Nano

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id     TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	seed       INTEGER NOT NULL,
	started_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS disks (
	run_id            TEXT NOT NULL REFERENCES runs(run_id),
	disk              TEXT NOT NULL,
	total_blocks      INTEGER NOT NULL,
	pages_per_block   INTEGER NOT NULL,
	page_size         INTEGER NOT NULL,
	write_policy      TEXT NOT NULL,
	garbage_collector TEXT NOT NULL,
	summary           TEXT NOT NULL,
	PRIMARY KEY (run_id, disk)
);
CREATE TABLE IF NOT EXISTS samples (
	run_id        TEXT NOT NULL,
	disk          TEXT NOT NULL,
	sample_index  INTEGER NOT NULL,
	time          REAL,
	iops          REAL,
	datarate      REAL,
	amplification REAL,
	host_write    INTEGER NOT NULL,
	host_read     INTEGER NOT NULL,
	disk_write    INTEGER NOT NULL,
	disk_read     INTEGER NOT NULL,
	block_erased  INTEGER NOT NULL,
	failures      INTEGER NOT NULL,
	PRIMARY KEY (run_id, disk, sample_index),
	FOREIGN KEY (run_id, disk) REFERENCES disks(run_id, disk)
);
`

// Store persists experiment results in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the database at path and migrates the schema.
// ":memory:" gives a private in-memory database.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening results db: %w", err)
	}
	// One connection: keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating results db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// nullable maps undefined statistics to NULL.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// SaveResult writes a run, its disks and every sample in one transaction.
func (s *Store) SaveResult(ctx context.Context, res *experiment.Result) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, name, seed, started_at) VALUES (?, ?, ?, ?)`,
		res.RunID, res.Name, res.Seed, res.StartedAt.UTC().Format(timeFormat)); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	sampleStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO samples (run_id, disk, sample_index, time, iops, datarate, amplification,
			host_write, host_read, disk_write, disk_read, block_erased, failures)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer sampleStmt.Close()

	for _, d := range res.Disks {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO disks (run_id, disk, total_blocks, pages_per_block, page_size,
				write_policy, garbage_collector, summary)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			res.RunID, d.Name, d.Config.TotalBlocks, d.Config.PagesPerBlock, d.Config.PageSize,
			string(d.Config.WritePolicy), string(d.Config.GarbageCollector), d.Summary); err != nil {
			return fmt.Errorf("inserting disk %q: %w", d.Name, err)
		}
		for _, smp := range d.Samples {
			if _, err = sampleStmt.ExecContext(ctx, res.RunID, d.Name, smp.Index,
				nullable(smp.Time), nullable(smp.IOPS), nullable(smp.DataRate), nullable(smp.Amplification),
				smp.HostWrites, smp.HostReads, smp.DiskWrites, smp.DiskReads, smp.BlocksErased, smp.FailedWrites); err != nil {
				return fmt.Errorf("inserting sample %d of disk %q: %w", smp.Index, d.Name, err)
			}
		}
	}
	return tx.Commit()
}

// Samples returns the stored series of one disk, NULL statistics as NaN.
func (s *Store) Samples(ctx context.Context, runID, disk string) ([]experiment.Sample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sample_index, time, iops, datarate, amplification,
			host_write, host_read, disk_write, disk_read, block_erased, failures
		FROM samples
		WHERE run_id = ? AND disk = ?
		ORDER BY sample_index ASC`, runID, disk)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []experiment.Sample
	for rows.Next() {
		var smp experiment.Sample
		var t, iops, rate, amp sql.NullFloat64
		if err := rows.Scan(&smp.Index, &t, &iops, &rate, &amp,
			&smp.HostWrites, &smp.HostReads, &smp.DiskWrites, &smp.DiskReads, &smp.BlocksErased, &smp.FailedWrites); err != nil {
			return nil, err
		}
		smp.Time, smp.IOPS, smp.DataRate, smp.Amplification = orNaN(t), orNaN(iops), orNaN(rate), orNaN(amp)
		samples = append(samples, smp)
	}
	return samples, rows.Err()
}

// RunIDs returns every stored run of the named experiment, oldest first.
func (s *Store) RunIDs(ctx context.Context, name string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id FROM runs WHERE name = ? ORDER BY started_at ASC`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
