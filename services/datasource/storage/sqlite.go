package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/iulianpascalau/electric-monitoring/services/datasource/common"
	_ "github.com/mattn/go-sqlite3"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const memoryPath = ":memory:"

var log = logger.GetOrCreate("storage")

// ArgsSQLiteStorage is the DTO used to create a new sqlite storage
type ArgsSQLiteStorage struct {
	Path             string
	RetentionSeconds int
	TimeZoneOffset   int64
}

// sqliteStorage keeps every reading at the 1 second resolution and its running averages at the coarser ones
type sqliteStorage struct {
	db               *sql.DB
	retentionSeconds int
	timeZoneOffset   int64
	timeFunc         func() time.Time
	cancelFunc       context.CancelFunc
	wg               sync.WaitGroup
}

// NewSQLiteStorage creates the database, schema, and starts the retention cleaner
func NewSQLiteStorage(args ArgsSQLiteStorage) (*sqliteStorage, error) {
	err := prepareDirectories(args.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial empty DB file: %w", err)
	}

	db, err := sql.Open("sqlite3", args.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if args.Path == memoryPath {
		// every connection to :memory: opens a distinct database
		db.SetMaxOpenConns(1)
	}

	err = createSchema(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &sqliteStorage{
		db:               db,
		retentionSeconds: args.RetentionSeconds,
		timeZoneOffset:   args.TimeZoneOffset,
		timeFunc:         time.Now,
		cancelFunc:       cancel,
	}

	if s.retentionSeconds > 0 {
		s.startRetentionCleaner(ctx)
	}

	return s, nil
}

func prepareDirectories(dbPath string) error {
	if dbPath == memoryPath {
		return nil
	}

	return os.MkdirAll(filepath.Dir(dbPath), os.ModePerm)
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS readings (
		resolution   INTEGER NOT NULL,
		channel      TEXT    NOT NULL,
		timestamp    INTEGER NOT NULL,
		power        REAL    NOT NULL,
		voltage      REAL,
		volt_amperes REAL,
		samples      INTEGER NOT NULL DEFAULT 1,
		PRIMARY KEY (resolution, channel, timestamp)
	);

	CREATE INDEX IF NOT EXISTS idx_readings_resolution_timestamp ON readings(resolution, timestamp);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// SaveReadings stores the readings and folds them into the coarser resolutions. Readings already stored for the
// same channel and timestamp are ignored. Returns the number of stored readings
func (s *sqliteStorage) SaveReadings(ctx context.Context, readings []common.Reading) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	numStored := 0
	for _, reading := range readings {
		stored, errSave := s.saveReading(ctx, tx, reading)
		if errSave != nil {
			return 0, errSave
		}
		if stored {
			numStored++
		}
	}

	err = tx.Commit()
	if err != nil {
		return 0, fmt.Errorf("failed to commit readings: %w", err)
	}

	return numStored, nil
}

func (s *sqliteStorage) saveReading(ctx context.Context, tx *sql.Tx, reading common.Reading) (bool, error) {
	result, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO readings (resolution, channel, timestamp, power, voltage, volt_amperes)
		VALUES (?, ?, ?, ?, ?, ?)
	`, common.Resolutions[0].Seconds, reading.Channel, reading.Timestamp, reading.Power, reading.Voltage, reading.VoltAmperes)
	if err != nil {
		return false, fmt.Errorf("failed to insert reading: %w", err)
	}

	numRows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if numRows == 0 {
		log.Trace("duplicate reading ignored", "channel", reading.Channel, "timestamp", reading.Timestamp)
		return false, nil
	}

	for _, res := range common.Resolutions[1:] {
		bucket := common.BucketStart(reading.Timestamp, res.Seconds, s.timeZoneOffset)
		_, err = tx.ExecContext(ctx, `
			INSERT INTO readings (resolution, channel, timestamp, power, voltage, volt_amperes)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(resolution, channel, timestamp) DO UPDATE SET
				power = (power * samples + excluded.power) / (samples + 1),
				voltage = CASE
					WHEN excluded.voltage IS NULL THEN voltage
					WHEN voltage IS NULL THEN excluded.voltage
					ELSE (voltage * samples + excluded.voltage) / (samples + 1)
				END,
				volt_amperes = CASE
					WHEN excluded.volt_amperes IS NULL THEN volt_amperes
					WHEN volt_amperes IS NULL THEN excluded.volt_amperes
					ELSE (volt_amperes * samples + excluded.volt_amperes) / (samples + 1)
				END,
				samples = samples + 1
		`, res.Seconds, reading.Channel, bucket, reading.Power, reading.Voltage, reading.VoltAmperes)
		if err != nil {
			return false, fmt.Errorf("failed to accumulate reading at resolution %d: %w", res.Seconds, err)
		}
	}

	return true, nil
}

// Bounds returns the earliest stored timestamp at any resolution and the latest timestamp every channel reached
func (s *sqliteStorage) Bounds(ctx context.Context) (common.Bounds, error) {
	var minimum sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT MIN(timestamp) FROM readings").Scan(&minimum)
	if err != nil {
		return common.Bounds{}, fmt.Errorf("failed to read the minimum: %w", err)
	}

	var maximum sql.NullInt64
	err = s.db.QueryRowContext(ctx, `
		SELECT MIN(latest) FROM (
			SELECT MAX(timestamp) AS latest FROM readings WHERE resolution = ? GROUP BY channel
		)
	`, common.Resolutions[0].Seconds).Scan(&maximum)
	if err != nil {
		return common.Bounds{}, fmt.Errorf("failed to read the maximum: %w", err)
	}

	if !minimum.Valid || !maximum.Valid {
		return common.Bounds{}, nil
	}

	return common.Bounds{
		Minimum: minimum.Int64,
		Maximum: maximum.Int64,
		HasData: true,
	}, nil
}

// Channels returns the known channels, sorted
func (s *sqliteStorage) Channels(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT channel FROM readings ORDER BY channel")
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	channels := make([]string, 0)
	for rows.Next() {
		var channel string
		err = rows.Scan(&channel)
		if err != nil {
			return nil, err
		}
		channels = append(channels, channel)
	}

	return channels, rows.Err()
}

// ReadRange returns the readings stored at the resolution within [start, end], ordered by timestamp and channel
func (s *sqliteStorage) ReadRange(ctx context.Context, resolution int64, start int64, end int64) ([]common.Reading, error) {
	if start > end {
		return make([]common.Reading, 0), nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT channel, timestamp, power, voltage, volt_amperes
		FROM readings
		WHERE resolution = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp, channel
	`, resolution, start, end)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	readings := make([]common.Reading, 0)
	for rows.Next() {
		var reading common.Reading
		var voltage sql.NullFloat64
		var voltAmperes sql.NullFloat64

		err = rows.Scan(&reading.Channel, &reading.Timestamp, &reading.Power, &voltage, &voltAmperes)
		if err != nil {
			return nil, err
		}
		if voltage.Valid {
			reading.Voltage = &voltage.Float64
		}
		if voltAmperes.Valid {
			reading.VoltAmperes = &voltAmperes.Float64
		}

		readings = append(readings, reading)
	}

	return readings, rows.Err()
}

// cleanRetainedReadings prunes the 1 second readings older than the retention window
func (s *sqliteStorage) cleanRetainedReadings(ctx context.Context) error {
	cutoff := s.timeFunc().Unix() - int64(s.retentionSeconds)
	result, err := s.db.ExecContext(ctx, "DELETE FROM readings WHERE resolution = ? AND timestamp < ?", common.Resolutions[0].Seconds, cutoff)
	if err != nil {
		return err
	}

	numRows, _ := result.RowsAffected()
	log.Debug("retention cleanup done", "cutoff", cutoff, "removed", numRows)

	return nil
}

func (s *sqliteStorage) startRetentionCleaner(ctx context.Context) {
	s.wg.Add(1)

	// max(RetentionSeconds/10, 60)
	intervalSec := s.retentionSeconds / 10
	if intervalSec < 60 {
		intervalSec = 60
	}

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)

	go func() {
		defer s.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				err := s.cleanRetainedReadings(ctx)
				if err != nil {
					log.Warn("failed to cleanup retained readings", "error", err)
				}
			}
		}
	}()
}

// Close closes the database and stops background routines
func (s *sqliteStorage) Close() error {
	s.cancelFunc()
	s.wg.Wait()
	return s.db.Close()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *sqliteStorage) IsInterfaceNil() bool {
	return s == nil
}
