package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// StateEntryModel is the GORM model for the state_entries table
type StateEntryModel struct {
	Path      string `gorm:"primaryKey"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (StateEntryModel) TableName() string { return "state_entries" }

// SQLiteBackend persists state entries in a SQLite database via GORM
type SQLiteBackend struct {
	db *gorm.DB
}

// Verify interface compliance at compile time
var _ Backend = (*SQLiteBackend)(nil)

// gormLogger routes GORM output to slog
type gormLogger struct {
	log   *slog.Logger
	level logger.LogLevel
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{log: l.log, level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		l.log.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		l.log.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		l.log.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}

	sql, rows := fc()
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		l.log.Error("gorm query error", "error", err, "duration", time.Since(begin), "sql", sql, "rows", rows)
		return
	}
	l.log.Debug("gorm query", "duration", time.Since(begin), "sql", sql, "rows", rows)
}

// OpenSQLite opens (creating if needed) the state database at dbPath.
// A leading "~" is expanded to the home directory.
func OpenSQLite(dbPath string, log *slog.Logger) (*SQLiteBackend, error) {
	if len(dbPath) > 0 && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	level := logger.Silent
	if log.Enabled(context.Background(), slog.LevelDebug) {
		level = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  (&gormLogger{log: log}).LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	applyPragmas(db, log,
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	)

	if err := db.AutoMigrate(&StateEntryModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate state schema: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

// applyPragmas runs connection tuning statements. A failure only costs
// performance, so it is logged and the database stays usable.
func applyPragmas(db *gorm.DB, log *slog.Logger, pragmas ...string) {
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			log.Warn("failed to apply sqlite pragma", "pragma", pragma, "error", err)
		}
	}
}

func (b *SQLiteBackend) Load(ctx context.Context, path string) ([]byte, bool, error) {
	var entry StateEntryModel
	err := b.db.WithContext(ctx).Where("path = ?", path).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load state entry: %w", err)
	}
	return entry.Value, true, nil
}

func (b *SQLiteBackend) Save(ctx context.Context, path string, value []byte) error {
	entry := StateEntryModel{Path: path, Value: value}
	err := b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to save state entry: %w", err)
	}
	return nil
}

// Close closes the underlying database connection
func (b *SQLiteBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
