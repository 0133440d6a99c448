// Package migration provides a versioned schema migration runner.
//
// Usage (in database/migrations):
//
//	func init() {
//	    migration.Register("20250101000000_create_users_table", &CreateUsersTable{})
//	}
//
//	type CreateUsersTable struct{}
//	func (m *CreateUsersTable) Up(db *gorm.DB) error {
//	    return db.AutoMigrate(&models.User{})
//	}
//	func (m *CreateUsersTable) Down(db *gorm.DB) error {
//	    return db.Migrator().DropTable("users")
//	}
//
// Run from CLI:
//
//	staydesk migrate             // run all pending
//	staydesk migrate:rollback    // rollback last batch
package migration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"gorm.io/gorm"

	"github.com/staydesk/staydesk/pkg/logger"
)

// Migration is the interface every migration must implement.
type Migration interface {
	// Up applies the migration.
	Up(db *gorm.DB) error
	// Down reverses the migration.
	Down(db *gorm.DB) error
}

// record is the row stored in the tracking table.
type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "staydesk_migrations" }

// ErrNotRegistered is returned by Rollback when a recorded migration has no
// registered implementation.
var ErrNotRegistered = errors.New("migration: not registered")

// ------------------- Registry -------------------

type entry struct {
	name string
	m    Migration
}

var (
	mu       sync.Mutex
	registry []entry
)

// Register adds a migration to the global registry.
// name should be a timestamp-prefixed string, e.g. "20250101000000_create_users_table".
func Register(name string, m Migration) {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, entry{name: name, m: m})
}

// registered returns the registry sorted by name.
func registered() []entry {
	mu.Lock()
	out := append([]entry(nil), registry...)
	mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// ------------------- Runner -------------------

// Runner executes and tracks migrations. Progress lines go to out.
type Runner struct {
	db  *gorm.DB
	out io.Writer
}

// New creates a Runner backed by db. out may be io.Discard.
func New(db *gorm.DB, out io.Writer) *Runner {
	return &Runner{db: db, out: out}
}

func (r *Runner) ensureTable(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) ran(ctx context.Context) (map[string]record, error) {
	var rows []record
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: load history: %w", err)
	}
	out := make(map[string]record, len(rows))
	for _, row := range rows {
		out[row.Name] = row
	}
	return out, nil
}

// Pending returns the names of the migrations that have not run yet.
func (r *Runner) Pending(ctx context.Context) ([]string, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	ran, err := r.ran(ctx)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range registered() {
		if _, ok := ran[e.name]; !ok {
			names = append(names, e.name)
		}
	}
	return names, nil
}

// Run executes all pending migrations as one batch. Each migration and its
// history row commit together.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}
	ran, err := r.ran(ctx)
	if err != nil {
		return err
	}

	batch := r.lastBatch(ctx) + 1
	count := 0
	for _, e := range registered() {
		e := e
		if _, ok := ran[e.name]; ok {
			continue
		}

		logger.Info("migration: running", "name", e.name)
		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", e.name)

		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := e.m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&record{Name: e.name, Batch: batch}).Error
		})
		if err != nil {
			return fmt.Errorf("migration: %s up: %w", e.name, err)
		}

		fmt.Fprintf(r.out, "  ✅ Migrated:  %s\n", e.name)
		count++
	}

	if count == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}
	logger.Info("migration: done", "ran", count, "batch", batch)
	return nil
}

// Rollback reverses every migration of the most recent batch, newest first.
func (r *Runner) Rollback(ctx context.Context) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}

	batch := r.lastBatch(ctx)
	if batch == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	var rows []record
	if err := r.db.WithContext(ctx).Where("batch = ?", batch).Order("id desc").Find(&rows).Error; err != nil {
		return fmt.Errorf("migration: load batch %d: %w", batch, err)
	}

	byName := make(map[string]Migration)
	for _, e := range registered() {
		byName[e.name] = e.m
	}

	for _, row := range rows {
		row := row
		m, ok := byName[row.Name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotRegistered, row.Name)
		}

		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", row.Name)
		logger.Info("migration: rolling back", "name", row.Name)

		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&record{}, row.ID).Error
		})
		if err != nil {
			return fmt.Errorf("migration: %s down: %w", row.Name, err)
		}

		fmt.Fprintf(r.out, "  ✅ Rolled back:  %s\n", row.Name)
	}
	return nil
}

// Status writes every registered migration with its batch, or Pending.
func (r *Runner) Status(ctx context.Context) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}
	ran, err := r.ran(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MIGRATION\tSTATUS\tBATCH")
	for _, e := range registered() {
		if row, ok := ran[e.name]; ok {
			fmt.Fprintf(w, "%s\tRan\t%d\n", e.name, row.Batch)
		} else {
			fmt.Fprintf(w, "%s\tPending\t-\n", e.name)
		}
	}
	return w.Flush()
}

func (r *Runner) lastBatch(ctx context.Context) int {
	var out struct{ Max int }
	r.db.WithContext(ctx).Model(&record{}).Select("COALESCE(MAX(batch), 0) AS max").Scan(&out)
	return out.Max
}
