package migrations

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"text/template"
	"time"

	"github.com/jmoiron/sqlx"
)

// Dir is where generated migration files are written, relative to the repository root.
const Dir = "./internal/migrations"

//go:embed template.txt
var migrationTemplate string

var titlePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

type migration struct {
	version string
	done    bool
	up      func(*sqlx.Tx) error
	down    func(*sqlx.Tx) error
}

// Migrator applies the migrations registered by the files in this package, in version order.
type Migrator struct {
	db         *sqlx.DB
	versions   []string
	migrations map[string]*migration
}

// MigrationState reports whether a registered version has been applied.
type MigrationState struct {
	Version string
	Done    bool
}

var m = &Migrator{
	versions:   []string{},
	migrations: map[string]*migration{},
}

// NewMigrator binds the registered migrations to db and loads the versions already
// recorded in metadata.schema_migrations.
func NewMigrator(db *sqlx.DB) (*Migrator, error) {
	m.db = db

	if _, err := m.db.Exec(`CREATE SCHEMA IF NOT EXISTS metadata`); err != nil {
		slog.Error("Unable to create metadata schema", slog.Any("error", err))
		return nil, err
	}

	if _, err := m.db.Exec(`CREATE TABLE IF NOT EXISTS metadata.schema_migrations (version varchar(255))`); err != nil {
		slog.Error("Unable to create `schema_migrations` table", slog.Any("error", err))
		return nil, err
	}

	var applied []string
	if err := m.db.Select(&applied, `SELECT version FROM metadata.schema_migrations`); err != nil {
		slog.Error("Unable to fetch completed migrations", slog.Any("error", err))
		return nil, err
	}

	for _, mg := range m.migrations {
		mg.done = false
	}
	for _, v := range applied {
		if mg, ok := m.migrations[v]; ok {
			mg.done = true
		}
	}

	return m, nil
}

// addMigration registers mg, keeping versions sorted.
func (m *Migrator) addMigration(mg *migration) {
	m.migrations[mg.version] = mg

	i := 0
	for i < len(m.versions) && m.versions[i] <= mg.version {
		i++
	}

	m.versions = append(m.versions, "")
	copy(m.versions[i+1:], m.versions[i:])
	m.versions[i] = mg.version
}

func (m *Migrator) Status() []MigrationState {
	states := make([]MigrationState, 0, len(m.versions))
	for _, v := range m.versions {
		states = append(states, MigrationState{Version: v, Done: m.migrations[v].done})
	}
	return states
}

// MigrationStatus logs every registered migration as completed or pending.
func (m *Migrator) MigrationStatus() error {
	for _, s := range m.Status() {
		state := "pending"
		if s.Done {
			state = "completed"
		}
		slog.Info(fmt.Sprintf("Migration %s... %s", s.Version, state))
	}

	return nil
}

// CreateMigration writes an empty migration named title into dir.
func (m *Migrator) CreateMigration(dir, title string) (string, error) {
	if !titlePattern.MatchString(title) {
		return "", fmt.Errorf("migration name %q must be lower snake case", title)
	}

	version := time.Now().Format("20060102150405")

	var out bytes.Buffer
	t := template.Must(template.New("migration").Parse(migrationTemplate))
	if err := t.Execute(&out, struct{ Version, Title string }{version, title}); err != nil {
		slog.Error("Unable to execute migration template", slog.Any("error", err))
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.go", version, title))
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		slog.Error("Unable to write the migration file", slog.Any("error", err))
		return "", err
	}

	slog.Info("Generated new migration file...", slog.String("filename", path))
	return path, nil
}

// Up applies up to step pending migrations, or all of them when step is 0.
func (m *Migrator) Up(step int) error {
	return m.run(step, m.versions, true)
}

// Down reverts up to step applied migrations, newest first, or all of them when step is 0.
func (m *Migrator) Down(step int) error {
	return m.run(step, reverse(m.versions), false)
}

// run executes the selected migrations in a single transaction and only updates
// their done state once it commits.
func (m *Migrator) run(step int, versions []string, up bool) (err error) {
	direction := "down"
	if up {
		direction = "up"
	}

	tx, err := m.db.BeginTxx(context.Background(), nil)
	if err != nil {
		slog.Error("Unable to start transaction to run migrations", slog.Any("error", err))
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			err = fmt.Errorf("%s migration panicked: %v", direction, r)
		}
	}()

	var touched []*migration
	for _, v := range versions {
		if step > 0 && len(touched) == step {
			break
		}

		mg := m.migrations[v]
		if mg.done == up {
			continue
		}

		l := slog.With(slog.String("version", mg.version), slog.String("direction", direction))
		l.Info("Running migration...")

		if err := m.apply(tx, mg, up); err != nil {
			_ = tx.Rollback()
			l.Error("Error occurred while running migration", slog.Any("error", err))
			return err
		}

		touched = append(touched, mg)
		l.Info("Finished migration...")
	}

	if err := tx.Commit(); err != nil {
		slog.Error("Unable to commit migrations", slog.Any("error", err))
		return err
	}

	for _, mg := range touched {
		mg.done = up
	}

	return nil
}

func (m *Migrator) apply(tx *sqlx.Tx, mg *migration, up bool) error {
	if up {
		if err := mg.up(tx); err != nil {
			return err
		}
		_, err := tx.Exec(`INSERT INTO metadata.schema_migrations VALUES ($1)`, mg.version)
		return err
	}

	if err := mg.down(tx); err != nil {
		return err
	}
	_, err := tx.Exec(`DELETE FROM metadata.schema_migrations WHERE version = $1`, mg.version)
	return err
}

// reverse returns a reversed copy; m.versions must stay sorted.
func reverse(arr []string) []string {
	out := make([]string, len(arr))
	for i, v := range arr {
		out[len(arr)-i-1] = v
	}
	return out
}
