// Package sqlite persists templates and submissions in SQLite through the
// pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-formdoc/pkg/model"
	"github.com/goliatone/go-formdoc/pkg/render"
	"github.com/goliatone/go-formdoc/pkg/store"
)

const schema = `
	CREATE TABLE IF NOT EXISTS templates (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		markup TEXT NOT NULL,
		format TEXT NOT NULL,
		fields BLOB NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		template_id TEXT NOT NULL,
		data BLOB NOT NULL,
		submitted_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS submissions_template_idx ON submissions(template_id);
`

// Repository implements store.TemplateStore through Templates() and
// store.SubmissionStore through Submissions().
type Repository struct {
	db    *sql.DB
	clock store.Clock
}

// Option configures the repository.
type Option func(*Repository)

// WithClock overrides the time source used for timestamps.
func WithClock(clock store.Clock) Option {
	return func(r *Repository) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// New opens dsn and creates the tables when missing.
func New(ctx context.Context, dsn string, opts ...Option) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}

	repo := &Repository{db: db, clock: store.UTCNow}
	for _, opt := range opts {
		if opt != nil {
			opt(repo)
		}
	}
	return repo, nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Templates returns the template store view.
func (r *Repository) Templates() *Templates {
	return &Templates{repo: r}
}

// Submissions returns the submission store view.
func (r *Repository) Submissions() *Submissions {
	return &Submissions{repo: r}
}

// Templates is the sqlite-backed store.TemplateStore.
type Templates struct {
	repo *Repository
}

var _ store.TemplateStore = (*Templates)(nil)

const templateColumns = `id, title, description, markup, format, fields, created_at, updated_at`

func (s *Templates) List(ctx context.Context) ([]store.Template, error) {
	rows, err := s.repo.db.QueryContext(ctx, `SELECT `+templateColumns+` FROM templates ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list templates: %w", err)
	}
	defer rows.Close()

	var out []store.Template
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list templates: %w", err)
	}
	return out, nil
}

func (s *Templates) Get(ctx context.Context, id string) (store.Template, error) {
	row := s.repo.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM templates WHERE id = ?`, id)
	return scanTemplate(row)
}

// Put upserts tpl. The creation time of an existing row is preserved.
func (s *Templates) Put(ctx context.Context, tpl store.Template) (store.Template, error) {
	if tpl.ID != "" {
		existing, err := s.Get(ctx, tpl.ID)
		switch {
		case err == nil:
			tpl.CreatedAt = existing.CreatedAt
		case !errors.Is(err, store.ErrNotFound):
			return store.Template{}, err
		}
	}
	tpl.Prepare(s.repo.clock())

	fields, err := json.Marshal(tpl.Fields)
	if err != nil {
		return store.Template{}, fmt.Errorf("sqlite: encode fields: %w", err)
	}
	_, err = s.repo.db.ExecContext(ctx, `
		INSERT INTO templates(`+templateColumns+`)
		VALUES(?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title,
			description=excluded.description,
			markup=excluded.markup,
			format=excluded.format,
			fields=excluded.fields,
			updated_at=excluded.updated_at
	`, tpl.ID, tpl.Title, tpl.Description, tpl.Markup, string(tpl.Format), fields, formatTime(tpl.CreatedAt), formatTime(tpl.UpdatedAt))
	if err != nil {
		return store.Template{}, fmt.Errorf("sqlite: put template: %w", err)
	}
	return tpl, nil
}

func (s *Templates) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, s.repo.db, `DELETE FROM templates WHERE id = ?`, id)
}

// Submissions is the sqlite-backed store.SubmissionStore.
type Submissions struct {
	repo *Repository
}

var _ store.SubmissionStore = (*Submissions)(nil)

const submissionColumns = `id, template_id, data, submitted_at`

func (s *Submissions) List(ctx context.Context) ([]store.Submission, error) {
	return s.query(ctx, `SELECT `+submissionColumns+` FROM submissions ORDER BY submitted_at DESC, id`)
}

func (s *Submissions) ListByTemplate(ctx context.Context, templateID string) ([]store.Submission, error) {
	return s.query(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE template_id = ? ORDER BY submitted_at DESC, id`, templateID)
}

func (s *Submissions) query(ctx context.Context, query string, args ...any) ([]store.Submission, error) {
	rows, err := s.repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list submissions: %w", err)
	}
	defer rows.Close()

	var out []store.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list submissions: %w", err)
	}
	return out, nil
}

func (s *Submissions) Get(ctx context.Context, id string) (store.Submission, error) {
	row := s.repo.db.QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)
	return scanSubmission(row)
}

// Put inserts sub. Submissions are immutable so an existing id is an error.
func (s *Submissions) Put(ctx context.Context, sub store.Submission) (store.Submission, error) {
	if err := sub.Prepare(s.repo.clock()); err != nil {
		return store.Submission{}, err
	}
	data, err := json.Marshal(sub.Data)
	if err != nil {
		return store.Submission{}, fmt.Errorf("sqlite: encode submission data: %w", err)
	}
	_, err = s.repo.db.ExecContext(ctx, `INSERT INTO submissions(`+submissionColumns+`) VALUES(?,?,?,?)`,
		sub.ID, sub.TemplateID, data, formatTime(sub.SubmittedAt))
	if err != nil {
		return store.Submission{}, fmt.Errorf("sqlite: put submission: %w", err)
	}
	return sub, nil
}

func (s *Submissions) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, s.repo.db, `DELETE FROM submissions WHERE id = ?`, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row scanner) (store.Template, error) {
	var (
		tpl                  store.Template
		format               string
		fields               []byte
		createdAt, updatedAt string
	)
	if err := row.Scan(&tpl.ID, &tpl.Title, &tpl.Description, &tpl.Markup, &format, &fields, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Template{}, store.ErrNotFound
		}
		return store.Template{}, fmt.Errorf("sqlite: scan template: %w", err)
	}
	tpl.Format = render.ParseBodyFormat(format)
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &tpl.Fields); err != nil {
			return store.Template{}, fmt.Errorf("sqlite: decode fields: %w", err)
		}
	}
	if tpl.Fields == nil {
		tpl.Fields = []model.Field{}
	}
	var err error
	if tpl.CreatedAt, err = parseTime(createdAt); err != nil {
		return store.Template{}, err
	}
	if tpl.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return store.Template{}, err
	}
	return tpl, nil
}

func scanSubmission(row scanner) (store.Submission, error) {
	var (
		sub         store.Submission
		data        []byte
		submittedAt string
	)
	if err := row.Scan(&sub.ID, &sub.TemplateID, &data, &submittedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Submission{}, store.ErrNotFound
		}
		return store.Submission{}, fmt.Errorf("sqlite: scan submission: %w", err)
	}
	sub.Data = model.Values{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &sub.Data); err != nil {
			return store.Submission{}, fmt.Errorf("sqlite: decode submission data: %w", err)
		}
	}
	var err error
	if sub.SubmittedAt, err = parseTime(submittedAt); err != nil {
		return store.Submission{}, err
	}
	return sub, nil
}

func deleteRow(ctx context.Context, db *sql.DB, query, id string) error {
	res, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: delete: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Timestamps are stored as fixed-width UTC text so ORDER BY sorts them
// chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", raw, err)
	}
	return t, nil
}
