package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jobdeck/jobdeck/internal/domain/model"
	"github.com/jobdeck/jobdeck/pkg/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	company          TEXT NOT NULL DEFAULT '',
	location         TEXT NOT NULL DEFAULT '',
	type             TEXT NOT NULL DEFAULT '',
	salary_min       REAL,
	salary_max       REAL,
	salary_currency  TEXT NOT NULL DEFAULT '',
	salary_display   TEXT NOT NULL DEFAULT '',
	category         TEXT NOT NULL DEFAULT '',
	posted_at        TEXT NOT NULL,
	source           TEXT NOT NULL DEFAULT '',
	source_id        TEXT NOT NULL DEFAULT '',
	description      TEXT NOT NULL DEFAULT '',
	requirements     TEXT NOT NULL DEFAULT '',
	apply_url        TEXT NOT NULL DEFAULT '',
	source_url       TEXT NOT NULL DEFAULT '',
	is_remote        INTEGER NOT NULL DEFAULT 0,
	is_hybrid        INTEGER NOT NULL DEFAULT 0,
	experience_level TEXT NOT NULL DEFAULT '',
	skills           TEXT NOT NULL DEFAULT '[]',
	sector           TEXT NOT NULL DEFAULT '',
	is_featured      INTEGER NOT NULL DEFAULT 0,
	is_urgent        INTEGER NOT NULL DEFAULT 0,
	country          TEXT NOT NULL DEFAULT '',
	is_active        INTEGER NOT NULL DEFAULT 1,
	created_at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_source ON jobs(source);
CREATE INDEX IF NOT EXISTS idx_jobs_company ON jobs(company);
CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at);
`

// timeLayout is RFC3339 with fixed-width nanoseconds so stored
// timestamps sort correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const jobColumns = `id, title, company, location, type, salary_min, salary_max,
	salary_currency, salary_display, category, posted_at, source, source_id,
	description, requirements, apply_url, source_url, is_remote, is_hybrid,
	experience_level, skills, sector, is_featured, is_urgent, country,
	is_active, created_at`

// SQLStore is a Store backed by an embedded sqlite database.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

// SQLOption applies a configuration option to the SQLStore.
type SQLOption func(*SQLStore)

// WithSQLClock overrides the time source. Used in tests.
func WithSQLClock(now func() time.Time) SQLOption {
	return func(s *SQLStore) {
		s.now = now
	}
}

// NewSQLStore opens (creating if needed) the sqlite database at path and
// bootstraps the schema. Use ":memory:" for an ephemeral store.
func NewSQLStore(path string, opts ...SQLOption) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}

	s := &SQLStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Find returns jobs matching the filter, newest posting first.
func (s *SQLStore) Find(ctx context.Context, f Filter) ([]model.NormalizedJob, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	where, args := buildWhere(f)
	q := "SELECT " + jobColumns + " FROM jobs" + where + " ORDER BY posted_at DESC, id ASC"
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var out []model.NormalizedJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

// Count returns the number of matching jobs, ignoring the limit.
func (s *SQLStore) Count(ctx context.Context, f Filter) (int, error) {
	where, args := buildWhere(f)
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM jobs"+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return n, nil
}

// Create persists a job, assigning an ID and creation stamp as needed.
func (s *SQLStore) Create(ctx context.Context, job model.NormalizedJob) (model.NormalizedJob, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryWriteLatency(float64(time.Since(start).Milliseconds()))
	}()

	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = s.now()
	}
	job.IsActive = true

	skills, err := json.Marshal(job.Skills)
	if err != nil {
		return model.NormalizedJob{}, fmt.Errorf("encode skills: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO jobs (`+jobColumns+`) VALUES
		(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Title, job.Company, job.Location, string(job.Type),
		nullFloat(job.Salary.Min), nullFloat(job.Salary.Max),
		job.Salary.Currency, job.Salary.Display, job.Category,
		job.PostedAt.UTC().Format(timeLayout),
		job.Source, job.SourceID, job.Description, job.Requirements,
		job.ApplyURL, job.SourceURL, job.IsRemote, job.IsHybrid,
		string(job.ExperienceLevel), string(skills), job.Sector,
		job.IsFeatured, job.IsUrgent, job.Country, job.IsActive,
		job.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return model.NormalizedJob{}, ErrDuplicateID
		}
		return model.NormalizedJob{}, fmt.Errorf("insert job: %w", err)
	}
	return job, nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// buildWhere renders the filter as a WHERE clause with bound args.
func buildWhere(f Filter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	if f.ActiveOnly {
		clauses = append(clauses, "is_active = 1")
	}
	if !f.CreatedAfter.IsZero() {
		clauses = append(clauses, "created_at > ?")
		args = append(args, f.CreatedAfter.UTC().Format(timeLayout))
	}
	if f.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, f.Source)
	}
	if f.Country != "" {
		clauses = append(clauses, "country = ? COLLATE NOCASE")
		args = append(args, f.Country)
	}
	if f.Company != "" {
		clauses = append(clauses, "company LIKE ? COLLATE NOCASE")
		args = append(args, "%"+f.Company+"%")
	}
	if f.Location != "" {
		clauses = append(clauses, "location LIKE ? COLLATE NOCASE")
		args = append(args, "%"+f.Location+"%")
	}
	if f.City != "" {
		clauses = append(clauses, "location LIKE ? COLLATE NOCASE")
		args = append(args, "%"+f.City+"%")
	}
	if f.Query != "" {
		clauses = append(clauses, "(title LIKE ? COLLATE NOCASE OR description LIKE ? COLLATE NOCASE OR company LIKE ? COLLATE NOCASE)")
		like := "%" + f.Query + "%"
		args = append(args, like, like, like)
	}
	if len(f.ExcludeIDs) > 0 {
		ph := strings.TrimSuffix(strings.Repeat("?, ", len(f.ExcludeIDs)), ", ")
		clauses = append(clauses, "id NOT IN ("+ph+")")
		for _, id := range f.ExcludeIDs {
			args = append(args, id)
		}
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanJob(rows *sql.Rows) (model.NormalizedJob, error) {
	var (
		job                  model.NormalizedJob
		salaryMin, salaryMax sql.NullFloat64
		jobType, expLevel    string
		skills               string
		postedAt, createdAt  string
	)

	err := rows.Scan(
		&job.ID, &job.Title, &job.Company, &job.Location, &jobType,
		&salaryMin, &salaryMax, &job.Salary.Currency, &job.Salary.Display,
		&job.Category, &postedAt, &job.Source, &job.SourceID,
		&job.Description, &job.Requirements, &job.ApplyURL, &job.SourceURL,
		&job.IsRemote, &job.IsHybrid, &expLevel, &skills, &job.Sector,
		&job.IsFeatured, &job.IsUrgent, &job.Country, &job.IsActive,
		&createdAt,
	)
	if err != nil {
		return model.NormalizedJob{}, fmt.Errorf("scan job: %w", err)
	}

	job.Type = model.JobType(jobType)
	job.ExperienceLevel = model.ExperienceLevel(expLevel)
	if salaryMin.Valid {
		job.Salary.Min = &salaryMin.Float64
	}
	if salaryMax.Valid {
		job.Salary.Max = &salaryMax.Float64
	}
	if err := json.Unmarshal([]byte(skills), &job.Skills); err != nil {
		return model.NormalizedJob{}, fmt.Errorf("decode skills for job %s: %w", job.ID, err)
	}
	if job.PostedAt, err = time.Parse(timeLayout, postedAt); err != nil {
		return model.NormalizedJob{}, fmt.Errorf("parse posted_at for job %s: %w", job.ID, err)
	}
	if job.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return model.NormalizedJob{}, fmt.Errorf("parse created_at for job %s: %w", job.ID, err)
	}
	return job, nil
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
