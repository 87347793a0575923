package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/coursewise/coursewise/catalog/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PgStore is a PostgreSQL catalog store using pgvector for embeddings.
type PgStore struct {
	db        *sql.DB
	dimension int
}

// NewPgStore opens a pgvector-backed catalog store. The dimension parameter
// fixes the embedding column width (e.g. 1024 for multilingual-e5-large).
func NewPgStore(dsn string, dimension int) (*PgStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %v", ErrUnavailable, err)
	}

	s := &PgStore{db: db, dimension: dimension}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *PgStore) migrate() error {
	data, err := migrations.Postgres.ReadFile("postgres/001_init.sql")
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := s.db.Exec(string(data)); err != nil {
		return fmt.Errorf("exec migration: %w", err)
	}

	// The embedding column width depends on the configured dimension, so
	// it is added here rather than in the static migration.
	stmts := []string{
		fmt.Sprintf(`ALTER TABLE course_catalog
			ADD COLUMN IF NOT EXISTS content_embedding vector(%d)`, s.dimension),
		`CREATE INDEX IF NOT EXISTS idx_course_embedding
			ON course_catalog USING hnsw (content_embedding vector_cosine_ops)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}
	return nil
}

const pgCourseColumns = `course_id, title, COALESCE(description, ''),
	COALESCE(provider, ''), COALESCE(level, ''), COALESCE(duration_hours, 0),
	price, COALESCE(modality, ''), categories, prerequisites, regions,
	COALESCE(rating, 0), COALESCE(enrollment_count, 0),
	COALESCE(certification_offered, FALSE), COALESCE(popularity_score, 0),
	content_embedding::text`

// GetAll returns every catalog entry ordered by course ID.
func (s *PgStore) GetAll(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+pgCourseColumns+`
		FROM course_catalog ORDER BY course_id`)
	if err != nil {
		return nil, fmt.Errorf("%w: query catalog: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanPgEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scan catalog: %v", ErrUnavailable, err)
	}
	return entries, nil
}

// Get returns a single entry by course ID.
func (s *PgStore) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+pgCourseColumns+`
		FROM course_catalog WHERE course_id = $1`, id)

	e, err := scanPgEntry(row)
	if err == sql.ErrNoRows {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Upsert inserts or replaces a course and its embedding.
func (s *PgStore) Upsert(ctx context.Context, course Course, embedding []float64) error {
	if len(embedding) > 0 && len(embedding) != s.dimension {
		return ErrDimensionMismatch
	}

	categories, err := json.Marshal(course.Categories)
	if err != nil {
		return fmt.Errorf("marshal categories: %w", err)
	}
	prereqs, err := json.Marshal(course.Prerequisites)
	if err != nil {
		return fmt.Errorf("marshal prerequisites: %w", err)
	}
	regions, err := json.Marshal(course.Regions)
	if err != nil {
		return fmt.Errorf("marshal regions: %w", err)
	}

	var price any
	if course.Price != nil {
		price = *course.Price
	}
	var emb any
	if len(embedding) > 0 {
		emb = formatVector(embedding)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO course_catalog (
			course_id, title, description, provider, level, duration_hours,
			price, modality, categories, prerequisites, regions, rating,
			enrollment_count, certification_offered, popularity_score,
			content_embedding
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (course_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			provider = EXCLUDED.provider,
			level = EXCLUDED.level,
			duration_hours = EXCLUDED.duration_hours,
			price = EXCLUDED.price,
			modality = EXCLUDED.modality,
			categories = EXCLUDED.categories,
			prerequisites = EXCLUDED.prerequisites,
			regions = EXCLUDED.regions,
			rating = EXCLUDED.rating,
			enrollment_count = EXCLUDED.enrollment_count,
			certification_offered = EXCLUDED.certification_offered,
			popularity_score = EXCLUDED.popularity_score,
			content_embedding = EXCLUDED.content_embedding,
			updated_at = NOW()`,
		course.ID, course.Title, course.Description, course.Provider,
		string(course.Level), course.DurationHours, price,
		string(course.Modality), string(categories), string(prereqs),
		string(regions), course.Rating, course.EnrollmentCount,
		course.CertificationOffered, course.PopularityScore, emb,
	)
	if err != nil {
		return fmt.Errorf("upsert course: %w", err)
	}
	return nil
}

// Count returns the number of stored courses.
func (s *PgStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM course_catalog`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count courses: %v", ErrUnavailable, err)
	}
	return n, nil
}

// Close closes the database connection.
func (s *PgStore) Close() error {
	return s.db.Close()
}

func scanPgEntry(row rowScanner) (Entry, error) {
	var (
		e          Entry
		price      sql.NullFloat64
		level      string
		modality   string
		categories []byte
		prereqs    []byte
		regions    []byte
		embText    sql.NullString
	)

	err := row.Scan(
		&e.Course.ID, &e.Course.Title, &e.Course.Description,
		&e.Course.Provider, &level, &e.Course.DurationHours, &price,
		&modality, &categories, &prereqs, &regions, &e.Course.Rating,
		&e.Course.EnrollmentCount, &e.Course.CertificationOffered,
		&e.Course.PopularityScore, &embText,
	)
	if err == sql.ErrNoRows {
		return Entry{}, err
	}
	if err != nil {
		return Entry{}, fmt.Errorf("scan course: %w", err)
	}

	e.Course.Level = SkillLevel(level)
	e.Course.Modality = Modality(modality)
	if price.Valid {
		p := price.Float64
		e.Course.Price = &p
	}

	if len(categories) > 0 {
		if err := json.Unmarshal(categories, &e.Course.Categories); err != nil {
			return Entry{}, fmt.Errorf("unmarshal categories: %w", err)
		}
	}
	if len(prereqs) > 0 {
		if err := json.Unmarshal(prereqs, &e.Course.Prerequisites); err != nil {
			return Entry{}, fmt.Errorf("unmarshal prerequisites: %w", err)
		}
	}
	if len(regions) > 0 {
		if err := json.Unmarshal(regions, &e.Course.Regions); err != nil {
			return Entry{}, fmt.Errorf("unmarshal regions: %w", err)
		}
	}

	if embText.Valid {
		e.Embedding = parseVector(embText.String)
	}
	return e, nil
}

// formatVector converts a float64 slice to pgvector format: "[0.1,0.2,0.3]"
func formatVector(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// parseVector converts pgvector text format back to a float64 slice.
func parseVector(s string) []float64 {
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	v := make([]float64, len(parts))
	for i, p := range parts {
		v[i], _ = strconv.ParseFloat(strings.TrimSpace(p), 64)
	}
	return v
}
