package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"github.com/coursewise/coursewise/catalog/migrations"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite. Embeddings are stored as
// little-endian float64 BLOBs alongside the course metadata.
type SQLiteStore struct {
	db *sql.DB

	mu        sync.Mutex
	dimension int
}

// NewSQLiteStore opens (creating if needed) a SQLite-backed catalog store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = "data/coursewise.db"
	}

	dir := filepath.Dir(dsn)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := runSQLiteMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.loadDimension(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func runSQLiteMigrations(db *sql.DB) error {
	data, err := migrations.SQLite.ReadFile("sqlite/001_init.sql")
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := db.Exec(string(data)); err != nil {
		return fmt.Errorf("exec migration: %w", err)
	}
	return nil
}

// loadDimension recovers the established catalog dimension from any
// existing embedding.
func (s *SQLiteStore) loadDimension() error {
	var blob []byte
	err := s.db.QueryRow(`
		SELECT content_embedding FROM course_catalog
		WHERE content_embedding IS NOT NULL LIMIT 1`).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("probe dimension: %w", err)
	}
	s.dimension = len(blob) / 8
	return nil
}

const courseColumns = `course_id, title, description, provider, level, duration_hours,
	price, modality, categories, prerequisites, regions, rating,
	enrollment_count, certification_offered, popularity_score, content_embedding`

// GetAll returns every catalog entry ordered by course ID.
func (s *SQLiteStore) GetAll(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+courseColumns+`
		FROM course_catalog ORDER BY course_id`)
	if err != nil {
		return nil, fmt.Errorf("%w: query catalog: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
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
func (s *SQLiteStore) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+courseColumns+`
		FROM course_catalog WHERE course_id = ?`, id)

	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Upsert inserts or replaces a course and its embedding.
func (s *SQLiteStore) Upsert(ctx context.Context, course Course, embedding []float64) error {
	s.mu.Lock()
	if len(embedding) > 0 {
		if s.dimension == 0 {
			s.dimension = len(embedding)
		} else if len(embedding) != s.dimension {
			s.mu.Unlock()
			return ErrDimensionMismatch
		}
	}
	s.mu.Unlock()

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

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO course_catalog (
			course_id, title, description, provider, level, duration_hours,
			price, modality, categories, prerequisites, regions, rating,
			enrollment_count, certification_offered, popularity_score,
			content_embedding
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		course.ID, course.Title, course.Description, course.Provider,
		string(course.Level), course.DurationHours, price,
		string(course.Modality), string(categories), string(prereqs),
		string(regions), course.Rating, course.EnrollmentCount,
		course.CertificationOffered, course.PopularityScore,
		encodeEmbedding(embedding),
	)
	if err != nil {
		return fmt.Errorf("upsert course: %w", err)
	}
	return nil
}

// Count returns the number of stored courses.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM course_catalog`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count courses: %v", ErrUnavailable, err)
	}
	return n, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		e          Entry
		desc       sql.NullString
		provider   sql.NullString
		level      sql.NullString
		modality   sql.NullString
		price      sql.NullFloat64
		categories sql.NullString
		prereqs    sql.NullString
		regions    sql.NullString
		blob       []byte
	)

	err := row.Scan(
		&e.Course.ID, &e.Course.Title, &desc, &provider, &level,
		&e.Course.DurationHours, &price, &modality, &categories, &prereqs,
		&regions, &e.Course.Rating, &e.Course.EnrollmentCount,
		&e.Course.CertificationOffered, &e.Course.PopularityScore, &blob,
	)
	if err == sql.ErrNoRows {
		return Entry{}, err
	}
	if err != nil {
		return Entry{}, fmt.Errorf("scan course: %w", err)
	}

	e.Course.Description = desc.String
	e.Course.Provider = provider.String
	e.Course.Level = SkillLevel(level.String)
	e.Course.Modality = Modality(modality.String)
	if price.Valid {
		p := price.Float64
		e.Course.Price = &p
	}

	if err := unmarshalList(categories, &e.Course.Categories); err != nil {
		return Entry{}, fmt.Errorf("unmarshal categories: %w", err)
	}
	if err := unmarshalList(prereqs, &e.Course.Prerequisites); err != nil {
		return Entry{}, fmt.Errorf("unmarshal prerequisites: %w", err)
	}
	if err := unmarshalList(regions, &e.Course.Regions); err != nil {
		return Entry{}, fmt.Errorf("unmarshal regions: %w", err)
	}

	e.Embedding = decodeEmbedding(blob)
	return e, nil
}

func unmarshalList(col sql.NullString, dst *[]string) error {
	if !col.Valid || col.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(col.String), dst)
}
