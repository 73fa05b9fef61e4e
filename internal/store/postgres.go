package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Migrate applies the embedded schema migrations to this store's database.
func (s *PostgresStore) Migrate() error {
	return AutoMigrate(s.pool)
}

const influencerColumns = `id, name, category, description, attributes, created_at, updated_at`

func (s *PostgresStore) CreateInfluencer(ctx context.Context, inf *Influencer) error {
	if inf.ID == uuid.Nil {
		inf.ID = uuid.New()
	}
	if inf.Attributes == nil {
		inf.Attributes = map[string]float64{}
	}
	attrsJSON, err := json.Marshal(inf.Attributes)
	if err != nil {
		return fmt.Errorf("encode attributes: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		INSERT INTO endorse_influencers (id, name, category, description, attributes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		inf.ID, inf.Name, inf.Category, inf.Description, attrsJSON,
	).Scan(&inf.CreatedAt, &inf.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

func (s *PostgresStore) GetInfluencer(ctx context.Context, id uuid.UUID) (*Influencer, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+influencerColumns+`
		FROM endorse_influencers WHERE id = $1`, id)
	inf, err := scanInfluencer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return inf, nil
}

func (s *PostgresStore) ListInfluencers(ctx context.Context, filter InfluencerFilter) ([]*Influencer, error) {
	query := `SELECT ` + influencerColumns + ` FROM endorse_influencers WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Category != "" {
		n++
		query += fmt.Sprintf(" AND category = $%d", n)
		args = append(args, filter.Category)
	}

	query += " ORDER BY seq ASC"

	if filter.Limit > 0 {
		n++
		query += fmt.Sprintf(" LIMIT $%d", n)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	influencers := []*Influencer{}
	for rows.Next() {
		inf, err := scanInfluencer(rows)
		if err != nil {
			return nil, err
		}
		influencers = append(influencers, inf)
	}
	return influencers, rows.Err()
}

func (s *PostgresStore) UpdateInfluencer(ctx context.Context, inf *Influencer) error {
	attrsJSON, err := json.Marshal(inf.Attributes)
	if err != nil {
		return fmt.Errorf("encode attributes: %w", err)
	}
	err = s.pool.QueryRow(ctx, `
		UPDATE endorse_influencers SET
			name = $2, category = $3, description = $4, attributes = $5,
			updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		inf.ID, inf.Name, inf.Category, inf.Description, attrsJSON,
	).Scan(&inf.CreatedAt, &inf.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *PostgresStore) DeleteInfluencer(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM endorse_influencers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CountInfluencers(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM endorse_influencers`).Scan(&n)
	return n, err
}

func (s *PostgresStore) GetCriteria(ctx context.Context) ([]*Criterion, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, description, unit, direction, weight, position
		FROM endorse_criteria ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	criteria := []*Criterion{}
	for rows.Next() {
		c := &Criterion{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Unit, &c.Direction, &c.Weight, &c.Position); err != nil {
			return nil, err
		}
		criteria = append(criteria, c)
	}
	return criteria, rows.Err()
}

// ReplaceCriteria swaps the whole criteria set in one transaction so readers
// never observe a partially written set.
func (s *PostgresStore) ReplaceCriteria(ctx context.Context, criteria []*Criterion) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM endorse_criteria`); err != nil {
		return fmt.Errorf("clear criteria: %w", err)
	}

	batch := &pgx.Batch{}
	for i, c := range criteria {
		batch.Queue(`
			INSERT INTO endorse_criteria (id, name, description, unit, direction, weight, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			c.ID, c.Name, c.Description, c.Unit, c.Direction, c.Weight, i)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert criteria: %w", err)
	}

	return tx.Commit(ctx)
}

func scanInfluencer(row pgx.Row) (*Influencer, error) {
	inf := &Influencer{}
	var attrsJSON []byte
	if err := row.Scan(&inf.ID, &inf.Name, &inf.Category, &inf.Description, &attrsJSON, &inf.CreatedAt, &inf.UpdatedAt); err != nil {
		return nil, err
	}
	inf.Attributes = map[string]float64{}
	if attrsJSON != nil {
		if err := json.Unmarshal(attrsJSON, &inf.Attributes); err != nil {
			return nil, fmt.Errorf("decode attributes of %s: %w", inf.ID, err)
		}
	}
	return inf, nil
}
