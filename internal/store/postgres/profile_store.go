package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/naviai/smsgate/internal/domain"
)

// ProfileStore implements domain.ProfileAdminStore using PostgreSQL.
type ProfileStore struct {
	pool *pgxpool.Pool
}

// NewProfileStore creates a ProfileStore backed by the given connection
// pool.
func NewProfileStore(pool *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{pool: pool}
}

// Get retrieves the profile for userID. Returns an error wrapping
// domain.ErrNotFound when no row exists.
func (s *ProfileStore) Get(ctx context.Context, userID string) (domain.Profile, error) {
	const query = `
		SELECT allowed_ips, phone_numbers
		FROM profiles
		WHERE user_id = $1`

	var p domain.Profile
	err := s.pool.QueryRow(ctx, query, userID).Scan(&p.AllowedIPs, &p.PhoneNumbers)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, fmt.Errorf("postgres: get profile %s: %w", userID, domain.ErrNotFound)
		}
		return domain.Profile{}, fmt.Errorf("postgres: get profile %s: %w", userID, err)
	}
	return p, nil
}

// Put inserts or replaces the profile for userID.
func (s *ProfileStore) Put(ctx context.Context, userID string, p domain.Profile) error {
	const query = `
		INSERT INTO profiles (user_id, allowed_ips, phone_numbers, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			allowed_ips   = EXCLUDED.allowed_ips,
			phone_numbers = EXCLUDED.phone_numbers,
			updated_at    = NOW()`

	_, err := s.pool.Exec(ctx, query, userID, p.AllowedIPs, p.PhoneNumbers)
	if err != nil {
		return fmt.Errorf("postgres: put profile %s: %w", userID, err)
	}
	return nil
}

// List returns all stored user IDs in ascending order.
func (s *ProfileStore) List(ctx context.Context) ([]string, error) {
	const query = `SELECT user_id FROM profiles ORDER BY user_id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: list profiles: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres: scan profile row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate profiles: %w", err)
	}
	return ids, nil
}
