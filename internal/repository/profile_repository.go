package repository

import (
	"context"
	"errors"
	"fmt"

	"sweetshop/backend/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProfileNotFound = errors.New("user profile not found")

// ProfileRepository reads the profiles table. Profiles are owned by the
// identity provider; this service only inserts the initial row at
// registration and reads the role for access decisions.
type ProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetProfile(ctx context.Context, id string) (model.Profile, error) {
	var p model.Profile
	err := r.db.QueryRow(ctx,
		"SELECT id, email, full_name, role, created_at FROM profiles WHERE id = $1", id).
		Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

func (r *ProfileRepository) InsertProfile(ctx context.Context, p model.Profile) error {
	_, err := r.db.Exec(ctx,
		"INSERT INTO profiles (id, email, full_name, role, created_at) VALUES ($1, $2, $3, $4, $5)",
		p.ID, p.Email, p.FullName, p.Role, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}
