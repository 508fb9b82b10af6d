package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkravets/aerobook/internal/domain"
)

type ProfileRepository interface {
	Upsert(ctx context.Context, profile *domain.Profile) error
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.Profile, error)
	Delete(ctx context.Context, userID string) error
}

const profileColumns = `id, user_id, full_name, avatar_url, age, gender, created_at`

func profileFields(p *domain.Profile) []any {
	return []any{&p.ID, &p.UserID, &p.FullName, &p.AvatarURL, &p.Age, &p.Gender, &p.CreatedAt}
}

type PGProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) ProfileRepository {
	return &PGProfileRepository{db: db}
}

// Upsert keeps one profile row per user id.
func (r *PGProfileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	return r.db.QueryRow(ctx, `INSERT INTO profiles (user_id, full_name, avatar_url, age, gender)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			full_name=EXCLUDED.full_name, avatar_url=EXCLUDED.avatar_url,
			age=EXCLUDED.age, gender=EXCLUDED.gender
		RETURNING id, created_at`,
		profile.UserID, profile.FullName, profile.AvatarURL, profile.Age, profile.Gender).
		Scan(&profile.ID, &profile.CreatedAt)
}

func (r *PGProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	row := r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id=$1`, userID)
	var p domain.Profile
	if err := row.Scan(profileFields(&p)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Update applies only the fields set in the partial update.
func (r *PGProfileRepository) Update(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.Profile, error) {
	row := r.db.QueryRow(ctx, `UPDATE profiles SET
			full_name=COALESCE($2, full_name),
			avatar_url=COALESCE($3, avatar_url),
			age=COALESCE($4, age),
			gender=COALESCE($5, gender)
		WHERE user_id=$1
		RETURNING `+profileColumns,
		userID, update.FullName, update.AvatarURL, update.Age, update.Gender)
	var p domain.Profile
	if err := row.Scan(profileFields(&p)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGProfileRepository) Delete(ctx context.Context, userID string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE user_id=$1`, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

var _ ProfileRepository = (*PGProfileRepository)(nil)
