package users

import (
	"context"

	"github.com/mkravets/aerobook/internal/domain"
	"github.com/mkravets/aerobook/internal/repository"
)

type ProfileUseCase interface {
	CreateProfile(ctx context.Context, userID string, input CreateProfileInput) (*domain.Profile, error)
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.Profile, error)
	DeleteProfile(ctx context.Context, userID string) error
}

type CreateProfileInput struct {
	FullName  string         `json:"full_name" binding:"required"`
	AvatarURL *string        `json:"avatar_url"`
	Age       *int           `json:"age"`
	Gender    *domain.Gender `json:"gender"`
}

type ProfileService struct {
	repo repository.ProfileRepository
}

func NewProfileService(repo repository.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// CreateProfile upserts the caller's profile, keeping one row per user id.
func (s *ProfileService) CreateProfile(ctx context.Context, userID string, input CreateProfileInput) (*domain.Profile, error) {
	if input.Gender != nil && !input.Gender.Valid() {
		return nil, domain.ErrInvalidGender
	}
	profile := &domain.Profile{
		UserID:    userID,
		FullName:  input.FullName,
		AvatarURL: input.AvatarURL,
		Age:       input.Age,
		Gender:    input.Gender,
	}
	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.Profile, error) {
	if update.Gender != nil && !update.Gender.Valid() {
		return nil, domain.ErrInvalidGender
	}
	return s.repo.Update(ctx, userID, update)
}

func (s *ProfileService) DeleteProfile(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}

var _ ProfileUseCase = (*ProfileService)(nil)
