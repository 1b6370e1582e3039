// Package profile assembles, saves and rewrites a user's structured career profile.
package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jonathan/cv-builder/internal/types"
)

// ErrProfileNotFound is returned when a user has no profile, or one without a full name.
var ErrProfileNotFound = errors.New("profile not found")

// Store is the persistence surface the profile service needs. *db.DB implements it.
type Store interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, identity types.ProfileIdentity) (uuid.UUID, error)
	SetProfilePicture(ctx context.Context, userID uuid.UUID, url *string) error

	ListExperiences(ctx context.Context, profileID uuid.UUID) ([]types.Experience, error)
	ListEducation(ctx context.Context, profileID uuid.UUID) ([]types.Education, error)
	ListSkills(ctx context.Context, profileID uuid.UUID) ([]types.Skill, error)
	ListProjects(ctx context.Context, profileID uuid.UUID) ([]types.Project, error)
	ListLanguages(ctx context.Context, profileID uuid.UUID) ([]types.Language, error)
	ListCertifications(ctx context.Context, profileID uuid.UUID) ([]types.Certification, error)
	GetLinks(ctx context.Context, profileID uuid.UUID) (types.Links, error)

	SaveExperience(ctx context.Context, profileID uuid.UUID, e *types.Experience) error
	SaveEducation(ctx context.Context, profileID uuid.UUID, e *types.Education) error
	SaveSkill(ctx context.Context, profileID uuid.UUID, s *types.Skill) error
	SaveProject(ctx context.Context, profileID uuid.UUID, p *types.Project) error
	SaveLanguage(ctx context.Context, profileID uuid.UUID, l *types.Language) error
	SaveCertification(ctx context.Context, profileID uuid.UUID, c *types.Certification) error
	SaveLinks(ctx context.Context, profileID uuid.UUID, l types.Links) error

	DeleteEntry(ctx context.Context, profileID uuid.UUID, c types.Collection, id uuid.UUID) error
	DeleteCollection(ctx context.Context, profileID uuid.UUID, c types.Collection) error

	InsertExperiences(ctx context.Context, profileID uuid.UUID, entries []types.Experience) error
	InsertEducation(ctx context.Context, profileID uuid.UUID, entries []types.Education) error
	InsertSkills(ctx context.Context, profileID uuid.UUID, entries []types.Skill) error
	InsertProjects(ctx context.Context, profileID uuid.UUID, entries []types.Project) error
	InsertLanguages(ctx context.Context, profileID uuid.UUID, entries []types.Language) error
}
