package profile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-builder/internal/types"
)

// Service loads and writes profiles through a Store.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a profile service.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// Load assembles the user's profile: the identity row, then every collection read
// concurrently. Returns ErrProfileNotFound when the user has no profile.
func (s *Service) Load(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		p.Experiences, err = s.store.ListExperiences(gctx, p.ID)
		return err
	})
	g.Go(func() (err error) {
		p.Education, err = s.store.ListEducation(gctx, p.ID)
		return err
	})
	g.Go(func() (err error) {
		p.Skills, err = s.store.ListSkills(gctx, p.ID)
		return err
	})
	g.Go(func() (err error) {
		p.Projects, err = s.store.ListProjects(gctx, p.ID)
		return err
	})
	g.Go(func() (err error) {
		p.Languages, err = s.store.ListLanguages(gctx, p.ID)
		return err
	})
	g.Go(func() (err error) {
		p.Certifications, err = s.store.ListCertifications(gctx, p.ID)
		return err
	})
	g.Go(func() (err error) {
		p.Links, err = s.store.GetLinks(gctx, p.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load profile collections: %w", err)
	}
	return p, nil
}

// LoadComplete is Load that also rejects profiles without a full name.
func (s *Service) LoadComplete(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	p, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !p.IsComplete() {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

// SaveProfile upserts the identity fields and saves every entry: Pending entries are
// inserted, Saved entries are updated in place. The stored profile is returned.
func (s *Service) SaveProfile(ctx context.Context, userID uuid.UUID, p *types.Profile) (*types.Profile, error) {
	profileID, err := s.store.UpsertProfile(ctx, userID, identityOf(p))
	if err != nil {
		return nil, err
	}

	for i := range p.Experiences {
		if err := s.store.SaveExperience(ctx, profileID, &p.Experiences[i]); err != nil {
			return nil, fmt.Errorf("experience %d: %w", i, err)
		}
	}
	for i := range p.Education {
		if err := s.store.SaveEducation(ctx, profileID, &p.Education[i]); err != nil {
			return nil, fmt.Errorf("education %d: %w", i, err)
		}
	}
	for i := range p.Skills {
		if err := s.store.SaveSkill(ctx, profileID, &p.Skills[i]); err != nil {
			return nil, fmt.Errorf("skill %d: %w", i, err)
		}
	}
	for i := range p.Projects {
		if err := s.store.SaveProject(ctx, profileID, &p.Projects[i]); err != nil {
			return nil, fmt.Errorf("project %d: %w", i, err)
		}
	}
	for i := range p.Languages {
		if err := s.store.SaveLanguage(ctx, profileID, &p.Languages[i]); err != nil {
			return nil, fmt.Errorf("language %d: %w", i, err)
		}
	}
	for i := range p.Certifications {
		if err := s.store.SaveCertification(ctx, profileID, &p.Certifications[i]); err != nil {
			return nil, fmt.Errorf("certification %d: %w", i, err)
		}
	}
	if err := s.store.SaveLinks(ctx, profileID, p.Links); err != nil {
		return nil, err
	}

	return s.Load(ctx, userID)
}

// DeleteEntry removes one entry. Deleting a Pending entry is a no-op that never
// reaches the store; it reports false.
func (s *Service) DeleteEntry(ctx context.Context, userID uuid.UUID, c types.Collection, ref types.EntryRef) (bool, error) {
	id, saved := ref.ID()
	if !saved {
		return false, nil
	}
	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, ErrProfileNotFound
	}
	if err := s.store.DeleteEntry(ctx, p.ID, c, id); err != nil {
		return false, err
	}
	return true, nil
}

// SetPicture stores or clears the profile picture reference.
func (s *Service) SetPicture(ctx context.Context, userID uuid.UUID, url *string) error {
	return s.store.SetProfilePicture(ctx, userID, url)
}

func identityOf(p *types.Profile) types.ProfileIdentity {
	return types.ProfileIdentity{
		FullName:    strings.TrimSpace(p.FullName),
		Email:       strings.TrimSpace(p.Email),
		Phone:       strings.TrimSpace(p.Phone),
		Location:    strings.TrimSpace(p.Location),
		Summary:     strings.TrimSpace(p.Summary),
		DateOfBirth: p.DateOfBirth,
	}
}
