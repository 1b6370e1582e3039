package profile

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/cv-builder/internal/db"
	"github.com/jonathan/cv-builder/internal/types"
)

// fakeStore is an in-memory Store with per-collection failure injection.
type fakeStore struct {
	mu sync.Mutex

	profile *types.Profile
	exps    []types.Experience
	edu     []types.Education
	skills  []types.Skill
	projs   []types.Project
	langs   []types.Language
	certs   []types.Certification
	links   types.Links

	upsertErr error
	listErr   error
	deleteErr map[types.Collection]error
	insertErr map[types.Collection]error

	calls []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		deleteErr: map[types.Collection]error{},
		insertErr: map[types.Collection]error{},
	}
}

func (f *fakeStore) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeStore) GetProfile(_ context.Context, userID uuid.UUID) (*types.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profile == nil || f.profile.UserID != userID {
		return nil, nil
	}
	p := *f.profile
	return &p, nil
}

func (f *fakeStore) UpsertProfile(_ context.Context, userID uuid.UUID, id types.ProfileIdentity) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("upsert")
	if f.upsertErr != nil {
		return uuid.Nil, f.upsertErr
	}
	if f.profile == nil {
		f.profile = &types.Profile{ID: uuid.New(), UserID: userID}
	}
	f.profile.FullName, f.profile.Email, f.profile.Phone = id.FullName, id.Email, id.Phone
	f.profile.Location, f.profile.Summary, f.profile.DateOfBirth = id.Location, id.Summary, id.DateOfBirth
	return f.profile.ID, nil
}

func (f *fakeStore) SetProfilePicture(_ context.Context, _ uuid.UUID, url *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profile == nil {
		return db.ErrNotFound
	}
	f.profile.ProfilePictureURL = url
	return nil
}

func (f *fakeStore) ListExperiences(context.Context, uuid.UUID) ([]types.Experience, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.Experience{}, f.exps...), f.listErr
}

func (f *fakeStore) ListEducation(context.Context, uuid.UUID) ([]types.Education, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.Education{}, f.edu...), nil
}

func (f *fakeStore) ListSkills(context.Context, uuid.UUID) ([]types.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.Skill{}, f.skills...), nil
}

func (f *fakeStore) ListProjects(context.Context, uuid.UUID) ([]types.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.Project{}, f.projs...), nil
}

func (f *fakeStore) ListLanguages(context.Context, uuid.UUID) ([]types.Language, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.Language{}, f.langs...), nil
}

func (f *fakeStore) ListCertifications(context.Context, uuid.UUID) ([]types.Certification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.Certification{}, f.certs...), nil
}

func (f *fakeStore) GetLinks(context.Context, uuid.UUID) (types.Links, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.links, nil
}

// saveRef mimics the database: Pending refs get a new ID, Saved refs must already exist.
func saveRef(ref *types.EntryRef, existing []types.EntryRef) (int, error) {
	if id, ok := ref.ID(); ok {
		for i, r := range existing {
			if rid, _ := r.ID(); rid == id {
				return i, nil
			}
		}
		return -1, db.ErrNotFound
	}
	*ref = types.Saved(uuid.New())
	return -1, nil
}

func (f *fakeStore) SaveExperience(_ context.Context, _ uuid.UUID, e *types.Experience) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("save:experiences")
	refs := make([]types.EntryRef, len(f.exps))
	for i, x := range f.exps {
		refs[i] = x.Ref
	}
	i, err := saveRef(&e.Ref, refs)
	if err != nil {
		return err
	}
	if i >= 0 {
		f.exps[i] = *e
	} else {
		f.exps = append(f.exps, *e)
	}
	return nil
}

func (f *fakeStore) SaveEducation(_ context.Context, _ uuid.UUID, e *types.Education) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("save:education")
	if _, err := saveRef(&e.Ref, nil); err != nil {
		return err
	}
	f.edu = append(f.edu, *e)
	return nil
}

func (f *fakeStore) SaveSkill(_ context.Context, _ uuid.UUID, s *types.Skill) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("save:skills")
	refs := make([]types.EntryRef, len(f.skills))
	for i, x := range f.skills {
		refs[i] = x.Ref
	}
	i, err := saveRef(&s.Ref, refs)
	if err != nil {
		return err
	}
	if i >= 0 {
		f.skills[i] = *s
	} else {
		f.skills = append(f.skills, *s)
	}
	return nil
}

func (f *fakeStore) SaveProject(_ context.Context, _ uuid.UUID, p *types.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("save:projects")
	if _, err := saveRef(&p.Ref, nil); err != nil {
		return err
	}
	f.projs = append(f.projs, *p)
	return nil
}

func (f *fakeStore) SaveLanguage(_ context.Context, _ uuid.UUID, l *types.Language) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("save:languages")
	if _, err := saveRef(&l.Ref, nil); err != nil {
		return err
	}
	f.langs = append(f.langs, *l)
	return nil
}

func (f *fakeStore) SaveCertification(_ context.Context, _ uuid.UUID, c *types.Certification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("save:certifications")
	if _, err := saveRef(&c.Ref, nil); err != nil {
		return err
	}
	f.certs = append(f.certs, *c)
	return nil
}

func (f *fakeStore) SaveLinks(_ context.Context, _ uuid.UUID, l types.Links) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("save:links")
	if err := f.insertErr[types.CollectionLinks]; err != nil {
		return err
	}
	f.links = l
	return nil
}

func (f *fakeStore) DeleteEntry(_ context.Context, _ uuid.UUID, c types.Collection, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete-entry:" + string(c))
	for i, e := range f.exps {
		if eid, _ := e.Ref.ID(); c == types.CollectionExperiences && eid == id {
			f.exps = append(f.exps[:i], f.exps[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

func (f *fakeStore) DeleteCollection(_ context.Context, _ uuid.UUID, c types.Collection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete:" + string(c))
	if err := f.deleteErr[c]; err != nil {
		return err
	}
	switch c {
	case types.CollectionExperiences:
		f.exps = nil
	case types.CollectionEducation:
		f.edu = nil
	case types.CollectionSkills:
		f.skills = nil
	case types.CollectionProjects:
		f.projs = nil
	case types.CollectionLanguages:
		f.langs = nil
	case types.CollectionLinks:
		f.links = types.Links{}
	}
	return nil
}

func (f *fakeStore) InsertExperiences(_ context.Context, _ uuid.UUID, entries []types.Experience) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("insert:experiences")
	if err := f.insertErr[types.CollectionExperiences]; err != nil {
		return err
	}
	for _, e := range entries {
		e.Ref = types.Saved(uuid.New())
		f.exps = append(f.exps, e)
	}
	return nil
}

func (f *fakeStore) InsertEducation(_ context.Context, _ uuid.UUID, entries []types.Education) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("insert:education")
	if err := f.insertErr[types.CollectionEducation]; err != nil {
		return err
	}
	f.edu = append(f.edu, entries...)
	return nil
}

func (f *fakeStore) InsertSkills(_ context.Context, _ uuid.UUID, entries []types.Skill) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("insert:skills")
	if err := f.insertErr[types.CollectionSkills]; err != nil {
		return err
	}
	f.skills = append(f.skills, entries...)
	return nil
}

func (f *fakeStore) InsertProjects(_ context.Context, _ uuid.UUID, entries []types.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("insert:projects")
	if err := f.insertErr[types.CollectionProjects]; err != nil {
		return err
	}
	f.projs = append(f.projs, entries...)
	return nil
}

func (f *fakeStore) InsertLanguages(_ context.Context, _ uuid.UUID, entries []types.Language) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("insert:languages")
	if err := f.insertErr[types.CollectionLanguages]; err != nil {
		return err
	}
	f.langs = append(f.langs, entries...)
	return nil
}

var _ Store = (*fakeStore)(nil)
var _ Store = (*db.DB)(nil)
