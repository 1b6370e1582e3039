package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// EntryKind distinguishes client-only profile entries from persisted ones.
type EntryKind int

const (
	// EntryPending is an entry that only exists on the client and has no durable identity.
	EntryPending EntryKind = iota
	// EntrySaved is an entry persisted with a durable identifier.
	EntrySaved
)

// legacyPendingPrefix is the marker older clients use for unsaved rows ("temp-1699999").
const legacyPendingPrefix = "temp-"

// EntryRef identifies a profile collection entry. The zero value is Pending.
type EntryRef struct {
	id    uuid.UUID
	saved bool
}

// Pending returns a reference to an entry that has not been persisted.
func Pending() EntryRef {
	return EntryRef{}
}

// Saved returns a reference to a persisted entry.
func Saved(id uuid.UUID) EntryRef {
	return EntryRef{id: id, saved: true}
}

// Kind reports whether the reference is Pending or Saved.
func (r EntryRef) Kind() EntryKind {
	if r.saved {
		return EntrySaved
	}
	return EntryPending
}

// ID returns the durable identifier and true for Saved references.
func (r EntryRef) ID() (uuid.UUID, bool) {
	return r.id, r.saved
}

func (r EntryRef) String() string {
	if !r.saved {
		return "pending"
	}
	return r.id.String()
}

// MarshalJSON encodes Saved references as their UUID and Pending references as null.
func (r EntryRef) MarshalJSON() ([]byte, error) {
	if !r.saved {
		return []byte("null"), nil
	}
	return json.Marshal(r.id.String())
}

// UnmarshalJSON accepts a UUID (Saved), or null, "" or a "temp-" marker (Pending).
func (r *EntryRef) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*r = Pending()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("entry id must be a string or null: %w", err)
	}
	ref, err := ParseEntryRef(s)
	if err != nil {
		return err
	}
	*r = ref
	return nil
}

// ParseEntryRef reads an entry ID as sent in a URL or JSON string: a UUID is Saved,
// "" or a "temp-" marker is Pending.
func ParseEntryRef(s string) (EntryRef, error) {
	if s == "" || strings.HasPrefix(s, legacyPendingPrefix) {
		return Pending(), nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return EntryRef{}, fmt.Errorf("invalid entry id %q: %w", s, err)
	}
	return Saved(id), nil
}

// Collection names a profile sub-collection.
type Collection string

// Profile sub-collections.
const (
	CollectionExperiences    Collection = "experiences"
	CollectionEducation      Collection = "education"
	CollectionSkills         Collection = "skills"
	CollectionProjects       Collection = "projects"
	CollectionLanguages      Collection = "languages"
	CollectionCertifications Collection = "certifications"
	CollectionLinks          Collection = "links"
)

// Collections lists every sub-collection in display order.
func Collections() []Collection {
	return []Collection{
		CollectionExperiences,
		CollectionEducation,
		CollectionSkills,
		CollectionProjects,
		CollectionLanguages,
		CollectionCertifications,
		CollectionLinks,
	}
}

// ParseCollection validates a collection name from a URL or request body.
func ParseCollection(s string) (Collection, error) {
	for _, c := range Collections() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown profile collection %q", s)
}

// Profile is the durable per-user source of career data.
type Profile struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"user_id"`
	FullName          string          `json:"full_name"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone"`
	Location          string          `json:"location"`
	Summary           string          `json:"summary"`
	ProfilePictureURL *string         `json:"profile_picture_url"`
	DateOfBirth       *string         `json:"date_of_birth,omitempty"`
	Experiences       []Experience    `json:"experiences"`
	Education         []Education     `json:"education"`
	Skills            []Skill         `json:"skills"`
	Projects          []Project       `json:"projects"`
	Languages         []Language      `json:"languages"`
	Certifications    []Certification `json:"certifications"`
	Links             Links           `json:"links"`
}

// IsComplete reports whether the profile carries enough identity to generate documents.
func (p *Profile) IsComplete() bool {
	return p != nil && strings.TrimSpace(p.FullName) != ""
}

// Experience is a persisted employment entry. Dates are YYYY-MM-DD.
type Experience struct {
	Ref         EntryRef `json:"id"`
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	Location    string   `json:"location"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	IsCurrent   bool     `json:"is_current"`
	Description string   `json:"description"`
}

// Education is a persisted education entry.
type Education struct {
	Ref          EntryRef `json:"id"`
	Institution  string   `json:"institution"`
	Degree       string   `json:"degree"`
	FieldOfStudy string   `json:"field_of_study"`
	Location     string   `json:"location"`
	StartDate    *string  `json:"start_date"`
	EndDate      *string  `json:"end_date"`
	IsCurrent    bool     `json:"is_current"`
	Description  string   `json:"description"`
}

// Skill is a persisted skill entry.
type Skill struct {
	Ref      EntryRef `json:"id"`
	Name     string   `json:"skill_name"`
	Level    string   `json:"skill_level"`
	Category *string  `json:"skill_category,omitempty"`
}

// Project is a persisted project entry.
type Project struct {
	Ref          EntryRef `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}

// Language is a persisted language entry.
type Language struct {
	Ref         EntryRef `json:"id"`
	Name        string   `json:"name"`
	Proficiency string   `json:"proficiency"`
}

// Certification is a persisted certification entry.
type Certification struct {
	Ref          EntryRef `json:"id"`
	Name         string   `json:"name"`
	Issuer       string   `json:"issuer"`
	IssueDate    *string  `json:"issue_date"`
	CredentialID string   `json:"credential_id"`
}

// Links is the singleton link record of a profile.
type Links struct {
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github"`
	Portfolio string `json:"portfolio"`
	Other     string `json:"other"`
}

// IsEmpty reports whether no link is set.
func (l Links) IsEmpty() bool {
	return l.LinkedIn == "" && l.GitHub == "" && l.Portfolio == "" && l.Other == ""
}

// ProfileIdentity is the set of top-level profile fields written by an upsert.
type ProfileIdentity struct {
	FullName    string  `json:"full_name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Location    string  `json:"location"`
	Summary     string  `json:"summary"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
}
