package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/cv-builder/internal/types"
)

// collectionTables maps a profile collection to its table.
var collectionTables = map[types.Collection]string{
	types.CollectionExperiences:    "experiences",
	types.CollectionEducation:      "education",
	types.CollectionSkills:         "skills",
	types.CollectionProjects:       "projects",
	types.CollectionLanguages:      "languages",
	types.CollectionCertifications: "certifications",
	types.CollectionLinks:          "profile_links",
}

func tableFor(c types.Collection) (string, error) {
	table, ok := collectionTables[c]
	if !ok {
		return "", fmt.Errorf("unknown profile collection %q", c)
	}
	return table, nil
}

// GetProfile retrieves the identity row of a user's profile without its collections.
// Returns nil, nil when the user has no profile.
func (db *DB) GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	var p types.Profile
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, full_name, email, phone, location, summary,
		        to_char(date_of_birth, 'YYYY-MM-DD'), profile_picture_url
		 FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.ID, &p.UserID, &p.FullName, &p.Email, &p.Phone, &p.Location, &p.Summary,
		&p.DateOfBirth, &p.ProfilePictureURL)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// UpsertProfile creates the user's profile or updates its identity fields, returning its ID.
func (db *DB) UpsertProfile(ctx context.Context, userID uuid.UUID, id types.ProfileIdentity) (uuid.UUID, error) {
	var profileID uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO profiles (user_id, full_name, email, phone, location, summary, date_of_birth)
		 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7::text, '')::date)
		 ON CONFLICT (user_id) DO UPDATE SET
		     full_name = EXCLUDED.full_name,
		     email = EXCLUDED.email,
		     phone = EXCLUDED.phone,
		     location = EXCLUDED.location,
		     summary = EXCLUDED.summary,
		     date_of_birth = EXCLUDED.date_of_birth,
		     updated_at = NOW()
		 RETURNING id`,
		userID, id.FullName, id.Email, id.Phone, id.Location, id.Summary, id.DateOfBirth,
	).Scan(&profileID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return profileID, nil
}

// SetProfilePicture stores or clears (nil) the picture reference of a user's profile.
func (db *DB) SetProfilePicture(ctx context.Context, userID uuid.UUID, url *string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE profiles SET profile_picture_url = $1, updated_at = NOW() WHERE user_id = $2`,
		url, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set profile picture: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListExperiences returns a profile's experiences in insertion order.
func (db *DB) ListExperiences(ctx context.Context, profileID uuid.UUID) ([]types.Experience, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, company, position, location, to_char(start_date, 'YYYY-MM-DD'),
		        to_char(end_date, 'YYYY-MM-DD'), is_current, description
		 FROM experiences WHERE profile_id = $1 ORDER BY created_at, id`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	defer rows.Close()

	out := []types.Experience{}
	for rows.Next() {
		var e types.Experience
		var id uuid.UUID
		if err := rows.Scan(&id, &e.Company, &e.Position, &e.Location, &e.StartDate, &e.EndDate, &e.IsCurrent, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		e.Ref = types.Saved(id)
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListEducation returns a profile's education entries in insertion order.
func (db *DB) ListEducation(ctx context.Context, profileID uuid.UUID) ([]types.Education, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, institution, degree, field_of_study, location, to_char(start_date, 'YYYY-MM-DD'),
		        to_char(end_date, 'YYYY-MM-DD'), is_current, description
		 FROM education WHERE profile_id = $1 ORDER BY created_at, id`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list education: %w", err)
	}
	defer rows.Close()

	out := []types.Education{}
	for rows.Next() {
		var e types.Education
		var id uuid.UUID
		if err := rows.Scan(&id, &e.Institution, &e.Degree, &e.FieldOfStudy, &e.Location, &e.StartDate, &e.EndDate, &e.IsCurrent, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		e.Ref = types.Saved(id)
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListSkills returns a profile's skills in insertion order.
func (db *DB) ListSkills(ctx context.Context, profileID uuid.UUID) ([]types.Skill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, skill_name, skill_level, skill_category
		 FROM skills WHERE profile_id = $1 ORDER BY created_at, id`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	out := []types.Skill{}
	for rows.Next() {
		var s types.Skill
		var id uuid.UUID
		if err := rows.Scan(&id, &s.Name, &s.Level, &s.Category); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		s.Ref = types.Saved(id)
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListProjects returns a profile's projects in insertion order.
func (db *DB) ListProjects(ctx context.Context, profileID uuid.UUID) ([]types.Project, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, description, technologies
		 FROM projects WHERE profile_id = $1 ORDER BY created_at, id`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	out := []types.Project{}
	for rows.Next() {
		var p types.Project
		var id uuid.UUID
		if err := rows.Scan(&id, &p.Name, &p.Description, &p.Technologies); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		if p.Technologies == nil {
			p.Technologies = []string{}
		}
		p.Ref = types.Saved(id)
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListLanguages returns a profile's languages in insertion order.
func (db *DB) ListLanguages(ctx context.Context, profileID uuid.UUID) ([]types.Language, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, proficiency
		 FROM languages WHERE profile_id = $1 ORDER BY created_at, id`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	defer rows.Close()

	out := []types.Language{}
	for rows.Next() {
		var l types.Language
		var id uuid.UUID
		if err := rows.Scan(&id, &l.Name, &l.Proficiency); err != nil {
			return nil, fmt.Errorf("failed to scan language: %w", err)
		}
		l.Ref = types.Saved(id)
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListCertifications returns a profile's certifications in insertion order.
func (db *DB) ListCertifications(ctx context.Context, profileID uuid.UUID) ([]types.Certification, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, issuer, to_char(issue_date, 'YYYY-MM-DD'), credential_id
		 FROM certifications WHERE profile_id = $1 ORDER BY created_at, id`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list certifications: %w", err)
	}
	defer rows.Close()

	out := []types.Certification{}
	for rows.Next() {
		var c types.Certification
		var id uuid.UUID
		if err := rows.Scan(&id, &c.Name, &c.Issuer, &c.IssueDate, &c.CredentialID); err != nil {
			return nil, fmt.Errorf("failed to scan certification: %w", err)
		}
		c.Ref = types.Saved(id)
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetLinks returns a profile's links; the zero value when none are stored.
func (db *DB) GetLinks(ctx context.Context, profileID uuid.UUID) (types.Links, error) {
	var l types.Links
	err := db.pool.QueryRow(ctx,
		`SELECT linkedin, github, portfolio, other FROM profile_links WHERE profile_id = $1`,
		profileID,
	).Scan(&l.LinkedIn, &l.GitHub, &l.Portfolio, &l.Other)
	if err != nil && !isNoRows(err) {
		return types.Links{}, fmt.Errorf("failed to get links: %w", err)
	}
	return l, nil
}

// saveEntry inserts a Pending entry and rewrites ref to Saved, or updates a Saved entry
// in place. Updates are scoped to profileID; a Saved ref owned by another profile
// yields ErrNotFound. insertSQL takes $1=profile_id, updateSQL takes $1=id, $2=profile_id,
// and both take args from the next placeholder on.
func (db *DB) saveEntry(ctx context.Context, ref *types.EntryRef, table string, profileID uuid.UUID, insertSQL, updateSQL string, args ...any) error {
	if id, ok := ref.ID(); ok {
		tag, err := db.pool.Exec(ctx, updateSQL, append([]any{id, profileID}, args...)...)
		if err != nil {
			return fmt.Errorf("failed to update %s entry: %w", table, err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	}

	var id uuid.UUID
	if err := db.pool.QueryRow(ctx, insertSQL, append([]any{profileID}, args...)...).Scan(&id); err != nil {
		return fmt.Errorf("failed to insert %s entry: %w", table, err)
	}
	*ref = types.Saved(id)
	return nil
}

const (
	insertExperienceSQL = `INSERT INTO experiences (profile_id, company, position, location, start_date, end_date, is_current, description)
		 VALUES ($1, $2, $3, $4, NULLIF($5::text, '')::date, NULLIF($6::text, '')::date, $7, $8) RETURNING id`
	insertEducationSQL = `INSERT INTO education (profile_id, institution, degree, field_of_study, location, start_date, end_date, is_current, description)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6::text, '')::date, NULLIF($7::text, '')::date, $8, $9) RETURNING id`
	insertSkillSQL = `INSERT INTO skills (profile_id, skill_name, skill_level, skill_category)
		 VALUES ($1, $2, $3, $4) RETURNING id`
	insertProjectSQL = `INSERT INTO projects (profile_id, name, description, technologies)
		 VALUES ($1, $2, $3, $4) RETURNING id`
	insertLanguageSQL = `INSERT INTO languages (profile_id, name, proficiency)
		 VALUES ($1, $2, $3) RETURNING id`
	insertCertificationSQL = `INSERT INTO certifications (profile_id, name, issuer, issue_date, credential_id)
		 VALUES ($1, $2, $3, NULLIF($4::text, '')::date, $5) RETURNING id`
)

func experienceArgs(e *types.Experience) []any {
	return []any{e.Company, e.Position, e.Location, e.StartDate, e.EndDate, e.IsCurrent, e.Description}
}

func educationArgs(e *types.Education) []any {
	return []any{e.Institution, e.Degree, e.FieldOfStudy, e.Location, e.StartDate, e.EndDate, e.IsCurrent, e.Description}
}

func projectArgs(p *types.Project) []any {
	tech := p.Technologies
	if tech == nil {
		tech = []string{}
	}
	return []any{p.Name, p.Description, tech}
}

// SaveExperience inserts or updates one experience.
func (db *DB) SaveExperience(ctx context.Context, profileID uuid.UUID, e *types.Experience) error {
	return db.saveEntry(ctx, &e.Ref, "experiences", profileID, insertExperienceSQL,
		`UPDATE experiences SET company = $3, position = $4, location = $5,
		     start_date = NULLIF($6::text, '')::date, end_date = NULLIF($7::text, '')::date,
		     is_current = $8, description = $9
		 WHERE id = $1 AND profile_id = $2`,
		experienceArgs(e)...)
}

// SaveEducation inserts or updates one education entry.
func (db *DB) SaveEducation(ctx context.Context, profileID uuid.UUID, e *types.Education) error {
	return db.saveEntry(ctx, &e.Ref, "education", profileID, insertEducationSQL,
		`UPDATE education SET institution = $3, degree = $4, field_of_study = $5, location = $6,
		     start_date = NULLIF($7::text, '')::date, end_date = NULLIF($8::text, '')::date,
		     is_current = $9, description = $10
		 WHERE id = $1 AND profile_id = $2`,
		educationArgs(e)...)
}

// SaveSkill inserts or updates one skill.
func (db *DB) SaveSkill(ctx context.Context, profileID uuid.UUID, s *types.Skill) error {
	return db.saveEntry(ctx, &s.Ref, "skills", profileID, insertSkillSQL,
		`UPDATE skills SET skill_name = $3, skill_level = $4, skill_category = $5
		 WHERE id = $1 AND profile_id = $2`,
		s.Name, s.Level, s.Category)
}

// SaveProject inserts or updates one project.
func (db *DB) SaveProject(ctx context.Context, profileID uuid.UUID, p *types.Project) error {
	return db.saveEntry(ctx, &p.Ref, "projects", profileID, insertProjectSQL,
		`UPDATE projects SET name = $3, description = $4, technologies = $5
		 WHERE id = $1 AND profile_id = $2`,
		projectArgs(p)...)
}

// SaveLanguage inserts or updates one language.
func (db *DB) SaveLanguage(ctx context.Context, profileID uuid.UUID, l *types.Language) error {
	return db.saveEntry(ctx, &l.Ref, "languages", profileID, insertLanguageSQL,
		`UPDATE languages SET name = $3, proficiency = $4
		 WHERE id = $1 AND profile_id = $2`,
		l.Name, l.Proficiency)
}

// SaveCertification inserts or updates one certification.
func (db *DB) SaveCertification(ctx context.Context, profileID uuid.UUID, c *types.Certification) error {
	return db.saveEntry(ctx, &c.Ref, "certifications", profileID, insertCertificationSQL,
		`UPDATE certifications SET name = $3, issuer = $4, issue_date = NULLIF($5::text, '')::date, credential_id = $6
		 WHERE id = $1 AND profile_id = $2`,
		c.Name, c.Issuer, c.IssueDate, c.CredentialID)
}

// SaveLinks upserts the singleton link record.
func (db *DB) SaveLinks(ctx context.Context, profileID uuid.UUID, l types.Links) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO profile_links (profile_id, linkedin, github, portfolio, other)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (profile_id) DO UPDATE SET
		     linkedin = EXCLUDED.linkedin, github = EXCLUDED.github,
		     portfolio = EXCLUDED.portfolio, other = EXCLUDED.other`,
		profileID, l.LinkedIn, l.GitHub, l.Portfolio, l.Other,
	)
	if err != nil {
		return fmt.Errorf("failed to save links: %w", err)
	}
	return nil
}

// DeleteEntry removes one saved entry of a profile collection. Rows owned by another
// profile are reported as ErrNotFound.
func (db *DB) DeleteEntry(ctx context.Context, profileID uuid.UUID, c types.Collection, id uuid.UUID) error {
	table, err := tableFor(c)
	if err != nil {
		return err
	}
	tag, err := db.pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1 AND profile_id = $2`, id, profileID)
	if err != nil {
		return fmt.Errorf("failed to delete %s entry: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCollection removes every entry of one collection.
func (db *DB) DeleteCollection(ctx context.Context, profileID uuid.UUID, c types.Collection) error {
	table, err := tableFor(c)
	if err != nil {
		return err
	}
	if _, err := db.pool.Exec(ctx, `DELETE FROM `+table+` WHERE profile_id = $1`, profileID); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}
	return nil
}

// sendBatch runs every queued insert and reports the first failure.
func (db *DB) sendBatch(ctx context.Context, table string, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	br := db.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert %s: %w", table, err)
		}
	}
	return br.Close()
}

// InsertExperiences batch-inserts experiences in order.
func (db *DB) InsertExperiences(ctx context.Context, profileID uuid.UUID, entries []types.Experience) error {
	batch := &pgx.Batch{}
	for i := range entries {
		batch.Queue(insertExperienceSQL, append([]any{profileID}, experienceArgs(&entries[i])...)...)
	}
	return db.sendBatch(ctx, "experiences", batch)
}

// InsertEducation batch-inserts education entries in order.
func (db *DB) InsertEducation(ctx context.Context, profileID uuid.UUID, entries []types.Education) error {
	batch := &pgx.Batch{}
	for i := range entries {
		batch.Queue(insertEducationSQL, append([]any{profileID}, educationArgs(&entries[i])...)...)
	}
	return db.sendBatch(ctx, "education", batch)
}

// InsertSkills batch-inserts skills in order.
func (db *DB) InsertSkills(ctx context.Context, profileID uuid.UUID, entries []types.Skill) error {
	batch := &pgx.Batch{}
	for _, s := range entries {
		batch.Queue(insertSkillSQL, profileID, s.Name, s.Level, s.Category)
	}
	return db.sendBatch(ctx, "skills", batch)
}

// InsertProjects batch-inserts projects in order.
func (db *DB) InsertProjects(ctx context.Context, profileID uuid.UUID, entries []types.Project) error {
	batch := &pgx.Batch{}
	for i := range entries {
		batch.Queue(insertProjectSQL, append([]any{profileID}, projectArgs(&entries[i])...)...)
	}
	return db.sendBatch(ctx, "projects", batch)
}

// InsertLanguages batch-inserts languages in order.
func (db *DB) InsertLanguages(ctx context.Context, profileID uuid.UUID, entries []types.Language) error {
	batch := &pgx.Batch{}
	for _, l := range entries {
		batch.Queue(insertLanguageSQL, profileID, l.Name, l.Proficiency)
	}
	return db.sendBatch(ctx, "languages", batch)
}
