package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/cv-builder/internal/types"
)

const documentColumns = `id, user_id, job_title, company_name, job_description, cv_content,
	cover_letter_content, template_id, analysis, created_at, updated_at`

func scanDocument(row interface{ Scan(...any) error }) (*types.GeneratedDocument, error) {
	var d types.GeneratedDocument
	var cvJSON, analysisJSON []byte
	if err := row.Scan(&d.ID, &d.UserID, &d.JobTitle, &d.CompanyName, &d.JobDescription, &cvJSON,
		&d.CoverLetterContent, &d.TemplateID, &analysisJSON, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(cvJSON, &d.CVContent); err != nil {
		return nil, fmt.Errorf("failed to decode cv_content: %w", err)
	}
	d.CVContent.Normalize()
	if err := json.Unmarshal(analysisJSON, &d.Analysis); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	return &d, nil
}

// CreateDocument persists a generated document and fills its ID and timestamps.
func (db *DB) CreateDocument(ctx context.Context, d *types.GeneratedDocument) error {
	cvJSON, err := json.Marshal(d.CVContent)
	if err != nil {
		return fmt.Errorf("failed to marshal cv_content: %w", err)
	}
	analysisJSON, err := json.Marshal(d.Analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO generated_documents
		     (user_id, job_title, company_name, job_description, cv_content, cover_letter_content, template_id, analysis)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		d.UserID, d.JobTitle, d.CompanyName, d.JobDescription, cvJSON, d.CoverLetterContent, d.TemplateID, analysisJSON,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document owned by userID. Returns nil, nil when the document
// does not exist or belongs to someone else.
func (db *DB) GetDocument(ctx context.Context, id, userID uuid.UUID) (*types.GeneratedDocument, error) {
	d, err := scanDocument(db.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM generated_documents WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return d, nil
}

// ListDocuments returns summaries of a user's documents, newest first.
func (db *DB) ListDocuments(ctx context.Context, userID uuid.UUID) ([]types.DocumentSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, job_title, company_name, template_id,
		        COALESCE((analysis->>'match_percentage')::int, 0), created_at, updated_at
		 FROM generated_documents WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	out := []types.DocumentSummary{}
	for rows.Next() {
		var s types.DocumentSummary
		if err := rows.Scan(&s.ID, &s.JobTitle, &s.CompanyName, &s.TemplateID, &s.MatchPercentage, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateDocument overwrites the CV content and, when set, the cover letter and template.
// Last write wins. Returns nil, nil when the document does not exist or is not owned by userID.
func (db *DB) UpdateDocument(ctx context.Context, id, userID uuid.UUID, u types.DocumentUpdate) (*types.GeneratedDocument, error) {
	cvJSON, err := json.Marshal(u.CVContent)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cv_content: %w", err)
	}

	d, err := scanDocument(db.pool.QueryRow(ctx,
		`UPDATE generated_documents SET
		     cv_content = $3,
		     cover_letter_content = COALESCE($4, cover_letter_content),
		     template_id = COALESCE($5, template_id),
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+documentColumns,
		id, userID, cvJSON, u.CoverLetterContent, u.TemplateID,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return d, nil
}

// DeleteDocument removes a document owned by userID.
func (db *DB) DeleteDocument(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM generated_documents WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
