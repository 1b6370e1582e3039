package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/cv-builder/internal/types"
)

// SaveContactMessage stores a validated contact-form submission.
func (db *DB) SaveContactMessage(ctx context.Context, req *types.ContactRequest) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO contact_messages (name, email, subject, message)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		req.Name, req.Email, req.Subject, req.Message,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save contact message: %w", err)
	}
	return id, nil
}
