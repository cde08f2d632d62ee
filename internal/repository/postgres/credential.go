package postgres

import (
	"context"

	"github.com/jwalitptl/hospital-api/internal/model"
)

func (r *credentialRepository) Get(ctx context.Context, userID string) (*model.Credential, error) {
	var cred model.Credential
	query := `SELECT user_id, password_hash, role, created_at FROM login_credentials WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &cred, query, userID); err != nil {
		return nil, wrap("get credential", err)
	}
	return &cred, nil
}

func (r *credentialRepository) Create(ctx context.Context, cred *model.Credential) error {
	query := `
		INSERT INTO login_credentials (user_id, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	if err := r.db.GetContext(ctx, &cred.CreatedAt, query, cred.UserID, cred.PasswordHash, cred.Role); err != nil {
		return wrap("create credential", err)
	}
	return nil
}
