package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/ecommerce-backend/internal/utils"
)

// SessionRepo is the session registry. It records every token issuance and
// its revocation independently of the token's own validity.
type SessionRepo struct{ DB *sqlx.DB }

func NewSessionRepo(db *sqlx.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Create inserts an active session row for a freshly issued token. It never
// upserts: a user accumulates one row per login. Only the token digest is
// stored.
func (r *SessionRepo) Create(ctx context.Context, userID uint64, token string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (user_id, token, is_active) VALUES (?,?,true)",
		userID, utils.HashToken(token))
	return err
}

// HasActive reports whether userID holds at least one active session.
func (r *SessionRepo) HasActive(ctx context.Context, userID uint64) (bool, error) {
	var n int
	err := r.DB.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM sessions WHERE user_id=? AND is_active=true", userID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeactivateAll flips every active session of userID to inactive and
// returns how many were revoked. Deactivation is scoped to the user, not
// the presented token, so logout ends all of the user's sessions.
func (r *SessionRepo) DeactivateAll(ctx context.Context, userID uint64) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET is_active=false WHERE user_id=? AND is_active=true", userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
