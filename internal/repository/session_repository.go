package repository

import (
	"database/sql"
	"time"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(userID string, tokenHash string, expiresAt time.Time) error {
	_, err := r.db.Exec(`
		INSERT INTO sessions (user_id, token_hash, created_at, last_seen_at, expires_at)
		VALUES ($1, $2, now(), now(), $3)
	`, userID, tokenHash, expiresAt)
	return err
}

// UserIDByTokenHash resolves a session to its user. Expired or unknown
// tokens return an empty id and no error.
func (r *SessionRepository) UserIDByTokenHash(tokenHash string) (string, error) {
	var userID string
	err := r.db.QueryRow(`
		SELECT user_id FROM sessions
		WHERE token_hash = $1 AND (expires_at IS NULL OR expires_at > now())
	`, tokenHash).Scan(&userID)

	if err == sql.ErrNoRows {
		return "", nil
	}

	if err != nil {
		return "", err
	}

	_, err = r.db.Exec(`
		UPDATE sessions SET last_seen_at = now() WHERE token_hash = $1
	`, tokenHash)
	if err != nil {
		return "", err
	}

	return userID, nil
}
