package repository

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/mmarufov/Daily/internal/model"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertFromIdentity finds or creates the user behind a verified provider
// identity and records the identity link.
func (r *UserRepository) UpsertFromIdentity(identity model.Identity) (*model.User, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var user model.User

	if identity.Email != "" {
		err = tx.QueryRow(`
			SELECT id, COALESCE(email, ''), COALESCE(display_name, ''), COALESCE(photo_url, '')
			FROM users
			WHERE lower(email) = lower($1) AND is_deleted = false
		`, identity.Email).Scan(&user.ID, &user.Email, &user.DisplayName, &user.PhotoURL)

		if err == nil {
			_, err = tx.Exec(`
				UPDATE users
				SET display_name = COALESCE(NULLIF($1, ''), display_name),
					photo_url = COALESCE(NULLIF($2, ''), photo_url),
					last_login = now(), updated_at = now()
				WHERE id = $3
			`, identity.Name, identity.Picture, user.ID)
			if err != nil {
				return nil, err
			}
		} else if err == sql.ErrNoRows {
			err = tx.QueryRow(`
				INSERT INTO users (email, display_name, photo_url, last_login)
				VALUES (LOWER($1), $2, $3, now())
				RETURNING id, COALESCE(email, ''), COALESCE(display_name, ''), COALESCE(photo_url, '')
			`, identity.Email, identity.Name, identity.Picture).Scan(&user.ID, &user.Email, &user.DisplayName, &user.PhotoURL)
			if err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	} else {
		err = tx.QueryRow(`
			INSERT INTO users (display_name, photo_url, last_login)
			VALUES ($1, $2, now())
			RETURNING id, COALESCE(email, ''), COALESCE(display_name, ''), COALESCE(photo_url, '')
		`, identity.Name, identity.Picture).Scan(&user.ID, &user.Email, &user.DisplayName, &user.PhotoURL)
		if err != nil {
			return nil, err
		}
	}

	_, err = tx.Exec(`
		INSERT INTO user_identities (user_id, provider, provider_user_id, email)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (provider, provider_user_id)
		DO UPDATE SET user_id = EXCLUDED.user_id, email = EXCLUDED.email
	`, user.ID, identity.Provider, identity.ProviderUserID, identity.Email)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetByID(id string) (*model.User, error) {
	var user model.User
	err := r.db.QueryRow(`
		SELECT id, COALESCE(email, ''), COALESCE(display_name, ''), COALESCE(photo_url, '')
		FROM users
		WHERE id = $1 AND is_deleted = false
	`, id).Scan(&user.ID, &user.Email, &user.DisplayName, &user.PhotoURL)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetPreferences returns nil when the user never saved preferences; the
// curator treats that as the topic-fallback state.
func (r *UserRepository) GetPreferences(userID string) (*model.Preferences, error) {
	var prefs model.Preferences
	var interests pq.StringArray
	var updatedAt sql.NullTime

	err := r.db.QueryRow(`
		SELECT COALESCE(ai_profile, ''), interests, completed, updated_at
		FROM user_preferences
		WHERE user_id = $1
	`, userID).Scan(&prefs.AIProfile, &interests, &prefs.Completed, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	prefs.Interests = interests
	if updatedAt.Valid {
		prefs.UpdatedAt = updatedAt.Time
	}

	return &prefs, nil
}

func (r *UserRepository) SavePreferences(userID string, prefs model.Preferences) error {
	_, err := r.db.Exec(`
		INSERT INTO user_preferences (user_id, ai_profile, interests, completed, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id)
		DO UPDATE SET ai_profile = EXCLUDED.ai_profile, interests = EXCLUDED.interests,
			completed = EXCLUDED.completed, updated_at = EXCLUDED.updated_at
	`, userID, prefs.AIProfile, pq.Array(prefs.Interests), prefs.Completed, time.Now())
	return err
}
