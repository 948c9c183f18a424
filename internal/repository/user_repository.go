package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
)

const userColumns = `id, email, password_hash, full_name, role, COALESCE(level, '') AS level, partner_state_id, regional_partner_id, city, access_profile_id, active, last_login, created_at, updated_at`

// UserRepository provides database access for users, their access profile
// areas and refresh tokens.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = $1", email)
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *UserRepository) findOne(ctx context.Context, condition string, arg interface{}) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + condition + ` LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, arg); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	areas, err := r.ListAreas(ctx, user.AccessProfileID)
	if err != nil {
		return nil, err
	}
	user.Areas = areas
	return &user, nil
}

// ListAreas returns the areas granted by an access profile.
func (r *UserRepository) ListAreas(ctx context.Context, accessProfileID *string) ([]string, error) {
	if accessProfileID == nil {
		return nil, nil
	}
	const query = `SELECT area FROM access_profile_areas WHERE access_profile_id = $1 ORDER BY area ASC`
	var areas []string
	if err := r.db.SelectContext(ctx, &areas, query, *accessProfileID); err != nil {
		return nil, fmt.Errorf("list access profile areas: %w", err)
	}
	return areas, nil
}

// UpdateLastLogin updates the last_login timestamp for a user.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE users SET last_login = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// AccessProfileHook grants an access profile to a user within a transition.
func (r *UserRepository) AccessProfileHook(userID, accessProfileID string) TxHook {
	return func(ctx context.Context, tx *sqlx.Tx) error {
		const query = `UPDATE users SET access_profile_id = $2, updated_at = $3 WHERE id = $1`
		if _, err := tx.ExecContext(ctx, query, userID, accessProfileID, time.Now().UTC()); err != nil {
			return fmt.Errorf("update access profile: %w", err)
		}
		return nil
	}
}

// ListScholarsMissingReport returns active scholars of a partner state holding
// a signed term and no report for month/year.
func (r *UserRepository) ListScholarsMissingReport(ctx context.Context, partnerStateID string, month, year int) ([]models.Recipient, error) {
	const query = `SELECT DISTINCT u.id, u.full_name FROM users u
JOIN scholars s ON s.user_id = u.id
JOIN terms_of_membership t ON t.user_id = u.id AND t.status = $2
WHERE u.active = TRUE AND u.partner_state_id = $1
AND NOT EXISTS (SELECT 1 FROM monthly_reports mr WHERE mr.user_id = u.id AND mr.month = $3 AND mr.year = $4)
ORDER BY u.full_name ASC`
	var recipients []models.Recipient
	if err := r.db.SelectContext(ctx, &recipients, query, partnerStateID, models.TermSigned, month, year); err != nil {
		return nil, fmt.Errorf("list scholars missing report: %w", err)
	}
	return recipients, nil
}

// ListValidatorsWithPending returns active validators at level in a partner
// state who have reports for month/year waiting at their level inside their
// jurisdiction.
func (r *UserRepository) ListValidatorsWithPending(ctx context.Context, partnerStateID string, level models.Level, month, year int) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users v
WHERE v.active = TRUE AND v.partner_state_id = $1 AND v.level = $2
AND EXISTS (
  SELECT 1 FROM monthly_reports mr JOIN users o ON o.id = mr.user_id
  WHERE mr.current_level = $2 AND mr.status IN ($3, $4) AND mr.month = $5 AND mr.year = $6
  AND o.active = TRUE AND o.partner_state_id = v.partner_state_id
  AND (v.level = 'STATE' OR o.regional_partner_id = v.regional_partner_id)
  AND (v.level <> 'COUNTY' OR o.city = v.city)
)
ORDER BY v.full_name ASC`
	var validators []models.User
	err := r.db.SelectContext(ctx, &validators, query, partnerStateID, level,
		models.StatusPendingValidation, models.StatusInValidation, month, year)
	if err != nil {
		return nil, fmt.Errorf("list validators with pending reports: %w", err)
	}
	for i := range validators {
		areas, err := r.ListAreas(ctx, validators[i].AccessProfileID)
		if err != nil {
			return nil, err
		}
		validators[i].Areas = areas
	}
	return validators, nil
}

// CreateRefreshToken persists a refresh token entry.
func (r *UserRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	const query = `INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at, revoked, revoked_at, ip_address, user_agent) VALUES (:id, :user_id, :token, :expires_at, :created_at, :revoked, :revoked_at, :ip_address, :user_agent)`
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// FindRefreshToken returns a refresh token by token string.
func (r *UserRepository) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	const query = `SELECT id, user_id, token, expires_at, created_at, revoked, revoked_at, ip_address, user_agent FROM refresh_tokens WHERE token = $1 LIMIT 1`
	var rt models.RefreshToken
	if err := r.db.GetContext(ctx, &rt, query, token); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return &rt, nil
}

// RevokeRefreshToken marks a token as revoked.
func (r *UserRepository) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, revokedAt); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeUserRefreshTokens revokes all refresh tokens for a user.
func (r *UserRepository) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE user_id = $1 AND revoked = FALSE`
	if _, err := r.db.ExecContext(ctx, query, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("revoke user refresh tokens: %w", err)
	}
	return nil
}
