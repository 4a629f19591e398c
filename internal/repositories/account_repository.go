package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intdb "travelplanner/internal/db"
	"travelplanner/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

const accountColumns = `id, email, name, password_hash, image, created_at, updated_at`

type AccountRepository struct {
	DB *sqlx.DB
}

// GetByEmail matches the stored email exactly (the column uses a binary collation).
func (r AccountRepository) GetByEmail(ctx context.Context, email string) (models.Account, error) {
	var a models.Account
	err := r.DB.GetContext(ctx, &a, `SELECT `+accountColumns+` FROM accounts WHERE email = ? LIMIT 1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrNotFound
	}
	if err != nil {
		return a, fmt.Errorf("get account by email: %w", err)
	}
	return a, nil
}

func (r AccountRepository) GetByID(ctx context.Context, id string) (models.Account, error) {
	var a models.Account
	err := r.DB.GetContext(ctx, &a, `SELECT `+accountColumns+` FROM accounts WHERE id = ? LIMIT 1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrNotFound
	}
	if err != nil {
		return a, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// Create inserts the account. A taken email yields ErrDuplicate.
func (r AccountRepository) Create(ctx context.Context, a models.Account) error {
	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES (:id, :email, :name, :password_hash, :image, :created_at, :updated_at)`, a)
	if intdb.IsDuplicateKey(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r AccountRepository) FindIdentity(ctx context.Context, provider, providerAccountID string) (models.OAuthIdentity, error) {
	var id models.OAuthIdentity
	err := r.DB.GetContext(ctx, &id, `
		SELECT provider, provider_account_id, account_id, created_at
		FROM oauth_identities
		WHERE provider = ? AND provider_account_id = ?
		LIMIT 1`, provider, providerAccountID)
	if errors.Is(err, sql.ErrNoRows) {
		return id, ErrNotFound
	}
	if err != nil {
		return id, fmt.Errorf("get oauth identity: %w", err)
	}
	return id, nil
}

// LinkIdentity records that the provider account signs in as identity.AccountID.
// Linking the same pair twice is a no-op.
func (r AccountRepository) LinkIdentity(ctx context.Context, identity models.OAuthIdentity) error {
	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO oauth_identities (provider, provider_account_id, account_id, created_at)
		VALUES (:provider, :provider_account_id, :account_id, :created_at)
		ON DUPLICATE KEY UPDATE account_id = account_id`, identity)
	if err != nil {
		return fmt.Errorf("insert oauth identity: %w", err)
	}
	return nil
}
