package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"travelplanner/internal/domain"
	"travelplanner/internal/domain/models"
	"travelplanner/internal/repositories"
	"travelplanner/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for stored password hashes.
const BcryptCost = 12

type AccountService struct {
	Accounts  AccountStore
	RequestID string
	// HashCost overrides BcryptCost when non-zero.
	HashCost int
	Now      func() time.Time
	NewID    func() string
}

func (s AccountService) hashCost() int {
	if s.HashCost != 0 {
		return s.HashCost
	}
	return BcryptCost
}

// SignUp creates a credentials account and returns its ID.
func (s AccountService) SignUp(ctx context.Context, name, email, password string) (string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	switch {
	case name == "":
		return "", domain.ValidationError{Field: "name", Msg: "is required"}
	case email == "":
		return "", domain.ValidationError{Field: "email", Msg: "is required"}
	case password == "":
		return "", domain.ValidationError{Field: "password", Msg: "is required"}
	}

	_, err := s.Accounts.GetByEmail(ctx, email)
	if err == nil {
		return "", domain.ConflictError{Resource: "account", Msg: "email already registered"}
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return "", storeError(s.RequestID, "account", "lookup_email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost())
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.ValidationError{Field: "password", Msg: "must be at most 72 bytes"}
	}
	if err != nil {
		return "", storeError(s.RequestID, "account", "hash_password", err)
	}
	hashed := string(hash)

	now := nowOr(s.Now)
	acc := models.Account{
		ID:           newIDOr(s.NewID),
		Email:        email,
		Name:         name,
		PasswordHash: &hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Accounts.Create(ctx, acc); err != nil {
		// A concurrent signup can pass the lookup and lose on the unique key.
		if errors.Is(err, repositories.ErrDuplicate) {
			return "", domain.ConflictError{Resource: "account", Msg: "email already registered", Err: err}
		}
		return "", storeError(s.RequestID, "account", "create_account", err)
	}

	utils.LogEvent(s.RequestID, "account", "sign_up", "account_id="+acc.ID)
	return acc.ID, nil
}

// SignIn checks email and password. Every failure cause yields the same
// UnauthorizedError.
func (s AccountService) SignIn(ctx context.Context, email, password string) (models.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.Account{}, domain.UnauthorizedError{}
	}
	acc, err := s.Accounts.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Account{}, domain.UnauthorizedError{Err: err}
	}
	if err != nil {
		return models.Account{}, storeError(s.RequestID, "account", "lookup_email", err)
	}
	if !acc.HasPassword() {
		return models.Account{}, domain.UnauthorizedError{}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*acc.PasswordHash), []byte(password)); err != nil {
		return models.Account{}, domain.UnauthorizedError{Err: err}
	}

	utils.LogEvent(s.RequestID, "account", "sign_in", "account_id="+acc.ID)
	return acc, nil
}

// SignInOAuth resolves an external profile to a local account: an existing
// link wins, then an account with the same email is linked, otherwise a new
// account without password is created.
func (s AccountService) SignInOAuth(ctx context.Context, p models.OAuthProfile) (models.Account, error) {
	if p.Provider == "" || p.ProviderAccountID == "" {
		return models.Account{}, domain.ValidationError{Field: "provider", Msg: "incomplete profile"}
	}
	if strings.TrimSpace(p.Email) == "" {
		return models.Account{}, domain.ValidationError{Field: "email", Msg: "provider did not share an email address"}
	}

	identity, err := s.Accounts.FindIdentity(ctx, p.Provider, p.ProviderAccountID)
	switch {
	case err == nil:
		acc, err := s.Accounts.GetByID(ctx, identity.AccountID)
		if err != nil {
			return models.Account{}, storeError(s.RequestID, "account", "get_account", err)
		}
		return acc, nil
	case !errors.Is(err, repositories.ErrNotFound):
		return models.Account{}, storeError(s.RequestID, "account", "find_identity", err)
	}

	now := nowOr(s.Now)
	acc, err := s.Accounts.GetByEmail(ctx, strings.TrimSpace(p.Email))
	if errors.Is(err, repositories.ErrNotFound) {
		acc = models.Account{
			ID:        newIDOr(s.NewID),
			Email:     strings.TrimSpace(p.Email),
			Name:      utils.FirstNonEmpty(p.Name, p.Email),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if p.Image != "" {
			img := p.Image
			acc.Image = &img
		}
		if err := s.Accounts.Create(ctx, acc); errors.Is(err, repositories.ErrDuplicate) {
			if acc, err = s.Accounts.GetByEmail(ctx, acc.Email); err != nil {
				return models.Account{}, storeError(s.RequestID, "account", "lookup_email", err)
			}
		} else if err != nil {
			return models.Account{}, storeError(s.RequestID, "account", "create_account", err)
		}
	} else if err != nil {
		return models.Account{}, storeError(s.RequestID, "account", "lookup_email", err)
	}

	if err := s.Accounts.LinkIdentity(ctx, models.OAuthIdentity{
		Provider:          p.Provider,
		ProviderAccountID: p.ProviderAccountID,
		AccountID:         acc.ID,
		CreatedAt:         now,
	}); err != nil {
		return models.Account{}, storeError(s.RequestID, "account", "link_identity", err)
	}

	utils.LogEvent(s.RequestID, "account", "sign_in_oauth", fmt.Sprintf("provider=%s account_id=%s", p.Provider, acc.ID))
	return acc, nil
}

func (s AccountService) GetAccount(ctx context.Context, id string) (models.Account, error) {
	if id == "" {
		return models.Account{}, domain.ValidationError{Field: "id", Msg: "is required"}
	}
	acc, err := s.Accounts.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Account{}, domain.NotFoundError{Resource: "account", Err: err}
	}
	if err != nil {
		return models.Account{}, storeError(s.RequestID, "account", "get_account", err)
	}
	return acc, nil
}
