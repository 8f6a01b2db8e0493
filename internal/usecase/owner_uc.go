package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"blackinpay/internal/domain"
	"blackinpay/internal/domain/model"
	"blackinpay/internal/domain/ports/repository"
)

// Compile-time check
var _ OwnerUseCase = (*ownerUC)(nil)

// PasswordHasher abstracts credential hashing so tests can swap bcrypt out.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type OwnerUseCase interface {
	Register(ctx context.Context, email, name, password string) (*model.Owner, error)
	// Login returns the owner when credentials match; ErrUnauthorized otherwise.
	Login(ctx context.Context, email, password string) (*model.Owner, error)
	Get(ctx context.Context, id string) (*model.Owner, error)
	// UpdateFeePercent changes the platform split for one owner (0..100).
	UpdateFeePercent(ctx context.Context, ownerID string, feePercent int) error
}

type ownerUC struct {
	owners repository.OwnerRepository
	hasher PasswordHasher
}

func NewOwnerUseCase(owners repository.OwnerRepository, hasher PasswordHasher) *ownerUC {
	return &ownerUC{owners: owners, hasher: hasher}
}

func (u *ownerUC) Register(ctx context.Context, email, name, password string) (*model.Owner, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") || len(password) < 8 {
		return nil, domain.ErrInvalidArgument
	}

	if _, err := u.owners.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrAlreadyExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	owner, err := model.NewOwner(uuid.NewString(), email, name, hash)
	if err != nil {
		return nil, err
	}
	if err := u.owners.Save(ctx, owner); err != nil {
		return nil, err
	}
	return owner, nil
}

func (u *ownerUC) Login(ctx context.Context, email, password string) (*model.Owner, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	owner, err := u.owners.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if err := u.hasher.Compare(owner.PasswordHash, password); err != nil {
		return nil, domain.ErrUnauthorized
	}
	return owner, nil
}

func (u *ownerUC) Get(ctx context.Context, id string) (*model.Owner, error) {
	return u.owners.FindByID(ctx, id)
}

func (u *ownerUC) UpdateFeePercent(ctx context.Context, ownerID string, feePercent int) error {
	if feePercent < 0 || feePercent > 100 {
		return domain.ErrInvalidArgument
	}
	return u.owners.UpdateFeePercent(ctx, ownerID, feePercent)
}
