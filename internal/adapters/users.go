package adapters

import (
	"context"

	authrepo "cotizador_backend/internal/auth/repository"
	quotationservice "cotizador_backend/internal/quotations/service"

	"github.com/google/uuid"
)

// UserDirectory exposes accounts and the sales force to the quotations
// module.
type UserDirectory struct {
	repo *authrepo.Repository
}

// NewUserDirectory creates the quotations-facing auth adapter.
func NewUserDirectory(repo *authrepo.Repository) *UserDirectory {
	return &UserDirectory{repo: repo}
}

// GetUser implements quotations/service.UserDirectory.
func (a *UserDirectory) GetUser(ctx context.Context, id uuid.UUID) (*quotationservice.UserInfo, error) {
	u, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &quotationservice.UserInfo{
		ID:          u.ID,
		FullName:    u.FullName,
		CompanyName: u.CompanyName,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        u.Role,
		IsActive:    u.IsActive,
	}, nil
}

// ActiveSalespersonIDs implements quotations/service.UserDirectory.
func (a *UserDirectory) ActiveSalespersonIDs(ctx context.Context) ([]uuid.UUID, error) {
	return a.repo.ActiveSalespersonIDs(ctx)
}

var _ quotationservice.UserDirectory = (*UserDirectory)(nil)
