package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iamvishalkhare/redisearch-product-catalog/pkg/validator"

	"github.com/iamvishalkhare/redisearch-product-catalog/internal/domain"
	"github.com/iamvishalkhare/redisearch-product-catalog/internal/store"
)

// RegisterTenantInput holds the parameters for registering a customer.
type RegisterTenantInput struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Email       string   `json:"email" validate:"required,email"`
	Tags        []string `json:"tags" validate:"required"`
}

// TenantService implements customer registration and lookup.
type TenantService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTenantService creates a new tenant service.
func NewTenantService(st store.Store, logger *slog.Logger) *TenantService {
	return &TenantService{
		store:  st,
		logger: logger,
	}
}

// Register creates a tenant and returns its token. At most one tenant may
// exist per email; a conflict fails with ErrDuplicateEmail.
func (s *TenantService) Register(ctx context.Context, input RegisterTenantInput) (string, error) {
	if err := validator.Validate(input); err != nil {
		return "", err
	}

	tenant := &domain.Tenant{
		Name:        input.Name,
		Description: input.Description,
		Email:       input.Email,
		Tags:        input.Tags,
	}
	if tenant.Tags == nil {
		tenant.Tags = []string{}
	}

	token, err := s.store.CreateTenant(ctx, tenant)
	if err != nil {
		return "", fmt.Errorf("register customer: %w", err)
	}

	s.logger.InfoContext(ctx, "customer registered",
		slog.String("token", token),
		slog.String("name", input.Name),
	)

	return token, nil
}

// Get looks a tenant up by its token.
func (s *TenantService) Get(ctx context.Context, token string) (*domain.Tenant, error) {
	tenant, err := s.store.GetTenant(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return tenant, nil
}
