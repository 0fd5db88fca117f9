package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mdevers/yachtroom/internal/models"
)

// IdentityRepository defines what the app layer needs from the repository
type IdentityRepository interface {
	CreateIdentity(ctx context.Context, ident models.Identity) (*models.Identity, error)
	GetIdentity(ctx context.Context, id uuid.UUID) (*models.Identity, error)
	GetIdentityByHandle(ctx context.Context, handle string) (*models.Identity, error)
}

// App handles identity business logic. Identities are created once and
// immutable afterwards.
type App struct {
	repo IdentityRepository
}

func NewApp(repo IdentityRepository) *App {
	return &App{repo: repo}
}

// CreateIdentity registers a new identity, enforcing handle uniqueness.
func (a *App) CreateIdentity(ctx context.Context, handle, displayName string) (*models.Identity, error) {
	handle = strings.TrimSpace(strings.ToLower(handle))
	displayName = strings.TrimSpace(displayName)
	if handle == "" {
		return nil, fmt.Errorf("handle is required")
	}
	if displayName == "" {
		displayName = handle
	}

	if existing, err := a.repo.GetIdentityByHandle(ctx, handle); err == nil && existing != nil {
		return nil, fmt.Errorf("identity with handle %s already exists", handle)
	}

	ident, err := a.repo.CreateIdentity(ctx, models.Identity{
		ID:          uuid.New(),
		Handle:      handle,
		DisplayName: displayName,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	log.Info().Str("handle", ident.Handle).Msg("identity created")
	return ident, nil
}

// GetIdentity resolves an identity by id.
func (a *App) GetIdentity(ctx context.Context, id uuid.UUID) (*models.Identity, error) {
	ident, err := a.repo.GetIdentity(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}
	return ident, nil
}

// GetIdentityByHandle resolves an identity by its unique handle.
func (a *App) GetIdentityByHandle(ctx context.Context, handle string) (*models.Identity, error) {
	ident, err := a.repo.GetIdentityByHandle(ctx, strings.TrimSpace(strings.ToLower(handle)))
	if err != nil {
		return nil, fmt.Errorf("failed to get identity by handle: %w", err)
	}
	return ident, nil
}
