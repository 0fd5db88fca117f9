package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdevers/yachtroom/internal/models"
)

type memoryRepo struct {
	byID     map[uuid.UUID]models.Identity
	byHandle map[string]models.Identity
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		byID:     make(map[uuid.UUID]models.Identity),
		byHandle: make(map[string]models.Identity),
	}
}

func (r *memoryRepo) CreateIdentity(ctx context.Context, ident models.Identity) (*models.Identity, error) {
	r.byID[ident.ID] = ident
	r.byHandle[ident.Handle] = ident
	return &ident, nil
}

func (r *memoryRepo) GetIdentity(ctx context.Context, id uuid.UUID) (*models.Identity, error) {
	ident, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &ident, nil
}

func (r *memoryRepo) GetIdentityByHandle(ctx context.Context, handle string) (*models.Identity, error) {
	ident, ok := r.byHandle[handle]
	if !ok {
		return nil, ErrNotFound
	}
	return &ident, nil
}

func TestCreateIdentityNormalizesHandle(t *testing.T) {
	app := NewApp(newMemoryRepo())

	ident, err := app.CreateIdentity(context.Background(), "  Alice ", "")
	require.NoError(t, err)
	assert.Equal(t, "alice", ident.Handle)
	assert.Equal(t, "alice", ident.DisplayName, "display name defaults to the handle")
	assert.NotEqual(t, uuid.Nil, ident.ID)
}

func TestCreateIdentityKeepsDisplayName(t *testing.T) {
	app := NewApp(newMemoryRepo())

	ident, err := app.CreateIdentity(context.Background(), "bob", " Bob the Builder ")
	require.NoError(t, err)
	assert.Equal(t, "Bob the Builder", ident.DisplayName)
}

func TestCreateIdentityRequiresHandle(t *testing.T) {
	app := NewApp(newMemoryRepo())

	_, err := app.CreateIdentity(context.Background(), "   ", "anything")
	require.Error(t, err)
}

func TestCreateIdentityRejectsDuplicateHandle(t *testing.T) {
	app := NewApp(newMemoryRepo())

	_, err := app.CreateIdentity(context.Background(), "carol", "")
	require.NoError(t, err)

	_, err = app.CreateIdentity(context.Background(), "CAROL", "")
	require.Error(t, err, "handles are unique case-insensitively")
}

func TestGetIdentityByHandleNormalizes(t *testing.T) {
	app := NewApp(newMemoryRepo())

	created, err := app.CreateIdentity(context.Background(), "dave", "")
	require.NoError(t, err)

	found, err := app.GetIdentityByHandle(context.Background(), " DAVE ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestGetIdentityMissing(t *testing.T) {
	app := NewApp(newMemoryRepo())

	_, err := app.GetIdentity(context.Background(), uuid.New())
	require.Error(t, err)
}
