package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdevers/yachtroom/internal/models"
	"github.com/mdevers/yachtroom/internal/session"
)

// stubCoordinator returns canned responses for the HTTP surface tests.
type stubCoordinator struct {
	snap *session.Snapshot
	err  error
}

func (s *stubCoordinator) CreateRoom(ctx context.Context, hostIdentityID uuid.UUID) (*session.Snapshot, error) {
	return s.snap, s.err
}
func (s *stubCoordinator) JoinRoom(ctx context.Context, code string, identityID uuid.UUID) (*session.Snapshot, error) {
	return s.snap, s.err
}
func (s *stubCoordinator) LookupRoom(ctx context.Context, code string) (*session.Snapshot, error) {
	return s.snap, s.err
}
func (s *stubCoordinator) Snapshot(ctx context.Context, roomID uuid.UUID) (*session.Snapshot, error) {
	return s.snap, s.err
}
func (s *stubCoordinator) ValidateParticipant(ctx context.Context, roomID, participantID uuid.UUID) error {
	return s.err
}
func (s *stubCoordinator) StartRoom(ctx context.Context, roomID, requesterParticipantID uuid.UUID) (*session.Snapshot, error) {
	return s.snap, s.err
}
func (s *stubCoordinator) RollDice(ctx context.Context, roomID, participantID uuid.UUID, holdMask []bool) (*session.Snapshot, error) {
	return s.snap, s.err
}
func (s *stubCoordinator) SelectDice(ctx context.Context, roomID, participantID uuid.UUID, indices []int) (*session.Snapshot, error) {
	return s.snap, s.err
}
func (s *stubCoordinator) ScoreCategory(ctx context.Context, roomID, participantID uuid.UUID, category models.Category) (*session.Snapshot, error) {
	return s.snap, s.err
}
func (s *stubCoordinator) PassTurn(ctx context.Context, roomID, participantID uuid.UUID) (*session.Snapshot, error) {
	return s.snap, s.err
}
func (s *stubCoordinator) ToggleReady(ctx context.Context, roomID, participantID uuid.UUID) (*session.Snapshot, error) {
	return s.snap, s.err
}
func (s *stubCoordinator) RestartRoom(ctx context.Context, roomID, requesterParticipantID uuid.UUID) (*session.Snapshot, error) {
	return s.snap, s.err
}
func (s *stubCoordinator) HandleDisconnect(roomID, participantID uuid.UUID) {}

type stubIdentities struct {
	ident *models.Identity
	err   error
}

func (s *stubIdentities) CreateIdentity(ctx context.Context, handle, displayName string) (*models.Identity, error) {
	return s.ident, s.err
}
func (s *stubIdentities) GetIdentityByHandle(ctx context.Context, handle string) (*models.Identity, error) {
	return s.ident, s.err
}

func newTestRouter(coord Coordinator, ids IdentityApp) *chi.Mux {
	registry := NewRegistry(DefaultConnConfig())
	svc := NewService(coord, registry, NewDispatcher(registry))
	r := chi.NewRouter()
	NewHandlers(coord, ids, svc).Routes(r)
	return r
}

func testSnapshot() *session.Snapshot {
	return &session.Snapshot{
		Room: models.Room{ID: uuid.New(), Code: "ABCDEF", Status: models.RoomStatusWaiting},
	}
}

func TestCreateRoomEndpoint(t *testing.T) {
	router := newTestRouter(&stubCoordinator{snap: testSnapshot()}, &stubIdentities{})

	body := fmt.Sprintf(`{"identity_id":%q}`, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/rooms", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "ABCDEF", snap.Room.Code)
}

func TestCreateRoomEndpointBadBody(t *testing.T) {
	router := newTestRouter(&stubCoordinator{snap: testSnapshot()}, &stubIdentities{})

	req := httptest.NewRequest(http.MethodPost, "/rooms", strings.NewReader("{nope"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGameErrorStatusMapping(t *testing.T) {
	tests := []struct {
		kind session.ErrorKind
		want int
	}{
		{session.KindRoomNotFound, http.StatusNotFound},
		{session.KindIdentityNotFound, http.StatusNotFound},
		{session.KindRoomFull, http.StatusForbidden},
		{session.KindRoomNotJoinable, http.StatusForbidden},
		{session.KindNotHost, http.StatusForbidden},
		{session.KindMalformedAction, http.StatusBadRequest},
		{session.KindInternalFailure, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			coord := &stubCoordinator{err: &session.Error{Kind: tt.kind}}
			router := newTestRouter(coord, &stubIdentities{})

			req := httptest.NewRequest(http.MethodGet, "/rooms/XXXXXX", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)

			var msg errorMessage
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
			assert.Equal(t, tt.kind, msg.Kind)
		})
	}
}

func TestJoinRoomEndpoint(t *testing.T) {
	router := newTestRouter(&stubCoordinator{snap: testSnapshot()}, &stubIdentities{})

	body := fmt.Sprintf(`{"code":"ABCDEF","identity_id":%q}`, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/rooms/join", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIdentityEndpoints(t *testing.T) {
	ident := &models.Identity{ID: uuid.New(), Handle: "alice", DisplayName: "Alice"}
	router := newTestRouter(&stubCoordinator{}, &stubIdentities{ident: ident})

	req := httptest.NewRequest(http.MethodPost, "/identities", strings.NewReader(`{"handle":"alice"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/identities/alice", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Identity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, ident.ID, got.ID)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&stubCoordinator{}, &stubIdentities{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
