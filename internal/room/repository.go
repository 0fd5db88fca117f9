package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mdevers/yachtroom/internal/models"
)

// ErrNotFound reports a missing row.
var ErrNotFound = errors.New("not found")

// DB defines what the repository needs from the database layer; a
// *pgxpool.Pool satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository persists rooms, participants, scorecards, and round records.
// It is the durable mirror of the in-memory session state; the session
// coordinator is its only writer.
type Repository struct {
	db DB
}

func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateRoom(ctx context.Context, room models.Room) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO rooms (id, code, host_id, status, current_round, total_rounds, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		room.ID, room.Code, room.HostID, room.Status, room.CurrentRound, room.TotalRounds, room.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

func (r *Repository) UpdateRoom(ctx context.Context, room models.Room) error {
	_, err := r.db.Exec(ctx, `
		UPDATE rooms
		SET status = $2, current_turn_id = $3, current_round = $4
		WHERE id = $1`,
		room.ID, room.Status, nullableUUID(room.CurrentTurnID), room.CurrentRound,
	)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	return nil
}

func (r *Repository) GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, code, host_id, status, COALESCE(current_turn_id, '00000000-0000-0000-0000-000000000000'),
		       current_round, total_rounds, created_at
		FROM rooms WHERE id = $1`, id)
	return scanRoom(row)
}

func (r *Repository) GetRoomByCode(ctx context.Context, code string) (*models.Room, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, code, host_id, status, COALESCE(current_turn_id, '00000000-0000-0000-0000-000000000000'),
		       current_round, total_rounds, created_at
		FROM rooms WHERE code = $1`, code)
	return scanRoom(row)
}

func (r *Repository) CreateParticipant(ctx context.Context, p models.Participant) error {
	card, err := json.Marshal(p.Scorecard)
	if err != nil {
		return fmt.Errorf("failed to marshal scorecard: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO participants (id, room_id, identity_id, display_name, score, turn_order, ready, connected, scorecard)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.RoomID, p.IdentityID, p.DisplayName, p.Score, p.TurnOrder, p.Ready, p.Connected, card,
	)
	if err != nil {
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (r *Repository) UpdateParticipant(ctx context.Context, p models.Participant) error {
	card, err := json.Marshal(p.Scorecard)
	if err != nil {
		return fmt.Errorf("failed to marshal scorecard: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		UPDATE participants
		SET display_name = $2, score = $3, ready = $4, connected = $5, scorecard = $6
		WHERE id = $1`,
		p.ID, p.DisplayName, p.Score, p.Ready, p.Connected, card,
	)
	if err != nil {
		return fmt.Errorf("failed to update participant: %w", err)
	}
	return nil
}

func (r *Repository) GetParticipantsByRoom(ctx context.Context, roomID uuid.UUID) ([]models.Participant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, room_id, identity_id, display_name, score, turn_order, ready, connected, scorecard
		FROM participants WHERE room_id = $1
		ORDER BY turn_order`, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var out []models.Participant
	for rows.Next() {
		var p models.Participant
		var card []byte
		if err := rows.Scan(&p.ID, &p.RoomID, &p.IdentityID, &p.DisplayName, &p.Score, &p.TurnOrder, &p.Ready, &p.Connected, &card); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.Scorecard = models.NewScorecard()
		if len(card) > 0 {
			if err := json.Unmarshal(card, &p.Scorecard); err != nil {
				return nil, fmt.Errorf("failed to unmarshal scorecard: %w", err)
			}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SetScorecardValue locks a category value for a participant. The insert is
// first-write-wins; a locked category is never overwritten.
func (r *Repository) SetScorecardValue(ctx context.Context, participantID uuid.UUID, category models.Category, points int) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO scorecard_entries (participant_id, category, points)
		VALUES ($1, $2, $3)
		ON CONFLICT (participant_id, category) DO NOTHING`,
		participantID, category, points,
	)
	if err != nil {
		return fmt.Errorf("failed to set scorecard value: %w", err)
	}
	return nil
}

// ClearScorecards wipes every scorecard entry for the room (full restart).
func (r *Repository) ClearScorecards(ctx context.Context, roomID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM scorecard_entries
		WHERE participant_id IN (SELECT id FROM participants WHERE room_id = $1)`,
		roomID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear scorecards: %w", err)
	}
	return nil
}

func (r *Repository) CreateRoundRecord(ctx context.Context, rec models.RoundRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO round_records (id, room_id, participant_id, round, category, points, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.RoomID, rec.ParticipantID, rec.Round, rec.Category, rec.Points, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create round record: %w", err)
	}
	return nil
}

func scanRoom(row pgx.Row) (*models.Room, error) {
	var room models.Room
	if err := row.Scan(&room.ID, &room.Code, &room.HostID, &room.Status, &room.CurrentTurnID,
		&room.CurrentRound, &room.TotalRounds, &room.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan room: %w", err)
	}
	return &room, nil
}

func nullableUUID(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id
}
