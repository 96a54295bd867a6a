package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Dosada05/commander-league/models"
)

var (
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchParticipantInvalid = errors.New("match participant or deck does not exist")
	ErrMatchDuplicateMember    = errors.New("member listed twice in one match")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context) ([]models.Match, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

// Create inserts the match and its participants. Pass a transaction
// executor to keep both writes atomic.
func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	ex := executor(r.db, exec)

	query := `
		INSERT INTO matches (played_at, winner_member_id, notes, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := ex.QueryRowContext(ctx, query,
		match.PlayedAt,
		match.WinnerMemberID,
		match.Notes,
		match.CreatedBy,
	).Scan(&match.ID, &match.CreatedAt)
	if err != nil {
		return r.handleMatchError(err)
	}

	for _, p := range match.Participants {
		_, err := ex.ExecContext(ctx,
			`INSERT INTO match_participants (match_id, member_id, deck_id) VALUES ($1, $2, $3)`,
			match.ID, p.MemberID, p.DeckID,
		)
		if err != nil {
			return r.handleMatchError(err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT id, played_at, winner_member_id, notes, created_by, created_at
		FROM matches
		WHERE id = $1`

	var m models.Match
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.PlayedAt, &m.WinnerMemberID, &m.Notes, &m.CreatedBy, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}

	matches := []models.Match{m}
	if err := r.attachParticipants(ctx, matches); err != nil {
		return nil, err
	}
	return &matches[0], nil
}

func (r *postgresMatchRepository) List(ctx context.Context) ([]models.Match, error) {
	query := `
		SELECT id, played_at, winner_member_id, notes, created_by, created_at
		FROM matches
		ORDER BY played_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(&m.ID, &m.PlayedAt, &m.WinnerMemberID, &m.Notes, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match rows: %w", err)
	}

	if err := r.attachParticipants(ctx, matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// attachParticipants loads participants for all matches in one query.
func (r *postgresMatchRepository) attachParticipants(ctx context.Context, matches []models.Match) error {
	if len(matches) == 0 {
		return nil
	}

	ids := make([]int64, len(matches))
	index := make(map[int]int, len(matches))
	for i := range matches {
		ids[i] = int64(matches[i].ID)
		index[matches[i].ID] = i
		matches[i].Participants = make([]models.MatchParticipant, 0)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT match_id, member_id, deck_id
		FROM match_participants
		WHERE match_id = ANY($1)
		ORDER BY match_id, member_id`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load match participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			matchID int
			p       models.MatchParticipant
		)
		if err := rows.Scan(&matchID, &p.MemberID, &p.DeckID); err != nil {
			return fmt.Errorf("failed to scan match participant: %w", err)
		}
		if i, ok := index[matchID]; ok {
			matches[i].Participants = append(matches[i].Participants, p)
		}
	}
	return rows.Err()
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if pqConstraint(err, pqUniqueViolation) == "match_participants_pkey" {
		return ErrMatchDuplicateMember
	}
	if pqConstraint(err, pqForeignKeyViolation) != "" {
		return ErrMatchParticipantInvalid
	}
	return fmt.Errorf("match query failed: %w", err)
}
