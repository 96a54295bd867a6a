package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/Dosada05/commander-league/models"
	"github.com/Dosada05/commander-league/repositories"
)

const minMatchParticipants = 2

type MatchService interface {
	Record(ctx context.Context, actorID int, input RecordMatchInput) (*models.Match, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context) ([]models.Match, error)
}

type RecordMatchInput struct {
	PlayedAt       *time.Time                `json:"played_at,omitempty"`
	WinnerMemberID *int                      `json:"winner_member_id,omitempty"`
	Notes          *string                   `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Participants   []models.MatchParticipant `json:"participants" validate:"required,min=2,dive"`
}

type matchService struct {
	tx        repositories.Transactor
	matchRepo repositories.MatchRepository
	deckRepo  repositories.DeckRepository
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewMatchService(
	tx repositories.Transactor,
	matchRepo repositories.MatchRepository,
	deckRepo repositories.DeckRepository,
	publisher EventPublisher,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		tx:        tx,
		matchRepo: matchRepo,
		deckRepo:  deckRepo,
		publisher: publisherOrNoop(publisher),
		logger:    logger,
		now:       time.Now,
	}
}

func (s *matchService) Record(ctx context.Context, actorID int, input RecordMatchInput) (*models.Match, error) {
	if len(input.Participants) < minMatchParticipants {
		return nil, ErrTooFewParticipants
	}

	seen := make(map[int]bool, len(input.Participants))
	for _, p := range input.Participants {
		if seen[p.MemberID] {
			return nil, ErrDuplicatePlayer
		}
		seen[p.MemberID] = true

		if p.DeckID != nil {
			deck, err := s.deckRepo.GetByID(ctx, *p.DeckID)
			if err != nil {
				return nil, handleRepositoryError(err)
			}
			if deck.MemberID != p.MemberID {
				return nil, ErrDeckNotOwned
			}
		}
	}
	if input.WinnerMemberID != nil && !seen[*input.WinnerMemberID] {
		return nil, ErrWinnerNotInMatch
	}

	playedAt := s.now()
	if input.PlayedAt != nil && !input.PlayedAt.IsZero() {
		playedAt = *input.PlayedAt
	}

	match := &models.Match{
		PlayedAt:       playedAt,
		WinnerMemberID: input.WinnerMemberID,
		Notes:          trimmedOrNil(input.Notes),
		CreatedBy:      actorID,
		Participants:   input.Participants,
	}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.matchRepo.Create(ctx, exec, match)
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	s.logger.Info("Match recorded", "match_id", match.ID, "participants", len(match.Participants))
	s.publisher.Publish(EventMatchRecorded, match)
	return match, nil
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return match, nil
}

func (s *matchService) List(ctx context.Context) ([]models.Match, error) {
	matches, err := s.matchRepo.List(ctx)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return matches, nil
}
