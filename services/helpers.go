package services

import (
	"errors"
	"strings"

	"github.com/Dosada05/commander-league/models"
	"github.com/Dosada05/commander-league/repositories"
)

// EventPublisher pushes league events to live subscribers.
type EventPublisher interface {
	Publish(eventType string, payload interface{})
}

const (
	EventDeckCreated     = "DECK_CREATED"
	EventDeckDeleted     = "DECK_DELETED"
	EventUpgradeLogged   = "UPGRADE_LOGGED"
	EventUpgradeDeleted  = "UPGRADE_DELETED"
	EventMatchRecorded   = "MATCH_RECORDED"
	EventPreconRefreshed = "PRECON_REFRESHED"
)

type noopPublisher struct{}

func (noopPublisher) Publish(string, interface{}) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

func canModify(ownerID, actorID int, actorRole models.MemberRole) bool {
	return ownerID == actorID || actorRole == models.RoleAdmin
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// handleRepositoryError maps repository sentinels onto service errors.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrMemberNotFound),
		errors.Is(err, repositories.ErrDeckMemberInvalid):
		return ErrMemberNotFound
	case errors.Is(err, repositories.ErrDeckNotFound),
		errors.Is(err, repositories.ErrUpgradeDeckInvalid):
		return ErrDeckNotFound
	case errors.Is(err, repositories.ErrUpgradeNotFound):
		return ErrUpgradeNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrMemberEmailConflict):
		return ErrEmailConflict
	case errors.Is(err, repositories.ErrMatchDuplicateMember):
		return ErrDuplicatePlayer
	case errors.Is(err, repositories.ErrMatchParticipantInvalid),
		errors.Is(err, repositories.ErrDeckInvalid),
		errors.Is(err, repositories.ErrUpgradeInvalid),
		errors.Is(err, repositories.ErrDeckBudgetNegative):
		return ErrValidationFailed
	default:
		return err
	}
}
