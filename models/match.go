package models

import "time"

type Match struct {
	ID             int                `json:"id"`
	PlayedAt       time.Time          `json:"played_at"`
	WinnerMemberID *int               `json:"winner_member_id,omitempty"`
	Notes          *string            `json:"notes,omitempty"`
	CreatedBy      int                `json:"created_by"`
	CreatedAt      time.Time          `json:"created_at"`
	Participants   []MatchParticipant `json:"participants"`
}

type MatchParticipant struct {
	MemberID int  `json:"member_id"`
	DeckID   *int `json:"deck_id,omitempty"`
}

// HasParticipant reports whether memberID played in the match.
func (m Match) HasParticipant(memberID int) bool {
	for _, p := range m.Participants {
		if p.MemberID == memberID {
			return true
		}
	}
	return false
}

// WonBy reports whether memberID is the recorded winner.
func (m Match) WonBy(memberID int) bool {
	return m.WinnerMemberID != nil && *m.WinnerMemberID == memberID
}
