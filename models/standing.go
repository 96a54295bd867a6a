package models

// LeagueStanding is the per-member league table row.
type LeagueStanding struct {
	Member        Member  `json:"member"`
	Rank          int     `json:"rank"`
	DeckCount     int     `json:"deck_count"`
	TotalSpent    Money   `json:"total_spent"`
	MatchesPlayed int     `json:"matches_played"`
	Wins          int     `json:"wins"`
	Badges        []Badge `json:"badges"`
}
