package models

// DashboardStats is the league-wide overview.
type DashboardStats struct {
	MembersTotal    int   `json:"members_total"`
	DecksTotal      int   `json:"decks_total"`
	UpgradesTotal   int   `json:"upgrades_total"`
	MatchesTotal    int   `json:"matches_total"`
	TotalSpent      Money `json:"total_spent"`
	OverBudgetDecks int   `json:"over_budget_decks"`
}
