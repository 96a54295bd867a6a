package models

type BadgeID string

const (
	BadgeBrewer       BadgeID = "brewer"
	BadgeSlayer       BadgeID = "slayer"
	BadgeVeteran      BadgeID = "veteran"
	BadgeHighRoller   BadgeID = "high_roller"
	BadgeWhale        BadgeID = "whale"
	BadgeBudgetMaster BadgeID = "budget_master"
)

type Badge struct {
	ID          BadgeID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Color       string  `json:"color"`
}
