package player

import (
	"time"
)

type Player struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	AllianceID    *int64    `json:"alliance_id"`
	ScoreTotal    int64     `json:"score_total"`
	ScoreEconomy  int64     `json:"score_economy"`
	ScoreResearch int64     `json:"score_research"`
	ScoreMilitary int64     `json:"score_military"`
	ScoreDefense  int64     `json:"score_defense"`
	Rank          *int64    `json:"rank"`
	Research      *string   `json:"research"`
	IsDeleted     bool      `json:"is_deleted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Stats is one player's entry in a statistics-page sync.
type Stats struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	AllianceID    *int64 `json:"alliance_id"`
	ScoreTotal    int64  `json:"score_total"`
	ScoreEconomy  int64  `json:"score_economy"`
	ScoreResearch int64  `json:"score_research"`
	ScoreMilitary int64  `json:"score_military"`
	ScoreDefense  int64  `json:"score_defense"`
	Rank          *int64 `json:"rank"`
}
