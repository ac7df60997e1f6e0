package score

import (
	"time"
)

// Snapshot is an immutable score observation for one player at one point in
// time. Snapshots are historical facts: once recorded they are never merged
// or rewritten.
type Snapshot struct {
	ID            int64     `json:"id"`
	PlayerID      int64     `json:"player_id"`
	ScoreTotal    int64     `json:"score_total"`
	ScoreEconomy  int64     `json:"score_economy"`
	ScoreResearch int64     `json:"score_research"`
	ScoreMilitary int64     `json:"score_military"`
	ScoreDefense  int64     `json:"score_defense"`
	RankTotal     *int64    `json:"rank_total"`
	RankEconomy   *int64    `json:"rank_economy"`
	RankResearch  *int64    `json:"rank_research"`
	RankMilitary  *int64    `json:"rank_military"`
	RankDefense   *int64    `json:"rank_defense"`
	RecordedAt    time.Time `json:"recorded_at"`
}
