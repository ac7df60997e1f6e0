package hub

import (
	"time"
)

// AlliancePlanet is one row of the alliance planet listing.
type AlliancePlanet struct {
	ID          int64   `json:"id"`
	Name        *string `json:"name"`
	PlayerID    int64   `json:"player_id"`
	PlayerName  string  `json:"player_name"`
	Coordinates string  `json:"coordinates"`
	Galaxy      int64   `json:"galaxy"`
	System      int64   `json:"system"`
	Planet      int64   `json:"planet"`
	Type        string  `json:"type"`
	Buildings   *string `json:"buildings"`
	Fleet       *string `json:"fleet"`
	Defense     *string `json:"defense"`
	Resources   *string `json:"resources"`
	ProdH       *int64  `json:"prod_h"`
}

// FleetRosterRow is one planet's fleet snapshot within an alliance roster.
type FleetRosterRow struct {
	PlayerID      int64   `json:"player_id"`
	PlayerName    string  `json:"player_name"`
	ScoreMilitary int64   `json:"score_military"`
	Coordinates   string  `json:"coordinates"`
	Fleet         *string `json:"fleet"`
}

// BuildingsRosterRow is one planet's building snapshot within an alliance roster.
type BuildingsRosterRow struct {
	PlayerID    int64   `json:"player_id"`
	PlayerName  string  `json:"player_name"`
	Coordinates string  `json:"coordinates"`
	Buildings   *string `json:"buildings"`
}

// ResearchRosterRow is one player's research snapshot.
type ResearchRosterRow struct {
	PlayerID   int64   `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Research   *string `json:"research"`
}

// SystemScanStatus is the per-system scan freshness row.
type SystemScanStatus struct {
	Galaxy     int64      `json:"galaxy"`
	System     int64      `json:"system"`
	LastScanAt *time.Time `json:"last_scan_at"`
}
