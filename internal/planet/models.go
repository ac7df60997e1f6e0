package planet

import (
	"time"
)

type Type string

const (
	TypePlanet Type = "PLANET"
	TypeMoon   Type = "MOON"
)

const (
	StatusNormal  = "normal"
	StatusDeleted = "deleted"
)

// Planet is one observed body, uniquely keyed by (coordinates, type).
// The row at planet position 0 within a system is a scan marker: it only
// records when that system was last fully scanned.
type Planet struct {
	ID             int64     `json:"id"`
	Name           *string   `json:"name"`
	PlayerID       *int64    `json:"player_id"`
	Coordinates    string    `json:"coordinates"`
	Galaxy         int64     `json:"galaxy"`
	System         int64     `json:"system"`
	Planet         int64     `json:"planet"`
	Type           Type      `json:"type"`
	SourcePlanetID *int64    `json:"source_planet_id"`
	Buildings      *string   `json:"buildings"`
	Fleet          *string   `json:"fleet"`
	Defense        *string   `json:"defense"`
	Resources      *string   `json:"resources"`
	ProdH          *int64    `json:"prod_h"`
	Status         *string   `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsDeleted treats a NULL status as active.
func (p *Planet) IsDeleted() bool {
	return p.Status != nil && *p.Status == StatusDeleted
}

// ScanEntry is one position reported by a galaxy scan.
type ScanEntry struct {
	Position       int64   `json:"position"`
	PlayerID       *int64  `json:"player_id"`
	PlayerName     *string `json:"player_name"`
	PlanetName     *string `json:"planet_name"`
	MoonName       *string `json:"moon_name"`
	HasMoon        bool    `json:"has_moon"`
	SourcePlanetID *int64  `json:"planet_id"`
	SourceMoonID   *int64  `json:"moon_id"`
	AllianceID     *int64  `json:"alliance_id"`
	AllianceTag    *string `json:"alliance_tag"`
}

// DestroyedEntry marks a position the scan reported as destroyed.
type DestroyedEntry struct {
	Position int64  `json:"position"`
	Type     string `json:"type"`
}

// GalaxyScan is a full scan of one system.
type GalaxyScan struct {
	Galaxy    int64            `json:"galaxy"`
	System    int64            `json:"system"`
	Planets   []ScanEntry      `json:"planets"`
	Destroyed []DestroyedEntry `json:"destroyed"`
}

// ScanResult summarizes what a galaxy scan merge changed.
type ScanResult struct {
	Created int64 `json:"created"`
	Skipped int64 `json:"skipped"`
	Deleted int64 `json:"deleted"`
}

// DetailedObservation carries the detail fields of a planet, disjoint from
// what a galaxy scan updates. Nil fields are left untouched.
type DetailedObservation struct {
	Buildings *string `json:"buildings"`
	Fleet     *string `json:"fleet"`
	Defense   *string `json:"defense"`
	Resources *string `json:"resources"`
	ProdH     *int64  `json:"prod_h"`
}

// SystemScan is the per-system scan freshness row derived from marker planets.
type SystemScan struct {
	Galaxy     int64      `json:"galaxy"`
	System     int64      `json:"system"`
	LastScanAt *time.Time `json:"last_scan_at"`
}
