package report

import (
	"time"
)

// SpyReport is a point-in-time espionage observation of a coordinate, keyed
// by the external id the reporting tool assigned. Identity fields never
// change after insert; the observational JSON payloads are overwritten on
// re-submission.
type SpyReport struct {
	ID          int64      `json:"id"`
	ExternalID  int64      `json:"external_id"`
	Coordinates string     `json:"coordinates"`
	Galaxy      int64      `json:"galaxy"`
	System      int64      `json:"system"`
	Planet      int64      `json:"planet"`
	Type        string     `json:"type"`
	Resources   *string    `json:"resources"`
	Buildings   *string    `json:"buildings"`
	Research    *string    `json:"research"`
	Fleet       *string    `json:"fleet"`
	Defense     *string    `json:"defense"`
	ReportedBy  *int64     `json:"reported_by"`
	ReportTime  *time.Time `json:"report_time"`
	CreatedAt   time.Time  `json:"created_at"`
}

// SpyReportHistory is a spy report joined with the reporter's player name.
type SpyReportHistory struct {
	ID           int64      `json:"id"`
	Resources    *string    `json:"resources"`
	Buildings    *string    `json:"buildings"`
	Research     *string    `json:"research"`
	Fleet        *string    `json:"fleet"`
	Defense      *string    `json:"defense"`
	CreatedAt    time.Time  `json:"created_at"`
	ReportTime   *time.Time `json:"report_time"`
	ReporterName *string    `json:"reporter_name"`
}

// RecycleReport records the recoverable debris yield at a coordinate.
type RecycleReport struct {
	ID          int64      `json:"id"`
	ExternalID  int64      `json:"external_id"`
	Coordinates string     `json:"coordinates"`
	Galaxy      int64      `json:"galaxy"`
	System      int64      `json:"system"`
	Planet      int64      `json:"planet"`
	Metal       int64      `json:"metal"`
	Crystal     int64      `json:"crystal"`
	MetalTF     int64      `json:"metal_tf"`
	CrystalTF   int64      `json:"crystal_tf"`
	ReportedBy  *int64     `json:"reported_by"`
	ReportTime  *time.Time `json:"report_time"`
	CreatedAt   time.Time  `json:"created_at"`
}

// BattleReport records combat losses and loot at a coordinate.
type BattleReport struct {
	ID            int64      `json:"id"`
	ExternalID    int64      `json:"external_id"`
	Coordinates   string     `json:"coordinates"`
	Galaxy        int64      `json:"galaxy"`
	System        int64      `json:"system"`
	Planet        int64      `json:"planet"`
	Type          string     `json:"type"`
	AttackerLost  int64      `json:"attacker_lost"`
	DefenderLost  int64      `json:"defender_lost"`
	Metal         int64      `json:"metal"`
	Crystal       int64      `json:"crystal"`
	Deuterium     int64      `json:"deuterium"`
	DebrisMetal   int64      `json:"debris_metal"`
	DebrisCrystal int64      `json:"debris_crystal"`
	ReportedBy    *int64     `json:"reported_by"`
	ReportTime    *time.Time `json:"report_time"`
	CreatedAt     time.Time  `json:"created_at"`
}
