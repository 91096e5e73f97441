package store

// EventRow is one exported event origin.
type EventRow struct {
	EventID string  `json:"event_id"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	DepthM  float64 `json:"depth_m"`
	Time    string  `json:"time"`
	Mag     float64 `json:"mag"`
	UTMX    float64 `json:"utm_x"`
	UTMY    float64 `json:"utm_y"`
}

// StationRow is one exported station coordinate record.
type StationRow struct {
	Code string  `json:"code"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	ElvM float64 `json:"elv_m"`
	UTMX float64 `json:"utm_x"`
	UTMY float64 `json:"utm_y"`
}

// PathRow is one exported event-station link.
type PathRow struct {
	EventID string  `json:"event_id"`
	Station string  `json:"station"`
	DistKM  float64 `json:"dist_km"`
	Baz     float64 `json:"baz"`
}

// MisfitRow is one exported per-station misfit entry.
type MisfitRow struct {
	EventID string  `json:"event_id"`
	Model   string  `json:"model"`
	Step    string  `json:"step"`
	Station string  `json:"station"`
	Msft    float64 `json:"msft"`
	Nwin    int     `json:"nwin"`
}

// WindowRow is one exported misfit window.
type WindowRow struct {
	EventID    string  `json:"event_id"`
	Model      string  `json:"model"`
	Step       string  `json:"step"`
	Station    string  `json:"station"`
	Channel    string  `json:"channel"`
	CCShiftSec float64 `json:"cc_shift_sec"`
	DlnA       float64 `json:"dlna"`
	Weight     float64 `json:"weight"`
	MaxCC      float64 `json:"max_cc"`
	LengthS    float64 `json:"length_s"`
	RelStart   float64 `json:"rel_start"`
	RelEnd     float64 `json:"rel_end"`
}
