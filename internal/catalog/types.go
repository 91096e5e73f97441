package catalog

import "fmt"

// SiteKind distinguishes the two kinds of entries sharing the srcrcv mapping.
// Event keys never contain a "."; station keys always do (network.station).
type SiteKind string

const (
	SiteEvent   SiteKind = "event"
	SiteStation SiteKind = "station"
)

// Site is one entry of the srcrcv mapping: either an event origin or a
// station coordinate record. Kind tags which fields are meaningful.
type Site struct {
	Kind SiteKind `json:"kind"`
	Lat  float64  `json:"lat"`
	Lon  float64  `json:"lon"`

	// Event-only fields.
	DepthM float64 `json:"depth_m,omitempty"`
	Time   string  `json:"time,omitempty"` // ISO-8601 origin time
	Mag    float64 `json:"mag,omitempty"`

	// Station-only field.
	ElvM float64 `json:"elv_m,omitempty"`

	// Projected coordinates, filled for both kinds.
	UTMX float64 `json:"utm_x"`
	UTMY float64 `json:"utm_y"`

	// Paths maps station code to the source-receiver link for this event.
	// Only populated on event entries.
	Paths map[string]*Path `json:"paths,omitempty"`
}

// Path is the derived link between one event and one station.
type Path struct {
	DistKM float64 `json:"dist_km"`
	Baz    float64 `json:"baz"`
}

// MisfitEntry holds the per-station misfit for one (event, model, step).
// Msft is already scaled by 2 * Nwin per Tape (2010) eq. 6.
type MisfitEntry struct {
	Msft float64 `json:"msft"`
	Nwin int     `json:"nwin"`
}

// Window measurement choices, shared by every query that picks one of the
// parallel slices in a WindowSet.
const (
	ChoiceCCShiftSec = "cc_shift_sec"
	ChoiceDlnA       = "dlna"
	ChoiceWeight     = "weight"
	ChoiceMaxCC      = "max_cc"
	ChoiceLengthS    = "length_s"
	ChoiceRelStart   = "rel_start"
	ChoiceRelEnd     = "rel_end"
)

// WindowChoices lists the valid window measurement kinds.
var WindowChoices = []string{
	ChoiceCCShiftSec, ChoiceDlnA, ChoiceWeight, ChoiceMaxCC,
	ChoiceLengthS, ChoiceRelStart, ChoiceRelEnd,
}

// WindowSet holds parallel per-window measurement sequences for one
// (event, model, step, station, channel). All slices share the same length,
// one entry per misfit window picked on that channel.
type WindowSet struct {
	CCShiftSec []float64 `json:"cc_shift_sec"`
	DlnA       []float64 `json:"dlna"`
	Weight     []float64 `json:"weight"`
	MaxCC      []float64 `json:"max_cc"`
	LengthS    []float64 `json:"length_s"`
	RelStart   []float64 `json:"rel_start"`
	RelEnd     []float64 `json:"rel_end"`
}

// Len returns the number of windows in the set.
func (w *WindowSet) Len() int {
	return len(w.DlnA)
}

// Values returns the measurement slice selected by choice.
func (w *WindowSet) Values(choice string) ([]float64, error) {
	switch choice {
	case ChoiceCCShiftSec:
		return w.CCShiftSec, nil
	case ChoiceDlnA:
		return w.DlnA, nil
	case ChoiceWeight:
		return w.Weight, nil
	case ChoiceMaxCC:
		return w.MaxCC, nil
	case ChoiceLengthS:
		return w.LengthS, nil
	case ChoiceRelStart:
		return w.RelStart, nil
	case ChoiceRelEnd:
		return w.RelEnd, nil
	default:
		return nil, fmt.Errorf("unknown window choice %q, must be one of %v",
			choice, WindowChoices)
	}
}
