package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"time"
)

// Source is one parsed per-event measurement container, the unit of
// ingestion. Every field is validated by Open before any caller sees it;
// a structurally broken container is reported once and skipped.
type Source struct {
	Event    SourceEvent              `json:"event"`
	Stations map[string]SourceStation `json:"stations"`

	// AdjointSources holds raw per-station misfit contributions keyed by
	// model then step.
	AdjointSources map[string]map[string][]AdjointSource `json:"adjoint_sources"`

	// MisfitWindows holds per-window measurements keyed by model then step.
	MisfitWindows map[string]map[string][]MisfitWindow `json:"misfit_windows"`
}

// SourceEvent is the event metadata block of a container.
type SourceEvent struct {
	ID     string  `json:"id"`
	Lat    float64 `json:"latitude"`
	Lon    float64 `json:"longitude"`
	DepthM float64 `json:"depth_m"`
	Time   string  `json:"origin_time"`
	Mag    float64 `json:"magnitude"`
}

// SourceStation is one per-station coordinate record of a container.
type SourceStation struct {
	Lat  float64 `json:"latitude"`
	Lon  float64 `json:"longitude"`
	ElvM float64 `json:"elevation_m"`
}

// AdjointSource is one raw misfit contribution for a station. A station may
// contribute several entries per (model, step); they are summed before the
// Tape (2010) eq. 6 scaling is applied.
type AdjointSource struct {
	StationID   string  `json:"station_id"`
	MisfitValue float64 `json:"misfit_value"`
}

// MisfitWindow is one picked misfit window with its fixed parameter set.
type MisfitWindow struct {
	ChannelID    string  `json:"channel_id"` // NET.STA.LOC.CHA
	DlnA         float64 `json:"dlnA"`
	WindowWeight float64 `json:"window_weight"`
	MaxCCValue   float64 `json:"max_cc_value"`
	RelStart     float64 `json:"relative_starttime"`
	RelEnd       float64 `json:"relative_endtime"`
	CCShiftSec   float64 `json:"cc_shift_in_seconds"`
}

// StationID returns the NET.STA part of the window's channel identifier.
func (w *MisfitWindow) StationID() string {
	parts := strings.Split(w.ChannelID, ".")
	return parts[0] + "." + parts[1]
}

// Channel returns the channel code, the last part of the channel identifier.
func (w *MisfitWindow) Channel() string {
	parts := strings.Split(w.ChannelID, ".")
	return parts[len(parts)-1]
}

// Open reads and validates one per-event container. Any structural problem
// is returned as an error so the caller can skip the source and continue
// with the next one.
func Open(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading container: %w", err)
	}

	var src Source
	if err := json.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("parsing container: %w", err)
	}
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("validating container: %w", err)
	}
	return &src, nil
}

// Validate checks the structural invariants of a container: event keys
// carry no ".", station keys do, channel identifiers split into four parts,
// the origin time parses, and all floats are finite.
func (s *Source) Validate() error {
	if s.Event.ID == "" {
		return fmt.Errorf("event id is empty")
	}
	if strings.Contains(s.Event.ID, ".") {
		return fmt.Errorf("event id %q must not contain '.'", s.Event.ID)
	}
	if _, err := time.Parse(time.RFC3339, s.Event.Time); err != nil {
		return fmt.Errorf("event %s: origin time %q: %w",
			s.Event.ID, s.Event.Time, err)
	}
	if err := checkFinite("event "+s.Event.ID, s.Event.Lat, s.Event.Lon,
		s.Event.DepthM, s.Event.Mag); err != nil {
		return err
	}

	for code, sta := range s.Stations {
		if strings.Count(code, ".") != 1 {
			return fmt.Errorf("station key %q must be NET.STA", code)
		}
		if err := checkFinite("station "+code, sta.Lat, sta.Lon, sta.ElvM); err != nil {
			return err
		}
	}

	for model, steps := range s.AdjointSources {
		for step, entries := range steps {
			for _, adj := range entries {
				if strings.Count(adj.StationID, ".") != 1 {
					return fmt.Errorf("%s/%s: adjoint source station %q must be NET.STA",
						model, step, adj.StationID)
				}
				if err := checkFinite(
					fmt.Sprintf("%s/%s adjoint source %s", model, step, adj.StationID),
					adj.MisfitValue); err != nil {
					return err
				}
			}
		}
	}

	for model, steps := range s.MisfitWindows {
		for step, wins := range steps {
			for _, win := range wins {
				if strings.Count(win.ChannelID, ".") != 3 {
					return fmt.Errorf("%s/%s: channel id %q must be NET.STA.LOC.CHA",
						model, step, win.ChannelID)
				}
				if err := checkFinite(
					fmt.Sprintf("%s/%s window %s", model, step, win.ChannelID),
					win.DlnA, win.WindowWeight, win.MaxCCValue,
					win.RelStart, win.RelEnd, win.CCShiftSec); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// WindowCountsByStation counts misfit windows per station for a given
// model/step. Misfit scaling relies on this count even when window
// extraction itself is toggled off.
func (s *Source) WindowCountsByStation(model, step string) map[string]int {
	counts := make(map[string]int)
	for _, win := range s.MisfitWindows[model][step] {
		counts[win.StationID()]++
	}
	return counts
}

func checkFinite(context string, vals ...float64) error {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s: non-finite value", context)
		}
	}
	return nil
}
