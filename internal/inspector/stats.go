package inspector

import (
	"fmt"
	"math"
	"sort"

	"github.com/bch0w/misfitlens/internal/catalog"
)

// AbsMax returns the element with the largest absolute value, sign intact.
// Returns 0 for an empty slice.
func AbsMax(vals []float64) float64 {
	out := 0.0
	for _, v := range vals {
		if math.Abs(v) > math.Abs(out) {
			out = v
		}
	}
	return out
}

// Measurement choices for Measurements.
const (
	MeasurementCumWinLen  = "cum_win_len"
	MeasurementNumWindows = "num_windows"
)

// EventStat is one event's windows for a given (model, step): the window
// count and the raw measurement values gathered across its stations and
// channels.
type EventStat struct {
	Event  string
	Nwin   int
	Values []float64
}

// EventStats gathers window measurements of one kind for a (model, step),
// grouped by event and sorted ascending by window count. staCode and
// eventID optionally restrict the query to one station or one event.
// reduce condenses each event's values into the printed per-event figure;
// nil means AbsMax. One line is printed per event:
//
//	{event}  {nwin}  {reduce(values)}
func (i *Inspector) EventStats(model, step, choice, staCode, eventID string,
	reduce func([]float64) float64) ([]EventStat, error) {

	if _, err := (&catalog.WindowSet{}).Values(choice); err != nil {
		return nil, err
	}
	if err := i.checkModelStep(model, step); err != nil {
		return nil, err
	}
	if reduce == nil {
		reduce = AbsMax
	}

	windows, err := i.SortWindowsByModel()
	if err != nil {
		return nil, err
	}
	view := windows[model][step]

	var stats []EventStat
	for _, eid := range sortedKeys(view) {
		if eventID != "" && eid != eventID {
			continue
		}
		stat := EventStat{Event: eid}
		for _, sta := range sortedKeys(view[eid]) {
			if staCode != "" && sta != staCode {
				continue
			}
			for _, cha := range sortedKeys(view[eid][sta]) {
				vals, _ := view[eid][sta][cha].Values(choice)
				stat.Values = append(stat.Values, vals...)
				stat.Nwin += len(vals)
			}
		}
		stats = append(stats, stat)
	}

	sort.Slice(stats, func(a, b int) bool {
		if stats[a].Nwin != stats[b].Nwin {
			return stats[a].Nwin < stats[b].Nwin
		}
		return stats[a].Event < stats[b].Event
	})

	for _, stat := range stats {
		fmt.Printf("%13s%5d%7.2f\n", stat.Event, stat.Nwin, reduce(stat.Values))
	}
	return stats, nil
}

// WindowValues returns every window measurement of one kind for a
// (model, step), flattened across all events, stations and channels.
func (i *Inspector) WindowValues(model, step, choice string) ([]float64, error) {
	if _, err := (&catalog.WindowSet{}).Values(choice); err != nil {
		return nil, err
	}
	if err := i.checkModelStep(model, step); err != nil {
		return nil, err
	}

	windows, err := i.SortWindowsByModel()
	if err != nil {
		return nil, err
	}
	view := windows[model][step]

	var out []float64
	for _, eid := range sortedKeys(view) {
		for _, sta := range sortedKeys(view[eid]) {
			for _, cha := range sortedKeys(view[eid][sta]) {
				vals, _ := view[eid][sta][cha].Values(choice)
				out = append(out, vals...)
			}
		}
	}
	return out, nil
}

// MisfitValues returns the scaled per-station misfit values for a
// (model, step), flattened across all events.
func (i *Inspector) MisfitValues(model, step string) ([]float64, error) {
	if err := i.checkModelStep(model, step); err != nil {
		return nil, err
	}

	var out []float64
	for _, eid := range sortedKeys(i.Misfits) {
		bySteps, ok := i.Misfits[eid][model]
		if !ok {
			continue
		}
		stations, ok := bySteps[step]
		if !ok {
			continue
		}
		for _, sta := range sortedKeys(stations) {
			out = append(out, stations[sta].Msft)
		}
	}
	return out, nil
}

// Measurements reduces the window mapping to one scalar per (model, step):
// the cumulative window length in seconds ("cum_win_len") or the number of
// windows ("num_windows").
func (i *Inspector) Measurements(choice string) (map[string]map[string]float64, error) {
	if choice != MeasurementCumWinLen && choice != MeasurementNumWindows {
		return nil, fmt.Errorf("unknown measurement choice %q, must be %q or %q",
			choice, MeasurementCumWinLen, MeasurementNumWindows)
	}

	windows, err := i.SortWindowsByModel()
	if err != nil {
		return nil, err
	}

	out := make(map[string]map[string]float64, len(windows))
	for model, bySteps := range windows {
		out[model] = make(map[string]float64, len(bySteps))
		for step, view := range bySteps {
			total := 0.0
			for _, stations := range view {
				for _, channels := range stations {
					for _, ws := range channels {
						if choice == MeasurementNumWindows {
							total += float64(ws.Len())
							continue
						}
						for _, length := range ws.LengthS {
							total += length
						}
					}
				}
			}
			out[model][step] = total
		}
	}
	return out, nil
}

// SumMisfits computes the aggregate misfit per (model, step): the sum of
// per-event misfit totals divided by the number of contributing events,
// per Tape (2010) eq. 7. Per-station entries are already scaled by eq. 6
// at extraction time.
func (i *Inspector) SumMisfits() (map[string]map[string]float64, error) {
	misfits, err := i.SortMisfitsByModel()
	if err != nil {
		return nil, err
	}

	out := make(map[string]map[string]float64, len(misfits))
	for model, bySteps := range misfits {
		out[model] = make(map[string]float64, len(bySteps))
		for step, view := range bySteps {
			if len(view) == 0 {
				return nil, fmt.Errorf("no events contribute to %s/%s", model, step)
			}
			total := 0.0
			for _, stations := range view {
				for _, entry := range stations {
					total += entry.Msft
				}
			}
			out[model][step] = total / float64(len(view))
		}
	}
	return out, nil
}

// WindowID identifies one misfit window by its event, station and channel.
type WindowID struct {
	Event   string `json:"event"`
	Station string `json:"station"`
	Channel string `json:"channel"`
}

// SortByWindow returns every window measurement of one kind for a
// (model, step) paired with its identity, sorted ascending by value.
// Useful for locating extremal measurements, e.g. the largest time shifts.
func (i *Inspector) SortByWindow(model, step, choice string) ([]float64, []WindowID, error) {
	if _, err := (&catalog.WindowSet{}).Values(choice); err != nil {
		return nil, nil, err
	}
	if err := i.checkModelStep(model, step); err != nil {
		return nil, nil, err
	}

	windows, err := i.SortWindowsByModel()
	if err != nil {
		return nil, nil, err
	}
	view := windows[model][step]

	var values []float64
	var ids []WindowID
	for _, eid := range sortedKeys(view) {
		for _, sta := range sortedKeys(view[eid]) {
			for _, cha := range sortedKeys(view[eid][sta]) {
				vals, _ := view[eid][sta][cha].Values(choice)
				for _, v := range vals {
					values = append(values, v)
					ids = append(ids, WindowID{Event: eid, Station: sta, Channel: cha})
				}
			}
		}
	}

	order := make([]int, len(values))
	for n := range order {
		order[n] = n
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	sortedValues := make([]float64, len(values))
	sortedIDs := make([]WindowID, len(ids))
	for n, idx := range order {
		sortedValues[n] = values[idx]
		sortedIDs[n] = ids[idx]
	}
	return sortedValues, sortedIDs, nil
}
