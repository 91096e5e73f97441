// Package inspector builds and queries a multi-axis index over the misfit
// measurements of an iterative waveform inversion. Records are ingested one
// per-event container at a time and indexed along four axes: event, model,
// step and station (windows additionally by channel).
package inspector

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bch0w/misfitlens/internal/catalog"
)

// MisfitAxis is the event-major misfit mapping:
// event -> model -> step -> station.
type MisfitAxis map[string]map[string]map[string]map[string]*catalog.MisfitEntry

// WindowAxis is the event-major window mapping:
// event -> model -> step -> station -> channel.
type WindowAxis map[string]map[string]map[string]map[string]map[string]*catalog.WindowSet

// Inspector is the in-memory index. The three record mappings are the only
// persisted state; everything else is derived on demand and cached.
type Inspector struct {
	// Srcrcv holds event origins and station coordinates in one flat
	// mapping. Event keys never contain ".", station keys always do; that
	// separator test is the axis-membership rule throughout.
	Srcrcv  map[string]*catalog.Site
	Misfits MisfitAxis
	Windows WindowAxis

	utmZone int

	// Derived state, invalidated by any mutation.
	axes    *Axes
	summary string
}

// New returns an empty Inspector. utmZone selects the projection zone for
// map coordinates; negative values mean southern hemisphere.
func New(utmZone int) *Inspector {
	return &Inspector{
		Srcrcv:  make(map[string]*catalog.Site),
		Misfits: make(MisfitAxis),
		Windows: make(WindowAxis),
		utmZone: utmZone,
	}
}

// invalidate drops derived state after a mutation.
func (i *Inspector) invalidate() {
	i.axes = nil
	i.summary = ""
}

// Append ingests one per-event container, running the extractors selected
// by the three toggles. A structurally broken container is reported and
// skipped: the return value is false and the index is left without any
// entry for that event. Append is not idempotent; re-appending a source
// overwrites the entries keyed by its event id.
func (i *Inspector) Append(path string, windows, srcrcv, misfits bool) bool {
	src, err := catalog.Open(path)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return false
	}
	if err := i.appendSource(src, windows, srcrcv, misfits); err != nil {
		fmt.Printf("error: %v\n", err)
		return false
	}
	return true
}

// IngestDir appends every container in dir matching glob, printing
// per-source progress. The three toggles select the extractors, as in
// Append. Returns the number of sources appended.
func (i *Inspector) IngestDir(dir, glob string, windows, srcrcv, misfits bool) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, glob))
	if err != nil {
		return 0, fmt.Errorf("globbing %s: %w", glob, err)
	}
	sort.Strings(paths)

	appended := 0
	for n, path := range paths {
		fmt.Printf("%-25s %02d/%d... ", filepath.Base(path), n+1, len(paths))
		if i.Append(path, windows, srcrcv, misfits) {
			fmt.Println("done")
			appended++
		} else {
			fmt.Println("skipped")
		}
	}
	return appended, nil
}

// appendSource runs the toggled extractors against one validated source.
// On failure every entry keyed by the source's event id is removed again so
// a skipped source never leaves partial state behind.
func (i *Inspector) appendSource(src *catalog.Source, windows, srcrcv, misfits bool) error {
	eid := src.Event.ID
	err := func() error {
		if windows {
			i.getWindows(src)
		}
		if srcrcv {
			i.getSrcrcv(src)
		}
		if misfits {
			if err := i.getMisfits(src); err != nil {
				return err
			}
		}
		return nil
	}()
	if err != nil {
		i.deleteEvent(eid)
		return err
	}
	i.invalidate()
	return nil
}

// deleteEvent removes one event from all three mappings. Station entries
// stay; they may still be referenced by other events.
func (i *Inspector) deleteEvent(eid string) {
	delete(i.Srcrcv, eid)
	delete(i.Misfits, eid)
	delete(i.Windows, eid)
	i.invalidate()
}

// Axes is the derived shape of the index: the distinct events, stations and
// models, the step list per model, and the total step count over all models.
type Axes struct {
	Events     []string
	Stations   []string
	Models     []string
	Steps      map[string][]string
	Iterations int
}

// Axes returns the current axis metadata, recomputing it if a mutation has
// occurred since the last call. Models and steps are derived from the
// misfit mapping across all events; two events that share a model but
// disagree on its step set indicate a corrupt index and are an error.
func (i *Inspector) Axes() (*Axes, error) {
	if i.axes != nil {
		return i.axes, nil
	}

	ax := &Axes{Steps: make(map[string][]string)}
	for key, site := range i.Srcrcv {
		isStation := strings.Contains(key, ".")
		if isStation != (site.Kind == catalog.SiteStation) {
			return nil, fmt.Errorf("srcrcv key %q does not match its kind %q",
				key, site.Kind)
		}
		if isStation {
			ax.Stations = append(ax.Stations, key)
		} else {
			ax.Events = append(ax.Events, key)
		}
	}
	sort.Strings(ax.Events)
	sort.Strings(ax.Stations)

	// Union of models over all events, with per-model step sets checked
	// for consistency. Partial model coverage (an event missing a model
	// entirely) is fine; a conflicting step set is not.
	stepOwner := make(map[string]string)
	for _, eid := range sortedKeys(i.Misfits) {
		for model, bySteps := range i.Misfits[eid] {
			steps := sortedKeys(bySteps)
			if have, ok := ax.Steps[model]; ok {
				if !equalStrings(have, steps) {
					return nil, fmt.Errorf(
						"model %s: step sets differ between events %s and %s",
						model, stepOwner[model], eid)
				}
				continue
			}
			ax.Models = append(ax.Models, model)
			ax.Steps[model] = steps
			stepOwner[model] = eid
		}
	}
	sort.Strings(ax.Models)
	for _, steps := range ax.Steps {
		ax.Iterations += len(steps)
	}

	i.axes = ax
	return ax, nil
}

// checkModelStep errors unless (model, step) exists in the current axes.
func (i *Inspector) checkModelStep(model, step string) error {
	ax, err := i.Axes()
	if err != nil {
		return err
	}
	steps, ok := ax.Steps[model]
	if !ok {
		return fmt.Errorf("unknown model %q, have %v", model, ax.Models)
	}
	for _, s := range steps {
		if s == step {
			return nil
		}
	}
	return fmt.Errorf("unknown step %q for model %s, have %v", step, model, steps)
}

// EventInfo choices.
var eventInfoChoices = []string{
	"depth_m", "lat", "lon", "mag", "utm_x", "utm_y",
}

// EventInfo returns one numeric origin attribute per event. Valid choices
// are depth_m, lat, lon, mag, utm_x and utm_y; origin times are strings and
// served by Times instead.
func (i *Inspector) EventInfo(choice string) (map[string]float64, error) {
	info := make(map[string]float64)
	for key, site := range i.Srcrcv {
		if site.Kind != catalog.SiteEvent {
			continue
		}
		switch choice {
		case "depth_m":
			info[key] = site.DepthM
		case "lat":
			info[key] = site.Lat
		case "lon":
			info[key] = site.Lon
		case "mag":
			info[key] = site.Mag
		case "utm_x":
			info[key] = site.UTMX
		case "utm_y":
			info[key] = site.UTMY
		default:
			return nil, fmt.Errorf("unknown event info choice %q, must be one of %v",
				choice, eventInfoChoices)
		}
	}
	return info, nil
}

// Times returns the ISO-8601 origin time per event.
func (i *Inspector) Times() map[string]string {
	times := make(map[string]string)
	for key, site := range i.Srcrcv {
		if site.Kind == catalog.SiteEvent {
			times[key] = site.Time
		}
	}
	return times
}

// sortedKeys returns the keys of a string-keyed map in sorted order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for n := range a {
		if a[n] != b[n] {
			return false
		}
	}
	return true
}
