package inspector

import (
	"fmt"
	"time"

	"github.com/bch0w/misfitlens/internal/catalog"
)

// Filter selects events to keep during ExcludeEvents. Every criterion is
// optional; nil (or a nil Coords slice) means "not supplied". Criteria are
// evaluated in a fixed order — bounding box, depth, magnitude, time — and
// the first supplied criterion an event fails excludes it, skipping the
// rest for that event.
type Filter struct {
	// Coords is a bounding box [latMin, latMax, lonMin, lonMax].
	Coords []float64

	// Depth range in kilometers.
	DepthMinKM *float64
	DepthMaxKM *float64

	MagMin *float64
	MagMax *float64

	Starttime *time.Time
	Endtime   *time.Time
}

func (f *Filter) validate() error {
	if f.Coords != nil && len(f.Coords) != 4 {
		return fmt.Errorf("coords must be [latMin, latMax, lonMin, lonMax], got %d values",
			len(f.Coords))
	}
	if f.DepthMinKM != nil && f.DepthMaxKM != nil && *f.DepthMinKM > *f.DepthMaxKM {
		return fmt.Errorf("depth range inverted: %g > %g", *f.DepthMinKM, *f.DepthMaxKM)
	}
	if f.MagMin != nil && f.MagMax != nil && *f.MagMin > *f.MagMax {
		return fmt.Errorf("magnitude range inverted: %g > %g", *f.MagMin, *f.MagMax)
	}
	if f.Starttime != nil && f.Endtime != nil && f.Starttime.After(*f.Endtime) {
		return fmt.Errorf("time range inverted: %s after %s", f.Starttime, f.Endtime)
	}
	return nil
}

// excludes reports whether the event fails any supplied criterion.
func (f *Filter) excludes(site *catalog.Site) (bool, error) {
	if len(f.Coords) == 4 {
		if site.Lat < f.Coords[0] || site.Lat > f.Coords[1] ||
			site.Lon < f.Coords[2] || site.Lon > f.Coords[3] {
			return true, nil
		}
	}

	depthKM := site.DepthM * 1e-3
	if f.DepthMinKM != nil && depthKM < *f.DepthMinKM {
		return true, nil
	}
	if f.DepthMaxKM != nil && depthKM > *f.DepthMaxKM {
		return true, nil
	}

	if f.MagMin != nil && site.Mag < *f.MagMin {
		return true, nil
	}
	if f.MagMax != nil && site.Mag > *f.MagMax {
		return true, nil
	}

	if f.Starttime != nil || f.Endtime != nil {
		origin, err := time.Parse(time.RFC3339, site.Time)
		if err != nil {
			return false, fmt.Errorf("parsing origin time %q: %w", site.Time, err)
		}
		if f.Starttime != nil && origin.Before(*f.Starttime) {
			return true, nil
		}
		if f.Endtime != nil && origin.After(*f.Endtime) {
			return true, nil
		}
	}

	return false, nil
}

// ExcludeEvents removes every event failing the filter, along with all of
// its misfit and window records. Station entries are left alone: surviving
// events may still reference them. The removal is in place and destructive;
// save a snapshot first if the data must be recoverable. Returns the number
// of events removed.
func (i *Inspector) ExcludeEvents(f Filter) (int, error) {
	if err := f.validate(); err != nil {
		return 0, fmt.Errorf("invalid filter: %w", err)
	}

	var outside []string
	for _, key := range sortedKeys(i.Srcrcv) {
		site := i.Srcrcv[key]
		if site.Kind != catalog.SiteEvent {
			continue
		}
		out, err := f.excludes(site)
		if err != nil {
			return 0, fmt.Errorf("event %s: %w", key, err)
		}
		if out {
			outside = append(outside, key)
		}
	}

	fmt.Printf("excluding %d events\n", len(outside))
	for _, eid := range outside {
		i.deleteEvent(eid)
	}
	return len(outside), nil
}
