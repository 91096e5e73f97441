package inspector

import (
	"fmt"

	"github.com/bch0w/misfitlens/internal/catalog"
	"github.com/bch0w/misfitlens/internal/geo"
)

// getSrcrcv extracts the event origin, any stations not yet known, and the
// per-station distance and backazimuth for this event.
func (i *Inspector) getSrcrcv(src *catalog.Source) {
	ev := src.Event
	x, y := geo.UTM(ev.Lon, ev.Lat, i.utmZone)
	site := &catalog.Site{
		Kind:   catalog.SiteEvent,
		Lat:    ev.Lat,
		Lon:    ev.Lon,
		DepthM: ev.DepthM,
		Time:   ev.Time,
		Mag:    ev.Mag,
		UTMX:   x,
		UTMY:   y,
		Paths:  make(map[string]*catalog.Path),
	}
	i.Srcrcv[ev.ID] = site

	for code, sta := range src.Stations {
		// Station coordinates are shared across events, filled once.
		if _, ok := i.Srcrcv[code]; !ok {
			sx, sy := geo.UTM(sta.Lon, sta.Lat, i.utmZone)
			i.Srcrcv[code] = &catalog.Site{
				Kind: catalog.SiteStation,
				Lat:  sta.Lat,
				Lon:  sta.Lon,
				ElvM: sta.ElvM,
				UTMX: sx,
				UTMY: sy,
			}
		}

		dist, baz := geo.DistAzimuth(ev.Lat, ev.Lon, sta.Lat, sta.Lon)
		site.Paths[code] = &catalog.Path{DistKM: dist, Baz: baz}
	}
}

// getMisfits extracts per-station misfits for every (model, step) in the
// source. Raw contributions for a station are summed first; the station
// total is then scaled once by 2 * window count, per Tape (2010) eq. 6.
// Window counts come from the window section of the container regardless
// of whether window extraction is enabled.
func (i *Inspector) getMisfits(src *catalog.Source) error {
	eid := src.Event.ID

	i.Misfits[eid] = make(map[string]map[string]map[string]*catalog.MisfitEntry)
	for model, bySteps := range src.AdjointSources {
		i.Misfits[eid][model] = make(map[string]map[string]*catalog.MisfitEntry)
		for step, entries := range bySteps {
			numWin := src.WindowCountsByStation(model, step)

			stations := make(map[string]*catalog.MisfitEntry)
			for _, adj := range entries {
				entry, ok := stations[adj.StationID]
				if !ok {
					nwin := numWin[adj.StationID]
					if nwin == 0 {
						return fmt.Errorf(
							"event %s %s/%s: station %s has misfit but no windows",
							eid, model, step, adj.StationID)
					}
					entry = &catalog.MisfitEntry{Nwin: nwin}
					stations[adj.StationID] = entry
				}
				entry.Msft += adj.MisfitValue
			}

			// Scale after all contributions for a station are in.
			for _, entry := range stations {
				entry.Msft /= float64(2 * entry.Nwin)
			}
			i.Misfits[eid][model][step] = stations
		}
	}
	return nil
}

// getWindows extracts per-window measurements into parallel slices keyed by
// (model, step, station, channel).
func (i *Inspector) getWindows(src *catalog.Source) {
	eid := src.Event.ID

	i.Windows[eid] = make(map[string]map[string]map[string]map[string]*catalog.WindowSet)
	for model, bySteps := range src.MisfitWindows {
		i.Windows[eid][model] = make(map[string]map[string]map[string]*catalog.WindowSet)
		for step, wins := range bySteps {
			view := make(map[string]map[string]*catalog.WindowSet)
			for _, win := range wins {
				sta := win.StationID()
				cha := win.Channel()
				if _, ok := view[sta]; !ok {
					view[sta] = make(map[string]*catalog.WindowSet)
				}
				ws, ok := view[sta][cha]
				if !ok {
					ws = &catalog.WindowSet{}
					view[sta][cha] = ws
				}

				ws.DlnA = append(ws.DlnA, win.DlnA)
				ws.Weight = append(ws.Weight, win.WindowWeight)
				ws.MaxCC = append(ws.MaxCC, win.MaxCCValue)
				ws.LengthS = append(ws.LengthS, win.RelEnd-win.RelStart)
				ws.RelStart = append(ws.RelStart, win.RelStart)
				ws.RelEnd = append(ws.RelEnd, win.RelEnd)
				ws.CCShiftSec = append(ws.CCShiftSec, win.CCShiftSec)
			}
			i.Windows[eid][model][step] = view
		}
	}
}
