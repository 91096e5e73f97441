package store

import (
	"fmt"
	"time"

	"github.com/bch0w/misfitlens/internal/catalog"
	"github.com/bch0w/misfitlens/internal/inspector"
)

// ExportInspector writes the three record mappings of an Inspector into the
// database in one batch transaction, replacing any previous export.
func (s *Store) ExportInspector(insp *inspector.Inspector) error {
	if err := s.Clear(); err != nil {
		return fmt.Errorf("clearing store: %w", err)
	}

	batch, err := s.BeginBatch()
	if err != nil {
		return fmt.Errorf("starting batch: %w", err)
	}
	defer batch.Rollback()

	// Events and stations first; path rows reference both.
	for key, site := range insp.Srcrcv {
		switch site.Kind {
		case catalog.SiteEvent:
			ev := &EventRow{
				EventID: key,
				Lat:     site.Lat,
				Lon:     site.Lon,
				DepthM:  site.DepthM,
				Time:    site.Time,
				Mag:     site.Mag,
				UTMX:    site.UTMX,
				UTMY:    site.UTMY,
			}
			if err := batch.InsertEvent(ev); err != nil {
				return fmt.Errorf("inserting event %s: %w", key, err)
			}
		case catalog.SiteStation:
			sta := &StationRow{
				Code: key,
				Lat:  site.Lat,
				Lon:  site.Lon,
				ElvM: site.ElvM,
				UTMX: site.UTMX,
				UTMY: site.UTMY,
			}
			if err := batch.InsertStation(sta); err != nil {
				return fmt.Errorf("inserting station %s: %w", key, err)
			}
		default:
			return fmt.Errorf("srcrcv entry %s has unknown kind %q", key, site.Kind)
		}
	}

	for key, site := range insp.Srcrcv {
		if site.Kind != catalog.SiteEvent {
			continue
		}
		for sta, path := range site.Paths {
			row := &PathRow{EventID: key, Station: sta,
				DistKM: path.DistKM, Baz: path.Baz}
			if err := batch.InsertPath(row); err != nil {
				return fmt.Errorf("inserting path %s/%s: %w", key, sta, err)
			}
		}
	}

	for eid, byModel := range insp.Misfits {
		for model, bySteps := range byModel {
			for step, stations := range bySteps {
				for sta, entry := range stations {
					row := &MisfitRow{
						EventID: eid,
						Model:   model,
						Step:    step,
						Station: sta,
						Msft:    entry.Msft,
						Nwin:    entry.Nwin,
					}
					if err := batch.InsertMisfit(row); err != nil {
						return fmt.Errorf("inserting misfit %s %s/%s/%s: %w",
							eid, model, step, sta, err)
					}
				}
			}
		}
	}

	for eid, byModel := range insp.Windows {
		for model, bySteps := range byModel {
			for step, stations := range bySteps {
				for sta, channels := range stations {
					for cha, ws := range channels {
						for n := 0; n < ws.Len(); n++ {
							row := &WindowRow{
								EventID:    eid,
								Model:      model,
								Step:       step,
								Station:    sta,
								Channel:    cha,
								CCShiftSec: ws.CCShiftSec[n],
								DlnA:       ws.DlnA[n],
								Weight:     ws.Weight[n],
								MaxCC:      ws.MaxCC[n],
								LengthS:    ws.LengthS[n],
								RelStart:   ws.RelStart[n],
								RelEnd:     ws.RelEnd[n],
							}
							if err := batch.InsertWindow(row); err != nil {
								return fmt.Errorf("inserting window %s %s/%s/%s.%s: %w",
									eid, model, step, sta, cha, err)
							}
						}
					}
				}
			}
		}
	}

	if err := batch.Commit(); err != nil {
		return fmt.Errorf("committing export: %w", err)
	}

	if err := s.SetMetadata("exported_at", time.Now().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("storing metadata: %w", err)
	}
	return nil
}
