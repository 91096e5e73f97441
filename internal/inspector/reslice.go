package inspector

import "github.com/bch0w/misfitlens/internal/catalog"

// ModelMisfits is the model-major misfit view:
// model -> step -> event -> station.
type ModelMisfits map[string]map[string]map[string]map[string]*catalog.MisfitEntry

// ModelWindows is the model-major window view:
// model -> step -> event -> station -> channel.
type ModelWindows map[string]map[string]map[string]map[string]map[string]*catalog.WindowSet

// SortMisfitsByModel re-slices the event-major misfit mapping into a
// model-major view. The view is built fresh on every call and shares leaf
// records with the index; events that contributed nothing to a given
// (model, step) are simply absent from it.
func (i *Inspector) SortMisfitsByModel() (ModelMisfits, error) {
	ax, err := i.Axes()
	if err != nil {
		return nil, err
	}

	out := make(ModelMisfits, len(ax.Models))
	for _, model := range ax.Models {
		out[model] = make(map[string]map[string]map[string]*catalog.MisfitEntry)
		for _, step := range ax.Steps[model] {
			view := make(map[string]map[string]*catalog.MisfitEntry)
			for eid, byModel := range i.Misfits {
				if bySteps, ok := byModel[model]; ok {
					if stations, ok := bySteps[step]; ok {
						view[eid] = stations
					}
				}
			}
			out[model][step] = view
		}
	}
	return out, nil
}

// SortWindowsByModel re-slices the event-major window mapping into a
// model-major view, with the same sharing and absence semantics as
// SortMisfitsByModel.
func (i *Inspector) SortWindowsByModel() (ModelWindows, error) {
	ax, err := i.Axes()
	if err != nil {
		return nil, err
	}

	out := make(ModelWindows, len(ax.Models))
	for _, model := range ax.Models {
		out[model] = make(map[string]map[string]map[string]map[string]*catalog.WindowSet)
		for _, step := range ax.Steps[model] {
			view := make(map[string]map[string]map[string]*catalog.WindowSet)
			for eid, byModel := range i.Windows {
				if bySteps, ok := byModel[model]; ok {
					if stations, ok := bySteps[step]; ok {
						view[eid] = stations
					}
				}
			}
			out[model][step] = view
		}
	}
	return out, nil
}

// StationMisfit is the station-centric misfit aggregate: misfit and window
// count summed over all events recording that station, with the summed
// misfit divided by the number of contributing events.
type StationMisfit struct {
	Msft    float64 `json:"msft"`
	Nwin    int     `json:"nwin"`
	Nevents int     `json:"nevents"`
}

// SortMisfitsByStation rebuilds the misfit mapping keyed by
// model -> step -> station. This layers a per-event normalization on top of
// the per-station Tape eq. 6 scaling already baked into the entries.
func (i *Inspector) SortMisfitsByStation() (map[string]map[string]map[string]*StationMisfit, error) {
	out := make(map[string]map[string]map[string]*StationMisfit)
	for _, eid := range sortedKeys(i.Misfits) {
		for model, bySteps := range i.Misfits[eid] {
			if _, ok := out[model]; !ok {
				out[model] = make(map[string]map[string]*StationMisfit)
			}
			for step, stations := range bySteps {
				if _, ok := out[model][step]; !ok {
					out[model][step] = make(map[string]*StationMisfit)
				}
				for sta, entry := range stations {
					agg, ok := out[model][step][sta]
					if !ok {
						agg = &StationMisfit{}
						out[model][step][sta] = agg
					}
					agg.Msft += entry.Msft
					agg.Nwin += entry.Nwin
					agg.Nevents++
				}
			}
		}
	}

	for _, bySteps := range out {
		for _, stations := range bySteps {
			for _, agg := range stations {
				agg.Msft /= float64(agg.Nevents)
			}
		}
	}
	return out, nil
}
