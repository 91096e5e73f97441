package inspector

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bch0w/misfitlens/internal/catalog"
)

// Test fixture helpers. Reduction tests build index state directly through
// the exported mappings; ingestion tests go through container files on disk.

func addEvent(i *Inspector, eid string, lat, lon, depthM, mag float64, origin string) {
	i.Srcrcv[eid] = &catalog.Site{
		Kind: catalog.SiteEvent,
		Lat:  lat, Lon: lon, DepthM: depthM, Mag: mag, Time: origin,
		Paths: make(map[string]*catalog.Path),
	}
	i.invalidate()
}

func addStation(i *Inspector, code string, lat, lon float64) {
	i.Srcrcv[code] = &catalog.Site{Kind: catalog.SiteStation, Lat: lat, Lon: lon}
	i.invalidate()
}

func addMisfit(i *Inspector, eid, model, step, sta string, msft float64, nwin int) {
	if i.Misfits[eid] == nil {
		i.Misfits[eid] = make(map[string]map[string]map[string]*catalog.MisfitEntry)
	}
	if i.Misfits[eid][model] == nil {
		i.Misfits[eid][model] = make(map[string]map[string]*catalog.MisfitEntry)
	}
	if i.Misfits[eid][model][step] == nil {
		i.Misfits[eid][model][step] = make(map[string]*catalog.MisfitEntry)
	}
	i.Misfits[eid][model][step][sta] = &catalog.MisfitEntry{Msft: msft, Nwin: nwin}
	i.invalidate()
}

func addWindows(i *Inspector, eid, model, step, sta, cha string, ws *catalog.WindowSet) {
	if i.Windows[eid] == nil {
		i.Windows[eid] = make(map[string]map[string]map[string]map[string]*catalog.WindowSet)
	}
	if i.Windows[eid][model] == nil {
		i.Windows[eid][model] = make(map[string]map[string]map[string]*catalog.WindowSet)
	}
	if i.Windows[eid][model][step] == nil {
		i.Windows[eid][model][step] = make(map[string]map[string]*catalog.WindowSet)
	}
	if i.Windows[eid][model][step][sta] == nil {
		i.Windows[eid][model][step][sta] = make(map[string]*catalog.WindowSet)
	}
	i.Windows[eid][model][step][sta][cha] = ws
	i.invalidate()
}

// winSet builds a window set from parallel cc shift and length values.
func winSet(shifts, lengths []float64) *catalog.WindowSet {
	ws := &catalog.WindowSet{}
	for n := range shifts {
		ws.DlnA = append(ws.DlnA, 0.1)
		ws.Weight = append(ws.Weight, 1.0)
		ws.MaxCC = append(ws.MaxCC, 0.9)
		ws.LengthS = append(ws.LengthS, lengths[n])
		ws.RelStart = append(ws.RelStart, 10.0)
		ws.RelEnd = append(ws.RelEnd, 10.0+lengths[n])
		ws.CCShiftSec = append(ws.CCShiftSec, shifts[n])
	}
	return ws
}

// testSource is a complete container: two stations, one with 5 windows and
// two misfit contributions, one with 2 windows and one contribution.
func testSource(eid string) *catalog.Source {
	wins := []catalog.MisfitWindow{}
	for n := 0; n < 5; n++ {
		wins = append(wins, catalog.MisfitWindow{
			ChannelID: "NZ.BFZ.10.HHZ", DlnA: 0.1, WindowWeight: 1.0,
			MaxCCValue: 0.9, RelStart: 20, RelEnd: 30, CCShiftSec: 0.5,
		})
	}
	wins = append(wins,
		catalog.MisfitWindow{ChannelID: "NZ.KNZ.10.HHN", RelStart: 10, RelEnd: 25, CCShiftSec: -1.1},
		catalog.MisfitWindow{ChannelID: "NZ.KNZ.10.HHN", RelStart: 40, RelEnd: 60, CCShiftSec: 0.3},
	)

	return &catalog.Source{
		Event: catalog.SourceEvent{
			ID: eid, Lat: -39.95, Lon: 176.30, DepthM: 20594.0,
			Time: "2018-02-18T07:43:48Z", Mag: 5.16,
		},
		Stations: map[string]catalog.SourceStation{
			"NZ.BFZ": {Lat: -40.68, Lon: 176.25, ElvM: 283.0},
			"NZ.KNZ": {Lat: -39.02, Lon: 177.67, ElvM: 60.0},
		},
		AdjointSources: map[string]map[string][]catalog.AdjointSource{
			"m00": {"s00": {
				{StationID: "NZ.BFZ", MisfitValue: 2.0},
				{StationID: "NZ.BFZ", MisfitValue: 3.0},
				{StationID: "NZ.KNZ", MisfitValue: 1.0},
			}},
		},
		MisfitWindows: map[string]map[string][]catalog.MisfitWindow{
			"m00": {"s00": wins},
		},
	}
}

func writeSource(t *testing.T, dir string, src *catalog.Source) string {
	t.Helper()
	data, err := json.Marshal(src)
	if err != nil {
		t.Fatalf("marshaling source: %v", err)
	}
	path := filepath.Join(dir, src.Event.ID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing source: %v", err)
	}
	return path
}

func TestAppendExtractsAllMappings(t *testing.T) {
	path := writeSource(t, t.TempDir(), testSource("2018p130600"))

	insp := New(-60)
	if !insp.Append(path, true, true, true) {
		t.Fatal("expected append to succeed")
	}

	ev, ok := insp.Srcrcv["2018p130600"]
	if !ok {
		t.Fatal("event missing from srcrcv")
	}
	if ev.Kind != catalog.SiteEvent {
		t.Errorf("expected event kind, got %s", ev.Kind)
	}
	if len(ev.Paths) != 2 {
		t.Errorf("expected 2 paths, got %d", len(ev.Paths))
	}
	if ev.Paths["NZ.BFZ"].DistKM <= 0 {
		t.Error("expected positive source-receiver distance")
	}
	if ev.UTMX == 0 || ev.UTMY == 0 {
		t.Error("expected projected event coordinates")
	}
	if sta, ok := insp.Srcrcv["NZ.BFZ"]; !ok || sta.Kind != catalog.SiteStation {
		t.Error("station missing or mis-kinded in srcrcv")
	}

	// Station totals are scaled once by 2 * window count:
	// NZ.BFZ (2.0 + 3.0) / (2 * 5) = 0.5, NZ.KNZ 1.0 / (2 * 2) = 0.25.
	stations := insp.Misfits["2018p130600"]["m00"]["s00"]
	if got := stations["NZ.BFZ"].Msft; math.Abs(got-0.5) > 1e-12 {
		t.Errorf("expected scaled misfit 0.5, got %g", got)
	}
	if stations["NZ.BFZ"].Nwin != 5 {
		t.Errorf("expected 5 windows, got %d", stations["NZ.BFZ"].Nwin)
	}
	if got := stations["NZ.KNZ"].Msft; math.Abs(got-0.25) > 1e-12 {
		t.Errorf("expected scaled misfit 0.25, got %g", got)
	}

	ws := insp.Windows["2018p130600"]["m00"]["s00"]["NZ.KNZ"]["HHN"]
	if ws.Len() != 2 {
		t.Fatalf("expected 2 windows for NZ.KNZ HHN, got %d", ws.Len())
	}
	if got := ws.LengthS[0]; got != 15.0 {
		t.Errorf("expected window length 15, got %g", got)
	}
}

func TestAppendBrokenContainerSkipped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	insp := New(-60)
	if insp.Append(path, true, true, true) {
		t.Error("expected append to fail")
	}
	if len(insp.Srcrcv)+len(insp.Misfits)+len(insp.Windows) != 0 {
		t.Error("expected index to stay empty")
	}
}

func TestAppendRollsBackPartialEvent(t *testing.T) {
	// A station with misfit contributions but no windows fails the misfit
	// extractor; the windows and srcrcv entries extracted before it must be
	// removed again.
	src := testSource("2019p000000")
	src.AdjointSources["m00"]["s00"] = append(src.AdjointSources["m00"]["s00"],
		catalog.AdjointSource{StationID: "NZ.WEL", MisfitValue: 4.0})
	src.Stations["NZ.WEL"] = catalog.SourceStation{Lat: -41.28, Lon: 174.77}
	path := writeSource(t, t.TempDir(), src)

	insp := New(-60)
	if insp.Append(path, true, true, true) {
		t.Fatal("expected append to fail")
	}
	if _, ok := insp.Srcrcv["2019p000000"]; ok {
		t.Error("event left behind in srcrcv")
	}
	if _, ok := insp.Misfits["2019p000000"]; ok {
		t.Error("event left behind in misfits")
	}
	if _, ok := insp.Windows["2019p000000"]; ok {
		t.Error("event left behind in windows")
	}
}

func TestIngestDir(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, testSource("2018p130600"))
	writeSource(t, dir, testSource("2019p222222"))
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	insp := New(-60)
	appended, err := insp.IngestDir(dir, "*.json", true, true, true)
	if err != nil {
		t.Fatalf("failed to ingest: %v", err)
	}
	if appended != 2 {
		t.Errorf("expected 2 sources appended, got %d", appended)
	}

	ax, err := insp.Axes()
	if err != nil {
		t.Fatalf("failed to get axes: %v", err)
	}
	if len(ax.Events) != 2 {
		t.Errorf("expected 2 events, got %v", ax.Events)
	}
	if len(ax.Stations) != 2 {
		t.Errorf("expected 2 stations, got %v", ax.Stations)
	}
}

func TestAppendOverwritesExistingEvent(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, testSource("2018p130600"))

	insp := New(-60)
	insp.Append(path, true, true, true)
	insp.Append(path, true, true, true)

	ax, err := insp.Axes()
	if err != nil {
		t.Fatalf("failed to get axes: %v", err)
	}
	if len(ax.Events) != 1 {
		t.Errorf("expected 1 event after re-append, got %v", ax.Events)
	}
}

func TestAxesUnionAcrossEvents(t *testing.T) {
	insp := New(-60)
	addEvent(insp, "eventA", -40, 176, 10e3, 5.0, "2018-01-01T00:00:00Z")
	addEvent(insp, "eventB", -41, 175, 12e3, 5.5, "2018-02-01T00:00:00Z")
	addStation(insp, "NZ.BFZ", -40.68, 176.25)
	addMisfit(insp, "eventA", "m00", "s00", "NZ.BFZ", 0.5, 5)
	addMisfit(insp, "eventA", "m00", "s01", "NZ.BFZ", 0.4, 5)
	// eventB never reached m01; partial coverage is fine.
	addMisfit(insp, "eventB", "m00", "s00", "NZ.BFZ", 0.6, 3)
	addMisfit(insp, "eventB", "m00", "s01", "NZ.BFZ", 0.3, 3)
	addMisfit(insp, "eventA", "m01", "s00", "NZ.BFZ", 0.2, 5)

	ax, err := insp.Axes()
	if err != nil {
		t.Fatalf("failed to get axes: %v", err)
	}
	if !equalStrings(ax.Events, []string{"eventA", "eventB"}) {
		t.Errorf("unexpected events %v", ax.Events)
	}
	if !equalStrings(ax.Stations, []string{"NZ.BFZ"}) {
		t.Errorf("unexpected stations %v", ax.Stations)
	}
	if !equalStrings(ax.Models, []string{"m00", "m01"}) {
		t.Errorf("unexpected models %v", ax.Models)
	}
	if !equalStrings(ax.Steps["m00"], []string{"s00", "s01"}) {
		t.Errorf("unexpected steps %v", ax.Steps["m00"])
	}
	if ax.Iterations != 3 {
		t.Errorf("expected 3 iterations, got %d", ax.Iterations)
	}
}

func TestAxesStepConflict(t *testing.T) {
	insp := New(-60)
	addMisfit(insp, "eventA", "m00", "s00", "NZ.BFZ", 0.5, 5)
	addMisfit(insp, "eventB", "m00", "s00", "NZ.BFZ", 0.6, 3)
	addMisfit(insp, "eventB", "m00", "s01", "NZ.BFZ", 0.3, 3)

	if _, err := insp.Axes(); err == nil {
		t.Error("expected step set conflict error")
	}
}

func TestAxesKeyKindMismatch(t *testing.T) {
	insp := New(-60)
	// A dotted key claiming to be an event indicates a corrupt index.
	insp.Srcrcv["NZ.BFZ"] = &catalog.Site{Kind: catalog.SiteEvent}

	if _, err := insp.Axes(); err == nil {
		t.Error("expected key/kind mismatch error")
	}
}

func TestAxesCachedUntilMutation(t *testing.T) {
	insp := New(-60)
	addEvent(insp, "eventA", -40, 176, 10e3, 5.0, "2018-01-01T00:00:00Z")

	ax1, err := insp.Axes()
	if err != nil {
		t.Fatalf("failed to get axes: %v", err)
	}
	ax2, _ := insp.Axes()
	if ax1 != ax2 {
		t.Error("expected cached axes pointer")
	}

	addEvent(insp, "eventB", -41, 175, 12e3, 5.5, "2018-02-01T00:00:00Z")
	ax3, err := insp.Axes()
	if err != nil {
		t.Fatalf("failed to get axes: %v", err)
	}
	if ax3 == ax1 {
		t.Error("expected recomputed axes after mutation")
	}
	if len(ax3.Events) != 2 {
		t.Errorf("expected 2 events after mutation, got %v", ax3.Events)
	}
}

func TestEventInfo(t *testing.T) {
	insp := New(-60)
	addEvent(insp, "eventA", -40.0, 176.0, 10e3, 5.0, "2018-01-01T00:00:00Z")
	addStation(insp, "NZ.BFZ", -40.68, 176.25)

	mags, err := insp.EventInfo("mag")
	if err != nil {
		t.Fatalf("failed to get event info: %v", err)
	}
	if len(mags) != 1 || mags["eventA"] != 5.0 {
		t.Errorf("unexpected magnitudes %v", mags)
	}

	if _, err := insp.EventInfo("origintime"); err == nil {
		t.Error("expected error for unknown choice")
	}

	times := insp.Times()
	if times["eventA"] != "2018-01-01T00:00:00Z" {
		t.Errorf("unexpected times %v", times)
	}
}

func TestSummaryReportsAxisCounts(t *testing.T) {
	insp := New(-60)
	addEvent(insp, "eventA", -40, 176, 10e3, 5.0, "2018-01-01T00:00:00Z")
	addStation(insp, "NZ.BFZ", -40.68, 176.25)
	addMisfit(insp, "eventA", "m00", "s00", "NZ.BFZ", 0.5, 5)

	report, err := insp.Summary()
	if err != nil {
		t.Fatalf("failed to summarize: %v", err)
	}
	for _, want := range []string{"events: 1", "stations: 1", "models: 1", "SumMisfits", "srcrcv"} {
		if !strings.Contains(report, want) {
			t.Errorf("summary missing %q:\n%s", want, report)
		}
	}
}
