package cmd

import (
	"fmt"

	"github.com/bch0w/misfitlens/internal/inspector"
)

// loadInspector restores the index snapshot every read-only command works
// from. tagFlag overrides the configured snapshot tag when non-empty.
func loadInspector(tagFlag string) (*inspector.Inspector, error) {
	cfg := GetConfig()
	tag := cfg.Snapshot.Tag
	if tagFlag != "" {
		tag = tagFlag
	}

	insp := inspector.New(cfg.UTMZone)
	found, err := insp.Load(tag, cfg.Snapshot.Dir)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("no snapshot %s/%s.json, run 'misfitlens ingest' first",
			cfg.Snapshot.Dir, tag)
	}
	return insp, nil
}
