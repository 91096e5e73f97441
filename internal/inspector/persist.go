package inspector

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bch0w/misfitlens/internal/catalog"
)

// snapshot is the persisted form of the index: exactly the three record
// mappings, nothing derived. encoding/json writes map keys in sorted order,
// which keeps snapshots diffable across runs.
type snapshot struct {
	Srcrcv  map[string]*catalog.Site `json:"srcrcv"`
	Misfits MisfitAxis               `json:"misfits"`
	Windows WindowAxis               `json:"windows"`
}

// Save writes the three record mappings to <dir>/<tag>.json. Derived axis
// metadata is not persisted; it is recomputed after Load.
func (i *Inspector) Save(tag, dir string) error {
	snap := snapshot{Srcrcv: i.Srcrcv, Misfits: i.Misfits, Windows: i.Windows}
	data, err := json.MarshalIndent(&snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	path := filepath.Join(dir, tag+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Load replaces the three record mappings from a previously saved snapshot
// and invalidates all derived state. The tag may carry a ".json" suffix.
// Returns false without error when no snapshot exists under the tag.
func (i *Inspector) Load(tag, dir string) (bool, error) {
	tag = strings.TrimSuffix(tag, ".json")
	path := filepath.Join(dir, tag+".json")

	fmt.Print("reading file... ")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("not found")
			return false, nil
		}
		return false, fmt.Errorf("reading snapshot: %w", err)
	}
	fmt.Println("found")

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return false, fmt.Errorf("parsing snapshot: %w", err)
	}

	i.Srcrcv = snap.Srcrcv
	i.Misfits = snap.Misfits
	i.Windows = snap.Windows
	if i.Srcrcv == nil {
		i.Srcrcv = make(map[string]*catalog.Site)
	}
	if i.Misfits == nil {
		i.Misfits = make(MisfitAxis)
	}
	if i.Windows == nil {
		i.Windows = make(WindowAxis)
	}
	i.invalidate()
	return true, nil
}
