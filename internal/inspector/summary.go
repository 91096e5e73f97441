package inspector

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// mappings and operations are the static enumeration of the Inspector's
// public surface, shown by Summary. Kept by hand rather than derived by
// reflection so the summary stays an explicit, reviewable list.
var mappings = []string{"srcrcv", "misfits", "windows"}

var operations = []string{
	"Append",
	"IngestDir",
	"Axes",
	"EventInfo",
	"Times",
	"SortMisfitsByModel",
	"SortWindowsByModel",
	"SortMisfitsByStation",
	"EventStats",
	"WindowValues",
	"MisfitValues",
	"Measurements",
	"SumMisfits",
	"SortByWindow",
	"ExcludeEvents",
	"Save",
	"Load",
	"Summary",
}

// Summary returns a human-readable report of the index's current shape:
// axis counts and the available mappings and operations. The report is
// built once and cached until the next mutating operation.
func (i *Inspector) Summary() (string, error) {
	if i.summary != "" {
		return i.summary, nil
	}

	ax, err := i.Axes()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("INSPECTOR\n")
	b.WriteString("Attributes:\n")
	fmt.Fprintf(&b, "\tevents: %s\n", humanize.Comma(int64(len(ax.Events))))
	fmt.Fprintf(&b, "\tstations: %s\n", humanize.Comma(int64(len(ax.Stations))))
	fmt.Fprintf(&b, "\tmodels: %s\n", humanize.Comma(int64(len(ax.Models))))
	fmt.Fprintf(&b, "\titerations: %s\n", humanize.Comma(int64(ax.Iterations)))
	b.WriteString("Mappings:\n")
	for _, m := range mappings {
		fmt.Fprintf(&b, "\t%s\n", m)
	}
	b.WriteString("Operations:\n")
	for _, op := range operations {
		fmt.Fprintf(&b, "\t%s\n", op)
	}

	i.summary = b.String()
	return i.summary, nil
}
