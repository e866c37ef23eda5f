package temporal

import (
	"fmt"
	"sort"
)

// ValidateTimeline checks the versioning invariant over the windows of one
// entity: exactly one open window, and the closed windows tile the timeline
// with no gap and no overlap. Windows may be supplied in any order.
func ValidateTimeline(windows []Window) error {
	if len(windows) == 0 {
		return fmt.Errorf("timeline: no versions")
	}

	sorted := make([]Window, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	open := 0
	for i, w := range sorted {
		if w.Open() {
			open++
			if i != len(sorted)-1 {
				return fmt.Errorf("timeline: open version at position %d is not the latest", i)
			}
			continue
		}
		if !w.Close.After(w.Start) {
			return fmt.Errorf("timeline: empty or inverted window at position %d", i)
		}
	}
	if open != 1 {
		return fmt.Errorf("timeline: expected exactly one open version, found %d", open)
	}

	for i := 1; i < len(sorted); i++ {
		if !sorted[i-1].Abuts(sorted[i]) {
			return fmt.Errorf("timeline: gap or overlap between position %d and %d", i-1, i)
		}
	}
	return nil
}
