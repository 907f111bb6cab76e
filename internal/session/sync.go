package session

import (
	"slices"

	"github.com/dusk-indust/chartaxis/internal/zone"
)

// Item is one occurrence of a column inside a zone. ID is session-local and
// changes whenever the zones are rebuilt from the external config;
// OriginalID is the column name and the only field that leaves the session.
type Item struct {
	ID         string `json:"id"`
	OriginalID string `json:"originalId"`
}

// Zone is the session's internal zone: the external zone with every member
// wrapped in an Item. Items are pointers so a slot keeps its identity across
// commits that do not touch it.
type Zone struct {
	ID    zone.Kind
	Title string
	Items []*Item
}

// ToExternal strips session ids, keeping only column names.
func ToExternal(zones []Zone) []zone.Zone {
	out := make([]zone.Zone, len(zones))
	for i, z := range zones {
		items := make([]string, len(z.Items))
		for j, it := range z.Items {
			items[j] = it.OriginalID
		}
		out[i] = zone.Zone{ID: z.ID, Title: z.Title, Items: items}
	}
	return out
}

// FromExternal wraps every column of external in a new Item keyed by newID.
func FromExternal(external []zone.Zone, newID func() string) []Zone {
	out := make([]Zone, len(external))
	for i, z := range external {
		items := make([]*Item, len(z.Items))
		for j, col := range z.Items {
			items[j] = &Item{ID: newID(), OriginalID: col}
		}
		out[i] = Zone{ID: z.ID, Title: z.Title, Items: items}
	}
	return out
}

// Equivalent reports whether internal, stripped of session ids, matches
// external: same zones in the same order, same columns in the same order.
// Titles are presentation and do not count.
func Equivalent(internal []Zone, external []zone.Zone) bool {
	if len(internal) != len(external) {
		return false
	}
	for i, z := range internal {
		ext := external[i]
		if z.ID != ext.ID || len(z.Items) != len(ext.Items) {
			return false
		}
		for j, it := range z.Items {
			if it.OriginalID != ext.Items[j] {
				return false
			}
		}
	}
	return true
}

// Normalize drops every repeated occurrence of a column so each column sits
// in at most one zone, at most once. The first occurrence in zone order
// wins. It returns the cleaned zones and the dropped column names; external
// is returned unchanged when nothing was dropped.
func Normalize(external []zone.Zone) ([]zone.Zone, []string) {
	seen := make(map[string]bool)
	var dropped []string
	for _, z := range external {
		for _, col := range z.Items {
			if seen[col] {
				dropped = append(dropped, col)
			}
			seen[col] = true
		}
	}
	if len(dropped) == 0 {
		return external, nil
	}

	clear(seen)
	out := make([]zone.Zone, len(external))
	for i, z := range external {
		items := make([]string, 0, len(z.Items))
		for _, col := range z.Items {
			if seen[col] {
				continue
			}
			seen[col] = true
			items = append(items, col)
		}
		out[i] = zone.Zone{ID: z.ID, Title: z.Title, Items: items}
	}
	return out, dropped
}

// cloneZones copies the zone slice and each Items slice; Item pointers are
// shared.
func cloneZones(zones []Zone) []Zone {
	out := make([]Zone, len(zones))
	for i, z := range zones {
		out[i] = Zone{ID: z.ID, Title: z.Title, Items: slices.Clone(z.Items)}
	}
	return out
}
