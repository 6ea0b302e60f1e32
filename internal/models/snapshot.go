package models

// Snapshot is a point-in-time read of the location and category collections.
// It must be treated as immutable for the duration of a request.
type Snapshot struct {
	Locations  []Location
	Categories []Category // Categories are sorted by name.
}

// CategoryNames maps category ids to their names.
func (s Snapshot) CategoryNames() map[int64]string {
	names := make(map[int64]string, len(s.Categories))
	for _, c := range s.Categories {
		names[c.ID] = c.Name
	}

	return names
}
