package locator

import (
	"cmp"
	"math"
	"slices"

	"github.com/UnknownOlympus/locator/internal/models"
)

const (
	earthRadiusKm = 6371.0088
	kmPerMile     = 1.609344
)

// Distance returns the great-circle distance between two points in the given unit.
func Distance(from, to models.Coordinates, unit models.Unit) float64 {
	lat1 := from.Latitude * math.Pi / 180
	lat2 := to.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (to.Longitude - from.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	km := 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))

	if unit == models.UnitKilometers {
		return km
	}

	return km / kmPerMile
}

// Query describes how filtered locations are placed into the feed.
type Query struct {
	Origin *models.Coordinates // Origin enables distance sorting when set.
	Radius float64             // Radius drops farther locations when > 0 and an origin is set.
	Unit   models.Unit
	Limit  int // Limit caps the result, 0 means unlimited.
}

// Arrange applies the distance policy. Without an origin the input order is kept
// and only the limit applies. With one, locations are sorted by ascending distance
// (ties by id), filtered by radius and then capped.
func Arrange(locations []models.Location, q Query) []models.Placement {
	placed := make([]models.Placement, 0, len(locations))

	for _, loc := range locations {
		p := models.Placement{Location: loc}
		if q.Origin != nil {
			d := Distance(*q.Origin, loc.Coordinates(), q.Unit)
			if q.Radius > 0 && d > q.Radius {
				continue
			}
			p.Distance = &d
		}
		placed = append(placed, p)
	}

	if q.Origin != nil {
		slices.SortStableFunc(placed, func(a, b models.Placement) int {
			if c := cmp.Compare(*a.Distance, *b.Distance); c != 0 {
				return c
			}
			return cmp.Compare(a.Location.ID, b.Location.ID)
		})
	}

	if q.Limit > 0 && len(placed) > q.Limit {
		placed = placed[:q.Limit]
	}

	return placed
}
