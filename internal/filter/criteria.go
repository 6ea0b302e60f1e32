package filter

// Field keys understood by the filter engine.
const (
	KeyID            = "ID"
	KeyTitle         = "Title"
	KeyAddress       = "Address"
	KeySuburb        = "Suburb"
	KeyState         = "State"
	KeyPostcode      = "Postcode"
	KeyCountry       = "Country"
	KeyWebsite       = "Website"
	KeyPhone         = "Phone"
	KeyEmail         = "Email"
	KeyLat           = "Lat"
	KeyLng           = "Lng"
	KeyFeatured      = "Featured"
	KeyShowInLocator = "ShowInLocator"
	KeyCategoryID    = "CategoryID"
)

// Criterion is a single key/value equality constraint.
type Criterion struct {
	Key   string
	Value any
}

// Criteria is an ordered bag of constraints. A key may appear any number of times,
// so several categories can be listed under CategoryID without overwriting each other.
type Criteria []Criterion

// NewCriteria returns an empty bag.
func NewCriteria() Criteria {
	return Criteria{}
}

// Add appends a constraint and returns the extended bag.
func (c Criteria) Add(key string, value any) Criteria {
	return append(c, Criterion{Key: key, Value: value})
}

// Set replaces every constraint on key with a single one.
// The receiver is left untouched; a new bag is returned.
func (c Criteria) Set(key string, value any) Criteria {
	out := make(Criteria, 0, len(c)+1)
	for _, cr := range c {
		if cr.Key != key {
			out = append(out, cr)
		}
	}

	return append(out, Criterion{Key: key, Value: value})
}

// Values returns every value listed under key, in insertion order.
func (c Criteria) Values(key string) []any {
	var values []any
	for _, cr := range c {
		if cr.Key == key {
			values = append(values, cr.Value)
		}
	}

	return values
}

// Len returns the number of constraints.
func (c Criteria) Len() int {
	return len(c)
}

// Clone returns a copy that shares no backing array with c.
func (c Criteria) Clone() Criteria {
	out := make(Criteria, len(c))
	copy(out, c)

	return out
}

// Request groups the three criteria bags of a filter evaluation.
//
// Required pairs must all match, Excluded pairs must all fail to match, and
// at least one MatchAny pair must match when the bag is not empty.
type Request struct {
	Required Criteria
	Excluded Criteria
	MatchAny Criteria
}
