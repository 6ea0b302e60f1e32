package feed

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/UnknownOlympus/locator/internal/models"
)

// Format is a feed serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// ParseFormat validates a format name taken from a request path.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(raw)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatXML:
		return FormatXML, nil
	default:
		return "", fmt.Errorf("unsupported feed format: %s", raw)
	}
}

// ContentType returns the HTTP content type of the format.
func (f Format) ContentType() string {
	if f == FormatXML {
		return "text/xml; charset=utf-8"
	}

	return "application/json"
}

// Record is one location as consumed by the map widget.
type Record struct {
	ID       int64    `json:"id"                 xml:"id,attr"`
	Lat      float64  `json:"lat"                xml:"lat,attr"`
	Lng      float64  `json:"lng"                xml:"lng,attr"`
	Name     string   `json:"name"               xml:"name,attr"`
	Address  string   `json:"address,omitempty"  xml:"address,attr,omitempty"`
	City     string   `json:"city,omitempty"     xml:"city,attr,omitempty"`
	State    string   `json:"state,omitempty"    xml:"state,attr,omitempty"`
	Postal   string   `json:"postal,omitempty"   xml:"postal,attr,omitempty"`
	Country  string   `json:"country,omitempty"  xml:"country,attr,omitempty"`
	Web      string   `json:"web,omitempty"      xml:"web,attr,omitempty"`
	Phone    string   `json:"phone,omitempty"    xml:"phone,attr,omitempty"`
	Email    string   `json:"email,omitempty"    xml:"email,attr,omitempty"`
	Category string   `json:"category,omitempty" xml:"category,attr,omitempty"`
	Featured bool     `json:"featured"           xml:"featured,attr"`
	Distance *float64 `json:"distance,omitempty" xml:"distance,attr,omitempty"`
}

// Document is the serializable feed.
type Document struct {
	XMLName   xml.Name `json:"-"         xml:"markers"`
	Locations []Record `json:"locations" xml:"marker"`
}

// Assemble converts placements into a feed document without filtering or reordering.
// categoryNames resolves category ids into the comma separated category attribute.
func Assemble(placements []models.Placement, categoryNames map[int64]string) Document {
	doc := Document{Locations: make([]Record, 0, len(placements))}

	for _, p := range placements {
		loc := p.Location
		doc.Locations = append(doc.Locations, Record{
			ID:       loc.ID,
			Lat:      loc.Lat,
			Lng:      loc.Lng,
			Name:     loc.Title,
			Address:  loc.Address,
			City:     loc.Suburb,
			State:    loc.State,
			Postal:   loc.Postcode,
			Country:  loc.Country,
			Web:      loc.Website,
			Phone:    loc.Phone,
			Email:    loc.Email,
			Category: joinCategories(loc.CategoryIDs, categoryNames),
			Featured: loc.Featured,
			Distance: p.Distance,
		})
	}

	return doc
}

func joinCategories(ids []int64, names map[int64]string) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			parts = append(parts, name)
		}
	}

	return strings.Join(parts, ", ")
}

// Encode writes the document in the given format.
func Encode(w io.Writer, doc Document, format Format) error {
	switch format {
	case FormatXML:
		if _, err := io.WriteString(w, xml.Header); err != nil {
			return fmt.Errorf("failed to write xml header: %w", err)
		}
		enc := xml.NewEncoder(w)
		enc.Indent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode xml feed: %w", err)
		}
		return nil
	case FormatJSON:
		if err := json.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("failed to encode json feed: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported feed format: %s", format)
	}
}
