package service

import "github.com/UnknownOlympus/locator/internal/locator"

const (
	searchFormID     = "Form_LocationSearch"
	searchInputID    = "Form_LocationSearch_address"
	searchCategoryID = "Form_LocationSearch_category"
	noDistanceAlert  = -1
	unlimitedStores  = -1 // the widget reads 0 as "show none"
	defaultZoomLevel = 0
)

// Settings is the option set the map widget is started with.
type Settings struct {
	AutoGeocode       bool   `json:"autoGeocode"`
	FullMapStart      bool   `json:"fullMapStart"`
	StoreLimit        int    `json:"storeLimit"`
	MaxDistance       bool   `json:"maxDistance"`
	ModalWindow       bool   `json:"modalWindow"`
	FeaturedLocations bool   `json:"featuredLocations"`
	LengthUnit        string `json:"lengthUnit"`
	DataLocation      string `json:"dataLocation"`
	DataType          string `json:"dataType"`
	MapsAPIKey        string `json:"mapsApiKey,omitempty"`
	OriginMarker      bool   `json:"originMarker"`
	SlideMap          bool   `json:"slideMap"`
	ZoomLevel         int    `json:"zoomLevel"`
	DistanceAlert     int    `json:"distanceAlert"`
	FormID            string `json:"formID"`
	InputID           string `json:"inputID"`
	CategoryID        string `json:"categoryID"`
	HasLocations      bool   `json:"hasLocations"` // HasLocations is false when the widget has nothing to show.
}

func newSettings(eval locator.Evaluation, dataLocation, mapsAPIKey string, hasLocations bool) Settings {
	storeLimit := eval.StoreLimit
	if storeLimit <= 0 {
		storeLimit = unlimitedStores
	}

	return Settings{
		AutoGeocode:       eval.AutoGeocode,
		FullMapStart:      eval.Mode == locator.ModeFullList,
		StoreLimit:        storeLimit,
		MaxDistance:       eval.MaxDistance,
		ModalWindow:       eval.Display == locator.DisplayModal,
		FeaturedLocations: eval.FeaturedLocations,
		LengthUnit:        eval.LengthUnit,
		DataLocation:      dataLocation,
		DataType:          "xml",
		MapsAPIKey:        mapsAPIKey,
		OriginMarker:      true,
		ZoomLevel:         defaultZoomLevel,
		DistanceAlert:     noDistanceAlert,
		FormID:            searchFormID,
		InputID:           searchInputID,
		CategoryID:        searchCategoryID,
		HasLocations:      hasLocations,
	}
}
