package domain

// PlaceSummary is a text-search hit before details are fetched.
type PlaceSummary struct {
	PlaceID          string `json:"place_id"`
	Name             string `json:"name"`
	FormattedAddress string `json:"formatted_address"`
}

// PlaceDetail carries listing metadata plus a sample of reviews (not the full set).
// Error is filled by the pipeline when details could not be fetched; analysis ignores it.
type PlaceDetail struct {
	PlaceID      string   `json:"place_id"`
	Name         string   `json:"name"`
	Rating       *float64 `json:"rating"`
	ReviewsCount *int     `json:"reviews_count"`
	Address      string   `json:"address"`
	MapsURL      *string  `json:"maps_url"`
	Reviews      []Review `json:"reviews"`
	Error        string   `json:"error,omitempty"`
}

func (p PlaceDetail) RatingOrZero() float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

func (p PlaceDetail) ReviewsCountOrZero() int {
	if p.ReviewsCount == nil {
		return 0
	}
	return *p.ReviewsCount
}

// FallbackPlace builds the record used when details for a search hit failed.
func FallbackPlace(s PlaceSummary, err error) PlaceDetail {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return PlaceDetail{
		PlaceID: s.PlaceID,
		Name:    s.Name,
		Address: s.FormattedAddress,
		Reviews: []Review{},
		Error:   msg,
	}
}

type GeoPoint struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formatted_address"`
}

type Center struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RawDocument is the unprocessed snapshot emitted next to the report.
type RawDocument struct {
	Keyword           string        `json:"keyword"`
	LocationText      string        `json:"location_text"`
	FormattedLocation string        `json:"formatted_location"`
	Center            Center        `json:"center"`
	RadiusM           int           `json:"radius_m"`
	TopN              int           `json:"top_n"`
	Places            []PlaceDetail `json:"places"`
}
