package google

import "gmb_agent/internal/domain"

// statusCarrier is implemented by every Maps web-service envelope.
type statusCarrier interface {
	apiStatus() string
	apiError() string
}

type envelope struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

func (e *envelope) apiStatus() string { return e.Status }
func (e *envelope) apiError() string  { return e.ErrorMessage }

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Geometry struct {
	Location Location `json:"location"`
}

type geocodeResponse struct {
	envelope
	Results []struct {
		FormattedAddress string   `json:"formatted_address"`
		Geometry         Geometry `json:"geometry"`
	} `json:"results"`
}

type textSearchResponse struct {
	envelope
	NextPageToken string `json:"next_page_token"`
	Results       []struct {
		PlaceID          string `json:"place_id"`
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
}

type autocompleteResponse struct {
	envelope
	Predictions []struct {
		Description string `json:"description"`
		PlaceID     string `json:"place_id"`
	} `json:"predictions"`
}

type detailsResponse struct {
	envelope
	Result *placeResult `json:"result"`
}

type placeResult struct {
	Name             string         `json:"name"`
	Rating           *float64       `json:"rating,omitempty"`
	UserRatingsTotal *int           `json:"user_ratings_total,omitempty"`
	Types            []string       `json:"types"`
	FormattedAddress string         `json:"formatted_address"`
	URL              *string        `json:"url,omitempty"`
	Reviews          []reviewResult `json:"reviews"`
}

type reviewResult struct {
	AuthorName              string   `json:"author_name"`
	AuthorURL               string   `json:"author_url"`
	Language                string   `json:"language"`
	Rating                  *float64 `json:"rating"`
	RelativeTimeDescription string   `json:"relative_time_description"`
	Text                    string   `json:"text"`
	Time                    int64    `json:"time"`
}

func (p *placeResult) toDomain(placeID string) domain.PlaceDetail {
	reviews := make([]domain.Review, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		reviews = append(reviews, domain.Review{
			Text:                    r.Text,
			Rating:                  r.Rating,
			RelativeTimeDescription: r.RelativeTimeDescription,
			AuthorName:              r.AuthorName,
		})
	}
	return domain.PlaceDetail{
		PlaceID:      placeID,
		Name:         p.Name,
		Rating:       p.Rating,
		ReviewsCount: p.UserRatingsTotal,
		Address:      p.FormattedAddress,
		MapsURL:      p.URL,
		Reviews:      reviews,
	}
}
