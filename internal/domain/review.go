package domain

// Review is one public review as returned by the place-details source.
// A nil Rating is treated as 0 everywhere it is compared.
type Review struct {
	Text                    string   `json:"text"`
	Rating                  *float64 `json:"rating"`
	RelativeTimeDescription string   `json:"relative_time_description"`
	AuthorName              string   `json:"author_name"`
}

// RatingOrZero returns the review rating, or 0 when it is absent.
func (r Review) RatingOrZero() float64 {
	if r.Rating == nil {
		return 0
	}
	return *r.Rating
}
