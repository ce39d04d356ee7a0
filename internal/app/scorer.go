package app

import (
	"math"
	"sort"

	"gmb_agent/internal/domain"
)

const reviewVolumeCap = 20.0

// ScorePlaces ranks places by rating*10 plus a capped review-volume bonus.
// Equal scores keep input order.
func ScorePlaces(places []domain.PlaceDetail) []domain.ComparisonEntry {
	out := make([]domain.ComparisonEntry, 0, len(places))
	for _, p := range places {
		out = append(out, domain.ComparisonEntry{Name: p.Name, Score: placeScore(p)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func placeScore(p domain.PlaceDetail) int {
	volume := math.Min(reviewVolumeCap, math.Sqrt(float64(max(p.ReviewsCountOrZero(), 0))))
	return int(math.RoundToEven(p.RatingOrZero()*10 + volume))
}
