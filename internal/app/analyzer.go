package app

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/rs/zerolog/log"

	"gmb_agent/internal/domain"
)

// ProductTerms is the fixed vocabulary searched in review text. Order matters:
// equal mention counts keep this order in the ranking.
var ProductTerms = []string{
	"fajitas", "fajita", "chorizo", "tacos", "al pastor", "pastor", "tamales",
	"barbacoa", "menudo", "carnitas", "ribeye", "wagyu", "tomahawk", "picaña",
	"bbq", "sausage", "brisket", "seafood", "shrimp", "camarón",
	"tuétano", "bone marrow",
}

// RecencyMarkers are matched as plain substrings of the relative time phrase,
// so any word containing them counts.
var RecencyMarkers = []string{"day", "día", "días", "dias", "week", "semana"}

const (
	topProductsLimit = 5
	negativeRating   = 2.0
)

type termPattern struct {
	term string
	re   *regexp2.Regexp
}

// stdlib regexp only knows ASCII word boundaries, which would never match
// "camarón" or "picaña"; regexp2 uses Unicode word classes for \b.
var termPatterns = compileTerms(ProductTerms)

func compileTerms(terms []string) []termPattern {
	out := make([]termPattern, 0, len(terms))
	for _, t := range terms {
		lt := strings.ToLower(t)
		out = append(out, termPattern{
			term: t,
			re:   regexp2.MustCompile(`\b`+regexp2.Escape(lt)+`\b`, regexp2.None),
		})
	}
	return out
}

// AnalyzeReviews derives product mentions, the featured testimonial and the
// first recent low-rated review from one place's review sample.
func AnalyzeReviews(reviews []domain.Review) domain.AnalysisResult {
	return domain.AnalysisResult{
		TopProducts:         topProducts(reviewBlob(reviews)),
		FeaturedTestimonial: featuredTestimonial(reviews),
		UrgentNegative:      urgentNegative(reviews),
	}
}

func reviewBlob(reviews []domain.Review) string {
	texts := make([]string, 0, len(reviews))
	for _, r := range reviews {
		if t := strings.TrimSpace(r.Text); t != "" {
			texts = append(texts, strings.ToLower(t))
		}
	}
	return strings.Join(texts, " ")
}

func topProducts(blob string) []domain.ProductMention {
	out := make([]domain.ProductMention, 0, topProductsLimit)
	if blob == "" {
		return out
	}
	for _, tp := range termPatterns {
		if n := countMatches(tp.re, blob); n > 0 {
			out = append(out, domain.ProductMention{Product: tp.term, Mentions: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Mentions > out[j].Mentions })
	if len(out) > topProductsLimit {
		out = out[:topProductsLimit]
	}
	return out
}

func countMatches(re *regexp2.Regexp, s string) int {
	n := 0
	m, err := re.FindStringMatch(s)
	for m != nil && err == nil {
		n++
		m, err = re.FindNextMatch(m)
	}
	if err != nil {
		log.Warn().Err(err).Str("pattern", re.String()).Msg("term match aborted")
	}
	return n
}

// featuredTestimonial picks the longest text; the first of equal-length texts wins.
func featuredTestimonial(reviews []domain.Review) string {
	best, bestLen := "", -1
	for _, r := range reviews {
		if n := utf8.RuneCountInString(r.Text); n > bestLen {
			best, bestLen = r.Text, n
		}
	}
	return best
}

func urgentNegative(reviews []domain.Review) *domain.Review {
	for i := range reviews {
		r := reviews[i]
		if r.RatingOrZero() > negativeRating {
			continue
		}
		if isRecent(r.RelativeTimeDescription) {
			return &r
		}
	}
	return nil
}

func isRecent(phrase string) bool {
	p := strings.ToLower(phrase)
	for _, m := range RecencyMarkers {
		if strings.Contains(p, m) {
			return true
		}
	}
	return false
}
