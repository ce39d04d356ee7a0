package app

import (
	"net/url"

	"gmb_agent/internal/domain"
)

const (
	comparisonLimit = 6
	starsLimit      = 4
	clientPosition  = 1
)

// Composer fills the fixed report template from per-place analysis.
type Composer struct {
	tpl Templates
}

func NewComposer(t Templates) *Composer {
	return &Composer{tpl: t}
}

// Compose builds the report for a keyword/location run. places[0] is always
// the client; everything after it is a competitor.
func (c *Composer) Compose(keyword, locationText, formattedLocation string, places []domain.PlaceDetail) domain.Report {
	seo := domain.SEOOptimization{
		Query:                    keyword + " | " + formattedLocation,
		GoogleSearchURL:          c.tpl.SearchBaseURL + url.QueryEscape(keyword+" "+locationText),
		TargetTop:                c.tpl.TargetTop,
		Objective6Months:         c.tpl.Objective6Months,
		PotentialClientsPerMonth: 0,
		ProjectedAnnualRevenue:   "",
	}

	if len(places) == 0 {
		return domain.Report{
			SEOOptimization: seo,
			CompetitiveReviews: domain.CompetitiveReviews{
				PremiumQualityComparison: []domain.ComparisonEntry{},
				ClientTopProducts:        []domain.ProductMention{},
			},
			PlacesDetail:     []domain.PlaceReport{},
			ComparisonTable:  []domain.ComparisonRow{},
			StrategicInsight: c.tpl.strategicInsight(),
			GMBPlan: domain.GMBPlan{
				Actions:        []domain.Action{},
				UrgentRecovery: domain.UrgentRecovery{RelatedComplaints: []string{}},
				Goal:           c.tpl.Goal,
			},
		}
	}

	client := places[0]
	clientA := AnalyzeReviews(client.Reviews)

	pos := clientPosition
	seo.CurrentPosition = &pos

	comp := ScorePlaces(places)
	if len(comp) > comparisonLimit {
		comp = comp[:comparisonLimit]
	}

	recovery := domain.UrgentRecovery{
		Plan:              c.tpl.UrgentRecoveryPlan,
		RelatedComplaints: []string{},
	}
	if u := clientA.UrgentNegative; u != nil {
		recovery.Reviewer = u.AuthorName
		recovery.Problem = u.Text
	}

	report := domain.Report{
		SEOOptimization: seo,
		CompetitiveReviews: domain.CompetitiveReviews{
			ReviewsAnalyzedTotal:     totalReviews(places),
			PremiumQualityComparison: comp,
			ClientTopProducts:        clientA.TopProducts,
			FeaturedTestimonial: domain.FeaturedTestimonial{
				Text:        clientA.FeaturedTestimonial,
				SourcePlace: client.Name,
			},
		},
		PlacesDetail:     make([]domain.PlaceReport, 0, len(places)),
		ComparisonTable:  make([]domain.ComparisonRow, 0, len(places)),
		StrategicInsight: c.tpl.strategicInsight(),
		GMBPlan: domain.GMBPlan{
			Actions:        c.tpl.actions(),
			UrgentRecovery: recovery,
			Goal:           c.tpl.Goal,
		},
	}

	for i, p := range places {
		a := AnalyzeReviews(p.Reviews)
		role := roleFor(i)

		report.PlacesDetail = append(report.PlacesDetail, domain.PlaceReport{
			Name:         p.Name,
			Role:         role,
			Rating:       p.Rating,
			ReviewsCount: p.ReviewsCount,
			Strengths:    []string{},
			Weaknesses:   []string{},
			TopProducts:  a.TopProducts,
		})
		report.ComparisonTable = append(report.ComparisonTable, domain.ComparisonRow{
			Name:        p.Name,
			Role:        role,
			Stars:       stars(a.TopProducts),
			BestComment: a.FeaturedTestimonial,
		})
	}

	return report
}

func roleFor(i int) string {
	if i == 0 {
		return domain.RoleClient
	}
	return domain.RoleCompetitor
}

func totalReviews(places []domain.PlaceDetail) int {
	n := 0
	for _, p := range places {
		n += len(p.Reviews)
	}
	return n
}

func stars(products []domain.ProductMention) []string {
	n := min(len(products), starsLimit)
	out := make([]string, 0, n)
	for _, pm := range products[:n] {
		out = append(out, pm.Product)
	}
	return out
}
