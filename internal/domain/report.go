package domain

// Roles assigned by position in the place list.
const (
	RoleClient     = "CLIENTE"
	RoleCompetitor = "Competencia"
)

type ProductMention struct {
	Product  string `json:"product"`
	Mentions int    `json:"mentions"`
}

// AnalysisResult is derived per place from its review sample and never stored.
type AnalysisResult struct {
	TopProducts         []ProductMention `json:"top_products"`
	FeaturedTestimonial string           `json:"featured_testimonial"`
	UrgentNegative      *Review          `json:"urgent_negative"`
}

type ComparisonEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Report is the output document. Every key is always present: slices are
// never nil and nothing is tagged omitempty.
type Report struct {
	SEOOptimization    SEOOptimization    `json:"seo_optimization"`
	CompetitiveReviews CompetitiveReviews `json:"competitive_reviews"`
	PlacesDetail       []PlaceReport      `json:"places_detail"`
	ComparisonTable    []ComparisonRow    `json:"comparison_table"`
	StrategicInsight   StrategicInsight   `json:"strategic_insight"`
	GMBPlan            GMBPlan            `json:"gmb_plan"`
}

type SEOOptimization struct {
	Query                    string `json:"query"`
	GoogleSearchURL          string `json:"google_search_url"`
	CurrentPosition          *int   `json:"current_position"`
	TargetTop                int    `json:"target_top"`
	Objective6Months         string `json:"objective_6_months"`
	PotentialClientsPerMonth int    `json:"potential_clients_per_month"`
	ProjectedAnnualRevenue   string `json:"projected_annual_revenue"`
}

type CompetitiveReviews struct {
	ReviewsAnalyzedTotal     int                 `json:"reviews_analyzed_total"`
	PremiumQualityComparison []ComparisonEntry   `json:"premium_quality_comparison"`
	ClientTopProducts        []ProductMention    `json:"client_top_products"`
	FeaturedTestimonial      FeaturedTestimonial `json:"featured_testimonial"`
}

type FeaturedTestimonial struct {
	Text        string `json:"text"`
	SourcePlace string `json:"source_place"`
}

type PlaceReport struct {
	Name         string           `json:"name"`
	Role         string           `json:"role"`
	Rating       *float64         `json:"rating"`
	ReviewsCount *int             `json:"reviews_count"`
	Strengths    []string         `json:"strengths"`
	Weaknesses   []string         `json:"weaknesses"`
	TopProducts  []ProductMention `json:"top_products"`
}

type ComparisonRow struct {
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	Stars        []string `json:"stars"`
	Summary      string   `json:"summary"`
	BestComment  string   `json:"best_comment"`
	WorstFinding string   `json:"worst_finding"`
}

type StrategicInsight struct {
	Headline            string   `json:"headline" yaml:"headline"`
	WhatTheyValue       []string `json:"what_they_value" yaml:"what_they_value"`
	WhatTheyDontMention []string `json:"what_they_dont_mention" yaml:"what_they_dont_mention"`
}

type GMBPlan struct {
	Actions        []Action       `json:"actions"`
	VIPOpportunity VIPOpportunity `json:"vip_opportunity"`
	UrgentRecovery UrgentRecovery `json:"urgent_recovery"`
	Goal           string         `json:"goal"`
}

type Action struct {
	Priority    string `json:"priority" yaml:"priority"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Deliverable string `json:"deliverable" yaml:"deliverable"`
}

type VIPOpportunity struct {
	Reviewer     string `json:"reviewer"`
	Profile      string `json:"profile"`
	Situation    string `json:"situation"`
	Strategy     string `json:"strategy"`
	WhyItMatters string `json:"why_it_matters"`
}

type UrgentRecovery struct {
	Reviewer          string   `json:"reviewer"`
	Problem           string   `json:"problem"`
	Plan              string   `json:"plan"`
	RelatedComplaints []string `json:"related_complaints"`
}
