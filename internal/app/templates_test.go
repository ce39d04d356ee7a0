package app_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gmb_agent/internal/app"
	"gmb_agent/internal/domain"
)

func TestLoadTemplates_EmptyPathIsDefault(t *testing.T) {
	got, err := app.LoadTemplates("")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !reflect.DeepEqual(got, app.DefaultTemplates()) {
		t.Fatalf("expected defaults")
	}
	if len(got.Actions) != 4 || got.TargetTop != 10 || got.Objective6Months != "Top 10" {
		t.Fatalf("unexpected defaults: %+v", got)
	}
}

func TestLoadTemplates_OverlaysYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	body := `
goal: Responder cada reseña negativa en 24h
actions:
  - priority: alta
    title: Fotos nuevas
    description: Sesión mensual
    deliverable: 10 fotos
strategic_insight:
  headline: Otro titular
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := app.LoadTemplates(path)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	def := app.DefaultTemplates()
	if got.Goal != "Responder cada reseña negativa en 24h" || len(got.Actions) != 1 || got.Actions[0].Deliverable != "10 fotos" {
		t.Fatalf("overlay not applied: %+v", got)
	}
	if got.StrategicInsight.Headline != "Otro titular" {
		t.Fatalf("headline: %s", got.StrategicInsight.Headline)
	}
	if got.UrgentRecoveryPlan != def.UrgentRecoveryPlan || got.SearchBaseURL != def.SearchBaseURL {
		t.Fatalf("missing keys must keep defaults: %+v", got)
	}

	r := app.NewComposer(got).Compose("k", "l", "L", []domain.PlaceDetail{place("a", 4, 1)})
	if r.GMBPlan.Goal != got.Goal || r.GMBPlan.Actions[0].Title != "Fotos nuevas" {
		t.Fatalf("composer must use injected templates: %+v", r.GMBPlan)
	}
}

func TestLoadTemplates_Errors(t *testing.T) {
	if _, err := app.LoadTemplates(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	_ = os.WriteFile(bad, []byte("actions: [unclosed"), 0o644)
	if _, err := app.LoadTemplates(bad); err == nil {
		t.Fatalf("expected parse error")
	}
}
