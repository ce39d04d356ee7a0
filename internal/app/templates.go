package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gmb_agent/internal/domain"
)

// Templates holds the report content that does not depend on the data.
type Templates struct {
	SearchBaseURL      string                  `yaml:"search_base_url"`
	TargetTop          int                     `yaml:"target_top"`
	Objective6Months   string                  `yaml:"objective_6_months"`
	StrategicInsight   domain.StrategicInsight `yaml:"strategic_insight"`
	Actions            []domain.Action         `yaml:"actions"`
	UrgentRecoveryPlan string                  `yaml:"urgent_recovery_plan"`
	Goal               string                  `yaml:"goal"`
}

func DefaultTemplates() Templates {
	return Templates{
		SearchBaseURL:    "https://www.google.com/search?q=",
		TargetTop:        10,
		Objective6Months: "Top 10",
		StrategicInsight: domain.StrategicInsight{
			Headline:            "Ultra Premium vs Premium Prime: oportunidad real",
			WhatTheyValue:       []string{"Calidad Prime", "Frescura garantizada", "Servicio personalizado", "Precios justos"},
			WhatTheyDontMention: []string{"Wagyu", "Tomahawk", "Picaña"},
		},
		Actions: []domain.Action{
			{Priority: "alta", Title: "Subir MÁS fotografías", Description: "Curaduría completa: preparación, staff, productos, instalaciones.", Deliverable: "30+ fotos por ubicación"},
			{Priority: "alta", Title: "Campaña de Keywords", Description: "Optimizar señales y términos objetivo en el perfil.", Deliverable: "Keywords + ejecución"},
			{Priority: "media", Title: "Información Completa y Actualizada", Description: "Auditoría de horarios, descripción, servicios.", Deliverable: "Checklist 100%"},
			{Priority: "media", Title: "Plan de Respuesta a Reviews", Description: "Responder todas las reseñas en <24h.", Deliverable: "Protocolo + templates"},
		},
		UrgentRecoveryPlan: "Contacto personal + compensación + seguimiento para intentar edición/actualización de reseña",
		Goal:               "Convertir review negativo en positivo",
	}
}

// LoadTemplates overlays the YAML file at path on the defaults. Keys missing
// from the file keep their default value. An empty path returns the defaults.
func LoadTemplates(path string) (Templates, error) {
	t := DefaultTemplates()
	if path == "" {
		return t, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Templates{}, fmt.Errorf("read templates %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &t); err != nil {
		return Templates{}, fmt.Errorf("parse templates %s: %w", path, err)
	}
	return t, nil
}

// strategicInsight returns a copy so reports never share slices with the templates.
func (t Templates) strategicInsight() domain.StrategicInsight {
	return domain.StrategicInsight{
		Headline:            t.StrategicInsight.Headline,
		WhatTheyValue:       cloneStrings(t.StrategicInsight.WhatTheyValue),
		WhatTheyDontMention: cloneStrings(t.StrategicInsight.WhatTheyDontMention),
	}
}

func (t Templates) actions() []domain.Action {
	out := make([]domain.Action, len(t.Actions))
	copy(out, t.Actions)
	return out
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
