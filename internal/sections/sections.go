// Package sections defines the typed variants stored in a record's sections
// map. The store persists sections as JSON; these types give callers a
// compile-time view of each known shape.
package sections

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/goliatone/go-site-cms/internal/validation"
)

// Section names as they appear in a record's sections map.
const (
	NameHero            = "heroSection"
	NameProblemSolution = "problemSolution"
	NameFeatures        = "featuresSection"
	NameStatistics      = "statisticsSection"
	NameTestimonials    = "testimonialsSection"
	NameCTA             = "ctaSection"
	NamePricing         = "pricingSection"
	NameRequirements    = "requirements"
	NameBenefits        = "benefits"
)

// Section is implemented by every typed section variant.
type Section interface {
	SectionName() string
}

// Link is a labelled target used by heroes and calls to action.
type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

type Hero struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Image    string `json:"image,omitempty"`
	CTA      *Link  `json:"cta,omitempty"`
}

func (Hero) SectionName() string { return NameHero }

type ProblemSolution struct {
	Problem    string   `json:"problem"`
	Solution   string   `json:"solution"`
	Highlights []string `json:"highlights,omitempty"`
}

func (ProblemSolution) SectionName() string { return NameProblemSolution }

type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

type Features struct {
	Title string    `json:"title,omitempty"`
	Items []Feature `json:"items"`
}

func (Features) SectionName() string { return NameFeatures }

type Statistic struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Statistics struct {
	Title string      `json:"title,omitempty"`
	Items []Statistic `json:"items"`
}

func (Statistics) SectionName() string { return NameStatistics }

type Testimonial struct {
	Quote   string `json:"quote"`
	Author  string `json:"author"`
	Role    string `json:"role,omitempty"`
	Company string `json:"company,omitempty"`
	Avatar  string `json:"avatar,omitempty"`
}

type Testimonials struct {
	Title string        `json:"title,omitempty"`
	Items []Testimonial `json:"items"`
}

func (Testimonials) SectionName() string { return NameTestimonials }

type CTA struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Button      *Link  `json:"button,omitempty"`
}

func (CTA) SectionName() string { return NameCTA }

type PricingPlan struct {
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Period      string   `json:"period,omitempty"`
	Features    []string `json:"features,omitempty"`
	Highlighted bool     `json:"highlighted,omitempty"`
}

type Pricing struct {
	Title string        `json:"title,omitempty"`
	Plans []PricingPlan `json:"plans"`
}

func (Pricing) SectionName() string { return NamePricing }

type Requirements struct {
	Items []string `json:"items"`
}

func (Requirements) SectionName() string { return NameRequirements }

type Benefits struct {
	Items []string `json:"items"`
}

func (Benefits) SectionName() string { return NameBenefits }

// Decode reads the section stored under name into T. The boolean is false
// when the section is absent.
func Decode[T Section](values map[string]any, name string) (T, bool, error) {
	var out T
	raw, ok := values[name]
	if !ok || raw == nil {
		return out, false, nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return out, true, fmt.Errorf("sections: encode %s: %w", name, err)
	}
	if err := json.Unmarshal(encoded, &out); err != nil {
		return out, true, fmt.Errorf("sections: decode %s: %w", name, err)
	}
	return out, true, nil
}

// Encode converts a typed section into the generic JSON shape persisted by
// the store.
func Encode(section Section) (any, error) {
	if section == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(section)
	if err != nil {
		return nil, fmt.Errorf("sections: encode %s: %w", section.SectionName(), err)
	}
	var out any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, fmt.Errorf("sections: encode %s: %w", section.SectionName(), err)
	}
	return out, nil
}

// Build encodes each typed section into a sections map keyed by name.
func Build(values ...Section) (map[string]any, error) {
	out := make(map[string]any, len(values))
	for _, value := range values {
		if value == nil {
			continue
		}
		encoded, err := Encode(value)
		if err != nil {
			return nil, err
		}
		out[value.SectionName()] = encoded
	}
	return out, nil
}

// Schema returns the JSON schema enforced for the named section, or nil for
// names this package does not know.
func Schema(name string) *validation.Schema {
	return schemas[name]
}

// Names lists every known section name in sorted order.
func Names() []string {
	out := make([]string, 0, len(schemas))
	for name := range schemas {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
