package content

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/goliatone/go-site-cms/internal/sections"
	"github.com/goliatone/go-site-cms/internal/validation"
)

// Built-in content type names.
const (
	TypeProject = "project"
	TypeProduct = "product"
	TypePost    = "post"
	TypeJob     = "job"
	TypePage    = "page"
)

var ErrTypeNameRequired = errors.New("content: type name is required")

// TypeDefinition describes a content type: which fields must be present and
// which sections a record may carry.
type TypeDefinition struct {
	Name           string             `json:"name"`
	Label          string             `json:"label"`
	RequiredFields []string           `json:"required_fields"`
	Sections       []string           `json:"sections"`
	FieldSchema    *validation.Schema `json:"-"`
}

// AllowsSection reports whether records of this type may store name.
func (d TypeDefinition) AllowsSection(name string) bool {
	return slices.Contains(d.Sections, name)
}

// Registry holds the known content types.
type Registry struct {
	mu    sync.RWMutex
	types map[string]TypeDefinition
}

// NewRegistry builds a registry from defs. It panics on invalid definitions
// since they are programmer supplied.
func NewRegistry(defs ...TypeDefinition) *Registry {
	r := &Registry{types: make(map[string]TypeDefinition, len(defs))}
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
	return r
}

// DefaultRegistry returns a registry holding the built-in site types.
func DefaultRegistry() *Registry {
	return NewRegistry(BuiltinTypes()...)
}

// Register adds or replaces a type definition.
func (r *Registry) Register(def TypeDefinition) error {
	def.Name = normalizeType(def.Name)
	if def.Name == "" {
		return ErrTypeNameRequired
	}
	for _, name := range def.Sections {
		if sections.Schema(name) == nil {
			return fmt.Errorf("content: type %s references unknown section %q", def.Name, name)
		}
	}
	if def.Label == "" {
		def.Label = def.Name
	}
	def.RequiredFields = slices.Clone(def.RequiredFields)
	def.Sections = slices.Clone(def.Sections)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[def.Name] = def
	return nil
}

// Lookup returns the definition for name.
func (r *Registry) Lookup(name string) (TypeDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.types[normalizeType(name)]
	return def, ok
}

// Definitions lists every registered type ordered by name.
func (r *Registry) Definitions() []TypeDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TypeDefinition, 0, len(r.types))
	for _, def := range r.types {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// BuiltinTypes returns the definitions of the types every site ships with.
func BuiltinTypes() []TypeDefinition {
	return []TypeDefinition{
		{
			Name:           TypeProject,
			Label:          "Projects",
			RequiredFields: []string{"title", "description", "fullDesc", "previewImage"},
			Sections: []string{
				sections.NameHero,
				sections.NameProblemSolution,
				sections.NameFeatures,
				sections.NameStatistics,
				sections.NameTestimonials,
				sections.NameCTA,
			},
			FieldSchema: fieldSchema(map[string]any{
				"title":        stringProp,
				"description":  stringProp,
				"fullDesc":     stringProp,
				"previewImage": stringProp,
				"client":       stringProp,
				"category":     stringProp,
				"technologies": stringListProp,
				"link":         stringProp,
			}),
		},
		{
			Name:           TypeProduct,
			Label:          "Products",
			RequiredFields: []string{"title", "description", "image"},
			Sections: []string{
				sections.NameHero,
				sections.NameFeatures,
				sections.NamePricing,
				sections.NameTestimonials,
				sections.NameCTA,
			},
			FieldSchema: fieldSchema(map[string]any{
				"title":       stringProp,
				"description": stringProp,
				"image":       stringProp,
				"category":    stringProp,
				"price":       map[string]any{"type": []any{"string", "number"}},
			}),
		},
		{
			Name:           TypePost,
			Label:          "Blog posts",
			RequiredFields: []string{"title", "excerpt", "body"},
			FieldSchema: fieldSchema(map[string]any{
				"title":       stringProp,
				"excerpt":     stringProp,
				"body":        stringProp,
				"bodyHtml":    stringProp,
				"author":      stringProp,
				"coverImage":  stringProp,
				"publishedAt": stringProp,
				"tags":        stringListProp,
			}),
		},
		{
			Name:           TypeJob,
			Label:          "Job listings",
			RequiredFields: []string{"title", "department", "location", "employmentType", "description"},
			Sections: []string{
				sections.NameRequirements,
				sections.NameBenefits,
			},
			FieldSchema: fieldSchema(map[string]any{
				"title":          stringProp,
				"department":     stringProp,
				"location":       stringProp,
				"employmentType": stringProp,
				"description":    stringProp,
				"salary":         stringProp,
			}),
		},
		{
			Name:           TypePage,
			Label:          "Pages",
			RequiredFields: []string{"title"},
			Sections: []string{
				sections.NameHero,
				sections.NameFeatures,
				sections.NameCTA,
			},
			FieldSchema: fieldSchema(map[string]any{
				"title":       stringProp,
				"description": stringProp,
			}),
		},
	}
}

var (
	stringProp     = map[string]any{"type": "string"}
	stringListProp = map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
)

func fieldSchema(props map[string]any) *validation.Schema {
	return validation.MustCompile(map[string]any{
		"type":       "object",
		"properties": props,
	})
}
