package sections

import "github.com/goliatone/go-site-cms/internal/validation"

func str() map[string]any { return map[string]any{"type": "string"} }

func stringList() map[string]any {
	return map[string]any{"type": "array", "items": str()}
}

func object(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		req := make([]any, len(required))
		for i, name := range required {
			req[i] = name
		}
		schema["required"] = req
	}
	return schema
}

func list(item map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": item}
}

var link = object(map[string]any{"label": str(), "href": str()})

var schemas = map[string]*validation.Schema{
	NameHero: validation.MustCompile(object(map[string]any{
		"title":    str(),
		"subtitle": str(),
		"image":    str(),
		"cta":      link,
	})),
	NameProblemSolution: validation.MustCompile(object(map[string]any{
		"problem":    str(),
		"solution":   str(),
		"highlights": stringList(),
	})),
	NameFeatures: validation.MustCompile(object(map[string]any{
		"title": str(),
		"items": list(object(map[string]any{
			"title":       str(),
			"description": str(),
			"icon":        str(),
		}, "title")),
	})),
	NameStatistics: validation.MustCompile(object(map[string]any{
		"title": str(),
		"items": list(object(map[string]any{
			"value": map[string]any{"type": []any{"string", "number"}},
			"label": str(),
		}, "value", "label")),
	})),
	NameTestimonials: validation.MustCompile(object(map[string]any{
		"title": str(),
		"items": list(object(map[string]any{
			"quote":   str(),
			"author":  str(),
			"role":    str(),
			"company": str(),
			"avatar":  str(),
		}, "quote", "author")),
	})),
	NameCTA: validation.MustCompile(object(map[string]any{
		"title":       str(),
		"description": str(),
		"button":      link,
	})),
	NamePricing: validation.MustCompile(object(map[string]any{
		"title": str(),
		"plans": list(object(map[string]any{
			"name":        str(),
			"price":       str(),
			"period":      str(),
			"features":    stringList(),
			"highlighted": map[string]any{"type": "boolean"},
		}, "name", "price")),
	})),
	NameRequirements: validation.MustCompile(object(map[string]any{"items": stringList()})),
	NameBenefits:     validation.MustCompile(object(map[string]any{"items": stringList()})),
}
