package validation

import (
	"errors"
	"testing"
)

func TestCompileEmptySchemaAcceptsEverything(t *testing.T) {
	schema, err := Compile(nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if err := schema.Validate(map[string]any{"anything": []int{1, 2}}); err != nil {
		t.Fatalf("expected nil schema to accept value, got %v", err)
	}
}

func TestSchemaValidateReportsIssues(t *testing.T) {
	schema := MustCompile(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
			"items": map[string]any{"type": "array"},
		},
		"required": []any{"title"},
	})

	err := schema.Validate(map[string]any{"items": "not-an-array"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	if issues := Issues(err); len(issues) < 2 {
		t.Fatalf("expected at least two issues, got %+v", issues)
	}
}

func TestSchemaValidateNormalizesGoValues(t *testing.T) {
	type stat struct {
		Value int    `json:"value"`
		Label string `json:"label"`
	}
	schema := MustCompile(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"value": map[string]any{"type": "integer"},
			"label": map[string]any{"type": "string"},
		},
	})
	if err := schema.Validate(stat{Value: 42, Label: "uptime"}); err != nil {
		t.Fatalf("expected struct value to validate, got %v", err)
	}
}

func TestCompileRejectsBrokenSchema(t *testing.T) {
	if _, err := Compile(map[string]any{"type": 123}); !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestIsJSONCompatible(t *testing.T) {
	if !IsJSONCompatible(map[string]any{"a": []any{1, "b", nil}}) {
		t.Fatal("expected plain JSON value to be compatible")
	}
	if IsJSONCompatible(map[string]any{"fn": func() {}}) {
		t.Fatal("expected function value to be rejected")
	}
}
