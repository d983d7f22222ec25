package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-site-cms/internal/identity"
	"github.com/goliatone/go-site-cms/internal/logging"
	"github.com/goliatone/go-site-cms/internal/sections"
	cmsvalidation "github.com/goliatone/go-site-cms/internal/validation"
	"github.com/goliatone/go-site-cms/pkg/interfaces"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

// Service exposes the content store use-cases.
type Service interface {
	List(ctx context.Context, contentType string, filter ListFilter) ([]*Record, error)
	GetByID(ctx context.Context, contentType string, id uuid.UUID) (*Record, error)
	GetBySlug(ctx context.Context, contentType, slug string) (*Record, error)
	GetByKey(ctx context.Context, contentType, key string) (*Record, error)
	Create(ctx context.Context, req CreateRequest) (*Record, error)
	Upsert(ctx context.Context, req UpsertRequest) (*Record, error)
	Update(ctx context.Context, req UpdateRequest) (*Record, error)
	ChangeSlug(ctx context.Context, req ChangeSlugRequest) (*Record, error)
	Delete(ctx context.Context, contentType, key string) error
	Types() []TypeDefinition
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// IDGenerator produces record identifiers.
type IDGenerator func() uuid.UUID

func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithRegistry replaces the built-in content types.
func WithRegistry(registry *Registry) ServiceOption {
	return func(s *service) {
		if registry != nil {
			s.registry = registry
		}
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	records  Repository
	registry *Registry
	now      func() time.Time
	id       IDGenerator
	logger   interfaces.Logger
}

// NewService constructs a content service backed by records.
func NewService(records Repository, opts ...ServiceOption) Service {
	s := &service{
		records:  records,
		registry: DefaultRegistry(),
		now:      time.Now,
		id:       uuid.New,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Types() []TypeDefinition {
	return s.registry.Definitions()
}

func (s *service) List(ctx context.Context, contentType string, filter ListFilter) ([]*Record, error) {
	def, err := s.resolveType(contentType)
	if err != nil {
		return nil, err
	}
	return s.records.List(ctx, def.Name, filter)
}

func (s *service) GetByID(ctx context.Context, contentType string, id uuid.UUID) (*Record, error) {
	def, err := s.resolveType(contentType)
	if err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		return nil, invalidField("id", "required", "id is required")
	}
	return s.records.GetByID(ctx, def.Name, id)
}

func (s *service) GetBySlug(ctx context.Context, contentType, slugValue string) (*Record, error) {
	def, err := s.resolveType(contentType)
	if err != nil {
		return nil, err
	}
	if slugValue == "" {
		return nil, invalidField("slug", "required", "slug is required")
	}
	return s.records.GetBySlug(ctx, def.Name, slugValue)
}

// GetByKey resolves key as an id when it parses as one and falls back to a
// slug lookup otherwise.
func (s *service) GetByKey(ctx context.Context, contentType, key string) (*Record, error) {
	def, err := s.resolveType(contentType)
	if err != nil {
		return nil, err
	}
	return s.lookup(ctx, def.Name, key)
}

func (s *service) lookup(ctx context.Context, contentType, key string) (*Record, error) {
	if key == "" {
		return nil, invalidField("key", "required", "key is required")
	}
	if id, err := uuid.Parse(key); err == nil {
		record, err := s.records.GetByID(ctx, contentType, id)
		if err == nil || !errors.Is(err, ErrNotFound) {
			return record, err
		}
	}
	return s.records.GetBySlug(ctx, contentType, key)
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Record, error) {
	def, err := s.resolveType(req.ContentType)
	if err != nil {
		return nil, err
	}
	slugValue := strings.TrimSpace(req.Slug)
	if err := s.validate(def, slugValue, req.Fields, req.Sections); err != nil {
		return nil, err
	}

	id := req.ID
	if id == uuid.Nil && req.ExternalID != "" {
		id = identity.RecordUUID(def.Name, req.ExternalID)
	}
	if id == uuid.Nil {
		id = s.id()
	}

	now := s.stamp(time.Time{})
	record := &Record{
		ID:          id,
		ContentType: def.Name,
		Slug:        slugValue,
		IsActive:    boolOr(req.IsActive, true),
		Fields:      normalizeMap(req.Fields),
		Sections:    normalizeMap(req.Sections),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	logger := logging.WithRecord(s.logger, def.Name, slugValue)
	created, err := s.records.Create(ctx, record)
	if err != nil {
		logger.Warn("content.create.failed", "error", err, "kind", KindOf(err))
		return nil, err
	}
	logger.Info("content.create", "id", created.ID)
	return created, nil
}

// Upsert creates the record when no match exists and fully replaces it
// otherwise. The match is made on id when the request carries one and on
// slug otherwise.
func (s *service) Upsert(ctx context.Context, req UpsertRequest) (*Record, error) {
	def, err := s.resolveType(req.ContentType)
	if err != nil {
		return nil, err
	}
	slugValue := strings.TrimSpace(req.Slug)
	if err := s.validate(def, slugValue, req.Fields, req.Sections); err != nil {
		return nil, err
	}

	id := req.ID
	if id == uuid.Nil && req.ExternalID != "" {
		id = identity.RecordUUID(def.Name, req.ExternalID)
	}

	existing, err := s.findForUpsert(ctx, def.Name, id, slugValue)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if err := checkSlugUnchanged(existing, slugValue); err != nil {
			return nil, err
		}
		return s.replace(ctx, existing, slugValue, req.IsActive, req.Fields, req.Sections)
	}

	created, err := s.Create(ctx, CreateRequest{
		ContentType: def.Name,
		Slug:        slugValue,
		ID:          id,
		IsActive:    req.IsActive,
		Fields:      req.Fields,
		Sections:    req.Sections,
	})
	if err == nil || !errors.Is(err, ErrConflict) {
		return created, err
	}

	// A concurrent writer created the record first; the write becomes an update.
	existing, findErr := s.findForUpsert(ctx, def.Name, id, slugValue)
	if findErr != nil {
		return nil, err
	}
	if err := checkSlugUnchanged(existing, slugValue); err != nil {
		return nil, err
	}
	return s.replace(ctx, existing, slugValue, req.IsActive, req.Fields, req.Sections)
}

func (s *service) findForUpsert(ctx context.Context, contentType string, id uuid.UUID, slugValue string) (*Record, error) {
	if id != uuid.Nil {
		return s.records.GetByID(ctx, contentType, id)
	}
	return s.records.GetBySlug(ctx, contentType, slugValue)
}

func (s *service) Update(ctx context.Context, req UpdateRequest) (*Record, error) {
	def, err := s.resolveType(req.ContentType)
	if err != nil {
		return nil, err
	}
	if req.ID == uuid.Nil {
		return nil, invalidField("id", "required", "id is required")
	}

	existing, err := s.records.GetByID(ctx, def.Name, req.ID)
	if err != nil {
		return nil, err
	}
	slugValue := strings.TrimSpace(req.Slug)
	if slugValue == "" {
		slugValue = existing.Slug
	}
	if err := checkSlugUnchanged(existing, slugValue); err != nil {
		return nil, err
	}
	if err := s.validate(def, slugValue, req.Fields, req.Sections); err != nil {
		return nil, err
	}
	isActive := req.IsActive
	if isActive == nil {
		isActive = &existing.IsActive
	}
	return s.replace(ctx, existing, slugValue, isActive, req.Fields, req.Sections)
}

// ChangeSlug renames a record. The new slug goes through the same atomic
// uniqueness check as a create.
func (s *service) ChangeSlug(ctx context.Context, req ChangeSlugRequest) (*Record, error) {
	def, err := s.resolveType(req.ContentType)
	if err != nil {
		return nil, err
	}
	if req.ID == uuid.Nil {
		return nil, invalidField("id", "required", "id is required")
	}
	slugValue := strings.TrimSpace(req.Slug)
	if err := validateSlug(slugValue); err != nil {
		return nil, err
	}
	existing, err := s.records.GetByID(ctx, def.Name, req.ID)
	if err != nil {
		return nil, err
	}
	if existing.Slug == slugValue {
		return existing, nil
	}

	next := cloneRecord(existing)
	next.Slug = slugValue
	next.UpdatedAt = s.stamp(existing.UpdatedAt)
	updated, err := s.records.Update(ctx, next)
	if err != nil {
		return nil, err
	}
	logging.WithRecord(s.logger, def.Name, slugValue).Info("content.slug.change", "id", updated.ID, "previous", existing.Slug)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, contentType, key string) error {
	def, err := s.resolveType(contentType)
	if err != nil {
		return err
	}
	record, err := s.lookup(ctx, def.Name, key)
	if err != nil {
		return err
	}
	if err := s.records.Delete(ctx, def.Name, record.ID); err != nil {
		return err
	}
	logging.WithRecord(s.logger, def.Name, record.Slug).Info("content.delete", "id", record.ID)
	return nil
}

// checkSlugUnchanged rejects writes that would rename existing. Renames go
// through ChangeSlug.
func checkSlugUnchanged(existing *Record, slugValue string) error {
	if slugValue != existing.Slug {
		return invalidField("slug", "immutable", "slug cannot be changed by update; use ChangeSlug")
	}
	return nil
}

func (s *service) replace(ctx context.Context, existing *Record, slugValue string, isActive *bool, fields, sectionValues map[string]any) (*Record, error) {
	next := &Record{
		ID:          existing.ID,
		ContentType: existing.ContentType,
		Slug:        slugValue,
		IsActive:    boolOr(isActive, existing.IsActive),
		Fields:      normalizeMap(fields),
		Sections:    normalizeMap(sectionValues),
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   s.stamp(existing.UpdatedAt),
	}
	updated, err := s.records.Update(ctx, next)
	if err != nil {
		return nil, err
	}
	logging.WithRecord(s.logger, existing.ContentType, slugValue).Info("content.update", "id", updated.ID)
	return updated, nil
}

func (s *service) resolveType(contentType string) (TypeDefinition, error) {
	name := normalizeType(contentType)
	if name == "" {
		return TypeDefinition{}, invalidField("content_type", "required", "content type is required")
	}
	def, ok := s.registry.Lookup(name)
	if !ok {
		return TypeDefinition{}, invalidField("content_type", "unknown", fmt.Sprintf("unknown content type %q", name))
	}
	return def, nil
}

// stamp returns the current instant at storage precision, strictly after
// prev when prev is set.
func (s *service) stamp(prev time.Time) time.Time {
	now := s.now().UTC().Truncate(time.Microsecond)
	if !prev.IsZero() && !now.After(prev) {
		now = prev.UTC().Add(time.Microsecond)
	}
	return now
}

func (s *service) validate(def TypeDefinition, slugValue string, fields, sectionValues map[string]any) error {
	errs := validation.Errors{}
	if err := validateSlug(slugValue); err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			for key, value := range vErr.Fields {
				errs[key] = value
			}
		}
	}

	for _, name := range def.RequiredFields {
		value := fields[name]
		if str, ok := value.(string); ok {
			value = strings.TrimSpace(str)
		}
		if err := validation.Validate(value, validation.Required); err != nil {
			errs["fields."+name] = err
		}
	}
	if len(fields) > 0 {
		if !cmsvalidation.IsJSONCompatible(fields) {
			errs["fields"] = validation.NewError("json", "fields must be JSON compatible")
		} else if err := def.FieldSchema.Validate(fields); err != nil {
			errs["fields"] = validation.NewError("schema", err.Error())
		}
	}

	for name, value := range sectionValues {
		key := "sections." + name
		if !def.AllowsSection(name) {
			errs[key] = validation.NewError("unknown", fmt.Sprintf("section %q is not defined for %s", name, def.Name))
			continue
		}
		if value == nil {
			continue
		}
		if !cmsvalidation.IsJSONCompatible(value) {
			errs[key] = validation.NewError("json", "section must be JSON compatible")
			continue
		}
		if err := sections.Schema(name).Validate(value); err != nil {
			errs[key] = validation.NewError("schema", err.Error())
		}
	}

	if len(errs) > 0 {
		return invalid("invalid "+def.Name, errs)
	}
	return nil
}

func validateSlug(value string) error {
	if value == "" {
		return invalidField("slug", "required", "slug is required")
	}
	if !slug.IsValid(value) {
		return invalidField("slug", "invalid", "slug contains invalid characters")
	}
	return nil
}

// normalizeMap detaches the caller's map and brings it to the plain JSON
// shape the store returns. Nil entries are dropped so an explicit null
// removes a section.
func normalizeMap(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for key, value := range values {
		if value == nil {
			continue
		}
		out[key] = value
	}
	encoded, err := json.Marshal(out)
	if err != nil {
		return cloneMap(out)
	}
	decoded := map[string]any{}
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		return cloneMap(out)
	}
	return decoded
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
