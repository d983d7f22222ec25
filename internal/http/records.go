package http

import (
	"github.com/goliatone/go-site-cms/internal/content"
	"github.com/goliatone/go-site-cms/internal/links"
)

// recordResponse decorates a record with its public URL when a route exists
// for its type.
type recordResponse struct {
	*content.Record
	URL string `json:"url,omitempty"`
}

type recordPayload struct {
	ID         string         `json:"id,omitempty"`
	ExternalID string         `json:"external_id,omitempty"`
	Slug       string         `json:"slug"`
	IsActive   *bool          `json:"is_active,omitempty"`
	Fields     map[string]any `json:"fields"`
	Sections   map[string]any `json:"sections,omitempty"`
}

type slugPayload struct {
	Slug string `json:"slug"`
}

func buildRecordResponse(resolver *links.Resolver, record *content.Record) recordResponse {
	resp := recordResponse{Record: record}
	if record == nil || resolver == nil {
		return resp
	}
	if url, err := resolver.URL(record.ContentType, record.Slug); err == nil {
		resp.URL = url
	}
	return resp
}

func buildRecordResponses(resolver *links.Resolver, records []*content.Record) []recordResponse {
	out := make([]recordResponse, 0, len(records))
	for _, record := range records {
		out = append(out, buildRecordResponse(resolver, record))
	}
	return out
}
