package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by domain so different entities never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// RecordUUID maps an externally supplied identifier (for example a legacy job
// listing id) to the record id it is stored under. The mapping is scoped by
// content type.
func RecordUUID(contentType, externalID string) uuid.UUID {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return uuid.Nil
	}
	return UUID("sitecms:record:" + strings.ToLower(strings.TrimSpace(contentType)) + ":" + externalID)
}
