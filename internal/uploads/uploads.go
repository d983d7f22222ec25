// Package uploads stores binary blobs (mostly images) referenced from content
// records. A Store returns an opaque path that records embed as a plain
// string; the content store never interprets it.
package uploads

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
)

var (
	ErrFilenameRequired  = errors.New("uploads: filename is required")
	ErrEmptyUpload       = errors.New("uploads: upload is empty")
	ErrExtensionRejected = errors.New("uploads: file extension not allowed")
	ErrTooLarge          = errors.New("uploads: upload exceeds size limit")
)

// Store persists an upload and returns the path it is served under.
type Store interface {
	Put(ctx context.Context, filename string, body io.Reader) (string, error)
}

// DefaultAllowedExtensions lists the file types accepted when a store is not
// configured otherwise.
var DefaultAllowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".avif", ".pdf"}

// Policy holds the checks shared by every backend.
type Policy struct {
	AllowedExtensions []string
	MaxBytes          int64
}

func (p Policy) extension(filename string) (string, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return "", ErrFilenameRequired
	}
	ext := strings.ToLower(path.Ext(filename))
	allowed := p.AllowedExtensions
	if len(allowed) == 0 {
		allowed = DefaultAllowedExtensions
	}
	for _, candidate := range allowed {
		if strings.EqualFold(candidate, ext) {
			return ext, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrExtensionRejected, ext)
}

// limit wraps body so reads past MaxBytes fail with ErrTooLarge.
func (p Policy) limit(body io.Reader) io.Reader {
	if p.MaxBytes <= 0 {
		return body
	}
	return &limitedReader{r: io.LimitReader(body, p.MaxBytes+1), max: p.MaxBytes}
}

type limitedReader struct {
	r    io.Reader
	max  int64
	read int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.read > l.max {
		return n, ErrTooLarge
	}
	return n, err
}

// ObjectKey builds the storage key for filename: <yyyy>/<mm>/<name>-<suffix><ext>.
// The name is slugified so keys are URL safe.
func ObjectKey(now time.Time, filename, suffix string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	ext := strings.ToLower(path.Ext(base))
	name := strings.TrimSuffix(base, path.Ext(base))
	normalized, err := slug.Normalize(name)
	if err != nil || normalized == "" {
		normalized = "file"
	}
	return fmt.Sprintf("%04d/%02d/%s-%s%s", now.UTC().Year(), int(now.UTC().Month()), normalized, suffix, ext)
}

// PublicPath joins the public prefix and an object key.
func PublicPath(prefix, key string) string {
	prefix = "/" + strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "/" {
		return "/" + key
	}
	return prefix + "/" + key
}

func randomSuffix() string {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf[:])
}
