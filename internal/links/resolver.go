// Package links builds public URLs for content records with go-urlkit.
package links

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"
)

// DefaultGroup is the urlkit group holding the public site routes.
const DefaultGroup = "site"

var ErrNoRoute = errors.New("links: no route for content type")

// DefaultRoutes maps each built-in content type to its public path.
func DefaultRoutes() map[string]string {
	return map[string]string{
		"project": "/portfolio/:slug",
		"product": "/products/:slug",
		"post":    "/blog/:slug",
		"job":     "/careers/:slug",
		"page":    "/:slug",
	}
}

// DefaultRouteConfig returns a urlkit configuration with a single site group
// using DefaultRoutes.
func DefaultRouteConfig(baseURL string) *urlkit.Config {
	return &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    DefaultGroup,
				BaseURL: strings.TrimRight(baseURL, "/"),
				Paths:   DefaultRoutes(),
			},
		},
	}
}

// Resolver resolves record URLs. Route names match content type names.
type Resolver struct {
	manager   *urlkit.RouteManager
	groupPath string

	mu    sync.RWMutex
	group *urlkit.Group
}

// NewResolver builds a resolver over manager. groupPath may address nested
// groups with dots, e.g. "site.en".
func NewResolver(manager *urlkit.RouteManager, groupPath string) *Resolver {
	if strings.TrimSpace(groupPath) == "" {
		groupPath = DefaultGroup
	}
	return &Resolver{manager: manager, groupPath: strings.TrimSpace(groupPath)}
}

// URL returns the public URL of the record identified by contentType and slug.
func (r *Resolver) URL(contentType, slug string) (string, error) {
	if r == nil || r.manager == nil {
		return "", ErrNoRoute
	}
	group, err := r.resolveGroup()
	if err != nil {
		return "", err
	}
	route := strings.ToLower(strings.TrimSpace(contentType))
	builder, err := safeBuilder(group, route)
	if err != nil {
		return "", err
	}
	url, err := builder.WithParam("slug", slug).Build()
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrNoRoute, route, err)
	}
	return url, nil
}

func (r *Resolver) resolveGroup() (*urlkit.Group, error) {
	r.mu.RLock()
	group := r.group
	r.mu.RUnlock()
	if group != nil {
		return group, nil
	}

	parts := strings.Split(r.groupPath, ".")
	current, err := lookupGroup(r.manager, parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		if current, err = lookupChildGroup(current, part); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.group = current
	r.mu.Unlock()
	return current, nil
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			builder = nil
			err = fmt.Errorf("%w %q", ErrNoRoute, route)
		}
	}()
	builder = group.Builder(route)
	return builder, nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("links: route group %q not found", name)
		}
	}()
	return manager.Group(name), nil
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("links: child group %q not found", name)
		}
	}()
	return parent.Group(name), nil
}
