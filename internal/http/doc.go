// Package http exposes the content store over JSON.
//
// Admin routes mount under /admin/api:
//   - Types: /types
//   - Records: /{type}, /{type}/{key}, /{type}/{id}/slug
//   - Uploads: /uploads
//
// Public read routes mount under /api:
//   - /{type}, /{type}/{slug}
//
// Host applications register the handlers on their own mux.
package http
