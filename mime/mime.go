// Package mime implements the §6 default MIME map and its Cache-Control
// pairing. The original's mimeTypes[] is a NULL-terminated C array ending in
// a sentinel default entry; per the REDESIGN FLAGS note on builtin-table
// terminators, this port uses an explicit map plus a named default constant
// instead of a sentinel-terminated slice.
package mime

import "strings"

// DefaultType is returned by Lookup for any extension not in the table.
const DefaultType = "text/html"

var byExtension = map[string]string{
	"htm":  "text/html",
	"html": "text/html",
	"css":  "text/css",
	"js":   "text/javascript",
	"txt":  "text/plain",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"svg":  "image/svg+xml",
	"xml":  "text/xml",
	"json": "application/json",
}

// noCacheControl are the MIME types §6 exempts from the suggested
// Cache-Control header: text/html, text/plain, text/csv, application/json.
var noCacheControl = map[string]bool{
	"text/html":       true,
	"text/plain":      true,
	"text/csv":        true,
	"application/json": true,
}

// defaultCacheControl is the value §6 suggests for every other MIME type.
const defaultCacheControl = "max-age=7200, public, must-revalidate"

// Lookup returns the MIME type for a file name, keyed by the lower-cased
// extension after the last '.', defaulting to DefaultType when the
// extension is unknown or absent.
func Lookup(name string) string {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 || dot == len(name)-1 {
		return DefaultType
	}
	ext := strings.ToLower(name[dot+1:])
	if t, ok := byExtension[ext]; ok {
		return t
	}
	return DefaultType
}

// CacheControlFor returns the suggested Cache-Control header value for
// mimeType, or "" for the four types §6 exempts (no header should be sent).
func CacheControlFor(mimeType string) string {
	if noCacheControl[mimeType] {
		return ""
	}
	return defaultCacheControl
}
