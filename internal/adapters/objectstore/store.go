// Package objectstore stores uploaded images and lesson attachments and
// resolves their public URLs.
package objectstore

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// ErrInvalidKey is returned for keys that are empty or escape the store root.
var ErrInvalidKey = errors.New("invalid object key")

// Store uploads objects by key and resolves their public URL.
type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) error
	PublicURL(key string) string
}

// cleanKey normalises a slash-separated key and rejects traversal.
func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
