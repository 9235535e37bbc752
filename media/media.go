// Package media stores product images, either on Cloudinary or on local disk
// when no CDN credentials are configured.
package media

import (
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"
	"strings"
)

var ErrEmptyFile = errors.New("media: empty file")

// Asset is a stored image. PublicID is what Destroy needs to remove it.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

type Store interface {
	Upload(ctx context.Context, filename string, r io.Reader) (Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

// PublicIDFromURL extracts "<folder>/<name>" from a CDN delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v1712/verve/abc.jpg. It
// returns "" when the URL does not contain the folder.
func PublicIDFromURL(url, folder string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return ""
	}
	marker := "/" + folder + "/"
	i := strings.Index(url, marker)
	if i < 0 {
		return ""
	}
	rest := url[i+1:]
	if q := strings.IndexAny(rest, "?#"); q >= 0 {
		rest = rest[:q]
	}
	rest = strings.TrimSuffix(rest, path.Ext(rest))
	if rest == folder || strings.HasSuffix(rest, "/") {
		return ""
	}
	return rest
}

// sanitize keeps the base name of filename with spaces replaced, like the
// dashboard upload names.
func sanitize(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == "/" || base == ".." {
		return "image"
	}
	return strings.ReplaceAll(base, " ", "_")
}
