// Package image validates user-supplied cover image references. Articles
// link images by direct URL; there is no upload pipeline or binary storage.
package image

import (
	"net/url"
	"path"
	"strings"

	"github.com/penlight/core/internal/pkg/apperr"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Validate checks that rawURL is an absolute http(s) URL pointing at a
// recognized image file. An empty URL is valid; cover images are optional.
func Validate(rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return apperr.New(apperr.KindValidation, "image URL is not a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return apperr.New(apperr.KindValidation, "image URL must use http or https")
	}
	if u.Host == "" {
		return apperr.New(apperr.KindValidation, "image URL must be absolute")
	}

	ext := strings.ToLower(path.Ext(u.Path))
	if !allowedExtensions[ext] {
		return apperr.New(apperr.KindValidation, "image URL must end in .jpg, .jpeg, .png, .gif or .webp")
	}
	return nil
}
