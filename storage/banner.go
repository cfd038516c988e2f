package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrUnsupportedContentType is returned when a banner upload carries a
// content type the store does not accept.
var ErrUnsupportedContentType = errors.New("unsupported banner content type")

// bannerExtensions maps the accepted upload content types to the file
// extension used in the object key.
var bannerExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// Banner describes a stored tournament banner.
type Banner struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	ETag string `json:"etag"`
}

// BannerStore owns the banner object keys: callers hand over the tournament
// ID and the raw image, the store decides where it lives.
type BannerStore interface {
	UploadBanner(ctx context.Context, tournamentID int, contentType string, r io.Reader) (*Banner, error)
	DeleteBanner(ctx context.Context, key string) error
	PublicURL(key string) string
}

// bannerKey builds the object key for one tournament's banner. A tournament
// has at most one banner; re-uploading overwrites it.
func bannerKey(tournamentID int, contentType string) (string, error) {
	ext, ok := bannerExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	return fmt.Sprintf("tournaments/%d/banner.%s", tournamentID, ext), nil
}
