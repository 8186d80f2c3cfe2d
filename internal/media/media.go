package media

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path"
	"strings"
)

var (
	ErrTooLarge        = errors.New("media: file too large")
	ErrUnsupportedType = errors.New("media: unsupported file type")
	ErrUpstream        = errors.New("media: upstream failure")
)

// allowed image types and the extension used for stored objects
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type Object struct {
	// Key is relative to the media root, e.g. portfolio-projects/<uuid>.png
	Key         string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=media_test

// Uploader stores an object on the media host and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, obj Object) (string, error)
}

func publicURL(baseURL, key string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" {
		return strings.TrimRight(baseURL, "/") + "/" + key
	}
	u.Path = path.Join("/", u.Path, key)
	return u.String()
}
