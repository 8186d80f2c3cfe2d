package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/2beens/portfolio/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

var _ Uploader = (*DiskUploader)(nil)

// DiskUploader keeps media on the local disk, for development. The server
// exposes the root directory under baseURL.
type DiskUploader struct {
	root    string
	baseURL string
}

func NewDiskUploader(root, baseURL string) (*DiskUploader, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root %s: %w", root, err)
	}
	return &DiskUploader{
		root:    root,
		baseURL: baseURL,
	}, nil
}

func (u *DiskUploader) Root() string {
	return u.root
}

func (u *DiskUploader) Upload(ctx context.Context, obj Object) (string, error) {
	_, span := tracing.GlobalTracer.Start(ctx, "media.disk.upload")
	defer span.End()

	path := filepath.Join(u.root, filepath.FromSlash(obj.Key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		span.SetStatus(codes.Error, "mkdir")
		return "", fmt.Errorf("%w: create media dir: %w", ErrUpstream, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		span.SetStatus(codes.Error, "create")
		return "", fmt.Errorf("%w: create media file: %w", ErrUpstream, err)
	}
	defer f.Close()

	written, err := io.Copy(f, obj.Body)
	if err != nil {
		_ = os.Remove(path)
		span.SetStatus(codes.Error, "write")
		return "", fmt.Errorf("%w: write media file: %w", ErrUpstream, err)
	}

	log.Debugf("media object [%s] written to disk: %d bytes", obj.Key, written)
	span.SetStatus(codes.Ok, "ok")
	return publicURL(u.baseURL, obj.Key), nil
}
