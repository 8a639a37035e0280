// Package media uploads store assets to Cloudinary.
package media

import (
	"context"
	"fmt"
	"io"
	"path"

	"go-store-builder/internal/apperr"
	"go-store-builder/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// ErrDisabled is returned when no upload provider is configured.
var ErrDisabled = fmt.Errorf("media uploads disabled: %w", apperr.ErrUnavailable)

// Result describes an uploaded asset.
type Result struct {
	URL      string
	PublicID string
}

// Uploader stores and removes hosted files.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, folder string) (*Result, error)
	Destroy(ctx context.Context, publicID string) error
	Folder(storeName string) string
}

// Cloudinary is an Uploader backed by a Cloudinary account.
type Cloudinary struct {
	cld  *cloudinary.Cloudinary
	root string
}

// NewCloudinary creates an uploader from a cloudinary:// URL.
func NewCloudinary(cfg config.CloudinaryConfig) (*Cloudinary, error) {
	if cfg.URL == "" {
		return nil, ErrDisabled
	}
	cld, err := cloudinary.NewFromURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &Cloudinary{cld: cld, root: cfg.Folder}, nil
}

// Folder is the remote folder for a store's assets.
func (c *Cloudinary) Folder(storeName string) string {
	return path.Join(c.root, storeName)
}

// Upload sends r to Cloudinary under a fresh random public ID.
func (c *Cloudinary) Upload(ctx context.Context, r io.Reader, folder string) (*Result, error) {
	res, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:   folder,
		PublicID: uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("upload rejected: %s", res.Error.Message)
	}
	return &Result{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

// Destroy removes a hosted asset. Assets already gone are not an error.
func (c *Cloudinary) Destroy(ctx context.Context, publicID string) error {
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy rejected: %s", res.Error.Message)
	}
	return nil
}

var _ Uploader = (*Cloudinary)(nil)
