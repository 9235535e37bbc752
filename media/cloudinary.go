package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
	log    *zap.Logger
}

func NewCloudinary(cloudName, apiKey, apiSecret, folder string, log *zap.Logger) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Cloudinary{cld: cld, folder: folder, log: log}, nil
}

func (c *Cloudinary) Folder() string { return c.folder }

func (c *Cloudinary) Upload(ctx context.Context, filename string, r io.Reader) (Asset, error) {
	// Cloudinary picks the public id; the folder keeps PublicIDFromURL working.
	resp, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       c.folder,
		ResourceType: "image",
	})
	if err != nil {
		return Asset{}, fmt.Errorf("upload %s: %w", filename, err)
	}
	if resp.Error.Message != "" {
		return Asset{}, fmt.Errorf("upload %s: %s", filename, resp.Error.Message)
	}
	c.log.Debug("image uploaded",
		zap.String("filename", sanitize(filename)),
		zap.String("public_id", resp.PublicID),
		zap.Int("bytes", resp.Bytes),
	)
	return Asset{URL: resp.SecureURL, PublicID: resp.PublicID}, nil
}

func (c *Cloudinary) Destroy(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	resp, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("destroy %s: %w", publicID, err)
	}
	if resp.Error.Message != "" {
		return errors.New(resp.Error.Message)
	}
	// "not found" is fine: the asset is gone either way.
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("destroy %s: %s", publicID, resp.Result)
	}
	return nil
}
