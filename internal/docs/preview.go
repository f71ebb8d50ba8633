package docs

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// Previewer creates and destroys the ephemeral preview resource attached to
// an uploaded document slot. Previews must be released whenever a slot is
// replaced or the session is torn down.
type Previewer interface {
	Create(ctx context.Context, content []byte, filename string) (url, id string, err error)
	Release(ctx context.Context, id string) error
}

// CloudinaryPreviewer streams slot contents to a short-lived Cloudinary
// folder so the wizard can render a preview, and destroys the asset when the
// slot goes away.
type CloudinaryPreviewer struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryPreviewer initializes the previewer from the standard
// CLOUDINARY_* environment variables.
func NewCloudinaryPreviewer(cloudName, apiKey, apiSecret string) (*CloudinaryPreviewer, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &CloudinaryPreviewer{cld: cld}, nil
}

func (p *CloudinaryPreviewer) Create(ctx context.Context, content []byte, filename string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// UUID public ID prevents collisions and path traversal from the
	// original filename.
	publicID := fmt.Sprintf("pharmaport/previews/%s", uuid.New().String())

	res, err := p.cld.Upload.Upload(ctx, bytes.NewReader(content), uploader.UploadParams{
		PublicID:     publicID,
		ResourceType: "auto",
	})
	if err != nil {
		return "", "", err
	}
	return res.SecureURL, res.PublicID, nil
}

func (p *CloudinaryPreviewer) Release(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := p.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id})
	return err
}

// NoopPreviewer disables previews. Used when Cloudinary is not configured
// and in tests.
type NoopPreviewer struct{}

func (NoopPreviewer) Create(context.Context, []byte, string) (string, string, error) {
	return "", "", nil
}

func (NoopPreviewer) Release(context.Context, string) error { return nil }
