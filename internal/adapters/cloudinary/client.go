// internal/adapters/cloudinary/client.go
package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"tour_catalog/internal/adapters/observability"
	"tour_catalog/internal/domain"
)

const (
	DefaultBaseURL  = "https://api.cloudinary.com"
	DefaultFolder   = "travel_website/tours"
	DefaultMaxBytes = 10 << 20

	// stays below the write-route timeout in http_server
	requestTimeout = 60 * time.Second

	// bound-box to 800x600 without upscaling, then automatic quality
	uploadTransformation = "c_limit,w_800,h_600/q_auto"
)

var (
	ErrFileMissing  = errors.New("cloudinary: file not found at temporary path")
	ErrFileTooLarge = errors.New("cloudinary: file exceeds size limit")
)

type Config struct {
	BaseURL   string // upload prefix; the SDK appends /v1_1/<cloud>/image/upload
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	MaxBytes  int64
	RPS       int
}

type Client struct {
	cfg Config
	sdk *cld.Cloudinary
	rl  *rate.Limiter
}

func New(cfg Config) (*Client, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary cloud name, API key and secret are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Folder == "" {
		cfg.Folder = DefaultFolder
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 5
	}
	sdk, err := cld.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary sdk: %w", err)
	}
	sdk.Config.API.UploadPrefix = cfg.BaseURL
	sdk.Config.API.Timeout = int64(requestTimeout / time.Second)
	return &Client{
		cfg: cfg,
		sdk: sdk,
		rl:  rate.NewLimiter(rate.Limit(cfg.RPS), cfg.RPS),
	}, nil
}

// Upload sends the file at localPath to Cloudinary and returns its secure
// URL. The local file is removed whether or not the upload succeeds.
func (c *Client) Upload(ctx context.Context, localPath string) (string, error) {
	defer func() {
		if err := os.Remove(localPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", localPath).Msg("temp upload cleanup failed")
		}
	}()

	st, err := os.Stat(localPath)
	if err != nil {
		return "", &domain.UploadError{Err: ErrFileMissing}
	}
	if st.Size() > c.cfg.MaxBytes {
		return "", &domain.UploadError{Err: fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, st.Size(), c.cfg.MaxBytes)}
	}

	u, err := c.upload(ctx, localPath)
	if err != nil {
		return "", &domain.UploadError{Err: err}
	}
	return u, nil
}

func (c *Client) upload(ctx context.Context, localPath string) (string, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", err
	}

	start := time.Now()
	res, err := c.sdk.Upload.Upload(ctx, localPath, uploader.UploadParams{
		Folder:         c.cfg.Folder,
		PublicID:       "tour-" + uuid.NewString(),
		Transformation: uploadTransformation,
	})
	if err != nil {
		observability.ObserveExternal("cloudinary", "image/upload", 0, time.Since(start))
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	// the SDK reports host-side failures in the result, not as an error
	if res.Error.Message != "" {
		observability.ObserveExternal("cloudinary", "image/upload", http.StatusBadRequest, time.Since(start))
		return "", fmt.Errorf("remote: %s", res.Error.Message)
	}
	observability.ObserveExternal("cloudinary", "image/upload", http.StatusOK, time.Since(start))
	if res.SecureURL == "" {
		return "", errors.New("response carried no secure_url")
	}
	return res.SecureURL, nil
}
