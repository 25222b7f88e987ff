package avatar

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/singleflight"

	"github.com/housersapp/housers/internal/logging"
	"github.com/housersapp/housers/internal/metrics"
	"github.com/housersapp/housers/internal/models"
)

// DefaultExpiry is how long a presigned avatar URL stays valid.
const DefaultExpiry = 15 * time.Minute

var errStorageDisabled = errors.New("avatar storage not configured")

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// StorageConfig locates the S3-compatible bucket holding avatar objects.
// An empty Bucket disables presigning.
type StorageConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Expiry    time.Duration
}

// Avatar is what a view needs to draw a user's picture. URL is empty when the
// gradient fallback should be drawn.
type Avatar struct {
	URL      string
	Initial  string
	Gradient Gradient
}

func (a Avatar) HasImage() bool { return a.URL != "" }

// Service resolves profiles to avatars. It is safe for concurrent use.
type Service struct {
	cfg     StorageConfig
	log     logging.Logger
	metrics *metrics.Metrics

	mu     sync.Mutex
	client *s3.PresignClient

	group singleflight.Group
}

func NewService(cfg StorageConfig, log logging.Logger, m *metrics.Metrics) *Service {
	if cfg.Expiry <= 0 {
		cfg.Expiry = DefaultExpiry
	}
	return &Service{cfg: cfg, log: log, metrics: m}
}

// Fallback is the avatar for a profile without an image.
func Fallback(p models.Profile) Avatar {
	return Avatar{Initial: Initial(p.DisplayName()), Gradient: ColorsFor(p.Username)}
}

// Resolve never fails: presign errors are logged and the gradient fallback
// is returned.
func (s *Service) Resolve(ctx context.Context, p models.Profile) Avatar {
	a := Fallback(p)
	if p.AvatarKey == "" || s.cfg.Bucket == "" {
		return a
	}

	v, err, _ := s.group.Do(p.AvatarKey, func() (any, error) {
		return s.presign(ctx, p.AvatarKey)
	})
	if err != nil {
		s.metrics.AvatarPresign(metrics.ResultError)
		s.log.Warn(ctx, "avatar presign failed", "user_id", p.ID, "error", err)
		return a
	}
	s.metrics.AvatarPresign(metrics.ResultOK)
	a.URL = v.(string)
	return a
}

func (s *Service) presign(ctx context.Context, key string) (string, error) {
	pc, err := s.presignClient(ctx)
	if err != nil {
		return "", err
	}
	bucket := s.cfg.Bucket
	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.cfg.Expiry))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

// presignClient builds the client on first use and keeps it once that
// succeeds.
func (s *Service) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client, nil
	}
	if s.cfg.Bucket == "" {
		return nil, errStorageDisabled
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(s.cfg.Region)}
	if s.cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.cfg.AccessKey, s.cfg.SecretKey, "")))
	}
	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	s.client = newS3PresignClient(client)
	return s.client, nil
}
