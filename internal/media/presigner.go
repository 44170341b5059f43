// Package media turns bucket keys stored on catalog rows into short-lived
// download URLs.
package media

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Presigner resolves image references. A nil Presigner passes every
// reference through unchanged.
type Presigner struct {
	client *s3.PresignClient
	bucket string
	ttl    time.Duration
	log    zerolog.Logger
}

func NewPresigner(cfg config.Media, log zerolog.Logger) *Presigner {
	opts := s3.Options{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	}
	// S3-compatible stores (MinIO, R2) need path-style addressing.
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}

	ttl := cfg.URLTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Presigner{
		client: s3.NewPresignClient(s3.New(opts)),
		bucket: cfg.Bucket,
		ttl:    ttl,
		log:    log.With().Str("component", "media").Logger(),
	}
}

// URL returns a download URL for ref. Absolute URLs, data URIs and empty
// references come back as they are; so does ref when signing fails.
func (p *Presigner) URL(ctx context.Context, ref string) string {
	if p == nil || ref == "" || isAbsolute(ref) {
		return ref
	}

	req, err := p.client.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(strings.TrimPrefix(ref, "/")),
	}, s3.WithPresignExpires(p.ttl))
	if err != nil {
		p.log.Warn().Err(err).Str("key", ref).Msg("presign failed")
		return ref
	}
	return req.URL
}

func (p *Presigner) Services(ctx context.Context, list []models.Service) []models.Service {
	out := make([]models.Service, len(list))
	for i, s := range list {
		s.ImageURL = p.URL(ctx, s.ImageURL)
		out[i] = s
	}
	return out
}

func (p *Presigner) Professionals(ctx context.Context, list []models.Professional) []models.Professional {
	out := make([]models.Professional, len(list))
	for i, pro := range list {
		pro.AvatarURL = p.URL(ctx, pro.AvatarURL)
		out[i] = pro
	}
	return out
}

func isAbsolute(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "data:")
}
