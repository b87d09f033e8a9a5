package storage

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"clipvive/services/intake-api/internal/config"
	"clipvive/services/intake-api/internal/domain/job"
)

// S3Storage is the best-effort remote sink. It never fails the intake path:
// upload outcomes are reported through job.UploadResult.
type S3Storage struct {
	bucket   string
	endpoint string
	local    *LocalStorage
	client   *s3.Client
	log      zerolog.Logger
	disabled bool
}

// NewS3Storage creates the remote sink. With no bucket or credentials
// configured it stays disabled and every upload reports no_s3_config.
func NewS3Storage(ctx context.Context, cfg *config.Config, local *LocalStorage, log zerolog.Logger) (*S3Storage, error) {
	logger := log.With().Str("component", "s3-storage").Logger()
	storage := &S3Storage{
		bucket:   cfg.S3Bucket,
		endpoint: strings.TrimSuffix(cfg.S3Endpoint, "/"),
		local:    local,
		log:      logger,
	}

	if storage.bucket == "" || cfg.S3AccessKeyID == "" || cfg.S3SecretKey == "" {
		logger.Warn().Msg("S3_BUCKET or credentials are not set; remote uploads will be disabled until configured")
		storage.disabled = true
		return storage, nil
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.S3Endpoint != "" {
			return aws.Endpoint{
				URL:           cfg.S3Endpoint,
				PartitionID:   "aws",
				SigningRegion: cfg.S3Region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretKey, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	storage.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3UsePathStyle
	})
	return storage, nil
}

// Upload pushes a locally stored payload to the bucket. The result carries
// the success/failure signal; callers decide whether a failure matters.
func (s *S3Storage) Upload(ctx context.Context, localName string, objectName string) job.UploadResult {
	if s.disabled {
		return job.UploadResult{Uploaded: false, Reason: "no_s3_config"}
	}

	file, err := os.Open(s.local.Path(localName))
	if err != nil {
		return job.UploadResult{Uploaded: false, Reason: err.Error()}
	}
	defer file.Close()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectName),
		Body:        file,
		ContentType: aws.String("text/plain"),
	})
	if err != nil {
		return job.UploadResult{Uploaded: false, Reason: err.Error()}
	}

	return job.UploadResult{
		Uploaded: true,
		URL:      fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, objectName),
	}
}

// Health performs a HeadBucket request when the sink is configured.
func (s *S3Storage) Health(ctx context.Context) error {
	if s.disabled {
		return nil
	}
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}
