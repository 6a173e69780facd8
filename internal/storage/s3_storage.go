package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/narayanji/distributor-app/config"
	"github.com/narayanji/distributor-app/pkg/logger"
)

const presignExpiry = 15 * time.Minute

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// S3Storage issues presigned upload URLs for product images.
type S3Storage struct {
	presigner *s3.PresignClient
	bucket    string
	baseURL   string
}

func NewS3Storage(cfg *config.S3Config) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Storage{
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		baseURL:   cfg.BaseURL,
	}, nil
}

// AllowedImageExtension reports whether ext (with leading dot) is uploadable.
func AllowedImageExtension(ext string) bool {
	return allowedImageExtensions[strings.ToLower(ext)]
}

// PresignUpload returns a presigned PUT URL and the public URL the object
// will be served from.
func (s *S3Storage) PresignUpload(ctx context.Context, filename, contentType string) (uploadURL, publicURL string, err error) {
	ext := strings.ToLower(filepath.Ext(filename))
	key := fmt.Sprintf("products/%s%s", uuid.New().String(), ext)

	request, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		logger.Error("Failed to presign S3 upload", err, map[string]interface{}{
			"key": key,
		})
		return "", "", err
	}

	publicURL = fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
	if s.baseURL != "" {
		publicURL = fmt.Sprintf("%s/%s", strings.TrimRight(s.baseURL, "/"), key)
	}

	logger.Debug("Presigned S3 upload", map[string]interface{}{
		"key":    key,
		"bucket": s.bucket,
	})
	return request.URL, publicURL, nil
}
