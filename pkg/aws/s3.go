package aws

import (
	"catalog/pkg/config"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/storage/s3/v2"
)

// S3 stores product images in an S3 compatible bucket.
type S3 struct {
	bucket   *s3.Storage
	endpoint string
	name     string
	region   string
}

func NewS3Bucket(appConfig *config.AppConfig) *S3 {
	storage := s3.New(s3.Config{
		Endpoint: appConfig.AWSEndpoint,
		Bucket:   appConfig.AWSBucket,
		Region:   appConfig.AWSDefaultRegion,
		Credentials: s3.Credentials{
			AccessKey:       appConfig.AWSAccessKey,
			SecretAccessKey: appConfig.AWSSecretKey,
		},
		MaxAttempts:    3,
		RequestTimeout: time.Second * 10,
		Reset:          false,
	})

	return &S3{
		bucket:   storage,
		endpoint: appConfig.AWSEndpoint,
		name:     appConfig.AWSBucket,
		region:   appConfig.AWSDefaultRegion,
	}
}

// Upload stores data under key. Objects do not expire.
func (s *S3) Upload(key string, data []byte) error {
	return s.bucket.Set(key, data, 0)
}

func (s *S3) Download(key string) ([]byte, error) {
	return s.bucket.Get(key)
}

func (s *S3) Delete(key string) error {
	return s.bucket.Delete(key)
}

func (s *S3) Close() error {
	return s.bucket.Close()
}

// URL returns the public address of key: endpoint/bucket/key for MinIO style
// endpoints, the virtual-hosted AWS form otherwise.
func (s *S3) URL(key string) string {
	return ObjectURL(s.endpoint, s.name, s.region, key)
}

func ObjectURL(endpoint, bucket, region, key string) string {
	if endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(endpoint, "/"), bucket, key)
	}

	if region != "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
	}

	return key
}
