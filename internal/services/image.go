package services

import (
	"context"
	"fmt"
	"time"

	appconfig "github.com/RobinJoby/food-surplus-platform/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ImageService issues pre-signed S3 PUT URLs for food listing photos. The
// client uploads directly to S3 and passes the resulting public URL as the
// listing's image_url.
type ImageService struct {
	s3Client *s3.Client
	bucket   string
	region   string
	endpoint string
}

// NewImageService creates a new image service
func NewImageService(cfg appconfig.AWSConfig) (*ImageService, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &ImageService{
		s3Client: s3Client,
		bucket:   cfg.S3Bucket,
		region:   cfg.Region,
		endpoint: cfg.Endpoint,
	}, nil
}

// UploadResponse carries a pre-signed upload URL and the final public URL
type UploadResponse struct {
	UploadURL string `json:"upload_url"`
	ImageURL  string `json:"image_url"`
	ExpiresIn int    `json:"expires_in"`
}

// PresignUpload generates a pre-signed PUT URL for a food image. The object
// key is namespaced by donor so listings cannot clobber each other.
func (s *ImageService) PresignUpload(ctx context.Context, donorID, contentType string) (*UploadResponse, error) {
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/gif" {
		return nil, validationf("content_type must be image/jpeg, image/png or image/gif")
	}

	key := fmt.Sprintf("food/%s/%s", donorID, uuid.New().String())

	presignClient := s3.NewPresignClient(s.s3Client)
	request, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(o *s3.PresignOptions) {
		o.Expires = 5 * time.Minute
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	imageURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	if s.endpoint != "" {
		imageURL = fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	}

	return &UploadResponse{
		UploadURL: request.URL,
		ImageURL:  imageURL,
		ExpiresIn: 300,
	}, nil
}
