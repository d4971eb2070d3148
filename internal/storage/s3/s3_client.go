package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"backoffice/internal/config"
	"backoffice/internal/port"
)

// maxDownloadBytes bounds Download. Stored PDFs passed the upload limit, so
// anything larger is not an invoice this service wrote.
const maxDownloadBytes = 64 << 20

// s3Client stores invoice PDFs in S3 or an S3-compatible service.
type s3Client struct {
	client        *s3.Client
	presigner     *s3.PresignClient
	uploader      *manager.Uploader
	region        string
	endpoint      string
	publicBaseURL string
}

// NewS3Client creates a new S3-backed ObjectStorage implementation.
func NewS3Client(cfg *config.S3Config) (port.ObjectStorage, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)
	return &s3Client{
		client:        client,
		presigner:     s3.NewPresignClient(client),
		uploader:      manager.NewUploader(client),
		region:        cfg.Region,
		endpoint:      strings.TrimRight(cfg.Endpoint, "/"),
		publicBaseURL: cfg.PublicBaseURL,
	}, nil
}

func (c *s3Client) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	put := &s3.PutObjectInput{
		Bucket:             aws.String(input.Bucket),
		Key:                aws.String(input.Key),
		Body:               input.Body,
		ContentType:        aws.String(input.ContentType),
		ContentDisposition: aws.String(fmt.Sprintf(`inline; filename="%s"`, path.Base(input.Key))),
		Metadata:           input.Metadata,
	}
	if input.Size > 0 {
		put.ContentLength = aws.Int64(input.Size)
	}

	result, err := c.uploader.Upload(ctx, put)
	if err != nil {
		return nil, fmt.Errorf("s3 upload %s/%s: %w", input.Bucket, input.Key, err)
	}

	return &port.UploadOutput{
		Location: result.Location,
		ETag:     aws.ToString(result.ETag),
	}, nil
}

// Download reads an object fully, refusing anything larger than
// maxDownloadBytes.
func (c *s3Client) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	result, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 download %s/%s: %w", bucket, key, err)
	}
	defer func() { _ = result.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(result.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("s3 download read: %w", err)
	}
	if int64(len(data)) > maxDownloadBytes {
		return nil, fmt.Errorf("s3 download %s/%s: object exceeds %d bytes", bucket, key, maxDownloadBytes)
	}
	return data, nil
}

func (c *s3Client) Delete(ctx context.Context, bucket, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (c *s3Client) GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error) {
	result, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(time.Duration(expirySeconds)*time.Second))
	if err != nil {
		return "", fmt.Errorf("s3 presign: %w", err)
	}
	return result.URL, nil
}

func (c *s3Client) PublicURL(bucket, key string) string {
	return PublicObjectURL(c.publicBaseURL, c.endpoint, c.region, bucket, key)
}

// PublicObjectURL builds the stable URL of an object. A configured public
// base URL wins, then a path-style custom endpoint, then the virtual-hosted
// AWS form.
func PublicObjectURL(publicBaseURL, endpoint, region, bucket, key string) string {
	escaped := escapeKey(key)
	switch {
	case publicBaseURL != "":
		return publicBaseURL + "/" + escaped
	case endpoint != "":
		return endpoint + "/" + bucket + "/" + escaped
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, escaped)
	}
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
