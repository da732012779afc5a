package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"invoice-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrDisabled = errors.New("object storage is not configured")

// Uploader writes objects to an S3 compatible bucket (AWS, R2, MinIO)
type Uploader struct {
	client        *s3.Client
	bucket        string
	region        string
	endpoint      string
	publicBaseURL string
}

// NewUploader builds an uploader from config. Without a bucket it is
// returned disabled and every Upload fails with ErrDisabled.
func NewUploader(ctx context.Context, cfg *config.Config) (*Uploader, error) {
	sc := cfg.Storage
	u := &Uploader{
		bucket:        sc.Bucket,
		region:        sc.Region,
		endpoint:      strings.TrimRight(sc.Endpoint, "/"),
		publicBaseURL: strings.TrimRight(sc.PublicBaseURL, "/"),
	}
	if sc.Bucket == "" {
		return u, nil
	}

	region := sc.Region
	if region == "" {
		region = "auto"
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if sc.AccessKey != "" && sc.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(sc.AccessKey, sc.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("configure object storage: %w", err)
	}

	u.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if u.endpoint != "" {
			o.BaseEndpoint = aws.String(u.endpoint)
			o.UsePathStyle = true
		}
	})
	return u, nil
}

func (u *Uploader) Enabled() bool {
	return u != nil && u.client != nil
}

// Upload stores body under key and returns the object's public URL
func (u *Uploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if !u.Enabled() {
		return "", ErrDisabled
	}

	// PutObject needs a seekable body to sign the payload
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return u.ObjectURL(key), nil
}

// ObjectURL is where a stored key can be fetched from
func (u *Uploader) ObjectURL(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	switch {
	case u.publicBaseURL != "":
		return u.publicBaseURL + "/" + escaped
	case u.endpoint != "":
		return u.endpoint + "/" + u.bucket + "/" + escaped
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, escaped)
	}
}

// InvoiceKey is the object key of an invoice PDF
func InvoiceKey(userID, invoiceNumber string) string {
	return fmt.Sprintf("invoices/%s/%s.pdf", userID, invoiceNumber)
}
