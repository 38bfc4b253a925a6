package storage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/blogworks/postapi/internal/config"
	"github.com/blogworks/postapi/internal/telemetry"
	"github.com/google/uuid"
)

// MaxImageSize is the largest post image accepted for upload
const MaxImageSize = 5 << 20

const postImagePrefix = "images/posts/"

var (
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image exceeds maximum size")
	ErrEmptyImage       = errors.New("image is empty")
)

// objectAPI is the subset of the S3 client used by the uploader
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Uploader handles post image uploads to AWS S3
type S3Uploader struct {
	client  objectAPI
	bucket  string
	region  string
	baseURL string
	now     func() time.Time
}

// UploadResult contains the result of an S3 upload
type UploadResult struct {
	Key    string `json:"key"`
	URL    string `json:"url"`
	Bucket string `json:"bucket"`
	Region string `json:"region"`
	Size   int64  `json:"size"`
}

// NewS3Uploader creates a new S3 uploader from the storage settings.
// Public URLs use CDNBaseURL when set and the bucket endpoint otherwise.
func NewS3Uploader(ctx context.Context, cfg config.StorageConfig) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newUploader(s3.NewFromConfig(awsCfg), cfg), nil
}

func newUploader(client objectAPI, cfg config.StorageConfig) *S3Uploader {
	baseURL := cfg.CDNBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &S3Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		now:     time.Now,
	}
}

// UploadPostImage stores an image under images/posts/{postID}/{uuid}{ext}
func (u *S3Uploader) UploadPostImage(ctx context.Context, file multipart.File, header *multipart.FileHeader, postID uint) (*UploadResult, error) {
	if header.Size <= 0 {
		return nil, ErrEmptyImage
	}
	if header.Size > MaxImageSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrImageTooLarge, header.Size, MaxImageSize)
	}

	extension := strings.ToLower(filepath.Ext(header.Filename))
	contentType := getContentTypeForImage(extension)
	if contentType == "application/octet-stream" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedImage, extension)
	}

	key := fmt.Sprintf("%s%d/%s%s", postImagePrefix, postID, uuid.New().String(), extension)

	ctx, span := telemetry.TraceS3Call(ctx, "PutObject", u.bucket, key)
	defer span.End()

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentLength: aws.Int64(header.Size),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("max-age=86400"),
		Metadata: map[string]string{
			"post-id":           strconv.FormatUint(uint64(postID), 10),
			"original-filename": header.Filename,
			"upload-timestamp":  u.now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		telemetry.RecordServiceError(span, "s3", err)
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		Key:    key,
		URL:    u.PublicURL(key),
		Bucket: u.bucket,
		Region: u.region,
		Size:   header.Size,
	}, nil
}

// PublicURL returns the address an object is served from
func (u *S3Uploader) PublicURL(key string) string {
	return u.baseURL + "/" + key
}

// ObjectKey returns the key of a post image this uploader serves at url
func (u *S3Uploader) ObjectKey(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, u.baseURL+"/")
	if !ok || !strings.HasPrefix(key, postImagePrefix) {
		return "", false
	}
	return key, true
}

// DeleteImage removes the object behind url. URLs this uploader did not
// produce are left alone and report false.
func (u *S3Uploader) DeleteImage(ctx context.Context, url string) (bool, error) {
	key, ok := u.ObjectKey(url)
	if !ok {
		return false, nil
	}
	if err := u.DeleteFile(ctx, key); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteFile deletes a file from S3
func (u *S3Uploader) DeleteFile(ctx context.Context, key string) error {
	ctx, span := telemetry.TraceS3Call(ctx, "DeleteObject", u.bucket, key)
	defer span.End()

	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		telemetry.RecordServiceError(span, "s3", err)
		return fmt.Errorf("failed to delete from S3: %w", err)
	}

	return nil
}

// CheckBucketAccess verifies that we can access the S3 bucket
func (u *S3Uploader) CheckBucketAccess(ctx context.Context) error {
	ctx, span := telemetry.TraceS3Call(ctx, "HeadBucket", u.bucket, "")
	defer span.End()

	_, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(u.bucket),
	})
	if err != nil {
		telemetry.RecordServiceError(span, "s3", err)
		return fmt.Errorf("cannot access S3 bucket %s: %w", u.bucket, err)
	}

	return nil
}

// getContentTypeForImage returns the MIME type of a supported image extension
func getContentTypeForImage(extension string) string {
	switch strings.ToLower(extension) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
