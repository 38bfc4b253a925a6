package storage

import (
	"context"
	"mime/multipart"
)

// ImageUploader defines the interface for uploading post images.
// This interface allows for easy mocking in tests
type ImageUploader interface {
	UploadPostImage(ctx context.Context, file multipart.File, header *multipart.FileHeader, postID uint) (*UploadResult, error)
	DeleteImage(ctx context.Context, url string) (bool, error)
}

// Ensure S3Uploader implements ImageUploader
var _ ImageUploader = (*S3Uploader)(nil)
