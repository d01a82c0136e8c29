package storage

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type BlobStore struct {
	client  *s3.Client
	presign *s3.PresignClient
}

func NewBlobStore(client *s3.Client) *BlobStore {
	return &BlobStore{
		client:  client,
		presign: s3.NewPresignClient(client),
	}
}

// Delete removes one object from the named bucket. The reference may be a
// bare object key or a full URL from a previous signed-URL response.
func (s *BlobStore) Delete(ctx context.Context, bucket, reference string) error {
	key := objectKey(reference, bucket)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return err
}

// SignedURL returns a presigned GET URL for the object and the time it
// expires.
func (s *BlobStore) SignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, time.Time, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", time.Time{}, err
	}
	return req.URL, time.Now().Add(ttl), nil
}

// objectKey strips the scheme, host, query string, and any leading bucket
// segment so both "img123" and
// "https://host/assets/img123?X-Amz-Signature=..." resolve to "img123".
func objectKey(reference, bucket string) string {
	if !strings.Contains(reference, "://") {
		return strings.TrimPrefix(strings.TrimPrefix(reference, "/"+bucket+"/"), "/")
	}
	u, err := url.Parse(reference)
	if err != nil {
		return reference
	}
	key := strings.TrimPrefix(u.Path, "/")
	key = strings.TrimPrefix(key, bucket+"/")
	return key
}
