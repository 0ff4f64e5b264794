// Package storage provides a bucket-scoped wrapper over the S3 client with
// the primitives the deletion workflow needs: paginated listing, small-object
// reads and writes, conditional writes, and batch deletes.
package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/codelynx/photolala-deletion/internal/s3x"
)

// MaxDeleteBatchSize is the S3 DeleteObjects per-request limit.
const MaxDeleteBatchSize = 1000

// Store is a bucket-scoped object store.
type Store struct {
	api    s3x.S3API
	bucket string
}

// New returns a Store bound to bucket.
func New(api s3x.S3API, bucket string) *Store {
	return &Store{api: api, bucket: bucket}
}

// Bucket returns the bucket the store is bound to.
func (s *Store) Bucket() string {
	return s.bucket
}

// ListPrefix returns the keys of every object under prefix, consuming all
// result pages in order.
func (s *Store) ListPrefix(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	var continuationToken *string

	for {
		input := &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: continuationToken,
		}

		out, err := s.api.ListObjectsV2(ctx, input)
		if err != nil {
			return keys, newError("list", prefix, err)
		}

		for _, obj := range out.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}

		if !aws.ToBool(out.IsTruncated) {
			return keys, nil
		}
		continuationToken = out.NextContinuationToken
	}
}

// Get reads an object into memory. Missing objects yield ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, newError("get", key, ErrNotFound)
		}
		return nil, newError("get", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, newError("get", key, err)
	}
	return data, nil
}

// GetString reads an object and returns its content with surrounding
// whitespace trimmed.
func (s *Store) GetString(ctx context.Context, key string) (string, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Put writes an object.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.api.PutObject(ctx, input); err != nil {
		return newError("put", key, err)
	}
	return nil
}

// PutIfAbsent writes an object only if no object exists at key, using an
// If-None-Match conditional write. Losing the condition yields
// ErrPreconditionFailed.
func (s *Store) PutIfAbsent(ctx context.Context, key string, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		IfNoneMatch: aws.String("*"),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.api.PutObject(ctx, input); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
			return newError("putIfAbsent", key, ErrPreconditionFailed)
		}
		return newError("putIfAbsent", key, err)
	}
	return nil
}

// ETag returns the entity tag of an object with surrounding quotes stripped.
func (s *Store) ETag(ctx context.Context, key string) (string, error) {
	out, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", newError("etag", key, err)
	}
	return strings.Trim(aws.ToString(out.ETag), `"`), nil
}

// Delete removes a single object. Deleting an absent object is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return newError("delete", key, err)
	}
	return nil
}

// DeleteFailure describes a single key the store refused to delete.
type DeleteFailure struct {
	Key     string
	Code    string
	Message string
}

// DeleteBatch removes up to MaxDeleteBatchSize objects in one request.
// It returns the count of confirmed deletions and the per-key failures
// reported by the store; a request-level failure returns an error instead.
func (s *Store) DeleteBatch(ctx context.Context, keys []string) (int, []DeleteFailure, error) {
	if len(keys) == 0 {
		return 0, nil, nil
	}
	if len(keys) > MaxDeleteBatchSize {
		return 0, nil, newError("deleteBatch", "", ErrTooManyKeys)
	}

	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
	}

	out, err := s.api.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{Objects: objects},
	})
	if err != nil {
		return 0, nil, newError("deleteBatch", "", err)
	}

	var failures []DeleteFailure
	for _, e := range out.Errors {
		failures = append(failures, DeleteFailure{
			Key:     aws.ToString(e.Key),
			Code:    aws.ToString(e.Code),
			Message: aws.ToString(e.Message),
		})
	}

	return len(out.Deleted), failures, nil
}
