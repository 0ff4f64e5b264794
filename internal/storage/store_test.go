package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelynx/photolala-deletion/internal/s3x/s3xtest"
)

func TestStore_ListPrefix_Paginated(t *testing.T) {
	calls := 0
	mock := &s3xtest.MockS3{
		ListObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			calls++
			assert.Equal(t, "photolala-dev", aws.ToString(params.Bucket))
			assert.Equal(t, "photos/u1/", aws.ToString(params.Prefix))

			switch calls {
			case 1:
				assert.Nil(t, params.ContinuationToken)
				return &s3.ListObjectsV2Output{
					Contents: []types.Object{
						{Key: aws.String("photos/u1/a.jpg")},
						{Key: aws.String("photos/u1/b.jpg")},
					},
					IsTruncated:           aws.Bool(true),
					NextContinuationToken: aws.String("token-1"),
				}, nil
			case 2:
				assert.Equal(t, "token-1", aws.ToString(params.ContinuationToken))
				return &s3.ListObjectsV2Output{
					Contents: []types.Object{
						{Key: aws.String("photos/u1/c.jpg")},
					},
					IsTruncated: aws.Bool(false),
				}, nil
			default:
				t.Fatalf("unexpected call %d", calls)
				return nil, nil
			}
		},
	}

	store := New(mock, "photolala-dev")
	keys, err := store.ListPrefix(context.Background(), "photos/u1/")

	require.NoError(t, err)
	assert.Equal(t, []string{"photos/u1/a.jpg", "photos/u1/b.jpg", "photos/u1/c.jpg"}, keys)
	assert.Equal(t, 2, calls)
}

func TestStore_ListPrefix_Error(t *testing.T) {
	mock := &s3xtest.MockS3{
		ListObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			return nil, errors.New("throttled")
		},
	}

	store := New(mock, "photolala-dev")
	_, err := store.ListPrefix(context.Background(), "photos/u1/")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.list")
}

func TestStore_GetString(t *testing.T) {
	mock := &s3xtest.MockS3{
		GetObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			assert.Equal(t, "identities/apple:ext1", aws.ToString(params.Key))
			return &s3.GetObjectOutput{
				Body: io.NopCloser(strings.NewReader("user-123\n")),
			}, nil
		},
	}

	store := New(mock, "photolala-dev")
	content, err := store.GetString(context.Background(), "identities/apple:ext1")

	require.NoError(t, err)
	assert.Equal(t, "user-123", content)
}

func TestStore_Get_NotFound(t *testing.T) {
	mock := &s3xtest.MockS3{
		GetObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			return nil, &types.NoSuchKey{}
		},
	}

	store := New(mock, "photolala-dev")
	_, err := store.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ETag_StripsQuotes(t *testing.T) {
	mock := &s3xtest.MockS3{
		HeadObjectFunc: func(ctx context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
			return &s3.HeadObjectOutput{ETag: aws.String(`"abc123"`)}, nil
		},
	}

	store := New(mock, "photolala-dev")
	etag, err := store.ETag(context.Background(), "some/key")

	require.NoError(t, err)
	assert.Equal(t, "abc123", etag)
}

func TestStore_DeleteBatch(t *testing.T) {
	mock := &s3xtest.MockS3{
		DeleteObjectsFunc: func(ctx context.Context, params *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
			require.Len(t, params.Delete.Objects, 3)
			return &s3.DeleteObjectsOutput{
				Deleted: []types.DeletedObject{
					{Key: params.Delete.Objects[0].Key},
					{Key: params.Delete.Objects[1].Key},
				},
				Errors: []types.Error{
					{
						Key:     params.Delete.Objects[2].Key,
						Code:    aws.String("AccessDenied"),
						Message: aws.String("no"),
					},
				},
			}, nil
		},
	}

	store := New(mock, "photolala-dev")
	deleted, failures, err := store.DeleteBatch(context.Background(), []string{"a", "b", "c"})

	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	require.Len(t, failures, 1)
	assert.Equal(t, "c", failures[0].Key)
	assert.Equal(t, "AccessDenied", failures[0].Code)
}

func TestStore_DeleteBatch_Empty(t *testing.T) {
	store := New(&s3xtest.MockS3{}, "photolala-dev")
	deleted, failures, err := store.DeleteBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.Empty(t, failures)
}

func TestStore_DeleteBatch_TooManyKeys(t *testing.T) {
	keys := make([]string, MaxDeleteBatchSize+1)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
	}

	store := New(&s3xtest.MockS3{}, "photolala-dev")
	_, _, err := store.DeleteBatch(context.Background(), keys)

	assert.ErrorIs(t, err, ErrTooManyKeys)
}

func TestStore_PutIfAbsent_SetsCondition(t *testing.T) {
	mock := &s3xtest.MockS3{
		PutObjectFunc: func(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			assert.Equal(t, "*", aws.ToString(params.IfNoneMatch))
			return &s3.PutObjectOutput{}, nil
		},
	}

	store := New(mock, "photolala-dev")
	err := store.PutIfAbsent(context.Background(), "locks/deletions/u1.json", []byte("{}"), "application/json")
	require.NoError(t, err)
}
