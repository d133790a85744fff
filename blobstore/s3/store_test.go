package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bitspin/blobstore"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.HeadObjectOutput)
	return out, args.Error(1)
}

func (m *mockClient) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.GetObjectOutput)
	return out, args.Error(1)
}

func (m *mockClient) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func (m *mockClient) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.DeleteObjectOutput)
	return out, args.Error(1)
}

func (m *mockClient) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.ListObjectsV2Output)
	return out, args.Error(1)
}

func (m *mockClient) UploadPart(ctx context.Context, in *s3.UploadPartInput, _ ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.UploadPartOutput)
	return out, args.Error(1)
}

func (m *mockClient) CreateMultipartUpload(ctx context.Context, in *s3.CreateMultipartUploadInput, _ ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.CreateMultipartUploadOutput)
	return out, args.Error(1)
}

func (m *mockClient) CompleteMultipartUpload(ctx context.Context, in *s3.CompleteMultipartUploadInput, _ ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.CompleteMultipartUploadOutput)
	return out, args.Error(1)
}

func (m *mockClient) AbortMultipartUpload(ctx context.Context, in *s3.AbortMultipartUploadInput, _ ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.AbortMultipartUploadOutput)
	return out, args.Error(1)
}

func keyIs(bucket, key string) func(in *s3.HeadObjectInput) bool {
	return func(in *s3.HeadObjectInput) bool {
		return aws.ToString(in.Bucket) == bucket && aws.ToString(in.Key) == key
	}
}

func TestStore_Open(t *testing.T) {
	client := new(mockClient)
	store := NewStore(client, "bucket", "matrices/")
	ctx := context.Background()

	client.On("HeadObject", mock.Anything, mock.MatchedBy(keyIs("bucket", "matrices/missing.bsz"))).
		Return(nil, &types.NotFound{}).Once()
	client.On("HeadObject", mock.Anything, mock.MatchedBy(keyIs("bucket", "matrices/in.bsz"))).
		Return(&s3.HeadObjectOutput{ContentLength: aws.Int64(100)}, nil).Once()
	client.On("HeadObject", mock.Anything, mock.MatchedBy(keyIs("bucket", "matrices/denied"))).
		Return(nil, errors.New("access denied")).Once()

	_, err := store.Open(ctx, "missing.bsz")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	b, err := store.Open(ctx, "in.bsz")
	require.NoError(t, err)
	assert.Equal(t, int64(100), b.Size())
	require.NoError(t, b.Close())

	_, err = store.Open(ctx, "denied")
	require.Error(t, err)
	assert.NotErrorIs(t, err, blobstore.ErrNotFound)

	client.AssertExpectations(t)
}

func TestStore_Put(t *testing.T) {
	client := new(mockClient)
	store := NewStore(client, "bucket", "")

	data := []byte{0, 0, 0, 0}
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		// CRC32C of four zero bytes is 0x48674bc7.
		return aws.ToString(in.Key) == "out.bsm" &&
			aws.ToInt64(in.ContentLength) == 4 &&
			aws.ToString(in.ChecksumCRC32C) == "SGdLxw=="
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	require.NoError(t, store.Put(context.Background(), "out.bsm", data))
	client.AssertExpectations(t)
}

func TestStore_PutWithoutChecksum(t *testing.T) {
	client := new(mockClient)
	store := NewStore(client, "bucket", "", WithUploadConfig(UploadConfig{}))

	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return in.ChecksumCRC32C == nil
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	require.NoError(t, store.Put(context.Background(), "out.bsm", []byte("x")))
	client.AssertExpectations(t)
}

func TestStore_Create(t *testing.T) {
	client := new(mockClient)
	store := NewStore(client, "bucket", "prefix")

	var uploaded []byte
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Key) == "prefix/rotated.bsz" &&
			in.ChecksumAlgorithm == types.ChecksumAlgorithmCrc32c
	})).Run(func(args mock.Arguments) {
		in := args.Get(1).(*s3.PutObjectInput)
		uploaded, _ = io.ReadAll(in.Body)
	}).Return(&s3.PutObjectOutput{}, nil).Once()

	w, err := store.Create(context.Background(), "rotated.bsz")
	require.NoError(t, err)
	_, err = w.Write([]byte("rotated "))
	require.NoError(t, err)
	_, err = w.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	assert.Equal(t, "rotated payload", string(uploaded))
	client.AssertExpectations(t)
}

func TestStore_CreateFailure(t *testing.T) {
	client := new(mockClient)
	store := NewStore(client, "bucket", "")

	client.On("PutObject", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		_, _ = io.ReadAll(args.Get(1).(*s3.PutObjectInput).Body)
	}).Return(nil, errors.New("slow down")).Once()

	w, err := store.Create(context.Background(), "x")
	require.NoError(t, err)
	_, _ = w.Write([]byte("data"))
	assert.ErrorContains(t, w.Close(), "slow down")
}

func TestStore_Delete(t *testing.T) {
	client := new(mockClient)
	store := NewStore(client, "bucket", "prefix")

	client.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return aws.ToString(in.Key) == "prefix/gone"
	})).Return(&s3.DeleteObjectOutput{}, nil).Once()
	client.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return aws.ToString(in.Key) == "prefix/missing"
	})).Return(nil, &types.NoSuchKey{}).Once()

	require.NoError(t, store.Delete(context.Background(), "gone"))
	require.NoError(t, store.Delete(context.Background(), "missing"))
	client.AssertExpectations(t)
}

func TestStore_List(t *testing.T) {
	client := new(mockClient)
	store := NewStore(client, "bucket", "prefix/")

	client.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return aws.ToString(in.Prefix) == "prefix/tier" && in.ContinuationToken == nil
	})).Return(&s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("prefix/tier-02.bsz")},
			{Key: aws.String("prefix/tier-01.bsz")},
		},
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("page2"),
	}, nil).Once()
	client.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return aws.ToString(in.ContinuationToken) == "page2"
	})).Return(&s3.ListObjectsV2Output{
		Contents:    []types.Object{{Key: aws.String("prefix/tier-00.bsz")}},
		IsTruncated: aws.Bool(false),
	}, nil).Once()

	names, err := store.List(context.Background(), "tier")
	require.NoError(t, err)
	assert.Equal(t, []string{"tier-00.bsz", "tier-01.bsz", "tier-02.bsz"}, names)
	client.AssertExpectations(t)
}

func rangeIs(r string) func(in *s3.GetObjectInput) bool {
	return func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Key) == "k" && aws.ToString(in.Range) == r
	}
}

func body(s string) *s3.GetObjectOutput {
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(s))}
}

func TestBlob_ReadAt(t *testing.T) {
	client := new(mockClient)
	b := &blob{client: client, bucket: "b", key: "k", size: 10}
	ctx := context.Background()

	client.On("GetObject", mock.Anything, mock.MatchedBy(rangeIs("bytes=0-4"))).Return(body("hello"), nil).Once()
	client.On("GetObject", mock.Anything, mock.MatchedBy(rangeIs("bytes=7-9"))).Return(body("rld"), nil).Once()

	buf := make([]byte, 5)
	n, err := b.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))

	// Reads past the end are clipped and report EOF.
	n, err = b.ReadAt(ctx, buf, 7)
	assert.Equal(t, 3, n)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "rld", string(buf[:n]))

	n, err = b.ReadAt(ctx, buf, 10)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)

	client.AssertExpectations(t)
}

func TestBlob_ReadRange(t *testing.T) {
	client := new(mockClient)
	b := &blob{client: client, bucket: "b", key: "k", size: 10}

	client.On("GetObject", mock.Anything, mock.MatchedBy(rangeIs("bytes=2-9"))).Return(body("llo Worl"), nil).Once()

	r, err := b.ReadRange(context.Background(), 2, 100)
	require.NoError(t, err)
	defer r.Close()

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "llo Worl", string(got))

	empty, err := b.ReadRange(context.Background(), 10, 5)
	require.NoError(t, err)
	got, err = io.ReadAll(empty)
	require.NoError(t, err)
	assert.Empty(t, got)

	client.AssertExpectations(t)
}

func TestBlob_NewReader(t *testing.T) {
	client := new(mockClient)
	store := NewStore(client, "b", "")
	ctx := context.Background()

	client.On("HeadObject", mock.Anything, mock.Anything).
		Return(&s3.HeadObjectOutput{ContentLength: aws.Int64(11)}, nil).Once()
	client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Range) == "bytes=0-10"
	})).Return(body("hello world"), nil).Once()

	b, err := store.Open(ctx, "k")
	require.NoError(t, err)

	r := blobstore.NewReader(ctx, b)
	buf := make([]byte, 64)
	n, err := io.ReadFull(r, buf[:11])
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(buf[:n]))
}

func TestChecksumCRC32C(t *testing.T) {
	assert.Equal(t, "AAAAAA==", checksumCRC32C(nil))
	assert.Equal(t, "SGdLxw==", checksumCRC32C([]byte{0, 0, 0, 0}))
}
