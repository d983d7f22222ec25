package uploads_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/goliatone/go-site-cms/internal/uploads"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*manager.UploadOutput)
	return out, args.Error(1)
}

func TestS3StorePut(t *testing.T) {
	uploader := &mockUploader{}
	uploader.On("Upload", mock.Anything, mock.MatchedBy(func(input *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(input.Body)
		return aws.ToString(input.Bucket) == "site-media" &&
			aws.ToString(input.Key) == "media/2025/02/logo-k1.svg" &&
			aws.ToString(input.ContentType) == "image/svg+xml" &&
			string(body) == "<svg/>"
	})).Return(&manager.UploadOutput{}, nil).Once()

	store, err := uploads.NewS3Store(context.Background(), uploads.S3Config{
		Bucket:    "site-media",
		KeyPrefix: "media",
		URLPrefix: "https://cdn.example.com/",
	},
		uploads.WithUploader(uploader),
		uploads.WithS3Clock(fixedNow),
		uploads.WithS3Suffix(func() string { return "k1" }),
	)
	require.NoError(t, err)

	path, err := store.Put(context.Background(), "logo.svg", strings.NewReader("<svg/>"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/media/2025/02/logo-k1.svg", path)
	uploader.AssertExpectations(t)
}

func TestS3StoreDefaultsPathToBucket(t *testing.T) {
	uploader := &mockUploader{}
	uploader.On("Upload", mock.Anything, mock.Anything).Return(&manager.UploadOutput{}, nil)

	store, err := uploads.NewS3Store(context.Background(), uploads.S3Config{Bucket: "assets"},
		uploads.WithUploader(uploader),
		uploads.WithS3Clock(fixedNow),
		uploads.WithS3Suffix(func() string { return "z" }),
	)
	require.NoError(t, err)

	path, err := store.Put(context.Background(), "doc.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "/assets/2025/02/doc-z.pdf", path)
}

func TestS3StoreWrapsUploadErrors(t *testing.T) {
	uploader := &mockUploader{}
	boom := errors.New("access denied")
	uploader.On("Upload", mock.Anything, mock.Anything).Return(nil, boom)

	store, err := uploads.NewS3Store(context.Background(), uploads.S3Config{Bucket: "assets"}, uploads.WithUploader(uploader))
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "a.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, boom)
}

func TestS3StoreRequiresBucket(t *testing.T) {
	_, err := uploads.NewS3Store(context.Background(), uploads.S3Config{})
	assert.Error(t, err)
}
