package publish

import (
	"context"
	"errors"
	"io"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func TestS3Uploader_Upload(t *testing.T) {
	client := new(mockS3)
	var body []byte
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		if awssdk.ToString(in.Bucket) != "reports" || awssdk.ToString(in.Key) != "daily/beats.csv" {
			return false
		}
		body, _ = io.ReadAll(in.Body)
		return awssdk.ToString(in.ContentType) == "text/csv; charset=utf-8" &&
			awssdk.ToInt64(in.ContentLength) == 8
	})).Return(&s3.PutObjectOutput{}, nil)

	err := NewS3Uploader(client).Upload(context.Background(), Object{
		Bucket:      "reports",
		Key:         "daily/beats.csv",
		ContentType: "text/csv; charset=utf-8",
		Body:        []byte("act_no\r\n"),
	})

	require.NoError(t, err)
	assert.Equal(t, "act_no\r\n", string(body))
	client.AssertExpectations(t)
}

func TestS3Uploader_Errors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		client := new(mockS3)
		err := NewS3Uploader(client).Upload(context.Background(), Object{Bucket: "reports"})
		assert.Error(t, err)
		client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
	})

	t.Run("put fails", func(t *testing.T) {
		client := new(mockS3)
		client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

		err := NewS3Uploader(client).Upload(context.Background(), Object{Bucket: "reports", Key: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "s3://reports/k")
		assert.Contains(t, err.Error(), "access denied")
	})
}
