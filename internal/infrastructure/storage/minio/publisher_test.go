package minio

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/drugflat/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/drugflat/pkg/errors"
)

type PublisherTestSuite struct {
	suite.Suite
	api       *MockMinIOAPI
	publisher *Publisher
}

func (s *PublisherTestSuite) SetupTest() {
	s.api = new(MockMinIOAPI)
	client := &MinIOClient{
		client: s.api,
		config: &MinIOConfig{Bucket: "tables", Prefix: "/drugbank/"},
		logger: logging.NewNopLogger(),
	}
	s.publisher = NewPublisher(client, nil)
}

func (s *PublisherTestSuite) TestObjectKey() {
	assert.Equal(s.T(), "drugbank/ab12cd34/drugs.csv", s.publisher.ObjectKey("ab12cd34", "/tmp/out/drugs.csv"))
	assert.Equal(s.T(), "drugbank/schema.yaml", s.publisher.ObjectKey("", "schema.yaml"))

	s.publisher.client.config.Prefix = ""
	assert.Equal(s.T(), "run/drugs.csv", s.publisher.ObjectKey("run", "drugs.csv"))
}

func (s *PublisherTestSuite) TestUpload() {
	s.api.On("FPutObject", mock.Anything, "tables", "drugbank/run1/drugs.csv", "/out/drugs.csv",
		mock.MatchedBy(func(o minio.PutObjectOptions) bool {
			return o.ContentType == "text/csv" && o.UserMetadata["run-id"] == "run1"
		})).Return(minio.UploadInfo{Size: 120, ETag: "e1"}, nil)
	s.api.On("FPutObject", mock.Anything, "tables", "drugbank/run1/schema.yaml", "/out/schema.yaml",
		mock.MatchedBy(func(o minio.PutObjectOptions) bool { return o.ContentType == "application/yaml" })).
		Return(minio.UploadInfo{Size: 40, ETag: "e2"}, nil)

	res, err := s.publisher.Upload(context.Background(), "run1", []string{"/out/drugs.csv", "/out/schema.yaml"})
	s.Require().NoError(err)
	s.Require().Len(res, 2)
	assert.Equal(s.T(), int64(120), res[0].Size)
	assert.Equal(s.T(), "e2", res[1].ETag)
	s.api.AssertExpectations(s.T())
}

func (s *PublisherTestSuite) TestUpload_StopsAtFirstFailure() {
	s.api.On("FPutObject", mock.Anything, "tables", "drugbank/r/a.csv", "a.csv", mock.Anything).
		Return(minio.UploadInfo{Size: 1}, nil)
	s.api.On("FPutObject", mock.Anything, "tables", "drugbank/r/b.csv", "b.csv", mock.Anything).
		Return(minio.UploadInfo{}, stderrors.New("disk full"))

	res, err := s.publisher.Upload(context.Background(), "r", []string{"a.csv", "b.csv", "c.csv"})
	s.Require().Error(err)
	assert.True(s.T(), errors.IsCode(err, errors.ErrCodeStorageUploadFailed))
	assert.Len(s.T(), res, 1)
	s.api.AssertNumberOfCalls(s.T(), "FPutObject", 2)
}

func (s *PublisherTestSuite) TestUpload_Canceled() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.publisher.Upload(ctx, "r", []string{"a.csv"})
	assert.True(s.T(), errors.IsCode(err, errors.ErrCodeCanceled))
	s.api.AssertNotCalled(s.T(), "FPutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *PublisherTestSuite) TestExists() {
	s.api.On("StatObject", mock.Anything, "tables", "drugbank/r/a.csv", mock.Anything).
		Return(minio.ObjectInfo{Key: "drugbank/r/a.csv"}, nil)
	s.api.On("StatObject", mock.Anything, "tables", "drugbank/r/b.csv", mock.Anything).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})

	ok, err := s.publisher.Exists(context.Background(), "r", "a.csv")
	s.Require().NoError(err)
	assert.True(s.T(), ok)

	ok, err = s.publisher.Exists(context.Background(), "r", "b.csv")
	s.Require().NoError(err)
	assert.False(s.T(), ok)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv", contentType("x.CSV"))
	assert.Equal(t, "text/plain; version=0.0.4", contentType("metrics.prom"))
	assert.Equal(t, "application/octet-stream", contentType("x.bin"))
}

func TestPublisherTestSuite(t *testing.T) {
	suite.Run(t, new(PublisherTestSuite))
}
