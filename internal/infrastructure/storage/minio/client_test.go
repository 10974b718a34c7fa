package minio

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/drugflat/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/drugflat/pkg/errors"
)

// MockMinIOAPI is a testify mock of MinIOAPI.
type MockMinIOAPI struct {
	mock.Mock
}

func (m *MockMinIOAPI) ListBuckets(ctx context.Context) ([]minio.BucketInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).([]minio.BucketInfo), args.Error(1)
}

func (m *MockMinIOAPI) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *MockMinIOAPI) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	args := m.Called(ctx, bucketName, opts)
	return args.Error(0)
}

func (m *MockMinIOAPI) FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, filePath, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *MockMinIOAPI) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Get(0).(minio.ObjectInfo), args.Error(1)
}

type ClientTestSuite struct {
	suite.Suite
	api *MockMinIOAPI
	log logging.Logger
}

func (s *ClientTestSuite) SetupTest() {
	s.api = new(MockMinIOAPI)
	s.log = logging.NewNopLogger()
}

func (s *ClientTestSuite) TestApplyDefaults() {
	cfg := &MinIOConfig{}
	applyDefaults(cfg)

	assert.Equal(s.T(), "us-east-1", cfg.Region)
	assert.Equal(s.T(), "drugflat", cfg.Bucket)
	assert.Equal(s.T(), 10*time.Second, cfg.ConnectTimeout)
}

func (s *ClientTestSuite) TestNewClient_ExistingBucket() {
	s.api.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{}, nil)
	s.api.On("BucketExists", mock.Anything, "tables").Return(true, nil)

	c, err := newClient(context.Background(), s.api, &MinIOConfig{Endpoint: "localhost:9000", Bucket: "tables"}, s.log)
	s.Require().NoError(err)
	assert.Equal(s.T(), "tables", c.Bucket())
	assert.Equal(s.T(), s.api, c.GetClient())
	s.api.AssertNotCalled(s.T(), "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ClientTestSuite) TestNewClient_CreatesBucket() {
	s.api.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{}, nil)
	s.api.On("BucketExists", mock.Anything, "drugflat").Return(false, nil)
	s.api.On("MakeBucket", mock.Anything, "drugflat", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)

	_, err := newClient(context.Background(), s.api, &MinIOConfig{Region: "eu-west-1"}, s.log)
	s.Require().NoError(err)
	s.api.AssertExpectations(s.T())
}

func (s *ClientTestSuite) TestNewClient_Unreachable() {
	s.api.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo(nil), stderrors.New("connection refused"))

	_, err := newClient(context.Background(), s.api, &MinIOConfig{Endpoint: "nowhere:9000"}, s.log)
	s.Require().Error(err)
	assert.True(s.T(), errors.IsCode(err, errors.ErrCodeStorageUnavailable))
}

func (s *ClientTestSuite) TestEnsureBucket_MakeFails() {
	s.api.On("BucketExists", mock.Anything, "drugflat").Return(false, nil)
	s.api.On("MakeBucket", mock.Anything, "drugflat", mock.Anything).Return(stderrors.New("denied"))

	c := &MinIOClient{client: s.api, config: &MinIOConfig{Bucket: "drugflat"}, logger: s.log}
	err := c.EnsureBucket(context.Background())
	s.Require().Error(err)
	assert.True(s.T(), errors.IsCode(err, errors.ErrCodeStorageUnavailable))
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}
