// Package minio uploads exported artifacts to an S3-compatible bucket. A
// Store satisfies reporting.Sink.
package minio

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

const (
	defaultRegion  = "us-east-1"
	defaultBucket  = "bde-exports"
	defaultTimeout = 10 * time.Second
)

var (
	ErrStoreClosed = errors.New(errors.ErrCodeStorage, "object store is closed")
	ErrBadName     = errors.New(errors.ErrCodeValidation, "invalid object name")
)

// ObjectAPI is the part of *minio.Client the store calls.
type ObjectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type Config struct {
	Endpoint       string
	AccessKey      string
	SecretKey      string
	UseSSL         bool
	Region         string
	Bucket         string
	Prefix         string
	ConnectTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Region == "" {
		c.Region = defaultRegion
	}
	if c.Bucket == "" {
		c.Bucket = defaultBucket
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = defaultTimeout
	}
	return c
}

type Store struct {
	api    ObjectAPI
	cfg    Config
	logger logging.Logger
	closed atomic.Bool
}

// Open connects to cfg.Endpoint and creates the bucket if needed.
func Open(cfg Config, log logging.Logger) (*Store, error) {
	cfg = cfg.withDefaults()
	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "failed to create object store client").WithDetail(cfg.Endpoint)
	}

	s := NewStore(api, cfg, log)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()
	if err := s.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	s.logger.Info("object store ready", logging.String("endpoint", cfg.Endpoint), logging.String("bucket", cfg.Bucket))
	return s, nil
}

// NewStore wraps api without touching the network.
func NewStore(api ObjectAPI, cfg Config, log logging.Logger) *Store {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Store{api: api, cfg: cfg.withDefaults(), logger: log.Named("minio")}
}

func (s *Store) Bucket() string { return s.cfg.Bucket }

func (s *Store) EnsureBucket(ctx context.Context) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	exists, err := s.api.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "object store unreachable").WithDetail(s.cfg.Endpoint)
	}
	if exists {
		return nil
	}
	if err := s.api.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorage, "failed to create bucket").WithDetail(s.cfg.Bucket)
	}
	s.logger.Info("bucket created", logging.String("bucket", s.cfg.Bucket))
	return nil
}

// Ping checks that the bucket is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	if _, err := s.api.BucketExists(ctx, s.cfg.Bucket); err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "object store unreachable").WithDetail(s.cfg.Endpoint)
	}
	return nil
}

// Put uploads data as <prefix>/<name> and returns its s3:// location.
func (s *Store) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if name == "" || strings.Contains(name, "..") {
		return "", ErrBadName.WithDetail(name)
	}
	if s.closed.Load() {
		return "", ErrStoreClosed
	}

	key := path.Join(s.cfg.Prefix, name)
	info, err := s.api.PutObject(ctx, s.cfg.Bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorage, "upload failed").WithDetail(key)
	}
	s.logger.Debug("artifact uploaded", logging.String("key", key), logging.Int64("size", info.Size))
	return "s3://" + s.cfg.Bucket + "/" + key, nil
}

// Close only blocks further calls; minio-go keeps no connection to release.
func (s *Store) Close() error {
	s.closed.Store(true)
	return nil
}

//Personal.AI order the ending
