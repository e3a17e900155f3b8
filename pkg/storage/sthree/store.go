// Package sthree provides an AWS S3 backed object store.
package sthree

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/obproject/obproject/pkg/storage"
	"github.com/obproject/obproject/pkg/storage/status"
	"go.uber.org/zap"
)

// PageSize is the maximum number of keys fetched in one listing call
const PageSize = 1000

// Option is a functor to pass optional parameters to the s3 store
type Option func(*s3FS)

// Bucket sets the bucket for this store
func Bucket(bucket string) Option {
	return func(fs *s3FS) {
		fs.bucket = bucket
	}
}

// AWSConfig sets the AWS configuration (region, credentials, ...)
func AWSConfig(cfg *aws.Config) Option {
	return func(fs *s3FS) {
		fs.awsConfig = cfg
	}
}

// Logger specifies a logger for this store
func Logger(logger *zap.Logger) Option {
	return func(fs *s3FS) {
		if logger != nil {
			fs.l = logger
		}
	}
}

// New builds a store backed by an S3 bucket
func New(opts ...Option) storage.Store {
	fs := &s3FS{
		l: zap.NewNop(),
	}
	for _, apply := range opts {
		apply(fs)
	}
	fs.s3 = s3.New(session.Must(session.NewSession(fs.awsConfig)))
	fs.uploader = s3manager.NewUploaderWithClient(fs.s3)
	return fs
}

type s3FS struct {
	bucket    string
	awsConfig *aws.Config
	s3        *s3.S3
	uploader  *s3manager.Uploader
	l         *zap.Logger
}

func (s *s3FS) String() string {
	return "s3://" + s.bucket
}

func (s *s3FS) Has(ctx context.Context, key string) (bool, error) {
	_, err := s.s3.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if rerr, ok := err.(awserr.RequestFailure); ok && rerr.StatusCode() == 404 {
			return false, nil
		}
		return false, toSentinelErrors(err)
	}
	return true, nil
}

func (s *s3FS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.l.Debug("s3 get", zap.String("key", key))
	obj, err := s.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, toSentinelErrors(err)
	}
	return obj.Body, nil
}

func (s *s3FS) Put(ctx context.Context, key string, rdr io.Reader, exclusive bool) error {
	s.l.Debug("s3 put", zap.String("key", key), zap.Bool("exclusive", exclusive))
	if exclusive {
		// S3 exposes no conditional writes through this SDK: best effort only
		has, err := s.Has(ctx, key)
		if err != nil {
			return err
		}
		if has {
			return status.ErrExists
		}
	}
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   rdr,
	})
	return toSentinelErrors(err)
}

func (s *s3FS) Delete(ctx context.Context, key string) error {
	_, err := s.s3.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return toSentinelErrors(err)
}

func (s *s3FS) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	eachPage := func(page *s3.ListObjectsV2Output, more bool) bool {
		for _, obj := range page.Contents {
			if key := aws.StringValue(obj.Key); key != "" {
				keys = append(keys, key)
			}
		}
		return true
	}
	params := &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if err := s.s3.ListObjectsV2PagesWithContext(ctx, params, eachPage); err != nil {
		return nil, toSentinelErrors(err)
	}
	return keys, nil
}

func (s *s3FS) KeysPrefix(ctx context.Context, pageToken, prefix, delimiter string, count int) ([]string, string, error) {
	if count <= 0 || count > PageSize {
		count = PageSize
	}
	params := &s3.ListObjectsV2Input{
		Bucket:     aws.String(s.bucket),
		Prefix:     aws.String(prefix),
		MaxKeys:    aws.Int64(int64(count)),
		StartAfter: aws.String(pageToken),
	}
	if delimiter != "" {
		params.Delimiter = aws.String(delimiter)
	}
	page, err := s.s3.ListObjectsV2WithContext(ctx, params)
	if err != nil {
		return nil, "", toSentinelErrors(err)
	}
	keys := make([]string, 0, len(page.Contents)+len(page.CommonPrefixes))
	for _, pfx := range page.CommonPrefixes {
		if p := aws.StringValue(pfx.Prefix); p != "" {
			keys = append(keys, p)
		}
	}
	for _, obj := range page.Contents {
		if key := aws.StringValue(obj.Key); key != "" {
			keys = append(keys, key)
		}
	}
	next := ""
	if aws.BoolValue(page.IsTruncated) && len(keys) > 0 {
		next = keys[len(keys)-1]
	}
	return keys, next, nil
}

func (s *s3FS) Clear(ctx context.Context) error {
	params := &s3.ListObjectsInput{Bucket: aws.String(s.bucket)}
	del := s3manager.NewBatchDeleteWithClient(s.s3)
	return toSentinelErrors(del.Delete(ctx, s3manager.NewDeleteListIterator(s.s3, params)))
}
