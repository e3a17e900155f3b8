package sthree

import (
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/obproject/obproject/pkg/storage/status"
)

// toSentinelErrors maps AWS SDK errors to sentinel errors
func toSentinelErrors(err error) error {
	if err == nil {
		return nil
	}
	if rerr, ok := err.(awserr.RequestFailure); ok {
		switch rerr.StatusCode() {
		case 401:
			return status.ErrUnauthorized.Wrap(err)
		case 403:
			return status.ErrForbidden.Wrap(err)
		case 404:
			return status.ErrNotFound.Wrap(err)
		case 412:
			return status.ErrExists.Wrap(err)
		}
	}
	if aerr, ok := err.(awserr.Error); ok {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchBucket:
			return status.ErrInvalidResource.Wrap(err)
		case s3.ErrCodeNoSuchKey:
			return status.ErrNotFound.Wrap(err)
		}
		return status.ErrStorageAPI.Wrap(err)
	}
	return err
}
