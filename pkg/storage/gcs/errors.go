package gcs

import (
	"strings"

	gcsStorage "cloud.google.com/go/storage"
	"github.com/obproject/obproject/pkg/storage/status"
	"google.golang.org/api/googleapi"
)

func apiErrors(err *googleapi.Error) error {
	switch err.Code {
	case 400:
		if strings.Contains(err.Body, "bucket is not valid") {
			return status.ErrInvalidResource.Wrap(err)
		}
		return status.ErrStorageAPI.Wrap(err)
	case 401:
		return status.ErrUnauthorized.Wrap(err)
	case 403:
		return status.ErrForbidden.Wrap(err)
	case 404:
		return status.ErrNotFound.Wrap(err)
	case 409, 412:
		// precondition failure on a DoesNotExist conditional write
		return status.ErrExists.Wrap(err)
	default:
		return status.ErrStorageAPI.Wrap(err)
	}
}

// toSentinelErrors maps API errors to the sentinels defined by the status package
func toSentinelErrors(err error) error {
	if err == nil {
		return nil
	}
	if err == gcsStorage.ErrObjectNotExist {
		return status.ErrNotFound.Wrap(err)
	}
	if typedErr, isGoogle := err.(*googleapi.Error); isGoogle {
		return apiErrors(typedErr)
	}
	return err
}
