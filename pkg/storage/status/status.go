// Package status declares error constants returned by
// implementations of the Store interface.
//
// NOTE: these constants live in a separate package to avoid cyclical
// dependencies between pkg/storage and its implementations.
package status

import "github.com/obproject/obproject/pkg/errors"

var (
	// ErrNotFound indicates that the backend did not find the target object
	ErrNotFound = errors.New("not found")

	// ErrExists indicates that the object already exists and cannot be overridden
	ErrExists = errors.New("exists already")

	// ErrUnauthorized indicates that no valid credentials were provided to the backend API
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates that the backend API forbids access to the target object
	ErrForbidden = errors.New("forbidden")

	// ErrNotSupported indicates that the backend does not support this call
	ErrNotSupported = errors.New("not supported")

	// ErrInvalidResource indicates that the storage resource has an invalid name
	ErrInvalidResource = errors.New("invalid storage resource name")

	// ErrStorageAPI indicates any other backend API error
	ErrStorageAPI = errors.New("storage API error")
)
