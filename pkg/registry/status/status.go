// Package status exports errors produced by the registry package.
package status

import (
	"github.com/obproject/obproject/pkg/errors"
)

var (
	// ErrInterrupted signals that the current background processing has been interrupted
	ErrInterrupted = errors.New("background processing interrupted")

	// ErrNotFound indicates an object was not found
	ErrNotFound = errors.New("not found")

	// ErrProjectNotFound indicates the project this operation resolves against does not exist
	ErrProjectNotFound = errors.New("project not found")

	// ErrBranchNotFound indicates the branch this operation resolves against does not exist
	ErrBranchNotFound = errors.New("branch not found")

	// ErrPayloadMismatch indicates a payload does not hash to the digest its version descriptor records
	ErrPayloadMismatch = errors.New("payload does not match recorded digest")

	// ErrUnexpectedUpdate indicates an update operation was attempted on some immutable store
	ErrUnexpectedUpdate = errors.New("unexpected update")
)
