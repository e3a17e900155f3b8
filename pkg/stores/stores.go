// Package stores assembles the object stores backing an asset registry.
//
// A registry spreads its state over four stores, which may live in
// different buckets or share one:
//
//   - metadata: project, branch and version descriptors
//   - vmetadata: mutable head pointers tracking the latest version
//   - blob: content addressed asset payloads
//   - runlog: flow run records and run cards
package stores

import (
	"fmt"

	"github.com/obproject/obproject/pkg/storage"
)

// Stores defines the complete set of stores for a registry
type Stores interface {
	// Metadata yields the store for immutable descriptors
	Metadata() storage.Store
	// SetMetadata sets the store for immutable descriptors
	SetMetadata(metadata storage.Store)

	// VMetadata yields the store for mutable head pointers
	VMetadata() storage.Store
	// SetVMetadata sets the store for mutable head pointers
	SetVMetadata(vMetadata storage.Store)

	// Blob yields the store for asset payloads
	Blob() storage.Store
	// SetBlob sets the store for asset payloads
	SetBlob(blob storage.Store)

	// RunLog yields the store for flow run records
	RunLog() storage.Store
	// SetRunLog sets the store for flow run records
	SetRunLog(runLog storage.Store)
}

// type safeguard
var _ Stores = &defaultStores{}

type defaultStores struct {
	metadata  storage.Store
	vMetadata storage.Store
	blob      storage.Store
	runLog    storage.Store
	_         struct{}
}

// New creates an empty set of stores, to be populated with the Setxxx methods.
func New() Stores {
	return &defaultStores{}
}

// NewStores creates a fully populated set of stores
func NewStores(metadata, vMetadata, blob, runLog storage.Store) Stores {
	return &defaultStores{metadata: metadata, vMetadata: vMetadata, blob: blob, runLog: runLog}
}

func (s *defaultStores) Metadata() storage.Store {
	return s.metadata
}

func (s *defaultStores) SetMetadata(metadata storage.Store) {
	s.metadata = metadata
}

func (s *defaultStores) VMetadata() storage.Store {
	return s.vMetadata
}

func (s *defaultStores) SetVMetadata(vMetadata storage.Store) {
	s.vMetadata = vMetadata
}

func (s *defaultStores) Blob() storage.Store {
	return s.blob
}

func (s *defaultStores) SetBlob(blob storage.Store) {
	s.blob = blob
}

func (s *defaultStores) RunLog() storage.Store {
	return s.runLog
}

func (s *defaultStores) SetRunLog(runLog storage.Store) {
	s.runLog = runLog
}

func (s *defaultStores) String() string {
	return fmt.Sprintf("metadata: %q, vMetadata: %q, blob: %q, runLog: %q",
		s.metadata, s.vMetadata, s.blob, s.runLog)
}
