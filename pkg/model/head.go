package model

import (
	"fmt"
	"time"

	"github.com/segmentio/ksuid"
	"gopkg.in/yaml.v2"
)

// HeadDescriptor is the mutable pointer from an asset identity to its
// latest version. It is the only descriptor that gets overwritten.
type HeadDescriptor struct {
	VersionID string    `json:"id" yaml:"id"`
	Digest    string    `json:"digest" yaml:"digest"`
	Timestamp time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	_         struct{}
}

// UnmarshalHead deserializes a head pointer
func UnmarshalHead(b []byte) (*HeadDescriptor, error) {
	if b == nil {
		return nil, fmt.Errorf("received nil head descriptor to unmarshal")
	}
	var h HeadDescriptor
	err := yaml.Unmarshal(b, &h)
	return &h, err
}

// MarshalHead serializes a head pointer
func MarshalHead(h *HeadDescriptor) ([]byte, error) {
	return yaml.Marshal(h)
}

// ValidateHead checks a head pointer
func ValidateHead(h HeadDescriptor) error {
	if h.VersionID == "" {
		return fmt.Errorf("empty field: head version id is empty")
	}
	if _, err := ksuid.Parse(h.VersionID); err != nil {
		return fmt.Errorf("expected head version id %q to be a ksuid: %v", h.VersionID, err)
	}
	return nil
}
