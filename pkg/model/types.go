package model

import "fmt"

// Kind qualifies an asset as a data asset or a model asset.
type Kind string

const (
	// KindData denotes a data asset
	KindData Kind = "data"

	// KindModel denotes a model asset
	KindModel Kind = "model"
)

func (k Kind) String() string {
	return string(k)
}

// ParseKind interprets a string as an asset kind
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindData:
		return KindData, nil
	case KindModel:
		return KindModel, nil
	default:
		return Kind(""), fmt.Errorf("invalid asset kind: %q (expect %q or %q)", s, KindData, KindModel)
	}
}
