package loader

import (
	"errors"
	"fmt"
)

// Kind classifies why a load failed. The UI decides what to do about it.
type Kind int

const (
	KindIO Kind = iota
	KindParse
	KindEmpty
	KindMissingColumn
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindParse:
		return "parse"
	case KindEmpty:
		return "empty"
	case KindMissingColumn:
		return "missing column"
	case KindUnsupported:
		return "unsupported format"
	default:
		return "unknown"
	}
}

// LoadError is returned by Load for every failure.
type LoadError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load %s: %s: %v", e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("load %s: %s", e.Path, e.Kind)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a load error and whether err is one.
func KindOf(err error) (Kind, bool) {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Kind, true
	}
	return 0, false
}

func loadErr(kind Kind, path string, err error) *LoadError {
	return &LoadError{Kind: kind, Path: path, Err: err}
}
