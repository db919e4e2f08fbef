package faiss

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/go-faiss/native"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrInvalidDimension is returned when an index is requested with a
	// non-positive dimension.
	ErrInvalidDimension = errors.New("invalid dimension")

	// ErrUnsupportedOperation is returned when add_with_ids is called on an
	// index variant that only assigns sequential labels. Wrap the index with
	// NewIDMap to gain the capability.
	ErrUnsupportedOperation = errors.New("operation not supported by this index")

	// ErrResourceExhausted is returned when the engine fails to allocate a
	// result buffer, or when the configured resource controller refuses the
	// memory for one.
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrInvalidLabel is returned when a label does not fit in Idx.
	ErrInvalidLabel = errors.New("label out of range")

	// ErrBadCast is returned when an index cannot be converted to the
	// requested concrete variant.
	ErrBadCast = errors.New("index is not of the requested type")

	// ErrEngineMismatch is returned when objects created by different engines
	// are combined in one call.
	ErrEngineMismatch = errors.New("objects belong to different engines")
)

// NativeError is a failure status reported by the engine.
//
// The original underlying error can be accessed via errors.Unwrap.
type NativeError struct {
	Op      string
	Code    int
	Message string
	cause   error
}

func (e *NativeError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: native error %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: native error %d: %s", e.Op, e.Code, e.Message)
}

func (e *NativeError) Unwrap() error { return e.cause }

// DimensionMismatchError indicates an input buffer whose length does not fit
// the index dimension, or an id slice whose length does not match the number
// of vectors.
type DimensionMismatchError struct {
	// Field names the offending argument: "vectors", "query" or "ids".
	Field    string
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	if e.Field == "ids" {
		return fmt.Sprintf("dimension mismatch: expected %d ids, got %d", e.Expected, e.Actual)
	}
	return fmt.Sprintf("dimension mismatch: %s length %d is not a multiple of d=%d", e.Field, e.Actual, e.Expected)
}

// translateError classifies an engine failure. Allocation failures and
// "not implemented" rejections keep the *NativeError in the chain.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}

	var ne *native.Error
	if !errors.As(err, &ne) {
		return fmt.Errorf("%s: %w", op, err)
	}

	nerr := &NativeError{Op: op, Code: ne.Code, Message: ne.Message, cause: err}

	switch {
	case strings.Contains(ne.Message, "bad_alloc"):
		return fmt.Errorf("%w: %w", ErrResourceExhausted, nerr)
	case strings.Contains(ne.Message, "not implemented"):
		return fmt.Errorf("%w: %w", ErrUnsupportedOperation, nerr)
	}

	return nerr
}

func checkVectors(field string, x []float32, d int) (int, error) {
	if len(x)%d != 0 {
		return 0, &DimensionMismatchError{Field: field, Expected: d, Actual: len(x)}
	}
	return len(x) / d, nil
}
