package manager

import (
	"errors"
	"fmt"

	"aiengine/pkg/types"
)

// ErrModelNotFound returns an error for a model name that is not loaded.
func ErrModelNotFound(name string) error { return &types.ModelNotFoundError{Name: name} }

// IsModelNotFound reports whether the error indicates a missing model.
func IsModelNotFound(err error) bool { return types.IsModelNotFound(err) }

// unsupportedError signals a model that exists but cannot serve the operation.
type unsupportedError struct {
	name string
	op   string
}

func (e unsupportedError) Error() string {
	return fmt.Sprintf("model %s does not support %s", e.name, e.op)
}

// IsUnsupported reports whether err indicates an operation the model cannot serve.
func IsUnsupported(err error) bool {
	var target unsupportedError
	return errors.As(err, &target)
}

// ErrClosed is returned by operations on a closed manager.
var ErrClosed = errors.New("model manager is closed")
