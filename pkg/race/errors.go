package race

import (
	"github.com/vango-dev/race/internal/errors"
)

// Sentinel errors, matched with errors.Is by code.
var (
	ErrTargetNotFound  = errors.New(errors.CodeTargetNotFound)
	ErrUnsupportedNode = errors.New(errors.CodeUnsupportedNode)
	ErrRenderPanic     = errors.New(errors.CodeRenderPanic)
	ErrHostOperation   = errors.New(errors.CodeHostOperation)
	ErrUnmounted       = errors.New(errors.CodeUnmounted)
)

// hostError wraps an adapter failure with the operation that caused it.
func hostError(op string, err error) error {
	if err == nil {
		return nil
	}
	return errors.New(errors.CodeHostOperation).WithDetail(op).Wrap(err)
}
