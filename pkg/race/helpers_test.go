package race

import (
	stderrors "errors"

	"github.com/vango-dev/race/internal/errors"
)

func asError(err error, target **errors.Error) bool {
	return stderrors.As(err, target)
}
