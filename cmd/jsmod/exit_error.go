// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/jsmod/jsmod/pkg/jsmod"
	"github.com/jsmod/jsmod/pkg/types"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFor maps loader failures to process exit codes.
func exitCodeFor(err error) types.ExitCode {
	var exitErr *ExitError
	switch {
	case err == nil:
		return types.ExitOK
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, jsmod.ErrCircularDependency):
		return types.ExitCircularDependency
	case errors.Is(err, jsmod.ErrModuleNotFound):
		return types.ExitModuleNotFound
	case errors.Is(err, jsmod.ErrDecode):
		return types.ExitDecodeFailed
	default:
		return types.ExitFailure
	}
}
