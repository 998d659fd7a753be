package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/linkscout/linkscout/internal/core"
)

// ExitCodeForError maps domain error kinds onto foundry semantic exit
// codes so scripts can distinguish them. Missing or rejected credentials
// read as invalid configuration; quota exhaustion, remote throttling, and
// transport failures read as the external service being unavailable.
func ExitCodeForError(err error) foundry.ExitCode {
	var (
		authMissing *core.AuthMissingError
		authFailed  *core.AuthFailedError
		quota       *core.QuotaExceededError
		throttled   *core.RemoteRateLimitedError
		transport   *core.TransportError
	)

	switch {
	case err == nil:
		return 0
	case errors.As(err, &authMissing), errors.As(err, &authFailed):
		return foundry.ExitConfigInvalid
	case errors.As(err, &quota), errors.As(err, &throttled), errors.As(err, &transport):
		return foundry.ExitExternalServiceUnavailable
	default:
		return foundry.ExitFailure
	}
}

// ExitWithCode exits the program with a semantic foundry exit code after
// logging the error with its exit metadata.
func ExitWithCode(logger *logging.Logger, exitCode foundry.ExitCode, msg string, err error) {
	info, ok := foundry.GetExitCodeInfo(exitCode)
	if !ok {
		fmt.Fprintf(os.Stderr, "FATAL: %s: %v (exit code: %d)\n", msg, err, exitCode)
		os.Exit(int(exitCode))
	}

	if logger != nil {
		logger.Error(msg,
			zap.Int("exit_code", info.Code),
			zap.String("exit_name", info.Name),
			zap.String("exit_category", info.Category),
			zap.Error(err),
		)
	} else {
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %s: %v\n", msg, err)
		} else {
			fmt.Fprintf(os.Stderr, "FATAL: %s\n", msg)
		}
		fmt.Fprintf(os.Stderr, "Exit Code: %d (%s) - %s\n", info.Code, info.Name, info.Description)
	}

	os.Exit(info.Code)
}

// ExitWithCodeStderr is a variant for early failures before logger
// initialization.
func ExitWithCodeStderr(exitCode foundry.ExitCode, msg string, err error) {
	ExitWithCode(nil, exitCode, msg, err)
}
