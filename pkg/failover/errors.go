package failover

import (
	"context"
	"errors"
	"fmt"

	"github.com/younsl/failover/pkg/aws"
	"github.com/younsl/failover/pkg/bootstrap"
	"github.com/younsl/failover/pkg/credential"
)

// Exit codes of the failover command
const (
	ExitOK          = 0
	ExitConfig      = 1
	ExitUsage       = 2
	ExitProbe       = 3
	ExitCredential  = 4
	ExitSwitch      = 5
	ExitBoot        = 6
	ExitRemote      = 7
	ExitInterrupted = 130
	ExitUnknown     = 255
)

var (
	// ErrUsage marks malformed command line input.
	ErrUsage = errors.New("bad or missing command line argument(s)")
	// ErrConfig marks configuration that could not be loaded, including the
	// AWS SDK configuration.
	ErrConfig = errors.New("unable to load configuration")
	// ErrProbe marks a failure to read the initial instance state.
	ErrProbe = errors.New("unable to determine the state of the server")
)

// SwitchError is a failed stop or start call
type SwitchError struct {
	Action     string
	InstanceID string
	Code       string // AWS error code, empty for non API errors
	Err        error
}

func (e *SwitchError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("failed to %s instance %s (%s): %v", e.Action, e.InstanceID, e.Code, e.Err)
	}
	return fmt.Sprintf("failed to %s instance %s: %v", e.Action, e.InstanceID, e.Err)
}

func (e *SwitchError) Unwrap() error {
	return e.Err
}

func newSwitchError(action, instanceID string, err error) *SwitchError {
	return &SwitchError{
		Action:     action,
		InstanceID: instanceID,
		Code:       aws.APIErrorCode(err),
		Err:        err,
	}
}

// ExitCode maps an error returned by the command to its process exit code
func ExitCode(err error) int {
	var switchErr *SwitchError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.Is(err, ErrConfig):
		return ExitConfig
	case errors.Is(err, credential.ErrKeyNotFound):
		return ExitCredential
	case errors.Is(err, ErrProbe):
		return ExitProbe
	case errors.As(err, &switchErr):
		return ExitSwitch
	case errors.Is(err, bootstrap.ErrBootTimeout), errors.Is(err, bootstrap.ErrNotBootable):
		return ExitBoot
	case errors.Is(err, bootstrap.ErrRemoteFailed):
		return ExitRemote
	default:
		return ExitUnknown
	}
}
