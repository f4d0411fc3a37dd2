package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/cenkalti/backoff/v5"
	"github.com/younsl/failover/internal/config"
	"github.com/younsl/failover/internal/logging"
	"github.com/younsl/failover/internal/models"
	"github.com/younsl/failover/pkg/runner"
)

var (
	// ErrBootTimeout means the instance was not running before the poll
	// budget ran out.
	ErrBootTimeout = errors.New("instance did not reach running state in time")
	// ErrNotBootable means the instance went into a state it cannot boot from.
	ErrNotBootable = errors.New("instance cannot reach running state")
	// ErrRemoteFailed is returned in strict mode when the remote command
	// did not succeed.
	ErrRemoteFailed = errors.New("remote bootstrap failed")

	errNotRunning = errors.New("instance not running yet")
)

const (
	defaultPollInterval    = 5 * time.Second
	defaultMaxPollInterval = 30 * time.Second
)

// sshOptions disable host key checks. The remote address is an Elastic IP
// whose host key changes every time the instance is rebuilt.
const sshOptions = "-o UserKnownHostsFile=/dev/null -o CheckHostIP=no -o StrictHostKeyChecking=no"

// InstanceGetter reads the current state of an instance
type InstanceGetter interface {
	GetInstance(ctx context.Context, instanceID string) (models.InstanceInfo, error)
}

// Executor runs a shell command once
type Executor interface {
	Execute(ctx context.Context, command string) (*runner.Command, error)
}

type Options struct {
	KeyPath       string
	User          string
	Host          string
	RemoteCommand string
	SSHBinary     string
	SSHTimeout    time.Duration

	WaitMode        config.BootWaitMode
	FixedWait       time.Duration
	PollTimeout     time.Duration
	MaxTries        uint
	Settle          time.Duration
	PollInterval    time.Duration
	MaxPollInterval time.Duration

	Strict bool
}

// OptionsFromConfig builds bootstrap options for the given key path
func OptionsFromConfig(cfg config.Config, keyPath string) Options {
	return Options{
		KeyPath:         keyPath,
		User:            cfg.RemoteUser,
		Host:            cfg.RemoteHost,
		RemoteCommand:   cfg.RemoteCommand,
		SSHBinary:       cfg.SSHBinary,
		SSHTimeout:      cfg.SSHTimeout,
		WaitMode:        cfg.BootWaitMode,
		FixedWait:       cfg.BootWait,
		PollTimeout:     cfg.BootTimeout,
		MaxTries:        cfg.BootMaxTries,
		Settle:          cfg.BootSettle,
		PollInterval:    defaultPollInterval,
		MaxPollInterval: defaultMaxPollInterval,
		Strict:          cfg.StrictBootstrap,
	}
}

// SSHCommand renders the remote start command line
func SSHCommand(opts Options) string {
	return fmt.Sprintf("%s %s -i %s %s@%s \"%s\"",
		opts.SSHBinary, sshOptions, opts.KeyPath, opts.User, opts.Host, opts.RemoteCommand)
}

type Bootstrapper struct {
	opts      Options
	instances InstanceGetter
	exec      Executor
	log       *logging.Logger
	out       io.Writer
	sleep     func(ctx context.Context, d time.Duration) error
}

func New(opts Options, instances InstanceGetter, exec Executor, log *logging.Logger, out io.Writer) *Bootstrapper {
	if out == nil {
		out = os.Stdout
	}
	return &Bootstrapper{
		opts:      opts,
		instances: instances,
		exec:      exec,
		log:       log,
		out:       out,
		sleep:     sleepContext,
	}
}

// Bootstrap waits for a freshly started instance to boot and launches the
// web server on it over ssh. A failing remote command is reported but only
// returned as an error in strict mode.
func (b *Bootstrapper) Bootstrap(ctx context.Context, instance models.InstanceInfo) error {
	b.log.Info("After the server starts the http daemon will need to be started.")
	b.log.Info("Please wait a few minutes for all of this to get going ...")

	if err := b.WaitForBoot(ctx, instance.InstanceID); err != nil {
		return err
	}

	cmd := SSHCommand(b.opts)
	b.log.Debugf("Running remote command: %s", cmd)

	runCtx, cancel := context.WithTimeout(ctx, b.opts.SSHTimeout)
	defer cancel()

	res, err := b.exec.Execute(runCtx, cmd)
	if res != nil && b.log.Verbose() {
		res.ShowResults(b.out)
	}

	var failure error
	switch {
	case errors.Is(err, runner.ErrTimeout):
		b.log.Warnf("Remote command did not finish within %s", b.opts.SSHTimeout)
		failure = err
	case err != nil:
		return err
	case !res.Succeeded():
		failure = fmt.Errorf("remote command exited with code %d: %s", res.ReturnCode, res.Results().Error)
		b.log.Infof("Remote command failed with return code %d", res.ReturnCode)
	}

	if failure != nil && b.opts.Strict {
		return fmt.Errorf("%w: %w", ErrRemoteFailed, failure)
	}
	return nil
}

// WaitForBoot blocks until the instance can be expected to accept ssh
func (b *Bootstrapper) WaitForBoot(ctx context.Context, instanceID string) error {
	start := time.Now()
	s := b.startSpinner(" Waiting for " + instanceID + " to boot ...")
	defer s.Stop()

	if b.opts.WaitMode == config.BootWaitFixed {
		if err := b.sleep(ctx, b.opts.FixedWait); err != nil {
			return err
		}
		s.FinalMSG = fmt.Sprintf("✓ Waited %.0f seconds for %s\n", time.Since(start).Seconds(), instanceID)
		return nil
	}

	if err := b.pollRunning(ctx, instanceID); err != nil {
		return err
	}
	b.log.Debugf("Instance %s is running after %.0f seconds, settling for %s", instanceID, time.Since(start).Seconds(), b.opts.Settle)

	if err := b.sleep(ctx, b.opts.Settle); err != nil {
		return err
	}
	s.FinalMSG = fmt.Sprintf("✓ %s booted in %.0f seconds\n", instanceID, time.Since(start).Seconds())
	return nil
}

func (b *Bootstrapper) pollRunning(ctx context.Context, instanceID string) error {
	eb := backoff.NewExponentialBackOff()
	if b.opts.PollInterval > 0 {
		eb.InitialInterval = b.opts.PollInterval
	}
	if b.opts.MaxPollInterval > 0 {
		eb.MaxInterval = b.opts.MaxPollInterval
	}

	retryOpts := []backoff.RetryOption{
		backoff.WithBackOff(eb),
		backoff.WithMaxTries(b.opts.MaxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			b.log.Debugf("Checking again in %s: %v", next.Round(time.Millisecond), err)
		}),
	}
	if b.opts.PollTimeout > 0 {
		retryOpts = append(retryOpts, backoff.WithMaxElapsedTime(b.opts.PollTimeout))
	}

	_, err := backoff.Retry(ctx, func() (models.InstanceState, error) {
		info, err := b.instances.GetInstance(ctx, instanceID)
		if err != nil {
			return "", err
		}
		switch {
		case info.State.IsUp():
			return info.State, nil
		case info.State == models.StateTerminated || info.State == models.StateShuttingDown:
			return info.State, backoff.Permanent(fmt.Errorf("%w: %s is %s", ErrNotBootable, instanceID, info.State))
		default:
			return info.State, fmt.Errorf("%w: %s is %s", errNotRunning, instanceID, info.State)
		}
	}, retryOpts...)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotBootable):
		return err
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return fmt.Errorf("%w: %w", ErrBootTimeout, err)
	}
}

func (b *Bootstrapper) startSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[9], 200*time.Millisecond, spinner.WithWriter(b.out))
	s.Suffix = suffix
	if b.log.Verbose() {
		s.Start()
	}
	return s
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
