package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/younsl/failover/internal/config"
	"github.com/younsl/failover/internal/logging"
	"github.com/younsl/failover/internal/version"
	"github.com/younsl/failover/pkg/aws"
	"github.com/younsl/failover/pkg/bootstrap"
	"github.com/younsl/failover/pkg/credential"
	"github.com/younsl/failover/pkg/failover"
	"github.com/younsl/failover/pkg/runner"
	"github.com/younsl/failover/pkg/utils"
)

const longDescription = `failover %s, Time Delay Web Server.

This tool allows the user to alter the routing of the DNS Failover in AWS.
The DNS Failover is configured to route %s
to an AWS EC2 instance in US-East-2 (Ohio) via a TCP Elastic Load Balancer.
If the server in Ohio is down then the DNS will 'failover' to an AWS EC2
instance in EU (Frankfurt). This tool detects whether the Ohio server is
running and toggles it, which toggles the routing.

When the server is started again, the web server daemon is launched on it
over ssh once the instance has booted.

EXIT CODES:
   0 - Clean Exit
   1 - AWS or environment configuration could not be loaded
   2 - Bad or missing command line argument
   3 - Unable to determine initial server state
   4 - Missing PEM file for ssh access
   5 - The stop or start request was rejected
   6 - The server did not reach running in time, web server not started
   7 - The web server could not be started (strict mode only)
 Other Non-Zero - Failure of some sort or another`

const examples = `  # Toggle the server, printing progress
  failover --verbose

  # Toggle the server with full diagnostics
  failover -d

  # Wait a fixed 150 seconds after starting instead of polling
  FAILOVER_BOOT_WAIT_MODE=fixed failover -v`

// instanceClient is what the command needs from the cloud provider
type instanceClient interface {
	failover.InstanceAPI
	Region() string
}

type deps struct {
	stdout   io.Writer
	stderr   io.Writer
	newAPI   func(ctx context.Context, cfg config.Config, log *logging.Logger) (instanceClient, error)
	executor bootstrap.Executor
}

func defaultDeps(stdout, stderr io.Writer) deps {
	return deps{
		stdout:   stdout,
		stderr:   stderr,
		newAPI:   newEC2Client,
		executor: runner.Shell{Path: runner.DefaultShell},
	}
}

func newEC2Client(ctx context.Context, cfg config.Config, log *logging.Logger) (instanceClient, error) {
	awsCfg, source, err := aws.LoadConfig(ctx, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", failover.ErrConfig, err)
	}
	log.Debugf("Using region %s from %s", awsCfg.Region, source)
	if !utils.IsValidRegion(awsCfg.Region) {
		log.Warnf("Region %s is not a known region, continuing anyway", awsCfg.Region)
	}
	return aws.NewEC2Client(awsCfg), nil
}

func newRootCmd(d deps) *cobra.Command {
	var verbose, debug bool

	cmd := &cobra.Command{
		Use:   "failover",
		Short: "Toggle the primary web server to exercise DNS failover",
		Long: fmt.Sprintf(longDescription,
			version.Get().String(), "http://www.cos3.rocks/index.html"),
		Example:       examples,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return fmt.Errorf("%w: %w", failover.ErrUsage, err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.New(&logging.Config{
				Level:  logging.LevelFor(verbose, debug),
				Output: d.stdout,
			})
			return execute(cmd.Context(), d, log)
		},
	}
	cmd.SetOut(d.stdout)
	cmd.SetErr(d.stderr)
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", failover.ErrUsage, err)
	})

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Runs the program in verbose mode")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Runs the program in debug mode (implies verbose)")

	return cmd
}

func execute(ctx context.Context, d deps, log *logging.Logger) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("%w: %w", failover.ErrConfig, err)
	}

	keyPath, err := credential.KeyPath(cfg.Home, cfg.KeyFile)
	if err != nil {
		return fmt.Errorf("%w: %w", failover.ErrConfig, err)
	}
	log.Debugf("Using %s for authentication", keyPath)
	if err := credential.Verify(keyPath); err != nil {
		return err
	}

	log.Debugf("Toggling failover for %s on instance %s", cfg.TargetURL, cfg.InstanceID)

	client, err := d.newAPI(ctx, cfg, log)
	if err != nil {
		return err
	}

	boot := bootstrap.New(bootstrap.OptionsFromConfig(cfg, keyPath), client, d.executor, log, d.stdout)
	controller := failover.NewController(client, boot, cfg.InstanceID, client.Region(), log)

	action, err := controller.Run(ctx)
	if err != nil {
		return err
	}
	log.Debugf("Finished with action %s", action)
	return nil
}
