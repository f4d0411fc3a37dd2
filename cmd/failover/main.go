package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/younsl/failover/pkg/credential"
	"github.com/younsl/failover/pkg/failover"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], defaultDeps(os.Stdout, os.Stderr))
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, d deps) int {
	if args == nil {
		args = []string{}
	}
	rootCmd := newRootCmd(d)
	rootCmd.SetArgs(args)

	// Help wins over every other flag, valid or not.
	if wantsHelp(args) {
		if err := rootCmd.Help(); err != nil {
			fmt.Fprintln(d.stderr, err)
		}
		return failover.ExitOK
	}

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(d.stderr, rootCmd, err)
	}
	return failover.ExitCode(err)
}

// wantsHelp reports whether -h or --help appears before the "--" terminator,
// including inside grouped short flags such as -vh.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		switch {
		case arg == "--":
			return false
		case arg == "--help":
			return true
		case strings.HasPrefix(arg, "--"):
			continue
		case strings.HasPrefix(arg, "-") && strings.ContainsRune(arg[1:], 'h'):
			return true
		}
	}
	return false
}

func printError(w io.Writer, cmd *cobra.Command, err error) {
	switch failover.ExitCode(err) {
	case failover.ExitUsage:
		fmt.Fprintf(w, "ERROR -- Bad or missing command line argument(s)\n")
		fmt.Fprintf(w, "         %v\n\n", err)
		fmt.Fprint(w, cmd.UsageString())
	case failover.ExitConfig:
		fmt.Fprintf(w, "ERROR -- %v\n", err)
	case failover.ExitCredential:
		file := "private key"
		var keyErr *credential.KeyError
		if errors.As(err, &keyErr) {
			file = keyErr.File()
		}
		fmt.Fprintf(w, "ERROR -- Unable to verify the PEM file \"%s\"\n", file)
		fmt.Fprintf(w, "         Please ensure the file exists.\n")
	case failover.ExitProbe:
		fmt.Fprintf(w, "ERROR -- Unable to determine the state of the server.\n")
		fmt.Fprintf(w, "         Check network connectivity and account permissions.\n")
		fmt.Fprintf(w, "         (%v)\n", err)
	case failover.ExitBoot:
		fmt.Fprintf(w, "ERROR -- %v\n", err)
		fmt.Fprintf(w, "         The web server was not started.\n")
	case failover.ExitInterrupted:
		fmt.Fprintln(w, "Interrupted.")
	default:
		fmt.Fprintf(w, "ERROR -- %v\n", err)
	}
}
