// Package cli defines the seedkeeper command line: the HTTP service, the
// cron-style snapshot writer and the commit proof generator.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/shandysiswandi/seedkeeper/internal/app"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var errEmptyCommit = errors.New("no commit hash given")

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:          "seedkeeper",
		Short:        "Provision an encrypted TOTP seed and serve codes for it",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default: $CONFIG_PATH, then /config/config.yaml)")

	root.AddCommand(
		newServeCmd(&opts),
		newSnapshotCmd(&opts),
		newProofCmd(&opts),
	)

	return root
}

func newServeCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until SIGINT or SIGTERM",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
			defer stop()

			application := app.New(*opts)
			runErr := application.Run(ctx)

			stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			application.Stop(stopCtx)

			return runErr
		},
	}
}

func newSnapshotCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Write the current code to the snapshot file once",
		Long: `Reads the active seed and replaces the snapshot file with
"{unix_time},{code},{seconds_remaining}", or with an error line when the seed
is missing or unusable. Meant to be run from cron.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, err := app.RunSnapshot(ctx, *opts)
			return err
		},
	}
}

func newProofCmd(opts *app.Options) *cobra.Command {
	var commit string

	cmd := &cobra.Command{
		Use:   "proof",
		Short: "Sign a commit hash and encrypt the signature for the instructor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(commit) == "" {
				read, err := promptCommit(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				commit = read
			}

			out, err := app.RunProof(*opts, commit)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Commit Hash: %s\n", out.Commit)
			fmt.Fprintf(w, "Encrypted Signature: %s\n", out.EncryptedSignature)
			return nil
		},
	}
	cmd.Flags().StringVar(&commit, "commit", "", "40-character commit hash (read from stdin when empty)")

	return cmd
}

func promptCommit(in io.Reader, prompt io.Writer) (string, error) {
	fmt.Fprint(prompt, "Enter 40-char commit hash: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return "", errEmptyCommit
	}
	return line, nil
}
