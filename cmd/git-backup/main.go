package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LinqLover/git-backup/internal/config"
)

// Version information - injected at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// NewRootCmd builds the root command wired to the given App.
func NewRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "git-backup [BACKUP_BRANCH]",
		Short: "Create a safety-net commit of the complete working tree",
		Long: `git-backup captures the complete current working tree (tracked and
untracked modifications) as a commit on a dedicated backup branch,
without touching the index, working directory, or commit history.

The backup branch defaults to backup/<currentBranch> and is advanced
exclusively by this tool; each run appends to the prior backup lineage.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				app.Config.BranchName = args[0]
			}
			return app.Run(cmd.Context())
		},
	}

	app.SetupFlags(cmd.Flags())

	return cmd
}

func main() {
	versionInfo := config.VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	app, err := NewDefaultApp(versionInfo)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		os.Exit(1)
	}

	rootCmd := NewRootCmd(app)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if reportableError(ctx, err) {
			_, _ = fmt.Fprintf(app.Stderr, "❌ Error: %v\n", err)
		}
		app.exit(1)
	}
}

// reportableError filters out the cancellation error of a normal signal
// shutdown; everything else is shown to the user.
func reportableError(ctx context.Context, err error) bool {
	return ctx.Err() == nil || !errors.Is(err, context.Canceled)
}
