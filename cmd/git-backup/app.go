package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/pflag"

	"github.com/LinqLover/git-backup/internal/config"
	internalErrors "github.com/LinqLover/git-backup/internal/errors"
	"github.com/LinqLover/git-backup/internal/git"
	"github.com/LinqLover/git-backup/internal/logger"
)

// Backuper performs one backup run
type Backuper interface {
	Run(ctx context.Context) (*git.Result, error)
}

// AppOptions contains app configuration and dependencies
type AppOptions struct {
	// Required
	Config *config.Config

	// Optional components
	Logger logger.Logger
	Backup Backuper

	// I/O dependencies
	Stdout io.Writer
	Stderr io.Writer

	// System dependencies
	Exit           func(code int)
	ExecLookPath   func(file string) (string, error)
	IsRepository   func(ctx context.Context, path string) (bool, error)
	LookupUserName func(ctx context.Context, path string) (string, error)
}

// App is the main git-backup application
type App struct {
	Config *config.Config
	Logger logger.Logger
	Backup Backuper

	// I/O streams
	Stdout io.Writer
	Stderr io.Writer

	// System dependencies
	exit           func(code int)
	execLookPath   func(file string) (string, error)
	isRepository   func(ctx context.Context, path string) (bool, error)
	lookupUserName func(ctx context.Context, path string) (string, error)

	// quiet holds the inverted verbosity flag until finalization
	quiet bool
}

// NewDefaultApp creates an App with standard dependencies
func NewDefaultApp(versionInfo config.VersionInfo) (*App, error) {
	cfg := config.New()
	cfg.VersionInfo = versionInfo

	if err := cfg.LoadFromFile(config.DefaultConfigFile()); err != nil {
		return nil, err
	}
	cfg.LoadFromEnvironment()

	opts := AppOptions{
		Config:       cfg,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Exit:         os.Exit,
		ExecLookPath: exec.LookPath,
		IsRepository: git.IsRepository,
	}

	return NewApp(opts), nil
}

// NewApp creates an App with custom dependencies
func NewApp(opts AppOptions) *App {
	if opts.Config == nil {
		panic("Config is required in AppOptions")
	}

	app := &App{
		Config:         opts.Config,
		Logger:         opts.Logger,
		Backup:         opts.Backup,
		Stdout:         opts.Stdout,
		Stderr:         opts.Stderr,
		exit:           opts.Exit,
		execLookPath:   opts.ExecLookPath,
		isRepository:   opts.IsRepository,
		lookupUserName: opts.LookupUserName,
	}

	// Set defaults for nil dependencies
	if app.Stdout == nil {
		app.Stdout = os.Stdout
	}
	if app.Stderr == nil {
		app.Stderr = os.Stderr
	}
	if app.exit == nil {
		app.exit = os.Exit
	}
	if app.execLookPath == nil {
		app.execLookPath = exec.LookPath
	}
	if app.isRepository == nil {
		app.isRepository = git.IsRepository
	}
	if app.lookupUserName == nil {
		app.lookupUserName = git.UserName
	}

	return app
}

// SetupFlags binds command-line flags to the config
func (a *App) SetupFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&a.Config.Push, "push", a.Config.Push, "push the backup branch after creating the commit")
	flags.StringVar(&a.Config.RepoPath, "repo", a.Config.RepoPath, "path to repository (default: current directory)")
	flags.BoolVar(&a.quiet, "quiet", !a.Config.Verbose, "hide informational messages")
	flags.BoolVar(&a.Config.Debug, "debug", a.Config.Debug, "enable debug logging")
	flags.StringVar(&a.Config.LogFile, "log-file", a.Config.LogFile, "path to log file (default: XDG data dir, per repository)")
	flags.BoolVar(&a.Config.Version, "version", a.Config.Version, "print version information and exit")
}

// Initialize sets up components not provided during construction
func (a *App) Initialize(ctx context.Context) error {
	a.Config.Verbose = !a.quiet

	if err := a.Config.Finalize(); err != nil {
		// Config.Finalize() already returns a properly wrapped error
		if internalErrors.Is(err, internalErrors.ErrInvalidConfiguration) {
			return err
		}
		return internalErrors.Wrap(internalErrors.ErrInvalidConfiguration, err.Error())
	}

	if a.Logger == nil {
		a.Logger = logger.New(a.Config.Debug, a.Config.LogFile, a.Config.Verbose)
	}

	if a.Backup == nil {
		// Resolve the remote namespace identity once, up front; the
		// backup stages only consume it via their config
		identity := ""
		if userName, err := a.lookupUserName(ctx, a.Config.RepoPath); err == nil {
			identity = git.SanitizeIdentity(userName)
		} else {
			a.Logger.Warning("Failed to resolve user identity: %v", err)
		}

		backupConfig := git.BackupConfig{
			RepoPath:       a.Config.RepoPath,
			BranchName:     a.Config.BranchName,
			Push:           a.Config.Push,
			CommitterName:  a.Config.CommitterName,
			CommitterEmail: a.Config.CommitterEmail,
			RemoteIdentity: identity,
			Verbose:        a.Config.Verbose,
		}
		backup, err := git.NewBackup(backupConfig, a.Logger)
		if err != nil {
			return fmt.Errorf("failed to create backup instance: %w", err)
		}
		a.Backup = backup
	}

	return nil
}

// Run executes the application with the given context
func (a *App) Run(ctx context.Context) error {
	if err := a.Initialize(ctx); err != nil {
		return err
	}

	if a.Config.Version {
		a.ShowVersion()
		return nil
	}

	// Ensure the logger is always closed, even on early error paths
	defer func() {
		if err := a.Close(); err != nil {
			_, _ = fmt.Fprintf(a.Stderr, "❌ Error during cleanup: %v\n", err)
		}
	}()

	// Verify prerequisites
	if err := a.checkRequiredCommands(); err != nil {
		_, _ = fmt.Fprintf(a.Stderr, "❌ Error: %v. Please install it and try again.\n", err)
		return err
	}

	isRepo, err := a.isRepository(ctx, a.Config.RepoPath)
	if err != nil {
		a.Logger.Warning("Failed to check if path is a git repository: %v", err)
		return internalErrors.Wrap(internalErrors.ErrGitOperationFailed, err.Error())
	}
	if !isRepo {
		return internalErrors.ErrNotGitRepository
	}
	a.Logger.Info("Git repository verified")

	_, err = a.Backup.Run(ctx)
	return err
}

// ShowVersion displays version information
func (a *App) ShowVersion() {
	_, _ = fmt.Fprintf(a.Stdout, "git-backup %s (%s) built on %s\n",
		a.Config.VersionInfo.Version,
		a.Config.VersionInfo.Commit,
		a.Config.VersionInfo.Date)
}

// checkRequiredCommands verifies git is available in PATH
func (a *App) checkRequiredCommands() error {
	_, err := a.execLookPath("git")
	if err != nil {
		return fmt.Errorf("git is not found in PATH")
	}
	return nil
}

// Close releases resources held by the App
func (a *App) Close() error {
	var errs []error

	if a.Logger != nil {
		if l, ok := a.Logger.(*logger.DefaultLogger); ok && l != nil {
			if err := l.Close(); err != nil {
				_, _ = fmt.Fprintf(a.Stderr, "❌ Failed to close logger: %v\n", err)
				errs = append(errs, err)
			}
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
