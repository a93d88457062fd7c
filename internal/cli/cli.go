package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/amirbrooks/sisyphus/internal/config"
	"github.com/amirbrooks/sisyphus/internal/logging"
	"github.com/amirbrooks/sisyphus/internal/store"
)

// Exit codes
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitCorrupt  = 4
	ExitInternal = 10
)

// Flags holds the global flag values. Empty values defer to the config file.
type Flags struct {
	DataFile   string
	ConfigPath string
	LogLevel   string
	LogFile    string
}

// exitError attaches a process exit code to an error returned by an action.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

type app struct {
	flags  Flags
	cfg    *config.Config
	closer func()

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Run executes sisyphus against the process stdio and returns the exit code.
// args excludes the program name.
func Run(args []string) int {
	return RunIO(context.Background(), args, os.Stdin, os.Stdout, os.Stderr)
}

// RunIO is Run with explicit streams.
func RunIO(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{
		closer: func() {},
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	err := a.command().Run(ctx, append([]string{"sisyphus"}, args...))
	a.closer()
	if err == nil {
		return ExitOK
	}

	fmt.Fprintln(stderr, "sisyphus:", err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitUsage
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:      "sisyphus",
		Usage:     "Track todos, deadlines and events",
		UsageText: "sisyphus [global options] [command]",
		Description: `Run 'sisyphus' with no command to start the console. Type 'manual'
inside it to see every task command. Tasks are saved on 'bye' or when input ends.`,
		Reader:    a.stdin,
		Writer:    a.stdout,
		ErrWriter: a.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "data",
				Aliases:     []string{"d"},
				Usage:       "path to the task file (default from config, else data.txt)",
				Sources:     cli.EnvVars("SISYPHUS_DATA"),
				Destination: &a.flags.DataFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("SISYPHUS_CONFIG"),
				Destination: &a.flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, disabled)",
				Sources:     cli.EnvVars("SISYPHUS_LOG_LEVEL"),
				Destination: &a.flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to stderr)",
				Sources:     cli.EnvVars("SISYPHUS_LOG_FILE"),
				Destination: &a.flags.LogFile,
			},
		},
		Before: a.before,
		Action: a.runConsole,
		Commands: []*cli.Command{
			a.configCmd(),
			a.checkCmd(),
		},
	}
}

// before resolves the effective configuration and installs the logger.
// Flags override the config file.
func (a *app) before(ctx context.Context, c *cli.Command) (context.Context, error) {
	cfg, err := config.Load(a.flags.ConfigPath)
	if err != nil {
		return ctx, withCode(ExitUsage, fmt.Errorf("load config: %w", err))
	}
	if a.flags.DataFile != "" {
		cfg.DataFile = a.flags.DataFile
	}
	if a.flags.LogLevel != "" {
		cfg.Log.Level = a.flags.LogLevel
	}
	if a.flags.LogFile != "" {
		cfg.Log.File = a.flags.LogFile
	}
	if err := cfg.Validate(); err != nil {
		return ctx, withCode(ExitUsage, fmt.Errorf("invalid flags: %w", err))
	}

	logger, closer, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return ctx, withCode(ExitUsage, fmt.Errorf("setup logger: %w", err))
	}
	logging.SetDefault(logger)
	a.closer = closer
	a.cfg = cfg
	return ctx, nil
}

func (a *app) openStore() *store.Store {
	return store.New(a.cfg.DataFile,
		store.WithSeparator(a.cfg.Separator),
		store.WithLogger(logging.Component("store")),
	)
}
