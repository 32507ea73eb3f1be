// Package cmd implements the CLI command structure for dailytasks.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/dailytasks/internal/config"
	"github.com/nibzard/dailytasks/internal/logging"
	"github.com/nibzard/dailytasks/internal/tasklist"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Standard streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the dailytasks CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dailytasks", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// With no subcommand the interactive interface starts.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(cfg, remainingArgs)
	case "add":
		return addCommand(cfg, remainingArgs)
	case "rm", "delete":
		return rmCommand(cfg, remainingArgs)
	case "clear":
		return clearCommand(cfg, remainingArgs)
	case "export":
		return exportCommand(cfg, remainingArgs)
	case "import":
		return importCommand(cfg, remainingArgs)
	case "logs", "tail":
		return logsCommand(ctx, cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// session is an open task list plus the run log it reports to.
type session struct {
	list   *tasklist.List
	logger *log.Logger
	run    *logging.RunLogger
}

// openSession opens the run log and the task file. A log that cannot be
// created is reported once and replaced with a discarding logger.
func openSession(cfg *config.Config, command string) (*session, error) {
	opts := logging.OptionsFromConfig(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)

	s := &session{logger: logging.Discard()}
	run, err := logging.NewRunLogger(cfg.LogDir, cfg.ProjectRoot, opts)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: logging disabled: %v\n", err)
	} else {
		s.run = run
		s.logger = run.Logger.With("cmd", command)
	}

	list, err := tasklist.Open(cfg.TasksFile, tasklist.WithLogger(s.logger))
	if err != nil {
		s.logger.Error("open task file failed", "path", cfg.TasksFile, "err", err)
		s.close()
		return nil, err
	}
	s.list = list
	return s, nil
}

func (s *session) close() {
	if s.run != nil {
		_ = s.run.Close()
	}
}

// fail logs a failed operation and returns err unchanged.
func (s *session) fail(op string, err error) error {
	if _, ok := tasklist.AsUserError(err); ok {
		s.logger.Warn(op+" rejected", "err", err)
	} else {
		s.logger.Error(op+" failed", "err", err)
	}
	return err
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "dailytasks version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Daily Tasks - a small to-do list kept in a plain text file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  dailytasks [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui              Open the interactive task window (default command)")
	fmt.Fprintln(w, "  ls               List tasks, numbered from 1")
	fmt.Fprintln(w, "  add <text...>    Add a task")
	fmt.Fprintln(w, "  rm <n>           Delete task number n")
	fmt.Fprintln(w, "  clear            Delete all tasks after confirmation")
	fmt.Fprintln(w, "  export           Write the task list as JSON or YAML")
	fmt.Fprintln(w, "  import <path>    Append tasks from a JSON or YAML export")
	fmt.Fprintln(w, "  logs             Show the latest run log")
	fmt.Fprintln(w, "  config           Show the effective configuration")
	fmt.Fprintln(w, "  version          Show version information")
	fmt.Fprintln(w, "  help             Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(stderr)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Clear Options:")
	fmt.Fprintln(w, "  -y, --yes")
	fmt.Fprintln(w, "        Skip the confirmation prompt")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export/Import Options:")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        Document format (json|yaml), inferred from the file extension if omitted")
	fmt.Fprintln(w, "  -o, --output string")
	fmt.Fprintln(w, "        Export destination (default stdout)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logs Options:")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
	fmt.Fprintln(w, "  -list")
	fmt.Fprintln(w, "        List run logs instead of printing one")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  %s, %s, %s, %s, %s\n",
		config.EnvTasksFile, config.EnvLogDir, config.EnvLogLevel, config.EnvLogFormat, config.EnvListHeight)
}
