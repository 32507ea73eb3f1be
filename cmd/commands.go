package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nibzard/dailytasks/internal/config"
	"github.com/nibzard/dailytasks/internal/logging"
	"github.com/nibzard/dailytasks/internal/tasklist"
	"github.com/nibzard/dailytasks/internal/transfer"
	"github.com/nibzard/dailytasks/internal/ui"
)

// tuiCommand launches the interactive task window.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dailytasks tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	s, err := openSession(cfg, "tui")
	if err != nil {
		return err
	}
	defer s.close()

	s.logger.Info("interface started", "path", s.list.Path())
	err = ui.RunTUI(ctx, s.list,
		ui.WithListHeight(cfg.ListHeight),
		ui.WithLogger(s.logger),
	)
	if err != nil {
		return s.fail("interface", err)
	}
	s.logger.Info("interface closed", "count", s.list.Len())
	return nil
}

// lsCommand prints the tasks numbered from 1.
func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dailytasks ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	s, err := openSession(cfg, "ls")
	if err != nil {
		return err
	}
	defer s.close()

	printTaskList(stdout, s.list.Tasks())
	return nil
}

// printTaskList prints tasks with their 1-based positions.
func printTaskList(w io.Writer, tasks []string) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	width := len(strconv.Itoa(len(tasks)))
	for i, task := range tasks {
		fmt.Fprintf(w, "%*d. %s\n", width, i+1, task)
	}
}

// addCommand appends the arguments, joined by spaces, as one task.
func addCommand(cfg *config.Config, args []string) error {
	s, err := openSession(cfg, "add")
	if err != nil {
		return err
	}
	defer s.close()

	text := strings.Join(args, " ")
	if err := s.list.Add(text); err != nil {
		return s.fail("add", err)
	}
	fmt.Fprintf(stdout, "Added task %d: %s\n", s.list.Len(), s.list.At(s.list.Len()-1))
	return nil
}

// rmCommand deletes the task at a 1-based position.
func rmCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dailytasks rm", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: dailytasks rm <n>")
	}
	n, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid task number %q", fs.Arg(0))
	}

	s, err := openSession(cfg, "rm")
	if err != nil {
		return err
	}
	defer s.close()

	sel := tasklist.NoSelection
	if n > 0 {
		sel = tasklist.Selection(n - 1)
	}
	removed, err := s.list.Remove(sel)
	if err != nil {
		return s.fail("delete", err)
	}
	fmt.Fprintf(stdout, "Deleted task %d: %s\n", n, removed)
	return nil
}

// clearCommand deletes every task once the user confirms.
func clearCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dailytasks clear", flag.ContinueOnError)
	fs.SetOutput(stderr)
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	fs.BoolVar(yes, "y", false, "Skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	s, err := openSession(cfg, "clear")
	if err != nil {
		return err
	}
	defer s.close()

	var confirm tasklist.Confirmer = promptConfirmer(stdin, stdout)
	if *yes {
		confirm = tasklist.Always
	}

	count := s.list.Len()
	cleared, err := s.list.ClearAll(confirm)
	if err != nil {
		return s.fail("clear", err)
	}
	if !cleared {
		fmt.Fprintln(stdout, "Nothing deleted.")
		return nil
	}
	fmt.Fprintf(stdout, "Deleted %d %s.\n", count, plural(count, "task", "tasks"))
	return nil
}

// promptConfirmer asks on out and reads the answer from in. Only "y" or
// "yes" confirm; end of input declines.
func promptConfirmer(in io.Reader, out io.Writer) tasklist.Confirmer {
	reader := bufio.NewReader(in)
	return tasklist.ConfirmFunc(func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	})
}

// exportCommand writes the task list as a JSON or YAML document.
func exportCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dailytasks export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	formatName := fs.String("format", "", "Document format (json|yaml)")
	output := fs.String("output", "", "Destination file (default stdout)")
	fs.StringVar(output, "o", "", "Destination file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	format, err := resolveFormat(*formatName, *output)
	if err != nil {
		return err
	}

	s, err := openSession(cfg, "export")
	if err != nil {
		return err
	}
	defer s.close()

	tasks := s.list.Tasks()
	if *output == "" || *output == "-" {
		if err := transfer.Export(stdout, tasks, format, time.Now()); err != nil {
			return s.fail("export", err)
		}
		return nil
	}

	path := config.ResolvePath(cfg.ProjectRoot, *output)
	f, err := os.Create(path)
	if err != nil {
		return s.fail("export", fmt.Errorf("create export file: %w", err))
	}
	if err := transfer.Export(f, tasks, format, time.Now()); err != nil {
		f.Close()
		return s.fail("export", err)
	}
	if err := f.Close(); err != nil {
		return s.fail("export", fmt.Errorf("close export file: %w", err))
	}
	s.logger.Info("tasks exported", "path", path, "format", format, "count", len(tasks))
	fmt.Fprintf(stdout, "Exported %d %s to %s\n", len(tasks), plural(len(tasks), "task", "tasks"), path)
	return nil
}

// importCommand appends the tasks of an exported document.
func importCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dailytasks import", flag.ContinueOnError)
	fs.SetOutput(stderr)
	formatName := fs.String("format", "", "Document format (json|yaml)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: dailytasks import [--format json|yaml] <path>")
	}
	source := fs.Arg(0)

	format, err := resolveFormat(*formatName, source)
	if err != nil {
		return err
	}

	var r io.Reader = stdin
	if source != "-" {
		f, err := os.Open(config.ResolvePath(cfg.ProjectRoot, source))
		if err != nil {
			return fmt.Errorf("open import file: %w", err)
		}
		defer f.Close()
		r = f
	}

	tasks, err := transfer.Import(r, format)
	if err != nil {
		return err
	}

	s, err := openSession(cfg, "import")
	if err != nil {
		return err
	}
	defer s.close()

	n, err := s.list.AddAll(tasks)
	if err != nil {
		return s.fail("import", err)
	}
	s.logger.Info("tasks imported", "source", source, "count", n)
	fmt.Fprintf(stdout, "Imported %d %s.\n", n, plural(n, "task", "tasks"))
	return nil
}

// resolveFormat picks the explicit format, or infers it from path.
func resolveFormat(name, path string) (transfer.Format, error) {
	if name != "" {
		return transfer.ParseFormat(name)
	}
	if path == "" || path == "-" {
		return transfer.FormatJSON, nil
	}
	return transfer.FormatFromPath(path), nil
}

// logsCommand prints the latest run log for this project.
func logsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dailytasks logs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	listRuns := fs.Bool("list", false, "List run logs instead of printing one")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}

	if *listRuns {
		runs, err := logging.FindLogRuns(logDir)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(stdout, "No log files found.")
			return nil
		}
		for _, run := range runs {
			fmt.Fprintf(stdout, "%s  %s  %d bytes\n", run.RunID, run.ModTime.Format(time.RFC3339), run.Size)
		}
		return nil
	}

	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No log files found.")
		return nil
	}

	if *follow {
		fmt.Fprintf(stderr, "Tailing: %s (Ctrl+C to stop)\n", logPath)
	}
	err = logging.TailLog(ctx, stdout, logPath, *n, *follow)
	if *follow && errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// configCommand prints the effective configuration and where each value
// came from.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("dailytasks config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}

	width := 0
	for _, field := range config.Fields() {
		if len(field) > width {
			width = len(field)
		}
	}
	for _, field := range config.Fields() {
		fmt.Fprintf(stdout, "%-*s = %-30s (%s)\n", width, field, cws.Config.Value(field), cws.Sources[field])
	}
	if len(cws.Files) > 0 {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Config files:")
		for _, f := range cws.Files {
			fmt.Fprintf(stdout, "  %s\n", f)
		}
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
