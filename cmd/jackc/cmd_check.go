package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/jack/jack/codebase"
	"github.com/dhamidi/jack/project"
)

func newCheckCmd() *cobra.Command {
	var timeout time.Duration
	var workers int

	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Parse .jack files and report problems",
		Long: `Parse every .jack file of the project, or the given files and
directories, and print one line per problem:

  file:line:col: message

Files are parsed concurrently. Exits non-zero when any file has an error.
--timeout and --workers override the [check] section of jack.toml.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject()
			if err != nil {
				return err
			}

			cfg := proj.Config.Check
			if cmd.Flags().Changed("timeout") {
				cfg.Timeout.Duration = timeout
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}

			files, err := checkTargets(proj, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			c := &checker{
				codebase: codebase.New(proj.RootDir, parserOptions(cmd, proj.Config)...),
				timeout:  cfg.Timeout.Duration,
				workers:  cfg.Workers,
				term:     termenv.NewOutput(out),
			}
			failed, err := c.run(cmd.Context(), out, files)
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files have errors", failed, len(files))
			}
			return nil
		},
	}

	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 10*time.Second, "timeout per file")
	cmd.Flags().IntVarP(&workers, "workers", "j", 4, "number of files parsed at once")
	addLenientFlag(cmd)

	return cmd
}

// checkTargets expands args into .jack files. Without args it returns the
// project's sources.
func checkTargets(proj *project.Project, args []string) ([]string, error) {
	if len(args) == 0 {
		return proj.Files()
	}

	var files []string
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", arg, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, abs)
			continue
		}

		sub := *proj
		sub.Config.Source.Dirs = []string{abs}
		found, err := sub.Files()
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

type checker struct {
	codebase *codebase.Codebase
	timeout  time.Duration
	workers  int

	// term picks the color profile. nil prints plain text.
	term *termenv.Output
}

// checkFailure is a file that could not be checked at all.
type checkFailure struct {
	path    string
	message string
}

// run parses files and writes every diagnostic to w, grouped by file in
// path order. It returns the number of files with errors.
func (c *checker) run(ctx context.Context, w io.Writer, files []string) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	if c.workers > 0 {
		g.SetLimit(c.workers)
	}

	var mu sync.Mutex
	failures := map[string]string{}
	for _, file := range files {
		g.Go(func() error {
			err := c.checkFile(ctx, file)
			if err == nil {
				return nil
			}
			if ctx.Err() != nil && !isTimeout(err) {
				return err
			}
			mu.Lock()
			failures[file] = err.Error()
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	failed := 0
	for _, path := range c.reportOrder(files) {
		if msg, ok := failures[path]; ok {
			c.printFailure(w, checkFailure{path: path, message: msg})
			failed++
			continue
		}
		diags := c.codebase.Diagnostics(path)
		for _, d := range diags {
			c.printDiagnostic(w, path, d)
		}
		if codebase.HasErrors(diags) {
			failed++
		}
	}
	log.Infof("checked %d files, %d with errors", len(files), failed)
	return failed, nil
}

type timeoutError struct {
	path string
}

func (e *timeoutError) Error() string {
	return "timeout parsing " + e.path
}

func isTimeout(err error) bool {
	var te *timeoutError
	return errors.As(err, &te)
}

// checkFile parses path into the codebase, giving up after the timeout.
func (c *checker) checkFile(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.codebase.UpdateFile(path, content)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &timeoutError{path: path}
		}
		return ctx.Err()
	}
}

func (c *checker) reportOrder(files []string) []string {
	order := append([]string(nil), files...)
	sort.Strings(order)
	return order
}

// styled renders s in an ANSI color ("1" red, "3" yellow, "" none). Plain
// text comes out when the terminal has no color profile.
func (c *checker) styled(s, color string, bold bool) string {
	if c.term == nil {
		return s
	}
	style := c.term.String(s)
	if color != "" {
		style = style.Foreground(c.term.Color(color))
	}
	if bold {
		style = style.Bold()
	}
	return style.String()
}

func (c *checker) printDiagnostic(w io.Writer, path string, d codebase.Diagnostic) {
	loc := c.styled(fmt.Sprintf("%s:%v:", displayPath(path), d.Span.Start), "", true)
	switch d.Severity {
	case codebase.SeverityWarning:
		fmt.Fprintf(w, "%s %s %s\n", loc, c.styled("warning:", "3", false), d.Message)
	default:
		fmt.Fprintf(w, "%s %s\n", loc, c.styled(d.Message, "1", false))
	}
}

func (c *checker) printFailure(w io.Writer, f checkFailure) {
	loc := c.styled(displayPath(f.path)+":", "", true)
	fmt.Fprintf(w, "%s %s\n", loc, c.styled(f.message, "1", false))
}

// displayPath shortens path relative to the working directory when it
// lies below it.
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
