// Package cmd implements the strbuf command line: a small driver around
// the script package for running op scripts from files or the command
// line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrobin/strbuf/script"
	"github.com/mrobin/strbuf/strbuf"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Execute runs the strbuf CLI with the given version string.
func Execute(version string) {
	cmd := &cli.Command{
		Name:                   "strbuf",
		Usage:                  "Run strbuf op scripts",
		Version:                version,
		UseShortOptionHandling: true,
		// Allow `strbuf script.sb` as shorthand for `strbuf run script.sb`
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 0 {
				r := newRunner(cmd)
				_, err := r.RunFile(cmd.Args().First())
				return err
			}
			return cli.DefaultShowRootCommandHelp(cmd)
		},
		Flags: traceFlags(),
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run an op script file",
				ArgsUsage: "<file.sb>",
				Flags:     traceFlags(),
				Action:    runAction,
			},
			{
				Name:      "eval",
				Usage:     "Run ops given on the command line",
				ArgsUsage: "'<op>; <op>; ...'",
				Flags:     traceFlags(),
				Action:    evalAction,
			},
			{
				Name:   "demo",
				Usage:  "Show the capacity growth of a copy/append/prepend sequence",
				Action: demoAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func traceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "trace",
			Aliases: []string{"t"},
			Usage:   "Print len/cap after each mutating op",
		},
		&cli.BoolFlag{
			Name:    "no-color",
			Aliases: []string{"C"},
			Usage:   "Disable ANSI color output",
		},
	}
}

// newRunner builds a script runner from the command flags. Color is
// dropped when asked for, when NO_COLOR is set, or when stderr is not a
// terminal.
func newRunner(cmd *cli.Command) *script.Runner {
	r := &script.Runner{Output: os.Stdout}
	if cmd.Bool("trace") {
		r.Trace = os.Stderr
		r.Color = !cmd.Bool("no-color") &&
			os.Getenv("NO_COLOR") == "" &&
			term.IsTerminal(int(os.Stderr.Fd()))
	}
	return r
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: strbuf run <file.sb>")
	}
	r := newRunner(cmd)
	_, err := r.RunFile(cmd.Args().First())
	return err
}

func evalAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: strbuf eval '<op>; <op>; ...'")
	}
	r := newRunner(cmd)
	_, err := r.Run(strings.Join(cmd.Args().Slice(), "\n"))
	return err
}

type demoStep struct {
	label string
	apply func() error
}

func demoAction(ctx context.Context, cmd *cli.Command) error {
	s := strbuf.Empty()
	return demo(os.Stdout, s, []demoStep{
		{`empty`, func() error { return nil }},
		{`copy "world"`, func() error { return s.CopyString("world") }},
		{`append "!"`, func() error { return s.AppendString("!") }},
		{`prepend "Hello "`, func() error { return s.PrependString("Hello ") }},
	})
}

func demo(w io.Writer, s *strbuf.String, steps []demoStep) error {
	for _, step := range steps {
		if err := step.apply(); err != nil {
			return fmt.Errorf("%s: %w", step.label, err)
		}
		fmt.Fprintf(w, "%-18s %-16q len=%-3d cap=%d\n", step.label, s.String(), s.Len(), s.Cap())
	}
	return nil
}
