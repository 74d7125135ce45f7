// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/itchyny/timefmt-go"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/melon-lang/mel/config"
	"github.com/melon-lang/mel/demo"
	"github.com/melon-lang/mel/exec"
	"github.com/melon-lang/mel/run"
)

const version = "0.1.0"

// errFailed reports that a job failed; the job has already said why.
var errFailed = errors.New("job failed")

// options holds the command-line settings.
type options struct {
	eval       string
	configFile string
	feed       string
	stats      bool
	debug      []string

	step        int
	heartbeat   time.Duration
	noCache     bool
	cacheSize   int
	maxFrames   int
	maxValues   int
	gcThreshold int
	prompt      string
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("mel: ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cmd := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if err != errFailed {
			log.Print(err)
		}
		os.Exit(1)
	}
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "mel [flags] [file.mel ...]",
		Short: "Run mel programs",
		Long: `Mel runs each named file as a job; the jobs run concurrently on one
engine. With -e it runs the given source instead. With no files it reads
a program from standard input, or, on a terminal, starts an interactive
session that runs each complete line as a job.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := opts.config(cmd, stdout, stderr)
			if err != nil {
				return err
			}
			return opts.run(cmd.Context(), conf, args, stdin)
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	opts.flags(cmd)
	cmd.AddCommand(newDemoCmd(&opts, stdin, stdout, stderr), newVersionCmd(stdout))
	return cmd
}

func (o *options) flags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	cmd.Flags().StringVarP(&o.eval, "eval", "e", "", "run `source` as a job and print its result")
	cmd.Flags().StringVar(&o.feed, "feed", "", "send standard input, line by line, to the stdin mailbox of `job`")
	cmd.Flags().BoolVar(&o.stats, "stats", false, "print a table of the jobs when they finish")
	f.StringVarP(&o.configFile, "config", "c", "", "read settings from the YAML `file`")
	f.StringSliceVar(&o.debug, "debug", nil, "set debug `flags`: "+strings.Join(config.DebugFlags, ", "))
	f.IntVar(&o.step, "step", config.DefaultStepBudget, "steps a job runs before yielding")
	f.DurationVar(&o.heartbeat, "heartbeat", config.DefaultHeartbeat, "scheduler wakeup interval while all jobs wait")
	f.BoolVar(&o.noCache, "no-cache", false, "do not cache parsed programs")
	f.IntVar(&o.cacheSize, "cache-size", config.DefaultCacheSize, "unused parsed programs to keep")
	f.IntVar(&o.maxFrames, "max-frames", config.DefaultMaxFrames, "frames a job may use")
	f.IntVar(&o.maxValues, "max-values", 0, "live values a job may hold; 0 means no limit")
	f.IntVar(&o.gcThreshold, "gc-threshold", config.DefaultGCThreshold, "composites allocated between collections")
	f.StringVar(&o.prompt, "prompt", "mel> ", "interactive prompt")
}

// config builds the configuration: the file first, then any flags given
// explicitly.
func (o *options) config(cmd *cobra.Command, stdout, stderr io.Writer) (*config.Config, error) {
	conf := new(config.Config)
	conf.SetPrompt(o.prompt)
	if o.configFile != "" {
		if err := conf.Load(o.configFile); err != nil {
			return nil, err
		}
	}
	set := cmd.Flags().Changed
	if set("step") {
		conf.SetStepBudget(o.step)
	}
	if set("heartbeat") {
		conf.SetHeartbeat(o.heartbeat)
	}
	if set("no-cache") {
		conf.SetCache(!o.noCache)
	}
	if set("cache-size") {
		conf.SetCacheSize(o.cacheSize)
	}
	if set("max-frames") {
		conf.SetMaxFrames(o.maxFrames)
	}
	if set("max-values") {
		conf.SetMaxValues(o.maxValues)
	}
	if set("gc-threshold") {
		conf.SetGCThreshold(o.gcThreshold)
	}
	if set("prompt") {
		conf.SetPrompt(o.prompt)
	}
	for _, name := range o.debug {
		if !knownDebug(name) {
			return nil, fmt.Errorf("unknown debug flag %q", name)
		}
		conf.SetDebug(name, true)
	}
	conf.SetOutput(stdout)
	conf.SetErrOutput(stderr)
	return conf, nil
}

func knownDebug(name string) bool {
	for _, f := range config.DebugFlags {
		if f == name {
			return true
		}
	}
	return false
}

func (o *options) run(ctx context.Context, conf *config.Config, args []string, stdin io.Reader) error {
	if o.eval != "" && len(args) > 0 {
		return errors.New("cannot use -e with files")
	}
	if o.feed != "" && len(args) == 0 {
		return errors.New("--feed needs files to run")
	}
	if o.eval == "" && len(args) == 0 && interactive(stdin) {
		return repl(conf, stdin)
	}
	e := exec.NewEngine(conf)
	defer e.Close()
	var jobs []*exec.Job
	var err error
	switch {
	case o.eval != "":
		jobs, err = single(ctx, e, "mel", o.eval)
	case len(args) == 0:
		var src []byte
		src, err = io.ReadAll(stdin)
		if err == nil {
			jobs, err = single(ctx, e, "stdin", string(src))
		}
	default:
		var in io.Reader
		if o.feed != "" {
			in = stdin
		}
		jobs, err = run.Files(ctx, e, args, in, o.feed)
	}
	ok := true
	for _, j := range jobs {
		if j.State() == exec.Done {
			ok = run.Report(conf, j, o.eval != "") && ok
		}
	}
	if o.stats {
		printStats(conf.Output(), jobs)
	}
	if err != nil {
		return err
	}
	if !ok {
		return errFailed
	}
	return nil
}

func single(ctx context.Context, e *exec.Engine, name, src string) ([]*exec.Job, error) {
	j, err := e.NewJob(name, src, nil, nil)
	if err != nil {
		return nil, err
	}
	return []*exec.Job{j}, e.Run(ctx)
}

// interactive reports whether r is a terminal.
func interactive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// repl runs an interactive session on the terminal. Input is gathered
// until its braces balance and then run as a job; jobs left waiting can
// be reached by later input through job_send.
func repl(conf *config.Config, stdin io.Reader) error {
	fd := int(stdin.(*os.File).Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer term.Restore(fd, old)
	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{stdin, conf.Output()}, conf.Prompt())
	conf.SetOutput(t)
	conf.SetErrOutput(t)
	e := exec.NewEngine(conf)
	defer e.Close()
	var src strings.Builder
	depth := 0
	for {
		line, err := t.ReadLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		src.WriteString(line)
		src.WriteByte('\n')
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth > 0 {
			t.SetPrompt("... ")
			continue
		}
		depth = 0
		t.SetPrompt(conf.Prompt())
		if _, err := run.Step(e, "mel", src.String()); err != nil {
			fmt.Fprintln(t, err)
		}
		src.Reset()
	}
}

// printStats prints a table describing the jobs.
func printStats(w io.Writer, jobs []*exec.Job) {
	rows := [][]string{{"JOB", "STATE", "STEPS", "STARTED", "TIME", "ERROR"}}
	for _, j := range jobs {
		elapsed, errText := "-", ""
		if j.State() == exec.Done {
			elapsed = j.Finished().Sub(j.Started()).Round(time.Microsecond).String()
		}
		if err := j.Err(); err != nil {
			errText = err.Error()
		}
		rows = append(rows, []string{
			j.Name(),
			j.State().String(),
			strconv.FormatInt(j.Steps(), 10),
			timefmt.Format(j.Started(), "%H:%M:%S"),
			elapsed,
			errText,
		})
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	for _, row := range rows {
		var b strings.Builder
		for i, cell := range row {
			if i < len(row)-1 {
				cell = runewidth.FillRight(cell, widths[i]+2)
			}
			b.WriteString(cell)
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}

func newDemoCmd(opts *options, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Step through a demonstration of mel",
		Long: `Demo shows mel one step at a time. Press return to run the next step,
type a line of mel to run it instead, or type quit to stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := opts.config(cmd, stdout, stderr)
			if err != nil {
				return err
			}
			e := exec.NewEngine(conf)
			defer e.Close()
			return demo.Run(stdin, demo.Evaluator(e), stdout)
		},
	}
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mel version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(stdout, "mel version", version)
		},
	}
}
