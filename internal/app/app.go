// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"

	"epureport/internal/cli"
	"epureport/internal/epuxml"
	"epureport/internal/extract"
	"epureport/internal/imod"
	"epureport/internal/report"
	"epureport/internal/scan"
	"epureport/internal/session"
	"epureport/internal/version"
	"epureport/internal/writers"
)

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("epureport")
	fs.SetOutput(io.Discard)

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			if e := outw.Flush(); writers.IsBrokenPipe(e) {
				return 0
			} else if e != nil {
				_, _ = fmt.Fprintln(stderr, e)
				return 3
			}
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(outw)
		fs.Usage()
		_ = outw.Flush()
		return 2
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "epureport version %s\n", version.Version)
		return 0
	}

	v := opts.Verbosity
	if v >= 1 {
		fmt.Fprintf(outw, "\nepureport %s\n", version.Version)
		fmt.Fprintf(outw, "  Top-level directory: %s\n", opts.Directory)
		fmt.Fprintf(outw, "  Output filename: %s\n", opts.Output)
		fmt.Fprintf(outw, "  Skip movie scan? %v\n", opts.NoScan)
		fmt.Fprintf(outw, "  Show progress bar? %v\n", opts.Progress)
		fmt.Fprintf(outw, "  Verbosity level: %d\n\n", v)
		fmt.Fprintln(outw, "Navigating top-level directory...")
	}

	res, err := scan.Find(opts.Directory)
	if err != nil {
		return fatal(stderr, err)
	}
	if len(res.XMLFiles) == 0 {
		_, _ = fmt.Fprintf(stderr, "ERROR!! Found 0 XML files in %d directories!\n", res.DataDirs)
		return 1
	}
	if v >= 1 {
		fmt.Fprintf(outw, "Found %d XML files in %d directories\n", len(res.XMLFiles), res.DataDirs)
		if !opts.NoScan {
			fmt.Fprintln(outw, "Scanning first 2 movies for number of frames...")
		}
		fmt.Fprintln(outw)
	}
	_ = outw.Flush()

	agg := session.New()
	x := &extract.Extractor{
		ProbeMovies: !opts.NoScan,
		Frames:      imod.FrameCount,
		Warn:        stderr,
	}
	if v >= cli.MaxVerbosity {
		x.Trace = outw
	}

	showBar := opts.Progress && v == 1 && !opts.Debug
	bar := progressbar.NewOptions(len(res.XMLFiles),
		progressbar.OptionSetWriter(stderr),
		progressbar.OptionSetDescription("extracting"),
		progressbar.OptionSetItsString("xml"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetVisibility(showBar),
	)

	for i, path := range res.XMLFiles {
		if parent.Err() != nil {
			_, _ = fmt.Fprintln(stderr, "canceled")
			return 130
		}
		if v >= 3 {
			fmt.Fprintf(outw, "XML file[%d]: %s\n", i+1, path)
			_ = outw.Flush()
		}

		doc, err := epuxml.Load(path)
		if err != nil {
			return fatal(stderr, err)
		}
		rec, err := x.Extract(doc, i)
		if err != nil {
			return fatal(stderr, err)
		}
		if err := agg.Fold(rec); err != nil {
			return fatal(stderr, err)
		}
		_ = bar.Add(1)
	}
	if showBar {
		_ = bar.Finish()
		_, _ = fmt.Fprintln(stderr)
	}

	if v >= 1 {
		fmt.Fprintf(outw, "\nDefocus range: %s um\n", agg.DefocusRange())
		if !opts.NoScan {
			fmt.Fprintf(outw, "Number of frames: %d\n", agg.Frames())
		}
	}

	out, err := os.Create(opts.Output)
	if err != nil {
		return fatal(stderr, err)
	}
	if err := report.WriteRTF(out, agg.Finalize()); err != nil {
		_ = out.Close()
		return fatal(stderr, err)
	}
	if err := out.Close(); err != nil {
		return fatal(stderr, err)
	}

	if v >= 1 {
		fmt.Fprintf(outw, "\nDone! Wrote report to %s\n", opts.Output)
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return 0
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return 3
	}
	return 0
}

// fatal prints the error and maps its kind to the process exit code. The
// whole run aborts on any fatal condition; a corrupted session cannot be
// partially reported.
func fatal(stderr io.Writer, err error) int {
	var ee *imod.ExecError
	if errors.As(err, &ee) {
		_, _ = fmt.Fprintf(stderr, "ERROR!! %v\n", ee)
		return 12
	}
	_, _ = fmt.Fprintf(stderr, "ERROR!! %v\n", err)
	return 1
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
