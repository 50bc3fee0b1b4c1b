// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"

	"epureport/internal/version"
)

// MaxVerbosity is the top diagnostic level (per-field tag dump).
const MaxVerbosity = 4

// Options holds all CLI flags.
type Options struct {
	Directory string // top-level EPU images directory
	Output    string // RTF report path
	NoScan    bool   // skip the movie frame scan
	Progress  bool   // show progress bar
	Verbosity int    // 0..4
	Debug     bool

	Version bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: EPU session metadata report

Navigates an EPU project directory, extracts acquisition metadata from the
per-exposure XML series, and writes an RTF summary table.

Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	fs.StringVar(&opt.Directory, "directory", "Images-Disc1", "top-level images directory [Images-Disc1]")
	fs.StringVar(&opt.Directory, "d", "Images-Disc1", "top-level images directory (shorthand)")
	fs.StringVar(&opt.Output, "output", "report.rtf", "output RTF report [report.rtf]")
	fs.StringVar(&opt.Output, "o", "report.rtf", "output RTF report (shorthand)")
	fs.BoolVar(&opt.NoScan, "no-scan", false, "skip movie frame scan [false]")
	fs.BoolVar(&opt.NoScan, "n", false, "skip movie frame scan (shorthand)")
	fs.BoolVar(&opt.Progress, "progress", false, "show progress bar [false]")
	fs.IntVar(&opt.Verbosity, "verbosity", 1, "verbosity level 0..4 [1]")
	fs.IntVar(&opt.Verbosity, "v", 1, "verbosity level (shorthand)")
	fs.BoolVar(&opt.Debug, "debug", false, "debugging flag [false]")

	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}

	// Validation
	if opt.Directory == "" {
		return opt, errors.New("--directory must not be empty")
	}
	if opt.Output == "" {
		return opt, errors.New("--output must not be empty")
	}
	if opt.Verbosity < 0 || opt.Verbosity > MaxVerbosity {
		return opt, fmt.Errorf("--verbosity must be in 0..%d", MaxVerbosity)
	}

	// Verbosity levels:
	//   1: overall summary, progress bar
	//   2: directory summary
	//   3: list XML files
	//   4: print tags
	// --progress pins verbosity to 1 unless the directory summary was
	// asked for; levels 1 and 2 imply the progress bar.
	if opt.Progress && opt.Verbosity != 2 {
		opt.Verbosity = 1
	}
	if opt.Verbosity == 1 || opt.Verbosity == 2 {
		opt.Progress = true
	}
	return opt, nil
}
