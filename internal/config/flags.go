package config

// This file implements CLI flag parsing and help text.
// Every flag writes into a zero-valued Config, so the later merge only
// overrides defaults and env values for flags the user actually passed.
// Flags passed with a zero value (-w 0, -d=false) are tracked separately,
// because the merge cannot tell them apart from unset ones.

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// Version is shown in --version and help; override at build time with
// -ldflags "-X github.com/backmassage/testrename/internal/config.Version=...".
var Version = "1.0.0-dev"

// ParseFlags parses args (without the program name) into a partial Config.
// --help yields [flag.ErrHelp]; the caller decides how to exit.
func ParseFlags(args []string) (*Config, error) {
	cfg, _, err := parseFlags(args)
	return cfg, err
}

// explicitFlags holds the names of flags that appeared on the command line.
type explicitFlags map[string]bool

func (e explicitFlags) has(names ...string) bool {
	for _, n := range names {
		if e[n] {
			return true
		}
	}
	return false
}

func parseFlags(args []string) (*Config, explicitFlags, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("testrename", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() { printUsage(fs.Output()) }

	var n negatedFlags

	defineTargetFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &n)
	defineUtilityFlags(fs, cfg, &n)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	applyNegatedFlags(cfg, &n)

	if n.showHelp {
		printUsage(fs.Output())
		return nil, nil, flag.ErrHelp
	}

	if err := parsePositionalArgs(fs, cfg); err != nil {
		return nil, nil, err
	}

	set := explicitFlags{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set.has("workers", "w") && cfg.Workers < 1 {
		return nil, nil, fmt.Errorf("%w: workers must be at least 1 (got %d)", ErrInvalidConfig, cfg.Workers)
	}
	if set.has("folder", "f") && cfg.Folder == "" {
		return nil, nil, fmt.Errorf("%w: folder must not be empty", ErrInvalidConfig)
	}
	return cfg, set, nil
}

// applyExplicitZeros copies flags that were passed with a zero value from
// flagCfg into cfg, after the merge has dropped them.
func applyExplicitZeros(cfg, flagCfg *Config, set explicitFlags) {
	if set.has("dry-run", "d") {
		cfg.DryRun = flagCfg.DryRun
	}
	if set.has("verbose", "v") {
		cfg.Verbose = flagCfg.Verbose
	}
	if set.has("base", "b") {
		cfg.BaseDir = flagCfg.BaseDir
	}
	if set.has("log", "l") {
		cfg.LogFile = flagCfg.LogFile
	}
	if set.has("journal", "j") {
		cfg.JournalPath = flagCfg.JournalPath
	}
}

// negatedFlags holds boolean flags that are applied after Parse.
type negatedFlags struct {
	forceColor bool
	noColor    bool
	showHelp   bool
}

// defineTargetFlags registers -f/--folder and -b/--base.
func defineTargetFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Folder, "folder", "", "Folder under tests/ to rename and label output with")
	fs.StringVar(&cfg.Folder, "f", "", "Same as --folder")
	fs.StringVar(&cfg.BaseDir, "base", "", "Base directory holding tests/ (default: executable dir)")
	fs.StringVar(&cfg.BaseDir, "b", "", "Same as --base")
}

// defineBehaviorFlags registers dry-run and worker count.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Print directives without renaming")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
	fs.IntVar(&cfg.Workers, "workers", 0, "Concurrent rename tasks")
	fs.IntVar(&cfg.Workers, "w", 0, "Same as --workers")
	fs.StringVar(&cfg.JournalPath, "journal", "", "Record rename attempts in a SQLite journal")
	fs.StringVar(&cfg.JournalPath, "j", "", "Same as --journal")
}

// defineDisplayFlags registers --color, --no-color, verbose and --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --check, --version and --help.
func defineUtilityFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Check the target directory and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")
	fs.BoolVar(&cfg.ShowVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies color overrides into cfg. --no-color wins.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs accepts an optional folder as the only positional arg.
// It conflicts with --folder only when both are given with different values.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	switch len(args) {
	case 0:
		return nil
	case 1:
		if cfg.Folder != "" && cfg.Folder != args[0] {
			return fmt.Errorf("folder given twice: --folder %q and argument %q", cfg.Folder, args[0])
		}
		cfg.Folder = args[0]
		return nil
	default:
		return errUnexpectedArgs
	}
}

// printUsage writes the help text. Column-aligned for readability.
func printUsage(w io.Writer) {
	const col1 = 26 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "testrename v" + Version + " — rename test files and print CTest directives"},
		{"", ""},
		{"  testrename [OPTIONS] [folder]", ""},
		{"", ""},
		{"Target", ""},
		{"  -f, --folder <name>", "Folder under tests/ (default: " + DefaultFolder + ")"},
		{"  -b, --base <dir>", "Directory holding tests/ (default: executable dir)"},
		{"", ""},
		{"Behavior", ""},
		{"  -d, --dry-run", "Print directives without renaming"},
		{"  -w, --workers <n>", fmt.Sprintf("Concurrent rename tasks (default: %d)", DefaultWorkers)},
		{"  -j, --journal <path>", "Record rename attempts in a SQLite journal"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"  -l, --log <path>", "Append logs to file"},
		{"", ""},
		{"Utility", ""},
		{"  -c, --check", "Check the target directory and exit"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
		{"", ""},
		{"Environment", ""},
		{"  " + EnvPrefix + "FOLDER, " + EnvPrefix + "BASE_DIR, " + EnvPrefix + "DRY_RUN,", ""},
		{"  " + EnvPrefix + "WORKERS, " + EnvPrefix + "VERBOSE, " + EnvPrefix + "COLOR,", ""},
		{"  " + EnvPrefix + "LOG_FILE, " + EnvPrefix + "JOURNAL (flags take precedence)", ""},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(w)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(w, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(w, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(w, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}
