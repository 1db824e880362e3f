// internal/cli/cli.go
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dalemusser/emailcheck/config"
	"github.com/dalemusser/emailcheck/logging"
	"github.com/dalemusser/emailcheck/metrics"
	"github.com/dalemusser/emailcheck/report"
	"github.com/dalemusser/emailcheck/validate"
	"github.com/dalemusser/emailcheck/version"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Prompt is printed before reading a single address from stdin.
const Prompt = "Enter your email address: "

// Exit codes. An invalid address is not a failure.
const (
	exitOK    = 0
	exitIO    = 1
	exitUsage = 2
)

// maxLineBytes bounds one line of an address list.
const maxLineBytes = 1 << 20

type options struct {
	file        string
	out         string
	metricsFile string
	format      report.Format
	policy      validate.Policy
	verbose     bool
	version     bool
	addresses   []string
}

// Run is the entrypoint of the emailcheck command. args exclude the binary
// name. It returns the process exit code; callers should os.Exit(Run(...)).
//
// With no addresses and no --file it prompts for one address and prints only
// the verdict message. Otherwise it checks every address and writes a report.
func Run(binName string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseArgs(binName, args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\nRun '%s --help' for usage.\n", binName, err, binName)
		return exitUsage
	}

	if opts.version {
		fmt.Fprintln(stdout, version.String())
		return exitOK
	}

	logger := logging.CLILogger(stderr, opts.verbose)
	defer func() { _ = logger.Sync() }()

	if opts.metricsFile != "" {
		metrics.RegisterDefault(logger)
	}
	checker := validate.New(opts.policy)
	logger.Debug("policy",
		zap.Int("min_digits", checker.Policy().MinDigits),
		zap.Int("max_length", checker.Policy().MaxLength),
		zap.Bool("ascii_only", checker.Policy().ASCIIOnly))

	var code int
	if len(opts.addresses) == 0 && opts.file == "" {
		code = prompt(checker, stdin, stdout, logger)
	} else {
		code = batch(opts, checker, stdin, stdout, logger)
	}

	if opts.metricsFile != "" && code == exitOK {
		if err := metrics.WriteTextfile(opts.metricsFile); err != nil {
			logger.Error("write metrics file", zap.String("path", opts.metricsFile), zap.Error(err))
			return exitIO
		}
	}
	return code
}

func parseArgs(binName string, args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := pflag.NewFlagSet(binName, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.file, "file", "f", "", "read addresses from `path`, one per line (- for stdin)")
	fs.StringP("format", "F", string(report.FormatText), "report format: text, yaml, csv or xlsx")
	fs.StringVarP(&opts.out, "out", "o", "", "write the report to `path` instead of stdout (required for xlsx)")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to `path` after the run")
	fs.Int("min-digits", 3, "minimum count of digits 0-9 in the address")
	fs.Int("max-length", 254, "maximum address length in characters (0 disables)")
	fs.Bool("ascii-only", false, "accept only ASCII letters and digits")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log diagnostics to stderr")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  %s                         prompt for one address\n", binName)
		fmt.Fprintf(stderr, "  %s [flags] address...      check each address\n", binName)
		fmt.Fprintf(stderr, "  %s [flags] --file list.txt  check each line of a file\n\n", binName)
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nPolicy and format flags may also be set as %s_MIN_DIGITS, %s_FORMAT, ...\n",
			config.EnvPrefix, config.EnvPrefix)
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.addresses = fs.Args()

	// Policy and format also come from the environment, below explicit flags.
	v := viper.New()
	for _, name := range []string{"format", "min-digits", "max-length", "ascii-only"} {
		env := config.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
		if err := v.BindEnv(name, env); err != nil {
			return opts, err
		}
		if err := v.BindPFlag(name, fs.Lookup(name)); err != nil {
			return opts, err
		}
	}

	format, err := report.ParseFormat(v.GetString("format"))
	if err != nil {
		return opts, err
	}
	opts.format = format
	if format.Binary() && opts.out == "" {
		return opts, fmt.Errorf("--format %s requires --out", format)
	}

	opts.policy = validate.Policy{
		MinDigits: v.GetInt("min-digits"),
		MaxLength: v.GetInt("max-length"),
		ASCIIOnly: v.GetBool("ascii-only"),
	}
	if opts.policy.MinDigits < 0 || opts.policy.MaxLength < 0 {
		return opts, errors.New("--min-digits and --max-length must not be negative")
	}
	return opts, nil
}

// prompt reads one line and prints its verdict message.
func prompt(checker *validate.Checker, stdin io.Reader, stdout io.Writer, logger *zap.Logger) int {
	fmt.Fprint(stdout, Prompt)

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		fmt.Fprintln(stdout)
		logger.Error("read stdin", zap.Error(err))
		return exitIO
	}

	v := checker.Check(strings.TrimRight(line, "\r\n"))
	metrics.RecordVerdict(metrics.SurfaceCLI, v)
	logger.Debug("email checked", zap.Bool("valid", v.Valid), zap.String("reason", v.Reason.String()))

	fmt.Fprintln(stdout, v.Message)
	return exitOK
}

func batch(opts options, checker *validate.Checker, stdin io.Reader, stdout io.Writer, logger *zap.Logger) int {
	inputs := opts.addresses
	if opts.file != "" {
		lines, err := readAddressFile(opts.file, stdin)
		if err != nil {
			logger.Error("read address list", zap.String("file", opts.file), zap.Error(err))
			return exitIO
		}
		inputs = append(inputs, lines...)
	}

	results := make([]report.Result, 0, len(inputs))
	for _, in := range inputs {
		v := checker.Check(in)
		metrics.RecordVerdict(metrics.SurfaceCLI, v)
		results = append(results, report.FromVerdict(in, v))
	}
	logger.Debug("batch checked", zap.Stringer("summary", report.Summarize(results)))

	if err := writeReport(opts, stdout, results); err != nil {
		logger.Error("write report", zap.String("out", opts.out), zap.Error(err))
		return exitIO
	}
	return exitOK
}

func writeReport(opts options, stdout io.Writer, results []report.Result) (err error) {
	if opts.out == "" {
		return report.Write(stdout, opts.format, results)
	}

	f, err := os.Create(opts.out)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return report.Write(f, opts.format, results)
}

// readAddressFile returns the non-blank lines of path, skipping lines that
// start with '#'. path "-" reads stdin.
func readAddressFile(path string, stdin io.Reader) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var out []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineBytes)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}
