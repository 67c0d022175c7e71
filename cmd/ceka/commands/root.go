// Package commands implements the ceka command line.
package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/teranos/ceka/cli"
	"github.com/teranos/ceka/config"
	"github.com/teranos/ceka/errors"
	"github.com/teranos/ceka/logger"
	"github.com/teranos/ceka/runner"
	"github.com/teranos/ceka/version"
)

// Process exit codes
const (
	ExitHelp       = -1
	ExitParse      = -2
	ExitValidation = -3
	ExitOK         = 0
	ExitFatal      = 1
)

// ExitError is a command line error that carries its exit code
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// longForms maps multi-letter single-dash names to their long flag
var longForms = map[string]string{
	"ot":  "output-type",
	"cs":  "connection-string",
	"col": "columns",
	"lf":  "logfile",
	"bw":  "block-welcome",
}

// aliases resolve to canonical flag names during parsing
var aliases = map[string]string{
	"in":          "input-file",
	"input":       "input-file",
	"if":          "input-file",
	"out":         "output-file",
	"output":      "output-file",
	"of":          "output-file",
	"dma":         "algorithm",
	"algo":        "algorithm",
	"result":      "output-type",
	"r":           "output-type",
	"func":        "function",
	"action":      "function",
	"params":      "parameters",
	"pa":          "parameters",
	"ap":          "parameters",
	"con-str":     "connection-string",
	"constr":      "connection-string",
	"database":    "connection-string",
	"column":      "columns",
	"enable-log":  "log",
	"log-enabled": "log",
	"nc":          "block-welcome",
}

// loadConfig is replaced in tests
var loadConfig = config.Load

// invocation holds everything one Execute call parses
type invocation struct {
	raw   cli.Raw
	help  bool
	stray []string
}

// Execute runs ceka with args and returns the process exit code
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	inv := &invocation{}
	cmd := inv.command()
	cmd.SetArgs(RewriteArgs(cmd.Flags(), args))
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	parseErr := cmd.ExecuteContext(ctx)
	if parseErr == nil && len(inv.stray) > 0 {
		parseErr = &ExitError{Code: ExitParse, Message: fmt.Sprintf("unexpected argument %q", inv.stray[0])}
	}

	cfg, err := loadConfig()
	if err == nil {
		err = cfg.Validate(version.Get().Version)
	}
	if err != nil {
		fatal(stderr, errors.Wrap(err, "invalid configuration"))
		return ExitFatal
	}
	overlay(cmd.Flags(), &inv.raw, cfg)

	if !inv.raw.BlockWelcome {
		printBanner(stdout)
	}

	if inv.help {
		fmt.Fprintf(stdout, "%s\n\n%s", cmd.Long, cmd.UsageString())
		return ExitHelp
	}
	if parseErr != nil {
		printErrors(stdout, parseErr.Error())
		return ExitParse
	}

	logFile := ""
	if inv.raw.Log {
		logFile = inv.raw.LogFile
	}
	closeLog, err := logger.Initialize(logger.Options{
		Verbose: inv.raw.Verbose,
		LogFile: logFile,
		Console: stderr,
		RunID:   uuid.NewString(),
	})
	if err != nil {
		fatal(stderr, err)
		return ExitFatal
	}
	defer func() { _ = closeLog() }()
	log := logger.Logger

	log.Debugf("%s", version.Get().String())
	log.Debugf("invoked as: %s", shellquote.Join(append([]string{"ceka"}, args...)...))

	opts, err := cli.Validate(inv.raw)
	if err != nil {
		log.Debugw("Validation failed", "error", err)
		printErrors(stdout, err.Error())
		return ExitValidation
	}

	exec, err := runner.Dispatch(opts)
	if err != nil {
		fatal(stderr, err)
		return ExitFatal
	}

	log.Debugf("Running %s", opts.Route)
	env := runner.NewEnv(log, opts.Verbose, stdout, cfg.Import.Driver)
	if err := exec.Run(ctx, env); err != nil {
		log.Debugw("Run failed", "route", opts.Route.String(), "error", fmt.Sprintf("%+v", err))
		fatal(stderr, err)
		return ExitFatal
	}
	return ExitOK
}

func (inv *invocation) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ceka",
		Short: "Mine association rules, transform ARFF datasets and import SQL tables",
		Long: `ceka works in one of three modes selected with -m:

  mine  runs Apriori over an ARFF dataset
  arff  applies a transform function to an ARFF dataset
  sql   builds an ARFF dataset from a database table`,
		Example: `  ceka -m=mine -a=apriori -i=weather -ot=json -p=support:0.3 -p=confidence:0.9 -p=apply-support:true -p=apply-confidence:true
  ceka -m=arff -i=patients -f=removePerAttributeValue -p=smoker -p=no
  ceka -m=sql -cs="SERVER=localhost;DATABASE=uhs;UID=root;PASSWORD=root;" -o=uhs -p=table:patients -col=age -col=smoker`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv.stray = args
			return nil
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	f := cmd.Flags()
	f.SortFlags = false
	f.StringVarP(&inv.raw.Mode, "mode", "m", "", "ceka mode; choose between: 'mine', 'arff', 'sql'")
	f.StringVarP(&inv.raw.InputFile, "input-file", "i", "", "input dataset, the .arff extension is optional (aliases: in, input, if)")
	f.StringVarP(&inv.raw.OutputFile, "output-file", "o", "", "output file (aliases: out, output, of)")
	f.StringVarP(&inv.raw.Algorithm, "algorithm", "a", "", "mining algorithm; choose from: "+strings.Join(cli.SupportedAlgorithms, ", ")+" (aliases: dma, algo)")
	f.StringVar(&inv.raw.OutputType, "output-type", "", "mine result type, -ot; choose from: "+strings.Join(cli.SupportedOutputTypes, ", ")+" (aliases: result, r)")
	f.StringVarP(&inv.raw.Function, "function", "f", "", "transform function for arff mode (aliases: func, action)")
	f.StringArrayVarP(&inv.raw.Parameters, "parameters", "p", nil, "parameter, repeatable: -p=key:value in mine and sql mode, -p=value in arff mode (aliases: params, pa, ap)")
	f.StringVar(&inv.raw.ConnectionString, "connection-string", "", "database connection for sql mode, -cs (aliases: con-str, constr, database)")
	f.StringArrayVar(&inv.raw.Columns, "columns", nil, "column to import, -col, repeatable (alias: column)")
	f.BoolVarP(&inv.raw.Log, "log", "l", false, "write a logfile (aliases: enable-log, log-enabled)")
	f.StringVar(&inv.raw.LogFile, "logfile", logger.DefaultLogFile, "logfile to write to, -lf")
	f.BoolVar(&inv.raw.BlockWelcome, "block-welcome", false, "suppress the welcome message, -bw (alias: nc)")
	f.BoolVarP(&inv.help, "help", "h", false, "display this help text")
	f.BoolVarP(&inv.raw.Verbose, "verbose", "v", false, "display debugging information")

	cmd.SetGlobalNormalizationFunc(normalizeFlag)
	cmd.SetHelpFunc(func(*cobra.Command, []string) { inv.help = true })
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitParse, Message: err.Error()}
	})
	return cmd
}

func normalizeFlag(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if long, ok := aliases[name]; ok {
		return pflag.NormalizedName(long)
	}
	return pflag.NormalizedName(name)
}

// RewriteArgs turns single-dash long names (-ot=json, -mode=arff, -nc) into
// their double-dash form. A name is long when it is in longForms or when
// flags knows it as a flag name or alias; anything else stays a shorthand
// group. Everything after "--" is left alone.
func RewriteArgs(flags *pflag.FlagSet, args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}
		out = append(out, rewriteArg(flags, arg))
	}
	return out
}

func rewriteArg(flags *pflag.FlagSet, arg string) string {
	if !strings.HasPrefix(arg, "-") || strings.HasPrefix(arg, "--") {
		return arg
	}
	name, value, hasValue := strings.Cut(arg[1:], "=")
	long, ok := longForms[name]
	if !ok {
		// Lookup applies the alias normalization
		if name == "" || flags.Lookup(name) == nil {
			return arg
		}
		long = name
	}
	if hasValue {
		return "--" + long + "=" + value
	}
	return "--" + long
}

// overlay fills flags the user did not pass from the configuration
func overlay(flags *pflag.FlagSet, raw *cli.Raw, cfg *config.Config) {
	if !flags.Changed("log") {
		raw.Log = cfg.Log.Enabled
	}
	if !flags.Changed("logfile") {
		raw.LogFile = cfg.Log.File
	}
	if !flags.Changed("block-welcome") {
		raw.BlockWelcome = cfg.Output.BlockWelcome
	}
	if !flags.Changed("verbose") {
		raw.Verbose = cfg.Output.Verbose
	}
}

func printErrors(w io.Writer, msg string) {
	fmt.Fprintf(w, "Errors: \n  * %s\n", msg)
}

func fatal(w io.Writer, err error) {
	fmt.Fprint(w, pterm.Error.Sprintln(err.Error()))
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprint(w, pterm.Info.Sprintln(hint))
	}
}
