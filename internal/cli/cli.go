// Package cli parses command-line arguments, runs the generator and maps
// failures to process exit codes.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/tsawler/sysdoc"
	"github.com/tsawler/sysdoc/model"
	"github.com/tsawler/sysdoc/report"
)

// ExitError is an error carrying the process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Config is the validated command line.
type Config struct {
	DefinitionPath string // empty selects the built-in report
	OutputPath     string // empty lets the definition decide
	Verify         bool
	LogLevel       string
	LogFormat      string
}

// Parse processes command-line arguments. It returns the Config, whether
// the program should exit cleanly (help was requested), or an ExitError
// with code 2 for misuse.
func Parse(args []string, output io.Writer) (*Config, bool, error) {
	flagSet := flag.NewFlagSet("sysdoc", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
sysdoc - Generate system documentation as a DOCX file.

Usage:
  sysdoc [options] [DEFINITION]

Arguments:
  DEFINITION
    Path to an .hcl report definition. Without one the built-in
    medical system report is generated.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to the .hcl report definition.")
	outFlag := flagSet.String("o", "", "Output .docx path. Overrides the definition's output.")
	verifyFlag := flagSet.Bool("verify", false, "Re-open the written package and log its contents.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := *configFlag
	switch {
	case flagSet.NArg() > 1:
		return nil, false, &ExitError{Code: 2, Message: "at most one definition path may be given"}
	case flagSet.NArg() == 1 && path != "":
		return nil, false, &ExitError{Code: 2, Message: "definition given both as -config and as an argument"}
	case flagSet.NArg() == 1:
		path = flagSet.Arg(0)
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	return &Config{
		DefinitionPath: path,
		OutputPath:     *outFlag,
		Verify:         *verifyFlag,
		LogLevel:       logLevel,
		LogFormat:      logFormat,
	}, false, nil
}

// NewLogger creates a logger writing to w in the given level and format.
func NewLogger(levelStr, formatStr string, w io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}

// Run generates the document described by cfg. The written path is
// announced on stdout; logs go to stderr. Failures are returned as an
// ExitError with code 1 whose message starts with the error kind.
func Run(cfg *Config, stdout, stderr io.Writer) error {
	logger := NewLogger(cfg.LogLevel, cfg.LogFormat, stderr)

	gen := sysdoc.Default()
	if cfg.DefinitionPath != "" {
		gen = sysdoc.FromFile(cfg.DefinitionPath)
	}
	gen = gen.Logger(logger)
	if cfg.OutputPath != "" {
		gen = gen.Output(cfg.OutputPath)
	}

	path, err := gen.Write()
	if err != nil {
		return failure(err)
	}
	fmt.Fprintf(stdout, "Successfully created %s\n", path)

	if cfg.Verify {
		s, err := sysdoc.Inspect(path)
		if err != nil {
			return failure(err)
		}
		logger.Info("package verified",
			"path", s.Path,
			"headings", s.Headings,
			"paragraphs", s.Paragraphs,
			"list_items", s.ListItems,
			"lists", s.Lists,
			"tables", s.Tables,
			"styles", s.Styles,
			"identifier", s.Identifier,
		)
	}
	return nil
}

// Kind names the class of err for display.
func Kind(err error) string {
	if errors.Is(err, report.ErrDefinition) {
		return "DefinitionError"
	}
	return model.Kind(err)
}

func failure(err error) error {
	return &ExitError{Code: 1, Message: fmt.Sprintf("%s: %v", Kind(err), err)}
}
