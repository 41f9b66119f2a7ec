package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/lowarray/telmodel/internal/app"
	"github.com/lowarray/telmodel/internal/arraycfg"
	"github.com/lowarray/telmodel/internal/assembler"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("telmodel", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprintf(output, `
telmodel - Generate a telescope model directory for an array configuration.

Usage:
  telmodel [options] ARRAY_SIZE

Arguments:
  ARRAY_SIZE
    Array size identifier. One of: %s (AAstar is accepted for AA*).

Options:
`, strings.Join(arraycfg.KnownNames, ", "))
		flagSet.PrintDefaults()
	}

	arrayFlag := flagSet.String("array", "", "Array size identifier (alternative to the positional argument).")
	noStationRotFlag := flagSet.Bool("no-station-rotation", false, "Reuse the reference station's unrotated layout for every station; no feed-angle files.")
	noFeedRotFlag := flagSet.Bool("no-feed-rotation", false, "Rotate station layouts but write no feed-angle files.")
	catalogFlag := flagSet.String("catalog", "configs/arrays", "Path to the array catalog: an .hcl file or a directory of .hcl files.")
	tableFlag := flagSet.String("rotation-table", "low_array_coords.dat", "Path to the station rotation table.")
	layoutFlag := flagSet.String("reference-layout", "s8-1.txt", "Path to the reference station antenna layout.")
	outFlag := flagSet.String("out", ".", "Parent directory for the generated model directory.")
	workersFlag := flagSet.Int("workers", 1, "Number of stations written concurrently. 1 is strictly sequential.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	arrayName := *arrayFlag
	if arrayName == "" && flagSet.NArg() > 0 {
		arrayName = flagSet.Arg(0)
	}
	if arrayName == "" {
		flagSet.Usage()
		return nil, false, &ExitError{Code: 2, Message: "an array size argument is required"}
	}
	if _, ok := arraycfg.CanonicalName(arrayName); !ok {
		return nil, false, &ExitError{
			Code: 2,
			Message: fmt.Sprintf("invalid array size %q: must be one of %s (or AAstar)",
				arrayName, strings.Join(arraycfg.KnownNames, ", ")),
		}
	}

	if *noStationRotFlag && *noFeedRotFlag {
		return nil, false, &ExitError{Code: 2, Message: "flags -no-station-rotation and -no-feed-rotation are mutually exclusive"}
	}
	mode := assembler.Full
	switch {
	case *noStationRotFlag:
		mode = assembler.NoStationRotation
	case *noFeedRotFlag:
		mode = assembler.NoFeedRotation
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

	config, err := app.NewConfig(app.Config{
		ArrayName:           arrayName,
		Mode:                mode,
		CatalogPath:         *catalogFlag,
		RotationTablePath:   *tableFlag,
		ReferenceLayoutPath: *layoutFlag,
		OutRoot:             *outFlag,
		LogFormat:           logFormat,
		LogLevel:            logLevel,
		Workers:             *workersFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
