package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lowarray/telmodel/internal/app"
	"github.com/lowarray/telmodel/internal/cli"
)

// main is the entrypoint for the telmodel application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// App construction panics on critical startup errors (an unreadable
	// array catalog), so we recover here to provide a clean exit message.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	telmodelApp := app.NewApp(outW, appConfig)

	return telmodelApp.Run(context.Background(), appConfig)
}
