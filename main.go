package dbtour

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Main is the entry point of the dbtour command. args excludes the program
// name.
func Main(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd, opts, err := Parse(args)
	if err != nil {
		return fmt.Errorf("failed to parse arguments: %w", err)
	}

	app, err := New(opts, stdout, stderr)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer app.Close()

	return app.Execute(ctx, cmd)
}

// Execute dispatches cmd to the matching App method.
func (a *App) Execute(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case *ListCommand:
		return a.List(ctx, c)
	case *RunCommand:
		if err := a.Run(ctx, c); err != nil {
			return fmt.Errorf("run failed: %w", err)
		}
	case *PingCommand:
		if err := a.Ping(ctx, c); err != nil {
			return fmt.Errorf("ping failed: %w", err)
		}
	default:
		return fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
	return nil
}
