package dbtour

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/surrealdb/dbtour/pkg/config"
	"github.com/surrealdb/dbtour/pkg/logger"
	"github.com/surrealdb/dbtour/pkg/report"
)

// App runs commands against the configured tours.
type App struct {
	cfg     *config.Config
	logData *logger.LogData
	log     zerolog.Logger
	out     io.Writer
	report  *report.Report
	tours   []Tour
}

// New loads the configuration named by opts, builds the logger and
// registers every tour. Results are printed to stdout and log lines go to
// stderr unless the configuration names a log file.
func New(opts *Options, stdout, stderr io.Writer) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath, opts.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.Log.Format = opts.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logData, err := logger.New().
		FromBuffer(stderr).
		FromPath(cfg.Log.Path).
		WithLevel(cfg.Log.Level).
		Console(cfg.Log.Format == "console").
		Make()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	rep := report.New(stdout)
	return &App{
		cfg:     cfg,
		logData: logData,
		log:     logData.Logger,
		out:     stdout,
		report:  rep,
		tours:   Tours(cfg, rep, logData.Logger),
	}, nil
}

// Close releases the log file, if any.
func (a *App) Close() error {
	if a.logData == nil {
		return nil
	}
	return a.logData.Close()
}

// List prints one line per tour: name, category and description.
func (a *App) List(_ context.Context, _ *ListCommand) error {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for _, t := range a.tours {
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name(), Category(t), t.Description())
	}
	return w.Flush()
}

// Run runs the selected tours one after another. Without KeepGoing the
// first failure stops the run; with it every failure is collected and
// returned joined.
func (a *App) Run(ctx context.Context, cmd *RunCommand) error {
	tours, err := Select(a.tours, cmd.Tours)
	if err != nil {
		return err
	}

	var errs []error
	for _, t := range tours {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		log := a.log.With().Str("tour", t.Name()).Logger()
		log.Info().Msg("tour started")
		start := time.Now()

		err := t.Run(ctx)
		elapsed := time.Since(start)
		if err != nil {
			log.Error().Err(err).Dur("elapsed", elapsed).Msg("tour failed")
			errs = append(errs, fmt.Errorf("%s: %w", t.Name(), err))
			if !cmd.KeepGoing {
				break
			}
			continue
		}
		log.Info().Dur("elapsed", elapsed).Msg("tour finished")
	}

	if err := a.report.Err(); err != nil {
		errs = append(errs, fmt.Errorf("failed to write report: %w", err))
	}
	return errors.Join(errs...)
}

// Ping checks every selected tour and prints "ok" or the error for each.
// The returned error joins all failures.
func (a *App) Ping(ctx context.Context, cmd *PingCommand) error {
	tours, err := Select(a.tours, cmd.Tours)
	if err != nil {
		return err
	}

	var errs []error
	for _, t := range tours {
		if err := t.Ping(ctx); err != nil {
			a.report.Printf("%-12s %v", t.Name(), err)
			errs = append(errs, fmt.Errorf("%s: %w", t.Name(), err))
			continue
		}
		a.report.Printf("%-12s ok", t.Name())
	}
	if err := a.report.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
