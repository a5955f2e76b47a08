package dbtour

import (
	"flag"
	"fmt"
)

const usage = `Usage: dbtour [flags] <command> [tour...]

Commands:
  list      List the available tours
  run       Run the named tours, or all of them in order
  ping      Check that the servers of the named tours answer

Examples:
  dbtour list
  dbtour run                                  # every tour
  dbtour run keyvalue geospatial
  dbtour -keep-going run                      # report all failures at the end
  dbtour -config dbtour.yaml -log-level debug ping relational
  DBTOUR_REDIS_URL=redis://cache:6379/1 dbtour run keyvalue`

// Options holds the flags shared by every command.
type Options struct {
	ConfigPath string
	EnvFile    string
	LogLevel   string
	LogFormat  string
}

// Parse parses command line arguments into the command to execute and the
// options shared across commands. Flags come before the command; any
// arguments after it are tour names.
func Parse(args []string) (Command, *Options, error) {
	flagSet := flag.NewFlagSet("dbtour", flag.ContinueOnError)

	var (
		configPath = flagSet.String("config", "", "YAML configuration file")
		envFile    = flagSet.String("env-file", ".env", "dotenv file loaded into the environment when present")
		logLevel   = flagSet.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
		logFormat  = flagSet.String("log-format", "", "Log format: console or json (overrides config)")
		keepGoing  = flagSet.Bool("keep-going", false, "Keep running tours after one fails")
	)

	if err := flagSet.Parse(args); err != nil {
		return nil, nil, err
	}

	remainingArgs := flagSet.Args()
	if len(remainingArgs) == 0 {
		return nil, nil, fmt.Errorf("%w\n\n%s", ErrNoCommand, usage)
	}

	opts := &Options{
		ConfigPath: *configPath,
		EnvFile:    *envFile,
		LogLevel:   *logLevel,
		LogFormat:  *logFormat,
	}

	var cmd Command
	names := remainingArgs[1:]
	switch remainingArgs[0] {
	case "list":
		if len(names) > 0 {
			return nil, nil, fmt.Errorf("list takes no arguments, got %v", names)
		}
		cmd = &ListCommand{}
	case "run":
		cmd = &RunCommand{Tours: names, KeepGoing: *keepGoing}
	case "ping":
		cmd = &PingCommand{Tours: names}
	default:
		return nil, nil, fmt.Errorf("%w: %q\n\n%s", ErrUnknownCommand, remainingArgs[0], usage)
	}

	return cmd, opts, nil
}
