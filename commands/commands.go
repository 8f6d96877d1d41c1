// Package commands implements the fdoconf command line. Every command maps
// to one client operation and prints its result as indented JSON.
package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"fdo-conformance-client/config"
	edge_log "fdo-conformance-client/log"
	"fdo-conformance-client/services"
	"fdo-conformance-client/tracing"

	flags "github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Options are the global command line options
type Options struct {
	URL      string   `long:"url" description:"Base URL of the conformance backend (overrides FDOCONF_URL)"`
	LogLevel string   `long:"log-level" description:"Log level: debug, info, warn or error (overrides FDOCONF_LOG_LEVEL)"`
	EnvFiles []string `long:"env-file" description:"Environment file to load before reading FDOCONF_* variables" default:".env"`
}

// Runtime is shared by all commands. It is filled in once the global
// options have been parsed, right before the selected command runs.
type Runtime struct {
	API    *services.API
	Client *services.Client
	Logger *zap.Logger
	Out    io.Writer
	Err    io.Writer
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

func (rt *Runtime) setup(opts *Options) (io.Closer, error) {
	if err := config.LoadEnvFiles(opts.EnvFiles...); err != nil {
		return nil, err
	}

	cfg, err := config.Load()

	if err != nil {
		return nil, err
	}

	cfg.Override(opts.URL, opts.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, _ := edge_log.New(rt.Err, cfg.LogLevel)
	rt.Logger = logger

	var closer io.Closer = closerFunc(func() error { return logger.Sync() })

	if cfg.Tracing {
		tracer, err := tracing.Start(logger.With(zap.String("component", "opentracing")), tracing.DefaultServiceName)

		if err != nil {
			return nil, errors.Wrap(err, "could not start tracing")
		}

		closer = closerFunc(func() error {
			tracer.Close()

			return logger.Sync()
		})
	}

	client, err := services.NewClient(cfg.URL, logger.With(zap.String("component", "services.Client")))

	if err != nil {
		return nil, err
	}

	client.UserAgent = cfg.UserAgent

	if cfg.Session != "" {
		if err := client.SetSession(cfg.Session); err != nil {
			return nil, err
		}
	}

	rt.Client = client
	rt.API = services.NewAPI(client)

	logger.Debug("setup(): client ready", zap.String("url", cfg.URL))

	return closer, nil
}

// print writes v as indented JSON
func (rt *Runtime) printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")

	if err != nil {
		return errors.Wrap(err, "encode result")
	}

	_, err = fmt.Fprintln(rt.Out, string(data))

	return err
}

func (rt *Runtime) printStatus() error {
	return rt.printJSON(map[string]string{"status": "ok"})
}

type command struct {
	name  string
	short string
	long  string
	data  flags.Commander
}

// NewParser builds the command line parser. Commands run against rt.
func NewParser(opts *Options, rt *Runtime) (*flags.Parser, error) {
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "fdoconf"
	parser.ShortDescription = "FDO conformance client"
	parser.LongDescription = "Drives the FDO conformance test backend: accounts, devices, onboarding and rendezvous tests."

	all := append(sessionCommands(rt), entityCommands(rt)...)

	for _, cmd := range all {
		if _, err := parser.AddCommand(cmd.name, cmd.short, cmd.long, cmd.data); err != nil {
			return nil, errors.Wrapf(err, "add command %s", cmd.name)
		}
	}

	return parser, nil
}

// Run parses args, runs the selected command and returns the exit code
func Run(args []string, stdout io.Writer, stderr io.Writer) int {
	var opts Options

	rt := &Runtime{Out: stdout, Err: stderr}

	parser, err := NewParser(&opts, rt)

	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)

		return 1
	}

	parser.CommandHandler = func(cmd flags.Commander, cmdArgs []string) error {
		if cmd == nil {
			return nil
		}

		closer, err := rt.setup(&opts)

		if err != nil {
			return err
		}

		defer closer.Close()

		return cmd.Execute(cmdArgs)
	}

	if _, err := parser.ParseArgs(args); err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, fe.Message)

			return 0
		}

		fmt.Fprintf(stderr, "%s\n", err)

		return 1
	}

	return 0
}
