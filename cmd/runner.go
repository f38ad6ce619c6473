package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/p2c/internal/plex"
	"github.com/desertthunder/p2c/internal/prompt"
	"github.com/desertthunder/p2c/internal/shared"
	"github.com/desertthunder/p2c/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
	selector   prompt.Selector
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config // used instead of a config file when set
	ConfigPath string         // default for --config
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	Selector   prompt.Selector // overrides the console and --tui selectors
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
		selector:   opts.Selector,
	}
}

// session is the per-invocation state shared by every command action.
type session struct {
	config   *shared.Config
	settings shared.Settings
	logger   *log.Logger
	selector prompt.Selector
}

// start loads the configuration, applies the log level and resolves settings for one command invocation.
func (r *Runner) start(cmd *cli.Command) (*session, error) {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if err := r.configureLogger(cmd, config); err != nil {
		return nil, err
	}

	args := map[string]string{}
	for _, key := range shared.SettingKeys {
		if cmd.IsSet(key) {
			args[key] = cmd.String(key)
		}
	}

	settings, warnings := shared.ResolveSettings(config, args)
	for _, w := range warnings {
		r.logger.Warn(w)
	}

	return &session{
		config:   config,
		settings: settings,
		logger:   shared.WithLogger(r.logger, "run", shared.ShortID()),
		selector: r.selectorFor(cmd),
	}, nil
}

func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	explicit := cmd.String("config")
	if r.config != nil && !cmd.IsSet("config") {
		return r.config, nil
	}
	if explicit == "" {
		explicit = r.configPath
	}

	path, err := shared.FindConfig(explicit, ".")
	if err != nil {
		if explicit == "" && errors.Is(err, shared.ErrMissingConfig) {
			r.logger.Warn("no config file found, using command-line values", "tried", strings.Join(shared.ConfigCandidates, ", "))
			return &shared.Config{}, nil
		}
		return nil, err
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("loaded config", "path", path)
	return config, nil
}

func (r *Runner) configureLogger(cmd *cli.Command, config *shared.Config) error {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
		return nil
	}

	name := config.LogLevel
	if cmd.IsSet("log-level") {
		name = cmd.String("log-level")
	}

	level, err := shared.ParseLogLevel(name)
	if err != nil {
		return err
	}
	shared.SetLogLevel(r.logger, level)
	return nil
}

func (r *Runner) selectorFor(cmd *cli.Command) prompt.Selector {
	switch {
	case r.selector != nil:
		return r.selector
	case cmd.Bool("tui"):
		return ui.NewSelector(r.input, r.output)
	default:
		return prompt.NewConsole(r.input, r.output)
	}
}

func (r *Runner) newClient(s *session) *plex.Client {
	return plex.NewClient(plex.ClientOpts{
		Host:       s.settings.Host,
		Token:      s.settings.Token,
		HTTPClient: r.httpClient,
		Logger:     s.logger,
		RateLimit:  s.config.RateLimit,
	})
}

// askToken prompts for the access token when none was configured.
func (r *Runner) askToken(ctx context.Context, s *session) error {
	if s.settings.Token != "" {
		return nil
	}

	token, err := s.selector.Input(ctx, "Enter your Plex token: ")
	if err != nil {
		return err
	}
	s.settings.Token = strings.TrimSpace(token)
	return r.writePlain("Plex token set!\n\n")
}

// connect prepares a session and a client that passed the connectivity check.
func (r *Runner) connect(ctx context.Context, cmd *cli.Command) (*session, *plex.Client, error) {
	s, err := r.start(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := r.askToken(ctx, s); err != nil {
		return nil, nil, err
	}

	client := r.newClient(s)
	if err := client.CheckConnection(ctx); err != nil {
		return nil, nil, err
	}
	return s, client, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
