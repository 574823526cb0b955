package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v3"

	"hass-skill/config"
	"hass-skill/internal/application"
	"hass-skill/internal/dialog"
	"hass-skill/internal/domain"
	"hass-skill/internal/fuzzy"
	"hass-skill/internal/infra"
	"hass-skill/internal/infra/bus"
	"hass-skill/internal/infra/homeassistant"
	"hass-skill/internal/infra/httpapi"
	"hass-skill/internal/infra/pushover"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		slog.Error("exiting", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "hass-skill",
		Usage:   "control Home Assistant by voice",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to config file",
				Sources: cli.NewValueSourceChain(cli.EnvVar("SKILL_CONFIG")),
			},
			&cli.StringFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Value:   ".env",
				Usage:   "env file loaded before the config is expanded",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "overrides log.level from the config",
				Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL")),
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			intentCommand(),
			askCommand(),
			resolveCommand(),
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve intents over HTTP and the message bus",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			return serve(ctx, env)
		},
	}
}

func intentCommand() *cli.Command {
	return &cli.Command{
		Name:      "intent",
		Usage:     "handle one intent and print what would be spoken",
		ArgsUsage: "<intent name>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "slot", Aliases: []string{"s"}, Usage: "slot as name=value, repeatable"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				return errors.New("intent name is required")
			}
			slots, err := parseSlots(cmd.StringSlice("slot"))
			if err != nil {
				return err
			}

			env, err := setup(cmd)
			if err != nil {
				return err
			}

			resp := env.dispatcher.HandleIntent(ctx, domain.NewIntent(name, slots))
			printSentences(cmd.Root().Writer, env.catalog.Sentences(resp), resp.Handled)
			return nil
		},
	}
}

func askCommand() *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "relay an utterance to the Home Assistant conversation agent",
		ArgsUsage: "<utterance>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			utterance := strings.Join(cmd.Args().Slice(), " ")
			if strings.TrimSpace(utterance) == "" {
				return errors.New("utterance is required")
			}

			env, err := setup(cmd)
			if err != nil {
				return err
			}

			resp := env.dispatcher.HandleUtterance(ctx, utterance)
			printSentences(cmd.Root().Writer, env.catalog.Sentences(resp), resp.Handled)
			return nil
		},
	}
}

func resolveCommand() *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "print the entity a spoken name resolves to",
		ArgsUsage: "<name>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "domain", Aliases: []string{"d"}, Usage: "restrict to an entity domain, repeatable"},
			&cli.BoolFlag{Name: "all", Usage: "list every match above the threshold"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			query := strings.Join(cmd.Args().Slice(), " ")

			env, err := setup(cmd)
			if err != nil {
				return err
			}
			ha, err := env.connect()
			if err != nil {
				return err
			}

			resolver := application.NewResolver(ha)
			domains := cmd.StringSlice("domain")
			out := cmd.Root().Writer

			if cmd.Bool("all") {
				entities, err := resolver.FindAll(ctx, query, domains)
				if err != nil {
					return err
				}
				for _, e := range entities {
					fmt.Fprintf(out, "%s\t%s\t%d\n", e.ID, e.Name, fuzzy.PartialTokenSortRatio(query, e.Name))
				}
				return nil
			}

			entity, err := resolver.Resolve(ctx, query, domains)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\t%s\t%d\n", entity.ID, entity.Name, fuzzy.PartialTokenSortRatio(query, entity.Name))
			return nil
		},
	}
}

// environment is everything the commands share once the config is loaded.
type environment struct {
	cfg        *config.Config
	logger     *slog.Logger
	catalog    *dialog.Catalog
	connect    application.Connector
	dispatcher *application.Dispatcher
}

func setup(cmd *cli.Command) (*environment, error) {
	envFile := cmd.String("env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if level := cmd.String("log-level"); level != "" {
		cfg.Log.Level = level
	}

	logger := setupLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	catalog, err := dialog.Load(cfg.Skill.Language)
	if err != nil {
		return nil, err
	}

	var notifier application.Notifier
	if cfg.Pushover.Enabled {
		notifier = pushover.NewClient(cfg.Pushover.Token, cfg.Pushover.UserKey)
	} else {
		notifier = &application.NoopNotifier{}
	}

	connect := newConnector(cfg.HomeAssistant.Settings(), logger)

	dispatcher := application.NewDispatcher(application.Config{
		Connect:        connect,
		Lexicon:        catalog,
		Notifier:       notifier,
		Logger:         logger,
		EnableFallback: cfg.Skill.EnableFallback,
	})

	return &environment{
		cfg:        cfg,
		logger:     logger,
		catalog:    catalog,
		connect:    connect,
		dispatcher: dispatcher,
	}, nil
}

// newConnector builds the Home Assistant client once. A broken or missing
// configuration is reported on every request instead of at startup so the
// skill can still explain what is wrong.
func newConnector(settings homeassistant.Settings, logger *slog.Logger) application.Connector {
	client, err := homeassistant.NewClient(settings)
	if err != nil {
		logger.Warn("home assistant client unavailable", "error", err)
		return func() (application.HomeAssistant, error) {
			return nil, err
		}
	}
	logger.Info("using home assistant", "url", client.BaseURL())
	return func() (application.HomeAssistant, error) {
		return client, nil
	}
}

func serve(ctx context.Context, env *environment) error {
	cfg := env.cfg
	runErr := make(chan error, 1)

	if *cfg.HTTP.Enabled {
		server := httpapi.NewServer(httpapi.Options{
			Addr:      cfg.HTTP.Addr,
			AuthToken: cfg.HTTP.AuthToken,
			RateLimit: cfg.HTTP.RateLimit,
		}, env.dispatcher, env.catalog, env.logger)
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("starting http server: %w", err)
		}
		defer func() {
			if err := server.Stop(); err != nil {
				env.logger.Error("stopping http server", "error", err)
			}
		}()
	}

	if cfg.Bus.Enabled {
		retry := infra.DefaultRetryConfig()
		retry.MaxAttempts = cfg.Bus.MaxAttempts
		client := bus.NewClient(bus.Options{
			URL:          cfg.Bus.URL,
			IntentType:   cfg.Bus.IntentType,
			FallbackType: cfg.Bus.FallbackType,
			Retry:        retry,
		}, env.dispatcher, env.catalog, env.logger)
		go func() {
			runErr <- client.Run(ctx)
		}()
	}

	if !*cfg.HTTP.Enabled && !cfg.Bus.Enabled {
		return errors.New("neither http nor bus is enabled")
	}

	env.logger.Info("skill running",
		"version", version,
		"language", env.catalog.Language(),
		"http", *cfg.HTTP.Enabled,
		"bus", cfg.Bus.Enabled,
		"fallback", cfg.Skill.EnableFallback,
	)

	select {
	case <-ctx.Done():
		env.logger.Info("shutting down")
		return nil
	case err := <-runErr:
		if err != nil {
			return fmt.Errorf("bus: %w", err)
		}
		<-ctx.Done()
		return nil
	}
}

func setupLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(w, &tint.Options{Level: level})
	}

	return slog.New(handler)
}

func printSentences(w io.Writer, sentences []string, handled bool) {
	for _, s := range sentences {
		fmt.Fprintln(w, s)
	}
	if !handled {
		fmt.Fprintln(w, "(not handled)")
	}
}
