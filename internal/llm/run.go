package llm

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/davidhbaek/aidebate/internal/config"
	"github.com/davidhbaek/aidebate/internal/document"
	"github.com/davidhbaek/aidebate/internal/images"
	"github.com/davidhbaek/aidebate/internal/wire"
)

type env struct {
	cfg    config.Config
	images fileList
	logger zerolog.Logger
	stdout io.Writer
}

type fileList []string

var _ flag.Value = &fileList{}

func (f *fileList) String() string {
	return fmt.Sprintf("%v", *f)
}

func (f *fileList) Set(value string) error {
	*f = append(*f, value)
	return nil
}

func CLI(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return Main(ctx, args, os.Stdout, os.Stderr)
}

// Main runs the debate with the given arguments and output streams and
// returns the process exit code.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := env{stdout: stdout}
	err := app.fromArgs(args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "parsing args: %v\n", err)
		return 2
	}

	if err := app.run(ctx); err != nil {
		fmt.Fprintf(stderr, "runtime error: %v\n", err)
		return 1
	}
	return 0
}

func (app *env) fromArgs(args []string, stderr io.Writer) error {
	fl := flag.NewFlagSet("aidebate", flag.ContinueOnError)
	fl.SetOutput(stderr)

	var topic string
	fl.StringVar(&topic, "t", "", "the debate topic")
	fl.StringVar(&topic, "topic", "", "the debate topic")

	var background string
	fl.StringVar(&background, "b", "", "the user's background, or a path to a .txt or .pdf file describing it")
	fl.StringVar(&background, "background", "", "the user's background, or a path to a .txt or .pdf file describing it")

	var imgs fileList
	fl.Var(&imgs, "i", "list of image paths (filenames and URLs) to show both services")
	fl.Var(&imgs, "image", "list of image paths (filenames and URLs) to show both services")

	var configPath string
	fl.StringVar(&configPath, "config", "", "path to a TOML config file")

	var envPath string
	fl.StringVar(&envPath, "env", "", "path to a .env file (defaults to ./.env if present)")

	var concurrent bool
	fl.BoolVar(&concurrent, "concurrent", false, "ask both services at the same time")

	var verbose bool
	fl.BoolVar(&verbose, "v", false, "log debug output to stderr")
	fl.BoolVar(&verbose, "verbose", false, "log debug output to stderr")

	if err := fl.Parse(args); err != nil {
		return fmt.Errorf("parsing command line arguments: %w", err)
	}

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	app.logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()

	if err := config.LoadEnv(envPath); err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if topic != "" {
		cfg.Topic = topic
	}
	if background != "" {
		cfg.Background = background
	}
	if concurrent {
		cfg.Concurrent = true
	}

	// Get the background text if it's coming from a file
	if document.IsPath(cfg.Background) {
		app.logger.Debug().Str("path", cfg.Background).Msg("reading background file")
		text, err := document.ReadText(cfg.Background)
		if err != nil {
			return fmt.Errorf("reading background: %w", err)
		}
		cfg.Background = text
	}

	app.cfg = cfg
	app.images = imgs

	return nil
}

func (app *env) run(ctx context.Context) error {
	attachments := make([]wire.Image, 0, len(app.images))
	for _, path := range app.images {
		img, err := images.Load(ctx, path)
		if err != nil {
			return err
		}
		app.logger.Debug().Str("path", path).Str("media_type", img.MediaType).Int("bytes", len(img.Data)).Msg("attached image")
		attachments = append(attachments, img)
	}

	debate := Debate{
		Providers:  NewProviders(app.cfg, attachments, app.logger),
		Concurrent: app.cfg.Concurrent,
		Logger:     app.logger,
	}

	if err := debate.Run(ctx, app.stdout, app.cfg.Topic, app.cfg.Background); err != nil {
		return fmt.Errorf("writing debate: %w", err)
	}

	return nil
}
