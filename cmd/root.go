package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"promptbridge/internal/config"
	"promptbridge/internal/logging"
	"promptbridge/internal/provider"
	providerfactory "promptbridge/internal/provider/factory"
	"promptbridge/internal/router"
)

const usage = `promptbridge translates prompts into LLM provider request bodies
and provider responses back into text.

Usage:
  promptbridge <command> [flags]

Commands:
  serve    Start the HTTP translation service
  build    Print the request body for a prompt file
  extract  Print the text of a provider response

Flags:
  -h, --help  Show this help message`

// Execute runs the CLI dispatcher with the provided arguments.
func Execute(ctx context.Context, args []string) error {
	return execute(ctx, args, os.Stdin, os.Stdout)
}

func execute(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		return printUsage(stdout)
	}

	switch args[0] {
	case "serve":
		return serve(ctx, args[1:])
	case "build":
		return build(args[1:], stdout)
	case "extract":
		return extract(args[1:], stdin, stdout)
	case "help", "-h", "--help":
		return printUsage(stdout)
	default:
		return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
	}
}

func printUsage(w io.Writer) error {
	_, err := fmt.Fprintln(w, strings.TrimSpace(usage))
	return err
}

// loadConfig loads the optional env file and configuration, falling back to
// defaults when no config path is given, and initialises logging.
func loadConfig(cfgPath, envFile string) (config.Config, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return config.Config{}, err
	}

	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if _, err := logging.Init(cfg.Log); err != nil {
		return config.Config{}, fmt.Errorf("initialise logging: %w", err)
	}
	return cfg, nil
}

func newRouter(cfg config.Config) (*router.Router, error) {
	registry := provider.NewRegistry()
	if err := providerfactory.RegisterConfiguredProviders(cfg, registry); err != nil {
		return nil, err
	}
	return router.New(registry), nil
}
