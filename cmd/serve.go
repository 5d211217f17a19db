package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"promptbridge/internal/server"
)

const serveUsage = `Usage:
  promptbridge serve --config <path> [--port <port>] [--env-file <path>]

Flags:
  --config   string   Path to YAML configuration file (required)
  --port     int      Override server port from configuration
  --env-file string   Dotenv file loaded before the configuration (default ./.env if present)`

func serve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, serveUsage)
	}

	var cfgPath, envFile string
	var overridePort int
	fs.StringVar(&cfgPath, "config", "", "path to configuration file")
	fs.IntVar(&overridePort, "port", 0, "override server port")
	fs.StringVar(&envFile, "env-file", "", "path to dotenv file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("parse serve flags: %w", err)
	}

	if cfgPath == "" {
		return errors.New("serve command requires --config <path>")
	}

	cfg, err := loadConfig(cfgPath, envFile)
	if err != nil {
		return err
	}

	if overridePort != 0 {
		if overridePort < 0 || overridePort > 65535 {
			return fmt.Errorf("port override %d must be a valid TCP port", overridePort)
		}
		cfg.Server.Port = overridePort
	}

	rt, err := newRouter(cfg)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, rt)
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}
