package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

const extractUsage = `Usage:
  promptbridge extract --provider <name> [--input <path>] [--repair] [--config <path>] [--env-file <path>]

Flags:
  --provider string   Provider name or alias (required)
  --input    string   Response body file (default stdin)
  --repair            Attempt to repair malformed JSON before decoding
  --config   string   Path to YAML configuration file
  --env-file string   Dotenv file loaded before the configuration`

func extract(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, extractUsage)
	}

	var providerName, inputPath, cfgPath, envFile string
	var repair bool
	fs.StringVar(&providerName, "provider", "", "provider name or alias")
	fs.StringVar(&inputPath, "input", "", "path to response body")
	fs.BoolVar(&repair, "repair", false, "repair malformed JSON")
	fs.StringVar(&cfgPath, "config", "", "path to configuration file")
	fs.StringVar(&envFile, "env-file", "", "path to dotenv file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("parse extract flags: %w", err)
	}

	if providerName == "" {
		return errors.New("extract command requires --provider <name>")
	}

	cfg, err := loadConfig(cfgPath, envFile)
	if err != nil {
		return err
	}

	var body []byte
	if inputPath != "" {
		body, err = os.ReadFile(inputPath)
	} else {
		body, err = io.ReadAll(stdin)
	}
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	rt, err := newRouter(cfg)
	if err != nil {
		return err
	}

	extraction, err := rt.ExtractText(providerName, body, repair)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout, extraction.Text)
	return err
}
