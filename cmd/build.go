package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"promptbridge/internal/config"
)

const buildUsage = `Usage:
  promptbridge build --provider <name> --prompt <path> [--config <path>] [--env-file <path>] [--pretty]

Flags:
  --provider string   Provider name or alias (required)
  --prompt   string   Prompt file, YAML or JSON (required)
  --config   string   Path to YAML configuration file
  --env-file string   Dotenv file loaded before the configuration
  --pretty            Indent the JSON output`

func build(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, buildUsage)
	}

	var providerName, promptPath, cfgPath, envFile string
	var pretty bool
	fs.StringVar(&providerName, "provider", "", "provider name or alias")
	fs.StringVar(&promptPath, "prompt", "", "path to prompt file")
	fs.StringVar(&cfgPath, "config", "", "path to configuration file")
	fs.StringVar(&envFile, "env-file", "", "path to dotenv file")
	fs.BoolVar(&pretty, "pretty", false, "indent JSON output")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("parse build flags: %w", err)
	}

	if providerName == "" || promptPath == "" {
		return errors.New("build command requires --provider <name> and --prompt <path>")
	}

	cfg, err := loadConfig(cfgPath, envFile)
	if err != nil {
		return err
	}

	prompt, err := config.LoadPrompt(promptPath)
	if err != nil {
		return err
	}

	rt, err := newRouter(cfg)
	if err != nil {
		return err
	}

	translation, err := rt.BuildRequest(providerName, prompt)
	if err != nil {
		return err
	}

	out := translation.Body
	if pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, out, "", "  "); err != nil {
			return fmt.Errorf("indent request body: %w", err)
		}
		out = buf.Bytes()
	}

	_, err = fmt.Fprintln(stdout, string(out))
	return err
}
