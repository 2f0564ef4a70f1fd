// Command cqfill transpiles stylesheets (or the inline styles of an
// HTML document) so container queries work without native support.
package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/cqfill"
	"github.com/chrisuehlinger/cqfill/htmlstyle"
	"github.com/chrisuehlinger/cqfill/transform"
)

func main() {
	app := &cli.Command{
		Name:            "cqfill",
		Usage:           "container query polyfill transpiler",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.StringFlag{Name: "base-url", Usage: "absolutize url() references against `URL`"},
			&cli.StringFlag{Name: "salt", Usage: "fix the per-run `SALT` instead of generating one"},
			&cli.BoolFlag{Name: "no-where", Usage: "target environments without :where() support"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log transformation diagnostics"},
		},
		Commands: []*cli.Command{
			{
				Name:      "transpile",
				Usage:     "Transpile a CSS file",
				Action:    runTranspile,
				ArgsUsage: "SOURCE [DESTINATION]",
			},
			{
				Name:      "html",
				Usage:     "Rewrite the inline <style> elements of an HTML document",
				Action:    runHTML,
				ArgsUsage: "SOURCE [DESTINATION]",
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "cqfill: %v\n", err)
		os.Exit(1)
	}
}

// buildOptions merges the optional YAML configuration under the
// command-line flags.
func buildOptions(cmd *cli.Command) (transform.Options, *zap.Logger, error) {
	opts := transform.DefaultOptions()

	if path := cmd.String("config"); path != "" {
		cfg, err := loadConfig(path)
		if err != nil {
			return opts, nil, err
		}
		cfg.apply(&opts)
	}

	if base := cmd.String("base-url"); base != "" {
		opts.BaseURL = base
	}
	if salt := cmd.String("salt"); salt != "" {
		opts.Salt = salt
	}
	if cmd.Bool("no-where") {
		opts.WhereSupported = false
	}

	logger := zap.NewNop()
	if cmd.Bool("verbose") {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			return opts, nil, fmt.Errorf("preparing logger: %w", err)
		}
	}
	opts.Logger = logger
	return opts, logger, nil
}

func readSource(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() == 0 {
		return "", fmt.Errorf("missing SOURCE argument")
	}
	data, err := os.ReadFile(cmd.Args().Get(0))
	if err != nil {
		return "", fmt.Errorf("reading source: %w", err)
	}
	return string(data), nil
}

func writeResult(cmd *cli.Command, out string) error {
	if cmd.Args().Len() < 2 {
		_, err := fmt.Print(out)
		return err
	}
	if err := os.WriteFile(cmd.Args().Get(1), []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing destination: %w", err)
	}
	return nil
}

func runTranspile(_ context.Context, cmd *cli.Command) error {
	opts, logger, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	source, err := readSource(cmd)
	if err != nil {
		return err
	}

	result := cqfill.TranspileStyleSheet(source,
		cqfill.WithBaseURL(opts.BaseURL),
		cqfill.WithSalt(opts.Salt),
		cqfill.WithWhereSupport(opts.WhereSupported),
		cqfill.WithLogger(logger),
	)

	logger.Info("transpiled stylesheet",
		zap.Int("descriptors", len(result.Descriptors)),
		zap.String("salt", opts.Salt))
	for _, d := range result.Descriptors {
		logger.Debug("descriptor",
			zap.String("uid", d.UID),
			zap.String("selector", d.Selector),
			zap.Int("parent", d.Parent))
	}

	return writeResult(cmd, result.Source)
}

func runHTML(_ context.Context, cmd *cli.Command) error {
	opts, logger, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cmd.Args().Len() == 0 {
		return fmt.Errorf("missing SOURCE argument")
	}
	f, err := os.Open(cmd.Args().Get(0))
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}
	defer f.Close()

	result, err := htmlstyle.RewriteDocument(f, opts)
	if err != nil {
		return err
	}

	logger.Info("rewrote document",
		zap.Int("styles", result.Styles),
		zap.Int("descriptors", len(result.Descriptors)))

	return writeResult(cmd, result.HTML)
}
