package main

import (
	"fmt"
	"os"

	"github.com/danmuck/contourwire/internal/config"
	"github.com/danmuck/contourwire/internal/document"
	"github.com/danmuck/contourwire/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func defaultPath(kind string) (string, error) {
	switch kind {
	case "contourctl":
		return "cmd/contourctl/config.toml", nil
	case "document":
		return "cmd/contourctl/example.toml", nil
	default:
		return "", fmt.Errorf("unknown kind: %s", kind)
	}
}

func validate(kind, path string) error {
	switch kind {
	case "contourctl":
		_, err := config.LoadToolConfig(path)
		return err
	case "document":
		_, err := document.Load(path)
		return err
	default:
		return fmt.Errorf("unknown kind: %s", kind)
	}
}

func run(ctx *cli.Context) error {
	kind := ctx.String("kind")
	if ctx.Bool("validate") {
		path := ctx.String("input")
		if path == "" {
			p, err := defaultPath(kind)
			if err != nil {
				return err
			}
			path = p
		}
		if err := validate(kind, path); err != nil {
			return err
		}
		log.Info().Msgf("validated %s file at %s", kind, path)
		return nil
	}

	target := ctx.String("output")
	if target == "" {
		p, err := defaultPath(kind)
		if err != nil {
			return err
		}
		target = p
	}
	if err := config.WriteTemplate(target, kind, ctx.Bool("force")); err != nil {
		return err
	}
	log.Info().Msgf("wrote %s template to %s", kind, target)
	return nil
}

func main() {
	logging.ConfigureRuntime()
	app := &cli.App{
		Name:  "configgen",
		Usage: "write or validate contourctl templates",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Value: "contourctl", Usage: "template kind: contourctl|document"},
			&cli.StringFlag{Name: "output", Usage: "output path for the template"},
			&cli.BoolFlag{Name: "validate", Usage: "validate an existing file"},
			&cli.StringFlag{Name: "input", Usage: "path for validation (defaults to per-kind cmd path)"},
			&cli.BoolFlag{Name: "force", Usage: "overwrite existing file"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "configgen: %v\n", err)
	os.Exit(1)
}
