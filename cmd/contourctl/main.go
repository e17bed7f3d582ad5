package main

import (
	"fmt"
	"os"

	"github.com/danmuck/contourwire/internal/config"
	"github.com/danmuck/contourwire/internal/logging"
	"github.com/danmuck/contourwire/internal/observability"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

var (
	flagConfig = cli.StringFlag{
		Name:  "config",
		Usage: "path to a contourctl TOML config",
	}
	flagLogLevel = cli.StringFlag{
		Name:  "log-level",
		Usage: "log level override (trace|debug|info|warn|error)",
	}
	flagMetricsFile = cli.StringFlag{
		Name:  "metrics-file",
		Usage: "write codec metrics in prometheus text format after the command",
	}
)

// toolState is shared by every subcommand of one invocation.
type toolState struct {
	cfg config.ToolConfig
}

func newApp() *cli.App {
	st := &toolState{cfg: config.DefaultToolConfig()}
	return &cli.App{
		Name:  "contourctl",
		Usage: "encode, decode and inspect seabee3_msgs/ContourArray messages",
		Flags: []cli.Flag{&flagConfig, &flagLogLevel, &flagMetricsFile},
		Before: st.before,
		After:  st.after,
		Commands: []*cli.Command{
			st.encodeCommand(),
			st.decodeCommand(),
			st.inspectCommand(),
			st.plotCommand(),
			definitionCommand(),
		},
	}
}

func (st *toolState) before(ctx *cli.Context) error {
	if path := ctx.String(flagConfig.Name); path != "" {
		cfg, err := config.LoadToolConfig(path)
		if err != nil {
			return err
		}
		st.cfg = cfg
		log.Debug().Msgf("contourctl config=%s", path)
	}
	logging.SetLevel(st.cfg.Log.Level)
	if ctx.IsSet(flagLogLevel.Name) {
		st.cfg.Log.Level = ctx.String(flagLogLevel.Name)
		if !logging.SetLevel(st.cfg.Log.Level) {
			return fmt.Errorf("unknown log level %q", st.cfg.Log.Level)
		}
	}
	if ctx.IsSet(flagMetricsFile.Name) {
		st.cfg.Metrics.Textfile = ctx.String(flagMetricsFile.Name)
	}
	return nil
}

func (st *toolState) after(*cli.Context) error {
	if st.cfg.Metrics.Textfile == "" {
		return nil
	}
	if err := observability.WriteTextfile(st.cfg.Metrics.Textfile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	log.Debug().Msgf("contourctl metrics=%s", st.cfg.Metrics.Textfile)
	return nil
}

func main() {
	logging.ConfigureRuntime()
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "contourctl: %v\n", err)
		os.Exit(1)
	}
}
