package main

import (
	"fmt"
	"os"

	"github.com/nvr-ai/go-ebv/config"
	"github.com/nvr-ai/go-ebv/logger"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "ebv",
	Short: "ebv - per-frame foreground and colour object pipeline",
	Long: `ebv runs the embedded vision pipeline over camera, video, image-directory or
synthetic frames: Otsu binarization, 3x3 morphology, colour-prototype change detection,
region labelling and colour classification, with an optional preview window and
annotated snapshots.

Examples:
  ebv run                                  # synthetic scene, defaults
  ebv run --source video --device 0 --window
  ebv run --source directory --path ./frames --frames 100
  ebv config init ebv.yaml                 # write the default configuration`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configPath string
	runFrames  uint64
	forceWrite bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := config.NewViper(configPath)
		if err != nil {
			return err
		}
		for key, flag := range map[string]string{
			"source.kind":   "source",
			"source.device": "device",
			"source.path":   "path",
			"source.loop":   "loop",
			"output.window": "window",
			"log.level":     "log-level",
		} {
			if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
				return errors.Wrapf(err, "failed to bind flag %s", flag)
			}
		}

		cfg, err := config.FromViper(v)
		if err != nil {
			return err
		}
		log := logger.New(cfg.Log)
		return run(cmd.Context(), cfg, log, runFrames)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration as YAML",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "ebv.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil && !forceWrite {
			return errors.Errorf("%s already exists (use --force to overwrite)", path)
		}
		cfg, err := config.Load("")
		if err != nil {
			return err
		}
		if err := config.Write(path, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ebv %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")

	flags := runCmd.Flags()
	flags.String("source", config.SourceSynthetic, "frame source: video, directory or synthetic")
	flags.Int("device", 0, "capture device index for the video source")
	flags.String("path", "", "video file or image directory")
	flags.Bool("loop", false, "restart file and directory sources at their end")
	flags.Bool("window", false, "show the preview window")
	flags.String("log-level", "info", "log level")
	flags.Uint64Var(&runFrames, "frames", 0, "stop after this many frames (0 = until the source ends)")

	configInitCmd.Flags().BoolVarP(&forceWrite, "force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		log.Error().Err(err).Msg("ebv failed")
		os.Exit(1)
	}
}
