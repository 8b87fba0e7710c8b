package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/go-go-golems/llmobs/cmd/llmobs-tag/cmds"
	"github.com/go-go-golems/llmobs/pkg/config"
)

var v = config.NewViper()

var rootCmd = &cobra.Command{
	Use:   "llmobs-tag",
	Short: "llmobs-tag runs the Anthropic LLM observability tagging over recorded calls",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// flags are parsed now, so --config and --log-level can be honored
		if err := config.ReadConfigFile(v, v.GetString("config")); err != nil {
			return err
		}
		return initLogger()
	},
	SilenceUsage: true,
}

type logConfig struct {
	WithCaller bool
	Level      string
	LogFormat  string
	LogFile    string
}

func initLogger() error {
	logLevel := v.GetString("log-level")
	if v.GetBool("verbose") && logLevel != "trace" {
		logLevel = "debug"
	}

	return InitLogger(&logConfig{
		Level:      logLevel,
		LogFile:    v.GetString("log-file"),
		LogFormat:  v.GetString("log-format"),
		WithCaller: v.GetBool("with-caller"),
	})
}

func InitLogger(config *logConfig) error {
	if config.WithCaller {
		log.Logger = log.With().Caller().Logger()
	}

	format := config.LogFormat
	if format == "" {
		format = "json"
		if isatty.IsTerminal(os.Stderr.Fd()) {
			format = "text"
		}
	}

	var logWriter io.Writer
	if format == "text" {
		logWriter = zerolog.ConsoleWriter{Out: os.Stderr}
	} else {
		logWriter = os.Stderr
	}

	if config.LogFile != "" {
		logWriter = io.MultiWriter(
			logWriter,
			zerolog.ConsoleWriter{
				NoColor: true,
				Out: &lumberjack.Logger{
					Filename:   config.LogFile,
					MaxSize:    10, // megabytes
					MaxBackups: 3,
					MaxAge:     28, //days
				},
			})
	}

	log.Logger = log.Output(logWriter)

	level, err := zerolog.ParseLevel(config.Level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("with-caller", false, "Log caller")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (trace, debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (json, text), text when stderr is a terminal")
	rootCmd.PersistentFlags().String("log-file", "", "Log file (default: stderr)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Verbose output")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")

	cobra.CheckErr(v.BindPFlags(rootCmd.PersistentFlags()))

	runCmd, err := cmds.NewRunCommand(v)
	cobra.CheckErr(err)
	rootCmd.AddCommand(runCmd, cmds.NewSchemaCommand())
}
