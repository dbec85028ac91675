package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "combi"

// app holds state shared by commands.
type app struct {
	v      *viper.Viper
	log    *logrus.Logger
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{
		v:      viper.New(),
		log:    logrus.New(),
		in:     in,
		out:    out,
		errOut: errOut,
	}
	a.log.SetOutput(errOut)

	cmd := &cobra.Command{
		Use:           "combi",
		Short:         "Runs example grammars built with combi parsers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd)
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.PersistentFlags()
	flags.String("config", "", "configuration file (YAML, JSON, or TOML)")
	flags.String("log-level", "warning", "log level: trace, debug, info, warning, error")
	flags.String("log-format", "text", "log format: text or json")

	cmd.AddCommand(a.newJSONCmd())
	cmd.AddCommand(a.newCalcCmd())
	cmd.AddCommand(a.newWordsCmd())
	cmd.AddCommand(a.newVersionCmd())
	return cmd
}

// configure merges configuration file, environment, and flags of cmd into a.v
// and sets up logging.
func (a *app) configure(cmd *cobra.Command) error {
	if e := a.v.BindPFlags(cmd.Flags()); e != nil {
		return fmt.Errorf("binding flags: %w", e)
	}

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if name := a.v.GetString("config"); name != "" {
		a.v.SetConfigFile(name)
		if e := a.v.ReadInConfig(); e != nil {
			return fmt.Errorf("reading config: %w", e)
		}
	}

	if e := a.applyToFlags(cmd); e != nil {
		return e
	}

	level, e := logrus.ParseLevel(a.v.GetString("log-level"))
	if e != nil {
		return fmt.Errorf("log level: %w", e)
	}
	a.log.SetLevel(level)

	switch format := a.v.GetString("log-format"); format {
	case "text":
		a.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case "json":
		a.log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format: %s", format)
	}

	a.log.WithFields(logrus.Fields{
		"command": cmd.Name(),
		"config":  a.v.ConfigFileUsed(),
	}).Debug("configured")
	return nil
}

// applyToFlags sets flags not given in command line to values found in configuration file or environment.
func (a *app) applyToFlags(cmd *cobra.Command) error {
	var errs []string
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || !a.v.IsSet(f.Name) {
			return
		}

		if e := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", a.v.Get(f.Name))); e != nil {
			errs = append(errs, e.Error())
		}
	})

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("applying configuration to flags: %s", strings.Join(errs, "; "))
}
