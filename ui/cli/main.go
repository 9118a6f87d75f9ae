// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/toeirei/redtoken/internal/config"
	"github.com/toeirei/redtoken/internal/i18n"
	"github.com/toeirei/redtoken/internal/logging"
	"golang.org/x/term"
)

// annotationNoConfig marks commands that run even when the configuration
// cannot be loaded or does not validate.
const annotationNoConfig = "redtoken.noconfig"

// app carries state shared by the commands of one root command.
type app struct {
	cfgFile string
	cfg     config.Config
	cfgUsed string

	// Replaced in tests.
	writeClipboard func(string) error
	isTerminal     func() bool
}

func newApp() *app {
	return &app{
		writeClipboard: clipboard.WriteAll,
		isTerminal:     func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
	}
}

// Execute runs the CLI entrypoint. The main package should call this
// function and handle process exit.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd creates and configures a new root cobra command. Every call
// returns an independent command tree, so tests can run commands in
// isolation.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redtoken",
		Short: "Redtoken plants honeytokens in files and alerts when they are used.",
		Long: `Redtoken generates fake credentials (honeytokens), embeds them into
configuration files, shell histories and similar places an intruder would
look, and tracks them in a store. When a planted value is reported back
through the check command or the HTTP API, the token is marked as
triggered and an alert is sent to the configured channels.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	cmd.Version = compositeVersion()

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./redtoken.yaml or the user config dir)")
	cmd.PersistentFlags().String("lang", "", `CLI language ("en", "de")`)
	cmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	config.BindFlagKey(cmd.PersistentFlags(), "lang", "language")
	config.BindFlagKey(cmd.PersistentFlags(), "log-level", "log_level")

	cmd.AddCommand(
		newInjectCmd(a),
		newListCmd(a),
		newRemoveCmd(a),
		newCheckCmd(a),
		newVerifyCmd(a),
		newRestoreCmd(a),
		newServeCmd(a),
		newConfigureCmd(a),
		newInitCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// setup loads the configuration and applies the language and log level.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var explicit *string
	if a.cfgFile != "" {
		explicit = &a.cfgFile
	}
	lenient := cmd.Annotations[annotationNoConfig] == "true"

	c, used, err := config.LoadConfig[config.Config](cmd, config.Defaults(), explicit)
	if err == nil {
		err = c.Validate()
	}
	if err != nil {
		if !lenient {
			return err
		}
		logging.Warnf("using defaults: %v", err)
		c, used = config.Default(), ""
	}
	a.cfg, a.cfgUsed = c, used

	logging.SetLevel(c.LogLevel)
	i18n.Init(c.Language)
	if used != "" {
		logging.Debugf("config loaded from %s", used)
	}
	return nil
}
