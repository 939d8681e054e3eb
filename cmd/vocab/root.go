package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/vibevocab/internal/app"
	"github.com/heartmarshall/vibevocab/internal/config"
	"github.com/heartmarshall/vibevocab/pkg/ctxutil"
)

type rootOptions struct {
	configPath string
	session    string
	noColor    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "vocab",
		Short:         "Vocabulary notebook backed by an AI dictionary",
		Version:       app.BuildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			noColor = opts.noColor
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is $CONFIG_PATH or ./config.yaml)")
	root.PersistentFlags().StringVar(&opts.session, "session", "", "notebook session UUID (default is mcp.session_id)")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newServeCmd(opts),
		newMCPCmd(opts),
		newLookupCmd(opts),
		newImportCmd(opts),
		newScanCmd(opts),
		newMigrateCmd(opts),
		newPurgeCmd(opts),
	)
	return root
}

// loadConfig reads the configuration and applies the --session override.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if o.session != "" {
		if _, err := uuid.Parse(o.session); err != nil {
			return nil, fmt.Errorf("--session must be a UUID: %w", err)
		}
		cfg.MCP.SessionID = o.session
	}
	return cfg, nil
}

// openApp loads the configuration and wires the services. The caller closes the app.
func (o *rootOptions) openApp(ctx context.Context) (*app.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, app.NewLogger(cfg.Log))
}

// sessionContext binds ctx to the configured notebook session, or to a fresh one
// whose notebook only lives for this command.
func sessionContext(ctx context.Context, cfg *config.Config) (context.Context, bool) {
	if cfg.MCP.SessionID == "" {
		return ctxutil.WithSessionID(ctx, uuid.New()), false
	}
	return ctxutil.WithSessionID(ctx, uuid.MustParse(cfg.MCP.SessionID)), true
}
