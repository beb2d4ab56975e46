package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/hupe1980/supportmesh"
	"github.com/hupe1980/supportmesh/config"
	"github.com/hupe1980/supportmesh/logging"
)

// meshFactory builds the Mesh used by a command. Tests replace it to avoid
// network calls.
type meshFactory func(ctx context.Context, cfg *config.Config, logger logging.Logger) (*supportmesh.Mesh, error)

func defaultMeshFactory(ctx context.Context, cfg *config.Config, logger logging.Logger) (*supportmesh.Mesh, error) {
	return supportmesh.New(ctx, func(o *supportmesh.Options) {
		o.Config = cfg
		o.Logger = logger
	})
}

// rootFlags are shared by every sub command.
type rootFlags struct {
	configPath string
	store      string
	dsn        string
	logLevel   string
}

type cli struct {
	flags   rootFlags
	newMesh meshFactory
}

func newRootCmd(factory meshFactory) *cobra.Command {
	c := &cli{newMesh: factory}

	root := &cobra.Command{
		Use:           "supportmesh",
		Short:         "SupportMesh - LLM ticket intake",
		Long:          `SupportMesh classifies support tickets, searches the knowledge base and drafts replies with a set of cooperating LLM agents.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&c.flags.configPath, "config", "c", config.DefaultConfigFile, "path to the YAML configuration file")
	pf.StringVar(&c.flags.store, "store", "", "store driver override (memory, sqlite, postgres)")
	pf.StringVar(&c.flags.dsn, "dsn", "", "store DSN override (sqlite path or postgres URL)")
	pf.StringVar(&c.flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(c.processCmd(), c.analyzeCmd(), c.kbCmd())
	return root
}

// config loads the configuration and applies flag overrides.
func (c *cli) config() (*config.Config, error) {
	cfg, err := config.LoadFrom(c.flags.configPath)
	if err != nil {
		return nil, err
	}
	if c.flags.store != "" {
		cfg.Store.Driver = c.flags.store
	}
	if c.flags.dsn != "" {
		cfg.Store.DSN = c.flags.dsn
	}
	if c.flags.logLevel != "" {
		cfg.Logging.Level = c.flags.logLevel
	}
	return cfg, nil
}

// mesh builds a Mesh whose logs go to the command's stderr.
func (c *cli) mesh(cmd *cobra.Command) (*supportmesh.Mesh, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.ParseLevel(cfg.Logging.Level),
		Format:    cfg.Logging.Format,
		Output:    cmd.ErrOrStderr(),
		Component: "supportmesh",
	})
	return c.newMesh(cmd.Context(), cfg, logger)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
