package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	proxycmd "github.com/rennerdo30/repoctl/internal/cli/proxy"
	"github.com/rennerdo30/repoctl/internal/config"
	"github.com/rennerdo30/repoctl/internal/logging"
	"github.com/rennerdo30/repoctl/internal/metrics"
	"github.com/rennerdo30/repoctl/internal/nexus"
	"github.com/rennerdo30/repoctl/internal/nexus/serverconfig"
	"github.com/rennerdo30/repoctl/internal/util"
	"github.com/rennerdo30/repoctl/internal/version"
)

const skipConfigAnnotation = "repoctl/skip-config"

// app holds the state shared by all commands of one invocation.
type app struct {
	root       *cobra.Command
	configFile string
	cfg        config.Config
	overrides  *viper.Viper
	metrics    *metrics.Metrics
}

func newApp() *app {
	a := &app{
		cfg:       config.DefaultConfig(),
		overrides: viper.New(),
		metrics:   metrics.New(),
	}

	a.root = &cobra.Command{
		Use:               "repoctl",
		Short:             "Repository manager configuration client",
		Long:              `repoctl edits the global settings of a repository manager through its REST API.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := a.root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "repoctl.yaml", "config file path")
	flags.String("url", "", "repository server base URL (env REPOCTL_URL)")
	flags.String("username", "", "server user name (env REPOCTL_USERNAME)")
	flags.String("password", "", "server password (env REPOCTL_PASSWORD)")
	flags.Duration("timeout", 0, "request timeout (env REPOCTL_TIMEOUT)")

	a.overrides.SetEnvPrefix("REPOCTL")
	a.overrides.AutomaticEnv()
	for _, name := range []string{"url", "username", "password", "timeout"} {
		_ = a.overrides.BindPFlag(name, flags.Lookup(name))
	}

	a.root.AddCommand(
		a.versionCommand(),
		a.validateCommand(),
		a.configCommand(),
		proxycmd.NewCommands(proxycmd.Options{
			Connect: a.connect,
			Metrics: a.metrics,
		}),
	)

	return a
}

// setup loads the configuration file, applies flag and environment
// overrides and initializes logging. The command context then carries the
// logger and a request ID shared by every request of this invocation.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipConfigAnnotation] == "" {
		if err := a.loadConfig(cmd); err != nil {
			return err
		}
	}
	a.applyOverrides()

	if err := logging.Setup(a.cfg.Logging); err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithContext(ctx, logging.WithComponent("repoctl"))
	ctx = util.WithRequestID(ctx, uuid.NewString())
	cmd.SetContext(ctx)
	return nil
}

// loadConfig reads the config file. The default file is optional; a file
// named with --config must exist.
func (a *app) loadConfig(cmd *cobra.Command) error {
	if _, err := os.Stat(a.configFile); errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config") {
		return nil
	}
	if err := config.Load(a.configFile, &a.cfg); err != nil {
		return util.WrapError(err, "load config")
	}
	return nil
}

func (a *app) applyOverrides() {
	if a.overrides.IsSet("url") {
		a.cfg.Server.URL = a.overrides.GetString("url")
	}
	if a.overrides.IsSet("username") {
		a.cfg.Server.Username = a.overrides.GetString("username")
	}
	if a.overrides.IsSet("password") {
		a.cfg.Server.Password = a.overrides.GetString("password")
	}
	if a.overrides.IsSet("timeout") {
		a.cfg.Server.Timeout = config.Duration(a.overrides.GetDuration("timeout"))
	}
}

func (a *app) connect(ctx context.Context) (*serverconfig.HTTPProxy, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug("connecting to repository server", "url", a.cfg.Server.URL, "username", a.cfg.Server.Username)

	client, err := nexus.New(nexus.Config{
		BaseURL:  a.cfg.Server.URL,
		Username: a.cfg.Server.Username,
		Password: a.cfg.Server.Password,
		Timeout:  a.cfg.Server.Timeout.Duration(),
		Metrics:  a.metrics,
	})
	if err != nil {
		return nil, err
	}
	return serverconfig.New(client).ProxySettings(), nil
}

// finish exports metrics and releases the log file. It runs whether or not
// the command succeeded.
func (a *app) finish() {
	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := a.metrics.WriteTextfile(path); err != nil {
			logging.Default().Warn("failed to write metrics textfile", "path", path, "error", err)
		}
	}
	_ = logging.Close()
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		},
	}
}

func (a *app) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if err := config.LoadAndValidate(a.configFile, &cfg); err != nil {
				return fmt.Errorf("configuration invalid: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
			return nil
		},
	}
}

func (a *app) configCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	var (
		output string
		force  bool
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a configuration file",
		Long: `Generate a commented configuration file.

The server URL, user name and timeout are taken from --url, --username and
--timeout. The password is never written; the file reads it from
REPOCTL_PASSWORD instead.

Example:
  repoctl config init --url https://repo.example.com/nexus --username admin`,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(output); err == nil {
				if !force {
					return fmt.Errorf("file %s already exists (use --force to overwrite)", output)
				}
				backupPath, err := config.Backup(output)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Backed up existing configuration to %s\n", backupPath)
			}

			server := a.cfg.Server
			server.Password = ""
			data, err := config.RenderTemplate(server)
			if err != nil {
				return fmt.Errorf("render config: %w", err)
			}
			if err := config.WriteFile(output, data); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Generated configuration: %s\n\n", output)
			fmt.Fprintln(cmd.OutOrStdout(), "Next steps:")
			fmt.Fprintln(cmd.OutOrStdout(), "  1. Review and customize the configuration")
			fmt.Fprintf(cmd.OutOrStdout(), "  2. Check it: repoctl -c %s validate\n", output)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", "repoctl.yaml", "output file path")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing file")

	configCmd.AddCommand(initCmd)
	return configCmd
}
