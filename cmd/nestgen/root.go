package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syssam/nestgen/internal/config"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

// cli holds the state shared by every command of one invocation.
type cli struct {
	cfgFile  string
	verbose  bool
	envFiles []string

	v   *viper.Viper
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New(), log: logrus.New()}
	rootCmd := &cobra.Command{
		Use:   "nestgen",
		Short: "Generate NestJS/TypeORM resources from an entity model",
		Long: `
nestgen turns an entity model (tables, columns, relations, indices) into a
resource per table: an entity class, create/update inputs, a repository, a
service, a GraphQL resolver, a REST controller, a module and test stubs.

The model is read from a JSON or YAML file. Settings come from flags,
NESTGEN_* environment variables (.env files are loaded) and nestgen.yaml.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.initConfig,
	}

	rootCmd.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is ./nestgen.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newGenerateCmd(c), newVersionCmd())
	return rootCmd
}

func (c *cli) initConfig(cmd *cobra.Command, _ []string) error {
	if err := config.Init(c.v, c.cfgFile, c.envFiles...); err != nil {
		return err
	}
	c.log.SetOutput(cmd.ErrOrStderr())
	c.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if c.verbose {
		c.log.SetLevel(logrus.DebugLevel)
		return nil
	}
	level, err := logrus.ParseLevel(c.v.GetString("log_level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	c.log.SetLevel(level)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the nestgen version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "nestgen version %s\n", Version)
			return err
		},
	}
}
