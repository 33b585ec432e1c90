package main

import (
	"github.com/lshigami/litdrill/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCommand() *cobra.Command {
	var root *cobra.Command
	root = &cobra.Command{
		Use:           "litdrill",
		Short:         "Daily literature exam practice engine",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			viper.AutomaticEnv()
			if err := viper.BindPFlag("config", root.PersistentFlags().Lookup("config")); err != nil {
				return err
			}
			if err := viper.BindPFlag("LOG_LEVEL", root.PersistentFlags().Lookup("log-level")); err != nil {
				return err
			}
			logger.Init(viper.GetString("LOG_LEVEL"), viper.GetBool("LOG_PRETTY"))
			return nil
		},
	}
	root.PersistentFlags().String("config", "", "config file (default ./.env)")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(newServeCommand(), newMigrateCommand(), newImportCommand())
	return root
}
