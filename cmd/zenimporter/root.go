package main

import (
	"github.com/hashicorp/go-hclog"
	"github.com/pbinitiative/zenbpm-importer/internal/config"
	"github.com/pbinitiative/zenbpm-importer/internal/log"
	"github.com/pbinitiative/zenbpm-importer/internal/profile"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	conf       config.Config
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "zenimporter",
		Short:         "Projects Zeebe record streams into a relational store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			profile.InitProfile()
			log.Init()
			conf, err := config.Load(opts.configFile)
			if err != nil {
				return err
			}
			opts.conf = conf
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "configuration file (default $CONFIG_FILE or ./conf.yaml)")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	return cmd
}

func newLogger() hclog.Logger {
	level := hclog.Debug
	if profile.Current == profile.PROD {
		level = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       "zenimporter",
		Level:      level,
		JSONFormat: profile.Current == profile.PROD,
		Color:      hclog.AutoColor,
	})
}
