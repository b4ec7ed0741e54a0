package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pulseline/ppg-monitor/configs"
	"github.com/pulseline/ppg-monitor/pkg/output"
)

// configShowCmd dumps the effective configuration after defaults, file
// and environment merging
var configShowCmd = &cobra.Command{
	Use:   "config-show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configs.LoadConfig()
		if err != nil {
			return err
		}
		if err := configs.ValidateConfig(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		formatter := output.NewFormatter(viper.GetString("output_format"))
		data, err := formatter.Format(cfg, true)
		if err != nil {
			return err
		}

		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configShowCmd)
}
