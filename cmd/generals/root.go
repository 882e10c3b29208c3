package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "generals",
	Short: "Byzantine Generals oral-messages simulator",
	Long: `Simulates the Byzantine Generals agreement problem: a commander issues an
order to a set of lieutenants while up to f participants are traitors that
may lie inconsistently to different peers. The simulator runs Lamport's
OM(m) oral-messages protocol and reports whether the loyal lieutenants
reached agreement.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is ./generals.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("generals")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/generals")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("GENERALS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
