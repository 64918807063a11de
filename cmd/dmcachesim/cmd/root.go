// Package cmd provides the command-line interface of dmcachesim.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix is the prefix of the environment variables that override flags,
// e.g. DMCACHESIM_CACHE_SIZE.
const envPrefix = "DMCACHESIM"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dmcachesim",
	Short: "dmcachesim simulates a direct-mapped cache under matrix traces.",
	Long: `dmcachesim simulates a direct-mapped cache under the memory ` +
		`trace of adding every row of an n x n float matrix to the row ` +
		`below it, and reports compulsory misses, conflict misses, and ` +
		`hit rates.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "",
		"YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "info",
		"log level (trace, debug, info, warn, error)")
}

// Execute adds all child commands to the root command and runs it. It
// returns the exit code of the program.
func Execute() int {
	err := rootCmd.Execute()
	if err != nil {
		return 1
	}

	return 0
}

// loadConfig binds the flags of a command to a viper instance that also
// reads the environment, a .env file, and an optional configuration file.
func loadConfig(cmd *cobra.Command) (*viper.Viper, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	err = v.BindPFlags(cmd.Flags())
	if err != nil {
		return nil, err
	}

	configFile := v.GetString("config")
	if configFile != "" {
		v.SetConfigFile(configFile)

		err = v.ReadInConfig()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", configFile, err)
		}
	}

	return v, nil
}
