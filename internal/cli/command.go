package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/VWRoent/transcyplate/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "transcyplate",
		Short: "Live German translation assistant",
		Long: `transcyplate translates spoken-style German input live into English
and Japanese through a local LM Studio server, and tracks every German
word it has seen in a persistent vocabulary list.

Examples:
  transcyplate                        # Interactive session on stdin
  transcyplate --batch sentences.txt  # Translate sentences from a file
  transcyplate --anki words.apkg      # Export the vocabulary as an Anki deck
  transcyplate --list-models          # Show models loaded on the server`,
		Args:    cobra.NoArgs,
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.transcyplate.yaml)")

	// Local flags
	cmd.Flags().StringVarP(&flags.LogDir, "log-dir", "o", flags.LogDir, "Directory for logs, archive and word list")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Translate sentences from file (one per line) and exit")
	cmd.Flags().StringVar(&flags.AnkiFile, "anki", "", "Export the word list as an Anki package to the given path and exit")
	cmd.Flags().BoolVar(&flags.ArchiveLogs, "archive", false, "Move existing logs into an archive folder and exit")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List models loaded on the LM Studio server and exit")

	// Server flags
	cmd.Flags().StringVarP(&flags.Server, "server", "s", flags.Server, "LM Studio server address (host:port)")
	cmd.Flags().StringVarP(&flags.Model, "model", "m", flags.Model, "Model name to request")

	// Generation flags
	cmd.Flags().Float64Var(&flags.Temperature, "temperature", flags.Temperature, "Sampling temperature for generation")
	cmd.Flags().IntVar(&flags.MaxTokens, "max-tokens", 0, "Token limit per response (0 means no limit)")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("server.host", cmd.Flags().Lookup("server"))
	viper.BindPFlag("server.model", cmd.Flags().Lookup("model"))
	viper.BindPFlag("generation.temperature", cmd.Flags().Lookup("temperature"))
	viper.BindPFlag("generation.max_tokens", cmd.Flags().Lookup("max-tokens"))
	viper.BindPFlag("log.directory", cmd.Flags().Lookup("log-dir"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".transcyplate" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".transcyplate")
	}

	// Environment variables
	viper.SetEnvPrefix("TRANSCYPLATE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
