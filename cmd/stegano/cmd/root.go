/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// logger is the diagnostic sink shared by all commands. Structural
// warnings from container walks go here, to stderr, never to stdout.
var logger *slog.Logger

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stegano",
	Short: "Stegano - hide payloads in PNG chunk streams",
	Long: `Stegano hides an encrypted payload inside a PNG by splicing a
synthetic chunk into its chunk stream, and later recovers both the
payload and a byte-identical copy of the original file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		viper.SetEnvPrefix("stegano")
		viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		viper.AutomaticEnv()

		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		level := slog.LevelInfo
		switch {
		case viper.GetBool("verbose"):
			level = slog.LevelDebug
		case viper.GetBool("suppress"):
			level = slog.LevelError
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("input", "i", "", "Input image file")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file (defaults next to the input)")
	rootCmd.PersistentFlags().StringP("key", "k", "", "Encryption key")
	rootCmd.PersistentFlags().StringP("offset", "f", "auto", "Splice offset: \"auto\" or a byte position")
	rootCmd.PersistentFlags().StringP("algorithm", "a", "xor", "Cipher: xor, aes, aes-cbc, chacha20")
	rootCmd.PersistentFlags().Int("max-chunks", 0, "Bound on structural walks (0 uses the default)")
	rootCmd.PersistentFlags().BoolP("suppress", "s", false, "Only print errors and decoded secrets")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print debug diagnostics")
}
