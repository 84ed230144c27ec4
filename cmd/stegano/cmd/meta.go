package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ssargent/stegano/pkg/config"
	"github.com/ssargent/stegano/pkg/stego"
)

// metaCmd represents the meta command
var metaCmd = &cobra.Command{
	Use:     "meta [files...]",
	Aliases: []string{"show-meta"},
	Short:   "Show container structure without modifying anything",
	Long: `Walk the chunk list of a PNG or the marker segments of a JPEG and
print offsets, sizes, and checksums. Damaged structure degrades into
warnings on stderr instead of aborting the walk. Files are inspected
concurrently; nothing is ever written.

Example:
  stegano meta photo.png
  stegano meta -n 32 --hex loaded.png photo.jpg`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromViper(viper.GetViper())
		if err != nil {
			return err
		}

		files := args
		if len(files) == 0 && cfg.Input != "" {
			files = []string{cfg.Input}
		}
		cfg.Files = files

		proc, err := stego.NewProcessor(cfg, logger)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		return proc.Inspect(cmd.Context(), files, func(res stego.Result) {
			renderInspect(out, res, cfg.Hex)
		})
	},
}

func init() {
	rootCmd.AddCommand(metaCmd)
	metaCmd.Flags().IntP("bytes", "n", 24, "Chunk data bytes to show per chunk")
	metaCmd.Flags().Bool("hex", false, "Hex dump the captured chunk data")
}
