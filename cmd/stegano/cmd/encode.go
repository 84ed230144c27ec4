package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ssargent/stegano/pkg/config"
	"github.com/ssargent/stegano/pkg/stego"
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:     "encode",
	Aliases: []string{"encrypt"},
	Short:   "Embed an encrypted payload into a PNG",
	Long: `Encrypt a payload and splice it into the input PNG as a synthetic
chunk. Everything around the record stays byte-identical to the input,
and the write is atomic: the output appears complete or not at all.

Example:
  stegano encode -i photo.png -o loaded.png -k hunter2 -p "meet at noon"
  stegano encode -i photo.png -k hunter2 --payload-file note.txt -z`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromViper(viper.GetViper())
		if err != nil {
			return err
		}

		proc, err := stego.NewProcessor(cfg, logger)
		if err != nil {
			return err
		}

		res, err := proc.Encode()
		if err != nil {
			return err
		}

		if !cfg.Suppress {
			renderEncode(cmd.OutOrStdout(), res)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().StringP("payload", "p", "hello", "Payload text to embed")
	encodeCmd.Flags().String("payload-file", "", "Read the payload from a file instead")
	encodeCmd.Flags().StringP("type", "t", "stEg", "Four letter tag for the synthetic chunk")
	encodeCmd.Flags().BoolP("compress", "z", false, "Compress the payload before encryption")
}
