package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ssargent/stegano/pkg/config"
	"github.com/ssargent/stegano/pkg/stego"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:     "decode",
	Aliases: []string{"decrypt"},
	Short:   "Recover the payload and restore the original PNG",
	Long: `Read the synthetic chunk at the given offset, decrypt its payload,
and write a copy of the file with the record excised. With the offset
reported at encode time the restored file matches the original exactly.

Example:
  stegano decode -i loaded.png -o restored.png -k hunter2 -f 202902
  stegano decode -i loaded.png -k hunter2 -f 202902 --secret-out note.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromViper(viper.GetViper())
		if err != nil {
			return err
		}

		proc, err := stego.NewProcessor(cfg, logger)
		if err != nil {
			return err
		}

		res, err := proc.Decode()
		if err != nil {
			return err
		}

		renderDecode(cmd.OutOrStdout(), res, cfg.Suppress)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().String("secret-out", "", "Write the recovered payload to a file")
	decodeCmd.Flags().BoolP("compress", "z", false, "Decompress the recovered payload")
}
