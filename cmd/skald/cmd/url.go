package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/skald/pkg/urlcodec"
)

// urlCmd groups the percent-encoding transcode commands
var urlCmd = &cobra.Command{
	Use:   "url",
	Short: "Percent-encoding encode and decode",
}

// urlEncodeCmd represents the url encode command
var urlEncodeCmd = &cobra.Command{
	Use:   "encode [file]",
	Short: "Percent-encode bytes",
	Long: `Percent-encode bytes. Letters, digits and . _ ~ - pass through;
every other byte becomes %XX with uppercase digits.

Example:
  echo -n 'user data: 100%' | skald url encode`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := readInput(args)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		output, _ := cmd.Flags().GetString("output")
		if err := writeText(output, urlcodec.Encode(data)); err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// urlDecodeCmd represents the url decode command
var urlDecodeCmd = &cobra.Command{
	Use:   "decode [file]",
	Short: "Reverse percent-encoding",
	Long: `Reverse percent-encoding. Decoding is lenient: a % that is not
followed by two hex digits is kept as-is, so any input decodes.

Example:
  echo -n 'user%20data' | skald url decode
  echo -n 'a+b' | skald url decode --plus-as-space`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := readInput(args)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		plusAsSpace, _ := cmd.Flags().GetBool("plus-as-space")

		output, _ := cmd.Flags().GetString("output")
		if err := writeRaw(output, urlcodec.Decode(string(data), plusAsSpace)); err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(urlCmd)
	urlCmd.AddCommand(urlEncodeCmd)
	urlCmd.AddCommand(urlDecodeCmd)

	urlEncodeCmd.Flags().StringP("output", "o", "", "Write output to file instead of stdout")
	urlDecodeCmd.Flags().StringP("output", "o", "", "Write output to file instead of stdout")
	urlDecodeCmd.Flags().Bool("plus-as-space", false, "Decode + as a space")
}
