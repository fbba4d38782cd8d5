package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/skald/pkg/runlength"
)

// zeroCmd groups the run-length transcode commands
var zeroCmd = &cobra.Command{
	Use:   "zero",
	Short: "Run-length escape for zero-byte runs",
}

// zeroEncodeCmd represents the zero encode command
var zeroEncodeCmd = &cobra.Command{
	Use:   "encode [file]",
	Short: "Compress sentinel byte runs",
	Long: `Compress runs of 0x00 bytes into two-byte escape pairs. With
--with-ff, runs of 0xFF are escaped as well.

Example:
  skald zero encode sparse.bin -o packed.bin
  skald zero encode --with-ff page.bin -o packed.bin`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := readInput(args)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		withFF, _ := cmd.Flags().GetBool("with-ff")
		encode := runlength.ZeroEncode
		if withFF {
			encode = runlength.ZeroOneEncode
		}

		output, _ := cmd.Flags().GetString("output")
		if err := writeRaw(output, encode(data)); err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// zeroDecodeCmd represents the zero decode command
var zeroDecodeCmd = &cobra.Command{
	Use:   "decode [file]",
	Short: "Expand sentinel byte runs",
	Long: `Expand two-byte escape pairs back into sentinel byte runs. The
input must use the same sentinel set it was encoded with; pass --with-ff
for data encoded with 0xFF escapes.

Example:
  skald zero decode packed.bin -o sparse.bin`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := readInput(args)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		withFF, _ := cmd.Flags().GetBool("with-ff")
		isSentinel := runlength.Sentinel(runlength.IsZero)
		decode := runlength.ZeroDecode
		if withFF {
			isSentinel = runlength.IsZeroOne
			decode = runlength.ZeroOneDecode
		}

		if !runlength.Valid(data, isSentinel) {
			cmd.Printf("Error: input ends with an unterminated escape\n")
			os.Exit(1)
		}

		output, _ := cmd.Flags().GetString("output")
		if err := writeRaw(output, decode(data)); err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(zeroCmd)
	zeroCmd.AddCommand(zeroEncodeCmd)
	zeroCmd.AddCommand(zeroDecodeCmd)

	zeroEncodeCmd.Flags().StringP("output", "o", "", "Write output to file instead of stdout")
	zeroEncodeCmd.Flags().Bool("with-ff", false, "Escape 0xFF runs as well as 0x00 runs")
	zeroDecodeCmd.Flags().StringP("output", "o", "", "Write output to file instead of stdout")
	zeroDecodeCmd.Flags().Bool("with-ff", false, "Expect 0xFF escapes as well as 0x00 escapes")
}
