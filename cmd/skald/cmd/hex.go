package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/skald/pkg/hexcodec"
)

// hexCmd groups the hexadecimal transcode commands
var hexCmd = &cobra.Command{
	Use:   "hex",
	Short: "Hexadecimal encode, decode and dump",
}

// hexEncodeCmd represents the hex encode command
var hexEncodeCmd = &cobra.Command{
	Use:   "encode [file]",
	Short: "Encode bytes as lowercase hexadecimal",
	Long: `Encode bytes as lowercase hexadecimal, two digits per byte.

Reads the named file, or stdin when no file (or -) is given.

Example:
  echo -n skald | skald hex encode`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := readInput(args)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		output, _ := cmd.Flags().GetString("output")
		if err := writeText(output, hexcodec.Encode(data)); err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// hexDecodeCmd represents the hex decode command
var hexDecodeCmd = &cobra.Command{
	Use:   "decode [file]",
	Short: "Decode hexadecimal to raw bytes",
	Long: `Decode a hexadecimal string to raw bytes. Both digit cases are
accepted; odd-length input or a non-hex byte is an error.

Example:
  echo -n 736b616c64 | skald hex decode`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := readInput(args)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		decoded, err := hexcodec.Decode(string(data))
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		output, _ := cmd.Flags().GetString("output")
		if err := writeRaw(output, decoded); err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// hexDumpCmd represents the hex dump command
var hexDumpCmd = &cobra.Command{
	Use:   "dump [file]",
	Short: "Render bytes in the low-nibble-first display format",
	Long: `Render bytes as uppercase hexadecimal with the low nibble first.
This is a display format for eyeballing buffers; decode will not invert it.

Example:
  echo -n skald | skald hex dump`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := readInput(args)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		output, _ := cmd.Flags().GetString("output")
		if err := writeText(output, hexcodec.Dump(data)); err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(hexCmd)
	hexCmd.AddCommand(hexEncodeCmd)
	hexCmd.AddCommand(hexDecodeCmd)
	hexCmd.AddCommand(hexDumpCmd)

	hexEncodeCmd.Flags().StringP("output", "o", "", "Write output to file instead of stdout")
	hexDecodeCmd.Flags().StringP("output", "o", "", "Write output to file instead of stdout")
	hexDumpCmd.Flags().StringP("output", "o", "", "Write output to file instead of stdout")
}
