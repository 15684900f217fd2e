package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prilive-com/tglite/wire"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [text...]",
	Short: "Decode \\uXXXX escapes",
	Long: `Decode \uXXXX escapes in the arguments, or in each stdin line when no
argument is given. Other escapes are left as they are.`,
	RunE: runDecode,
}

func runDecode(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) > 0 {
		for _, a := range args {
			fmt.Fprintln(out, wire.DecodeEscapes(a))
		}
		return nil
	}

	sc := bufio.NewScanner(cmd.InOrStdin())
	for sc.Scan() {
		fmt.Fprintln(out, wire.DecodeEscapes(sc.Text()))
	}
	return sc.Err()
}
