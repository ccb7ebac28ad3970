package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/sudotsu/paint-my-room-server/internal/palette"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <hex>...",
		Short: "Print colors as hex, RGB, Lab and LCh",
		Long: `Prints a JSON swatch for each color. With two or more colors, also prints
the CIEDE2000 difference of each color from the first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			type entry struct {
				palette.Swatch
				DeltaE *float64 `json:"delta_e,omitempty"`
			}

			entries := make([]entry, 0, len(args))
			var first palette.Swatch
			for i, arg := range args {
				c, err := palette.ParseHex(arg)
				if err != nil {
					return err
				}
				e := entry{Swatch: palette.Inspect(c)}
				if i == 0 {
					first = e.Swatch
				} else {
					d := palette.DeltaE(first.RGB, c)
					e.DeltaE = &d
				}
				entries = append(entries, e)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		},
	}
}
