package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eleanorewu/folio/internal/palette"
)

func newPaletteCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "palette <file|url>...",
		Short: "Print the softened dominant colour of images",
		Long: `Print the gallery background colour computed for each image, one
"source<TAB>colour" line per argument. Images that cannot be loaded print the
fallback colour.

Examples:
  folio palette static/thumb.png
  folio palette https://picsum.photos/id/1/800/600 --timeout 10s`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := palette.NewExtractor(
				palette.WithTimeout(o.cfg.Palette.Timeout),
				palette.WithLogger(o.logger),
			)
			out := cmd.OutOrStdout()
			for _, src := range args {
				if _, err := fmt.Fprintf(out, "%s\t%s\n", src, e.Color(cmd.Context(), src)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Duration("timeout", 0, "timeout for fetching remote images (default 5s)")
	return cmd
}
