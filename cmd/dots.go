package cmd

import (
	"fmt"
	"image/png"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/eleanorewu/folio/internal/dottext"
	"github.com/eleanorewu/folio/internal/prefs"
)

func newDotsCmd(o *options) *cobra.Command {
	var (
		lines  []string
		width  int
		height int
		theme  string
		dpr    float64
		output string
	)
	cmd := &cobra.Command{
		Use:   "dots",
		Short: "Render text as a dot pattern PNG",
		Long: `Render one or two lines of text as the hero dot pattern and write it as
a PNG. Without --text the configured site.hero_lines are used.

Examples:
  folio dots --text Eleanore --text Wu --width 1440 --height 900 --theme dark -o hero.png
  folio dots -o - > hero.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(lines) == 0 {
				lines = o.cfg.Site.HeroLines
			}
			t := prefs.ParseTheme(theme, "")
			if t == "" {
				return fmt.Errorf("unknown theme %q (supported: light, dark)", theme)
			}

			r, err := dottext.NewRendererFromFile(o.cfg.Site.FontPath)
			if err != nil {
				return err
			}
			defer r.Close()

			opts := dottext.Options{
				Lines:  lines,
				Width:  width,
				Height: height,
				Dark:   t == prefs.Dark,
				DPR:    dpr,
			}
			layout := r.Plan(opts)
			if layout.Empty() {
				o.logger.Warn("nothing to draw", "width", width, "height", height, "lines", len(lines))
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := png.Encode(w, dottext.Draw(layout)); err != nil {
				return fmt.Errorf("encode %s: %w", output, err)
			}
			if output != "-" {
				o.logger.Info("dot text written", "file", output, "dots", len(layout.Dots), "font_size", layout.FontSize)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&lines, "text", "t", nil, "text line (repeat for a second line)")
	cmd.Flags().IntVar(&width, "width", 1440, "surface width in CSS pixels")
	cmd.Flags().IntVar(&height, "height", 900, "surface height in CSS pixels")
	cmd.Flags().StringVar(&theme, "theme", string(prefs.Light), "colour theme (light, dark)")
	cmd.Flags().Float64Var(&dpr, "dpr", 1, "device pixel ratio")
	cmd.Flags().StringVarP(&output, "output", "o", "dots.png", `output file, or "-" for stdout`)
	cmd.Flags().String("font", "", "TTF/OTF font (default Go Bold)")
	return cmd
}
