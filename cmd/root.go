// Package cmd provides the folio command line.
//
// Configuration is read, in increasing priority, from folio.yaml (or the
// file named by --config), a .env file, FOLIO_* environment variables along
// with the legacy PORT, SMTP_*, TO_EMAIL and ADMIN_* names, and flags.
package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/gogpu/gg"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eleanorewu/folio/internal/config"
)

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"log-level": "log.level",
	"port":      "server.port",
	"mode":      "server.mode",
	"db":        "db.path",
	"font":      "site.font_path",
	"timeout":   "palette.timeout",
}

// options is the state shared by every subcommand once flags are parsed.
type options struct {
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "folio",
		Short: "Eleanore Wu's portfolio site",
		Long: `folio serves the portfolio site: the home page, project case studies,
the contact form and the admin statistics area.

Quick Start:
  folio serve                       Start the web server
  folio palette thumb.png           Print an image's softened dominant colour
  folio dots --text Eleanore -o hero.png
                                    Render dot text to a PNG
  folio version                     Show version information`,
		SilenceUsage:      true,
		PersistentPreRunE: o.setup,
	}
	root.PersistentFlags().StringVar(&o.cfgFile, "config", "", "config file (default is ./folio.yaml)")
	root.PersistentFlags().StringP("log-level", "l", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(o),
		newPaletteCmd(o),
		newDotsCmd(o),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line.
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *options) setup(cmd *cobra.Command, _ []string) error {
	v, err := config.New(o.cfgFile)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	switch cfg.Server.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", cfg.Server.Mode)
	}
	gin.SetMode(cfg.Server.Mode)

	o.cfg = cfg
	o.logger = newLogger(cmd.ErrOrStderr(), cfg.Log.Level)
	slog.SetDefault(o.logger)
	gg.SetLogger(o.logger)
	return nil
}

// bindFlags lets flags that were set on the command line override the
// config file and environment.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
