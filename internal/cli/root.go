// Package cli implements the lensdraw command line interface.
package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"honnef.co/go/lens"
)

// Configuration keys. Each can be set in the config file, through a
// LENSDRAW_ environment variable (dots become underscores) or by the flag
// bound to it.
const (
	keyFormat           = "format"
	keyVerbose          = "verbose"
	keyTableStep        = "table.step"
	keyOutlineTolerance = "outline.tolerance"
	keyRenderWidth      = "render.width"
	keyRenderHeight     = "render.height"
	keyRenderMargin     = "render.margin"
	keyCatalogDB        = "catalog.db"
)

// RootOptions holds global flags and the configuration shared by all
// commands.
type RootOptions struct {
	Verbose    bool
	Format     string
	ConfigFile string

	v   *viper.Viper
	log logr.Logger
}

// config returns the options' configuration, creating it with defaults on
// first use.
func (o *RootOptions) config() *viper.Viper {
	if o.v == nil {
		v := viper.New()
		v.SetDefault(keyFormat, "text")
		v.SetDefault(keyTableStep, 0.25)
		v.SetDefault(keyOutlineTolerance, 1e-3)
		v.SetDefault(keyRenderWidth, 800)
		v.SetDefault(keyRenderHeight, 800)
		v.SetDefault(keyRenderMargin, 1.0)
		v.SetDefault(keyCatalogDB, "lenses.db")
		o.v = v
	}
	return o.v
}

// bind binds a command flag to a configuration key.
func (o *RootOptions) bind(key string, flag *pflag.Flag) {
	if err := o.config().BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag %q: %v", flag.Name, err))
	}
}

// formatter returns an output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// NewRootCommand creates the root command for the lensdraw CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "lensdraw",
		Short: "Tabulate, draw and catalog optical lens surfaces",
		Long: `lensdraw works with collections of lenses, each made of two spherical or
aspherical surfaces. It tabulates surface profiles, draws lens outlines,
converts collection files between JSON and YAML and keeps a catalog of
lenses in a SQLite database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable verbose output")
	pf.StringVar(&opts.Format, "format", "text", "Output format (json|text)")
	pf.StringVar(&opts.ConfigFile, "config", "", "Config file (default ./lensdraw.yaml if present)")
	opts.bind(keyVerbose, pf.Lookup("verbose"))
	opts.bind(keyFormat, pf.Lookup("format"))

	cmd.AddCommand(NewNewCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewSetCommand(opts))
	cmd.AddCommand(NewTableCommand(opts))
	cmd.AddCommand(NewOutlineCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))

	return cmd
}

// setup reads the configuration and installs the logger. It runs before
// every subcommand.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	v := o.config()
	// Failures here happen before the output format is known.
	f := &OutputFormatter{Format: "text", Writer: cmd.ErrOrStderr()}

	v.SetEnvPrefix("LENSDRAW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if o.ConfigFile != "" {
		v.SetConfigFile(o.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return f.Fail(ExitCommandError, ErrCodeRead, "reading config", err)
		}
	} else {
		v.SetConfigName("lensdraw")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return f.Fail(ExitCommandError, ErrCodeRead, "reading config", err)
			}
		}
	}

	o.Format = v.GetString(keyFormat)
	o.Verbose = v.GetBool(keyVerbose)
	if !isValidFormat(o.Format) {
		return f.Fail(ExitCommandError, ErrCodeUsage, fmt.Sprintf("invalid format %q: must be 'json' or 'text'", o.Format), nil)
	}

	o.log = zapr.NewLogger(newZapLogger(cmd.ErrOrStderr(), o.Verbose))
	lens.SetLogger(slog.New(logr.ToSlogHandler(o.log)))
	if used := v.ConfigFileUsed(); used != "" {
		o.log.V(1).Info("using config file", "path", used)
	}
	return nil
}

func isValidFormat(format string) bool {
	return format == "json" || format == "text"
}
