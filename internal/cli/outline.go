package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"honnef.co/go/lens"
	"honnef.co/go/lens/render"
)

// DrawOptions holds flags for the outline and render commands.
type DrawOptions struct {
	Lens   int
	Output string
}

// DrawResult is the JSON payload of the outline and render commands.
type DrawResult struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Output string `json:"output"`
	Bytes  int    `json:"bytes"`
}

// NewOutlineCommand creates the outline command.
func NewOutlineCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DrawOptions{}

	cmd := &cobra.Command{
		Use:   "outline <file>",
		Short: "Draw a lens outline as SVG",
		Long: `Draw the cross-section of a lens as an SVG document, with the optical
axis running horizontally and the left surface's vertex at the center.

Without -o the document is written to standard output.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDraw(cmd, rootOpts, opts, args[0], render.SVG)
		},
	}

	addDrawFlags(cmd, rootOpts, opts)

	return cmd
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DrawOptions{}

	cmd := &cobra.Command{
		Use:           "render <file> -o <out.png>",
		Short:         "Render a lens outline to a PNG image",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDraw(cmd, rootOpts, opts, args[0], render.PNG)
		},
	}

	addDrawFlags(cmd, rootOpts, opts)
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func addDrawFlags(cmd *cobra.Command, rootOpts *RootOptions, opts *DrawOptions) {
	fl := cmd.Flags()
	fl.IntVar(&opts.Lens, "lens", 0, "Lens index")
	fl.StringVarP(&opts.Output, "output", "o", "", "Output file")
	fl.Int("width", 800, "Image width in pixels")
	fl.Int("height", 800, "Image height in pixels")
	fl.Float64("margin", 1, "Margin around the lens in lens units")
	fl.Float64("tolerance", 1e-3, "Maximum deviation of the drawn profile from the surface")
}

// bindDrawFlags binds the drawing flags of the running command. outline
// and render share configuration keys, so binding happens when one of them
// runs rather than when it is constructed.
func bindDrawFlags(cmd *cobra.Command, rootOpts *RootOptions) {
	fl := cmd.Flags()
	rootOpts.bind(keyRenderWidth, fl.Lookup("width"))
	rootOpts.bind(keyRenderHeight, fl.Lookup("height"))
	rootOpts.bind(keyRenderMargin, fl.Lookup("margin"))
	rootOpts.bind(keyOutlineTolerance, fl.Lookup("tolerance"))
}

func (o *RootOptions) renderOptions() render.Options {
	v := o.config()
	return render.Options{
		Width:     v.GetInt(keyRenderWidth),
		Height:    v.GetInt(keyRenderHeight),
		Margin:    v.GetFloat64(keyRenderMargin),
		Tolerance: v.GetFloat64(keyOutlineTolerance),
	}
}

// drawFunc is render.SVG or render.PNG.
type drawFunc func(w io.Writer, l *lens.Lens, opts render.Options) error

func runDraw(cmd *cobra.Command, rootOpts *RootOptions, opts *DrawOptions, path string, draw drawFunc) error {
	f := rootOpts.formatter(cmd)
	bindDrawFlags(cmd, rootOpts)

	lenses, err := readLenses(f, path)
	if err != nil {
		return err
	}
	l, err := pickLens(f, lenses, opts.Lens)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := draw(&buf, l, rootOpts.renderOptions()); err != nil {
		code := ErrCodeGeneric
		switch {
		case errors.Is(err, render.ErrNoAperture):
			code = ErrCodeInvalid
		case errors.Is(err, lens.ErrDomain), errors.Is(err, lens.ErrDegenerateRadius):
			code = ErrCodeDomain
		}
		return f.Fail(ExitFailure, code, fmt.Sprintf("cannot draw lens %d", opts.Lens), err)
	}

	if opts.Output == "" || opts.Output == "-" {
		_, err := buf.WriteTo(f.Writer)
		return err
	}
	if err := os.WriteFile(opts.Output, buf.Bytes(), 0o644); err != nil {
		return f.Fail(ExitCommandError, ErrCodeWrite, fmt.Sprintf("writing %s", opts.Output), err)
	}

	f.VerboseLog("drew lens %d of %s", opts.Lens, path)
	return f.Success(DrawResult{Index: opts.Lens, Name: l.Name, Output: opts.Output, Bytes: buf.Len()},
		fmt.Sprintf("Wrote %s", opts.Output))
}
