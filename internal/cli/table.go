package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"honnef.co/go/lens"
)

// TableOptions holds flags for the table command.
type TableOptions struct {
	Lens int
	Step float64
}

// TableResult is the JSON payload of the table command.
type TableResult struct {
	Index    int            `json:"index"`
	Name     string         `json:"name"`
	Surfaces []SurfaceTable `json:"surfaces"`
}

// SurfaceTable is the tabulation of one surface.
type SurfaceTable struct {
	Side string     `json:"side"`
	Type string     `json:"type"`
	Rows []TableRow `json:"rows"`
}

// TableRow is one tabulated height.
type TableRow struct {
	H           jsonFloat `json:"h"`
	Sag         jsonFloat `json:"sag"`
	Slope       jsonFloat `json:"slope"`
	LocalRadius jsonFloat `json:"local_R"`
}

// NewTableCommand creates the table command.
func NewTableCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TableOptions{}

	cmd := &cobra.Command{
		Use:   "table <file>",
		Short: "Tabulate sag, slope and local radius of a lens' surfaces",
		Long: `Tabulate both surfaces of a lens at heights 0, step, 2·step, … up to
the clear aperture (half the inner diameter, exclusive).

Columns are the height h, the sag, the slope in degrees and the local
radius of curvature. Sags are measured from each surface's own vertex.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Step = rootOpts.config().GetFloat64(keyTableStep)
			return runTable(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.Lens, "lens", 0, "Lens index")
	cmd.Flags().Float64Var(&opts.Step, "step", 0.25, "Height step")
	rootOpts.bind(keyTableStep, cmd.Flags().Lookup("step"))

	return cmd
}

func runTable(cmd *cobra.Command, rootOpts *RootOptions, opts *TableOptions, path string) error {
	f := rootOpts.formatter(cmd)

	if !(opts.Step > 0) {
		return f.Fail(ExitCommandError, ErrCodeUsage, fmt.Sprintf("step must be positive, got %g", opts.Step), nil)
	}
	lenses, err := readLenses(f, path)
	if err != nil {
		return err
	}
	l, err := pickLens(f, lenses, opts.Lens)
	if err != nil {
		return err
	}
	for _, s := range []lens.Surface{l.Left, l.Right} {
		if inner, _ := s.Diameters(); inner/2/opts.Step > lens.MaxHeights {
			return f.Fail(ExitCommandError, ErrCodeUsage,
				fmt.Sprintf("step %g is too small: more than %d rows per surface", opts.Step, lens.MaxHeights), nil)
		}
	}

	res, err := tabulateLens(l, opts.Step)
	if err != nil {
		code := ErrCodeGeneric
		if errors.Is(err, lens.ErrDomain) || errors.Is(err, lens.ErrDegenerateRadius) {
			code = ErrCodeDomain
		}
		return f.Fail(ExitFailure, code, fmt.Sprintf("cannot tabulate lens %d", opts.Lens), err)
	}
	res.Index = opts.Lens

	if f.JSON() {
		return f.Success(res, "")
	}
	writeTable(f.Writer, res)
	return nil
}

func tabulateLens(l *lens.Lens, step float64) (TableResult, error) {
	res := TableResult{Name: l.Name}
	for _, side := range []struct {
		name string
		s    lens.Surface
	}{{"left", l.Left}, {"right", l.Right}} {
		inner, _ := side.s.Diameters()
		samples, err := lens.Tabulate(side.s, lens.Heights(inner/2, step))
		if err != nil {
			return TableResult{}, fmt.Errorf("%s: %w", side.name, err)
		}
		rows := make([]TableRow, len(samples))
		for i, smp := range samples {
			rows[i] = TableRow{
				H:           jsonFloat(smp.H),
				Sag:         jsonFloat(smp.Sag),
				Slope:       jsonFloat(smp.Slope),
				LocalRadius: jsonFloat(smp.LocalRadius),
			}
		}
		res.Surfaces = append(res.Surfaces, SurfaceTable{
			Side: side.name,
			Type: side.s.Type().String(),
			Rows: rows,
		})
	}
	return res, nil
}

func writeTable(w io.Writer, res TableResult) {
	fmt.Fprintf(w, "Lens %d: %s\n", res.Index, res.Name)
	for _, st := range res.Surfaces {
		fmt.Fprintf(w, "\n%s surface (%s)\n", st.Side, st.Type)
		fmt.Fprintf(w, "%10s %10s %10s %10s\n", "h", "sag", "slope", "local_R")
		for _, r := range st.Rows {
			fmt.Fprintf(w, "%10.4f %10.4f %10.4f %10.4f\n", r.H, r.Sag, r.Slope, r.LocalRadius)
		}
	}
}
