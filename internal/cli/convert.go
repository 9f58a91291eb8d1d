package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ConvertResult is the JSON payload of the convert command.
type ConvertResult struct {
	Input  string `json:"input"`
	Output string `json:"output"`
	Lenses int    `json:"lenses"`
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert a lens file between JSON and YAML",
		Long: `Read a lens file and write it again in the format given by the output
file's extension (.json, .yaml or .yml). Legacy field names are replaced by
their current names.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, rootOpts, args[0], args[1])
		},
	}

	return cmd
}

func runConvert(cmd *cobra.Command, rootOpts *RootOptions, in, out string) error {
	f := rootOpts.formatter(cmd)

	lenses, err := readLenses(f, in)
	if err != nil {
		return err
	}
	if err := writeLenses(f, out, lenses); err != nil {
		return err
	}

	return f.Success(ConvertResult{Input: in, Output: out, Lenses: len(lenses)},
		fmt.Sprintf("Converted %d lens(es) from %s to %s", len(lenses), in, out))
}
