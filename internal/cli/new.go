package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"honnef.co/go/lens"
)

// DefaultLensName is the name given to newly created lenses.
const DefaultLensName = "New Lens"

// NewOptions holds flags for the new and add commands.
type NewOptions struct {
	Name  string
	Force bool
}

// NewResult is the JSON payload of the new and add commands.
type NewResult struct {
	Path   string `json:"path"`
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Lenses int    `json:"lenses"`
}

// NewNewCommand creates the new command.
func NewNewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NewOptions{}

	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Create a lens file holding one flat lens",
		Long: `Create a lens file holding a single lens made of two flat surfaces.

The file format (JSON or YAML) follows the file extension. An existing file
is only replaced with --force.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", DefaultLensName, "Lens name")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Overwrite an existing file")

	return cmd
}

func runNew(cmd *cobra.Command, rootOpts *RootOptions, opts *NewOptions, path string) error {
	f := rootOpts.formatter(cmd)

	if !opts.Force {
		if _, err := os.Stat(path); err == nil {
			return f.Fail(ExitCommandError, ErrCodeUsage, fmt.Sprintf("%s already exists (use --force to overwrite)", path), nil)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return f.Fail(ExitCommandError, ErrCodeRead, fmt.Sprintf("checking %s", path), err)
		}
	}

	l := lens.NewLens()
	l.Name = opts.Name
	if err := writeLenses(f, path, []*lens.Lens{l}); err != nil {
		return err
	}

	return f.Success(NewResult{Path: path, Index: 0, Name: l.Name, Lenses: 1},
		fmt.Sprintf("Created %s with lens 0 (%s)", path, l.Name))
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NewOptions{}

	cmd := &cobra.Command{
		Use:           "add <file>",
		Short:         "Append a flat lens to a lens file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", DefaultLensName, "Lens name")

	return cmd
}

func runAdd(cmd *cobra.Command, rootOpts *RootOptions, opts *NewOptions, path string) error {
	f := rootOpts.formatter(cmd)

	lenses, err := readLenses(f, path)
	if err != nil {
		return err
	}

	l := lens.NewLens()
	l.Name = opts.Name
	lenses = append(lenses, l)
	if err := writeLenses(f, path, lenses); err != nil {
		return err
	}

	idx := len(lenses) - 1
	return f.Success(NewResult{Path: path, Index: idx, Name: l.Name, Lenses: len(lenses)},
		fmt.Sprintf("Added lens %d (%s) to %s", idx, l.Name, path))
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "remove <file> <index>",
		Short:         "Remove a lens from a lens file",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd, rootOpts, args[0], args[1])
		},
	}
	return cmd
}

func runRemove(cmd *cobra.Command, rootOpts *RootOptions, path, arg string) error {
	f := rootOpts.formatter(cmd)

	idx, err := strconv.Atoi(arg)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeUsage, fmt.Sprintf("invalid lens index %q", arg), err)
	}
	lenses, err := readLenses(f, path)
	if err != nil {
		return err
	}
	l, err := pickLens(f, lenses, idx)
	if err != nil {
		return err
	}

	lenses = slices.Delete(lenses, idx, idx+1)
	if err := writeLenses(f, path, lenses); err != nil {
		return err
	}

	return f.Success(NewResult{Path: path, Index: idx, Name: l.Name, Lenses: len(lenses)},
		fmt.Sprintf("Removed lens %d (%s) from %s", idx, l.Name, path))
}
