package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"honnef.co/go/lens"
	"honnef.co/go/lens/catalog"
)

// CatalogEntry is the JSON form of a catalog entry.
type CatalogEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Material  string    `json:"material,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCatalogCommand creates the catalog command and its subcommands.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage a SQLite library of lenses",
		Long: `Store lenses in a SQLite database and retrieve them again. Lenses are
identified by the id assigned on import.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("db", "lenses.db", "Catalog database")
	rootOpts.bind(keyCatalogDB, cmd.PersistentFlags().Lookup("db"))

	cmd.AddCommand(newCatalogImportCommand(rootOpts))
	cmd.AddCommand(newCatalogListCommand(rootOpts))
	cmd.AddCommand(newCatalogExportCommand(rootOpts))
	cmd.AddCommand(newCatalogDeleteCommand(rootOpts))

	return cmd
}

// withCatalog opens the configured catalog for the duration of fn.
func withCatalog(f *OutputFormatter, rootOpts *RootOptions, fn func(*catalog.Catalog) error) error {
	path := rootOpts.config().GetString(keyCatalogDB)
	cat, err := catalog.Open(path)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeCatalog, fmt.Sprintf("opening catalog %s", path), err)
	}
	defer cat.Close()
	f.VerboseLog("Using catalog %s", path)
	return fn(cat)
}

func newCatalogImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "import <file>",
		Short:         "Add every lens of a lens file to the catalog",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			lenses, err := readLenses(f, args[0])
			if err != nil {
				return err
			}
			return withCatalog(f, rootOpts, func(cat *catalog.Catalog) error {
				ids := make([]string, 0, len(lenses))
				for i, l := range lenses {
					id, err := cat.Put(cmd.Context(), l)
					if err != nil {
						return f.Fail(ExitCommandError, ErrCodeCatalog, fmt.Sprintf("storing lens %d", i), err)
					}
					ids = append(ids, id)
				}
				text := fmt.Sprintf("Imported %d lens(es)", len(ids))
				for i, id := range ids {
					text += fmt.Sprintf("\n  %s  %s", id, lenses[i].Name)
				}
				return f.Success(ids, text)
			})
		},
	}
}

func newCatalogListCommand(rootOpts *RootOptions) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List the lenses in the catalog",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return withCatalog(f, rootOpts, func(cat *catalog.Catalog) error {
				var (
					entries []catalog.Entry
					err     error
				)
				if cmd.Flags().Changed("name") {
					entries, err = cat.FindByName(cmd.Context(), name)
				} else {
					entries, err = cat.List(cmd.Context())
				}
				if err != nil {
					return f.Fail(ExitCommandError, ErrCodeCatalog, "listing catalog", err)
				}

				out := make([]CatalogEntry, len(entries))
				for i, e := range entries {
					out[i] = CatalogEntry{ID: e.ID, Name: e.Name, Material: e.Material, CreatedAt: e.CreatedAt}
				}
				if f.JSON() {
					return f.Success(out, "")
				}
				return writeEntries(f.Writer, out)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Only list lenses with this name")
	return cmd
}

func writeEntries(w io.Writer, entries []CatalogEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tMATERIAL\tCREATED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Name, e.Material, e.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

func newCatalogExportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "export <file> <id>...",
		Short:         "Write catalog lenses to a lens file",
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			path, ids := args[0], args[1:]
			return withCatalog(f, rootOpts, func(cat *catalog.Catalog) error {
				lenses := make([]*lens.Lens, 0, len(ids))
				for _, id := range ids {
					l, err := cat.Get(cmd.Context(), id)
					if err != nil {
						return catalogLookupError(f, id, err)
					}
					lenses = append(lenses, l)
				}
				if err := writeLenses(f, path, lenses); err != nil {
					return err
				}
				return f.Success(ConvertResult{Output: path, Lenses: len(lenses)},
					fmt.Sprintf("Exported %d lens(es) to %s", len(lenses), path))
			})
		},
	}
}

func newCatalogDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>...",
		Short:         "Remove lenses from the catalog",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return withCatalog(f, rootOpts, func(cat *catalog.Catalog) error {
				for _, id := range args {
					if err := cat.Delete(cmd.Context(), id); err != nil {
						return catalogLookupError(f, id, err)
					}
				}
				return f.Success(args, fmt.Sprintf("Deleted %d lens(es)", len(args)))
			})
		},
	}
}

func catalogLookupError(f *OutputFormatter, id string, err error) error {
	if errors.Is(err, catalog.ErrNotFound) {
		return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("no lens with id %s", id), err)
	}
	return f.Fail(ExitCommandError, ErrCodeCatalog, fmt.Sprintf("reading lens %s", id), err)
}
