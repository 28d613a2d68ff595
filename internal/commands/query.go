package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"freedesktop.org/appstream/models"
)

var (
	// Query flags
	queryLocale string
	queryFormat string
)

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one component by its ID",
	Long: `Look up a component and print its data resolved for one locale.

Examples:
  appstream get org.mozilla.firefox
  appstream get org.mozilla.firefox --locale de_DE
  appstream get org.mozilla.firefox --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

var searchCmd = &cobra.Command{
	Use:   "search [terms...]",
	Short: "Search components by keyword",
	Long: `Run a ranked full-text search over names, summaries, descriptions and
keywords. Terms are stemmed for the active locale.

Examples:
  appstream search image editor
  appstream search browser --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var whatProvidesCmd = &cobra.Command{
	Use:   "what-provides [kind] [value]",
	Short: "Find components providing an item",
	Long: `Find all components that provide a public interface item, for example a
binary name, a library soname or a mediatype.

Examples:
  appstream what-provides bin firefox
  appstream what-provides lib libfoo.so.2
  appstream what-provides mediatype image/png`,
	Args: cobra.ExactArgs(2),
	RunE: runWhatProvides,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories [names...]",
	Short: "List components in the given categories",
	Long: `List components filed under any of the given XDG categories.

Examples:
  appstream categories Graphics
  appstream categories AudioVideo Office --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCategories,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pool and cache status",
	RunE:  runStatus,
}

func init() {
	for _, cmd := range []*cobra.Command{getCmd, searchCmd, whatProvidesCmd, categoriesCmd} {
		cmd.Flags().StringVar(&queryLocale, "locale", "", "locale for translated fields (default: from config/environment)")
		cmd.Flags().StringVar(&queryFormat, "format", "table", "output format (table, json)")
	}
}

func activeLocale() string {
	if queryLocale != "" {
		return queryLocale
	}
	return cfg.Locale.Active()
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printComponentTable renders a component list the way the query
// commands share it.
func printComponentTable(components []*models.Component, locale string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tNAME\tSUMMARY")
	for _, c := range components {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			c.ID, c.Kind, c.Name.ResolveOrEmpty(locale), c.Summary.ResolveOrEmpty(locale))
	}
	w.Flush()
	fmt.Printf("\nTotal: %d components\n", len(components))
}

func runGet(cmd *cobra.Command, args []string) error {
	p, _, err := loadPool(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer p.Close()

	c, err := p.ByID(args[0])
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("no component with id %q", args[0])
	}

	if queryFormat == "json" {
		return printJSON(c)
	}

	locale := activeLocale()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", c.ID)
	fmt.Fprintf(w, "Kind:\t%s\n", c.Kind)
	fmt.Fprintf(w, "Name:\t%s\n", c.Name.ResolveOrEmpty(locale))
	fmt.Fprintf(w, "Summary:\t%s\n", c.Summary.ResolveOrEmpty(locale))
	if dev := c.DeveloperName.ResolveOrEmpty(locale); dev != "" {
		fmt.Fprintf(w, "Developer:\t%s\n", dev)
	}
	if c.ProjectLicense != "" {
		fmt.Fprintf(w, "License:\t%s\n", c.ProjectLicense)
	}
	if len(c.Categories) > 0 {
		fmt.Fprintf(w, "Categories:\t%v\n", c.Categories)
	}
	if len(c.PackageNames) > 0 {
		fmt.Fprintf(w, "Packages:\t%v\n", c.PackageNames)
	}
	if url, ok := c.URLs["homepage"]; ok {
		fmt.Fprintf(w, "Homepage:\t%s\n", url)
	}
	if icon := c.PreferredIcon(); icon != nil {
		fmt.Fprintf(w, "Icon:\t%s (%s)\n", icon.Value, icon.Kind)
	}
	if len(c.Releases) > 0 {
		fmt.Fprintf(w, "Latest release:\t%s\n", c.Releases[0].Version)
	}
	fmt.Fprintf(w, "Origin:\t%s\n", c.Origin)
	fmt.Fprintf(w, "Source:\t%s\n", c.Source)
	return w.Flush()
}

func runSearch(cmd *cobra.Command, args []string) error {
	p, _, err := loadPool(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer p.Close()

	query := ""
	for i, term := range args {
		if i > 0 {
			query += " "
		}
		query += term
	}
	components, err := p.Search(query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if queryFormat == "json" {
		return printJSON(components)
	}
	printComponentTable(components, activeLocale())
	return nil
}

func runWhatProvides(cmd *cobra.Command, args []string) error {
	kind := models.ProvidedKindFromString(args[0])
	if kind == models.ProvidedKindUnknown {
		return fmt.Errorf("unknown provided kind %q (use bin, lib, mediatype, font, modalias, firmware, python3, dbus-user, dbus-system or id)", args[0])
	}

	p, _, err := loadPool(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer p.Close()

	components, err := p.ByProvided(kind, args[1])
	if err != nil {
		return err
	}

	if queryFormat == "json" {
		return printJSON(components)
	}
	printComponentTable(components, activeLocale())
	return nil
}

func runCategories(cmd *cobra.Command, args []string) error {
	p, _, err := loadPool(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer p.Close()

	components, err := p.ByCategories(args...)
	if err != nil {
		return err
	}

	if queryFormat == "json" {
		return printJSON(components)
	}
	printComponentTable(components, activeLocale())
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	p, res, err := loadPool(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer p.Close()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Components:\t%d\n", res.Components)
	fmt.Fprintf(w, "From cache:\t%v\n", res.FromCache)
	fmt.Fprintf(w, "Outcome:\t%s\n", res.Outcome)
	fmt.Fprintf(w, "Warnings:\t%d\n", len(res.Warnings))
	fmt.Fprintf(w, "Cache dir:\t%s\n", cfg.Cache.Dir)
	fmt.Fprintf(w, "Locale:\t%s\n", cfg.Locale.Active())
	fmt.Fprintf(w, "Search backend:\t%s\n", cfg.Search.Backend)
	return w.Flush()
}
