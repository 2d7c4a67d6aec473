package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dkoosis/btfilter/internal/version"
	"github.com/dkoosis/btfilter/pkg/color"
	"github.com/dkoosis/btfilter/pkg/filter"
)

func newShowCommand(s *settings, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "show [item [attribute]]",
		Short: "Show the current color settings",
		Long: "Show the current color settings.\n\nItems: " + strings.Join(color.Items(), ", ") +
			"\nAttributes: " + strings.Join(color.Attributes(), ", "),
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, s, stderr)
			if err != nil {
				return err
			}
			return showColors(stdout, e.colors, args)
		},
	}
}

// showColors prints one "The current ..." line per selected attribute.
// With no arguments every item is listed under a title-cased heading.
func showColors(w io.Writer, reg *color.Registry, args []string) error {
	items := color.Items()
	attrs := color.Attributes()
	if len(args) > 0 {
		items = args[:1]
	}
	if len(args) > 1 {
		attrs = args[1:2]
	}

	title := cases.Title(language.English)
	for i, item := range items {
		if len(args) == 0 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintln(w, title.String(strings.ReplaceAll(item, "_", " ")))
		}
		for _, attr := range attrs {
			line, err := reg.ShowString(item, attr)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, line)
		}
	}
	return nil
}

func newFiltersCommand(s *settings, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "List the frame filters in the order they run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, s, stderr)
			if err != nil {
				return err
			}
			printFilters(stdout, e.filters.Ordered())
			return nil
		},
	}
}

// printFilters writes a borderless table in the layout of gdb's
// "info frame-filter".
func printFilters(w io.Writer, entries []filter.Entry) {
	title := cases.Title(language.English)
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{title.String("priority"), title.String("enabled"), title.String("name")})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("")
	table.SetCenterSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	for _, entry := range entries {
		enabled := "No"
		if entry.Enabled {
			enabled = "Yes"
		}
		table.Append([]string{strconv.Itoa(entry.Priority), enabled, entry.Name})
	}
	table.Render()
}

func newVersionCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of btfilter",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintln(stdout, "Version: "+version.Version)
			fmt.Fprintln(stdout, "Build Commit: "+version.CommitHash)
			fmt.Fprintln(stdout, "Build Date: "+version.BuildDate)
		},
	}
}

func sortedNames(m map[string]int) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
