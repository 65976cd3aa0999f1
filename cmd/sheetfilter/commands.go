package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/sheetfilter/internal/config"
	"github.com/JonMunkholm/sheetfilter/internal/core"
	"github.com/JonMunkholm/sheetfilter/internal/logging"
	"github.com/JonMunkholm/sheetfilter/internal/xlsx"
)

// cli holds the flags shared by all commands.
type cli struct {
	lookup      func(string) string
	columnsFile string
	locale      string
	jsonOutput  bool
}

func newRootCmd(lookup func(string) string) *cobra.Command {
	c := &cli{lookup: lookup}

	root := &cobra.Command{
		Use:   "sheetfilter",
		Short: "Filter spreadsheet rows by a column value",
		Long: `Locate the header row of an .xlsx workbook and copy the rows whose
filter column matches a value into a new workbook.

Commands:
  columns  Show the header row and the columns of a workbook.
  run      Filter a workbook and save the matching rows.

Status lines go to stdout, diagnostics to stderr. Settings come from the
same FILTER_* environment variables as the server.

Examples:
  sheetfilter columns --in staff.xlsx
  sheetfilter run --in staff.xlsx --out it.xlsx --column Отдел --value ИТ`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&c.columnsFile, "columns-file", "", "YAML file with the required output columns (overrides FILTER_COLUMNS_FILE)")
	root.PersistentFlags().StringVar(&c.locale, "locale", "", "Language of status lines: ru or en (overrides FILTER_LOCALE)")
	root.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "Print the result as JSON instead of status lines")

	root.AddCommand(c.columnsCmd(), c.runCmd())
	return root
}

func (c *cli) columnsCmd() *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "columns",
		Short: "Show the header row and columns of a workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, journal, err := c.setup()
			if err != nil {
				return err
			}

			state, err := svc.OpenFile(cmd.Context(), journal, in)
			if err != nil || !c.jsonOutput {
				printJournal(cmd.OutOrStdout(), journal)
				return err
			}
			return printJSON(cmd.OutOrStdout(), state)
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Input .xlsx file")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func (c *cli) runCmd() *cobra.Command {
	var in string
	var req core.FilterRequest
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Filter a workbook and save the matching rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, journal, err := c.setup()
			if err != nil {
				return err
			}

			state, err := svc.OpenFile(cmd.Context(), journal, in)
			if err != nil {
				printJournal(cmd.OutOrStdout(), journal)
				return err
			}
			result, err := svc.RunFilter(cmd.Context(), journal, state, req)
			if err != nil || !c.jsonOutput {
				printJournal(cmd.OutOrStdout(), journal)
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Input .xlsx file")
	cmd.Flags().StringVar(&req.OutputPath, "out", "", "Output file; .xlsx is appended when missing")
	cmd.Flags().StringVar(&req.Column, "column", "", "Filter column, as named in the header")
	cmd.Flags().StringVar(&req.Value, "value", "", "Filter value; dates may be typed in any accepted format")
	for _, name := range []string{"in", "out", "column"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// setup loads configuration, applies flag overrides and builds the service.
func (c *cli) setup() (*core.Service, *core.Journal, error) {
	cfg, err := config.LoadFrom(c.lookup)
	if err != nil {
		return nil, nil, err
	}
	logging.SetupWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	if c.columnsFile != "" {
		cfg.Filter.ColumnsFile = c.columnsFile
	}
	if c.locale != "" {
		if _, err := core.ParseLocale(c.locale); err != nil {
			return nil, nil, err
		}
		cfg.Filter.Locale = c.locale
	}

	opts, err := cfg.Filter.ServiceOptions()
	if err != nil {
		return nil, nil, err
	}
	writer, err := xlsx.NewWriter(cfg.Filter.ResultSheet, cfg.Filter.OutputDateFormat)
	if err != nil {
		return nil, nil, err
	}
	return core.NewService(xlsx.Opener{}, writer, opts), core.NewJournal(cfg.Filter.Language()), nil
}

// reportError writes err to w: the coded user message for known kinds,
// the raw error otherwise (flags, configuration).
func reportError(w io.Writer, err error) {
	if core.IsUserFacing(err) {
		fmt.Fprintln(w, "sheetfilter:", core.FormatUserError(err))
		return
	}
	fmt.Fprintln(w, "sheetfilter:", err)
}

func printJournal(w io.Writer, j *core.Journal) {
	for _, line := range j.Lines() {
		fmt.Fprintln(w, line)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
