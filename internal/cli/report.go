package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ndewijer/portfolio-ledger/internal/report"
	"github.com/ndewijer/portfolio-ledger/internal/validation"
)

type reportOptions struct {
	*rootOptions
	format string
	style  string
	width  int
}

func newReportCmd(root *rootOptions) *cobra.Command {
	opts := &reportOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a portfolio report",
		Long: `Render the summary, performance, risk and yearly views as one report.

Formats:
  text      markdown rendered for the terminal (default)
  markdown  raw markdown
  html      HTML fragment`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, markdown or html")
	cmd.Flags().StringVar(&opts.style, "style", "dark", "Terminal style: dark, light, notty, ...")
	cmd.Flags().IntVar(&opts.width, "width", 100, "Wrap terminal output at this width")
	return cmd
}

func runReport(cmd *cobra.Command, opts *reportOptions) error {
	format := strings.ToLower(opts.format)
	if format == "md" {
		format = "markdown"
	}
	if !validation.ValidReportFormats[format] {
		return &validation.Error{Fields: map[string]string{"format": "must be text, markdown or html"}}
	}
	filter, err := opts.filter()
	if err != nil {
		return err
	}
	snap, err := opts.snapshot(cmd.Context())
	if err != nil {
		return err
	}

	md, err := report.New(snap, filter).Markdown()
	if err != nil {
		return err
	}
	out := md
	switch format {
	case "html":
		out, err = report.HTML(md)
	case "text":
		out, err = report.Terminal(md, opts.style, opts.width)
	}
	if err != nil {
		return err
	}
	return write(cmd.OutOrStdout(), out)
}

func write(w io.Writer, s string) error {
	_, err := fmt.Fprint(w, s)
	return err
}
