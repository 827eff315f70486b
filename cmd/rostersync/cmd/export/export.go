// Package export provides the export command implementation.
package export

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/rostersync"
	"github.com/agentstation/rostersync/internal/cmd/application"
	"github.com/agentstation/rostersync/internal/cmd/output"
	"github.com/agentstation/rostersync/internal/config"
	"github.com/agentstation/rostersync/pkg/ledger"
)

// Flags holds the export command flags.
type Flags struct {
	Begin        string
	End          string
	Clear        bool
	Shop         string
	CustomerType string
	PaymentType  string
	Employee     string
	FileFormat   string
	OutputDir    string
}

func addFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}
	cmd.Flags().StringVar(&flags.Begin, "begin", "", "first day of the export window (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.End, "end", "", "last day of the export window (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&flags.Clear, "clear", false, "post a compensating sale for every exported balance")
	cmd.Flags().StringVar(&flags.Shop, "shop", "", "shop name whose sales are exported")
	cmd.Flags().StringVar(&flags.CustomerType, "customer-type", "", "customer type whose balances are exported")
	cmd.Flags().StringVar(&flags.PaymentType, "payment-type", "", "payment type used by clearing sales")
	cmd.Flags().StringVar(&flags.Employee, "employee", "", "employee name clearing sales are attributed to")
	cmd.Flags().StringVar(&flags.FileFormat, "file-format", "", "ledger file format: csv or xlsx")
	cmd.Flags().StringVar(&flags.OutputDir, "output-dir", "", "directory the ledger files are written to")
	return flags
}

func (f *Flags) apply(cmd *cobra.Command, e *config.Export) {
	set := func(name string, dst *string, value string) {
		if cmd.Flags().Changed(name) {
			*dst = value
		}
	}
	set("begin", &e.Begin, f.Begin)
	set("end", &e.End, f.End)
	set("shop", &e.ShopName, f.Shop)
	set("customer-type", &e.CustomerType, f.CustomerType)
	set("payment-type", &e.PaymentType, f.PaymentType)
	set("employee", &e.EmployeeName, f.Employee)
	set("file-format", &e.Format, f.FileFormat)
	set("output-dir", &e.OutputDir, f.OutputDir)
	if cmd.Flags().Changed("clear") {
		e.Clear = f.Clear
	}
}

// Request converts the loaded settings into an export request.
func Request(settings *config.Config) (rostersync.ExportRequest, error) {
	e := settings.Export
	window, err := ledger.ParseWindow(e.Begin, e.End)
	if err != nil {
		return rostersync.ExportRequest{}, err
	}
	format, err := ledger.ParseFormat(e.Format)
	if err != nil {
		return rostersync.ExportRequest{}, err
	}
	return rostersync.ExportRequest{
		Config: ledger.Config{
			ShopName:          e.ShopName,
			CustomerType:      e.CustomerType,
			ExternalIDField:   settings.ImportOptions.ExternalIDField,
			OnAccountCode:     e.OnAccountCode,
			Window:            window,
			TransactionSource: e.TransactionSource,
			TransactionType:   e.TransactionType,
			SchoolYear:        e.SchoolYear,
			CatalogItemFK:     e.CatalogItemFK,
			Clear:             e.Clear,
			PaymentTypeName:   e.PaymentType,
			EmployeeName:      e.EmployeeName,
		},
		Format:    format,
		OutputDir: e.OutputDir,
	}, nil
}

// NewCommand creates the export command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "export",
		GroupID: "core",
		Short:   "Export on-account sales and balances for accounting",
		Long: `Export pulls completed sales of one shop within a date window and writes
two files:

• ledger_lines_<stamp>: one row per line of every sale paid fully on account
• ledger_balances_<stamp>: one row per customer of the type with a balance

Sales that mix on-account and other payments are skipped with a warning.
With --clear, a compensating sale zeroes each exported balance.`,
		Example: `  rostersync export --begin 2024-01-01 --end 2024-01-31
  rostersync export --begin 2024-06-01 --end 2024-06-30 --clear --payment-type "Credit Account"
  rostersync export --begin 2024-01-01 --end 2024-01-31 --file-format xlsx --output-dir ./out`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			settings := app.Settings()
			flags.apply(cmd, &settings.Export)
			if err := settings.ValidateExport(); err != nil {
				return err
			}
			req, err := Request(settings)
			if err != nil {
				return err
			}

			client, err := app.Client()
			if err != nil {
				return err
			}

			report, err := client.Export(cmd.Context(), req)
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), app.OutputFormat(), output.NewExportSummary(report))
		},
	}

	flags = addFlags(cmd)

	return cmd
}
