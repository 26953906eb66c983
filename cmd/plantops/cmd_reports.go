package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"plantops/internal/report"
)

var (
	genType     string
	genFormat   string
	genFrom     string
	genTo       string
	genCategory string
	genState    string

	deleteYes bool
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List, generate, download and delete reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reports known to the backend",
	RunE:  runReportsList,
}

var reportsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a report document and persist it to the backend",
	Long: `Builds the report document locally from the plant data services, then
registers it with the backend. On success the command also polls briefly
until the backend listing reflects the new report.`,
	RunE: runReportsGenerate,
}

var reportsDownloadCmd = &cobra.Command{
	Use:   "download [report-id]",
	Short: "Download a report document",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsDownload,
}

var reportsDeleteCmd = &cobra.Command{
	Use:   "delete [report-id]",
	Short: "Delete a report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsDelete,
}

var reportsCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove stuck in-progress reports on the backend",
	RunE:  runReportsCleanup,
}

func init() {
	reportsGenerateCmd.Flags().StringVarP(&genType, "type", "t", report.TypePerformance, "report type")
	reportsGenerateCmd.Flags().StringVarP(&genFormat, "format", "f", "PDF", "output format: PDF, Excel or CSV")
	reportsGenerateCmd.Flags().StringVar(&genFrom, "from", "", "period start (YYYY-MM-DD, default 30 days ago)")
	reportsGenerateCmd.Flags().StringVar(&genTo, "to", "", "period end (YYYY-MM-DD, default today)")
	reportsGenerateCmd.Flags().StringVar(&genCategory, "plants", "", "plant type filter: Wind or Solar")
	reportsGenerateCmd.Flags().StringVar(&genState, "state", "", "state filter")

	reportsDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")

	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsGenerateCmd)
	reportsCmd.AddCommand(reportsDownloadCmd)
	reportsCmd.AddCommand(reportsDeleteCmd)
	reportsCmd.AddCommand(reportsCleanupCmd)
}

func runReportsList(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()
	if err := a.ctrl.Refresh(ctx); err != nil {
		return listingFallback(a, err)
	}
	printRecords(a.ctrl.Store().Snapshot())
	return nil
}

// listingFallback prints the journaled reports when the backend is down.
func listingFallback(a *app, fetchErr error) error {
	if a.hist == nil {
		return fetchErr
	}
	journaled, err := a.hist.ListConfirmed()
	if err != nil || len(journaled) == 0 {
		return fetchErr
	}
	color.New(color.FgYellow).Fprintf(os.Stderr, "backend unreachable (%v), showing last known reports\n", fetchErr)
	printRecords(journaled)
	return nil
}

func printRecords(records []report.Record) {
	if len(records) == 0 {
		fmt.Println("No reports.")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Name", "Type", "Format", "Generated", "Size", "Status"})
	for _, rec := range records {
		status := rec.Status.String()
		if rec.PendingVerification {
			status = color.YellowString("Ready (verification pending)")
		} else if rec.Status == report.StatusGenerating {
			status = color.YellowString(status)
		} else {
			status = color.GreenString(status)
		}
		t.AppendRow(table.Row{
			rec.ID.String(),
			rec.Name,
			rec.Type,
			rec.Format,
			rec.GeneratedDate.Format("2006-01-02"),
			rec.SizeLabel,
			status,
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

func runReportsGenerate(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	p, err := generateParams()
	if err != nil {
		return err
	}

	logger.Info("generating report",
		zap.String("type", p.Type),
		zap.String("format", p.Format),
		zap.Time("from", p.DateFrom),
		zap.Time("to", p.DateTo))

	ctx := context.Background()
	out := a.ctrl.Generate(ctx, p)
	switch out.Kind {
	case report.OutcomeSuccess:
		if a.hist != nil {
			_ = a.hist.RecordConfirmed(out.Record)
		}
		color.Green("Report saved: %s (%s)", out.Record.Name, out.Record.ID)
		if out.Artifact.Path != "" {
			fmt.Println("Document:", out.Artifact.Path)
		}
		return nil
	case report.OutcomePartial:
		color.Yellow("Document built, save verification pending")
		if out.Artifact.Path != "" {
			fmt.Println("Document:", out.Artifact.Path)
		}
		return nil
	default:
		return fmt.Errorf("generation failed: %w", out.Err)
	}
}

func generateParams() (report.Params, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now
	var err error
	if genFrom != "" {
		from, err = time.Parse("2006-01-02", genFrom)
		if err != nil {
			return report.Params{}, fmt.Errorf("invalid --from date: %w", err)
		}
	}
	if genTo != "" {
		to, err = time.Parse("2006-01-02", genTo)
		if err != nil {
			return report.Params{}, fmt.Errorf("invalid --to date: %w", err)
		}
	}
	if to.Before(from) {
		return report.Params{}, fmt.Errorf("--to is before --from")
	}
	return report.Params{
		Type:     genType,
		Format:   genFormat,
		DateFrom: from,
		DateTo:   to,
		Category: genCategory,
		State:    genState,
	}, nil
}

func runReportsDownload(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	id, err := report.ParseDurableID(args[0])
	if err != nil {
		return fmt.Errorf("invalid report id %q: %w", args[0], err)
	}

	ctx := context.Background()
	if err := a.ctrl.Refresh(ctx); err != nil {
		return fmt.Errorf("fetch listing: %w", err)
	}
	rec, ok := a.ctrl.Store().Get(id)
	if !ok {
		return fmt.Errorf("report %s not found", id)
	}

	path, err := a.downloader.Download(ctx, rec)
	if err != nil {
		return err
	}
	if a.hist != nil {
		if n, ok := id.Durable(); ok {
			_ = a.hist.RecordDownload(n, path)
		}
	}
	color.Green("Saved to %s", path)
	return nil
}

func runReportsDelete(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	id, err := report.ParseDurableID(args[0])
	if err != nil {
		return fmt.Errorf("invalid report id %q: %w", args[0], err)
	}

	if !deleteYes {
		fmt.Printf("Delete report %s? [y/N] ", id)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	ctx := context.Background()
	if err := a.ctrl.Refresh(ctx); err != nil {
		logger.Warn("listing refresh failed before delete", zap.Error(err))
	}
	if _, ok := a.ctrl.Store().Get(id); !ok {
		// Not in the local listing; issue the backend delete directly
		if err := a.client.DeleteReport(ctx, mustDurable(id)); err != nil {
			return err
		}
	} else if err := a.ctrl.Delete(ctx, id); err != nil {
		return err
	}
	if a.hist != nil {
		_ = a.hist.Forget(mustDurable(id))
	}
	color.Green("Report %s removed", id)
	return nil
}

func mustDurable(id report.ID) int64 {
	n, _ := id.Durable()
	return n
}

func runReportsCleanup(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.client.CleanupGenerating(context.Background()); err != nil {
		return fmt.Errorf("cleanup: %w", err)
	}
	color.Green("Stuck in-progress reports removed")
	return nil
}
