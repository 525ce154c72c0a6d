package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"coursepay/internal/repository"
	"coursepay/internal/repository/postgres"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <invoice-id|invoice-number>",
		Short: "Show an invoice with its payments and the owner's enrollments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := openDatabase(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			invoices := postgres.NewInvoiceRepository(db)
			invoice, err := invoices.GetByID(ctx, args[0])
			if errors.Is(err, repository.ErrNotFound) {
				invoice, err = invoices.GetByNumber(ctx, args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to load invoice %s: %w", args[0], err)
			}

			payments, err := postgres.NewPaymentRepository(db).ListByInvoiceID(ctx, invoice.ID)
			if err != nil {
				return fmt.Errorf("failed to load payments: %w", err)
			}

			enrollments, err := postgres.NewEnrollmentRepository(db).ListByUserID(ctx, invoice.UserID)
			if err != nil {
				return fmt.Errorf("failed to load enrollments: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Invoice\t%s (%s)\n", invoice.InvoiceNumber, invoice.ID)
			fmt.Fprintf(w, "Status\t%s\n", invoice.Status)
			fmt.Fprintf(w, "Total\tR %s\n", invoice.Total.StringFixed(2))
			fmt.Fprintf(w, "Paid at\t%s\n", formatTime(invoice.PaidAt))

			fmt.Fprintln(w, "\nPAYMENT\tSTATUS\tAMOUNT\tPF PAYMENT ID\tPROCESSED")
			for _, p := range payments {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Status, p.Amount.StringFixed(2), deref(p.GatewayPaymentID), formatTime(p.ProcessedAt))
			}

			fmt.Fprintln(w, "\nCOURSE\tENROLLMENT\tENROLLED")
			for _, e := range enrollments {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.CourseID, e.Status, formatTime(e.EnrolledAt))
			}
			return w.Flush()
		},
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.RFC3339)
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
