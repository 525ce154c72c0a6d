package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"coursepay/internal/domain"
	"coursepay/internal/repository/postgres"
)

// seedResult holds the identifiers a simulated notification needs.
type seedResult struct {
	User    *domain.User
	Course  *domain.Course
	Invoice *domain.Invoice
	Payment *domain.Payment
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create a test user, courses, a pending invoice and its payment",
		Long: `Create fixture data for exercising the PayFast webhook by hand.

Every run upserts the same user and courses and creates a fresh PENDING invoice
with one line item and a PENDING payment. All writes happen in one transaction.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := seed(cmd.Context(), db)
			if err != nil {
				return err
			}
			printSeedSummary(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func seed(ctx context.Context, db *sql.DB) (*seedResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	userRepo := postgres.NewUserRepositoryWithTx(tx)
	courseRepo := postgres.NewCourseRepositoryWithTx(tx)
	invoiceRepo := postgres.NewInvoiceRepositoryWithTx(tx)
	paymentRepo := postgres.NewPaymentRepositoryWithTx(tx)

	user, err := userRepo.Upsert(ctx, &domain.User{
		ID:        uuid.New().String(),
		Email:     "john.doe@example.com",
		FirstName: "John",
		LastName:  "Doe",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	log.Info("user seeded", "email", user.Email)

	courses := []*domain.Course{
		{
			ID:          "course-typescript-101",
			Title:       "TypeScript Fundamentals",
			Description: "Learn TypeScript from scratch",
			Price:       decimal.RequireFromString("499.99"),
			IsActive:    true,
		},
		{
			ID:          "course-nodejs-advanced",
			Title:       "Advanced Node.js",
			Description: "Master Node.js and backend development",
			Price:       decimal.RequireFromString("799.99"),
			IsActive:    true,
		},
	}
	for _, course := range courses {
		if err := courseRepo.Upsert(ctx, course); err != nil {
			return nil, fmt.Errorf("failed to upsert course %s: %w", course.ID, err)
		}
		log.Info("course seeded", "course_id", course.ID)
	}

	course := courses[0]
	tax := decimal.RequireFromString("75.00")
	invoice := &domain.Invoice{
		ID:            uuid.New().String(),
		InvoiceNumber: fmt.Sprintf("INV-%d", time.Now().UnixMilli()),
		UserID:        user.ID,
		Status:        domain.InvoiceStatusPending,
		Subtotal:      course.Price,
		Tax:           tax,
		Total:         course.Price.Add(tax),
		Items: []domain.InvoiceItem{{
			ID:          uuid.New().String(),
			CourseID:    course.ID,
			Description: course.Title,
			Quantity:    1,
			UnitPrice:   course.Price,
			Total:       course.Price,
		}},
	}
	if err := invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	log.Info("invoice seeded", "invoice_number", invoice.InvoiceNumber)

	payment := &domain.Payment{
		ID:            uuid.New().String(),
		InvoiceID:     invoice.ID,
		Amount:        invoice.Total,
		Status:        domain.PaymentStatusPending,
		PaymentMethod: domain.PaymentMethodPayFast,
	}
	if err := paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	log.Info("payment seeded", "payment_id", payment.ID)

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit seed: %w", err)
	}

	return &seedResult{User: user, Course: course, Invoice: invoice, Payment: payment}, nil
}

func printSeedSummary(w io.Writer, r *seedResult) {
	rule := strings.Repeat("-", 50)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "User ID:        %s\n", r.User.ID)
	fmt.Fprintf(w, "User Email:     %s\n", r.User.Email)
	fmt.Fprintf(w, "Course ID:      %s\n", r.Course.ID)
	fmt.Fprintf(w, "Invoice ID:     %s\n", r.Invoice.ID)
	fmt.Fprintf(w, "Invoice Number: %s\n", r.Invoice.InvoiceNumber)
	fmt.Fprintf(w, "Payment ID:     %s\n", r.Payment.ID)
	fmt.Fprintf(w, "Amount:         R %s\n", r.Invoice.Total.StringFixed(2))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "\nSimulate a payment with:\n  coursepay simulate COMPLETE --user %s --invoice %s --payment %s\n",
		r.User.ID, r.Invoice.ID, r.Payment.ID)
}
