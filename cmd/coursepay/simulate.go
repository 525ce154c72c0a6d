package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"coursepay/internal/payfast"
	"coursepay/internal/simulator"
)

func simulateCmd() *cobra.Command {
	var (
		userID    string
		invoiceID string
		paymentID string
		gatewayID string
		itemName  string
		amount    string
		url       string
	)

	cmd := &cobra.Command{
		Use:   "simulate [COMPLETE|FAILED|CANCELLED]",
		Short: "Send a signed PayFast notification to the webhook",
		Long: `Build a notification for seeded ids, sign it with the configured passphrase
and POST it to the webhook the way PayFast does.

Ids default to TEST_USER_ID, TEST_INVOICE_ID and TEST_PAYMENT_ID.

Examples:
  coursepay simulate
  coursepay simulate FAILED --invoice 7c1e... --payment 0b9d...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := payfast.StatusComplete
			if len(args) == 1 {
				parsed, err := simulator.ParseStatus(args[0])
				if err != nil {
					return err
				}
				status = parsed
			}

			if cfg.PayFast.MerchantID == "" {
				return errors.New("PAYFAST_MERCHANT_ID must be set")
			}
			if invoiceID == "" {
				return errors.New("an invoice id is required (--invoice or TEST_INVOICE_ID)")
			}

			gross, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}

			n := simulator.Build(simulator.Params{
				MerchantID:       cfg.PayFast.MerchantID,
				Passphrase:       cfg.PayFast.Passphrase,
				UserID:           userID,
				InvoiceID:        invoiceID,
				PaymentID:        paymentID,
				ItemName:         itemName,
				Amount:           gross,
				Status:           status,
				GatewayPaymentID: gatewayID,
			})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "String to hash:\n%s\n\n", payfast.NewSigner(cfg.PayFast.Passphrase).ParamString(n))
			payload, _ := json.MarshalIndent(n, "", "  ")
			fmt.Fprintf(out, "Payload:\n%s\n\n", payload)

			if url == "" {
				url = cfg.WebhookURL
			}
			fmt.Fprintf(out, "Sending webhook to %s\n", url)

			resp, err := simulator.NewClient(url).Send(cmd.Context(), n)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Status: %d\nBody:   %s\n", resp.StatusCode, resp.Body)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", os.Getenv("TEST_USER_ID"), "user id sent as custom_str1")
	cmd.Flags().StringVar(&invoiceID, "invoice", os.Getenv("TEST_INVOICE_ID"), "invoice id sent as custom_str2")
	cmd.Flags().StringVar(&paymentID, "payment", os.Getenv("TEST_PAYMENT_ID"), "payment id sent as m_payment_id")
	cmd.Flags().StringVar(&gatewayID, "pf-payment-id", "", "gateway payment id (default: generated)")
	cmd.Flags().StringVar(&itemName, "item", "TypeScript Fundamentals", "item name")
	cmd.Flags().StringVar(&amount, "amount", "574.99", "gross amount")
	cmd.Flags().StringVar(&url, "url", "", "webhook URL (default: WEBHOOK_URL)")

	return cmd
}
