// Package receipt formats a paired credit/debit transfer result into a
// human receipt. A single layout is built once and consumed by both the
// screen and the PDF renderer, so the two cannot drift apart.
package receipt

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridianbank/console/internal/models"
)

// currencyPrefix is the fixed display symbol. Amounts render exactly as the
// backend returned them, never rounded or converted client-side.
const currencyPrefix = "Rs. "

// Line is one labeled value on the receipt.
type Line struct {
	Label string
	Value string
}

// Section groups related lines under a heading.
type Section struct {
	Title string
	Lines []Line
}

// Layout is the intermediate representation both renderers consume.
type Layout struct {
	Title    string
	Sections []Section
}

// Build assembles the receipt layout from a transfer's paired records. The
// debit record is the sender side and supplies "From Account"; the credit
// record is the receiver side and supplies "To Account".
func Build(credit, debit models.TransactionRecord) Layout {
	details := Section{
		Title: "Transfer Details",
		Lines: []Line{
			{Label: "Transaction ID", Value: formatInt(debit.TransactionID)},
			{Label: "Reference No.", Value: formatInt(debit.ReferenceNumber)},
			{Label: "Date", Value: formatTimestamp(debit.CreatedAt)},
			{Label: "Type", Value: string(debit.Type)},
			{Label: "Status", Value: string(debit.Status)},
		},
	}

	parties := Section{
		Title: "Accounts",
		Lines: []Line{
			{Label: "From Account", Value: formatInt(debit.AccountNumber)},
			{Label: "To Account", Value: formatInt(credit.AccountNumber)},
		},
	}
	if debit.IFSCCode != "" {
		parties.Lines = append(parties.Lines, Line{Label: "IFSC Code", Value: debit.IFSCCode})
	}

	amounts := Section{
		Title: "Amounts",
		Lines: []Line{
			{Label: "Amount", Value: formatAmount(debit.Amount)},
			{Label: "Closing Balance", Value: formatAmount(debit.ClosingBalance)},
		},
	}

	return Layout{
		Title:    "Transaction Receipt",
		Sections: []Section{details, parties, amounts},
	}
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

func formatAmount(d decimal.Decimal) string {
	return currencyPrefix + d.String()
}

// formatTimestamp converts epoch milliseconds to the viewer's local zone.
// The display form is never sent back to the backend.
func formatTimestamp(millis int64) string {
	return time.UnixMilli(millis).Local().Format("02 Jan 2006 15:04:05")
}
