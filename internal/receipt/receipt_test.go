package receipt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/meridianbank/console/internal/models"
)

func samplePair() (credit, debit models.TransactionRecord) {
	credit = models.TransactionRecord{
		TransactionID:   5002,
		ReferenceNumber: 70002,
		AccountNumber:   900112,
		Amount:          decimal.RequireFromString("250.50"),
		ClosingBalance:  decimal.RequireFromString("1451.00"),
		Type:            models.TxIntraBank,
		Status:          models.TxSuccess,
		CreatedAt:       1735689600000,
	}
	debit = models.TransactionRecord{
		TransactionID:   5001,
		ReferenceNumber: 70001,
		AccountNumber:   900111,
		Amount:          decimal.RequireFromString("250.50"),
		ClosingBalance:  decimal.RequireFromString("24749.50"),
		Type:            models.TxIntraBank,
		Status:          models.TxSuccess,
		CreatedAt:       1735689600000,
	}
	return credit, debit
}

func findLine(t *testing.T, l Layout, label string) string {
	t.Helper()
	for _, section := range l.Sections {
		for _, line := range section.Lines {
			if line.Label == label {
				return line.Value
			}
		}
	}
	t.Fatalf("layout has no line labeled %q", label)
	return ""
}

func TestBuild_DebitSuppliesFromCreditSuppliesTo(t *testing.T) {
	credit, debit := samplePair()
	l := Build(credit, debit)

	assert.Equal(t, "Transaction Receipt", l.Title)
	assert.Equal(t, "900111", findLine(t, l, "From Account"))
	assert.Equal(t, "900112", findLine(t, l, "To Account"))

	// identifiers, amount and balance all come from the debit side
	assert.Equal(t, "5001", findLine(t, l, "Transaction ID"))
	assert.Equal(t, "70001", findLine(t, l, "Reference No."))
	assert.Equal(t, "Rs. 250.5", findLine(t, l, "Amount"))
	assert.Equal(t, "Rs. 24749.5", findLine(t, l, "Closing Balance"))
}

func TestBuild_IFSCOnlyForInterBank(t *testing.T) {
	credit, debit := samplePair()
	l := Build(credit, debit)
	for _, section := range l.Sections {
		for _, line := range section.Lines {
			assert.NotEqual(t, "IFSC Code", line.Label)
		}
	}

	debit.Type = models.TxInterBank
	debit.IFSCCode = "MERI0001234"
	l = Build(credit, debit)
	assert.Equal(t, "MERI0001234", findLine(t, l, "IFSC Code"))
}

func TestRenderText_ContainsEveryLine(t *testing.T) {
	credit, debit := samplePair()
	l := Build(credit, debit)

	var buf strings.Builder
	assert.NoError(t, RenderText(&buf, l))

	text := buf.String()
	assert.Contains(t, text, "Transaction Receipt")
	for _, section := range l.Sections {
		assert.Contains(t, text, section.Title)
		for _, line := range section.Lines {
			assert.Contains(t, text, line.Label)
			assert.Contains(t, text, line.Value)
		}
	}
}

func TestRenderPDF_ProducesValidDocument(t *testing.T) {
	credit, debit := samplePair()
	data, err := RenderPDF(Build(credit, debit))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"), "output must start with the PDF magic")
}

func TestExportPDF_WritesIntoDir(t *testing.T) {
	credit, debit := samplePair()
	dir := t.TempDir()

	path, err := ExportPDF(Build(credit, debit), dir, "receipt-70001.pdf")
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "receipt-70001.pdf"), path)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}
