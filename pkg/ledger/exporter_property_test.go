package ledger_test

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/agentstation/rostersync/pkg/ledger"
	"github.com/agentstation/rostersync/pkg/pos"
)

// TestMixedPaymentSalesAreExcluded verifies that a sale mixing on-account
// with any other tender never yields export rows.
// Property: onAccount && other => len(Lines) == 0
func TestMixedPaymentSalesAreExcluded(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)
	cfg := exportConfig(t)

	properties.Property("mixed tender sales produce no rows", prop.ForAll(
		func(otherCodes []string, lineCount int) bool {
			store := newExportStore()
			sam := student("88", "501", "0")
			lines := make([]pos.SaleLine, lineCount)
			for i := range lines {
				lines[i] = line("l", "1", "2.00", "0")
			}
			payments := []pos.SalePayment{payment("SCA", "1.00")}
			for _, code := range otherCodes {
				payments = append(payments, payment("X"+code, "1.00"))
			}
			store.SaleList = []pos.Sale{sale("1", "2024-01-10T12:00:00-06:00", sam, lines, payments...)}

			result, err := ledger.New(store).Export(context.Background(), cfg)
			return err == nil && len(result.Lines) == 0 && result.Stats.MixedPayment == 1
		},
		gen.SliceOfN(3, gen.AlphaString()),
		gen.IntRange(1, 5),
	))

	properties.TestingRun(t)
}
