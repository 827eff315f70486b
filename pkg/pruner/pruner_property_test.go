package pruner_test

import (
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"github.com/agentstation/rostersync/pkg/pos"
	"github.com/agentstation/rostersync/pkg/pruner"
)

// TestPrunerNeverDeletesOwingCustomers verifies the balance guard.
// Property: balance > 0 => Evaluate(...) != Delete
func TestPrunerNeverDeletesOwingCustomers(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("positive balance is never deleted", prop.ForAll(
		func(externalID int64, cents int64, validIDs []int64) bool {
			valid := pruner.ValidIDs{}
			valid.Add(validIDs...)
			c := &pos.Customer{
				CustomerID:    "1",
				CreditAccount: &pos.CreditAccount{Balance: pos.NewMoney(decimal.New(cents, -2))},
				CustomFieldValues: &pos.CustomFieldValues{
					CustomFieldValue: pos.List[pos.CustomFieldValue]{{CustomFieldID: externalIDField, Value: strconv.FormatInt(externalID, 10)}},
				},
			}
			return pruner.Evaluate(c, externalIDField, valid) != pruner.Delete
		},
		gen.Int64Range(1, 10000),
		gen.Int64Range(1, 1000000),
		gen.SliceOf(gen.Int64Range(1, 10000)),
	))

	properties.Property("ids on the roster are always kept", prop.ForAll(
		func(externalID int64, cents int64) bool {
			valid := pruner.ValidIDs{}
			valid.Add(externalID)
			c := &pos.Customer{
				CreditAccount: &pos.CreditAccount{Balance: pos.NewMoney(decimal.New(cents, -2))},
				Contact:       &pos.Contact{Custom: strconv.FormatInt(externalID, 10)},
			}
			return pruner.Evaluate(c, externalIDField, valid) == pruner.Keep
		},
		gen.Int64Range(1, 10000),
		gen.Int64Range(-1000000, 1000000),
	))

	properties.TestingRun(t)
}
