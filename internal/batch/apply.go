package batch

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Teller is the subset of bank operations a batch can run.
type Teller interface {
	Deposit(number int, pin string, amount decimal.Decimal) (decimal.Decimal, error)
	Withdraw(number int, pin string, amount decimal.Decimal) (decimal.Decimal, error)
	Transfer(from, to int, pin string, amount decimal.Decimal) error
}

// Result is the outcome of one Op. Balance is set for successful deposits
// and withdrawals.
type Result struct {
	Op      Op
	Balance decimal.Decimal
	Err     error
}

// Apply runs ops in order. A failed op is recorded and the run continues.
func Apply(t Teller, ops []Op) []Result {
	results := make([]Result, 0, len(ops))
	for _, op := range ops {
		res := Result{Op: op}
		switch op.Kind {
		case OpDeposit:
			res.Balance, res.Err = t.Deposit(op.Account, op.PIN, op.Amount)
		case OpWithdraw:
			res.Balance, res.Err = t.Withdraw(op.Account, op.PIN, op.Amount)
		case OpTransfer:
			res.Err = t.Transfer(op.Account, op.To, op.PIN, op.Amount)
		default:
			res.Err = ErrUnknownOp
		}

		entry := logrus.WithFields(logrus.Fields{"line": op.Line, "op": op.Kind, "account": op.Account})
		if res.Err != nil {
			entry.WithError(res.Err).Debug("batch operation failed")
		} else {
			entry.Debug("batch operation applied")
		}
		results = append(results, res)
	}
	return results
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
