package bank

import (
	"errors"

	"github.com/tellerbank/teller/internal/ledger"
	"github.com/tellerbank/teller/internal/loans"
)

// Validation errors: malformed input, no side effects.
var (
	ErrInvalidAmount      = ledger.ErrInvalidAmount
	ErrInvalidPayment     = loans.ErrInvalidPayment
	ErrInvalidPIN         = errors.New("PIN must be exactly 4 digits")
	ErrInvalidCustomer    = errors.New("invalid customer details")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidLoanTerms   = errors.New("loan terms out of range")
)

// Policy violations: the request is well-formed but breaks a business rule.
var (
	ErrMinimumBalance     = ledger.ErrMinimumBalance
	ErrOverdraftLimit     = ledger.ErrOverdraftLimit
	ErrPINInUse           = errors.New("PIN already in use")
	ErrPINMismatch        = errors.New("invalid PIN")
	ErrSameAccount        = errors.New("cannot transfer to the same account")
	ErrActiveLoan         = errors.New("customer has an active loan")
	ErrLoanExceedsBalance = errors.New("loan amount exceeds allowed multiple of account balance")
)

// Not found.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrLoanNotFound    = errors.New("loan not found")
)

// Resource exhaustion.
var (
	ErrAccountCapacity = errors.New("maximum number of accounts reached")
	ErrLoanCapacity    = errors.New("maximum number of loans reached")
)
