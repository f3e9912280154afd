package id

import "fmt"

// Kind names one of the independent ID namespaces.
type Kind int

const (
	Customer Kind = iota
	Account
	Transaction
	Loan
)

// Base values keep the namespaces visually distinct.
const (
	CustomerBase    = 1000
	AccountBase     = 100
	TransactionBase = 10000
	LoanBase        = 100000
)

var kindNames = [...]string{
	Customer:    "customer",
	Account:     "account",
	Transaction: "transaction",
	Loan:        "loan",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Counters is the resumable position of every namespace.
type Counters struct {
	NextCustomer    int
	NextAccount     int
	NextTransaction int
	NextLoan        int
}

// Sequencer issues monotonically increasing IDs per Kind.
type Sequencer struct {
	next [4]int
}

// NewSequencer returns a Sequencer positioned at the base of every namespace.
func NewSequencer() *Sequencer {
	s := &Sequencer{}
	s.next[Customer] = CustomerBase
	s.next[Account] = AccountBase
	s.next[Transaction] = TransactionBase
	s.next[Loan] = LoanBase
	return s
}

// Next returns the current value for kind and advances it.
func (s *Sequencer) Next(kind Kind) int {
	v := s.next[kind]
	s.next[kind]++
	return v
}

// Peek returns the value the next call to Next(kind) will issue.
func (s *Sequencer) Peek(kind Kind) int {
	return s.next[kind]
}

// Set positions kind so the next issued ID is v.
func (s *Sequencer) Set(kind Kind, v int) {
	s.next[kind] = v
}

// Counters returns every namespace's position.
func (s *Sequencer) Counters() Counters {
	return Counters{
		NextCustomer:    s.next[Customer],
		NextAccount:     s.next[Account],
		NextTransaction: s.next[Transaction],
		NextLoan:        s.next[Loan],
	}
}

// Restore positions every namespace from a saved Counters value.
func (s *Sequencer) Restore(c Counters) {
	s.next[Customer] = c.NextCustomer
	s.next[Account] = c.NextAccount
	s.next[Transaction] = c.NextTransaction
	s.next[Loan] = c.NextLoan
}
