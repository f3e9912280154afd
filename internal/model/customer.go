package model

import (
	"fmt"
	"io"
)

// DefaultPIN is assigned to customers whose saved PIN is missing.
const DefaultPIN = "0000"

// Customer is the account holder embedded in every account.
type Customer struct {
	ID      int
	Name    string
	Address string
	Phone   string
	PIN     string // exactly 4 digits
}

// ValidPIN reports whether pin is exactly four ASCII digits.
func ValidPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return false
		}
	}
	return true
}

// Display writes the customer's contact details. The PIN is never shown.
func (c Customer) Display(w io.Writer) {
	fmt.Fprintf(w, "Customer ID: %d\n", c.ID)
	fmt.Fprintf(w, "Name: %s\n", c.Name)
	fmt.Fprintf(w, "Address: %s\n", c.Address)
	fmt.Fprintf(w, "Phone: %s\n", c.Phone)
}
