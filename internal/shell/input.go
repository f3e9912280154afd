package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// errQuit ends the session when input runs out.
var errQuit = errors.New("end of input")

type input struct {
	sc  *bufio.Scanner
	out io.Writer
}

func (in *input) line(prompt string) (string, error) {
	fmt.Fprint(in.out, prompt)
	if !in.sc.Scan() {
		if err := in.sc.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return "", errQuit
	}
	return strings.TrimSpace(in.sc.Text()), nil
}

// number re-prompts until the reply parses as an integer.
func (in *input) number(prompt string) (int, error) {
	s, err := in.line(prompt)
	for err == nil {
		n, perr := strconv.Atoi(s)
		if perr == nil {
			return n, nil
		}
		s, err = in.line("Invalid input. Please enter a number: ")
	}
	return 0, err
}

// amount re-prompts until the reply parses as a decimal.
func (in *input) amount(prompt string) (decimal.Decimal, error) {
	s, err := in.line(prompt)
	for err == nil {
		d, perr := decimal.NewFromString(strings.TrimPrefix(s, "$"))
		if perr == nil {
			return d, nil
		}
		s, err = in.line("Invalid input. Please enter a number: ")
	}
	return decimal.Zero, err
}

func (in *input) pin() (string, error) {
	return in.line("Enter 4-digit PIN: ")
}
