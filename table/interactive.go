package table

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompter asks a human a question and returns the line they answer with.
type Prompter interface {
	Prompt(question string) (string, error)
}

// Interactive is an actor whose decisions come from a human. Malformed
// answers are reported back through the prompter and asked again.
type Interactive struct {
	Name     string
	Prompter Prompter
}

func (h *Interactive) DecideBet(bank float64) (float64, error) {
	q := fmt.Sprintf("%s has $%.2f in their bank. How much would %s like to bet? ", h.Name, bank, h.Name)
	for {
		line, err := h.Prompter.Prompt(q)
		if err != nil {
			return 0, err
		}
		bet, err := ParseBet(line)
		if err == nil {
			return bet, nil
		}
		q = fmt.Sprintf("%s. Enter a whole number of dollars: ", err)
	}
}

func (h *Interactive) DecideAction(score int, bank float64) (Action, error) {
	q := fmt.Sprintf("%s has %d. Does %s want to [H]it, [S]tay, or [D]ouble down? ", h.Name, score, h.Name)
	for {
		line, err := h.Prompter.Prompt(q)
		if err != nil {
			return 0, err
		}
		a, err := ParseAction(line)
		if err == nil {
			return a, nil
		}
		q = fmt.Sprintf("%s. Please enter h, s or d: ", err)
	}
}

// ParseBet accepts a non-negative whole number.
func ParseBet(s string) (float64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBet, s)
	}
	return float64(n), nil
}

// Console prompts on a writer and reads answers line by line.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewConsole(r io.Reader, w io.Writer) *Console {
	return &Console{in: bufio.NewScanner(r), out: w}
}

func (c *Console) Prompt(question string) (string, error) {
	if _, err := io.WriteString(c.out, question); err != nil {
		return "", err
	}
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return c.in.Text(), nil
}
