// Package calculator implements the chained amount input used by the operator UI.
// Expressions are evaluated strictly left to right: 10 + 5 × 2 is 30.
package calculator

import (
	"fmt"
	"strings"

	"market-pos/internal/status"

	"github.com/shopspring/decimal"
)

type Operator string

const (
	OpAdd Operator = "+"
	OpSub Operator = "−"
	OpMul Operator = "×"
	OpDiv Operator = "÷"
)

// ParseOperator accepts the display symbols and their ASCII forms.
func ParseOperator(s string) (Operator, bool) {
	switch strings.TrimSpace(s) {
	case "+":
		return OpAdd, true
	case "−", "-":
		return OpSub, true
	case "×", "*", "x", "X":
		return OpMul, true
	case "÷", "/":
		return OpDiv, true
	}
	return "", false
}

func (o Operator) Apply(left, right decimal.Decimal) decimal.Decimal {
	switch o {
	case OpAdd:
		return left.Add(right)
	case OpSub:
		return left.Sub(right)
	case OpMul:
		return left.Mul(right)
	case OpDiv:
		if right.IsZero() {
			return decimal.Zero
		}
		return left.Div(right)
	}
	return right
}

// Calculator holds at most one pending operator and one pending operand.
// After "=" the result is kept in left with settled set until a new operand
// is typed, so negative results keep chaining.
type Calculator struct {
	entry    string
	left     decimal.Decimal
	op       Operator
	settled  bool
	onChange func(decimal.Decimal)
}

// New returns a calculator at zero. onChange may be nil.
func New(onChange func(decimal.Decimal)) *Calculator {
	return &Calculator{onChange: onChange}
}

// Type replaces the operand being entered, as when editing the input field.
func (c *Calculator) Type(text string) error {
	text = strings.TrimSpace(text)
	if _, err := parseEntry(text); err != nil {
		return err
	}
	c.settled = false
	c.entry = text
	c.propagate()
	return nil
}

// Press applies a single key: digits or a number chunk, ".", an operator, "=" or "C".
func (c *Calculator) Press(key string) error {
	key = strings.TrimSpace(key)

	if op, ok := ParseOperator(key); ok {
		c.pressOperator(op)
		return nil
	}

	switch strings.ToLower(key) {
	case "=":
		c.Equals()
		return nil
	case "c", "ac", "clear":
		c.Clear()
		return nil
	}

	next := c.entry + key
	if c.settled {
		next = key
	}
	if _, err := parseEntry(next); err != nil {
		return err
	}
	c.settled = false
	c.entry = next
	c.propagate()
	return nil
}

func (c *Calculator) pressOperator(op Operator) {
	switch {
	case c.op == "":
		c.left = c.Value()
	case c.entry != "":
		c.left = c.op.Apply(c.left, mustParse(c.entry))
	}
	c.op = op
	c.entry = ""
	c.settled = false
}

// Equals collapses any pending expression and notifies the listener with the result.
func (c *Calculator) Equals() decimal.Decimal {
	result := c.Value()
	if c.op != "" {
		c.op = ""
		c.left = result
		c.entry = ""
		c.settled = true
	}
	c.notify(result)
	return result
}

func (c *Calculator) Clear() {
	c.entry = ""
	c.left = decimal.Zero
	c.op = ""
	c.settled = false
	c.notify(decimal.Zero)
}

// Value is the current result, including a preview of any pending expression.
func (c *Calculator) Value() decimal.Decimal {
	if c.op == "" {
		if c.settled {
			return c.left
		}
		return mustParse(c.entry)
	}
	if c.entry == "" {
		return c.left
	}
	return c.op.Apply(c.left, mustParse(c.entry))
}

// Preview renders the current value with two decimals, e.g. "15.00".
func (c *Calculator) Preview() string {
	return c.Value().StringFixed(2)
}

// Expression renders the pending input, e.g. "10 + 5".
func (c *Calculator) Expression() string {
	if c.op == "" {
		if c.settled {
			return c.left.String()
		}
		if c.entry == "" {
			return "0"
		}
		return c.entry
	}
	expr := c.left.String() + " " + string(c.op)
	if c.entry != "" {
		expr += " " + c.entry
	}
	return expr
}

func (c *Calculator) Pending() Operator { return c.op }

func (c *Calculator) propagate() {
	if c.op != "" {
		return
	}
	c.notify(c.Value())
}

func (c *Calculator) notify(v decimal.Decimal) {
	if c.onChange != nil {
		c.onChange(v)
	}
}

func parseEntry(text string) (decimal.Decimal, error) {
	if text == "" || text == "." {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(text)
	if err != nil || strings.ContainsAny(text, "eE+-") {
		return decimal.Zero, fmt.Errorf("%q: %w", text, status.ErrInvalidExpression)
	}
	return v, nil
}

func mustParse(text string) decimal.Decimal {
	v, _ := parseEntry(text)
	return v
}

type Result struct {
	Expression string          `json:"expression"`
	Display    string          `json:"display"`
	Value      decimal.Decimal `json:"value"`
}

// Evaluate replays keys on a fresh calculator and collapses the result.
func Evaluate(keys []string) (Result, error) {
	c := New(nil)
	for _, key := range keys {
		if err := c.Press(key); err != nil {
			return Result{}, err
		}
	}
	expr := c.Expression()
	value := c.Equals()
	return Result{
		Expression: expr,
		Display:    value.StringFixed(2),
		Value:      value.Round(2),
	}, nil
}
