package calculator

import (
	"testing"

	"market-pos/internal/status"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(t *testing.T, c *Calculator, keys ...string) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, c.Press(k), "key %q", k)
	}
}

func TestCalculator_LeftToRight(t *testing.T) {
	c := New(nil)
	press(t, c, "10", "+", "5", "×", "2")

	assert.Equal(t, "30.00", c.Equals().StringFixed(2))
}

func TestCalculator_LivePreview(t *testing.T) {
	c := New(nil)
	press(t, c, "1", "0", "+", "5")

	assert.Equal(t, "15.00", c.Preview())
	assert.Equal(t, "10 + 5", c.Expression())
	assert.Equal(t, OpAdd, c.Pending())
}

func TestCalculator_DivisionByZero(t *testing.T) {
	result, err := Evaluate([]string{"7", "÷", "0"})
	require.NoError(t, err)

	assert.Equal(t, "0.00", result.Display)
	assert.True(t, result.Value.IsZero())
}

func TestCalculator_NotifiesWithoutPendingOperator(t *testing.T) {
	var seen []string
	c := New(func(v decimal.Decimal) { seen = append(seen, v.StringFixed(2)) })

	press(t, c, "1", "2", ".", "5")
	assert.Equal(t, []string{"1.00", "12.00", "12.00", "12.50"}, seen)

	// Keys typed while an operator is pending do not propagate.
	seen = nil
	press(t, c, "+", "1")
	assert.Empty(t, seen)

	c.Equals()
	assert.Equal(t, []string{"13.50"}, seen)
}

func TestCalculator_ClearNotifiesZero(t *testing.T) {
	var last *decimal.Decimal
	c := New(func(v decimal.Decimal) { last = &v })
	press(t, c, "9", "×", "9")

	c.Clear()

	require.NotNil(t, last)
	assert.True(t, last.IsZero())
	assert.Equal(t, "0.00", c.Preview())
	assert.Equal(t, Operator(""), c.Pending())
}

func TestCalculator_ReplacesOperatorWithoutOperand(t *testing.T) {
	c := New(nil)
	press(t, c, "8", "+", "-", "3")

	assert.Equal(t, "5.00", c.Equals().StringFixed(2))
}

func TestCalculator_InvalidInput(t *testing.T) {
	c := New(nil)
	press(t, c, "4")

	assert.ErrorIs(t, c.Press("abc"), status.ErrInvalidExpression)
	assert.ErrorIs(t, c.Press("."+"."), status.ErrInvalidExpression)
	assert.ErrorIs(t, c.Type("1e3"), status.ErrInvalidExpression)
	assert.Equal(t, "4.00", c.Preview())
}

func TestCalculator_Type(t *testing.T) {
	var last decimal.Decimal
	c := New(func(v decimal.Decimal) { last = v })

	require.NoError(t, c.Type(" 42.10 "))
	assert.Equal(t, "42.10", last.StringFixed(2))
}

func TestCalculator_ContinuesAfterEquals(t *testing.T) {
	c := New(nil)
	press(t, c, "10", "÷", "4", "=", "×", "2")

	assert.Equal(t, "5.00", c.Equals().StringFixed(2))
}

func TestCalculator_NegativeResultKeepsChaining(t *testing.T) {
	c := New(nil)
	press(t, c, "3", "−", "5")

	assert.Equal(t, "-2.00", c.Equals().StringFixed(2))
	assert.Equal(t, "-2.00", c.Preview())
	assert.Equal(t, "-2", c.Expression())

	press(t, c, "+", "1")
	assert.Equal(t, "-1.00", c.Equals().StringFixed(2))
}

func TestCalculator_TypingAfterEqualsStartsNewOperand(t *testing.T) {
	c := New(nil)
	press(t, c, "2", "+", "2", "=", "7")

	assert.Equal(t, "7.00", c.Preview())
	assert.Equal(t, "7", c.Expression())
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		expected string
	}{
		{"Single operand", []string{"12.5"}, "12.50"},
		{"ASCII operators", []string{"10", "-", "2", "*", "3", "/", "4"}, "6.00"},
		{"Chained addition", []string{"0.10", "+", "0.20"}, "0.30"},
		{"Clear mid expression", []string{"5", "+", "5", "C", "3"}, "3.00"},
		{"Empty", nil, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Evaluate(tt.keys)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Display)
		})
	}
}
