package calc

import "math"

// Operator is a binary operator.
type Operator int

// Operators. Add is the zero value.
const (
	Add Operator = iota
	Subtract
	Multiply
	Divide
	Modulo
	Power
	GreaterThan
	LessThan
)

var operatorSymbols = [...]rune{
	Add:         '+',
	Subtract:    '-',
	Multiply:    '*',
	Divide:      '/',
	Modulo:      '%',
	Power:       '^',
	GreaterThan: '>',
	LessThan:    '<',
}

var operatorNames = [...]string{
	Add:         "add",
	Subtract:    "subtract",
	Multiply:    "multiply",
	Divide:      "divide",
	Modulo:      "modulo",
	Power:       "power",
	GreaterThan: "greater",
	LessThan:    "less",
}

// Operators returns all operators in declaration order.
func Operators() []Operator {
	ops := make([]Operator, len(operatorSymbols))
	for n := range ops {
		ops[n] = Operator(n)
	}
	return ops
}

// ParseOperator maps a symbol to its operator.
func ParseOperator(r rune) (Operator, bool) {
	switch r {
	case '+':
		return Add, true
	case '-':
		return Subtract, true
	case '*':
		return Multiply, true
	case '/':
		return Divide, true
	case '%':
		return Modulo, true
	case '^':
		return Power, true
	case '>':
		return GreaterThan, true
	case '<':
		return LessThan, true
	}
	return Add, false
}

// IsValid checks if it's one of the defined operators.
func (op Operator) IsValid() bool {
	return op >= Add && op <= LessThan
}

// Symbol returns the input symbol of the operator.
func (op Operator) Symbol() rune {
	if !op.IsValid() {
		return Sentinel
	}
	return operatorSymbols[op]
}

// String implements fmt.Stringer.
func (op Operator) String() string {
	if !op.IsValid() {
		return "invalid"
	}
	return operatorNames[op]
}

// Evaluate applies op to a and b.
//
// Division truncates toward zero and the remainder takes the sign of a.
// Division or modulo by zero returns ErrDivideByZero. Results which don't
// fit in an int64 return ErrOverflow.
//
// For Power, an exponent which is negative or larger than math.MaxUint32
// is replaced by 1, so the result degrades to a.
//
// GreaterThan returns the larger operand, b on a tie. LessThan returns
// the smaller operand, a on a tie.
func Evaluate(op Operator, a, b int64) (int64, error) {
	switch op {
	case Add:
		c := a + b
		if (c > a) != (b > 0) {
			return 0, ErrOverflow
		}
		return c, nil
	case Subtract:
		c := a - b
		if (c < a) != (b > 0) {
			return 0, ErrOverflow
		}
		return c, nil
	case Multiply:
		return mul(a, b)
	case Divide:
		if b == 0 {
			return 0, ErrDivideByZero
		}
		if a == math.MinInt64 && b == -1 {
			return 0, ErrOverflow
		}
		return a / b, nil
	case Modulo:
		if b == 0 {
			return 0, ErrDivideByZero
		}
		return a % b, nil
	case Power:
		exp := uint32(1)
		if b >= 0 && b <= math.MaxUint32 {
			exp = uint32(b)
		}
		return pow(a, exp)
	case GreaterThan:
		if a > b {
			return a, nil
		}
		return b, nil
	case LessThan:
		if a > b {
			return b, nil
		}
		return a, nil
	}
	return 0, ErrMalformed
}

func mul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	c := a * b
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) || c/b != a {
		return 0, ErrOverflow
	}
	return c, nil
}

// pow uses square-and-multiply with checked steps.
func pow(base int64, exp uint32) (int64, error) {
	result := int64(1)
	for {
		if exp&1 != 0 {
			r, err := mul(result, base)
			if err != nil {
				return 0, err
			}
			result = r
		}
		exp >>= 1
		if exp == 0 {
			return result, nil
		}
		b, err := mul(base, base)
		if err != nil {
			return 0, err
		}
		base = b
	}
}
