package calc

import "math"

// Outcome is the result of parsing one line.
type Outcome struct {
	OK     bool
	First  int64
	Op     Operator
	Second int64
}

// Eval evaluates a successful outcome.
func (o Outcome) Eval() (int64, error) {
	if !o.OK {
		return 0, ErrMalformed
	}
	return Evaluate(o.Op, o.First, o.Second)
}

// Parser parses "digits operator digits" one character at a time.
// The zero value is ready to parse.
type Parser struct {
	state    parseState
	hasFirst bool
	first    int64
	op       Operator
	second   int64
}

type parseState int

const (
	stateFirstOperand  parseState = iota // folding digits of the first operand
	stateHaveOperator                    // operator seen, waiting for the first digit of second operand
	stateSecondOperand                   // folding digits of the second operand
	stateError                           // terminal
)

// Reset prepares the parser for a new line.
func (p *Parser) Reset() {
	*p = Parser{}
}

// Failed indicates the parser is in the error state.
func (p *Parser) Failed() bool {
	return p.state == stateError
}

// Parse consumes one character. It returns false once the line is known to
// be malformed, after which further characters are ignored.
func (p *Parser) Parse(r rune) bool {
	switch p.state {
	case stateFirstOperand:
		if d, ok := digit(r); ok {
			p.hasFirst = true
			return p.fold(&p.first, d)
		}
		if !p.hasFirst {
			return p.fail()
		}
		op, ok := ParseOperator(r)
		if !ok {
			return p.fail()
		}
		p.op, p.state = op, stateHaveOperator
	case stateHaveOperator:
		d, ok := digit(r)
		if !ok {
			return p.fail()
		}
		p.state = stateSecondOperand
		return p.fold(&p.second, d)
	case stateSecondOperand:
		d, ok := digit(r)
		if !ok {
			return p.fail()
		}
		return p.fold(&p.second, d)
	case stateError:
		return false
	}
	return true
}

// Outcome reports the result for the characters consumed so far.
// A line which ends before the second operand has a digit is a failure.
func (p *Parser) Outcome() Outcome {
	if p.state != stateSecondOperand {
		return Outcome{}
	}
	return Outcome{OK: true, First: p.first, Op: p.op, Second: p.second}
}

// ParseLine parses a whole line, stopping at the first malformed character.
func ParseLine(line []rune) Outcome {
	var p Parser
	for _, r := range line {
		if !p.Parse(r) {
			break
		}
	}
	return p.Outcome()
}

func (p *Parser) fold(acc *int64, d int64) bool {
	if *acc > (math.MaxInt64-d)/10 {
		return p.fail()
	}
	*acc = *acc*10 + d
	return true
}

func (p *Parser) fail() bool {
	p.state = stateError
	return false
}

func digit(r rune) (int64, bool) {
	if r >= '0' && r <= '9' {
		return int64(r - '0'), true
	}
	return 0, false
}
