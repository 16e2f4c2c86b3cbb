// Package number implements musique's numeric tower: exact rationals with
// simplification, arithmetic, modular inverse, integer powers, and rounding.
// Every Number returned from a public function is already in canonical form
// (gcd(|num|, den) == 1, den > 0).
package number

import (
	"fmt"
	"strconv"
	"strings"
)

// Number is an exact rational num/den, always stored canonically.
type Number struct {
	Num int64
	Den int64
}

// Kind enumerates the arithmetic error conditions raised by Number
// operations, matching the Arithmetic error family in spec.md §7.
type Kind int

const (
	DivisionByZero Kind = iota
	FractionalModulo
	MissingModularInverse
	NonIntegerPower
)

// Error wraps an arithmetic failure kind so callers can type-switch on it
// without parsing a message string.
type Error struct {
	Kind Kind
}

func (e Error) Error() string {
	switch e.Kind {
	case DivisionByZero:
		return "division by zero"
	case FractionalModulo:
		return "modulo by a fractional divisor"
	case MissingModularInverse:
		return "unable to calculate modular multiplicative inverse"
	case NonIntegerPower:
		return "non-integer exponent is not supported"
	}
	return "arithmetic error"
}

// Int constructs an integer Number.
func Int(n int64) Number { return Number{Num: n, Den: 1} }

// New constructs num/den and simplifies it. Panics if den == 0, matching the
// invariant that only arithmetic operations that can observe a zero
// denominator return an error; a literal zero denominator is a programmer
// error at construction time.
func New(num, den int64) Number {
	if den == 0 {
		panic("number: zero denominator")
	}
	return Number{Num: num, Den: den}.simplify()
}

// Parse builds a Number from a decimal literal of the form `\d+(\.\d+)?`
// (the grammar the lexer accepts for Numeric tokens) or `\.\d+`, whose
// empty integer part reads as 0, so ".75" is 3/4.
func Parse(lit string) (Number, error) {
	intPart, fracPart, hasFrac := strings.Cut(lit, ".")
	ip := int64(0)
	if intPart != "" || !hasFrac {
		var err error
		ip, err = strconv.ParseInt(intPart, 10, 64)
		if err != nil {
			return Number{}, fmt.Errorf("failed numeric parsing: %w", err)
		}
	}
	if !hasFrac || fracPart == "" {
		return Int(ip), nil
	}
	fp, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return Number{}, fmt.Errorf("failed numeric parsing: %w", err)
	}
	den := pow10(len(fracPart))
	sign := int64(1)
	if ip < 0 {
		sign = -1
	}
	num := ip*den + sign*fp
	return New(num, den), nil
}

// ParseFraction reads either a bare decimal literal (as Parse does) or the
// "num/den" form Number.String itself produces, e.g. when round-tripping a
// Number through a config file or session snapshot rather than through
// musique source text.
func ParseFraction(s string) (Number, error) {
	whole, frac, ok := strings.Cut(s, "/")
	if !ok {
		return Parse(s)
	}
	num, err := strconv.ParseInt(strings.TrimSpace(whole), 10, 64)
	if err != nil {
		return Number{}, fmt.Errorf("failed numeric parsing: %w", err)
	}
	den, err := strconv.ParseInt(strings.TrimSpace(frac), 10, 64)
	if err != nil {
		return Number{}, fmt.Errorf("failed numeric parsing: %w", err)
	}
	if den == 0 {
		return Number{}, Error{Kind: DivisionByZero}
	}
	return New(num, den), nil
}

func pow10(n int) int64 {
	p := int64(1)
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func lcm(a, b int64) int64 {
	return a / gcd(a, b) * b
}

// simplify divides out the gcd and normalizes the sign to Num, restoring the
// canonical-form invariant.
func (n Number) simplify() Number {
	if n.Den < 0 {
		n.Num, n.Den = -n.Num, -n.Den
	}
	g := gcd(n.Num, n.Den)
	if g != 0 {
		n.Num /= g
		n.Den /= g
	}
	return n
}

// IsInteger reports whether n has a whole-number value.
func (n Number) IsInteger() bool { return n.Den == 1 }

// Add returns n + m.
func (n Number) Add(m Number) Number {
	l := lcm(n.Den, m.Den)
	return New(n.Num*(l/n.Den)+m.Num*(l/m.Den), l)
}

// Sub returns n - m.
func (n Number) Sub(m Number) Number {
	return n.Add(m.Neg())
}

// Neg returns -n.
func (n Number) Neg() Number {
	return Number{Num: -n.Num, Den: n.Den}
}

// Mul returns n * m.
func (n Number) Mul(m Number) Number {
	return New(n.Num*m.Num, n.Den*m.Den)
}

// Div returns n / m, or DivisionByZero if m is zero.
func (n Number) Div(m Number) (Number, error) {
	if m.Num == 0 {
		return Number{}, Error{DivisionByZero}
	}
	return New(n.Num*m.Den, n.Den*m.Num), nil
}

// Mod implements the modulo rule from spec.md §4.3: a non-integer divisor is
// always an error; an integer dividend with an integer divisor uses the
// ordinary `%`; a fractional dividend is resolved through the modular
// inverse of its denominator.
func (n Number) Mod(m Number) (Number, error) {
	if !m.IsInteger() {
		return Number{}, Error{FractionalModulo}
	}
	if m.Num == 0 {
		return Number{}, Error{DivisionByZero}
	}
	if n.IsInteger() {
		return Int(imod(n.Num, m.Num)), nil
	}
	inv, ok := modInverse(n.Den, m.Num)
	if !ok {
		return Number{}, Error{MissingModularInverse}
	}
	return Int(imod(inv*n.Num, m.Num)), nil
}

func imod(a, m int64) int64 {
	if m < 0 {
		m = -m
	}
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// modInverse computes the modular multiplicative inverse of a mod m via the
// extended Euclidean algorithm. Returns ok=false when gcd(a, m) != 1.
func modInverse(a, m int64) (int64, bool) {
	if m < 0 {
		m = -m
	}
	a = imod(a, m)
	g, x, _ := extendedGCD(a, m)
	if g != 1 {
		return 0, false
	}
	return imod(x, m), true
}

func extendedGCD(a, b int64) (g, x, y int64) {
	if b == 0 {
		return a, 1, 0
	}
	g, x1, y1 := extendedGCD(b, a%b)
	return g, y1, x1 - (a/b)*y1
}

// Pow raises n to an integer power exp, by repeated multiplication of Num
// and Den, inverting first when exp is negative. Non-integer exponents are
// rejected: Number has no general real-exponent representation.
func (n Number) Pow(exp Number) (Number, error) {
	if !exp.IsInteger() {
		return Number{}, Error{NonIntegerPower}
	}
	e := exp.Num
	base := n
	if e < 0 {
		if base.Num == 0 {
			return Number{}, Error{DivisionByZero}
		}
		base = Number{Num: base.Den, Den: base.Num}
		e = -e
	}
	result := Int(1)
	for i := int64(0); i < e; i++ {
		result = result.Mul(base)
	}
	return result, nil
}

// Cmp returns -1, 0, or 1 as n is less than, equal to, or greater than m.
// Implemented via cross-multiplication, which is safe because Den is always
// positive after simplification.
func (n Number) Cmp(m Number) int {
	l := n.Num*m.Den - n.Den*m.Num
	switch {
	case l < 0:
		return -1
	case l > 0:
		return 1
	default:
		return 0
	}
}

// Equal reports whether n and m denote the same rational value.
func (n Number) Equal(m Number) bool { return n.Cmp(m) == 0 }

// Floor returns the greatest integer Number <= n.
func (n Number) Floor() Number {
	q := n.Num / n.Den
	if n.Num%n.Den != 0 && (n.Num < 0) != (n.Den < 0) {
		q--
	}
	return Int(q)
}

// Ceil returns the least integer Number >= n.
func (n Number) Ceil() Number {
	f := n.Floor()
	if f.Equal(n) {
		return f
	}
	return Int(f.Num + 1)
}

// Round implements the half-away-from-zero rule from spec.md §4.3, with r
// the remainder above the floor: for non-negative values round up when
// 2*r >= den, otherwise floor; for negative values floor when 2*r <= den,
// otherwise round up.
func (n Number) Round() Number {
	f := n.Floor()
	r := n.Num - f.Num*n.Den // remainder in [0, den)
	if n.Num >= 0 {
		if 2*r >= n.Den {
			return Int(f.Num + 1)
		}
		return f
	}
	// n < 0: compare against the symmetric rule stated on the original value.
	if 2*r <= n.Den {
		return f
	}
	return Int(f.Num + 1)
}

// String renders n as an integer when Den == 1, else as "num/den".
func (n Number) String() string {
	if n.Den == 1 {
		return strconv.FormatInt(n.Num, 10)
	}
	return fmt.Sprintf("%d/%d", n.Num, n.Den)
}

// Float64 converts n to a float64 for contexts that need an approximation
// (duration arithmetic, display).
func (n Number) Float64() float64 {
	return float64(n.Num) / float64(n.Den)
}

// IsZero reports whether n is exactly zero.
func (n Number) IsZero() bool { return n.Num == 0 }

// Sign returns -1, 0, or 1.
func (n Number) Sign() int {
	switch {
	case n.Num < 0:
		return -1
	case n.Num > 0:
		return 1
	default:
		return 0
	}
}
