package cpu

import (
	"math/bits"
	"strconv"
	"strings"
)

const (
	REGISTER_BITS = 4                        // Nominal width of register A.
	REGISTER_MAX  = (1 << REGISTER_BITS) - 1 // Largest in-range value.
)

// Register is the accumulator. It is nominally 4 bits wide, but holds the
// untruncated result of a subtraction, so it may go negative.
type Register int

// Add returns r + operand with the resulting zero and carry flags.
// Zero is judged on the full sum, before any carry truncation.
func (r Register) Add(operand uint8) (sum Register, carry bool, zero bool) {
	sum = r + Register(operand)
	zero = sum == 0
	carry = sum > REGISTER_MAX
	if carry {
		sum = sum.DropBit()
	}
	return
}

// Sub returns r - operand with the resulting carry (borrow) and zero flags.
// The result is never truncated.
func (r Register) Sub(operand uint8) (diff Register, carry bool, zero bool) {
	diff = r - Register(operand)
	carry = diff < 0
	zero = diff == 0
	return
}

// DropBit removes the leading binary digit of a positive value.
//
// This is not a modulo: 0b10110 becomes 0b0110, while 0b100000 would become
// 0b00000. Zero and negative values are returned unchanged.
func (r Register) DropBit() Register {
	if r <= 0 {
		return r
	}
	top := bits.Len(uint(r)) - 1
	return r &^ (1 << top)
}

// Low4 returns the low nibble of the two's complement value.
func (r Register) Low4() uint8 {
	return uint8(r) & REGISTER_MAX
}

// Bits returns the value as binary digits with a 0b prefix, padded to
// six characters including any sign.
func (r Register) Bits() string {
	prefix := "0b"
	value := int64(r)
	if value < 0 {
		prefix = "-0b"
		value = -value
	}
	digits := strconv.FormatInt(value, 2)
	if pad := 6 - len(prefix) - len(digits); pad > 0 {
		digits = strings.Repeat("0", pad) + digits
	}
	return prefix + digits
}
