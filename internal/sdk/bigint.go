package sdk

import (
	"fmt"
	"math/big"
	"strings"
)

// BigInt is an arbitrary-precision integer for monetary amounts. Backends
// serialize amounts as JSON numbers or numeric strings; either form decodes
// losslessly, and at no point does an amount pass through a float.
type BigInt struct {
	value big.Int
}

// NewBigInt returns a BigInt holding v.
func NewBigInt(v int64) BigInt {
	var b BigInt
	b.value.SetInt64(v)
	return b
}

// String renders the amount in base 10.
func (b BigInt) String() string {
	return b.value.String()
}

// Int returns the underlying big.Int as a fresh copy.
func (b BigInt) Int() *big.Int {
	return new(big.Int).Set(&b.value)
}

// Cmp compares b and other, returning -1, 0 or 1.
func (b BigInt) Cmp(other BigInt) int {
	return b.value.Cmp(&other.value)
}

func (b BigInt) MarshalJSON() ([]byte, error) {
	return []byte(b.value.String()), nil
}

func (b *BigInt) UnmarshalJSON(data []byte) error {
	text := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if text == "" || text == "null" {
		b.value.SetInt64(0)
		return nil
	}
	if _, ok := b.value.SetString(text, 10); !ok {
		return fmt.Errorf("invalid integer amount %q", text)
	}
	return nil
}
