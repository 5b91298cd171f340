package utils

import (
	"github.com/holiman/uint256"
	"github.com/mezonai/tokencore/errors"
)

// CheckedAdd returns a + b, failing when the sum exceeds MaxAmount.
func CheckedAdd(a, b *uint256.Int) (*uint256.Int, error) {
	sum, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow || sum.Gt(MaxAmount) {
		return nil, errors.ErrOverflow
	}
	return sum, nil
}

// CheckedSub returns a - b, failing when b > a.
func CheckedSub(a, b *uint256.Int) (*uint256.Int, error) {
	if b.Gt(a) {
		return nil, errors.ErrUnderflow
	}
	return new(uint256.Int).Sub(a, b), nil
}

// SaturatingSub returns a - b, or zero when b > a.
func SaturatingSub(a, b *uint256.Int) *uint256.Int {
	if b.Gt(a) {
		return uint256.NewInt(0)
	}
	return new(uint256.Int).Sub(a, b)
}

// CheckedMul returns a * b, failing when the product exceeds MaxAmount.
func CheckedMul(a, b *uint256.Int) (*uint256.Int, error) {
	product, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow || product.Gt(MaxAmount) {
		return nil, errors.ErrOverflow
	}
	return product, nil
}

// CheckedDiv returns the truncated quotient a / b.
func CheckedDiv(a, b *uint256.Int) (*uint256.Int, error) {
	if b.IsZero() {
		return nil, errors.ErrDivideByZero
	}
	return new(uint256.Int).Div(a, b), nil
}

// MulDiv returns a * b / d truncated. The intermediate product may exceed
// MaxAmount as long as it fits 256 bits; only the quotient is bounded.
func MulDiv(a, b, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, errors.ErrDivideByZero
	}
	product, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, errors.ErrOverflow
	}
	q := product.Div(product, d)
	if q.Gt(MaxAmount) {
		return nil, errors.ErrOverflow
	}
	return q, nil
}
