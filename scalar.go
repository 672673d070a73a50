package kangaroo

import (
	"errors"
	"math/big"
	"math/bits"
	"strings"
)

// Scalar is an arbitrary-precision non-negative integer used for both
// field elements modulo the secp256k1 prime and walk distances modulo the
// group order. Modular operations take an explicit modulus so the same
// type serves both domains.
type Scalar struct {
	n big.Int
}

var errScalarHex = errors.New("invalid scalar hex")

// NewScalar returns a scalar set to zero.
func NewScalar() *Scalar {
	return new(Scalar)
}

// ScalarFromUint64 returns a scalar holding v.
func ScalarFromUint64(v uint64) *Scalar {
	s := new(Scalar)
	s.n.SetUint64(v)
	return s
}

// ScalarFromHex parses a hex string, with or without a 0x prefix.
func ScalarFromHex(h string) (*Scalar, error) {
	s := new(Scalar)
	if err := s.SetHex(h); err != nil {
		return nil, err
	}
	return s, nil
}

// SetHex sets z from a hex string, with or without a 0x prefix.
func (z *Scalar) SetHex(h string) error {
	if strings.HasPrefix(h, "0x") || strings.HasPrefix(h, "0X") {
		h = h[2:]
	}
	if h == "" {
		return errScalarHex
	}
	if _, ok := z.n.SetString(h, 16); !ok {
		return errScalarHex
	}
	if z.n.Sign() < 0 {
		return errScalarHex
	}
	return nil
}

// Hex returns the canonical uppercase hex form without prefix or leading
// zeros. The zero scalar renders as "0".
func (z *Scalar) Hex() string {
	return strings.ToUpper(z.n.Text(16))
}

// PaddedHex returns the uppercase hex form left-padded with zeros to
// width digits.
func (z *Scalar) PaddedHex(width int) string {
	h := z.Hex()
	if len(h) >= width {
		return h
	}
	return strings.Repeat("0", width-len(h)) + h
}

// Set sets z = x and returns z.
func (z *Scalar) Set(x *Scalar) *Scalar {
	z.n.Set(&x.n)
	return z
}

// Clone returns an independent copy of z.
func (z *Scalar) Clone() *Scalar {
	return new(Scalar).Set(z)
}

// Add sets z = x + y and returns z.
func (z *Scalar) Add(x, y *Scalar) *Scalar {
	z.n.Add(&x.n, &y.n)
	return z
}

// Sub sets z = x - y and returns z. The result may be negative; reduce
// with Mod before treating it as a canonical value.
func (z *Scalar) Sub(x, y *Scalar) *Scalar {
	z.n.Sub(&x.n, &y.n)
	return z
}

// Mul sets z = x * y and returns z.
func (z *Scalar) Mul(x, y *Scalar) *Scalar {
	z.n.Mul(&x.n, &y.n)
	return z
}

// Mod sets z = x mod m and returns z. The result is always in [0, m).
func (z *Scalar) Mod(x, m *Scalar) *Scalar {
	z.n.Mod(&x.n, &m.n)
	return z
}

// ModInverse sets z to the multiplicative inverse of x modulo m and
// returns z, or nil when no inverse exists.
func (z *Scalar) ModInverse(x, m *Scalar) *Scalar {
	if z.n.ModInverse(&x.n, &m.n) == nil {
		return nil
	}
	return z
}

// ModSqrt sets z to a square root of x modulo the prime m and returns z,
// or nil when x is not a quadratic residue.
func (z *Scalar) ModSqrt(x, m *Scalar) *Scalar {
	if z.n.ModSqrt(&x.n, &m.n) == nil {
		return nil
	}
	return z
}

// Lsh sets z = x << k and returns z.
func (z *Scalar) Lsh(x *Scalar, k uint) *Scalar {
	z.n.Lsh(&x.n, k)
	return z
}

// Rsh sets z = x >> k and returns z.
func (z *Scalar) Rsh(x *Scalar, k uint) *Scalar {
	z.n.Rsh(&x.n, k)
	return z
}

// BitLen returns the length of z in bits; the length of zero is 0.
func (z *Scalar) BitLen() int {
	return z.n.BitLen()
}

// Bit returns the value of the i'th bit of z.
func (z *Scalar) Bit(i int) uint {
	return z.n.Bit(i)
}

// Cmp compares z and x and returns -1, 0 or +1.
func (z *Scalar) Cmp(x *Scalar) int {
	return z.n.Cmp(&x.n)
}

// Sign returns -1, 0 or +1 depending on the sign of z.
func (z *Scalar) Sign() int {
	return z.n.Sign()
}

// IsZero reports whether z is zero.
func (z *Scalar) IsZero() bool {
	return z.n.Sign() == 0
}

// IsOdd reports whether z is odd.
func (z *Scalar) IsOdd() bool {
	return z.n.Bit(0) == 1
}

// Bytes returns the big-endian byte form of z.
func (z *Scalar) Bytes() []byte {
	return z.n.Bytes()
}

// FillBytes writes z into buf as a fixed-width big-endian value. It
// panics when z does not fit.
func (z *Scalar) FillBytes(buf []byte) []byte {
	return z.n.FillBytes(buf)
}

// low64 extracts the least significant 64 bits without allocating.
func (z *Scalar) low64() uint64 {
	w := z.n.Bits()
	switch {
	case len(w) == 0:
		return 0
	case bits.UintSize == 64:
		return uint64(w[0])
	case len(w) == 1:
		return uint64(w[0])
	default:
		return uint64(w[1])<<32 | uint64(w[0])
	}
}
