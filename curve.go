package kangaroo

import (
	"fmt"
	"strings"
)

// secp256k1: y^2 = x^3 + 7 over F_p.
var (
	// CurveP is the field prime, 2^256 - 2^32 - 977.
	CurveP = mustScalar("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F")

	// CurveN is the group order.
	CurveN = mustScalar("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141")

	// CurveB is the constant term of the curve equation.
	CurveB = ScalarFromUint64(7)

	generatorX = mustScalar("79BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798")
	generatorY = mustScalar("483ADA7726A3C4655DA4FBFC0E1108A8FD17B448A68554199C47D08FFB10D4B8")
)

func mustScalar(h string) *Scalar {
	s, err := ScalarFromHex(h)
	if err != nil {
		panic("kangaroo: bad curve constant: " + h)
	}
	return s
}

// Point is a point on secp256k1 in affine coordinates, or the point at
// infinity.
type Point struct {
	x, y *Scalar
	inf  bool
}

// Infinity returns the point at infinity.
func Infinity() *Point {
	return &Point{inf: true}
}

// NewPoint returns the affine point (x, y). The coordinates are not
// validated; use OnCurve to check them.
func NewPoint(x, y *Scalar) *Point {
	return &Point{x: x.Clone(), y: y.Clone()}
}

// Generator returns the secp256k1 base point G.
func Generator() *Point {
	return NewPoint(generatorX, generatorY)
}

// X returns the x-coordinate. It must not be called on the point at
// infinity.
func (p *Point) X() *Scalar {
	return p.x
}

// Y returns the y-coordinate. It must not be called on the point at
// infinity.
func (p *Point) Y() *Scalar {
	return p.y
}

// IsInfinity reports whether p is the point at infinity.
func (p *Point) IsInfinity() bool {
	return p.inf
}

// Clone returns an independent copy of p.
func (p *Point) Clone() *Point {
	if p.inf {
		return Infinity()
	}
	return NewPoint(p.x, p.y)
}

// Equal reports whether p and q are the same point.
func (p *Point) Equal(q *Point) bool {
	if p.inf || q.inf {
		return p.inf && q.inf
	}
	return p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0
}

// OnCurve reports whether p satisfies y^2 = x^3 + 7 mod p. The point at
// infinity is considered on the curve.
func (p *Point) OnCurve() bool {
	if p.inf {
		return true
	}
	y2 := NewScalar().Mul(p.y, p.y)
	y2.Mod(y2, CurveP)
	rhs := curveRHS(p.x)
	return y2.Cmp(rhs) == 0
}

// curveRHS computes x^3 + 7 mod p.
func curveRHS(x *Scalar) *Scalar {
	rhs := NewScalar().Mul(x, x)
	rhs.Mod(rhs, CurveP)
	rhs.Mul(rhs, x)
	rhs.Add(rhs, CurveB)
	return rhs.Mod(rhs, CurveP)
}

// Key returns the identity key used by the distinguished-point table:
// the canonical hex coordinates joined by a colon. Two points with equal
// coordinates yield equal keys. It must not be called on the point at
// infinity, which is never a distinguished point.
func (p *Point) Key() string {
	return p.x.Hex() + ":" + p.y.Hex()
}

// Hex returns the uncompressed hex encoding (04 || x || y) with both
// coordinates padded to 64 digits.
func (p *Point) Hex() string {
	if p.inf {
		return "00"
	}
	return "04" + p.x.PaddedHex(64) + p.y.PaddedHex(64)
}

// ParsePoint decodes an uncompressed (04, 130 hex digits) or compressed
// (02/03, 66 hex digits) public key. It fails with ErrInvalidPubKey when
// the encoding is malformed or the coordinates are not on the curve.
func ParsePoint(h string) (*Point, error) {
	if strings.HasPrefix(h, "0x") || strings.HasPrefix(h, "0X") {
		h = h[2:]
	}
	switch {
	case len(h) == 130 && h[:2] == "04":
		x, err := ScalarFromHex(h[2:66])
		if err != nil {
			return nil, fmt.Errorf("%w: bad x coordinate", ErrInvalidPubKey)
		}
		y, err := ScalarFromHex(h[66:])
		if err != nil {
			return nil, fmt.Errorf("%w: bad y coordinate", ErrInvalidPubKey)
		}
		if x.Cmp(CurveP) >= 0 || y.Cmp(CurveP) >= 0 {
			return nil, fmt.Errorf("%w: coordinate out of range", ErrInvalidPubKey)
		}
		p := NewPoint(x, y)
		if !p.OnCurve() {
			return nil, fmt.Errorf("%w: point not on curve", ErrInvalidPubKey)
		}
		return p, nil
	case len(h) == 66 && (h[:2] == "02" || h[:2] == "03"):
		x, err := ScalarFromHex(h[2:])
		if err != nil {
			return nil, fmt.Errorf("%w: bad x coordinate", ErrInvalidPubKey)
		}
		if x.Cmp(CurveP) >= 0 {
			return nil, fmt.Errorf("%w: x coordinate out of range", ErrInvalidPubKey)
		}
		y := NewScalar().ModSqrt(curveRHS(x), CurveP)
		if y == nil {
			return nil, fmt.Errorf("%w: x coordinate not on curve", ErrInvalidPubKey)
		}
		wantOdd := h[:2] == "03"
		if y.IsOdd() != wantOdd {
			y.Sub(CurveP, y)
		}
		return NewPoint(x, y), nil
	default:
		return nil, fmt.Errorf("%w: length %d", ErrInvalidPubKey, len(h))
	}
}

// Add returns p + q using the affine chord-and-tangent formulas.
func Add(p, q *Point) *Point {
	if p.inf {
		return q.Clone()
	}
	if q.inf {
		return p.Clone()
	}
	if p.x.Cmp(q.x) == 0 {
		if p.y.Cmp(q.y) == 0 {
			return Double(p)
		}
		// q = -p
		return Infinity()
	}

	// s = (y2 - y1) / (x2 - x1)
	dy := NewScalar().Sub(q.y, p.y)
	dy.Mod(dy, CurveP)
	dx := NewScalar().Sub(q.x, p.x)
	dx.Mod(dx, CurveP)
	dx.ModInverse(dx, CurveP)
	s := dy.Mul(dy, dx)
	s.Mod(s, CurveP)

	return chord(s, p, q.x)
}

// Double returns 2p.
func Double(p *Point) *Point {
	if p.inf || p.y.IsZero() {
		return Infinity()
	}

	// s = 3x^2 / 2y (a = 0 for secp256k1)
	num := NewScalar().Mul(p.x, p.x)
	num.Mod(num, CurveP)
	num.Mul(num, ScalarFromUint64(3))
	num.Mod(num, CurveP)
	den := NewScalar().Add(p.y, p.y)
	den.Mod(den, CurveP)
	den.ModInverse(den, CurveP)
	s := num.Mul(num, den)
	s.Mod(s, CurveP)

	return chord(s, p, p.x)
}

// chord completes a point addition given the slope s through p and a
// second x-coordinate x2: x3 = s^2 - x1 - x2, y3 = s(x1 - x3) - y1.
func chord(s *Scalar, p *Point, x2 *Scalar) *Point {
	x3 := NewScalar().Mul(s, s)
	x3.Sub(x3, p.x)
	x3.Sub(x3, x2)
	x3.Mod(x3, CurveP)

	y3 := NewScalar().Sub(p.x, x3)
	y3.Mul(y3, s)
	y3.Sub(y3, p.y)
	y3.Mod(y3, CurveP)

	return &Point{x: x3, y: y3}
}

// ScalarMult returns [k]p using a right-to-left binary ladder.
func ScalarMult(k *Scalar, p *Point) *Point {
	result := Infinity()
	addend := p.Clone()
	for i, n := 0, k.BitLen(); i < n; i++ {
		if k.Bit(i) == 1 {
			result = Add(result, addend)
		}
		addend = Double(addend)
	}
	return result
}

// ScalarBaseMult returns [k]G.
func ScalarBaseMult(k *Scalar) *Point {
	return ScalarMult(k, Generator())
}
