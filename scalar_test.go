package kangaroo

import "testing"

func TestScalarHexRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		out  string
	}{
		{name: "zero", in: "0", out: "0"},
		{name: "prefixed", in: "0xff", out: "FF"},
		{name: "upper_prefix", in: "0XDEADBEEF", out: "DEADBEEF"},
		{name: "leading_zeros_stripped", in: "000042", out: "42"},
		{name: "mixed_case", in: "AbCdEf", out: "ABCDEF"},
		{
			name: "group_order",
			in:   "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141",
			out:  "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := ScalarFromHex(tc.in)
			if err != nil {
				t.Fatalf("ScalarFromHex(%q): %v", tc.in, err)
			}
			if got := s.Hex(); got != tc.out {
				t.Errorf("Hex() = %q, want %q", got, tc.out)
			}
		})
	}
}

func TestScalarHexRejects(t *testing.T) {
	for _, in := range []string{"", "0x", "xyz", "12 34", "-5", "0x-1"} {
		if _, err := ScalarFromHex(in); err == nil {
			t.Errorf("ScalarFromHex(%q) should fail", in)
		}
	}
}

func TestScalarPaddedHex(t *testing.T) {
	s := ScalarFromUint64(0x2A)
	if got := s.PaddedHex(64); len(got) != 64 || got[63] != 'A' {
		t.Errorf("PaddedHex(64) = %q", got)
	}
	if got := s.PaddedHex(1); got != "2A" {
		t.Errorf("PaddedHex(1) should not truncate, got %q", got)
	}
}

func TestScalarModularOps(t *testing.T) {
	m := ScalarFromUint64(97)

	sum := NewScalar().Add(ScalarFromUint64(90), ScalarFromUint64(20))
	sum.Mod(sum, m)
	if sum.Hex() != "D" { // 110 mod 97 = 13
		t.Errorf("110 mod 97 = %s, want D", sum.Hex())
	}

	// Negative difference reduces into [0, m).
	diff := NewScalar().Sub(ScalarFromUint64(3), ScalarFromUint64(10))
	diff.Mod(diff, m)
	if diff.Hex() != "5A" { // -7 mod 97 = 90
		t.Errorf("-7 mod 97 = %s, want 5A", diff.Hex())
	}

	inv := NewScalar().ModInverse(ScalarFromUint64(3), m)
	if inv == nil {
		t.Fatal("3 must be invertible mod 97")
	}
	check := NewScalar().Mul(inv, ScalarFromUint64(3))
	check.Mod(check, m)
	if check.Hex() != "1" {
		t.Errorf("3 * 3^-1 mod 97 = %s, want 1", check.Hex())
	}

	if NewScalar().ModInverse(ScalarFromUint64(4), ScalarFromUint64(8)) != nil {
		t.Error("4 has no inverse mod 8")
	}
}

func TestScalarShiftsAndBits(t *testing.T) {
	s := NewScalar().Lsh(ScalarFromUint64(1), 80)
	if s.BitLen() != 81 {
		t.Errorf("BitLen(1<<80) = %d, want 81", s.BitLen())
	}
	s.Rsh(s, 80)
	if s.Hex() != "1" {
		t.Errorf("(1<<80)>>80 = %s, want 1", s.Hex())
	}
	if NewScalar().BitLen() != 0 {
		t.Error("BitLen(0) should be 0")
	}
}

func TestScalarLow64(t *testing.T) {
	testCases := []struct {
		hex  string
		want uint64
	}{
		{"0", 0},
		{"FF", 0xFF},
		{"1122334455667788", 0x1122334455667788},
		{"AA1122334455667788", 0x1122334455667788}, // truncates high bits
	}
	for _, tc := range testCases {
		s, err := ScalarFromHex(tc.hex)
		if err != nil {
			t.Fatal(err)
		}
		if got := s.low64(); got != tc.want {
			t.Errorf("low64(%s) = %x, want %x", tc.hex, got, tc.want)
		}
	}
}
