package kangaroo

import "testing"

func testRange(t *testing.T, startHex, endHex string) (*Scalar, *Scalar) {
	t.Helper()
	start, err := ScalarFromHex(startHex)
	if err != nil {
		t.Fatal(err)
	}
	end, err := ScalarFromHex(endHex)
	if err != nil {
		t.Fatal(err)
	}
	return start, end
}

func TestJumpTableConsistency(t *testing.T) {
	start, end := testRange(t, "0", "10000")
	jt := newJumpTable(start, end)
	g := Generator()
	for i := 0; i < jumpTableSize; i++ {
		e := jt.at(i)
		if e.delta.Sign() <= 0 {
			t.Fatalf("delta[%d] must be positive", i)
		}
		if !ScalarMult(e.delta, g).Equal(e.step) {
			t.Fatalf("step[%d] != [delta[%d]]G", i, i)
		}
	}
}

func TestJumpTableMagnitude(t *testing.T) {
	testCases := []struct {
		name     string
		startHex string
		endHex   string
		baseBits int // max(1, r/2 - 8)
	}{
		{name: "tiny", startHex: "0", endHex: "100", baseBits: 1},
		{name: "puzzle73", startHex: "1000000000000000000", endHex: "1FFFFFFFFFFFFFFFFFF", baseBits: 28},
		{name: "wide", startHex: "0", endHex: "100000000000000000000000000000000", baseBits: 56},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := testRange(t, tc.startHex, tc.endHex)
			jt := newJumpTable(start, end)
			want := NewScalar().Lsh(ScalarFromUint64(1), uint(tc.baseBits))
			want.Add(want, ScalarFromUint64(1))
			if jt.at(0).delta.Cmp(want) != 0 {
				t.Errorf("delta[0] = %s, want %s", jt.at(0).delta.Hex(), want.Hex())
			}
			last := NewScalar().Lsh(ScalarFromUint64(1), uint(tc.baseBits))
			last.Add(last, ScalarFromUint64(jumpTableSize))
			if jt.at(jumpTableSize-1).delta.Cmp(last) != 0 {
				t.Errorf("delta[255] = %s, want %s", jt.at(jumpTableSize-1).delta.Hex(), last.Hex())
			}
		})
	}
}

// The jump index is a pure function of the x-coordinate.
func TestJumpIndexDeterministic(t *testing.T) {
	start, end := testRange(t, "0", "10000")
	jt := newJumpTable(start, end)
	for _, k := range []uint64{1, 2, 42, 1000, 65537} {
		p := ScalarBaseMult(ScalarFromUint64(k))
		q := ScalarBaseMult(ScalarFromUint64(k))
		if jt.index(p) != jt.index(q) {
			t.Fatalf("index not deterministic for k=%d", k)
		}
		want := int(p.X().low64() & 0xFF)
		if got := jt.index(p); got != want {
			t.Fatalf("index(k=%d) = %d, want low byte %d", k, got, want)
		}
	}
}
