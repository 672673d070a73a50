package address

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
)

// Known vectors for private key 1: the generator's hash160 addresses.
const (
	key1P2PKHCompressed   = "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH"
	key1P2PKHUncompressed = "1EHNa6Q4Jz2uvNExL497mE43ikXhwF6kZm"
	key1P2WPKH            = "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4"
)

func TestHash160Vector(t *testing.T) {
	// hash160 of the compressed generator pubkey, the hash behind the
	// key-1 addresses above.
	pub, err := hex.DecodeString("0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	if err != nil {
		t.Fatal(err)
	}
	want := "751e76e8199196d454941c45d1b3a323f1433bd6"
	if got := hex.EncodeToString(Hash160(pub)); got != want {
		t.Fatalf("Hash160 = %s, want %s", got, want)
	}
}

func TestFromPrivateKeyHex(t *testing.T) {
	for _, in := range []string{"1", "0x1", "0001"} {
		a, err := FromPrivateKeyHex(in)
		if err != nil {
			t.Fatalf("FromPrivateKeyHex(%q): %v", in, err)
		}
		if a.P2PKHCompressed != key1P2PKHCompressed {
			t.Errorf("p2pkh compressed = %s, want %s", a.P2PKHCompressed, key1P2PKHCompressed)
		}
		if a.P2PKHUncompressed != key1P2PKHUncompressed {
			t.Errorf("p2pkh uncompressed = %s, want %s", a.P2PKHUncompressed, key1P2PKHUncompressed)
		}
		if a.P2WPKH != key1P2WPKH {
			t.Errorf("p2wpkh = %s, want %s", a.P2WPKH, key1P2WPKH)
		}
	}
}

func TestFromPrivateKeyHexRejects(t *testing.T) {
	for _, in := range []string{"", "zz", "0x", "12345678901234567890123456789012345678901234567890123456789012345"} {
		if _, err := FromPrivateKeyHex(in); err == nil {
			t.Errorf("FromPrivateKeyHex(%q) should fail", in)
		}
	}
}

func TestWatchSet(t *testing.T) {
	w := NewWatchSet([]string{key1P2PKHCompressed})
	if !w.Contains(key1P2PKHCompressed) {
		t.Fatal("watched address must be found")
	}
	if w.Contains("1BitcoinEaterAddressDontSendf59kuE") {
		t.Fatal("unwatched address must be absent")
	}

	a, err := FromPrivateKeyHex("1")
	if err != nil {
		t.Fatal(err)
	}
	if got := w.Match(a); got != key1P2PKHCompressed {
		t.Fatalf("Match = %q, want %q", got, key1P2PKHCompressed)
	}

	none := NewWatchSet(nil)
	if none.Match(a) != "" {
		t.Fatal("empty watch set must match nothing")
	}
}

func TestLoadWatchSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addresses.txt")
	content := "# hunted\n" + key1P2PKHCompressed + "\n\n" + key1P2WPKH + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := LoadWatchSet(path)
	if err != nil {
		t.Fatal(err)
	}
	if w.Len() != 2 {
		t.Fatalf("Len = %d, want 2", w.Len())
	}
	if !w.Contains(key1P2WPKH) {
		t.Fatal("loaded address must be found")
	}

	if _, err := LoadWatchSet(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("missing file must fail")
	}
}
