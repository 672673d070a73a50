// Package address derives Bitcoin addresses from recovered private keys
// and matches them against a watch list. It sits outside the solver
// core: the engine reports a scalar, this package answers whether that
// scalar pays the address being hunted.
package address

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

var errKeyHex = errors.New("invalid private key hex")

// KeyAddresses is the address set derived from one private key.
type KeyAddresses struct {
	P2PKHCompressed   string
	P2PKHUncompressed string
	P2WPKH            string
}

// FromPrivateKeyHex derives the mainnet addresses paid by the given
// 256-bit private key.
func FromPrivateKeyHex(keyHex string) (*KeyAddresses, error) {
	keyHex = strings.TrimPrefix(strings.TrimPrefix(keyHex, "0x"), "0X")
	if keyHex == "" || len(keyHex) > 64 {
		return nil, errKeyHex
	}
	// Left-pad to a full 32-byte key.
	padded := strings.Repeat("0", 64-len(keyHex)) + strings.ToLower(keyHex)
	var raw [32]byte
	for i := 0; i < 32; i++ {
		hi, ok1 := nibble(padded[2*i])
		lo, ok2 := nibble(padded[2*i+1])
		if !ok1 || !ok2 {
			return nil, errKeyHex
		}
		raw[i] = hi<<4 | lo
	}

	_, pub := btcec.PrivKeyFromBytes(raw[:])
	return fromPubKeyBytes(pub.SerializeCompressed(), pub.SerializeUncompressed())
}

func nibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}

func fromPubKeyBytes(compressed, uncompressed []byte) (*KeyAddresses, error) {
	params := &chaincfg.MainNetParams

	p2pkhC, err := btcutil.NewAddressPubKeyHash(Hash160(compressed), params)
	if err != nil {
		return nil, fmt.Errorf("p2pkh (compressed): %w", err)
	}
	p2pkhU, err := btcutil.NewAddressPubKeyHash(Hash160(uncompressed), params)
	if err != nil {
		return nil, fmt.Errorf("p2pkh (uncompressed): %w", err)
	}
	p2wpkh, err := btcutil.NewAddressWitnessPubKeyHash(Hash160(compressed), params)
	if err != nil {
		return nil, fmt.Errorf("p2wpkh: %w", err)
	}

	return &KeyAddresses{
		P2PKHCompressed:   p2pkhC.EncodeAddress(),
		P2PKHUncompressed: p2pkhU.EncodeAddress(),
		P2WPKH:            p2wpkh.EncodeAddress(),
	}, nil
}

// All returns the derived addresses in a fixed order.
func (a *KeyAddresses) All() []string {
	return []string{a.P2PKHCompressed, a.P2PKHUncompressed, a.P2WPKH}
}
