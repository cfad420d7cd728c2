// Package ican verifies International Crypto Account Numbers, the
// checksummed account identifiers used on Core Blockchain networks.
//
// An ICAN is laid out like an IBAN: a two letter network prefix, two check
// digits and a basic account number. The check digits are valid when the
// rearranged, letter-expanded number is congruent to 1 modulo 97.
package ican

import (
	"fmt"
	"strings"
)

// Network describes a known ICAN prefix.
type Network struct {
	Prefix  string
	Name    string
	BBANLen int // Length of the basic account number (hex characters).
}

var networks = map[string]Network{
	"CB": {Prefix: "CB", Name: "mainnet", BBANLen: 40},
	"AB": {Prefix: "AB", Name: "devin", BBANLen: 40},
	"CE": {Prefix: "CE", Name: "enterprise", BBANLen: 40},
}

// Lookup returns the network for an id's prefix.
func Lookup(id string) (Network, bool) {
	if len(id) < 2 {
		return Network{}, false
	}
	n, ok := networks[strings.ToUpper(id[:2])]
	return n, ok
}

// IsValid reports whether id is a well-formed ICAN of a known network with
// correct check digits. Case is ignored.
func IsValid(id string) bool {
	id = strings.ToUpper(id)
	n, ok := Lookup(id)
	if !ok || len(id) != 4+n.BBANLen {
		return false
	}
	if !isDigit(id[2]) || !isDigit(id[3]) {
		return false
	}
	rem, ok := mod97(id[4:] + id[:4])
	return ok && rem == 1
}

// CheckDigits computes the two check digits for a prefix and basic account
// number.
func CheckDigits(prefix, bban string) (string, error) {
	rem, ok := mod97(strings.ToUpper(bban + prefix + "00"))
	if !ok {
		return "", fmt.Errorf("ican: invalid characters in %q", prefix+bban)
	}
	return fmt.Sprintf("%02d", 98-rem), nil
}

// Correct returns id with its check digits recomputed. The result is only
// meaningful for ids whose prefix and account number are otherwise right.
func Correct(id string) (string, error) {
	if len(id) < 5 {
		return "", fmt.Errorf("ican: %q is too short", id)
	}
	digits, err := CheckDigits(id[:2], id[4:])
	if err != nil {
		return "", err
	}
	return id[:2] + digits + id[4:], nil
}

// mod97 expands letters to two digit numbers (A=10 ... Z=35) and reduces the
// resulting decimal string modulo 97 without big integers.
func mod97(s string) (int, bool) {
	rem := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isDigit(c):
			rem = (rem*10 + int(c-'0')) % 97
		case c >= 'A' && c <= 'Z':
			v := int(c-'A') + 10
			rem = (rem*100 + v) % 97
		default:
			return 0, false
		}
	}
	return rem, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
