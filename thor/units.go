// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"errors"
	"math/big"
	"strings"
)

// EtherDecimals number of decimal places of one ether in wei.
const EtherDecimals = 18

// Ether is 1e18 wei.
var Ether = new(big.Int).Exp(big.NewInt(10), big.NewInt(EtherDecimals), nil)

// ParseEther converts a decimal ether amount like "0.5" into wei.
func ParseEther(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		return nil, errors.New("negative amount")
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return nil, errors.New("empty amount")
	}
	if len(frac) > EtherDecimals {
		return nil, errors.New("too many decimal places")
	}
	digits := whole + frac + strings.Repeat("0", EtherDecimals-len(frac))
	for _, c := range digits {
		if c < '0' || c > '9' {
			return nil, errors.New("invalid amount")
		}
	}
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, errors.New("invalid amount")
	}
	return v, nil
}

// MustParseEther is like ParseEther but panics on error.
func MustParseEther(s string) *big.Int {
	v, err := ParseEther(s)
	if err != nil {
		panic(err)
	}
	return v
}

// FormatEther renders wei as a decimal ether amount without trailing zeros.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	var sign string
	abs := new(big.Int).Set(wei)
	if abs.Sign() < 0 {
		sign = "-"
		abs.Neg(abs)
	}
	quo, rem := new(big.Int).QuoRem(abs, Ether, new(big.Int))
	if rem.Sign() == 0 {
		return sign + quo.String()
	}
	r := rem.String()
	r = strings.Repeat("0", EtherDecimals-len(r)) + r
	return sign + quo.String() + "." + strings.TrimRight(r, "0")
}
