// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEther(t *testing.T) {
	half := new(big.Int).Div(Ether, big.NewInt(2))

	tests := []struct {
		in      string
		want    *big.Int
		wantErr bool
	}{
		{"1", Ether, false},
		{"0.5", half, false},
		{".5", half, false},
		{"5.", new(big.Int).Mul(Ether, big.NewInt(5)), false},
		{"0.000000000000000001", big.NewInt(1), false},
		{"0", big.NewInt(0), false},
		{"", nil, true},
		{".", nil, true},
		{"-1", nil, true},
		{"1.2.3", nil, true},
		{"abc", nil, true},
		{"0.0000000000000000001", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseEther(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, 0, tt.want.Cmp(got), tt.in)
	}
}

func TestFormatEther(t *testing.T) {
	assert.Equal(t, "1", FormatEther(Ether))
	assert.Equal(t, "0.5", FormatEther(MustParseEther("0.5")))
	assert.Equal(t, "0.000000000000000001", FormatEther(big.NewInt(1)))
	assert.Equal(t, "-2.25", FormatEther(new(big.Int).Neg(MustParseEther("2.25"))))
	assert.Equal(t, "0", FormatEther(nil))
}
