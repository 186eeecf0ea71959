// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytes32JSON(t *testing.T) {
	originalHex := `"0x00000000000000000000000000000000000000000000000000006d6173746572"`

	var b Bytes32
	assert.NoError(t, json.Unmarshal([]byte(originalHex), &b))
	assert.Equal(t, BytesToBytes32([]byte("master")), b)

	out, err := json.Marshal(b)
	assert.NoError(t, err)
	assert.Equal(t, originalHex, string(out))
}

func TestParseBytes32(t *testing.T) {
	_, err := ParseBytes32("0x01")
	assert.EqualError(t, err, "invalid length")

	_, err = ParseBytes32("1x" + BytesToBytes32([]byte{1}).String()[2:])
	assert.EqualError(t, err, "invalid prefix")

	assert.True(t, Bytes32{}.IsZero())
	assert.Panics(t, func() { MustParseBytes32("zz") })
}

func TestAddress(t *testing.T) {
	addr := BytesToAddress([]byte("Staker"))
	parsed, err := ParseAddress(addr.String())
	assert.NoError(t, err)
	assert.Equal(t, addr, parsed)

	parsed, err = ParseAddress(addr.String()[2:])
	assert.NoError(t, err)
	assert.Equal(t, addr, parsed)

	_, err = ParseAddress("0x1234")
	assert.EqualError(t, err, "invalid length")

	out, err := json.Marshal(map[string]Address{"a": addr})
	assert.NoError(t, err)
	assert.Equal(t, `{"a":"`+addr.String()+`"}`, string(out))

	var back map[string]Address
	assert.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, addr, back["a"])
	assert.False(t, addr.IsZero())
}
