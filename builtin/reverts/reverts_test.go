// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/vechain/stakepool/abi"
)

func TestRequireError(t *testing.T) {
	err := NewRequireError("revert reason")
	assert.Equal(t, "revert reason", err.Error())
	assert.Equal(t,
		"08c379a00000000000000000000000000000000000000000000000000000000000000020000000000000000000000000000000000000000000000000000000000000000d72657665727420726561736f6e00000000000000000000000000000000000000",
		common.Bytes2Hex(err.Bytes()))

	reason, unpackErr := abi.UnpackRevert(err.Bytes())
	assert.NoError(t, unpackErr)
	assert.Equal(t, "revert reason", reason)

	var nilErr *ErrRequire
	assert.Nil(t, nilErr.Bytes())

	assert.True(t, IsRevertErr(err))
	assert.True(t, IsRevertErr(errors.WithMessage(err, "wrapped")))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(42))
}
