// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
)

// errorSelector is the 4-byte selector for Error(string).
var errorSelector = []byte{0x08, 0xc3, 0x79, 0xa0}

var errorArgs = func() ethabi.Arguments {
	typ, err := ethabi.NewType("string", "", nil)
	if err != nil {
		panic(err)
	}
	return ethabi.Arguments{{Type: typ}}
}()

type ErrRequire struct {
	message string
}

func NewRequireError(message string) *ErrRequire {
	return &ErrRequire{
		message: message,
	}
}

func (e *ErrRequire) Error() string {
	return e.message
}

func (e *ErrRequire) Bytes() []byte {
	if e == nil {
		return nil
	}
	return Encode(e.message)
}

// Encode abi-encodes the message as a solidity Error(string).
func Encode(message string) []byte {
	data, err := errorArgs.Pack(message)
	if err != nil {
		panic(err)
	}
	return append(append([]byte{}, errorSelector...), data...)
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRequire
	if errors.As(e, &ve) {
		return ve != nil
	}
	return false
}
