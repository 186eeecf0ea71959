// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"bytes"
	"errors"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
)

// MethodID method id.
type MethodID [4]byte

// Method see abi.Method in go-ethereum.
type Method struct {
	id     MethodID
	method *ethabi.Method
}

func newMethod(method *ethabi.Method) *Method {
	var id MethodID
	copy(id[:], method.ID)
	return &Method{id, method}
}

// ID returns method id.
func (m *Method) ID() MethodID {
	return m.id
}

// Name returns method name.
func (m *Method) Name() string {
	return m.method.Name
}

// Const returns if the method is const.
func (m *Method) Const() bool {
	return m.method.IsConstant()
}

// Payable returns if the method accepts value.
func (m *Method) Payable() bool {
	return m.method.IsPayable()
}

// EncodeInput encode args to data, and the data is prefixed with method id.
func (m *Method) EncodeInput(args ...any) ([]byte, error) {
	data, err := m.method.Inputs.Pack(args...)
	if err != nil {
		return nil, err
	}
	return append(m.id[:], data...), nil
}

// DecodeInput decode input data into args.
func (m *Method) DecodeInput(input []byte, v any) error {
	if !bytes.HasPrefix(input, m.id[:]) {
		return errors.New("input has incorrect prefix")
	}
	return unpackInto(m.method.Inputs, v, input[4:])
}

// EncodeArgs encodes args without the method id prefix.
func (m *Method) EncodeArgs(args ...any) ([]byte, error) {
	return m.method.Inputs.Pack(args...)
}

// DecodeArgs decodes args encoded by EncodeArgs.
func (m *Method) DecodeArgs(data []byte, v any) error {
	return unpackInto(m.method.Inputs, v, data)
}

// EncodeOutput encode output args to data.
func (m *Method) EncodeOutput(args ...any) ([]byte, error) {
	return m.method.Outputs.Pack(args...)
}

// DecodeOutput decode output data.
func (m *Method) DecodeOutput(output []byte, v any) error {
	return unpackInto(m.method.Outputs, v, output)
}

// unpackInto decodes data and copies the values into v, a pointer to a struct or to a single value.
func unpackInto(args ethabi.Arguments, v any, data []byte) error {
	vals, err := args.Unpack(data)
	if err != nil {
		return err
	}
	return args.Copy(v, vals)
}
