// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/abi"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/xenv"
)

type addressAndMethod struct {
	thor.Address
	string
}

var nativeMethods = make(map[addressAndMethod]*NativeMethod)

// NativeMethod describes a native method of a built-in contract.
type NativeMethod struct {
	method *abi.Method
	run    func(env *xenv.Environment) ([]any, error)
}

// ABI returns the abi definition of the method.
func (n *NativeMethod) ABI() *abi.Method {
	return n.method
}

// Run invokes the method and abi-encodes its outputs.
func (n *NativeMethod) Run(env *xenv.Environment) ([]byte, error) {
	out, err := n.run(env)
	if err != nil {
		return nil, err
	}
	data, err := n.method.EncodeOutput(out...)
	if err != nil {
		return nil, errors.WithMessage(err, "encode native output")
	}
	return data, nil
}

// Lookup finds the native method of contract at address 'to' by name.
func Lookup(to thor.Address, name string) (*NativeMethod, bool) {
	m, ok := nativeMethods[addressAndMethod{to, name}]
	return m, ok
}

func register(c *contract, defines []nativeDefine) {
	for _, def := range defines {
		method, found := c.ABI.MethodByName(def.name)
		if !found {
			panic(fmt.Sprintf("method %s not found in %s", def.name, c.name))
		}
		nativeMethods[addressAndMethod{c.Address, def.name}] = &NativeMethod{
			method: method,
			run:    def.run,
		}
	}
}

type nativeDefine struct {
	name string
	run  func(env *xenv.Environment) ([]any, error)
}

func addressTopic(addr thor.Address) thor.Bytes32 {
	return thor.BytesToBytes32(addr.Bytes())
}
