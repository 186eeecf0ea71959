// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stakepool/thor"
)

type clauseBody struct {
	To     thor.Address
	Value  *big.Int
	Method string
	Data   []byte `rlp:"optional"`
}

// Clause is the basic execution unit: a named method call on a built-in
// contract, optionally carrying value.
type Clause struct {
	body clauseBody
}

// NewClause create a new clause instance.
func NewClause(to thor.Address) *Clause {
	return &Clause{
		clauseBody{
			to,
			&big.Int{},
			"",
			nil,
		},
	}
}

// WithValue create a new clause copy with value changed.
func (c *Clause) WithValue(value *big.Int) *Clause {
	newClause := *c
	newClause.body.Value = new(big.Int).Set(value)
	return &newClause
}

// WithMethod create a new clause copy with method changed.
func (c *Clause) WithMethod(method string) *Clause {
	newClause := *c
	newClause.body.Method = method
	return &newClause
}

// WithData create a new clause copy with the abi-encoded method arguments changed.
func (c *Clause) WithData(data []byte) *Clause {
	newClause := *c
	newClause.body.Data = append([]byte(nil), data...)
	return &newClause
}

// To returns 'To' address.
func (c *Clause) To() thor.Address {
	return c.body.To
}

// Value returns 'Value'.
func (c *Clause) Value() *big.Int {
	return new(big.Int).Set(c.body.Value)
}

// Method returns the name of the method to call.
func (c *Clause) Method() string {
	return c.body.Method
}

// Data returns the abi-encoded method arguments.
func (c *Clause) Data() []byte {
	return append([]byte(nil), c.body.Data...)
}

// ID computes the id of the clause sent by origin with the given nonce.
func (c *Clause) ID(origin thor.Address, nonce uint64) thor.Bytes32 {
	data, err := rlp.EncodeToBytes(&c.body)
	if err != nil {
		panic(err)
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], nonce)
	return thor.Blake2b(data, origin.Bytes(), b[:])
}

// EncodeRLP implements rlp.Encoder
func (c *Clause) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &c.body)
}

// DecodeRLP implements rlp.Decoder
func (c *Clause) DecodeRLP(s *rlp.Stream) error {
	var body clauseBody
	if err := s.Decode(&body); err != nil {
		return err
	}
	*c = Clause{body}
	return nil
}

func (c *Clause) String() string {
	return fmt.Sprintf(`
		(To:	%v
		 Value:	%v
		 Method:	%v
		 Data:	0x%x)`, c.body.To, c.body.Value, c.body.Method, c.body.Data)
}
