// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package types holds JSON representations shared by the api packages.
package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/stakepool/builtin/reverts"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

// Clause for json marshal
type Clause struct {
	To     thor.Address          `json:"to"`
	Value  *math.HexOrDecimal256 `json:"value"`
	Method string                `json:"method"`
	// Data is the abi-encoded method arguments.
	Data hexutil.Bytes `json:"data,omitempty"`
}

// ConvertClause convert a raw clause into a json format clause
func ConvertClause(c *tx.Clause) *Clause {
	return &Clause{
		To:     c.To(),
		Value:  (*math.HexOrDecimal256)(c.Value()),
		Method: c.Method(),
		Data:   c.Data(),
	}
}

// ToClause builds the raw clause.
func (c *Clause) ToClause() *tx.Clause {
	clause := tx.NewClause(c.To).WithMethod(c.Method)
	if c.Value != nil {
		clause = clause.WithValue((*big.Int)(c.Value))
	}
	if len(c.Data) > 0 {
		clause = clause.WithData(c.Data)
	}
	return clause
}

// Event event.
type Event struct {
	Address thor.Address   `json:"address"`
	Topics  []thor.Bytes32 `json:"topics"`
	Data    string         `json:"data"`
}

func ConvertEvent(e *tx.Event) *Event {
	topics := make([]thor.Bytes32, len(e.Topics))
	copy(topics, e.Topics)
	return &Event{
		Address: e.Address,
		Topics:  topics,
		Data:    hexutil.Encode(e.Data),
	}
}

// Transfer transfer.
type Transfer struct {
	Sender    thor.Address          `json:"sender"`
	Recipient thor.Address          `json:"recipient"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
}

func ConvertTransfer(t *tx.Transfer) *Transfer {
	return &Transfer{
		Sender:    t.Sender,
		Recipient: t.Recipient,
		Amount:    (*math.HexOrDecimal256)(new(big.Int).Set(t.Amount)),
	}
}

// Receipt for json marshal
type Receipt struct {
	ID           thor.Bytes32 `json:"id"`
	BlockNumber  uint32       `json:"blockNumber"`
	BlockTime    uint64       `json:"blockTime"`
	Origin       thor.Address `json:"origin"`
	Clause       *Clause      `json:"clause,omitempty"`
	Reverted     bool         `json:"reverted"`
	RevertReason string       `json:"revertReason,omitempty"`
	// RevertData is the reason encoded as Error(string).
	RevertData string      `json:"revertData,omitempty"`
	Events     []*Event    `json:"events"`
	Transfers  []*Transfer `json:"transfers"`
}

// ConvertReceipt convert a raw receipt into a json format receipt
func ConvertReceipt(r *tx.Receipt) *Receipt {
	receipt := &Receipt{
		ID:           r.ID,
		BlockNumber:  r.BlockNumber,
		BlockTime:    r.BlockTime,
		Origin:       r.Origin,
		Reverted:     r.Reverted,
		RevertReason: r.RevertReason,
		Events:       make([]*Event, 0, len(r.Events)),
		Transfers:    make([]*Transfer, 0, len(r.Transfers)),
	}
	if r.Clause != nil {
		receipt.Clause = ConvertClause(r.Clause)
	}
	if r.Reverted && r.RevertReason != "" {
		receipt.RevertData = hexutil.Encode(reverts.Encode(r.RevertReason))
	}
	for _, e := range r.Events {
		receipt.Events = append(receipt.Events, ConvertEvent(e))
	}
	for _, t := range r.Transfers {
		receipt.Transfers = append(receipt.Transfers, ConvertTransfer(t))
	}
	return receipt
}

// Amount converts wei into its json form.
func Amount(wei *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(new(big.Int).Set(wei))
}
