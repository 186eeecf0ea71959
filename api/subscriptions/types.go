// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/vechain/stakepool/api/types"
	"github.com/vechain/stakepool/logdb"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

// msgReader turns a receipt into the messages of a subscription.
type msgReader func(r *tx.Receipt) []any

// ReceiptFilter matches receipts by origin.
type ReceiptFilter struct {
	Origin *thor.Address
}

func receiptReader(filter *ReceiptFilter) msgReader {
	return func(r *tx.Receipt) []any {
		if filter.Origin != nil && *filter.Origin != r.Origin {
			return nil
		}
		return []any{types.ConvertReceipt(r)}
	}
}

func matchEvent(c *logdb.EventCriteria, e *tx.Event) bool {
	if c.Address != nil && *c.Address != e.Address {
		return false
	}
	for i, topic := range c.Topics {
		if topic == nil {
			continue
		}
		if i >= len(e.Topics) || e.Topics[i] != *topic {
			return false
		}
	}
	return true
}

func eventReader(criteria *logdb.EventCriteria) msgReader {
	return func(r *tx.Receipt) []any {
		if r.Reverted {
			return nil
		}
		var msgs []any
		for i, e := range r.Events {
			if !matchEvent(criteria, e) {
				continue
			}
			msg := &types.FilteredEvent{
				Address: e.Address,
				Topics:  append([]thor.Bytes32(nil), e.Topics...),
				Data:    types.ConvertEvent(e).Data,
				Meta:    meta(r, i),
			}
			msgs = append(msgs, msg)
		}
		return msgs
	}
}

func matchTransfer(c *logdb.TransferCriteria, origin thor.Address, t *tx.Transfer) bool {
	if c.TxOrigin != nil && *c.TxOrigin != origin {
		return false
	}
	if c.Sender != nil && *c.Sender != t.Sender {
		return false
	}
	if c.Recipient != nil && *c.Recipient != t.Recipient {
		return false
	}
	return true
}

func transferReader(criteria *logdb.TransferCriteria) msgReader {
	return func(r *tx.Receipt) []any {
		if r.Reverted {
			return nil
		}
		var msgs []any
		for i, t := range r.Transfers {
			if !matchTransfer(criteria, r.Origin, t) {
				continue
			}
			msgs = append(msgs, &types.FilteredTransfer{
				Sender:    t.Sender,
				Recipient: t.Recipient,
				Amount:    types.Amount(t.Amount),
				Meta:      meta(r, i),
			})
		}
		return msgs
	}
}

func meta(r *tx.Receipt, index int) types.LogMeta {
	return types.LogMeta{
		BlockNumber: r.BlockNumber,
		BlockTime:   r.BlockTime,
		TxID:        r.ID,
		TxOrigin:    r.Origin,
		Index:       uint32(index),
	}
}
