// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethmath "github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/stakepool/logdb"
	"github.com/vechain/stakepool/thor"
)

type RangeType string

const (
	BlockRangeType RangeType = "block"
	TimeRangeType  RangeType = "time"
)

type Range struct {
	Unit RangeType `json:"unit"`
	From *uint64   `json:"from,omitempty"`
	To   *uint64   `json:"to,omitempty"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type LogMeta struct {
	BlockNumber uint32       `json:"blockNumber"`
	BlockTime   uint64       `json:"blockTimestamp"`
	TxID        thor.Bytes32 `json:"txID"`
	TxOrigin    thor.Address `json:"txOrigin"`
	Index       uint32       `json:"logIndex"`
}

type TopicSet struct {
	Topic0 *thor.Bytes32 `json:"topic0"`
	Topic1 *thor.Bytes32 `json:"topic1"`
	Topic2 *thor.Bytes32 `json:"topic2"`
	Topic3 *thor.Bytes32 `json:"topic3"`
	Topic4 *thor.Bytes32 `json:"topic4"`
}

type EventCriteria struct {
	Address *thor.Address `json:"address"`
	TopicSet
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       logdb.Order      `json:"order"`
}

type TransferFilter struct {
	CriteriaSet []*logdb.TransferCriteria `json:"criteriaSet"`
	Range       *Range                    `json:"range"`
	Options     *Options                  `json:"options"`
	Order       logdb.Order               `json:"order"`
}

// FilteredEvent only comes from one event
type FilteredEvent struct {
	Address thor.Address   `json:"address"`
	Topics  []thor.Bytes32 `json:"topics"`
	Data    string         `json:"data"`
	Meta    LogMeta        `json:"meta"`
}

type FilteredTransfer struct {
	Sender    thor.Address             `json:"sender"`
	Recipient thor.Address             `json:"recipient"`
	Amount    *ethmath.HexOrDecimal256 `json:"amount"`
	Meta      LogMeta                  `json:"meta"`
}

// ConvertRange converts the json range, an absent bound is open.
func ConvertRange(r *Range) (*logdb.Range, error) {
	if r == nil {
		return nil, nil
	}
	var unit logdb.RangeType
	switch r.Unit {
	case BlockRangeType, "":
		unit = logdb.Block
	case TimeRangeType:
		unit = logdb.Time
	default:
		return nil, fmt.Errorf("range.unit: unsupported %q", r.Unit)
	}

	// sqlite integers are signed
	rng := &logdb.Range{Unit: unit, To: math.MaxInt64}
	if r.From != nil {
		rng.From = *r.From
	}
	if r.To != nil {
		rng.To = min(*r.To, math.MaxInt64)
	}
	if rng.From > rng.To {
		return nil, fmt.Errorf("range.to must be greater than or equal to range.from")
	}
	return rng, nil
}

func convertOptions(o *Options) *logdb.Options {
	if o == nil {
		return nil
	}
	return &logdb.Options{Offset: o.Offset, Limit: o.Limit}
}

func ConvertEventFilter(filter *EventFilter) (*logdb.EventFilter, error) {
	rng, err := ConvertRange(filter.Range)
	if err != nil {
		return nil, err
	}
	f := &logdb.EventFilter{
		Range:   rng,
		Options: convertOptions(filter.Options),
		Order:   filter.Order,
	}
	for _, c := range filter.CriteriaSet {
		f.CriteriaSet = append(f.CriteriaSet, &logdb.EventCriteria{
			Address: c.Address,
			Topics:  [5]*thor.Bytes32{c.Topic0, c.Topic1, c.Topic2, c.Topic3, c.Topic4},
		})
	}
	return f, nil
}

func ConvertTransferFilter(filter *TransferFilter) (*logdb.TransferFilter, error) {
	rng, err := ConvertRange(filter.Range)
	if err != nil {
		return nil, err
	}
	return &logdb.TransferFilter{
		CriteriaSet: filter.CriteriaSet,
		Range:       rng,
		Options:     convertOptions(filter.Options),
		Order:       filter.Order,
	}, nil
}

func ConvertFilteredEvent(e *logdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Address: e.Address,
		Data:    hexutil.Encode(e.Data),
		Topics:  make([]thor.Bytes32, 0, len(e.Topics)),
		Meta: LogMeta{
			BlockNumber: e.BlockNumber,
			BlockTime:   e.BlockTime,
			TxID:        e.TxID,
			TxOrigin:    e.TxOrigin,
			Index:       e.Index,
		},
	}
	for _, topic := range e.Topics {
		if topic != nil {
			fe.Topics = append(fe.Topics, *topic)
		}
	}
	return fe
}

func ConvertFilteredTransfer(t *logdb.Transfer) *FilteredTransfer {
	return &FilteredTransfer{
		Sender:    t.Sender,
		Recipient: t.Recipient,
		Amount:    Amount(t.Amount),
		Meta: LogMeta{
			BlockNumber: t.BlockNumber,
			BlockTime:   t.BlockTime,
			TxID:        t.TxID,
			TxOrigin:    t.TxOrigin,
			Index:       t.Index,
		},
	}
}
