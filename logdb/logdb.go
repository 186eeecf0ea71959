// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

var logger = log.WithContext("pkg", "logdb")

type LogDB struct {
	path          string
	db            *sql.DB
	stmtCache     *stmtCache
	driverVersion string
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// a memory database lives as long as its only connection
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(eventTableSchema + transferTableSchema); err != nil {
		return nil, errors.Wrap(err, "create tables")
	}

	driverVer, _, _ := sqlite3.Version()
	logger.Debug("log db opened", "path", path, "sqlite", driverVer)
	return &LogDB{
		path:          path,
		db:            db,
		stmtCache:     newStmtCache(db),
		driverVersion: driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// Prepare starts a batch of logs produced by the block with given number and time.
func (db *LogDB) Prepare(number uint32, time uint64) *BlockBatch {
	return &BlockBatch{
		db:     db,
		number: number,
		time:   time,
	}
}

func rangeCondition(r *Range) (string, []any) {
	if r == nil {
		return "", nil
	}
	column := "blockNumber"
	if r.Unit == Time {
		column = "blockTime"
	}
	cond := " AND " + column + " >= ?"
	args := []any{r.From}
	if r.To >= r.From {
		cond += " AND " + column + " <= ?"
		args = append(args, r.To)
	}
	return cond, args
}

func pageClause(opts *Options) (string, []any) {
	if opts == nil {
		return "", nil
	}
	return " LIMIT ?, ?", []any{opts.Offset, opts.Limit}
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	const selectEvents = "SELECT blockNumber, eventIndex, blockTime, txID, txOrigin, address, topic0, topic1, topic2, topic3, topic4, data FROM event"
	if filter == nil {
		return db.queryEvents(ctx, selectEvents+" ORDER BY blockNumber ASC, eventIndex ASC")
	}
	metricsHandleEventsFilter(filter)

	var (
		b    strings.Builder
		args []any
	)
	b.WriteString(selectEvents + " WHERE 1")

	cond, rangeArgs := rangeCondition(filter.Range)
	b.WriteString(cond)
	args = append(args, rangeArgs...)

	if len(filter.CriteriaSet) > 0 {
		b.WriteString(" AND (")
		for i, criteria := range filter.CriteriaSet {
			if i > 0 {
				b.WriteString(" OR ")
			}
			b.WriteString("(1")
			if criteria.Address != nil {
				b.WriteString(" AND address = ?")
				args = append(args, criteria.Address.Bytes())
			}
			for j, topic := range criteria.Topics {
				if topic != nil {
					fmt.Fprintf(&b, " AND topic%d = ?", j)
					args = append(args, topic.Bytes())
				}
			}
			b.WriteString(")")
		}
		b.WriteString(")")
	}

	if filter.Order == DESC {
		b.WriteString(" ORDER BY blockNumber DESC, eventIndex DESC")
	} else {
		b.WriteString(" ORDER BY blockNumber ASC, eventIndex ASC")
	}

	page, pageArgs := pageClause(filter.Options)
	b.WriteString(page)
	args = append(args, pageArgs...)

	return db.queryEvents(ctx, b.String(), args...)
}

func (db *LogDB) FilterTransfers(ctx context.Context, filter *TransferFilter) ([]*Transfer, error) {
	const selectTransfers = "SELECT blockNumber, transferIndex, blockTime, txID, txOrigin, sender, recipient, amount FROM transfer"
	if filter == nil {
		return db.queryTransfers(ctx, selectTransfers+" ORDER BY blockNumber ASC, transferIndex ASC")
	}
	metricsHandleCommon(filter.Options, filter.Order, len(filter.CriteriaSet), "transfer")

	var (
		b    strings.Builder
		args []any
	)
	b.WriteString(selectTransfers + " WHERE 1")

	cond, rangeArgs := rangeCondition(filter.Range)
	b.WriteString(cond)
	args = append(args, rangeArgs...)

	if filter.TxID != nil {
		b.WriteString(" AND txID = ?")
		args = append(args, filter.TxID.Bytes())
	}

	if len(filter.CriteriaSet) > 0 {
		b.WriteString(" AND (")
		for i, criteria := range filter.CriteriaSet {
			if i > 0 {
				b.WriteString(" OR ")
			}
			b.WriteString("(1")
			if criteria.TxOrigin != nil {
				b.WriteString(" AND txOrigin = ?")
				args = append(args, criteria.TxOrigin.Bytes())
			}
			if criteria.Sender != nil {
				b.WriteString(" AND sender = ?")
				args = append(args, criteria.Sender.Bytes())
			}
			if criteria.Recipient != nil {
				b.WriteString(" AND recipient = ?")
				args = append(args, criteria.Recipient.Bytes())
			}
			b.WriteString(")")
		}
		b.WriteString(")")
	}

	if filter.Order == DESC {
		b.WriteString(" ORDER BY blockNumber DESC, transferIndex DESC")
	} else {
		b.WriteString(" ORDER BY blockNumber ASC, transferIndex ASC")
	}

	page, pageArgs := pageClause(filter.Options)
	b.WriteString(page)
	args = append(args, pageArgs...)

	return db.queryTransfers(ctx, b.String(), args...)
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var (
			blockNumber uint32
			index       uint32
			blockTime   uint64
			txID        []byte
			txOrigin    []byte
			address     []byte
			topics      [5][]byte
			data        []byte
		)
		if err := rows.Scan(
			&blockNumber,
			&index,
			&blockTime,
			&txID,
			&txOrigin,
			&address,
			&topics[0],
			&topics[1],
			&topics[2],
			&topics[3],
			&topics[4],
			&data,
		); err != nil {
			return nil, err
		}
		event := &Event{
			BlockNumber: blockNumber,
			Index:       index,
			BlockTime:   blockTime,
			TxID:        thor.BytesToBytes32(txID),
			TxOrigin:    thor.BytesToAddress(txOrigin),
			Address:     thor.BytesToAddress(address),
			Data:        data,
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				h := thor.BytesToBytes32(topic)
				event.Topics[i] = &h
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *LogDB) queryTransfers(ctx context.Context, query string, args ...any) ([]*Transfer, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*Transfer
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var (
			blockNumber uint32
			index       uint32
			blockTime   uint64
			txID        []byte
			txOrigin    []byte
			sender      []byte
			recipient   []byte
			amount      []byte
		)
		if err := rows.Scan(
			&blockNumber,
			&index,
			&blockTime,
			&txID,
			&txOrigin,
			&sender,
			&recipient,
			&amount,
		); err != nil {
			return nil, err
		}
		transfers = append(transfers, &Transfer{
			BlockNumber: blockNumber,
			Index:       index,
			BlockTime:   blockTime,
			TxID:        thor.BytesToBytes32(txID),
			TxOrigin:    thor.BytesToAddress(txOrigin),
			Sender:      thor.BytesToAddress(sender),
			Recipient:   thor.BytesToAddress(recipient),
			Amount:      new(big.Int).SetBytes(amount),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

func topicValue(topic *thor.Bytes32) []byte {
	if topic == nil {
		return nil
	}
	return topic.Bytes()
}

// BlockBatch collects logs of one block and writes them in a single sql transaction.
type BlockBatch struct {
	db        *LogDB
	number    uint32
	time      uint64
	events    []*Event
	transfers []*Transfer
}

// TxInserter appends logs of a single transaction to the batch.
type TxInserter struct {
	bb       *BlockBatch
	txID     thor.Bytes32
	txOrigin thor.Address
}

func (bb *BlockBatch) ForTransaction(txID thor.Bytes32, txOrigin thor.Address) *TxInserter {
	return &TxInserter{bb, txID, txOrigin}
}

func (ti *TxInserter) Insert(events tx.Events, transfers tx.Transfers) *BlockBatch {
	bb := ti.bb
	for _, event := range events {
		bb.events = append(bb.events, newEvent(bb.number, bb.time, uint32(len(bb.events)), ti.txID, ti.txOrigin, event))
	}
	for _, transfer := range transfers {
		bb.transfers = append(bb.transfers, newTransfer(bb.number, bb.time, uint32(len(bb.transfers)), ti.txID, ti.txOrigin, transfer))
	}
	return bb
}

// Len returns the count of pending events and transfers.
func (bb *BlockBatch) Len() int {
	return len(bb.events) + len(bb.transfers)
}

func (bb *BlockBatch) execInTx(proc func(*sql.Tx) error) error {
	tx, err := bb.db.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (bb *BlockBatch) Commit() error {
	if bb.Len() == 0 {
		return nil
	}
	eventStmt, err := bb.db.stmtCache.Prepare(insertEventStmt)
	if err != nil {
		return err
	}
	transferStmt, err := bb.db.stmtCache.Prepare(insertTransferStmt)
	if err != nil {
		return err
	}

	return bb.execInTx(func(sqlTx *sql.Tx) error {
		insertEvent := sqlTx.Stmt(eventStmt)
		for _, event := range bb.events {
			if _, err := insertEvent.Exec(
				event.BlockNumber,
				event.Index,
				event.BlockTime,
				event.TxID.Bytes(),
				event.TxOrigin.Bytes(),
				event.Address.Bytes(),
				topicValue(event.Topics[0]),
				topicValue(event.Topics[1]),
				topicValue(event.Topics[2]),
				topicValue(event.Topics[3]),
				topicValue(event.Topics[4]),
				event.Data,
			); err != nil {
				return errors.Wrap(err, "insert event")
			}
		}

		insertTransfer := sqlTx.Stmt(transferStmt)
		for _, transfer := range bb.transfers {
			if _, err := insertTransfer.Exec(
				transfer.BlockNumber,
				transfer.Index,
				transfer.BlockTime,
				transfer.TxID.Bytes(),
				transfer.TxOrigin.Bytes(),
				transfer.Sender.Bytes(),
				transfer.Recipient.Bytes(),
				transfer.Amount.Bytes(),
			); err != nil {
				return errors.Wrap(err, "insert transfer")
			}
		}
		return nil
	})
}
