// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package client talks to a running stakepool node over its REST and websocket APIs.
package client

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/stakepool/api/accounts"
	"github.com/vechain/stakepool/api/beneficiary"
	"github.com/vechain/stakepool/api/debug"
	"github.com/vechain/stakepool/api/node"
	"github.com/vechain/stakepool/api/staker"
	"github.com/vechain/stakepool/api/types"
	"github.com/vechain/stakepool/client/httpclient"
	"github.com/vechain/stakepool/client/wsclient"
	"github.com/vechain/stakepool/thor"
)

type Client struct {
	httpConn *httpclient.Client
	wsConn   *wsclient.Client
}

func New(url string) *Client {
	return &Client{
		httpConn: httpclient.New(url),
	}
}

func NewWithWS(url string) (*Client, error) {
	wsClient, err := wsclient.NewClient(url)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpConn: httpclient.New(url),
		wsConn:   wsClient,
	}, nil
}

// RawHTTPClient returns the underlying http client.
func (c *Client) RawHTTPClient() *httpclient.Client {
	return c.httpConn
}

// RawWSClient returns the underlying websocket client, nil unless created by NewWithWS.
func (c *Client) RawWSClient() *wsclient.Client {
	return c.wsConn
}

// Staker returns the pool status.
func (c *Client) Staker() (*staker.Pool, error) {
	return c.httpConn.GetPool()
}

// TimeLeft returns the seconds left before the deadline.
func (c *Client) TimeLeft() (uint64, error) {
	res, err := c.httpConn.GetTimeLeft()
	if err != nil {
		return 0, err
	}
	return res.TimeLeft, nil
}

// StakedBalance returns the amount staked by addr.
func (c *Client) StakedBalance(addr thor.Address) (*big.Int, error) {
	res, err := c.httpConn.GetStakedBalance(&addr)
	if err != nil {
		return nil, err
	}
	return amount(res.Balance), nil
}

// Stake deposits value on behalf of caller.
func (c *Client) Stake(caller thor.Address, value *big.Int) (*types.Receipt, error) {
	req := &staker.Request{Caller: caller}
	if value != nil {
		req.Value = types.Amount(value)
	}
	return c.httpConn.SendStaker("stake", req)
}

func (c *Client) Execute(caller thor.Address) (*types.Receipt, error) {
	return c.httpConn.SendStaker("execute", &staker.Request{Caller: caller})
}

func (c *Client) Withdraw(caller thor.Address) (*types.Receipt, error) {
	return c.httpConn.SendStaker("withdraw", &staker.Request{Caller: caller})
}

// AdvanceTime moves a manual clock forward and returns the new chain time.
func (c *Client) AdvanceTime(seconds uint64) (uint64, error) {
	res, err := c.httpConn.SetTime(&debug.TimeOption{Advance: &seconds})
	if err != nil {
		return 0, err
	}
	return res.Now, nil
}

// Account returns the balance held by addr.
func (c *Client) Account(addr thor.Address) (*big.Int, error) {
	res, err := c.httpConn.GetAccount(&addr)
	if err != nil {
		return nil, err
	}
	return amount(res.Balance), nil
}

func (c *Client) InspectClauses(calldata *accounts.CallData) ([]*accounts.CallResult, error) {
	return c.httpConn.InspectClauses(calldata)
}

func (c *Client) Beneficiary() (*beneficiary.Beneficiary, error) {
	return c.httpConn.GetBeneficiary()
}

func (c *Client) Head() (*node.Head, error) {
	return c.httpConn.GetHead()
}

func (c *Client) NodeInfo() (*node.Info, error) {
	return c.httpConn.GetNodeInfo()
}

func (c *Client) Receipt(id thor.Bytes32) (*types.Receipt, error) {
	return c.httpConn.GetReceipt(&id)
}

func (c *Client) FilterEvents(req *types.EventFilter) ([]*types.FilteredEvent, error) {
	return c.httpConn.FilterEvents(req)
}

func (c *Client) FilterTransfers(req *types.TransferFilter) ([]*types.FilteredTransfer, error) {
	return c.httpConn.FilterTransfers(req)
}

// SubscribeReceipts streams receipts sent by origin, or all receipts when origin is nil.
func (c *Client) SubscribeReceipts(origin *thor.Address) (*wsclient.Subscription[*types.Receipt], error) {
	if c.wsConn == nil {
		return nil, fmt.Errorf("not a websocket typed client")
	}
	query := ""
	if origin != nil {
		query = "origin=" + origin.String()
	}
	return c.wsConn.SubscribeReceipts(query)
}

func amount(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set((*big.Int)(v))
}
