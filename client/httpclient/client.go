// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpclient provides an HTTP client to interact with a stakepool node.
// It offers methods to read the pool, send calls on behalf of a caller, filter logs
// and move the clock of a node running in manual clock mode.
package httpclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/vechain/stakepool/api/accounts"
	"github.com/vechain/stakepool/api/beneficiary"
	"github.com/vechain/stakepool/api/debug"
	"github.com/vechain/stakepool/api/node"
	"github.com/vechain/stakepool/api/staker"
	"github.com/vechain/stakepool/api/types"
	"github.com/vechain/stakepool/thor"
)

// Client represents the HTTP client for interacting with a stakepool node.
type Client struct {
	url string
	c   *http.Client
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: strings.TrimSuffix(url, "/"),
		c:   c,
	}
}

func get[T any](c *Client, path, what string) (*T, error) {
	body, err := c.httpGET(c.url + path)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve %s - %w", what, err)
	}
	var res T
	if err = json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("unable to unmarshal %s - %w", what, err)
	}
	return &res, nil
}

func post[T any](c *Client, path string, payload any, what string) (*T, error) {
	body, err := c.httpPOST(c.url+path, payload)
	if err != nil {
		return nil, fmt.Errorf("unable to request %s - %w", what, err)
	}
	var res T
	if err = json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("unable to unmarshal %s - %w", what, err)
	}
	return &res, nil
}

// GetAccount retrieves the balance of the given address.
func (c *Client) GetAccount(addr *thor.Address) (*accounts.Account, error) {
	return get[accounts.Account](c, "/accounts/"+addr.String(), "account")
}

// InspectClauses runs clauses against the latest state without committing them.
func (c *Client) InspectClauses(calldata *accounts.CallData) ([]*accounts.CallResult, error) {
	res, err := post[[]*accounts.CallResult](c, "/accounts/*", calldata, "inspect clauses")
	if err != nil {
		return nil, err
	}
	return *res, nil
}

// GetPool retrieves the pool status.
func (c *Client) GetPool() (*staker.Pool, error) {
	return get[staker.Pool](c, "/staker", "pool")
}

// GetStakedBalance retrieves the amount staked by the given address.
func (c *Client) GetStakedBalance(addr *thor.Address) (*staker.Balance, error) {
	return get[staker.Balance](c, "/staker/balances/"+addr.String(), "staked balance")
}

func (c *Client) GetTimeLeft() (*staker.TimeLeft, error) {
	return get[staker.TimeLeft](c, "/staker/time-left", "time left")
}

// SendStaker calls one of the staker write methods. A reverted call is not an error,
// the receipt carries the reason.
func (c *Client) SendStaker(method string, req *staker.Request) (*types.Receipt, error) {
	return post[types.Receipt](c, "/staker/"+method, req, method)
}

func (c *Client) GetBeneficiary() (*beneficiary.Beneficiary, error) {
	return get[beneficiary.Beneficiary](c, "/beneficiary", "beneficiary")
}

// GetReceipt retrieves a receipt by its id.
func (c *Client) GetReceipt(id *thor.Bytes32) (*types.Receipt, error) {
	return get[types.Receipt](c, "/receipts/"+id.String(), "receipt")
}

// FilterEvents filters events based on the provided event filter.
func (c *Client) FilterEvents(req *types.EventFilter) ([]*types.FilteredEvent, error) {
	res, err := post[[]*types.FilteredEvent](c, "/logs/event", req, "filtered events")
	if err != nil {
		return nil, err
	}
	return *res, nil
}

// FilterTransfers filters transfers based on the provided transfer filter.
func (c *Client) FilterTransfers(req *types.TransferFilter) ([]*types.FilteredTransfer, error) {
	res, err := post[[]*types.FilteredTransfer](c, "/logs/transfer", req, "filtered transfers")
	if err != nil {
		return nil, err
	}
	return *res, nil
}

func (c *Client) GetHead() (*node.Head, error) {
	return get[node.Head](c, "/node/head", "head")
}

func (c *Client) GetNodeInfo() (*node.Info, error) {
	return get[node.Info](c, "/node/info", "node info")
}

func (c *Client) GetTime() (*debug.Time, error) {
	return get[debug.Time](c, "/debug/time", "time")
}

// SetTime moves the clock of a node running with a manual clock.
func (c *Client) SetTime(opt *debug.TimeOption) (*debug.Time, error) {
	return post[debug.Time](c, "/debug/time", opt, "set time")
}
