// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wsclient

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vechain/stakepool/api/types"
	"github.com/vechain/stakepool/client/common"
)

type Client struct {
	host   string
	scheme string
}

// Subscription is used to handle the active subscription
type Subscription[T any] struct {
	EventChan   <-chan common.EventWrapper[T]
	Unsubscribe func() error
}

func NewClient(url string) (*Client, error) {
	var host string
	var scheme string

	if strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "wss://") {
		host = strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "wss://")
		scheme = "wss"
	} else if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "ws://") {
		host = strings.TrimPrefix(strings.TrimPrefix(url, "http://"), "ws://")
		scheme = "ws"
	} else {
		return nil, fmt.Errorf("invalid url")
	}

	return &Client{
		host:   strings.TrimSuffix(host, "/"),
		scheme: scheme,
	}, nil
}

// SubscribeReceipts streams receipts, query may filter by origin.
func (c *Client) SubscribeReceipts(query string) (*Subscription[*types.Receipt], error) {
	conn, err := c.connect("/subscriptions/receipt", query)
	if err != nil {
		return nil, fmt.Errorf("unable to connect - %w", err)
	}
	return subscribe[types.Receipt](conn), nil
}

func (c *Client) SubscribeEvents(query string) (*Subscription[*types.FilteredEvent], error) {
	conn, err := c.connect("/subscriptions/event", query)
	if err != nil {
		return nil, fmt.Errorf("unable to connect - %w", err)
	}
	return subscribe[types.FilteredEvent](conn), nil
}

func (c *Client) SubscribeTransfers(query string) (*Subscription[*types.FilteredTransfer], error) {
	conn, err := c.connect("/subscriptions/transfer", query)
	if err != nil {
		return nil, fmt.Errorf("unable to connect - %w", err)
	}
	return subscribe[types.FilteredTransfer](conn), nil
}

// subscribe reads json messages of type T until the connection fails or is closed.
// The last message on the channel carries the error that ended the subscription.
func subscribe[T any](conn *websocket.Conn) *Subscription[*T] {
	eventChan := make(chan common.EventWrapper[*T])
	done := make(chan struct{})

	go func() {
		defer close(eventChan)

		for {
			var data T
			if err := conn.ReadJSON(&data); err != nil {
				select {
				case eventChan <- common.EventWrapper[*T]{Error: fmt.Errorf("%w: %w", common.ErrUnexpectedMsg, err)}:
				case <-done:
				}
				return
			}
			select {
			case eventChan <- common.EventWrapper[*T]{Data: &data}:
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return &Subscription[*T]{
		EventChan: eventChan,
		Unsubscribe: func() (err error) {
			once.Do(func() {
				close(done)
				err = conn.Close()
			})
			return
		},
	}
}

func (c *Client) connect(endpoint, rawQuery string) (*websocket.Conn, error) {
	u := url.URL{
		Scheme:   c.scheme,
		Host:     c.host,
		Path:     endpoint,
		RawQuery: rawQuery,
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
