// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/chain"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/logdb"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	receiptBufferSize = 64
)

type Subscriptions struct {
	chain    *chain.Chain
	upgrader *websocket.Upgrader
	done     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

func New(chain *chain.Chain, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		chain: chain,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

func parseAddressQuery(req *http.Request, key string) (*thor.Address, error) {
	s := req.URL.Query().Get(key)
	if s == "" {
		return nil, nil
	}
	addr, err := thor.ParseAddress(s)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, key))
	}
	return &addr, nil
}

func parseTopicQuery(req *http.Request, key string) (*thor.Bytes32, error) {
	s := req.URL.Query().Get(key)
	if s == "" {
		return nil, nil
	}
	topic, err := thor.ParseBytes32(s)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, key))
	}
	return &topic, nil
}

func (s *Subscriptions) handleSubscribeReceipt(w http.ResponseWriter, req *http.Request) error {
	origin, err := parseAddressQuery(req, "origin")
	if err != nil {
		return err
	}
	return s.serve(w, req, receiptReader(&ReceiptFilter{Origin: origin}))
}

func (s *Subscriptions) handleSubscribeEvent(w http.ResponseWriter, req *http.Request) error {
	var (
		criteria logdb.EventCriteria
		err      error
	)
	if criteria.Address, err = parseAddressQuery(req, "addr"); err != nil {
		return err
	}
	for i := range criteria.Topics {
		if criteria.Topics[i], err = parseTopicQuery(req, "t"+strconv.Itoa(i)); err != nil {
			return err
		}
	}
	return s.serve(w, req, eventReader(&criteria))
}

func (s *Subscriptions) handleSubscribeTransfer(w http.ResponseWriter, req *http.Request) error {
	var (
		criteria logdb.TransferCriteria
		err      error
	)
	if criteria.TxOrigin, err = parseAddressQuery(req, "txOrigin"); err != nil {
		return err
	}
	if criteria.Sender, err = parseAddressQuery(req, "sender"); err != nil {
		return err
	}
	if criteria.Recipient, err = parseAddressQuery(req, "recipient"); err != nil {
		return err
	}
	return s.serve(w, req, transferReader(&criteria))
}

// serve upgrades the connection and streams messages until either side quits.
func (s *Subscriptions) serve(w http.ResponseWriter, req *http.Request, reader msgReader) error {
	s.wg.Add(1)
	defer s.wg.Done()

	conn, closed, err := s.setupConn(w, req)
	if err != nil {
		// the upgrader has already replied
		logger.Debug("upgrade websocket", "err", err)
		return nil
	}
	err = s.pipe(conn, reader, closed)
	s.closeConn(conn, err)
	return nil
}

func (s *Subscriptions) setupConn(w http.ResponseWriter, req *http.Request) (*websocket.Conn, chan struct{}, error) {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return nil, nil, err
	}

	closed := make(chan struct{})
	// read loop to handle pong and close frames
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(closed)

		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket read err", "err", err)
				return
			}
		}
	}()
	return conn, closed, nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, reader msgReader, closed chan struct{}) error {
	ch := make(chan *tx.Receipt, receiptBufferSize)
	sub := s.chain.SubscribeReceipt(ch)
	defer sub.Unsubscribe()

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case err := <-sub.Err():
			return err
		case receipt := <-ch:
			for _, msg := range reader(receipt) {
				if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					return err
				}
				if err := conn.WriteJSON(msg); err != nil {
					return err
				}
			}
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

func (s *Subscriptions) closeConn(conn *websocket.Conn, err error) {
	var closeMsg []byte
	if err != nil {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
	} else {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	}
	if err := conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(writeWait)); err != nil {
		logger.Debug("write close message", "err", err)
	}
	if err := conn.Close(); err != nil {
		logger.Debug("close websocket", "err", err)
	}
}

// Close stops all subscriptions and waits for connections to be released.
func (s *Subscriptions) Close() {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/receipt").
		Methods(http.MethodGet).
		Name("subscriptions_receipt").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeReceipt))
	sub.Path("/event").
		Methods(http.MethodGet).
		Name("subscriptions_event").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvent))
	sub.Path("/transfer").
		Methods(http.MethodGet).
		Name("subscriptions_transfer").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeTransfer))
}
