// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/types"
	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/chain"
	"github.com/vechain/stakepool/tx"
)

type Staker struct {
	chain *chain.Chain
}

func New(chain *chain.Chain) *Staker {
	return &Staker{chain}
}

func (s *Staker) handleGetPool(w http.ResponseWriter, _ *http.Request) error {
	info, err := s.chain.Staker()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertPool(builtin.Staker.Address, info))
}

func (s *Staker) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}
	balance, err := s.chain.StakedBalance(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{types.Amount(balance)})
}

func (s *Staker) handleGetTimeLeft(w http.ResponseWriter, _ *http.Request) error {
	left, err := s.chain.TimeLeft()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &TimeLeft{left})
}

// sendHandler returns the handler calling method on behalf of the request caller.
// A reverted call is still a successful request, the receipt tells the outcome.
func (s *Staker) sendHandler(method string, payable bool) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		var body Request
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		if body.Caller.IsZero() {
			return utils.BadRequest(errors.New("caller: required"))
		}

		clause := tx.NewClause(builtin.Staker.Address).WithMethod(method)
		if body.Value != nil {
			if !payable {
				return utils.BadRequest(errors.Errorf("value: %s does not accept value", method))
			}
			value := (*big.Int)(body.Value)
			if value.Sign() < 0 {
				return utils.BadRequest(errors.New("value: negative"))
			}
			clause = clause.WithValue(value)
		}

		receipt, err := s.chain.Send(req.Context(), clause, body.Caller)
		if err != nil {
			return err
		}
		return utils.WriteJSON(w, types.ConvertReceipt(receipt))
	}
}

func (s *Staker) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("staker_get_pool").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetPool))
	sub.Path("/balances/{address}").
		Methods(http.MethodGet).
		Name("staker_get_balance").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetBalance))
	sub.Path("/time-left").
		Methods(http.MethodGet).
		Name("staker_get_time_left").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetTimeLeft))
	sub.Path("/stake").
		Methods(http.MethodPost).
		Name("staker_stake").
		HandlerFunc(utils.WrapHandlerFunc(s.sendHandler("stake", true)))
	sub.Path("/execute").
		Methods(http.MethodPost).
		Name("staker_execute").
		HandlerFunc(utils.WrapHandlerFunc(s.sendHandler("execute", false)))
	sub.Path("/withdraw").
		Methods(http.MethodPost).
		Name("staker_withdraw").
		HandlerFunc(utils.WrapHandlerFunc(s.sendHandler("withdraw", false)))
}
