// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/types"
	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/chain"
	"github.com/vechain/stakepool/thor"
)

// maxClauses limits clauses inspected per request.
const maxClauses = 32

type Accounts struct {
	chain *chain.Chain
}

func New(chain *chain.Chain) *Accounts {
	return &Accounts{chain}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}
	balance, err := a.chain.Balance(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{Balance: types.Amount(balance)})
}

// handleInspectClauses executes clauses against the latest state without committing anything.
func (a *Accounts) handleInspectClauses(w http.ResponseWriter, req *http.Request) error {
	var callData CallData
	if err := utils.ParseJSON(req.Body, &callData); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if len(callData.Clauses) == 0 {
		return utils.BadRequest(errors.New("clauses: empty"))
	}
	if len(callData.Clauses) > maxClauses {
		return utils.Forbidden(errors.Errorf("clauses: exceeds limit %d", maxClauses))
	}
	var caller thor.Address
	if callData.Caller != nil {
		caller = *callData.Caller
	}

	results := make([]*CallResult, 0, len(callData.Clauses))
	for i, c := range callData.Clauses {
		if c == nil {
			return utils.BadRequest(errors.Errorf("clauses[%d]: null", i))
		}
		out, err := a.chain.Call(c.ToClause(), caller)
		if err != nil {
			return err
		}
		result := &CallResult{
			Data:         hexutil.Encode(out.Data),
			Events:       make([]*types.Event, 0, len(out.Events)),
			Transfers:    make([]*types.Transfer, 0, len(out.Transfers)),
			Reverted:     out.Reverted,
			RevertReason: out.RevertReason,
		}
		for _, e := range out.Events {
			result.Events = append(result.Events, types.ConvertEvent(e))
		}
		for _, t := range out.Transfers {
			result.Transfers = append(result.Transfers, types.ConvertTransfer(t))
		}
		results = append(results, result)
	}
	return utils.WriteJSON(w, results)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/*").
		Methods(http.MethodPost).
		Name("accounts_inspect_clauses").
		HandlerFunc(utils.WrapHandlerFunc(a.handleInspectClauses))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("accounts_get_account").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
}
