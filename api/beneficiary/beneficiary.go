// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package beneficiary

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/vechain/stakepool/api/types"
	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/chain"
	"github.com/vechain/stakepool/thor"
)

// Beneficiary is the json form of the beneficiary contract.
type Beneficiary struct {
	Address    thor.Address          `json:"address"`
	Completed  bool                  `json:"completed"`
	Received   *math.HexOrDecimal256 `json:"received"`
	LastSender thor.Address          `json:"lastSender"`
	Balance    *math.HexOrDecimal256 `json:"balance"`
}

type API struct {
	chain *chain.Chain
}

func New(chain *chain.Chain) *API {
	return &API{chain}
}

func (b *API) handleGetBeneficiary(w http.ResponseWriter, _ *http.Request) error {
	info, err := b.chain.Beneficiary()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Beneficiary{
		Address:    info.Address,
		Completed:  info.Completed,
		Received:   types.Amount(info.Received),
		LastSender: info.LastSender,
		Balance:    types.Amount(info.Balance),
	})
}

func (b *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("beneficiary_get").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetBeneficiary))
}
