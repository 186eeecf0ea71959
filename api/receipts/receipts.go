// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package receipts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/types"
	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/chain"
	"github.com/vechain/stakepool/thor"
)

type Receipts struct {
	chain *chain.Chain
}

func New(chain *chain.Chain) *Receipts {
	return &Receipts{chain}
}

func (r *Receipts) handleGetReceipt(w http.ResponseWriter, req *http.Request) error {
	id, err := thor.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	receipt, err := r.chain.Receipt(id)
	if err != nil {
		if r.chain.IsNotFound(err) {
			return utils.NotFound(errors.New("receipt not found"))
		}
		return err
	}
	return utils.WriteJSON(w, types.ConvertReceipt(receipt))
}

func (r *Receipts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("receipts_get_receipt").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetReceipt))
}
