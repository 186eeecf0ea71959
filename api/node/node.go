// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/chain"
	"github.com/vechain/stakepool/thor"
)

// Head is the json form of the chain head.
type Head struct {
	Number    uint32       `json:"number"`
	Timestamp uint64       `json:"timestamp"`
	ID        thor.Bytes32 `json:"id"`
	Nonce     uint64       `json:"nonce"`
}

// Info describes the running node.
type Info struct {
	Version    string       `json:"version"`
	APIVersion string       `json:"apiVersion"`
	GenesisID  thor.Bytes32 `json:"genesisID"`
	Now        uint64       `json:"now"`
}

type Node struct {
	chain      *chain.Chain
	version    string
	apiVersion string
}

func New(chain *chain.Chain, version, apiVersion string) *Node {
	return &Node{
		chain,
		version,
		apiVersion,
	}
}

func (n *Node) handleGetHead(w http.ResponseWriter, _ *http.Request) error {
	head := n.chain.Head()
	return utils.WriteJSON(w, &Head{
		Number:    head.Number,
		Timestamp: head.Time,
		ID:        head.ID,
		Nonce:     head.Nonce,
	})
}

func (n *Node) handleNodeInfo(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, &Info{
		Version:    n.version,
		APIVersion: n.apiVersion,
		GenesisID:  n.chain.GenesisID(),
		Now:        n.chain.Now(),
	})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/head").
		Methods(http.MethodGet).
		Name("node_get_head").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetHead))
	sub.Path("/info").
		Methods(http.MethodGet).
		Name("node_get_info").
		HandlerFunc(utils.WrapHandlerFunc(n.handleNodeInfo))
}
