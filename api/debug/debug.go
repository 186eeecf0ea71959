// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package debug

import (
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/chain"
	"github.com/vechain/stakepool/clock"
	"github.com/vechain/stakepool/log"
)

var logger = log.WithContext("pkg", "debug")

// maxTime bounds the clock, block times are stored as signed integers in the log db.
const maxTime = math.MaxInt64

// TimeOption moves the clock, either by Advance seconds or to Set.
type TimeOption struct {
	Advance *uint64 `json:"advance,omitempty"`
	Set     *uint64 `json:"set,omitempty"`
}

// Time is the current time seen by the chain.
type Time struct {
	Now    uint64 `json:"now"`
	Manual bool   `json:"manual"`
}

type Debug struct {
	chain *chain.Chain
	clock clock.Clock
}

func New(chain *chain.Chain, clk clock.Clock) *Debug {
	return &Debug{chain, clk}
}

func (d *Debug) now() *Time {
	_, manual := d.clock.(*clock.Manual)
	return &Time{Now: d.chain.Now(), Manual: manual}
}

func (d *Debug) handleGetTime(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, d.now())
}

func (d *Debug) handleSetTime(w http.ResponseWriter, req *http.Request) error {
	manual, ok := d.clock.(*clock.Manual)
	if !ok {
		return utils.Forbidden(errors.New("clock is not adjustable"))
	}
	var opt TimeOption
	if err := utils.ParseJSON(req.Body, &opt); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	switch {
	case opt.Advance != nil && opt.Set != nil:
		return utils.BadRequest(errors.New("only one of advance and set is allowed"))
	case opt.Advance != nil:
		if *opt.Advance > maxTime-d.chain.Now() {
			return utils.BadRequest(errors.New("advance: time out of range"))
		}
		manual.Advance(*opt.Advance)
	case opt.Set != nil:
		if *opt.Set < d.chain.Now() {
			return utils.BadRequest(errors.New("set: time can not go backwards"))
		}
		if *opt.Set > maxTime {
			return utils.BadRequest(errors.New("set: time out of range"))
		}
		manual.Set(*opt.Set)
	default:
		return utils.BadRequest(errors.New("one of advance and set is required"))
	}
	now := d.now()
	logger.Debug("clock adjusted", "now", now.Now)
	return utils.WriteJSON(w, now)
}

func (d *Debug) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/time").
		Methods(http.MethodGet).
		Name("debug_get_time").
		HandlerFunc(utils.WrapHandlerFunc(d.handleGetTime))
	sub.Path("/time").
		Methods(http.MethodPost).
		Name("debug_set_time").
		HandlerFunc(utils.WrapHandlerFunc(d.handleSetTime))
}
