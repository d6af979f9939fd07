// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nftauction

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-nft-auction/api/utils"
	"github.com/meterio/meter-nft-auction/meter"
	"github.com/meterio/meter-nft-auction/script/nftauction"
	"github.com/meterio/meter-nft-auction/state"
	"github.com/pkg/errors"
)

// NftAuction serves read-only views of the auction proxy.
type NftAuction struct {
	stateCreator *state.Creator
	proxy        *nftauction.Proxy
	clock        func() uint64
}

// New creates the api. clock returns the time auction status is derived at.
func New(stateCreator *state.Creator, proxy *nftauction.Proxy, clock func() uint64) *NftAuction {
	return &NftAuction{
		stateCreator,
		proxy,
		clock,
	}
}

func (na *NftAuction) auctionID(req *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

func (na *NftAuction) handleGetAuction(w http.ResponseWriter, req *http.Request) error {
	id, err := na.auctionID(req)
	if err != nil {
		return err
	}
	st, err := na.stateCreator.NewState()
	if err != nil {
		return err
	}
	a, err := na.proxy.GetAuction(st, id)
	if err != nil {
		return utils.NotFound(err)
	}
	return utils.WriteJSON(w, convertAuction(a))
}

func (na *NftAuction) handleGetAuctionDetails(w http.ResponseWriter, req *http.Request) error {
	id, err := na.auctionID(req)
	if err != nil {
		return err
	}
	st, err := na.stateCreator.NewState()
	if err != nil {
		return err
	}
	d, err := na.proxy.GetAuctionDetails(st, na.clock(), id)
	if err != nil {
		return utils.NotFound(err)
	}
	return utils.WriteJSON(w, convertDetails(d))
}

func (na *NftAuction) handleGetFeed(w http.ResponseWriter, req *http.Request) error {
	asset, err := meter.ParseAddress(mux.Vars(req)["asset"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "asset"))
	}
	st, err := na.stateCreator.NewState()
	if err != nil {
		return err
	}
	reg, ok := na.proxy.GetFeed(st, asset)
	if !ok {
		return utils.NotFound(errors.New("unregistered asset"))
	}
	return utils.WriteJSON(w, &Feed{asset, reg.Oracle, reg.Decimals})
}

func (na *NftAuction) handleGetImplementation(w http.ResponseWriter, req *http.Request) error {
	st, err := na.stateCreator.NewState()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Implementation{
		Address: na.proxy.Implementation(st),
		Version: na.proxy.Version(st),
	})
}

func (na *NftAuction) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/auctions/{id}").Methods("Get").HandlerFunc(utils.WrapHandlerFunc(na.handleGetAuction))
	sub.Path("/auctions/{id}/details").Methods("Get").HandlerFunc(utils.WrapHandlerFunc(na.handleGetAuctionDetails))
	sub.Path("/feeds/{asset}").Methods("Get").HandlerFunc(utils.WrapHandlerFunc(na.handleGetFeed))
	sub.Path("/implementation").Methods("Get").HandlerFunc(utils.WrapHandlerFunc(na.handleGetImplementation))
}
