// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/meterio/meter-nft-auction/builtin/aggregator"
	"github.com/meterio/meter-nft-auction/builtin/nft"
	"github.com/meterio/meter-nft-auction/builtin/params"
	"github.com/meterio/meter-nft-auction/builtin/token"
	"github.com/meterio/meter-nft-auction/meter"
	"github.com/meterio/meter-nft-auction/state"
)

// Builtin contracts binding.
var (
	Params = &paramsContract{newContract("Params", KindParams)}
)

type paramsContract struct{ *contract }

func (p *paramsContract) Native(st *state.State) *params.Params {
	return params.New(p.Address, st)
}

// DeployNFT tags addr as a native NFT contract.
func DeployNFT(st *state.State, addr meter.Address) *nft.NFT {
	st.SetCode(addr, CodeOf(KindNFT))
	return nft.New(addr, st)
}

// DeployToken tags addr as a native fungible token with the given decimals.
func DeployToken(st *state.State, addr meter.Address, decimals uint8) *token.Token {
	st.SetCode(addr, CodeOf(KindToken))
	t := token.New(addr, st)
	t.SetDecimals(decimals)
	return t
}

// DeployAggregator tags addr as a native price feed with an initial answer.
func DeployAggregator(st *state.State, addr meter.Address, price *big.Int, decimals uint8, updatedAt uint64) *aggregator.Aggregator {
	st.SetCode(addr, CodeOf(KindAggregator))
	a := aggregator.New(addr, st)
	a.SetAnswer(price, decimals, updatedAt)
	return a
}

// NFTAt binds the native NFT at addr, false if addr holds something else.
func NFTAt(st *state.State, addr meter.Address) (*nft.NFT, bool) {
	if KindOf(st, addr) != KindNFT {
		return nil, false
	}
	return nft.New(addr, st), true
}

// TokenAt binds the native token at addr, false if addr holds something else.
func TokenAt(st *state.State, addr meter.Address) (*token.Token, bool) {
	if KindOf(st, addr) != KindToken {
		return nil, false
	}
	return token.New(addr, st), true
}

// AggregatorAt binds the native price feed at addr, false if addr holds something else.
func AggregatorAt(st *state.State, addr meter.Address) (*aggregator.Aggregator, bool) {
	if KindOf(st, addr) != KindAggregator {
		return nil, false
	}
	return aggregator.New(addr, st), true
}
