// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nftauction

import (
	"math/big"
	"reflect"

	"github.com/meterio/meter-nft-auction/meter"
	setypes "github.com/meterio/meter-nft-auction/script/types"
	"github.com/meterio/meter-nft-auction/state"
)

// Logic is one version of the auction logic. Storage stays in the proxy account;
// a version only decides how to read and write it.
type Logic interface {
	Version() uint32
	// Layout returns the record type the version writes.
	Layout() reflect.Type

	RegisterFeed(ctx *Context, asset, oracle meter.Address, decimals uint8) error
	CreateAuction(ctx *Context, startingPrice *big.Int, duration uint64, nftContract meter.Address, tokenID *big.Int) (uint64, error)
	PlaceBid(ctx *Context, id uint64, asset meter.Address, amount *big.Int) error
	EndAuction(ctx *Context, id uint64) error
	GetAuction(ctx *Context, id uint64) (*Auction, error)
}

// DetailsLogic is implemented by versions offering the detailed read accessor.
type DetailsLogic interface {
	Logic
	GetAuctionDetails(ctx *Context, id uint64) (*AuctionDetails, error)
}

// AuctionDetails is the record plus what is derived from the clock.
type AuctionDetails struct {
	Auction
	Status  Status
	EndTime uint64
}

// Context is a single call routed through the proxy into a logic version.
// env is nil for read-only calls.
type Context struct {
	env    *setypes.ScriptEnv
	state  *state.State
	now    uint64
	caller meter.Address
	proxy  *Proxy
	store  *store

	committed []func()
}

func (p *Proxy) newContext(env *setypes.ScriptEnv, caller meter.Address) *Context {
	return &Context{
		env:    env,
		state:  env.GetState(),
		now:    env.Now(),
		caller: caller,
		proxy:  p,
		store:  newStore(env.GetState()),
	}
}

func (p *Proxy) newReadContext(st *state.State, now uint64) *Context {
	return &Context{
		state: st,
		now:   now,
		proxy: p,
		store: newStore(st),
	}
}

// Caller returns the account the call is made on behalf of.
func (ctx *Context) Caller() meter.Address { return ctx.caller }

// Now returns the clock of the call.
func (ctx *Context) Now() uint64 { return ctx.now }

// afterCommit defers f until the call has completed without error.
func (ctx *Context) afterCommit(f func()) {
	ctx.committed = append(ctx.committed, f)
}

func (ctx *Context) custody() *custody {
	return &custody{ctx}
}

func (ctx *Context) valueOf(asset meter.Address, amount *big.Int) (*big.Int, error) {
	return ctx.proxy.valueOf(ctx.state, ctx.now, asset, amount)
}

func (ctx *Context) emit(sig meter.Bytes32, payload interface{}, topics ...meter.Bytes32) error {
	if ctx.env == nil {
		return nil
	}
	return emit(ctx.env, sig, payload, topics...)
}
