// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nftauction

import (
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/meterio/meter-nft-auction/builtin"
	"github.com/meterio/meter-nft-auction/meter"
	setypes "github.com/meterio/meter-nft-auction/script/types"
	"github.com/meterio/meter-nft-auction/state"
)

var log = slog.Default().With("pkg", "nftauction")

// Proxy owns the storage account and routes every call into the logic version
// recorded in the implementation slot.
type Proxy struct {
	logics map[meter.Address]Logic

	mu        sync.RWMutex
	contracts map[meter.Address]interface{} // external collaborators by address
}

// NewProxy creates a proxy knowing both logic versions.
func NewProxy() *Proxy {
	p := &Proxy{
		logics:    make(map[meter.Address]Logic),
		contracts: make(map[meter.Address]interface{}),
	}
	p.RegisterLogic(LogicV1Addr, NewLogicV1())
	p.RegisterLogic(LogicV2Addr, NewLogicV2())
	return p
}

// RegisterLogic makes impl available for Deploy and Upgrade.
func (p *Proxy) RegisterLogic(addr meter.Address, impl Logic) {
	p.logics[addr] = impl
}

// BindContract binds an external collaborator (NFT, Token, Oracle, NativeReceiver) to addr.
// Bound contracts take precedence over builtin ones.
func (p *Proxy) BindContract(addr meter.Address, c interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.contracts[addr] = c
}

func (p *Proxy) contract(addr meter.Address) (interface{}, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.contracts[addr]
	return c, ok
}

// Implementation returns the active logic address.
func (p *Proxy) Implementation(st *state.State) meter.Address {
	return newStore(st).implementation()
}

// Version returns the active logic version, 0 if not deployed.
func (p *Proxy) Version(st *state.State) uint32 {
	if logic, err := p.logicOf(st); err == nil {
		return logic.Version()
	}
	return 0
}

func (p *Proxy) logicOf(st *state.State) (Logic, error) {
	impl := newStore(st).implementation()
	if impl.IsZero() {
		return nil, errNotDeployed
	}
	logic, ok := p.logics[impl]
	if !ok {
		return nil, errUnknownImplementation
	}
	return logic, nil
}

// execute runs fn as one all-or-nothing call guarded against re-entry.
// On error every state change and log of the call is dropped.
func (p *Proxy) execute(env *setypes.ScriptEnv, caller meter.Address, op uint32, payable bool, fn func(ctx *Context, logic Logic) error) (err error) {
	start := time.Now()
	st := env.GetState()
	checkpoint := st.NewCheckpoint()
	transfers, events := env.Mark()
	ctx := p.newContext(env, caller)
	defer func() {
		if err == nil {
			err = st.Err()
		}
		if err != nil {
			st.RevertTo(checkpoint)
			env.Truncate(transfers, events)
			rejectedCounter.WithLabelValues(GetOpName(op), reasonOf(err)).Inc()
			log.Debug("call rejected", "op", GetOpName(op), "caller", caller, "err", err, "elapsed", meter.PrettyDuration(time.Since(start)))
			return
		}
		for _, f := range ctx.committed {
			f()
		}
		log.Debug("call completed", "op", GetOpName(op), "caller", caller, "elapsed", meter.PrettyDuration(time.Since(start)))
	}()

	s := ctx.store
	if s.entered() {
		return errReentrant
	}
	value := env.GetAttachedValue()
	if !payable && value.Sign() != 0 {
		return errUnexpectedValue
	}
	if value.Sign() != 0 && caller != env.GetTxOrigin() {
		return errValueNotFromCaller
	}
	logic, err := p.logicOf(st)
	if err != nil {
		return err
	}

	s.setEntered(true)
	if err := fn(ctx, logic); err != nil {
		return err
	}
	s.setEntered(false)
	return nil
}

// Deploy points the proxy at impl and initializes it. It can succeed only once.
func (p *Proxy) Deploy(env *setypes.ScriptEnv, deployer, admin, impl meter.Address) (err error) {
	logic, ok := p.logics[impl]
	if !ok {
		return errUnknownImplementation
	}
	st := env.GetState()
	checkpoint := st.NewCheckpoint()
	defer func() {
		if err == nil {
			err = st.Err()
		}
		if err != nil {
			st.RevertTo(checkpoint)
			return
		}
		implementationVersionGauge.Set(float64(logic.Version()))
	}()

	s := newStore(st)
	if s.initialized() || !s.implementation().IsZero() {
		return errAlreadyInitialized
	}
	st.SetCode(AuctionAccountAddr, builtin.CodeOf(builtin.KindProxy))
	s.setImplementation(impl)
	if err = p.Initialize(env, deployer, admin); err != nil {
		return err
	}
	log.Info("nft auction deployed", "impl", impl, "version", logic.Version(), "deployer", deployer, "admin", admin)
	return nil
}

// Initialize runs once per proxy. caller becomes the deployer (upgrade, grant),
// admin gets feed registration and grant. A zero admin means the caller.
func (p *Proxy) Initialize(env *setypes.ScriptEnv, caller, admin meter.Address) error {
	return p.execute(env, caller, OP_INITIALIZE, false, func(ctx *Context, logic Logic) error {
		if ctx.store.initialized() {
			return errAlreadyInitialized
		}
		if admin.IsZero() {
			admin = caller
		}
		ctx.store.setInitialized()
		setCapability(ctx.state, OpUpgrade, caller, true)
		setCapability(ctx.state, OpGrant, caller, true)
		setCapability(ctx.state, OpRegisterFeed, admin, true)
		setCapability(ctx.state, OpGrant, admin, true)
		return nil
	})
}

// Upgrade swaps the logic version. Only a holder of OpUpgrade may call it, and the new
// version must only append to the storage layout of the current one.
func (p *Proxy) Upgrade(env *setypes.ScriptEnv, caller, impl meter.Address) error {
	return p.execute(env, caller, OP_UPGRADE, false, func(ctx *Context, current Logic) error {
		if err := requireCapability(ctx.state, OpUpgrade, caller); err != nil {
			return err
		}
		next, ok := p.logics[impl]
		if !ok {
			return errUnknownImplementation
		}
		if err := CheckLayout(current.Layout(), next.Layout()); err != nil {
			return err
		}
		ctx.store.setImplementation(impl)
		ctx.afterCommit(func() { implementationVersionGauge.Set(float64(next.Version())) })
		log.Info("nft auction upgraded", "from", current.Version(), "to", next.Version(), "impl", impl)
		return ctx.emit(UpgradedEvent, &Upgraded{impl, next.Version()}, addrTopic(impl))
	})
}

// Grant grants or revokes op for holder. Only a holder of OpGrant may call it.
func (p *Proxy) Grant(env *setypes.ScriptEnv, caller meter.Address, op Op, holder meter.Address, allowed bool) error {
	return p.execute(env, caller, OP_GRANT, false, func(ctx *Context, _ Logic) error {
		if err := requireCapability(ctx.state, OpGrant, caller); err != nil {
			return err
		}
		if !op.valid() {
			return errUnknownOpcode
		}
		setCapability(ctx.state, op, holder, allowed)
		log.Info("capability updated", "op", op, "holder", holder, "allowed", allowed, "by", caller)
		return nil
	})
}

// SetMaxPriceAge sets the staleness policy of oracle answers, in seconds. 0 disables it.
func (p *Proxy) SetMaxPriceAge(env *setypes.ScriptEnv, caller meter.Address, maxAge uint64) error {
	return p.execute(env, caller, OP_SET_PRICE_AGE, false, func(ctx *Context, _ Logic) error {
		if err := requireCapability(ctx.state, OpRegisterFeed, caller); err != nil {
			return err
		}
		builtin.Params.Native(ctx.state).SetUint64(KeyMaxPriceAge, maxAge)
		return nil
	})
}

// RegisterFeed binds asset to oracle with the asset's decimals. Overwrites any prior registration.
func (p *Proxy) RegisterFeed(env *setypes.ScriptEnv, caller, asset, oracle meter.Address, decimals uint8) error {
	return p.execute(env, caller, OP_REGISTER_FEED, false, func(ctx *Context, logic Logic) error {
		if err := requireCapability(ctx.state, OpRegisterFeed, caller); err != nil {
			return err
		}
		return logic.RegisterFeed(ctx, asset, oracle, decimals)
	})
}

// CreateAuction escrows the NFT of caller and opens a new auction. Returns its id.
func (p *Proxy) CreateAuction(env *setypes.ScriptEnv, caller meter.Address, startingPrice *big.Int, duration uint64, nftContract meter.Address, tokenID *big.Int) (id uint64, err error) {
	err = p.execute(env, caller, OP_CREATE, false, func(ctx *Context, logic Logic) (err error) {
		id, err = logic.CreateAuction(ctx, startingPrice, duration, nftContract, tokenID)
		return
	})
	return
}

// PlaceBid bids amount of asset on auction id. For the native asset the attached value is the bid.
func (p *Proxy) PlaceBid(env *setypes.ScriptEnv, caller meter.Address, id uint64, asset meter.Address, amount *big.Int) error {
	return p.execute(env, caller, OP_BID, meter.IsNative(asset), func(ctx *Context, logic Logic) error {
		return logic.PlaceBid(ctx, id, asset, amount)
	})
}

// EndAuction settles an expired auction. Anyone may call it.
func (p *Proxy) EndAuction(env *setypes.ScriptEnv, caller meter.Address, id uint64) error {
	return p.execute(env, caller, OP_END, false, func(ctx *Context, logic Logic) error {
		return logic.EndAuction(ctx, id)
	})
}

// GetAuction returns the record of auction id.
func (p *Proxy) GetAuction(st *state.State, id uint64) (*Auction, error) {
	logic, err := p.logicOf(st)
	if err != nil {
		return nil, err
	}
	return logic.GetAuction(p.newReadContext(st, 0), id)
}

// GetAuctionDetails returns the detailed record if the active version offers it.
func (p *Proxy) GetAuctionDetails(st *state.State, now uint64, id uint64) (*AuctionDetails, error) {
	logic, err := p.logicOf(st)
	if err != nil {
		return nil, err
	}
	dl, ok := logic.(DetailsLogic)
	if !ok {
		return nil, errNotSupported
	}
	return dl.GetAuctionDetails(p.newReadContext(st, now), id)
}

// GetFeed returns the feed registration of asset, false if the asset is not accepted.
func (p *Proxy) GetFeed(st *state.State, asset meter.Address) (PriceFeedRegistration, bool) {
	return newStore(st).getFeed(asset)
}

// ValueOf normalizes amount of asset into USD with 18 decimals, as of time now.
func (p *Proxy) ValueOf(st *state.State, now uint64, asset meter.Address, amount *big.Int) (*big.Int, error) {
	return p.valueOf(st, now, asset, amount)
}

// NextAuctionID returns the id the next created auction gets, which is also the number of auctions.
func (p *Proxy) NextAuctionID(st *state.State) uint64 {
	return newStore(st).nextAuctionID()
}
