// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nftauction_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/meterio/meter-nft-auction/builtin"
	"github.com/meterio/meter-nft-auction/builtin/token"
	"github.com/meterio/meter-nft-auction/lvldb"
	"github.com/meterio/meter-nft-auction/meter"
	"github.com/meterio/meter-nft-auction/script"
	"github.com/meterio/meter-nft-auction/script/nftauction"
	setypes "github.com/meterio/meter-nft-auction/script/types"
	"github.com/meterio/meter-nft-auction/state"
	"github.com/meterio/meter-nft-auction/xenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	deployer = meter.BytesToAddress([]byte("deployer"))
	admin    = meter.BytesToAddress([]byte("admin"))
	seller   = meter.BytesToAddress([]byte("seller"))
	alice    = meter.BytesToAddress([]byte("alice"))
	bob      = meter.BytesToAddress([]byte("bob"))
	carol    = meter.BytesToAddress([]byte("carol"))

	nftAddr  = meter.BytesToAddress([]byte("nft"))
	usdcAddr = meter.BytesToAddress([]byte("usdc"))
	ethFeed  = meter.BytesToAddress([]byte("eth-usd"))
	usdcFeed = meter.BytesToAddress([]byte("usdc-usd"))
)

const startTime = uint64(1000)

// milliEther returns n * 1e15.
func milliEther(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e15))
}

type harness struct {
	t     *testing.T
	st    *state.State
	proxy *nftauction.Proxy
	se    *script.ScriptEngine
	usdc  *token.Token
	now   uint64
	nonce uint64
}

func newHarness(t *testing.T, impl meter.Address) *harness {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st, err := state.New(db)
	require.NoError(t, err)

	h := &harness{t: t, st: st, proxy: nftauction.NewProxy(), se: script.NewScriptEngine(), now: startTime}
	script.ModuleNftAuctionInit(h.se, h.proxy)

	require.NoError(t, h.proxy.Deploy(h.env(deployer, nil), deployer, admin, impl))

	builtin.DeployAggregator(st, ethFeed, big.NewInt(3000e8), 8, startTime)
	builtin.DeployAggregator(st, usdcFeed, big.NewInt(1.001e8), 8, startTime)
	h.usdc = builtin.DeployToken(st, usdcAddr, 6)

	_, err = h.exec(admin, nil, nftauction.NewRegisterFeedBody(meter.NativeAsset, ethFeed, 18))
	require.NoError(t, err)
	_, err = h.exec(admin, nil, nftauction.NewRegisterFeedBody(usdcAddr, usdcFeed, 6))
	require.NoError(t, err)

	nft := builtin.DeployNFT(st, nftAddr)
	for id := int64(1); id <= 3; id++ {
		require.NoError(t, nft.Mint(seller, big.NewInt(id)))
	}
	nft.SetApprovalForAll(seller, nftauction.AuctionAccountAddr, true)

	for _, a := range []meter.Address{alice, bob, carol} {
		st.SetBalance(a, meter.Ether(10))
		h.usdc.Mint(a, big.NewInt(1000e6))
		h.usdc.Approve(a, nftauction.AuctionAccountAddr, big.NewInt(1000e6))
	}
	return h
}

func (h *harness) env(origin meter.Address, value *big.Int) *setypes.ScriptEnv {
	h.nonce++
	txCtx := &xenv.TransactionContext{
		ID:     meter.Blake2b(origin[:], new(big.Int).SetUint64(h.nonce).Bytes()),
		Origin: origin,
		Value:  value,
		Nonce:  h.nonce,
	}
	return setypes.NewScriptEnv(h.st, &xenv.BlockContext{Number: uint32(h.nonce), Time: h.now}, txCtx, nftauction.AuctionAccountAddr)
}

func (h *harness) exec(origin meter.Address, value *big.Int, body *nftauction.AuctionBody) (*setypes.ScriptEngineOutput, error) {
	data, err := script.EncodeScriptData(body)
	require.NoError(h.t, err)
	h.nonce++
	txCtx := &xenv.TransactionContext{
		ID:     meter.Blake2b(origin[:], new(big.Int).SetUint64(h.nonce).Bytes()),
		Origin: origin,
		Value:  value,
		Nonce:  h.nonce,
	}
	return h.se.ExecuteClause(h.st, &xenv.BlockContext{Number: uint32(h.nonce), Time: h.now}, txCtx, nftauction.AuctionAccountAddr, data)
}

func (h *harness) create(startingPrice *big.Int, duration uint64, tokenID int64) uint64 {
	out, err := h.exec(seller, nil, nftauction.NewCreateBody(startingPrice, duration, nftAddr, big.NewInt(tokenID)))
	require.NoError(h.t, err)
	id, err := nftauction.DecodeAuctionID(out.GetData())
	require.NoError(h.t, err)
	return id
}

func (h *harness) bidNative(from meter.Address, id uint64, amount *big.Int) error {
	_, err := h.exec(from, amount, nftauction.NewBidBody(id, meter.NativeAsset, nil))
	return err
}

func (h *harness) bidToken(from meter.Address, id uint64, asset meter.Address, amount *big.Int) error {
	_, err := h.exec(from, nil, nftauction.NewBidBody(id, asset, amount))
	return err
}

func (h *harness) end(from meter.Address, id uint64) error {
	_, err := h.exec(from, nil, nftauction.NewEndBody(id))
	return err
}

func (h *harness) auction(id uint64) *nftauction.Auction {
	a, err := h.proxy.GetAuction(h.st, id)
	require.NoError(h.t, err)
	return a
}

func (h *harness) ownerOf(tokenID int64) meter.Address {
	nft, ok := builtin.NFTAt(h.st, nftAddr)
	require.True(h.t, ok)
	owner, err := nft.OwnerOf(big.NewInt(tokenID))
	require.NoError(h.t, err)
	return owner
}

func assertBig(t *testing.T, want, got *big.Int) {
	t.Helper()
	assert.Equal(t, 0, want.Cmp(got), "want %v, got %v", want, got)
}

func TestAuctionLifecycle(t *testing.T) {
	h := newHarness(t, nftauction.LogicV2Addr)

	id := h.create(meter.Ether(30), 300, 1)
	assert.Equal(t, uint64(0), id)
	assert.Equal(t, nftauction.AuctionAccountAddr, h.ownerOf(1))
	assert.Equal(t, uint64(1), h.proxy.NextAuctionID(h.st))

	a := h.auction(id)
	assert.Equal(t, seller, a.Seller)
	assert.Equal(t, startTime+300, a.EndTime())
	assert.True(t, a.HighestBidder.IsZero())
	assertBig(t, meter.Ether(30), a.HighestBidValue)

	// 0.01 ETH is exactly 30 USD: a tie is too low
	assert.EqualError(t, h.bidNative(alice, id, milliEther(10)), "bid too low")
	assertBig(t, meter.Ether(10), h.st.GetBalance(alice))

	h.now = startTime + 10
	require.NoError(t, h.bidNative(alice, id, milliEther(11)))
	a = h.auction(id)
	assert.Equal(t, alice, a.HighestBidder)
	assertBig(t, meter.Ether(33), a.HighestBidValue)
	assertBig(t, milliEther(11), h.st.GetBalance(nftauction.AuctionAccountAddr))

	h.now = startTime + 20
	require.NoError(t, h.bidNative(bob, id, milliEther(12)))
	a = h.auction(id)
	assert.Equal(t, bob, a.HighestBidder)
	assertBig(t, meter.Ether(36), a.HighestBidValue)
	assert.Equal(t, uint64(2), a.BidCount)
	assert.Equal(t, startTime+20, a.LastBidTime)
	// alice got her bid back
	assertBig(t, meter.Ether(10), h.st.GetBalance(alice))
	assertBig(t, milliEther(12), h.st.GetBalance(nftauction.AuctionAccountAddr))

	h.now = startTime + 299
	assert.EqualError(t, h.end(carol, id), "auction not ended")

	details, err := h.proxy.GetAuctionDetails(h.st, h.now, id)
	require.NoError(t, err)
	assert.Equal(t, nftauction.StatusOpen, details.Status)

	// the end time itself is already past the auction
	h.now = startTime + 300
	assert.EqualError(t, h.bidNative(carol, id, milliEther(20)), "auction ended")
	details, err = h.proxy.GetAuctionDetails(h.st, h.now, id)
	require.NoError(t, err)
	assert.Equal(t, nftauction.StatusExpired, details.Status)

	require.NoError(t, h.end(carol, id))
	assert.Equal(t, bob, h.ownerOf(1))
	assertBig(t, milliEther(12), h.st.GetBalance(seller))
	assert.Equal(t, 0, h.st.GetBalance(nftauction.AuctionAccountAddr).Sign())
	assert.True(t, h.auction(id).Ended)

	assert.EqualError(t, h.end(carol, id), "already ended")
	assert.EqualError(t, h.bidNative(carol, id, milliEther(20)), "already ended")

	details, err = h.proxy.GetAuctionDetails(h.st, h.now, id)
	require.NoError(t, err)
	assert.Equal(t, nftauction.StatusSettled, details.Status)
	assert.Equal(t, startTime+300, details.EndTime)
}

func TestDirectNativeBid(t *testing.T) {
	h := newHarness(t, nftauction.LogicV2Addr)
	id0 := h.create(meter.Ether(30), 300, 1)
	id1 := h.create(meter.Ether(30), 300, 2)
	require.NoError(t, h.bidNative(alice, id0, milliEther(11)))

	// a bid made on the proxy directly pays from the caller like one through the engine
	require.NoError(t, h.proxy.PlaceBid(h.env(bob, milliEther(11)), bob, id1, meter.NativeAsset, nil))
	assertBig(t, new(big.Int).Sub(meter.Ether(10), milliEther(11)), h.st.GetBalance(bob))
	assertBig(t, milliEther(22), h.st.GetBalance(nftauction.AuctionAccountAddr))

	// value attached by one account cannot back a bid of another
	err := h.proxy.PlaceBid(h.env(carol, milliEther(20)), alice, id1, meter.NativeAsset, nil)
	assert.EqualError(t, err, "attached value not sent by caller")
	assert.Equal(t, bob, h.auction(id1).HighestBidder)
	assertBig(t, meter.Ether(10), h.st.GetBalance(carol))

	h.now = startTime + 300
	require.NoError(t, h.end(carol, id1))
	require.NoError(t, h.end(carol, id0))
	assert.Equal(t, alice, h.ownerOf(1))
	assert.Equal(t, bob, h.ownerOf(2))
	assertBig(t, milliEther(22), h.st.GetBalance(seller))
	assert.Equal(t, 0, h.st.GetBalance(nftauction.AuctionAccountAddr).Sign())
}

func TestEndWithoutBids(t *testing.T) {
	h := newHarness(t, nftauction.LogicV2Addr)
	id := h.create(meter.Ether(30), 60, 2)

	h.now = startTime + 60
	require.NoError(t, h.end(alice, id))
	assert.Equal(t, seller, h.ownerOf(2))
	assert.Equal(t, 0, h.st.GetBalance(seller).Sign())
}

func TestBidInToken(t *testing.T) {
	h := newHarness(t, nftauction.LogicV2Addr)
	id := h.create(meter.Ether(100), 300, 1)

	// 100 USDC at 1.001 is 100.1 USD
	require.NoError(t, h.bidToken(carol, id, usdcAddr, big.NewInt(100e6)))
	// 101 USDC
	require.NoError(t, h.bidToken(alice, id, usdcAddr, big.NewInt(101e6)))
	a := h.auction(id)
	assert.Equal(t, alice, a.HighestBidder)
	assert.Equal(t, usdcAddr, a.BidAsset)
	assertBig(t, big.NewInt(101e6), a.HighestBidAmount)
	assertBig(t, new(big.Int).Mul(big.NewInt(101101), big.NewInt(1e15)), a.HighestBidValue)
	assertBig(t, big.NewInt(1000e6), h.usdc.BalanceOf(carol))
	assertBig(t, big.NewInt(101e6), h.usdc.BalanceOf(nftauction.AuctionAccountAddr))

	// outbid in native: 0.04 ETH = 120 USD, alice is refunded in USDC
	require.NoError(t, h.bidNative(bob, id, milliEther(40)))
	assertBig(t, big.NewInt(1000e6), h.usdc.BalanceOf(alice))
	assert.Equal(t, 0, h.usdc.BalanceOf(nftauction.AuctionAccountAddr).Sign())

	// outbid back in USDC, bob is refunded in native
	require.NoError(t, h.bidToken(carol, id, usdcAddr, big.NewInt(200e6)))
	assertBig(t, meter.Ether(10), h.st.GetBalance(bob))

	h.now = startTime + 300
	require.NoError(t, h.end(bob, id))
	assert.Equal(t, carol, h.ownerOf(1))
	assertBig(t, big.NewInt(200e6), h.usdc.BalanceOf(seller))
}

func TestBidRejections(t *testing.T) {
	h := newHarness(t, nftauction.LogicV2Addr)
	id := h.create(meter.Ether(30), 300, 1)

	assert.EqualError(t, h.bidNative(alice, 9, milliEther(20)), "auction not found")
	assert.EqualError(t, h.bidToken(alice, id, meter.BytesToAddress([]byte("dai")), big.NewInt(1e18)), "unregistered asset")

	// native value attached to a token bid
	_, err := h.exec(alice, milliEther(1), nftauction.NewBidBody(id, usdcAddr, big.NewInt(101e6)))
	assert.EqualError(t, err, "unexpected native value")
	assertBig(t, meter.Ether(10), h.st.GetBalance(alice))

	// allowance too small: the leader record written before the pull is reverted
	require.NoError(t, h.bidNative(alice, id, milliEther(11)))
	h.usdc.Approve(bob, nftauction.AuctionAccountAddr, big.NewInt(1e6))
	assert.EqualError(t, h.bidToken(bob, id, usdcAddr, big.NewInt(500e6)), "insufficient allowance")
	a := h.auction(id)
	assert.Equal(t, alice, a.HighestBidder)
	assert.Equal(t, uint64(1), a.BidCount)
	assertBig(t, meter.Ether(10), h.st.GetBalance(bob))
	assertBig(t, new(big.Int).Sub(meter.Ether(10), milliEther(11)), h.st.GetBalance(alice))
	assertBig(t, milliEther(11), h.st.GetBalance(nftauction.AuctionAccountAddr))

	// insufficient native balance of the origin
	assert.EqualError(t, h.bidNative(carol, id, meter.Ether(11)), "insufficient balance")
}

func TestCreateAuctionRejections(t *testing.T) {
	h := newHarness(t, nftauction.LogicV2Addr)

	_, err := h.exec(seller, nil, nftauction.NewCreateBody(new(big.Int), 300, nftAddr, big.NewInt(1)))
	assert.EqualError(t, err, "invalid starting price")
	_, err = h.exec(seller, nil, nftauction.NewCreateBody(meter.Ether(1), 0, nftAddr, big.NewInt(1)))
	assert.EqualError(t, err, "invalid duration")
	_, err = h.exec(seller, nil, nftauction.NewCreateBody(meter.Ether(1), 300, meter.BytesToAddress([]byte("nowhere")), big.NewInt(1)))
	assert.EqualError(t, err, "not a contract")
	_, err = h.exec(alice, nil, nftauction.NewCreateBody(meter.Ether(1), 300, nftAddr, big.NewInt(1)))
	assert.EqualError(t, err, "not owner")
	h.st.SetBalance(seller, meter.Ether(1))
	_, err = h.exec(seller, meter.Ether(1), nftauction.NewCreateBody(meter.Ether(1), 300, nftAddr, big.NewInt(1)))
	assert.EqualError(t, err, "unexpected native value")
	assertBig(t, meter.Ether(1), h.st.GetBalance(seller))

	nft, _ := builtin.NFTAt(h.st, nftAddr)
	nft.SetApprovalForAll(seller, nftauction.AuctionAccountAddr, false)
	_, err = h.exec(seller, nil, nftauction.NewCreateBody(meter.Ether(1), 300, nftAddr, big.NewInt(1)))
	assert.EqualError(t, err, "not approved")

	assert.Equal(t, seller, h.ownerOf(1))
	assert.Equal(t, uint64(0), h.proxy.NextAuctionID(h.st))
}

func TestLogicV1NativeOnly(t *testing.T) {
	h := newHarness(t, nftauction.LogicV1Addr)
	assert.Equal(t, uint32(1), h.proxy.Version(h.st))

	id := h.create(meter.Ether(30), 300, 1)
	assert.EqualError(t, h.bidToken(alice, id, usdcAddr, big.NewInt(101e6)), "unsupported asset")
	require.NoError(t, h.bidNative(alice, id, milliEther(11)))
	assert.Equal(t, uint64(0), h.auction(id).BidCount)

	_, err := h.proxy.GetAuctionDetails(h.st, h.now, id)
	assert.EqualError(t, err, "not supported by implementation")
}

func TestUpgrade(t *testing.T) {
	h := newHarness(t, nftauction.LogicV1Addr)
	id := h.create(meter.Ether(30), 300, 1)
	require.NoError(t, h.bidNative(alice, id, milliEther(11)))
	before := h.auction(id)

	_, err := h.exec(admin, nil, nftauction.NewUpgradeBody(nftauction.LogicV2Addr))
	assert.Error(t, err)
	_, err = h.exec(deployer, nil, nftauction.NewUpgradeBody(meter.BytesToAddress([]byte("unknown"))))
	assert.EqualError(t, err, "unknown implementation")

	out, err := h.exec(deployer, nil, nftauction.NewUpgradeBody(nftauction.LogicV2Addr))
	require.NoError(t, err)
	require.Len(t, out.GetEvents(), 1)
	assert.Equal(t, nftauction.UpgradedEvent, out.GetEvents()[0].Topics[0])
	assert.Equal(t, nftauction.LogicV2Addr, h.proxy.Implementation(h.st))
	assert.Equal(t, uint32(2), h.proxy.Version(h.st))

	// records written by v1 read the same through v2
	after := h.auction(id)
	assert.Equal(t, before, after)
	feed, ok := h.proxy.GetFeed(h.st, meter.NativeAsset)
	require.True(t, ok)
	assert.Equal(t, ethFeed, feed.Oracle)

	// v2 features on the old auction
	require.NoError(t, h.bidToken(bob, id, usdcAddr, big.NewInt(40e6)))
	assertBig(t, meter.Ether(10), h.st.GetBalance(alice))
	assert.Equal(t, uint64(1), h.auction(id).BidCount)
	_, err = h.proxy.GetAuctionDetails(h.st, h.now, id)
	assert.NoError(t, err)

	// going back would drop fields
	_, err = h.exec(deployer, nil, nftauction.NewUpgradeBody(nftauction.LogicV1Addr))
	assert.Error(t, err)
	assert.Equal(t, nftauction.LogicV2Addr, h.proxy.Implementation(h.st))
}

func TestAccessControl(t *testing.T) {
	h := newHarness(t, nftauction.LogicV2Addr)
	oracle := meter.BytesToAddress([]byte("dai-usd"))
	dai := meter.BytesToAddress([]byte("dai"))

	_, err := h.exec(carol, nil, nftauction.NewRegisterFeedBody(dai, oracle, 18))
	assert.Error(t, err)
	assert.False(t, nftauction.HasCapability(h.st, nftauction.OpRegisterFeed, carol))

	_, err = h.exec(admin, nil, &nftauction.AuctionBody{Opcode: nftauction.OP_GRANT, Capability: uint8(nftauction.OpRegisterFeed), Target: carol, Allowed: true})
	require.NoError(t, err)
	_, err = h.exec(carol, nil, nftauction.NewRegisterFeedBody(dai, oracle, 18))
	require.NoError(t, err)
	_, ok := h.proxy.GetFeed(h.st, dai)
	assert.True(t, ok)

	_, err = h.exec(carol, nil, nftauction.NewRegisterFeedBody(dai, oracle, 37))
	assert.EqualError(t, err, "invalid decimals")
	_, err = h.exec(carol, nil, nftauction.NewRegisterFeedBody(dai, meter.ZeroAddress, 18))
	assert.EqualError(t, err, "invalid oracle")

	// carol cannot grant further
	_, err = h.exec(carol, nil, &nftauction.AuctionBody{Opcode: nftauction.OP_GRANT, Capability: uint8(nftauction.OpUpgrade), Target: carol, Allowed: true})
	assert.Error(t, err)

	_, err = h.exec(deployer, nil, &nftauction.AuctionBody{Opcode: nftauction.OP_INITIALIZE, Target: carol})
	assert.EqualError(t, err, "already initialized")
	assert.EqualError(t, h.proxy.Deploy(h.env(deployer, nil), deployer, admin, nftauction.LogicV2Addr), "already initialized")

	_, err = h.exec(alice, nil, &nftauction.AuctionBody{Opcode: 99})
	assert.EqualError(t, err, "unknown nft auction opcode")
}

func TestPriceAge(t *testing.T) {
	h := newHarness(t, nftauction.LogicV2Addr)
	id := h.create(meter.Ether(30), 3600, 1)

	_, err := h.exec(admin, nil, &nftauction.AuctionBody{Opcode: nftauction.OP_SET_PRICE_AGE, MaxPriceAge: 60})
	require.NoError(t, err)

	h.now = startTime + 61
	assert.EqualError(t, h.bidNative(alice, id, milliEther(11)), "stale price")

	agg, _ := builtin.AggregatorAt(h.st, ethFeed)
	agg.SetAnswer(big.NewInt(3000e8), 8, h.now)
	assert.NoError(t, h.bidNative(alice, id, milliEther(11)))
}

type rejectingReceiver struct{}

func (rejectingReceiver) OnNativeReceived(meter.Address, *big.Int) error {
	return errors.New("no thanks")
}

type acceptingReceiver struct {
	received *big.Int
}

func (r *acceptingReceiver) OnNativeReceived(_ meter.Address, amount *big.Int) error {
	r.received = amount
	return nil
}

func TestRefundToContract(t *testing.T) {
	h := newHarness(t, nftauction.LogicV2Addr)
	vault := meter.BytesToAddress([]byte("vault"))
	wallet := meter.BytesToAddress([]byte("wallet"))
	h.proxy.BindContract(vault, rejectingReceiver{})
	receiver := &acceptingReceiver{}
	h.proxy.BindContract(wallet, receiver)
	h.st.SetBalance(vault, meter.Ether(1))
	h.st.SetBalance(wallet, meter.Ether(1))

	id := h.create(meter.Ether(30), 300, 1)
	require.NoError(t, h.bidNative(vault, id, milliEther(11)))

	err := h.bidNative(bob, id, milliEther(12))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transfer target rejects native value")
	assert.Equal(t, vault, h.auction(id).HighestBidder)
	assertBig(t, meter.Ether(10), h.st.GetBalance(bob))
	assertBig(t, milliEther(11), h.st.GetBalance(nftauction.AuctionAccountAddr))

	// a contract with a receive hook takes the refund
	id2 := h.create(meter.Ether(30), 300, 2)
	require.NoError(t, h.bidNative(wallet, id2, milliEther(11)))
	require.NoError(t, h.bidNative(bob, id2, milliEther(12)))
	assertBig(t, milliEther(11), receiver.received)
	assertBig(t, meter.Ether(1), h.st.GetBalance(wallet))
}

// reentrantToken calls back into the proxy while pulling funds.
type reentrantToken struct {
	*token.Token
	proxy     *nftauction.Proxy
	env       *setypes.ScriptEnv
	propagate bool
	innerErr  error
}

func (r *reentrantToken) TransferFrom(spender, from, to meter.Address, amount *big.Int) error {
	r.innerErr = r.proxy.EndAuction(r.env, from, 0)
	if r.propagate {
		return r.innerErr
	}
	return r.Token.TransferFrom(spender, from, to, amount)
}

func TestReentrancy(t *testing.T) {
	h := newHarness(t, nftauction.LogicV2Addr)
	evilAddr := meter.BytesToAddress([]byte("evil"))
	evil := &reentrantToken{Token: builtin.DeployToken(h.st, evilAddr, 6), proxy: h.proxy}
	h.proxy.BindContract(evilAddr, evil)
	evil.Mint(alice, big.NewInt(1000e6))
	evil.Approve(alice, nftauction.AuctionAccountAddr, big.NewInt(1000e6))

	_, err := h.exec(admin, nil, nftauction.NewRegisterFeedBody(evilAddr, usdcFeed, 6))
	require.NoError(t, err)
	id := h.create(meter.Ether(30), 300, 1)

	evil.env = h.env(alice, nil)
	evil.propagate = true
	err = h.proxy.PlaceBid(evil.env, alice, id, evilAddr, big.NewInt(100e6))
	assert.EqualError(t, err, "reentrant call")
	assert.True(t, h.auction(id).HighestBidder.IsZero())
	assert.Empty(t, evil.env.GetEvents())

	// the inner call fails alone, the outer bid stands
	evil.env = h.env(alice, nil)
	evil.propagate = false
	require.NoError(t, h.proxy.PlaceBid(evil.env, alice, id, evilAddr, big.NewInt(100e6)))
	assert.EqualError(t, evil.innerErr, "reentrant call")
	assert.Equal(t, alice, h.auction(id).HighestBidder)
	assertBig(t, big.NewInt(100e6), evil.BalanceOf(nftauction.AuctionAccountAddr))
	assert.Len(t, evil.env.GetEvents(), 1)

	// the guard is released after the call
	h.now = startTime + 300
	require.NoError(t, h.end(bob, id))
	assertBig(t, big.NewInt(100e6), evil.BalanceOf(seller))
}

func TestEvents(t *testing.T) {
	h := newHarness(t, nftauction.LogicV2Addr)
	id := h.create(meter.Ether(30), 300, 1)
	require.NoError(t, h.bidNative(alice, id, milliEther(11)))

	out, err := h.exec(bob, milliEther(12), nftauction.NewBidBody(id, meter.NativeAsset, nil))
	require.NoError(t, err)
	events := out.GetEvents()
	require.Len(t, events, 2)
	assert.Equal(t, nftauction.BidRefundedEvent, events[0].Topics[0])
	assert.Equal(t, nftauction.BidPlacedEvent, events[1].Topics[0])
	assert.Equal(t, nftauction.AuctionAccountAddr, events[1].Address)

	// alice's refund out, then bob's value in
	transfers := out.GetTransfers()
	require.Len(t, transfers, 2)
	assert.Equal(t, alice, transfers[0].Recipient)
	assertBig(t, milliEther(11), transfers[0].Amount)
	assert.Equal(t, bob, transfers[1].Sender)
	assert.Equal(t, nftauction.AuctionAccountAddr, transfers[1].Recipient)

	// rejected calls leave no logs
	out, err = h.exec(carol, milliEther(1), nftauction.NewBidBody(id, meter.NativeAsset, nil))
	require.Error(t, err)
	assert.Empty(t, out.GetEvents())
	assert.Empty(t, out.GetTransfers())
}
