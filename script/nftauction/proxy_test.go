// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nftauction

import (
	"math/big"
	"testing"

	"github.com/meterio/meter-nft-auction/meter"
	setypes "github.com/meterio/meter-nft-auction/script/types"
	"github.com/meterio/meter-nft-auction/xenv"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteAfterCommit(t *testing.T) {
	st := newTestState(t)
	deployer := meter.BytesToAddress([]byte("deployer"))
	env := setypes.NewScriptEnv(st, &xenv.BlockContext{Time: 1000}, &xenv.TransactionContext{Origin: deployer}, AuctionAccountAddr)

	p := NewProxy()
	require.NoError(t, p.Deploy(env, deployer, deployer, LogicV2Addr))
	assert.Equal(t, float64(2), testutil.ToFloat64(implementationVersionGauge))

	var ran int
	err := p.execute(env, deployer, OP_CREATE, false, func(ctx *Context, _ Logic) error {
		ctx.afterCommit(func() { ran++ })
		return errBidTooLow
	})
	assert.Equal(t, errBidTooLow, err)
	assert.Equal(t, 0, ran)

	require.NoError(t, p.execute(env, deployer, OP_CREATE, false, func(ctx *Context, _ Logic) error {
		ctx.afterCommit(func() { ran++ })
		return nil
	}))
	assert.Equal(t, 1, ran)

	// a rejected downgrade leaves the version gauge alone
	assert.Error(t, p.Upgrade(env, deployer, LogicV1Addr))
	assert.Equal(t, float64(2), testutil.ToFloat64(implementationVersionGauge))
	assert.Equal(t, LogicV2Addr, p.Implementation(st))
}

func TestExecuteValueFromOrigin(t *testing.T) {
	st := newTestState(t)
	deployer := meter.BytesToAddress([]byte("deployer"))
	alice := meter.BytesToAddress([]byte("alice"))
	bob := meter.BytesToAddress([]byte("bob"))

	p := NewProxy()
	require.NoError(t, p.Deploy(setypes.NewScriptEnv(st, &xenv.BlockContext{Time: 1000}, &xenv.TransactionContext{Origin: deployer}, AuctionAccountAddr), deployer, deployer, LogicV2Addr))

	// value attached by alice cannot be spent on behalf of bob
	env := setypes.NewScriptEnv(st, &xenv.BlockContext{Time: 1000}, &xenv.TransactionContext{Origin: alice, Value: big.NewInt(1)}, AuctionAccountAddr)
	var called bool
	err := p.execute(env, bob, OP_BID, true, func(*Context, Logic) error {
		called = true
		return nil
	})
	assert.Equal(t, errValueNotFromCaller, err)
	assert.False(t, called)
	assert.Equal(t, "attached value not sent by caller", reasonOf(err))
}
