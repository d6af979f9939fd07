// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"testing"

	"github.com/meterio/meter-nft-auction/lvldb"
	"github.com/meterio/meter-nft-auction/meter"
	"github.com/meterio/meter-nft-auction/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken(t *testing.T) {
	kv, _ := lvldb.NewMem()
	st, err := state.New(kv)
	require.NoError(t, err)

	usdc := New(meter.BytesToAddress([]byte("usdc")), st)
	usdc.SetDecimals(6)
	assert.Equal(t, uint8(6), usdc.Decimals())

	alice := meter.BytesToAddress([]byte("alice"))
	bob := meter.BytesToAddress([]byte("bob"))
	market := meter.BytesToAddress([]byte("market"))

	usdc.Mint(alice, big.NewInt(1000))
	assert.Equal(t, big.NewInt(1000), usdc.TotalSupply())
	assert.Equal(t, big.NewInt(1000), usdc.BalanceOf(alice))

	assert.Equal(t, errInsufficientBalance, usdc.Transfer(alice, bob, big.NewInt(1001)))
	assert.Equal(t, errZeroAddress, usdc.Transfer(alice, meter.ZeroAddress, big.NewInt(1)))
	require.NoError(t, usdc.Transfer(alice, bob, big.NewInt(100)))
	assert.Equal(t, big.NewInt(900), usdc.BalanceOf(alice))
	assert.Equal(t, big.NewInt(100), usdc.BalanceOf(bob))

	assert.Equal(t, errInsufficientAllowance, usdc.TransferFrom(market, alice, market, big.NewInt(1)))
	usdc.Approve(alice, market, big.NewInt(500))
	require.NoError(t, usdc.TransferFrom(market, alice, market, big.NewInt(200)))
	assert.Equal(t, big.NewInt(300), usdc.Allowance(alice, market))
	assert.Equal(t, big.NewInt(200), usdc.BalanceOf(market))

	// allowance is kept when balance is short
	usdc.Approve(alice, market, big.NewInt(5000))
	assert.Equal(t, errInsufficientBalance, usdc.TransferFrom(market, alice, market, big.NewInt(1000)))
	assert.Equal(t, big.NewInt(5000), usdc.Allowance(alice, market))

	assert.Nil(t, st.Err())
}
