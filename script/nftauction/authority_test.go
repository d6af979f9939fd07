// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nftauction

import (
	"errors"
	"testing"

	"github.com/meterio/meter-nft-auction/meter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilities(t *testing.T) {
	st := newTestState(t)
	alice := meter.BytesToAddress([]byte("alice"))
	bob := meter.BytesToAddress([]byte("bob"))

	assert.False(t, HasCapability(st, OpUpgrade, alice))
	err := requireCapability(st, OpUpgrade, alice)
	assert.True(t, errors.Is(err, errUnauthorized))

	setCapability(st, OpUpgrade, alice, true)
	assert.True(t, HasCapability(st, OpUpgrade, alice))
	assert.NoError(t, requireCapability(st, OpUpgrade, alice))
	assert.False(t, HasCapability(st, OpUpgrade, bob))
	assert.False(t, HasCapability(st, OpGrant, alice))

	setCapability(st, OpUpgrade, alice, false)
	assert.False(t, HasCapability(st, OpUpgrade, alice))
}

func TestOp(t *testing.T) {
	assert.Equal(t, "register-feed", OpRegisterFeed.String())
	assert.Equal(t, "upgrade", OpUpgrade.String())
	assert.Equal(t, "grant", OpGrant.String())
	assert.Equal(t, "op(9)", Op(9).String())
	assert.False(t, Op(0).valid())
	assert.True(t, OpGrant.valid())
	assert.False(t, Op(4).valid())
}

func TestRegisterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, RegisterMetrics(reg))
	require.NoError(t, RegisterMetrics(reg))

	assert.Equal(t, "bid too low", reasonOf(errBidTooLow))
	assert.Equal(t, "unauthorized", reasonOf(requireCapability(newTestState(t), OpGrant, meter.ZeroAddress)))
	assert.Equal(t, "not supported by implementation", reasonOf(errNotSupported))
	assert.Equal(t, "unknown nft auction opcode", reasonOf(errUnknownOpcode))
	assert.Equal(t, "other", reasonOf(errors.New("boom")))
}
