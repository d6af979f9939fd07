// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package aggregator implements a native price feed that reports the latest
// answer of an asset in USD with its own decimal precision.
package aggregator

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-nft-auction/meter"
	"github.com/meterio/meter-nft-auction/state"
)

var answerKey = meter.Blake2b([]byte("latest-answer"))

// answer is stored as sign + magnitude since rlp carries unsigned integers only.
type answer struct {
	Negative  bool
	Price     *big.Int
	Decimals  uint8
	UpdatedAt uint64
}

// Aggregator native binder of a price feed contract.
type Aggregator struct {
	addr  meter.Address
	state *state.State
}

// New creates a new aggregator binder.
func New(addr meter.Address, state *state.State) *Aggregator {
	return &Aggregator{addr, state}
}

// Address returns the contract address.
func (a *Aggregator) Address() meter.Address { return a.addr }

// SetAnswer publishes a new answer. Price may be zero or negative.
func (a *Aggregator) SetAnswer(price *big.Int, decimals uint8, updatedAt uint64) {
	a.state.EncodeStorage(a.addr, answerKey, func() ([]byte, error) {
		return rlp.EncodeToBytes(&answer{
			Negative:  price.Sign() < 0,
			Price:     new(big.Int).Abs(price),
			Decimals:  decimals,
			UpdatedAt: updatedAt,
		})
	})
}

// LatestAnswer returns the latest price, its decimals and the time it was updated.
// A feed that never answered reports zero price.
func (a *Aggregator) LatestAnswer() (price *big.Int, decimals uint8, updatedAt uint64) {
	var ans answer
	a.state.DecodeStorage(a.addr, answerKey, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &ans)
	})
	price = new(big.Int)
	if ans.Price != nil {
		price.Set(ans.Price)
	}
	if ans.Negative {
		price.Neg(price)
	}
	return price, ans.Decimals, ans.UpdatedAt
}
