// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nftauction

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/meterio/meter-nft-auction/builtin"
	"github.com/meterio/meter-nft-auction/meter"
	"github.com/meterio/meter-nft-auction/state"
)

// Oracle is the price feed collaborator of an accepted asset.
type Oracle interface {
	LatestAnswer() (price *big.Int, decimals uint8, updatedAt uint64)
}

// Normalize converts amount, given in an asset with assetDecimals, into USD with 18 decimals
// using price quoted with priceDecimals:
//
//	amount * price / 10^(assetDecimals + priceDecimals - 18)
//
// The product is exact; when the exponent is positive it is divided once (floor), otherwise
// it is scaled up without loss.
func Normalize(amount, price *big.Int, assetDecimals, priceDecimals uint8) (*big.Int, error) {
	if price == nil || price.Sign() <= 0 {
		return nil, errInvalidPrice
	}
	if amount.Sign() < 0 {
		return nil, errBidTooLow
	}
	v := new(big.Int).Mul(amount, price)
	if v.Cmp(math.MaxBig256) > 0 {
		return nil, errValueOverflow
	}

	e := int64(assetDecimals) + int64(priceDecimals) - meter.USDDecimals
	switch {
	case e > 0:
		v.Quo(v, math.BigPow(10, e))
	case e < 0:
		v.Mul(v, math.BigPow(10, -e))
		if v.Cmp(math.MaxBig256) > 0 {
			return nil, errValueOverflow
		}
	}
	return v, nil
}

// valueOf normalizes amount of asset using its registered feed, as seen at time now.
func (p *Proxy) valueOf(st *state.State, now uint64, asset meter.Address, amount *big.Int) (*big.Int, error) {
	reg, found := newStore(st).getFeed(asset)
	if !found {
		return nil, errUnregisteredAsset
	}
	oracle, err := p.oracleAt(st, reg.Oracle)
	if err != nil {
		return nil, err
	}

	price, priceDecimals, updatedAt := oracle.LatestAnswer()
	if price == nil || price.Sign() <= 0 {
		return nil, errInvalidPrice
	}
	if maxAge := builtin.Params.Native(st).GetUint64(KeyMaxPriceAge); maxAge > 0 {
		if now > updatedAt && now-updatedAt > maxAge {
			log.Debug("stale price", "asset", asset, "updatedAt", updatedAt, "now", now, "maxAge", maxAge)
			return nil, errStalePrice
		}
	}
	return Normalize(amount, price, reg.Decimals, priceDecimals)
}

func validateFeed(oracle meter.Address, decimals uint8) error {
	if oracle.IsZero() {
		return errInvalidOracle
	}
	if decimals > MaxAssetDecimals {
		return errInvalidDecimals
	}
	return nil
}
