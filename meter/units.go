// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

import "math/big"

const (
	// USDDecimals is the fixed point scale of every normalized value.
	USDDecimals = 18
	// NativeDecimals is the decimal precision of the chain's native asset.
	NativeDecimals = 18
)

// NativeAsset is the sentinel asset address of the chain's native coin.
var NativeAsset = ZeroAddress

// IsNative returns whether the asset denotes the native coin.
func IsNative(asset Address) bool {
	return asset == NativeAsset
}

// Ether returns n * 1e18.
func Ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}
