// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/meterio/meter-nft-auction/kv"
)

const slotCacheSize = 16 * 1024

// Creator state creator to cut-off kv dependency.
type Creator struct {
	kv    kv.GetPutter
	cache *slotCache
}

// NewCreator create a new state creator.
func NewCreator(kv kv.GetPutter) *Creator {
	return &Creator{kv, newSlotCache(slotCacheSize)}
}

// NewState create a new state object on top of the latest committed root.
func (c *Creator) NewState() (*State, error) {
	return newState(c.kv, c.cache)
}
