// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"github.com/meterio/meter-nft-auction/script/nftauction"
)

const (
	NFT_AUCTION_MODULE_NAME = string("nftauction")
	NFT_AUCTION_MODULE_ID   = uint32(1002)
)

func ModuleNftAuctionInit(se *ScriptEngine, proxy *nftauction.Proxy) *nftauction.Proxy {
	mod := &Module{
		modName:    NFT_AUCTION_MODULE_NAME,
		modID:      NFT_AUCTION_MODULE_ID,
		modHandler: proxy.Handle,
	}
	if err := se.modReg.Register(NFT_AUCTION_MODULE_ID, mod); err != nil {
		panic("register nft auction module failed")
	}

	se.logger.Info("ScriptEngine", "started module", mod.modName)
	return proxy
}
