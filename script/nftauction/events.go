// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nftauction

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-nft-auction/meter"
	setypes "github.com/meterio/meter-nft-auction/script/types"
)

// event signatures, used as the first topic
var (
	AuctionCreatedEvent = meter.Keccak256([]byte("AuctionCreated(uint256,address,address,uint256,uint256,uint256)"))
	BidPlacedEvent      = meter.Keccak256([]byte("BidPlaced(uint256,address,address,uint256,uint256)"))
	BidRefundedEvent    = meter.Keccak256([]byte("BidRefunded(uint256,address,address,uint256)"))
	AuctionEndedEvent   = meter.Keccak256([]byte("AuctionEnded(uint256,address,address,uint256)"))
	FeedRegisteredEvent = meter.Keccak256([]byte("FeedRegistered(address,address,uint8)"))
	UpgradedEvent       = meter.Keccak256([]byte("Upgraded(address)"))
)

type (
	AuctionCreated struct {
		ID            uint64
		Seller        meter.Address
		NftContract   meter.Address
		TokenID       *big.Int
		StartingPrice *big.Int
		EndTime       uint64
	}
	BidPlaced struct {
		ID     uint64
		Bidder meter.Address
		Asset  meter.Address
		Amount *big.Int
		Value  *big.Int
	}
	BidRefunded struct {
		ID     uint64
		Bidder meter.Address
		Asset  meter.Address
		Amount *big.Int
	}
	AuctionEnded struct {
		ID     uint64
		Winner meter.Address
		Asset  meter.Address
		Amount *big.Int
	}
	FeedRegistered struct {
		Asset    meter.Address
		Oracle   meter.Address
		Decimals uint8
	}
	Upgraded struct {
		Implementation meter.Address
		Version        uint32
	}
)

func idTopic(id uint64) meter.Bytes32 {
	return meter.BytesToBytes32(new(big.Int).SetUint64(id).Bytes())
}

func addrTopic(addr meter.Address) meter.Bytes32 {
	return meter.BytesToBytes32(addr.Bytes())
}

// emit appends an event of the proxy account, data is the rlp encoded payload.
func emit(env *setypes.ScriptEnv, sig meter.Bytes32, payload interface{}, topics ...meter.Bytes32) error {
	data, err := rlp.EncodeToBytes(payload)
	if err != nil {
		return err
	}
	env.AddEvent(AuctionAccountAddr, append([]meter.Bytes32{sig}, topics...), data)
	return nil
}
