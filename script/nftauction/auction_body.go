// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nftauction

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-nft-auction/meter"
)

// AuctionBody is the payload of a script clause addressed to the nft auction module.
// Which fields are read depends on Opcode.
type AuctionBody struct {
	Opcode        uint32
	Version       uint32
	AuctionID     uint64
	StartingPrice *big.Int // USD, 18 decimals
	Duration      uint64   // seconds
	NftContract   meter.Address
	TokenID       *big.Int
	Asset         meter.Address
	Amount        *big.Int
	Oracle        meter.Address
	Decimals      uint8
	Target        meter.Address // admin on initialize, holder on grant, implementation on upgrade
	Capability    uint8
	Allowed       bool
	MaxPriceAge   uint64
	Nonce         uint64
}

func (ab *AuctionBody) ToString() string {
	return fmt.Sprintf("AuctionBody: Opcode=%v, Version=%v, AuctionID=%v, StartingPrice=%v, Duration=%v, NftContract=%v, TokenID=%v, Asset=%v, Amount=%v, Oracle=%v, Decimals=%v, Target=%v, Capability=%v, Allowed=%v, MaxPriceAge=%v, Nonce=%v",
		ab.Opcode, ab.Version, ab.AuctionID, ab.StartingPrice, ab.Duration, ab.NftContract, ab.TokenID, ab.Asset, ab.Amount, ab.Oracle, ab.Decimals, ab.Target, ab.Capability, ab.Allowed, ab.MaxPriceAge, ab.Nonce)
}

func (ab *AuctionBody) GetOpName(op uint32) string {
	return GetOpName(op)
}

func (ab *AuctionBody) UniteHash() (hash meter.Bytes32) {
	hw := meter.NewBlake2b()
	err := rlp.Encode(hw, []interface{}{
		ab.Opcode,
		ab.Version,
		ab.AuctionID,
		ab.StartingPrice,
		ab.Duration,
		ab.NftContract,
		ab.TokenID,
		ab.Asset,
		ab.Amount,
		ab.Oracle,
		ab.Decimals,
		ab.Target,
		ab.Capability,
		ab.Allowed,
		ab.MaxPriceAge,
	})
	if err != nil {
		log.Error("unite hash failed", "error", err)
		return
	}
	hw.Sum(hash[:0])
	return
}

func AuctionEncodeBytes(ab *AuctionBody) []byte {
	auctionBytes, err := rlp.EncodeToBytes(ab)
	if err != nil {
		log.Error("rlp encode failed", "error", err)
		return []byte{}
	}
	return auctionBytes
}

func AuctionDecodeFromBytes(bytes []byte) (*AuctionBody, error) {
	ab := AuctionBody{}
	err := rlp.DecodeBytes(bytes, &ab)
	return &ab, err
}
