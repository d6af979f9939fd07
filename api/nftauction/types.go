// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nftauction

import (
	"math/big"

	"github.com/meterio/meter-nft-auction/meter"
	"github.com/meterio/meter-nft-auction/script/nftauction"
	"github.com/shopspring/decimal"
)

type Auction struct {
	ID               uint64        `json:"id"`
	Seller           meter.Address `json:"seller"`
	NftContract      meter.Address `json:"nftContract"`
	TokenID          string        `json:"tokenId"`
	StartingPrice    string        `json:"startingPrice"`
	StartingPriceUSD string        `json:"startingPriceUsd"`
	StartTime        uint64        `json:"startTime"`
	Duration         uint64        `json:"duration"`
	HighestBidder    meter.Address `json:"highestBidder"`
	HighestBidAmount string        `json:"highestBidAmount"`
	HighestBidValue  string        `json:"highestBidValue"`
	HighestBidUSD    string        `json:"highestBidUsd"`
	BidAsset         meter.Address `json:"bidAsset"`
	Ended            bool          `json:"ended"`
}

type AuctionDetails struct {
	Auction
	Status      string `json:"status"`
	EndTime     uint64 `json:"endTime"`
	BidCount    uint64 `json:"bidCount"`
	LastBidTime uint64 `json:"lastBidTime"`
}

type Feed struct {
	Asset    meter.Address `json:"asset"`
	Oracle   meter.Address `json:"oracle"`
	Decimals uint8         `json:"decimals"`
}

type Implementation struct {
	Address meter.Address `json:"address"`
	Version uint32        `json:"version"`
}

// usd renders an 18 decimals fixed point value.
func usd(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return decimal.NewFromBigInt(v, -meter.USDDecimals).String()
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func convertAuction(a *nftauction.Auction) *Auction {
	return &Auction{
		ID:               a.ID,
		Seller:           a.Seller,
		NftContract:      a.NftContract,
		TokenID:          bigString(a.TokenID),
		StartingPrice:    bigString(a.StartingPrice),
		StartingPriceUSD: usd(a.StartingPrice),
		StartTime:        a.StartTime,
		Duration:         a.Duration,
		HighestBidder:    a.HighestBidder,
		HighestBidAmount: bigString(a.HighestBidAmount),
		HighestBidValue:  bigString(a.HighestBidValue),
		HighestBidUSD:    usd(a.HighestBidValue),
		BidAsset:         a.BidAsset,
		Ended:            a.Ended,
	}
}

func convertDetails(d *nftauction.AuctionDetails) *AuctionDetails {
	return &AuctionDetails{
		Auction:     *convertAuction(&d.Auction),
		Status:      d.Status.String(),
		EndTime:     d.EndTime,
		BidCount:    d.BidCount,
		LastBidTime: d.LastBidTime,
	}
}
