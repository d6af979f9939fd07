// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nftauction

import (
	"math/big"

	"github.com/meterio/meter-nft-auction/meter"
)

// lifecycle holds the state machine shared by logic versions.
type lifecycle struct {
	version    uint32
	multiAsset bool // accept registered fungible assets besides native
	countBids  bool // maintain BidCount and LastBidTime
}

func (l *lifecycle) Version() uint32 { return l.version }

func (l *lifecycle) RegisterFeed(ctx *Context, asset, oracle meter.Address, decimals uint8) error {
	if err := validateFeed(oracle, decimals); err != nil {
		return err
	}
	reg := PriceFeedRegistration{Oracle: oracle, Decimals: decimals}
	ctx.store.setFeed(asset, reg)
	log.Info("feed registered", "asset", asset, "oracle", oracle, "decimals", decimals)
	return ctx.emit(FeedRegisteredEvent, &FeedRegistered{asset, oracle, decimals}, addrTopic(asset))
}

func (l *lifecycle) CreateAuction(ctx *Context, startingPrice *big.Int, duration uint64, nftContract meter.Address, tokenID *big.Int) (uint64, error) {
	if startingPrice == nil || startingPrice.Sign() <= 0 {
		return 0, errInvalidStartingPrice
	}
	if duration == 0 || ctx.now+duration < ctx.now {
		return 0, errInvalidDuration
	}
	if tokenID == nil {
		tokenID = new(big.Int)
	}

	seller := ctx.caller
	if err := ctx.custody().escrowNft(nftContract, tokenID, seller); err != nil {
		return 0, err
	}

	id := ctx.store.nextAuctionID()
	ctx.store.setNextAuctionID(id + 1)
	a := &Auction{
		ID:               id,
		Seller:           seller,
		NftContract:      nftContract,
		TokenID:          new(big.Int).Set(tokenID),
		StartingPrice:    new(big.Int).Set(startingPrice),
		StartTime:        ctx.now,
		Duration:         duration,
		HighestBidder:    meter.ZeroAddress,
		HighestBidAmount: new(big.Int),
		HighestBidValue:  new(big.Int).Set(startingPrice),
		BidAsset:         meter.NativeAsset,
		Ended:            false,
	}
	ctx.store.setAuction(a)

	ctx.afterCommit(auctionsCreatedCounter.Inc)
	log.Info("auction created", "id", id, "seller", seller, "nft", nftContract, "tokenID", tokenID, "startingPrice", startingPrice, "endTime", a.EndTime())
	return id, ctx.emit(AuctionCreatedEvent, &AuctionCreated{id, seller, nftContract, a.TokenID, a.StartingPrice, a.EndTime()}, idTopic(id), addrTopic(seller))
}

func (l *lifecycle) PlaceBid(ctx *Context, id uint64, asset meter.Address, amount *big.Int) error {
	a, err := l.GetAuction(ctx, id)
	if err != nil {
		return err
	}
	switch StatusOf(ctx.now, a.EndTime(), a.Ended) {
	case StatusSettled:
		return errAlreadyEnded
	case StatusExpired:
		return errAuctionEnded
	}

	if !meter.IsNative(asset) && !l.multiAsset {
		return errUnsupportedAsset
	}
	attached := ctx.env.GetAttachedValue()
	if meter.IsNative(asset) {
		// the attached value is the bid
		amount = attached
	} else if attached.Sign() != 0 {
		return errUnexpectedValue
	}
	if amount == nil {
		amount = new(big.Int)
	}

	value, err := ctx.valueOf(asset, amount)
	if err != nil {
		return err
	}
	if value.Cmp(a.HighestBidValue) <= 0 {
		return errBidTooLow
	}

	bidder := ctx.caller
	prev := *a
	a.HighestBidder = bidder
	a.HighestBidAmount = new(big.Int).Set(amount)
	a.HighestBidValue = value
	a.BidAsset = asset
	if l.countBids {
		a.BidCount++
		a.LastBidTime = ctx.now
	}
	ctx.store.setAuction(a)

	c := ctx.custody()
	if !prev.HighestBidder.IsZero() {
		if err := c.pushFunds(prev.BidAsset, prev.HighestBidAmount, prev.HighestBidder); err != nil {
			return err
		}
		if err := ctx.emit(BidRefundedEvent, &BidRefunded{id, prev.HighestBidder, prev.BidAsset, prev.HighestBidAmount}, idTopic(id), addrTopic(prev.HighestBidder)); err != nil {
			return err
		}
	}
	if err := c.pullFunds(asset, amount, bidder); err != nil {
		return err
	}

	ctx.afterCommit(bidsAcceptedCounter.Inc)
	log.Debug("bid accepted", "id", id, "bidder", bidder, "asset", asset, "amount", amount, "value", value)
	return ctx.emit(BidPlacedEvent, &BidPlaced{id, bidder, asset, amount, value}, idTopic(id), addrTopic(bidder))
}

func (l *lifecycle) EndAuction(ctx *Context, id uint64) error {
	a, err := l.GetAuction(ctx, id)
	if err != nil {
		return err
	}
	switch StatusOf(ctx.now, a.EndTime(), a.Ended) {
	case StatusSettled:
		return errAlreadyEnded
	case StatusOpen:
		return errAuctionNotEnded
	}

	a.Ended = true
	ctx.store.setAuction(a)

	c := ctx.custody()
	winner := a.HighestBidder
	if winner.IsZero() {
		if err := c.releaseNft(a.NftContract, a.TokenID, a.Seller); err != nil {
			return err
		}
	} else {
		if err := c.releaseNft(a.NftContract, a.TokenID, winner); err != nil {
			return err
		}
		if err := c.pushFunds(a.BidAsset, a.HighestBidAmount, a.Seller); err != nil {
			return err
		}
	}

	ctx.afterCommit(auctionsSettledCounter.Inc)
	log.Info("auction ended", "id", id, "winner", winner, "asset", a.BidAsset, "amount", a.HighestBidAmount)
	return ctx.emit(AuctionEndedEvent, &AuctionEnded{id, winner, a.BidAsset, a.HighestBidAmount}, idTopic(id), addrTopic(winner))
}

func (l *lifecycle) GetAuction(ctx *Context, id uint64) (*Auction, error) {
	a, found := ctx.store.getAuction(id)
	if !found {
		return nil, errAuctionNotFound
	}
	return a, nil
}
