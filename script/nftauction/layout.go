// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nftauction

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-nft-auction/meter"
	"github.com/meterio/meter-nft-auction/state"
)

// AuctionV1 is the record layout written by the first logic version. It is frozen:
// later layouts may only append fields after it.
type AuctionV1 struct {
	ID               uint64
	Seller           meter.Address
	NftContract      meter.Address
	TokenID          *big.Int
	StartingPrice    *big.Int // USD, 18 decimals
	StartTime        uint64
	Duration         uint64
	HighestBidder    meter.Address
	HighestBidAmount *big.Int // raw amount in BidAsset
	HighestBidValue  *big.Int // USD, 18 decimals
	BidAsset         meter.Address
	Ended            bool
}

// Auction is the current record layout: AuctionV1 followed by appended fields.
// Appended fields are optional so records written by older logic still decode.
type Auction struct {
	ID               uint64
	Seller           meter.Address
	NftContract      meter.Address
	TokenID          *big.Int
	StartingPrice    *big.Int
	StartTime        uint64
	Duration         uint64
	HighestBidder    meter.Address
	HighestBidAmount *big.Int
	HighestBidValue  *big.Int
	BidAsset         meter.Address
	Ended            bool

	// appended by v2
	BidCount    uint64 `rlp:"optional"`
	LastBidTime uint64 `rlp:"optional"`
}

// EndTime returns StartTime + Duration.
func (a *Auction) EndTime() uint64 {
	return a.StartTime + a.Duration
}

func (a *Auction) String() string {
	return fmt.Sprintf("Auction{ID:%d Seller:%v Nft:%v/%v Start:%d Dur:%d Leader:%v Amount:%v Value:%v Asset:%v Ended:%v Bids:%d}",
		a.ID, a.Seller, a.NftContract, a.TokenID, a.StartTime, a.Duration, a.HighestBidder, a.HighestBidAmount, a.HighestBidValue, a.BidAsset, a.Ended, a.BidCount)
}

// PriceFeedRegistration binds an accepted asset to its oracle.
type PriceFeedRegistration struct {
	Oracle   meter.Address
	Decimals uint8
}

// layoutField is what the storage layout depends on: field position, name, type and tags.
type layoutField struct {
	Name string
	Type reflect.Type
	Tag  reflect.StructTag
}

func layoutOf(t reflect.Type) []layoutField {
	fields := make([]layoutField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		fields = append(fields, layoutField{f.Name, f.Type, f.Tag})
	}
	return fields
}

// CheckLayout verifies next only appends to prev: every field of prev stays at the same
// position with the same name and type, and every appended field is rlp optional.
func CheckLayout(prev, next reflect.Type) error {
	pf, nf := layoutOf(prev), layoutOf(next)
	if len(nf) < len(pf) {
		return fmt.Errorf("%w: %v drops %d field(s) of %v", errIncompatibleLayout, next, len(pf)-len(nf), prev)
	}
	for i, f := range pf {
		if f.Name != nf[i].Name || f.Type != nf[i].Type {
			return fmt.Errorf("%w: field %d %s %v became %s %v", errIncompatibleLayout, i, f.Name, f.Type, nf[i].Name, nf[i].Type)
		}
	}
	for _, f := range nf[len(pf):] {
		if !strings.Contains(f.Tag.Get("rlp"), "optional") {
			return fmt.Errorf("%w: appended field %s is not optional", errIncompatibleLayout, f.Name)
		}
	}
	return nil
}

// store reads and writes the slots of the proxy account.
type store struct {
	st *state.State
}

func newStore(st *state.State) *store {
	return &store{st}
}

func (s *store) getAuction(id uint64) (a *Auction, found bool) {
	s.st.DecodeStorage(AuctionAccountAddr, auctionKey(id), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		var rec Auction
		if err := rlp.DecodeBytes(raw, &rec); err != nil {
			return err
		}
		a, found = &rec, true
		return nil
	})
	return
}

func (s *store) setAuction(a *Auction) {
	s.st.EncodeStorage(AuctionAccountAddr, auctionKey(a.ID), func() ([]byte, error) {
		return rlp.EncodeToBytes(a)
	})
}

func (s *store) nextAuctionID() uint64 {
	return new(big.Int).SetBytes(s.st.GetStorage(AuctionAccountAddr, nextAuctionIDKey).Bytes()).Uint64()
}

func (s *store) setNextAuctionID(id uint64) {
	s.st.SetStorage(AuctionAccountAddr, nextAuctionIDKey, meter.BytesToBytes32(new(big.Int).SetUint64(id).Bytes()))
}

func (s *store) getFeed(asset meter.Address) (reg PriceFeedRegistration, found bool) {
	s.st.DecodeStorage(AuctionAccountAddr, feedKey(asset), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		if err := rlp.DecodeBytes(raw, &reg); err != nil {
			return err
		}
		found = !reg.Oracle.IsZero()
		return nil
	})
	return
}

func (s *store) setFeed(asset meter.Address, reg PriceFeedRegistration) {
	s.st.EncodeStorage(AuctionAccountAddr, feedKey(asset), func() ([]byte, error) {
		return rlp.EncodeToBytes(&reg)
	})
}

func (s *store) implementation() meter.Address {
	return meter.BytesToAddress(s.st.GetStorage(AuctionAccountAddr, ImplementationSlot).Bytes())
}

func (s *store) setImplementation(impl meter.Address) {
	s.st.SetStorage(AuctionAccountAddr, ImplementationSlot, meter.BytesToBytes32(impl.Bytes()))
}

func (s *store) flag(key meter.Bytes32) bool {
	return !s.st.GetStorage(AuctionAccountAddr, key).IsZero()
}

func (s *store) setFlag(key meter.Bytes32, v bool) {
	var b meter.Bytes32
	if v {
		b[31] = 1
	}
	s.st.SetStorage(AuctionAccountAddr, key, b)
}

func (s *store) initialized() bool       { return s.flag(initializedKey) }
func (s *store) setInitialized()         { s.setFlag(initializedKey, true) }
func (s *store) entered() bool           { return s.flag(guardKey) }
func (s *store) setEntered(entered bool) { s.setFlag(guardKey, entered) }
