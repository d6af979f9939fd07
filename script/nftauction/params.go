// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nftauction

import (
	"errors"
	"math/big"

	"github.com/meterio/meter-nft-auction/builtin/params"
	"github.com/meterio/meter-nft-auction/meter"
)

// the global variables in nft auction
var (
	// proxy account, every slot of the auction lives here
	AuctionAccountAddr = meter.BytesToAddress([]byte("nft-auction-account"))

	// logic versions
	LogicV1Addr = meter.BytesToAddress([]byte("nft-auction-logic-v1"))
	LogicV2Addr = meter.BytesToAddress([]byte("nft-auction-logic-v2"))

	// keccak256("eip1967.proxy.implementation") - 1
	ImplementationSlot = implementationSlot()

	initializedKey   = meter.Blake2b([]byte("nft-auction-initialized"))
	nextAuctionIDKey = meter.Blake2b([]byte("nft-auction-next-id"))
	guardKey         = meter.Blake2b([]byte("nft-auction-reentrancy-guard"))

	// params kept in builtin params
	KeyMaxPriceAge = params.KeyOf("nft-auction-max-price-age")
)

func implementationSlot() meter.Bytes32 {
	h := meter.Keccak256([]byte("eip1967.proxy.implementation"))
	v := new(big.Int).SetBytes(h[:])
	return meter.BytesToBytes32(v.Sub(v, big.NewInt(1)).Bytes())
}

func auctionKey(id uint64) meter.Bytes32 {
	return meter.Blake2b([]byte("nft-auction-record"), new(big.Int).SetUint64(id).Bytes())
}

func feedKey(asset meter.Address) meter.Bytes32 {
	return meter.Blake2b([]byte("nft-auction-price-feed"), asset[:])
}

const (
	OP_INITIALIZE    = uint32(1)
	OP_CREATE        = uint32(2)
	OP_BID           = uint32(3)
	OP_END           = uint32(4)
	OP_REGISTER_FEED = uint32(5)
	OP_GRANT         = uint32(6)
	OP_UPGRADE       = uint32(7)
	OP_SET_PRICE_AGE = uint32(8)
)

// MaxAssetDecimals bounds registered asset decimals.
const MaxAssetDecimals = 36

func GetOpName(op uint32) string {
	switch op {
	case OP_INITIALIZE:
		return "Initialize"
	case OP_CREATE:
		return "CreateAuction"
	case OP_BID:
		return "PlaceBid"
	case OP_END:
		return "EndAuction"
	case OP_REGISTER_FEED:
		return "RegisterFeed"
	case OP_GRANT:
		return "Grant"
	case OP_UPGRADE:
		return "Upgrade"
	case OP_SET_PRICE_AGE:
		return "SetMaxPriceAge"
	default:
		return "Unknown"
	}
}

var (
	// normalization
	errUnregisteredAsset = errors.New("unregistered asset")
	errInvalidPrice      = errors.New("invalid price")
	errValueOverflow     = errors.New("value overflow")
	errStalePrice        = errors.New("stale price")
	errInvalidDecimals   = errors.New("invalid decimals")
	errInvalidOracle     = errors.New("invalid oracle")

	// custody
	errNotContract          = errors.New("not a contract")
	errNftNotInCustody      = errors.New("nft not in custody")
	errEscrowFailed         = errors.New("escrow failed")
	errInsufficientBalance  = errors.New("insufficient balance")
	errRejectsNativeValue   = errors.New("transfer target rejects native value")
	errUnexpectedValue      = errors.New("unexpected native value")
	errAttachedValueUnequal = errors.New("attached value mismatch")
	errValueNotFromCaller   = errors.New("attached value not sent by caller")
	errTransferMismatch     = errors.New("transfer amount mismatch")

	// lifecycle
	errAuctionNotFound      = errors.New("auction not found")
	errInvalidStartingPrice = errors.New("invalid starting price")
	errInvalidDuration      = errors.New("invalid duration")
	errBidTooLow            = errors.New("bid too low")
	errAuctionEnded         = errors.New("auction ended")
	errAlreadyEnded         = errors.New("already ended")
	errAuctionNotEnded      = errors.New("auction not ended")
	errUnsupportedAsset     = errors.New("unsupported asset")
	errReentrant            = errors.New("reentrant call")

	// proxy & authorization
	errAlreadyInitialized    = errors.New("already initialized")
	errNotDeployed           = errors.New("implementation not set")
	errUnknownImplementation = errors.New("unknown implementation")
	errIncompatibleLayout    = errors.New("incompatible storage layout")
	errUnauthorized          = errors.New("unauthorized")
	errNotSupported          = errors.New("not supported by implementation")
	errUnknownOpcode         = errors.New("unknown nft auction opcode")
)
