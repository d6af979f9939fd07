// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nftauction

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	auctionsCreatedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nft_auction_created_total",
		Help: "Counter of created auctions",
	})
	bidsAcceptedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nft_auction_bids_accepted_total",
		Help: "Counter of accepted bids",
	})
	rejectedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nft_auction_rejected_total",
		Help: "Counter of rejected calls by operation and reason",
	}, []string{"op", "reason"})
	auctionsSettledCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nft_auction_settled_total",
		Help: "Counter of settled auctions",
	})
	implementationVersionGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "nft_auction_implementation_version",
		Help: "Version of the active logic implementation",
	})
)

// RegisterMetrics registers collectors of the module on reg. Registering twice is a no-op.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		auctionsCreatedCounter,
		bidsAcceptedCounter,
		rejectedCounter,
		auctionsSettledCounter,
		implementationVersionGauge,
	} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

// reasons keeps the reason label bounded.
var reasons = []error{
	errUnregisteredAsset, errInvalidPrice, errValueOverflow, errStalePrice, errInvalidDecimals, errInvalidOracle,
	errNotContract, errNftNotInCustody, errEscrowFailed, errInsufficientBalance, errRejectsNativeValue,
	errUnexpectedValue, errAttachedValueUnequal, errValueNotFromCaller, errTransferMismatch,
	errAuctionNotFound, errInvalidStartingPrice, errInvalidDuration, errBidTooLow, errAuctionEnded,
	errAlreadyEnded, errAuctionNotEnded, errUnsupportedAsset, errReentrant,
	errAlreadyInitialized, errNotDeployed, errUnknownImplementation, errIncompatibleLayout, errUnauthorized,
	errNotSupported, errUnknownOpcode,
}

func reasonOf(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r) {
			return r.Error()
		}
	}
	return "other"
}
