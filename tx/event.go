// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/meterio/meter-nft-auction/meter"
)

// Event represents a contract event log. Topics[0] is the event signature.
type Event struct {
	// address of the contract that generated the event
	Address meter.Address
	// list of topics provided by the contract.
	Topics []meter.Bytes32
	// supplied by the contract, usually rlp-encoded
	Data []byte
}

// Events slice of event logs.
type Events []*Event

// Filter returns events whose first topic equals the given signature.
func (es Events) Filter(sig meter.Bytes32) Events {
	var out Events
	for _, e := range es {
		if len(e.Topics) > 0 && e.Topics[0] == sig {
			out = append(out, e)
		}
	}
	return out
}
