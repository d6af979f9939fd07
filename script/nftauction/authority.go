// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nftauction

import (
	"fmt"

	"github.com/meterio/meter-nft-auction/builtin"
	"github.com/meterio/meter-nft-auction/builtin/params"
	"github.com/meterio/meter-nft-auction/meter"
	"github.com/meterio/meter-nft-auction/state"
)

// Op is an administrative operation guarded by the capability table.
type Op uint8

const (
	OpRegisterFeed Op = 1 // register feeds, set price policy
	OpUpgrade      Op = 2 // swap the logic implementation
	OpGrant        Op = 3 // grant or revoke capabilities
)

func (op Op) String() string {
	switch op {
	case OpRegisterFeed:
		return "register-feed"
	case OpUpgrade:
		return "upgrade"
	case OpGrant:
		return "grant"
	default:
		return fmt.Sprintf("op(%d)", uint8(op))
	}
}

func (op Op) valid() bool {
	return op >= OpRegisterFeed && op <= OpGrant
}

func capabilityKey(op Op, holder meter.Address) meter.Bytes32 {
	return params.KeyOf("nft-auction-capability", []byte{byte(op)}, holder[:])
}

// HasCapability returns whether holder may perform op.
func HasCapability(st *state.State, op Op, holder meter.Address) bool {
	return builtin.Params.Native(st).GetBool(capabilityKey(op, holder))
}

func setCapability(st *state.State, op Op, holder meter.Address, allowed bool) {
	builtin.Params.Native(st).SetBool(capabilityKey(op, holder), allowed)
}

func requireCapability(st *state.State, op Op, caller meter.Address) error {
	if !HasCapability(st, op, caller) {
		return fmt.Errorf("%w: %v lacks %v", errUnauthorized, caller, op)
	}
	return nil
}
