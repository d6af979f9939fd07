// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"bytes"

	"github.com/meterio/meter-nft-auction/meter"
	"github.com/meterio/meter-nft-auction/state"
)

// Kind names the native implementation behind an account.
type Kind string

const (
	KindNone       Kind = ""
	KindParams     Kind = "params"
	KindNFT        Kind = "nft"
	KindToken      Kind = "token"
	KindAggregator Kind = "aggregator"
	KindProxy      Kind = "proxy"
)

var codeTagPrefix = []byte("meter-native:")

// CodeOf returns the code tag stored on accounts implemented by kind.
func CodeOf(kind Kind) []byte {
	return append(append([]byte{}, codeTagPrefix...), []byte(kind)...)
}

// KindOf returns which native implementation lives at addr, KindNone if the account has no tagged code.
func KindOf(st *state.State, addr meter.Address) Kind {
	code := st.GetCode(addr)
	if !bytes.HasPrefix(code, codeTagPrefix) {
		return KindNone
	}
	return Kind(code[len(codeTagPrefix):])
}

type contract struct {
	name    string
	Address meter.Address
	kind    Kind
}

func newContract(name string, kind Kind) *contract {
	return &contract{
		name,
		meter.BytesToAddress([]byte(name)),
		kind,
	}
}

// Name returns the contract name.
func (c *contract) Name() string { return c.name }

// Deploy tags the contract account with its code.
func (c *contract) Deploy(st *state.State) {
	st.SetCode(c.Address, CodeOf(c.kind))
}
