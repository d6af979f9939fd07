// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"fmt"
	"math/big"

	"github.com/meterio/meter-nft-auction/meter"
)

// BlockContext block context. Time is the only clock seen by native modules.
type BlockContext struct {
	Number uint32
	Time   uint64
}

func (ctx *BlockContext) String() string {
	return fmt.Sprintf("blockCtx{Number:%d Time:%d}", ctx.Number, ctx.Time)
}

// TransactionContext transaction context.
type TransactionContext struct {
	ID     meter.Bytes32
	Origin meter.Address
	Value  *big.Int // native value attached to the clause
	Nonce  uint64
}

func (ctx *TransactionContext) String() string {
	return fmt.Sprintf("txCtx{ID:%s Origin:%s Value:%s Nonce:%d}", ctx.ID.String(), ctx.Origin.String(), ctx.AttachedValue().String(), ctx.Nonce)
}

// AttachedValue returns a copy of the attached value, zero when absent.
func (ctx *TransactionContext) AttachedValue() *big.Int {
	if ctx.Value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(ctx.Value)
}
