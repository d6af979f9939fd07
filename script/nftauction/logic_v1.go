// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nftauction

import "reflect"

// LogicV1 is the first logic version: bids in the native asset only,
// compared by their USD value.
type LogicV1 struct {
	lifecycle
}

func NewLogicV1() *LogicV1 {
	return &LogicV1{lifecycle{version: 1}}
}

func (l *LogicV1) Layout() reflect.Type {
	return reflect.TypeOf(AuctionV1{})
}
