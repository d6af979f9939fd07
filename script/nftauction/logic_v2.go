// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nftauction

import "reflect"

// LogicV2 accepts native and registered fungible assets, counts bids and
// offers the detailed read accessor.
type LogicV2 struct {
	lifecycle
}

func NewLogicV2() *LogicV2 {
	return &LogicV2{lifecycle{version: 2, multiAsset: true, countBids: true}}
}

func (l *LogicV2) Layout() reflect.Type {
	return reflect.TypeOf(Auction{})
}

// GetAuctionDetails returns the record with its derived status and end time.
func (l *LogicV2) GetAuctionDetails(ctx *Context, id uint64) (*AuctionDetails, error) {
	a, err := l.GetAuction(ctx, id)
	if err != nil {
		return nil, err
	}
	return &AuctionDetails{
		Auction: *a,
		Status:  StatusOf(ctx.now, a.EndTime(), a.Ended),
		EndTime: a.EndTime(),
	}, nil
}
