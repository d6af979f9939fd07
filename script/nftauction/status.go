// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nftauction

// Status is derived from the clock, never stored.
type Status uint8

const (
	StatusOpen Status = iota
	StatusExpired
	StatusSettled
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusExpired:
		return "expired"
	case StatusSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// StatusOf returns the status of an auction at time now. now == endTime is already expired.
func StatusOf(now, endTime uint64, ended bool) Status {
	if ended {
		return StatusSettled
	}
	if now < endTime {
		return StatusOpen
	}
	return StatusExpired
}
