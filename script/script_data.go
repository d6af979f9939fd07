// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-nft-auction/meter"
	"github.com/meterio/meter-nft-auction/script/nftauction"
)

var (
	ScriptPattern = [4]byte{0xde, 0xad, 0xbe, 0xef} //pattern: deadbeef
	ScriptPrefix  = [4]byte{0xff, 0xff, 0xff, 0xff}
)

type ScriptData struct {
	Header  ScriptHeader
	Payload []byte
}

// UniteHash hashes header and body, ignoring fields like nonce that do not change the meaning.
func (s *ScriptData) UniteHash() (hash meter.Bytes32) {
	hw := meter.NewBlake2b()

	var bodyHash meter.Bytes32
	switch s.Header.ModID {
	case NFT_AUCTION_MODULE_ID:
		ab, err := nftauction.AuctionDecodeFromBytes(s.Payload)
		if err != nil {
			log.Warn("could not decode nft auction, use payload directly for unite hash")
			bodyHash = meter.Blake2b(s.Payload)
		} else {
			bodyHash = ab.UniteHash()
		}
	default:
		bodyHash = meter.Blake2b(s.Payload)
	}
	err := rlp.Encode(hw, []interface{}{
		s.Header.Version,
		s.Header.ModID,
		bodyHash,
	})
	if err != nil {
		return
	}

	hw.Sum(hash[:0])
	return
}

type ScriptHeader struct {
	Version uint32
	ModID   uint32
}

// Version returns the version
func (sh *ScriptHeader) GetVersion() uint32 { return sh.Version }
func (sh *ScriptHeader) GetModID() uint32   { return sh.ModID }

func (sh *ScriptHeader) ToString() string {
	return fmt.Sprintf("ScriptHeader:::  Version: %v, ModID: %v", sh.Version, sh.ModID)
}

// IsScriptData returns whether clause data carries a script.
func IsScriptData(data []byte) bool {
	n := len(ScriptPrefix) + len(ScriptPattern)
	return len(data) >= n &&
		bytes.Equal(data[:len(ScriptPrefix)], ScriptPrefix[:]) &&
		bytes.Equal(data[len(ScriptPrefix):n], ScriptPattern[:])
}

func DecodeScriptData(bytes []byte) (*ScriptData, error) {
	script := ScriptData{}
	err := rlp.DecodeBytes(bytes, &script)
	return &script, err
}
