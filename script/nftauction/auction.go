// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nftauction

import (
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-nft-auction/meter"
	setypes "github.com/meterio/meter-nft-auction/script/types"
)

var errWrongTarget = errors.New("clause not addressed to nft auction account")

// Handle is the script module handler: it decodes an AuctionBody and runs it
// through the proxy on behalf of the transaction origin.
func (p *Proxy) Handle(env *setypes.ScriptEnv, payload []byte, to meter.Address) (seOutput *setypes.ScriptEngineOutput, err error) {
	var ret []byte
	start := time.Now()
	defer func() {
		if err != nil {
			ret = []byte(err.Error())
		}
		env.SetReturnData(ret)
		seOutput = env.GetOutput()
	}()

	ab, err := AuctionDecodeFromBytes(payload)
	if err != nil {
		log.Error("Decode script message failed", "error", err)
		return
	}
	if to != AuctionAccountAddr {
		err = errWrongTarget
		return
	}

	caller := env.GetTxOrigin()
	log.Debug("received nft auction", "body", ab.ToString())
	log.Debug("Entering nft auction handler "+ab.GetOpName(ab.Opcode), "caller", caller)
	switch ab.Opcode {
	case OP_INITIALIZE:
		err = p.Initialize(env, caller, ab.Target)

	case OP_CREATE:
		var id uint64
		if id, err = p.CreateAuction(env, caller, ab.StartingPrice, ab.Duration, ab.NftContract, ab.TokenID); err == nil {
			ret, err = rlp.EncodeToBytes(id)
		}

	case OP_BID:
		err = p.PlaceBid(env, caller, ab.AuctionID, ab.Asset, ab.Amount)

	case OP_END:
		err = p.EndAuction(env, caller, ab.AuctionID)

	case OP_REGISTER_FEED:
		err = p.RegisterFeed(env, caller, ab.Asset, ab.Oracle, ab.Decimals)

	case OP_GRANT:
		err = p.Grant(env, caller, Op(ab.Capability), ab.Target, ab.Allowed)

	case OP_UPGRADE:
		err = p.Upgrade(env, caller, ab.Target)

	case OP_SET_PRICE_AGE:
		err = p.SetMaxPriceAge(env, caller, ab.MaxPriceAge)

	default:
		log.Error("unknown Opcode", "Opcode", ab.Opcode)
		err = errUnknownOpcode
	}
	log.Debug("Leaving nft auction handler", "op", ab.GetOpName(ab.Opcode), "err", err, "elapsed", meter.PrettyDuration(time.Since(start)))
	return
}

// DecodeAuctionID decodes the return data of OP_CREATE.
func DecodeAuctionID(ret []byte) (uint64, error) {
	var id uint64
	err := rlp.DecodeBytes(ret, &id)
	return id, err
}

// helpers to build bodies

func NewCreateBody(startingPrice *big.Int, duration uint64, nftContract meter.Address, tokenID *big.Int) *AuctionBody {
	return &AuctionBody{Opcode: OP_CREATE, StartingPrice: startingPrice, Duration: duration, NftContract: nftContract, TokenID: tokenID}
}

func NewBidBody(id uint64, asset meter.Address, amount *big.Int) *AuctionBody {
	return &AuctionBody{Opcode: OP_BID, AuctionID: id, Asset: asset, Amount: amount}
}

func NewEndBody(id uint64) *AuctionBody {
	return &AuctionBody{Opcode: OP_END, AuctionID: id}
}

func NewRegisterFeedBody(asset, oracle meter.Address, decimals uint8) *AuctionBody {
	return &AuctionBody{Opcode: OP_REGISTER_FEED, Asset: asset, Oracle: oracle, Decimals: decimals}
}

func NewUpgradeBody(impl meter.Address) *AuctionBody {
	return &AuctionBody{Opcode: OP_UPGRADE, Target: impl}
}
