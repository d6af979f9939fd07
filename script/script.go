// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-nft-auction/meter"
	"github.com/meterio/meter-nft-auction/script/nftauction"
	setypes "github.com/meterio/meter-nft-auction/script/types"
	"github.com/meterio/meter-nft-auction/state"
	"github.com/meterio/meter-nft-auction/xenv"
)

var (
	log = slog.Default().With("pkg", "se")

	errPatternMismatch = errors.New("script pattern mismatch")
)

// ScriptEngine dispatches script clauses to the registered native modules.
type ScriptEngine struct {
	logger *slog.Logger
	modReg Registry
}

func NewScriptEngine() *ScriptEngine {
	return &ScriptEngine{
		logger: log,
	}
}

// HandleScriptData decodes pattern and header, then calls the addressed module.
// data must start with the script pattern.
func (se *ScriptEngine) HandleScriptData(senv *setypes.ScriptEnv, data []byte, to meter.Address) (*setypes.ScriptEngineOutput, error) {
	if len(data) < len(ScriptPattern) || !bytes.Equal(data[:len(ScriptPattern)], ScriptPattern[:]) {
		se.logger.Debug("pattern mismatch", "data", hex.EncodeToString(data))
		return nil, errPatternMismatch
	}
	script, err := DecodeScriptData(data[len(ScriptPattern):])
	if err != nil {
		se.logger.Error("Decode script message failed", "err", err)
		return nil, err
	}

	header := script.Header
	mod, find := se.modReg.Find(header.GetModID())
	if !find {
		return nil, fmt.Errorf("could not address module %v", header.GetModID())
	}
	se.logger.Debug("script header", "header", header.ToString(), "module", mod.ToString())

	return mod.modHandler(senv, script.Payload, to)
}

// ExecuteClause runs one clause against st. The module addressed takes the attached
// value from the origin itself; any failure reverts every change of the clause.
func (se *ScriptEngine) ExecuteClause(st *state.State, blockCtx *xenv.BlockContext, txCtx *xenv.TransactionContext, to meter.Address, data []byte) (output *setypes.ScriptEngineOutput, err error) {
	if !IsScriptData(data) {
		return nil, errPatternMismatch
	}
	start := time.Now()
	senv := setypes.NewScriptEnv(st, blockCtx, txCtx, to)
	checkpoint := st.NewCheckpoint()
	defer func() {
		if err == nil {
			err = st.Err()
		}
		if err != nil {
			st.RevertTo(checkpoint)
			senv.Truncate(0, 0)
			if output != nil {
				output = senv.GetOutput()
			}
			se.logger.Debug("clause reverted", "tx", txCtx.ID, "err", err)
			return
		}
		se.logger.Debug("clause executed", "tx", txCtx.ID, "elapsed", meter.PrettyDuration(time.Since(start)))
	}()

	return se.HandleScriptData(senv, data[len(ScriptPrefix):], to)
}

// EncodeScriptData builds clause data for a module body.
func EncodeScriptData(body interface{}) ([]byte, error) {
	var modID uint32
	switch body.(type) {
	case nftauction.AuctionBody, *nftauction.AuctionBody:
		modID = NFT_AUCTION_MODULE_ID
	default:
		return []byte{}, errors.New("unrecognized body")
	}
	payload, err := rlp.EncodeToBytes(body)
	if err != nil {
		return []byte{}, err
	}
	b := &Builder{}
	return b.SetVersion(0).SetModID(modID).SetPayload(payload).Bytes()
}
