// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"math/big"

	"github.com/meterio/meter-nft-auction/meter"
	"github.com/meterio/meter-nft-auction/state"
	"github.com/meterio/meter-nft-auction/tx"
	"github.com/meterio/meter-nft-auction/xenv"
)

// ScriptEnv is the execution environment handed to script modules for one clause.
type ScriptEnv struct {
	state    *state.State
	blockCtx *xenv.BlockContext
	txCtx    *xenv.TransactionContext
	toAddr   meter.Address

	returnData []byte
	transfers  []*tx.Transfer
	events     []*tx.Event
}

func NewScriptEnv(state *state.State, blockCtx *xenv.BlockContext, txCtx *xenv.TransactionContext, to meter.Address) *ScriptEnv {
	return &ScriptEnv{
		state:      state,
		blockCtx:   blockCtx,
		txCtx:      txCtx,
		toAddr:     to,
		returnData: make([]byte, 0),
		transfers:  make([]*tx.Transfer, 0),
		events:     make([]*tx.Event, 0),
	}
}

func (env *ScriptEnv) GetState() *state.State             { return env.state }
func (env *ScriptEnv) GetBlockCtx() *xenv.BlockContext    { return env.blockCtx }
func (env *ScriptEnv) GetTxCtx() *xenv.TransactionContext { return env.txCtx }
func (env *ScriptEnv) GetToAddr() meter.Address           { return env.toAddr }
func (env *ScriptEnv) GetTxOrigin() meter.Address         { return env.txCtx.Origin }
func (env *ScriptEnv) GetAttachedValue() *big.Int         { return env.txCtx.AttachedValue() }
func (env *ScriptEnv) GetBlockNum() uint32                { return env.blockCtx.Number }

// Now returns the block time, the single clock of the execution.
func (env *ScriptEnv) Now() uint64 { return env.blockCtx.Time }

func (env *ScriptEnv) SetReturnData(data []byte) {
	env.returnData = data
}
func (env *ScriptEnv) GetReturnData() []byte {
	if env.returnData == nil || len(env.returnData) <= 0 {
		return nil
	}
	return env.returnData
}

func (env *ScriptEnv) AddTransfer(sender, recipient meter.Address, amount *big.Int, asset meter.Address) {
	env.transfers = append(env.transfers, &tx.Transfer{
		Sender:    sender,
		Recipient: recipient,
		Amount:    new(big.Int).Set(amount),
		Asset:     asset,
	})
}

func (env *ScriptEnv) AddEvent(address meter.Address, topics []meter.Bytes32, data []byte) {
	env.events = append(env.events, &tx.Event{
		Address: address,
		Topics:  topics,
		Data:    data,
	})
}

// Mark returns the current lengths of logs, used to drop logs of a reverted call.
func (env *ScriptEnv) Mark() (transfers, events int) {
	return len(env.transfers), len(env.events)
}

// Truncate drops logs added after the given mark.
func (env *ScriptEnv) Truncate(transfers, events int) {
	if transfers < len(env.transfers) {
		env.transfers = env.transfers[:transfers]
	}
	if events < len(env.events) {
		env.events = env.events[:events]
	}
}

func (env *ScriptEnv) GetTransfers() tx.Transfers {
	return env.transfers
}

func (env *ScriptEnv) GetEvents() tx.Events {
	return env.events
}

func (env *ScriptEnv) GetOutput() *ScriptEngineOutput {
	return &ScriptEngineOutput{
		data:      env.GetReturnData(),
		transfers: env.transfers,
		events:    env.events,
	}
}
