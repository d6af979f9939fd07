// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"io"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-nft-auction/meter"
)

// Transaction is an externally invoked call admitted into the serialized log.
// It carries a single clause: call `to` with `data`, attaching native `value`.
type Transaction struct {
	body body

	cache struct {
		id atomic.Value
	}
}

type body struct {
	Nonce  uint64
	Origin meter.Address
	To     meter.Address
	Value  *big.Int
	Data   []byte
}

// Origin returns the account that signed and pays for the transaction.
func (t *Transaction) Origin() meter.Address {
	return t.body.Origin
}

// To returns the target of the clause.
func (t *Transaction) To() meter.Address {
	return t.body.To
}

// Value returns attached native value.
func (t *Transaction) Value() *big.Int {
	if t.body.Value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(t.body.Value)
}

// Data returns the clause payload.
func (t *Transaction) Data() []byte {
	return append([]byte(nil), t.body.Data...)
}

// Nonce returns nonce value.
func (t *Transaction) Nonce() uint64 {
	return t.body.Nonce
}

// ID returns id of tx.
// ID = hash(rlp(body)).
func (t *Transaction) ID() (id meter.Bytes32) {
	if cached := t.cache.id.Load(); cached != nil {
		return cached.(meter.Bytes32)
	}
	defer func() { t.cache.id.Store(id) }()

	data, err := rlp.EncodeToBytes(&t.body)
	if err != nil {
		panic(err)
	}
	return meter.Blake2b(data)
}

// EncodeRLP implements rlp.Encoder
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	*t = Transaction{body: body}
	return nil
}

func (t *Transaction) String() string {
	return fmt.Sprintf(`Tx(%v)
	Origin:  %v
	To:      %v
	Value:   %v
	Nonce:   %v
	Data:    %d bytes`, t.ID(), t.body.Origin, t.body.To, t.Value(), t.body.Nonce, len(t.body.Data))
}

// Builder to make it easy to build transaction.
type Builder struct {
	body body
}

// Origin set origin.
func (b *Builder) Origin(addr meter.Address) *Builder {
	b.body.Origin = addr
	return b
}

// To set the clause target.
func (b *Builder) To(addr meter.Address) *Builder {
	b.body.To = addr
	return b
}

// Value set attached native value.
func (b *Builder) Value(v *big.Int) *Builder {
	b.body.Value = v
	return b
}

// Data set clause payload.
func (b *Builder) Data(data []byte) *Builder {
	b.body.Data = data
	return b
}

// Nonce set nonce.
func (b *Builder) Nonce(nonce uint64) *Builder {
	b.body.Nonce = nonce
	return b
}

// Build build tx object.
func (b *Builder) Build() *Transaction {
	tx := Transaction{body: b.body}
	if tx.body.Value == nil {
		tx.body.Value = new(big.Int)
	}
	return &tx
}
