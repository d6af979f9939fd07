// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-nft-auction/kv"
	"github.com/meterio/meter-nft-auction/meter"
	"github.com/pkg/errors"
)

// Account is the consensus representation of an account.
// RLP encoded objects are stored in kv under the account prefix.
type Account struct {
	Balance  *big.Int // native coin, in wei
	CodeHash []byte   // hash of code
}

// IsEmpty returns if an account is empty.
// An empty account has zero balance and zero length code hash.
func (a *Account) IsEmpty() bool {
	return a.Balance.Sign() == 0 && len(a.CodeHash) == 0
}

func emptyAccount() *Account {
	return &Account{Balance: &big.Int{}}
}

var (
	accountPrefix = []byte("a")
	codePrefix    = []byte("c")
	storagePrefix = []byte("s")
	rootKey       = []byte("state-root")
)

func accountKey(addr meter.Address) []byte {
	return append(append([]byte{}, accountPrefix...), addr[:]...)
}

func codeKeyOf(hash []byte) []byte {
	return append(append([]byte{}, codePrefix...), hash...)
}

func slotKey(addr meter.Address, key meter.Bytes32) []byte {
	k := make([]byte, 0, len(storagePrefix)+meter.AddressLength+32)
	k = append(k, storagePrefix...)
	k = append(k, addr[:]...)
	return append(k, key[:]...)
}

// loadAccount load an account object by address in kv.
// It returns empty account is no account found at the address.
func loadAccount(getter kv.Getter, addr meter.Address) (*Account, error) {
	data, err := getter.Get(accountKey(addr))
	if err != nil {
		if getter.IsNotFound(err) {
			return emptyAccount(), nil
		}
		return nil, errors.Wrapf(err, "load account %v", addr)
	}
	var a Account
	if err := rlp.DecodeBytes(data, &a); err != nil {
		return nil, errors.Wrapf(err, "decode account %v", addr)
	}
	if a.Balance == nil {
		a.Balance = &big.Int{}
	}
	return &a, nil
}

// saveAccount save account into kv at given address.
// If the given account is empty, the value for given address is deleted.
func saveAccount(putter kv.Putter, addr meter.Address, a *Account) error {
	if a.IsEmpty() {
		return putter.Delete(accountKey(addr))
	}

	data, err := rlp.EncodeToBytes(a)
	if err != nil {
		return err
	}
	return putter.Put(accountKey(addr), data)
}
