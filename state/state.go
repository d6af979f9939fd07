// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-nft-auction/kv"
	"github.com/meterio/meter-nft-auction/meter"
	"github.com/meterio/meter-nft-auction/stackedmap"
	"github.com/pkg/errors"
)

var log = slog.Default().With("pkg", "state")

// State manages accounts, codes and storage slots on top of the kv.
type State struct {
	root     meter.Bytes32 // root the state was loaded from
	kv       kv.GetPutter
	cache    *slotCache
	sm       *stackedmap.StackedMap // keeps revisions of accounts state
	err      error
	setError func(err error)
}

// New create an state object on top of the latest committed root of kv.
func New(kv kv.GetPutter) (*State, error) {
	return newState(kv, nil)
}

func newState(kv kv.GetPutter, cache *slotCache) (*State, error) {
	root, err := loadRoot(kv)
	if err != nil {
		return nil, err
	}
	state := State{
		root:  root,
		kv:    kv,
		cache: cache,
	}
	state.setError = func(err error) {
		if state.err == nil {
			state.err = err
		}
	}
	state.sm = stackedmap.New(func(key interface{}) (value interface{}, exist bool) {
		return state.cacheGetter(key)
	})
	return &state, nil
}

func loadRoot(getter kv.Getter) (meter.Bytes32, error) {
	raw, err := getter.Get(rootKey)
	if err != nil {
		if getter.IsNotFound(err) {
			return meter.Bytes32{}, nil
		}
		return meter.Bytes32{}, errors.Wrap(err, "load state root")
	}
	return meter.BytesToBytes32(raw), nil
}

// Root returns the committed root the state was loaded from.
func (s *State) Root() meter.Bytes32 {
	return s.root
}

// implements stackedmap.MapGetter
func (s *State) cacheGetter(key interface{}) (value interface{}, exist bool) {
	switch k := key.(type) {
	case meter.Address: // get account
		a, err := loadAccount(s.kv, k)
		if err != nil {
			s.setError(err)
			return emptyAccount(), true
		}
		return a, true
	case codeKey: // get code
		hash := s.getAccount(meter.Address(k)).CodeHash
		if len(hash) == 0 {
			return []byte(nil), true
		}
		code, err := s.getCommitted(codeKeyOf(hash))
		if err != nil {
			s.setError(err)
			return []byte(nil), true
		}
		return code, true
	case storageKey: // get storage
		v, err := s.getCommitted(slotKey(k.addr, k.key))
		if err != nil {
			s.setError(err)
			return rlp.RawValue(nil), true
		}
		return rlp.RawValue(v), true
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

// getCommitted reads committed raw value, through the slot cache.
func (s *State) getCommitted(key []byte) ([]byte, error) {
	if v, ok := s.cache.Get(key); ok {
		return v, nil
	}
	v, err := s.kv.Get(key)
	if err != nil {
		if s.kv.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	s.cache.Put(key, v)
	return v, nil
}

// build changes via journal of stackedMap.
func (s *State) changes() map[meter.Address]*changedObject {
	changes := make(map[meter.Address]*changedObject)

	// get or create changedObject
	getOrNewObj := func(addr meter.Address) *changedObject {
		if obj, ok := changes[addr]; ok {
			return obj
		}
		obj := &changedObject{data: *s.getAccount(addr)}
		changes[addr] = obj
		return obj
	}

	// traverse journal to build changes
	s.sm.Journal(func(k, v interface{}) bool {
		switch key := k.(type) {
		case meter.Address:
			getOrNewObj(key).data = *(v.(*Account))
		case codeKey:
			getOrNewObj(meter.Address(key)).code = v.([]byte)
		case storageKey:
			o := getOrNewObj(key.addr)
			if o.storage == nil {
				o.storage = make(map[meter.Bytes32]rlp.RawValue)
			}
			o.storage[key.key] = v.(rlp.RawValue)
		}
		// abort if error occurred
		return s.err == nil
	})
	return changes
}

// the returned account should not be modified
func (s *State) getAccount(addr meter.Address) *Account {
	v, _ := s.sm.Get(addr)
	return v.(*Account)
}

func (s *State) getAccountCopy(addr meter.Address) Account {
	return *s.getAccount(addr)
}

func (s *State) updateAccount(addr meter.Address, acc *Account) {
	s.sm.Put(addr, acc)
}

// Err returns first occurred error.
func (s *State) Err() error {
	return s.err
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr meter.Address) *big.Int {
	return new(big.Int).Set(s.getAccount(addr).Balance)
}

// SetBalance set balance for the given address.
func (s *State) SetBalance(addr meter.Address, balance *big.Int) {
	cpy := s.getAccountCopy(addr)
	cpy.Balance = balance
	s.updateAccount(addr, &cpy)
}

// SubBalance stub.
func (s *State) SubBalance(addr meter.Address, amount *big.Int) bool {
	if amount.Sign() == 0 {
		return true
	}

	balance := s.GetBalance(addr)
	if balance.Cmp(amount) < 0 {
		return false
	}

	s.SetBalance(addr, new(big.Int).Sub(balance, amount))
	return true
}

// AddBalance stub.
func (s *State) AddBalance(addr meter.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	balance := s.GetBalance(addr)
	s.SetBalance(addr, new(big.Int).Add(balance, amount))
}

// Transfer moves native balance between accounts, false if sender has not enough.
func (s *State) Transfer(from, to meter.Address, amount *big.Int) bool {
	if !s.SubBalance(from, amount) {
		return false
	}
	s.AddBalance(to, amount)
	return true
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr meter.Address, key meter.Bytes32) meter.Bytes32 {
	raw := s.GetRawStorage(addr, key)
	if len(raw) == 0 {
		return meter.Bytes32{}
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		s.setError(err)
		return meter.Bytes32{}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return meter.Blake2b(raw)
	}
	return meter.BytesToBytes32(content)
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr meter.Address, key, value meter.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}

	v, err := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	if err != nil {
		return
	}
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr meter.Address, key meter.Bytes32) rlp.RawValue {
	data, _ := s.sm.Get(storageKey{addr, key})
	return data.(rlp.RawValue)
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr meter.Address, key meter.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr meter.Address, key meter.Bytes32, enc func() ([]byte, error)) {
	raw, err := enc()
	if err != nil {
		s.setError(err)
		return
	}
	s.SetRawStorage(addr, key, raw)
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr meter.Address, key meter.Bytes32, dec func([]byte) error) {
	raw := s.GetRawStorage(addr, key)
	if err := dec(raw); err != nil {
		s.setError(err)
	}
}

// GetCode returns code for the given address.
func (s *State) GetCode(addr meter.Address) []byte {
	v, _ := s.sm.Get(codeKey(addr))
	return v.([]byte)
}

// SetCode set code for the given address.
func (s *State) SetCode(addr meter.Address, code []byte) {
	var codeHash []byte
	if len(code) > 0 {
		s.sm.Put(codeKey(addr), code)
		h := meter.Keccak256(code)
		codeHash = h[:]
	} else {
		s.sm.Put(codeKey(addr), []byte(nil))
	}
	cpy := s.getAccountCopy(addr)
	cpy.CodeHash = codeHash
	s.updateAccount(addr, &cpy)
}

// Exists returns whether an account exists at the given address.
// See Account.IsEmpty()
func (s *State) Exists(addr meter.Address) bool {
	return !s.getAccount(addr).IsEmpty()
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage makes a stage object to compute hash of changes or commit all changes.
func (s *State) Stage() *Stage {
	if s.err != nil {
		return &Stage{err: s.err}
	}
	changes := s.changes()
	if s.err != nil {
		return &Stage{err: s.err}
	}
	return newStage(s.root, s.kv, s.cache, changes)
}

type (
	storageKey struct {
		addr meter.Address
		key  meter.Bytes32
	}
	codeKey       meter.Address
	changedObject struct {
		data    Account
		storage map[meter.Bytes32]rlp.RawValue
		code    []byte
	}
)
