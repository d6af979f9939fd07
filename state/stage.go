// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"sort"
	"time"

	"github.com/meterio/meter-nft-auction/kv"
	"github.com/meterio/meter-nft-auction/meter"
	"github.com/pkg/errors"
)

// Stage abstracts changes on accounts, codes and storage.
type Stage struct {
	err error

	kv      kv.GetPutter
	cache   *slotCache
	parent  meter.Bytes32
	entries []stageEntry
}

type stageEntry struct {
	key    []byte
	value  []byte // nil means delete
	delete bool
}

func newStage(parent meter.Bytes32, kv kv.GetPutter, cache *slotCache, changes map[meter.Address]*changedObject) *Stage {
	addrs := make([]meter.Address, 0, len(changes))
	for addr := range changes {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i][:], addrs[j][:]) < 0
	})

	entries := make([]stageEntry, 0, len(changes))
	for _, addr := range addrs {
		obj := changes[addr]
		if len(obj.code) > 0 {
			entries = append(entries, stageEntry{key: codeKeyOf(obj.data.CodeHash), value: obj.code})
		}

		keys := make([]meter.Bytes32, 0, len(obj.storage))
		for k := range obj.storage {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			return bytes.Compare(keys[i][:], keys[j][:]) < 0
		})
		for _, k := range keys {
			v := obj.storage[k]
			entries = append(entries, stageEntry{key: slotKey(addr, k), value: v, delete: len(v) == 0})
		}

		acc := &accountBatch{}
		if err := saveAccount(acc, addr, &obj.data); err != nil {
			return &Stage{err: errors.Wrapf(err, "stage account %v", addr)}
		}
		entries = append(entries, acc.entry)
	}
	return &Stage{
		kv:      kv,
		cache:   cache,
		parent:  parent,
		entries: entries,
	}
}

// accountBatch captures the single write saveAccount makes.
type accountBatch struct {
	entry stageEntry
}

func (b *accountBatch) Put(key, value []byte) error {
	b.entry = stageEntry{key: key, value: value}
	return nil
}

func (b *accountBatch) Delete(key []byte) error {
	b.entry = stageEntry{key: key, delete: true}
	return nil
}

// Hash computes the root the changes would commit to. Roots are chained:
// blake2b(parent root, ordered changes).
func (s *Stage) Hash() (meter.Bytes32, error) {
	if s.err != nil {
		return meter.Bytes32{}, s.err
	}
	hw := meter.NewBlake2b()
	hw.Write(s.parent[:])
	for _, e := range s.entries {
		hw.Write(e.key)
		if e.delete {
			hw.Write([]byte{0})
		} else {
			hw.Write([]byte{1})
			hw.Write(e.value)
		}
	}
	var root meter.Bytes32
	hw.Sum(root[:0])
	return root, nil
}

// Commit commits all changes into kv atomically and returns the new root.
func (s *Stage) Commit() (meter.Bytes32, error) {
	if s.err != nil {
		return meter.Bytes32{}, s.err
	}
	start := time.Now()
	root, _ := s.Hash()

	batch := s.kv.NewBatch()
	for _, e := range s.entries {
		var err error
		if e.delete {
			err = batch.Delete(e.key)
		} else {
			err = batch.Put(e.key, e.value)
		}
		if err != nil {
			return meter.Bytes32{}, errors.Wrap(err, "stage batch")
		}
	}
	if err := batch.Put(rootKey, root[:]); err != nil {
		return meter.Bytes32{}, errors.Wrap(err, "stage batch")
	}
	if err := batch.Write(); err != nil {
		return meter.Bytes32{}, errors.Wrap(err, "commit stage")
	}

	for _, e := range s.entries {
		if e.delete {
			s.cache.Put(e.key, nil)
		} else {
			s.cache.Put(e.key, e.value)
		}
	}

	log.Debug("commited stage", "root", root, "entries", len(s.entries), "elapsed", meter.PrettyDuration(time.Since(start)))
	return root, nil
}
