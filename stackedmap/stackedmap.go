// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap

// MapGetter defines getter method of map, used as the source of a StackedMap.
type MapGetter func(key interface{}) (value interface{}, exist bool)

// StackedMap maintains maps in a stack.
// Each map inherits key/value of map that is at lower level.
// It acts as a map with save-restore/snapshot-revert manner.
type StackedMap struct {
	src    MapGetter
	levels []*level
}

type level struct {
	kvs     map[interface{}]interface{}
	journal []*journalEntry
}

type journalEntry struct {
	key   interface{}
	value interface{}
}

func newLevel() *level {
	return &level{kvs: make(map[interface{}]interface{})}
}

// New create an instance of StackedMap.
// src acts as source of data.
func New(src MapGetter) *StackedMap {
	return &StackedMap{
		src:    src,
		levels: []*level{newLevel()},
	}
}

// Depth returns depth of stack.
func (sm *StackedMap) Depth() int {
	return len(sm.levels)
}

// Push pushes a new map on stack.
// It returns stack depth before push, which is the revision to pop to.
func (sm *StackedMap) Push() int {
	sm.levels = append(sm.levels, newLevel())
	return len(sm.levels) - 1
}

// Pop pops a map from stack. The base level is never popped.
func (sm *StackedMap) Pop() {
	if len(sm.levels) <= 1 {
		return
	}
	sm.levels[len(sm.levels)-1] = nil
	sm.levels = sm.levels[:len(sm.levels)-1]
}

// PopTo pops maps until stack depth reaches depth.
func (sm *StackedMap) PopTo(depth int) {
	if depth < 1 {
		depth = 1
	}
	for len(sm.levels) > depth {
		sm.Pop()
	}
}

// Get gets value for given key.
// The second return value indicates whether the given key is found.
func (sm *StackedMap) Get(key interface{}) (interface{}, bool) {
	for i := len(sm.levels) - 1; i >= 0; i-- {
		if v, ok := sm.levels[i].kvs[key]; ok {
			return v, true
		}
	}
	return sm.src(key)
}

// Put puts key value into map at stack top.
func (sm *StackedMap) Put(key, value interface{}) {
	top := sm.levels[len(sm.levels)-1]
	top.kvs[key] = value
	top.journal = append(top.journal, &journalEntry{key: key, value: value})
}

// Journal traverses journal entries of all Put operations, in order.
// Traversal stops when cb returns false.
func (sm *StackedMap) Journal(cb func(key, value interface{}) bool) {
	for _, lvl := range sm.levels {
		for _, entry := range lvl.journal {
			if !cb(entry.key, entry.value) {
				return
			}
		}
	}
}
