// Copyright 2024 The Solaris Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lru

import (
	"fmt"
	"sync"

	"github.com/solarisdb/commons/golibs/errors"
)

type (
	// BoundedCache is a key-value container which keeps up to capacity entries. When
	// a new key is added into the full cache, the least recently used entry is pulled out.
	// Both Get and Set make the touched key the most recently used one, other read
	// operations (Contains, Keys, Values, Items, Len) don't change the order.
	//
	// All the methods are go-routine safe, the object is guarded by one mutex.
	BoundedCache[K comparable, V any] struct {
		lock      sync.Mutex
		capacity  int
		items     map[K]*element[K, V]
		order     recencyList[K, V]
		onDeleteF OnDeleteElemF[K, V]
	}

	// Entry is the key-value pair returned by BoundedCache.Items()
	Entry[K comparable, V any] struct {
		Key   K
		Value V
	}

	element[K comparable, V any] struct {
		prev *element[K, V]
		next *element[K, V]
		key  K
		val  V
	}

	// recencyList is a doubly-linked list with the sentinel root element. root.next is
	// the least recently used element, root.prev is the most recently used one.
	recencyList[K comparable, V any] struct {
		root element[K, V]
		len  int
	}
)

var (
	// ErrNotFound is returned when the key is not in the cache
	ErrNotFound = fmt.Errorf("key is not found in the cache: %w", errors.ErrNotExist)
	// ErrInvalidCapacity is returned when a cache is constructed with negative capacity
	ErrInvalidCapacity = fmt.Errorf("cache capacity cannot be negative: %w", errors.ErrInvalid)
)

// NewBoundedCache creates the new BoundedCache which holds up to capacity entries. Zero
// capacity is allowed, such a cache never keeps anything.
func NewBoundedCache[K comparable, V any](capacity int) (*BoundedCache[K, V], error) {
	return NewBoundedCacheWithDelete[K, V](capacity, nil)
}

// NewBoundedCacheWithDelete creates the new BoundedCache like NewBoundedCache does. The
// onDeleteF (if not nil) is called for every value the cache drops by itself: the
// evicted entries, the values replaced by Set() and the entries deleted by Clear(). The values returned by Remove() and
// Pop() are passed to the caller and the onDeleteF is not called for them. The function is
// called under the cache lock, so it must not call the cache methods.
func NewBoundedCacheWithDelete[K comparable, V any](capacity int, onDeleteF OnDeleteElemF[K, V]) (*BoundedCache[K, V], error) {
	if capacity < 0 {
		return nil, fmt.Errorf("NewBoundedCache(): capacity=%d: %w", capacity, ErrInvalidCapacity)
	}
	bc := new(BoundedCache[K, V])
	bc.capacity = capacity
	bc.items = make(map[K]*element[K, V], min(capacity, 1024))
	bc.order.init()
	bc.onDeleteF = onDeleteF
	return bc, nil
}

// Get returns the value by the key k and makes k the most recently used key. ErrNotFound
// is returned if there is no such key in the cache.
func (bc *BoundedCache[K, V]) Get(k K) (V, error) {
	bc.lock.Lock()
	defer bc.lock.Unlock()
	e, ok := bc.items[k]
	if !ok {
		return *new(V), ErrNotFound
	}
	bc.order.moveToBack(e)
	return e.val, nil
}

// GetOrDefault works like Get, but returns def if the key is not found. Nothing
// is stored in the cache for the missed key.
func (bc *BoundedCache[K, V]) GetOrDefault(k K, def V) V {
	bc.lock.Lock()
	defer bc.lock.Unlock()
	e, ok := bc.items[k]
	if !ok {
		return def
	}
	bc.order.moveToBack(e)
	return e.val
}

// Set stores v by the key k and makes k the most recently used key. If k is new and
// the cache is full, the least recently used entry is evicted first. Replacing the value
// of an existing key never causes eviction. Set does nothing for the zero capacity cache.
func (bc *BoundedCache[K, V]) Set(k K, v V) {
	bc.lock.Lock()
	defer bc.lock.Unlock()
	if bc.capacity == 0 {
		return
	}
	if e, ok := bc.items[k]; ok {
		old := e.val
		e.val = v
		bc.order.moveToBack(e)
		if bc.onDeleteF != nil {
			bc.onDeleteF(k, old)
		}
		return
	}
	if len(bc.items) >= bc.capacity {
		bc.evict()
	}
	e := &element[K, V]{key: k, val: v}
	bc.items[k] = e
	bc.order.pushBack(e)
}

// Remove deletes the entry by the key k and returns its value. ErrNotFound is returned
// if the key is not in the cache.
func (bc *BoundedCache[K, V]) Remove(k K) (V, error) {
	bc.lock.Lock()
	defer bc.lock.Unlock()
	e, ok := bc.items[k]
	if !ok {
		return *new(V), ErrNotFound
	}
	bc.delete(e)
	return e.val, nil
}

// Pop works like Remove, but if the key is not found and the default value is provided,
// the default value is returned without an error. Only the first default value is
// considered. Without the default value the missing key is reported by ErrNotFound.
func (bc *BoundedCache[K, V]) Pop(k K, def ...V) (V, error) {
	bc.lock.Lock()
	defer bc.lock.Unlock()
	e, ok := bc.items[k]
	if !ok {
		if len(def) > 0 {
			return def[0], nil
		}
		return *new(V), ErrNotFound
	}
	bc.delete(e)
	return e.val, nil
}

// Clear removes all the entries from the cache. The capacity stays the same. It returns
// the number of entries deleted.
func (bc *BoundedCache[K, V]) Clear() int {
	bc.lock.Lock()
	defer bc.lock.Unlock()
	removed := len(bc.items)
	if bc.onDeleteF != nil {
		for e := bc.order.front(); e != nil; e = bc.order.next(e) {
			bc.onDeleteF(e.key, e.val)
		}
	}
	clear(bc.items)
	bc.order.init()
	return removed
}

// Contains returns whether the key k is in the cache. The recency order is not changed.
func (bc *BoundedCache[K, V]) Contains(k K) bool {
	bc.lock.Lock()
	defer bc.lock.Unlock()
	_, ok := bc.items[k]
	return ok
}

// Len returns the number of entries in the cache
func (bc *BoundedCache[K, V]) Len() int {
	bc.lock.Lock()
	defer bc.lock.Unlock()
	return len(bc.items)
}

// Capacity returns the maximum number of entries the cache may keep
func (bc *BoundedCache[K, V]) Capacity() int {
	return bc.capacity
}

// Keys returns the keys ordered from the least recently used to the most recently used one.
func (bc *BoundedCache[K, V]) Keys() []K {
	bc.lock.Lock()
	defer bc.lock.Unlock()
	res := make([]K, 0, len(bc.items))
	for e := bc.order.front(); e != nil; e = bc.order.next(e) {
		res = append(res, e.key)
	}
	return res
}

// Values returns the values in the same order as Keys() does
func (bc *BoundedCache[K, V]) Values() []V {
	bc.lock.Lock()
	defer bc.lock.Unlock()
	res := make([]V, 0, len(bc.items))
	for e := bc.order.front(); e != nil; e = bc.order.next(e) {
		res = append(res, e.val)
	}
	return res
}

// Items returns the key-value pairs in the same order as Keys() does
func (bc *BoundedCache[K, V]) Items() []Entry[K, V] {
	bc.lock.Lock()
	defer bc.lock.Unlock()
	res := make([]Entry[K, V], 0, len(bc.items))
	for e := bc.order.front(); e != nil; e = bc.order.next(e) {
		res = append(res, Entry[K, V]{Key: e.key, Value: e.val})
	}
	return res
}

// String implements fmt.Stringer
func (bc *BoundedCache[K, V]) String() string {
	return fmt.Sprintf("{len: %d, capacity: %d}", bc.Len(), bc.capacity)
}

// evict removes the least recently used element, must be called under the lock
func (bc *BoundedCache[K, V]) evict() {
	e := bc.order.front()
	if e == nil {
		return
	}
	bc.delete(e)
	if bc.onDeleteF != nil {
		bc.onDeleteF(e.key, e.val)
	}
}

func (bc *BoundedCache[K, V]) delete(e *element[K, V]) {
	bc.order.unlink(e)
	delete(bc.items, e.key)
}

func (l *recencyList[K, V]) init() {
	l.root.next = &l.root
	l.root.prev = &l.root
	l.len = 0
}

func (l *recencyList[K, V]) front() *element[K, V] {
	if l.len == 0 {
		return nil
	}
	return l.root.next
}

func (l *recencyList[K, V]) next(e *element[K, V]) *element[K, V] {
	if e.next == &l.root {
		return nil
	}
	return e.next
}

func (l *recencyList[K, V]) pushBack(e *element[K, V]) {
	last := l.root.prev
	e.prev = last
	e.next = &l.root
	last.next = e
	l.root.prev = e
	l.len++
}

func (l *recencyList[K, V]) unlink(e *element[K, V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev, e.next = nil, nil
	l.len--
}

func (l *recencyList[K, V]) moveToBack(e *element[K, V]) {
	if l.root.prev == e {
		return
	}
	l.unlink(e)
	l.pushBack(e)
}
