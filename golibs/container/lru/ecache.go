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

// ECache implements container with limited size capacity and LRU (Least Recently Used) pull out discipline.
// The elements can be created automatically if they are not found in the cache via the createNewF function call,
// which is provided via the ECache creation (see NewECache). ECache allows to operate with not comparable type as
// a primary key. For mapping the type to comparable one the MapToInnerKeyF should be specified.
//
// The elements are kept in the BoundedCache, so the recency order and the eviction rules are the same.
type ECache[PK any, K comparable, V any] struct {
	lock           sync.Mutex
	items          *BoundedCache[K, pair[PK, V]]
	inflight       map[K]*creation
	createNewF     CreatePoolElemF[PK, V]
	onDeleteF      OnDeleteElemF[PK, V]
	mapToInnerKeyF MapToInnerKeyF[PK, K]
}

// creation is a value being created by GetOrCreate. The stale creation result is
// returned to its caller, but it is not stored in the cache.
type creation struct {
	done  chan struct{}
	stale bool
}

type pair[PK any, V any] struct {
	pk PK
	v  V
}

// CreatePoolElemF function type for creating new cache elements
type CreatePoolElemF[K any, V any] func(k K) (V, error)

// OnDeleteElemF function type is called for the elements pulled out from a cache
type OnDeleteElemF[K any, V any] func(k K, v V)

// MapToInnerKeyF turns a primary key into the comparable one
type MapToInnerKeyF[V any, K any] func(V) K

// NewECache creates new ECache object. It expects the maximum cache size (maxSize), the function which maps
// the primary key to the comparable one, and the create new element function in the parameters. The onDeleteF
// may be nil.
func NewECache[PK any, K comparable, V any](maxSize int, toComparableF MapToInnerKeyF[PK, K], createNewF CreatePoolElemF[PK, V], onDeleteF OnDeleteElemF[PK, V]) (*ECache[PK, K, V], error) {
	if createNewF == nil {
		return nil, fmt.Errorf("NewECache(): createNewF must not be nil: %w", errors.ErrInvalid)
	}
	if toComparableF == nil {
		return nil, fmt.Errorf("NewECache(): toComparableF must not be nil: %w", errors.ErrInvalid)
	}
	p := new(ECache[PK, K, V])
	var err error
	p.items, err = NewBoundedCacheWithDelete[K, pair[PK, V]](maxSize, p.onPulledOut)
	if err != nil {
		return nil, err
	}
	p.inflight = make(map[K]*creation)
	p.createNewF = createNewF
	p.onDeleteF = onDeleteF
	p.mapToInnerKeyF = toComparableF
	return p, nil
}

// GetOrCreate returns an existing cache element or creates the new one by its key. Only one
// go-routine calls createNewF for a key at a time, others wait for the result. If the
// creation fails the error is returned and nothing is stored. If the key is removed
// (Remove or Clear) while its value is being created, the created value is returned
// to the creator, but it is not stored in the cache.
func (p *ECache[PK, K, V]) GetOrCreate(pk PK) (V, error) {
	k := p.mapToInnerKeyF(pk)
	for {
		if res, err := p.items.Get(k); err == nil {
			return res.v, nil
		}

		p.lock.Lock()
		// the value could be stored by the creator after the Get() above
		if res, err := p.items.Get(k); err == nil {
			p.lock.Unlock()
			return res.v, nil
		}
		c, watcher := p.inflight[k]
		if !watcher {
			c = &creation{done: make(chan struct{})}
			p.inflight[k] = c
		}
		p.lock.Unlock()

		// if watcher is true, it means that another goroutine already creating the new item,
		// so it needs to wait for the result instead of requesting new value.
		if watcher {
			<-c.done
			continue
		}

		v, err := p.createNewF(pk)

		p.lock.Lock()
		close(c.done)
		delete(p.inflight, k)
		if err == nil && !c.stale {
			p.items.Set(k, pair[PK, V]{pk, v})
		}
		p.lock.Unlock()

		return v, err
	}
}

// Remove deletes the element by key k. It returns true if the element
// was in the collection and false if it was not found. The value being created
// for the key at the moment is not stored in the cache.
func (p *ECache[PK, K, V]) Remove(pk PK) bool {
	k := p.mapToInnerKeyF(pk)
	p.lock.Lock()
	if c, ok := p.inflight[k]; ok {
		c.stale = true
	}
	v, err := p.items.Remove(k)
	p.lock.Unlock()
	if err != nil {
		return false
	}
	if p.onDeleteF != nil {
		p.onDeleteF(v.pk, v.v)
	}
	return true
}

// Clear cleans up the cache removing all elements. The function will return number of the elements deleted.
// The values being created at the moment are not stored in the cache.
func (p *ECache[PK, K, V]) Clear() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	for _, c := range p.inflight {
		c.stale = true
	}
	return p.items.Clear()
}

// Len returns the number of elements in the cache
func (p *ECache[PK, K, V]) Len() int {
	return p.items.Len()
}

func (p *ECache[PK, K, V]) onPulledOut(_ K, v pair[PK, V]) {
	if p.onDeleteF != nil {
		p.onDeleteF(v.pk, v.v)
	}
}
