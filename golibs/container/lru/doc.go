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

/*
Package lru contains containers with limited size capacity and LRU (Least Recently Used)
pull out discipline. The containers use golang generics, so they can be instantiated for
different key and value types.

BoundedCache is the plain key-value store: Get and Set make the key the most recently
used one, and when a new key is added into the full cache the least recently used entry
is evicted. Cache and ECache are built on top of it and create the missing values
through the provided function.
*/
package lru
