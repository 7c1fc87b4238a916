// Copyright 2025 Lumina Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cache provides the memoized, mutation-invalidated derived data the
// planner keeps alongside its catalog.
//
// Unlike a shared data cache, a RankingCache belongs to exactly one planner and
// follows that planner's single-writer contract: it is not synchronized, and
// callers that share a planner across goroutines must guard it externally
// (e.g. with a sync.Mutex around every planner call).
package cache

import (
	"time"
)

// RankingCache memoizes the value ranking of each region.
//
// Entries are computed lazily on first use and dropped by Invalidate whenever
// the region's prices change. The cache stores what it is given and never
// computes rankings itself, which keeps the ranking algorithm a pure function.
//
// Example:
//
//	ranked, ok := c.Get("us-east")
//	if !ok {
//	    ranked = allocation.Rank(prices["us-east"], cpus)
//	    c.Put("us-east", ranked)
//	}
type RankingCache struct {
	entries map[string][]string

	// lastUpdate is when an entry was last stored or dropped.
	// Zero time means the cache has never been touched.
	lastUpdate time.Time
}

// NewRankingCache creates an empty cache.
func NewRankingCache() *RankingCache {
	return &RankingCache{
		entries: make(map[string][]string),
	}
}

// Get returns the memoized ranking for a region.
// The returned slice is shared with the cache and must not be modified.
func (c *RankingCache) Get(region string) ([]string, bool) {
	ranked, ok := c.entries[region]
	return ranked, ok
}

// Put stores the ranking for a region, replacing any previous entry.
func (c *RankingCache) Put(region string, ranked []string) {
	c.entries[region] = ranked
	c.lastUpdate = time.Now()
}

// Invalidate drops the ranking for a region so that it is recomputed on next
// use. Returns true if an entry was dropped.
func (c *RankingCache) Invalidate(region string) bool {
	if _, ok := c.entries[region]; !ok {
		return false
	}
	delete(c.entries, region)
	c.lastUpdate = time.Now()
	return true
}

// Has reports whether a ranking is memoized for the region.
func (c *RankingCache) Has(region string) bool {
	_, ok := c.entries[region]
	return ok
}

// Len returns the number of memoized regions.
func (c *RankingCache) Len() int {
	return len(c.entries)
}

// GetLastUpdate returns when an entry was last stored or dropped.
// Returns zero time if never updated.
func (c *RankingCache) GetLastUpdate() time.Time {
	return c.lastUpdate
}
