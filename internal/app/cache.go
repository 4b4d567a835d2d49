package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/okian/synastry/internal/domain/chart"
	"github.com/okian/synastry/internal/domain/synastry"
	"github.com/okian/synastry/pkg/metrics"
)

// reportCache memoises pair reports by a hash of both inputs.
// A nil cache is valid and never hits.
type reportCache struct {
	lru *lru.Cache[string, synastry.PairReport]
}

func newReportCache(size int) *reportCache {
	if size <= 0 {
		return nil
	}
	c, err := lru.New[string, synastry.PairReport](size)
	if err != nil {
		return nil
	}
	return &reportCache{lru: c}
}

// pairKey hashes the canonical JSON of (a, b). Order matters: the two
// directions are not symmetric in names or overlays.
func pairKey(a, b chart.Person) (string, bool) {
	raw, err := json.Marshal([2]chart.Person{a, b})
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), true
}

func (c *reportCache) get(key string) (synastry.PairReport, bool) {
	if c == nil {
		return synastry.PairReport{}, false
	}
	r, ok := c.lru.Get(key)
	if ok {
		metrics.RecordCacheHit()
	} else {
		metrics.RecordCacheMiss()
	}
	return r, ok
}

func (c *reportCache) add(key string, r synastry.PairReport) {
	if c == nil {
		return
	}
	c.lru.Add(key, r)
}

func (c *reportCache) len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
