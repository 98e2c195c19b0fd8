// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reserve

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"gitlab.com/jaxnet/reservecore/types/currencyid"
)

// DefaultCurrencyCacheSize is the number of CurrencyDefinitions kept hot,
// chosen generously above chaincfg.MainNetParams.MaxReserveCurrencies so a
// single import's whole reserve basket stays resident.
const DefaultCurrencyCacheSize = 256

// CurrencyCache is a content-addressed cache of currency definitions
// keyed by id (Design Notes §9 "Cyclic references" — currency definitions
// reference each other by id, never by embedding, so the cache is how a
// fractional currency's reserve definitions get resolved without
// recursion).
type CurrencyCache struct {
	lru *lru.Cache[currencyid.ID, CurrencyDefinition]
}

// NewCurrencyCache builds a CurrencyCache holding up to size entries.
func NewCurrencyCache(size int) (*CurrencyCache, error) {
	if size <= 0 {
		size = DefaultCurrencyCacheSize
	}
	c, err := lru.New[currencyid.ID, CurrencyDefinition](size)
	if err != nil {
		return nil, err
	}
	return &CurrencyCache{lru: c}, nil
}

// Put adds or refreshes def in the cache.
func (c *CurrencyCache) Put(def CurrencyDefinition) {
	c.lru.Add(def.ID, def)
}

// GetCachedCurrency implements the Context method of the same name.
func (c *CurrencyCache) GetCachedCurrency(id currencyid.ID) (CurrencyDefinition, bool) {
	return c.lru.Get(id)
}

// Len returns the number of definitions currently cached.
func (c *CurrencyCache) Len() int {
	return c.lru.Len()
}
