// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/cache"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/log"
)

const (
	accountBucket = kv.Bucket("a")
	storageBucket = kv.Bucket("s")

	defaultCacheSize = 4096
)

var logger = log.WithContext("pkg", "state")

// Stater is the state creator.
// It owns the underlying store and a read-through cache of committed values.
type Stater struct {
	db    kv.Store
	cache *cache.LRU[string, []byte]
	mu    sync.RWMutex
}

// NewStater create a new stater.
func NewStater(db kv.Store) *Stater {
	c, err := cache.NewLRU[string, []byte](defaultCacheSize)
	if err != nil {
		panic(err)
	}
	return &Stater{db: db, cache: c}
}

// NewState create a new state object on top of the latest committed state.
func (s *Stater) NewState() *State {
	return newState(s)
}

// get reads the committed value of the given db key. Missing keys yield nil.
func (s *Stater) get(key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.cache.Get(string(key)); ok {
		metricCacheLookups().AddWithLabel(1, map[string]string{"result": "hit"})
		return v, nil
	}
	metricCacheLookups().AddWithLabel(1, map[string]string{"result": "miss"})

	v, err := s.db.Get(key)
	if err != nil {
		if !s.db.IsNotFound(err) {
			return nil, errors.Wrap(err, "read state")
		}
		v = nil
	}
	s.cache.Add(string(key), v)
	return v, nil
}

func (s *Stater) commit(changes map[string][]byte, extras []func(kv.Putter) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.db.NewBatch()
	for k, v := range changes {
		var err error
		if len(v) == 0 {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Put([]byte(k), v)
		}
		if err != nil {
			return err
		}
	}
	for _, extra := range extras {
		if err := extra(batch); err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "write state batch")
	}
	for k, v := range changes {
		s.cache.Add(k, v)
	}
	metricCommitted().Add(int64(len(changes)))

	if snap := s.cache.Stats().Snapshot(); snap.Changed {
		logger.Debug("state cache stats", "hit", snap.Hit, "miss", snap.Miss, "rate", snap.HitRate())
	}
	return nil
}
