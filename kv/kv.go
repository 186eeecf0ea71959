// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Getter wraps methods for getting kvs.
type Getter interface {
	// Get value for given key.
	// An error returned if key not found. It can be checked via IsNotFound.
	Get(key []byte) (value []byte, err error)
	Has(key []byte) (bool, error)
	IsNotFound(error) bool
}

// Putter wraps methods for putting kvs.
type Putter interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// GetPutter wraps methods for getting/putting kvs.
type GetPutter interface {
	Getter
	Putter
}

// Batch defines batch of putting ops.
type Batch interface {
	Putter

	Len() int
	Write() error
}

// Iterator to iterates kvs.
type Iterator interface {
	Next() bool
	Release()
	Error() error

	Key() []byte
	Value() []byte
}

// Range is the key range.
type Range struct {
	Start []byte // start of key range (included)
	Limit []byte // limit of key range (excluded)
}

// Store defines the full functional kv store.
type Store interface {
	GetPutter

	NewBatch() Batch
	Iterate(r Range) Iterator
}

// GetFunc implements Getter.Get.
type GetFunc func(key []byte) ([]byte, error)

func (f GetFunc) Get(key []byte) ([]byte, error) { return f(key) }

// HasFunc implements Getter.Has.
type HasFunc func(key []byte) (bool, error)

func (f HasFunc) Has(key []byte) (bool, error) { return f(key) }

// IsNotFoundFunc implements Getter.IsNotFound.
type IsNotFoundFunc func(err error) bool

func (f IsNotFoundFunc) IsNotFound(err error) bool { return f(err) }

// PutFunc implements Putter.Put.
type PutFunc func(key, val []byte) error

func (f PutFunc) Put(key, val []byte) error { return f(key, val) }

// DeleteFunc implements Putter.Delete.
type DeleteFunc func(key []byte) error

func (f DeleteFunc) Delete(key []byte) error { return f(key) }
