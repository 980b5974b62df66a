// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package lrucache

import (
	"github.com/klauspost/compress/zstd"
)

// Blobs is an LRU cache of byte slices. Values are stored as zstd frames when
// compression makes them smaller and are decompressed transparently by Get.
type Blobs struct {
	cache *Cache[blob]
	enc   *zstd.Encoder
	dec   *zstd.Decoder
}

type blob struct {
	data       []byte
	compressed bool
}

// NewBlobs creates a blob cache holding at most size entries.
func NewBlobs(size int) (*Blobs, error) {
	cache, err := New[blob](size)
	if err != nil {
		return nil, err
	}

	// A nil writer/reader lets us use EncodeAll/DecodeAll without streams.
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}

	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, err
	}

	return &Blobs{cache: cache, enc: enc, dec: dec}, nil
}

// Add stores a copy of value under key and reports whether an eviction occurred.
func (b *Blobs) Add(key string, value []byte) bool {
	if len(value) > 0 {
		if frame := b.enc.EncodeAll(value, nil); len(frame) < len(value) {
			return b.cache.Add(key, blob{data: frame, compressed: true})
		}
	}

	return b.cache.Add(key, blob{data: append([]byte(nil), value...)})
}

// Get returns a copy of the value for key. A value whose frame fails to
// decode is reported as missing.
func (b *Blobs) Get(key string) ([]byte, bool) {
	v, ok := b.cache.Get(key)
	if !ok {
		return nil, false
	}

	if !v.compressed {
		return append([]byte(nil), v.data...), true
	}

	decoded, err := b.dec.DecodeAll(v.data, nil)
	if err != nil {
		return nil, false
	}

	return decoded, true
}

// GetFrame returns the stored zstd frame for key. The second result is false
// when key is missing or its value is stored uncompressed.
func (b *Blobs) GetFrame(key string) ([]byte, bool) {
	v, ok := b.cache.Get(key)
	if !ok || !v.compressed {
		return nil, false
	}

	return append([]byte(nil), v.data...), true
}

// Remove deletes key and reports whether it was present.
func (b *Blobs) Remove(key string) bool { return b.cache.Remove(key) }

// Len returns the number of entries.
func (b *Blobs) Len() int { return b.cache.Len() }
