// MIT License
//
// Copyright (c) 2026 Kestrel Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package persistence

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/flowchartsman/retry"
	bolt "go.etcd.io/bbolt"
)

// BoltDriver journals events in a bbolt file, one bucket per actor, keyed by
// big-endian sequence number so cursor order is sequence order.
type BoltDriver struct {
	path string
	db   *bolt.DB
}

// enforce compilation error
var _ Driver = (*BoltDriver)(nil)

// NewBoltDriver creates a driver journaling into the file at path.
func NewBoltDriver(path string) *BoltDriver {
	return &BoltDriver{path: path}
}

// Open opens the underlying bbolt file. Opening retries briefly because the
// file lock may still be held by a process shutting down.
func (d *BoltDriver) Open(ctx context.Context) error {
	retrier := retry.NewRetrier(5, 100*time.Millisecond, time.Second)
	return retrier.RunContext(ctx, func(context.Context) error {
		db, err := bolt.Open(d.path, 0o600, &bolt.Options{Timeout: time.Second})
		if err != nil {
			return fmt.Errorf("open journal %s: %w", d.path, err)
		}
		d.db = db
		return nil
	})
}

// Persist appends the payload to the actor's bucket and returns the assigned
// sequence number.
func (d *BoltDriver) Persist(_ context.Context, actorID string, payload []byte) (uint64, error) {
	var seq uint64
	err := d.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(actorID))
		if err != nil {
			return err
		}
		seq, err = bucket.NextSequence()
		if err != nil {
			return err
		}
		var key [8]byte
		binary.BigEndian.PutUint64(key[:], seq)
		value := make([]byte, len(payload))
		copy(value, payload)
		return bucket.Put(key[:], value)
	})
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// Recover streams the actor's journal in sequence order.
func (d *BoltDriver) Recover(ctx context.Context, actorID string) (<-chan Event, error) {
	out := make(chan Event)
	go func() {
		defer close(out)
		_ = d.db.View(func(tx *bolt.Tx) error {
			bucket := tx.Bucket([]byte(actorID))
			if bucket == nil {
				return nil
			}
			cursor := bucket.Cursor()
			for key, value := cursor.First(); key != nil; key, value = cursor.Next() {
				payload := make([]byte, len(value))
				copy(payload, value)
				event := Event{
					ActorID:    actorID,
					SequenceNr: binary.BigEndian.Uint64(key),
					Payload:    payload,
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}()
	return out, nil
}

// Close closes the underlying bbolt file.
func (d *BoltDriver) Close(context.Context) error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}
