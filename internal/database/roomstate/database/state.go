package database

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jack-games/jackofhearts/internal/database"
	"github.com/jack-games/jackofhearts/internal/database/roomstate/model"
	bolt "go.etcd.io/bbolt"
)

const bucket = "rooms"

var (
	ErrEntryNotFound  = fmt.Errorf("not found")
	ErrBucketNotFound = fmt.Errorf("bucket not found")
)

func New(db *database.DB) *DB {
	return &DB{sDB: db}
}

type DB struct {
	sDB *database.DB
}

func (db *DB) FetchAll() ([]model.State, error) {
	var list []model.State

	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}

		if err := b.ForEach(func(k, v []byte) error {
			var state model.State
			if err := json.Unmarshal(v, &state); err != nil {
				return fmt.Errorf("json unmarshal error, %w", err)
			}
			list = append(list, state)
			return nil
		}); err != nil {
			return fmt.Errorf("bucket for each: %w", err)
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}

	return list, nil
}

func (db *DB) Fetch(id string) (model.State, error) {
	var state model.State

	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrEntryNotFound
		}

		bytes := b.Get([]byte(id))
		if bytes == nil {
			return ErrEntryNotFound
		}

		if err := json.Unmarshal(bytes, &state); err != nil {
			return fmt.Errorf("json unmarshal error, %w", err)
		}

		return nil
	}); err != nil {
		return state, err
	}

	return state, nil
}

func (db *DB) Add(m model.State) error {
	tx, err := db.sDB.DB.Begin(true)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	defer tx.Rollback() // nolint

	b := tx.Bucket([]byte(bucket))
	if b == nil {
		bs, err := tx.CreateBucket([]byte(bucket))
		if err != nil {
			return fmt.Errorf("can not create bucket: %w", err)
		}
		b = bs
	}

	bytes, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if err := b.Put([]byte(m.ID), bytes); err != nil {
		return fmt.Errorf("put to bucket error: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (db *DB) Delete(id string) error {
	tx, err := db.sDB.DB.Begin(true)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	defer tx.Rollback() // nolint

	b := tx.Bucket([]byte(bucket))
	if b == nil {
		return ErrBucketNotFound
	}

	if err := b.Delete([]byte(id)); err != nil {
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return ErrBucketNotFound
		}
		return fmt.Errorf("delete from bucket: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
