package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/nteract/mythic-rtc/internal/client/storage"
	"github.com/nteract/mythic-rtc/internal/models"
)

// RecordFailure сохраняет неудачную операцию.
// Ключ: порядковый номер bucket, поэтому записи читаются в порядке добавления.
func (s *Storage) RecordFailure(ctx context.Context, op *models.FailedOperation) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	if op.ID == "" {
		op.ID = uuid.NewString()
	}

	data, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("failed to marshal failed operation: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketJournal)
		if bucket == nil {
			return fmt.Errorf("journal bucket not found")
		}

		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate sequence: %w", err)
		}

		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		if err := bucket.Put(key, data); err != nil {
			return fmt.Errorf("failed to save failed operation: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// ListFailures возвращает все неудачные операции
func (s *Storage) ListFailures(ctx context.Context) ([]*models.FailedOperation, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var ops []*models.FailedOperation

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketJournal)
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			op := &models.FailedOperation{}
			if err := json.Unmarshal(v, op); err != nil {
				return fmt.Errorf("failed to unmarshal failed operation: %w", err)
			}
			ops = append(ops, op)
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list failed operations: %w", err)
	}

	return ops, nil
}

// ClearFailures очищает журнал
func (s *Storage) ClearFailures(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketJournal); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return fmt.Errorf("failed to delete journal bucket: %w", err)
		}
		if _, err := tx.CreateBucket(bucketJournal); err != nil {
			return fmt.Errorf("failed to recreate journal bucket: %w", err)
		}
		return nil
	})
}
