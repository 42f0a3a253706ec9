package nullifier

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAlreadyExists = errors.New("nullifier: a live record already exists for this key")

type Registry interface {
	CreateIfAbsent(key string, commitment [32]byte, domain [DomainLen]byte, now, validityWindow int64) (*Record, error)
	GetByKey(key string) (*Record, error)
	PurgeExpired(now int64) (int64, error)
}

type registry struct {
	db *gorm.DB
}

func NewRegistry(db *gorm.DB) Registry {
	return &registry{db: db}
}

// CreateIfAbsent registers a nullifier, or fails with ErrAlreadyExists if a
// live record holds the key. An expired record is superseded in place. The
// existence check and the write run in one transaction with the row locked,
// and a racing insert that slips past the check is caught by the unique
// index, so exactly one of two concurrent submissions on the same key wins.
func (r *registry) CreateIfAbsent(key string, commitment [32]byte, domain [DomainLen]byte, now, validityWindow int64) (*Record, error) {
	var result Record

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing Record
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("nullifier_key = ?", key).
			First(&existing).Error

		if err == nil {
			if existing.Live(now) {
				return ErrAlreadyExists
			}

			existing.Commitment = commitment[:]
			existing.Domain = domain[:]
			existing.CreatedAt = now
			existing.ExpiresAt = now + validityWindow
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			result = existing
			return nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		record := Record{
			NullifierKey: key,
			Commitment:   commitment[:],
			Domain:       domain[:],
			CreatedAt:    now,
			ExpiresAt:    now + validityWindow,
		}
		if err := tx.Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyExists
			}
			return err
		}
		result = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *registry) GetByKey(key string) (*Record, error) {
	var record Record
	err := r.db.Where("nullifier_key = ?", key).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// PurgeExpired deletes records whose expiry has passed. Expiry itself is
// logical; this sweep only reclaims storage and is run from the cron worker.
func (r *registry) PurgeExpired(now int64) (int64, error) {
	result := r.db.Where("expires_at <= ?", now).Delete(&Record{})
	return result.RowsAffected, result.Error
}
