package store

import (
	"context"

	"github.com/MOOQU/CF-License-Server/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NextSequence atomically increments the named counter and returns the new value
func (s *Store) NextSequence(ctx context.Context, name string) (int64, error) {
	var counter models.Counter

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Counter{Name: name}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Counter{}).
			Where("name = ?", name).
			UpdateColumn("value", gorm.Expr("value + ?", 1)).Error; err != nil {
			return err
		}
		return tx.Where("name = ?", name).First(&counter).Error
	})
	if err != nil {
		return 0, err
	}
	return counter.Value, nil
}

// ensureCounterAtLeast raises the named counter to floor if it is lower
func ensureCounterAtLeast(tx *gorm.DB, name string, floor int64) (bool, error) {
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Counter{Name: name}).Error; err != nil {
		return false, err
	}
	result := tx.Model(&models.Counter{}).
		Where("name = ? AND value < ?", name, floor).
		UpdateColumn("value", floor)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
