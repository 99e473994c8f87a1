// marketmcp/sources/psql/dao/dao.source_record.go
package dao

import (
	"context"
	"marketmcp/marketmcp/sources/psql/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SourceRecordDAO struct {
	DB *gorm.DB
}

func NewSourceRecordDAO(db *gorm.DB) *SourceRecordDAO {
	return &SourceRecordDAO{DB: db}
}

// UpsertSourceRecords inserts records, replacing rows that share a URL.
func (dao *SourceRecordDAO) UpsertSourceRecords(ctx context.Context, records []models.SourceRecord) error {
	if len(records) == 0 {
		return nil
	}
	return dao.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "url"}},
			UpdateAll: true,
		}).
		Create(&records).Error
}

func (dao *SourceRecordDAO) GetSourceRecordByURL(ctx context.Context, url string) (*models.SourceRecord, error) {
	var record models.SourceRecord
	err := dao.DB.WithContext(ctx).First(&record, "url = ?", url).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// CountSourceRecords reports how many distinct URLs the index holds.
func (dao *SourceRecordDAO) CountSourceRecords(ctx context.Context) (int64, error) {
	var n int64
	err := dao.DB.WithContext(ctx).Model(&models.SourceRecord{}).Count(&n).Error
	return n, err
}
