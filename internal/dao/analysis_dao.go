package dao

import (
	"errors"

	"cybersentinel/internal/models"
	apperrors "cybersentinel/pkg/errors"

	"gorm.io/gorm"
)

type AnalysisDAO interface {
	SaveRecord(record *models.AnalysisRecord) error
	GetRecordByUUID(uuid string) (*models.AnalysisRecord, error)
	ListRecords(limit int) ([]models.AnalysisRecord, error)
	ListRecordsWithPagination(page, limit int) ([]models.AnalysisRecord, int64, error)
	DeleteRecord(uuid string) error
}

type analysisDAO struct {
	db *gorm.DB
}

func NewAnalysisDAO(db *gorm.DB) AnalysisDAO {
	return &analysisDAO{db: db}
}

func (dao *analysisDAO) SaveRecord(record *models.AnalysisRecord) error {
	return dao.db.Create(record).Error
}

func (dao *analysisDAO) GetRecordByUUID(uuid string) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	if err := dao.db.Where("uuid = ?", uuid).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (dao *analysisDAO) ListRecords(limit int) ([]models.AnalysisRecord, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	var records []models.AnalysisRecord
	// raw payloads stay out of list views
	if err := dao.db.Omit("raw_json").Order("created_at desc").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (dao *analysisDAO) ListRecordsWithPagination(page, limit int) ([]models.AnalysisRecord, int64, error) {
	var records []models.AnalysisRecord
	var total int64

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	offset := (page - 1) * limit

	if err := dao.db.Model(&models.AnalysisRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := dao.db.Omit("raw_json").Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (dao *analysisDAO) DeleteRecord(uuid string) error {
	result := dao.db.Where("uuid = ?", uuid).Delete(&models.AnalysisRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrRecordNotFound
	}
	return nil
}
