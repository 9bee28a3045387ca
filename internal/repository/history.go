package repository

import (
	"reroute/internal/db"
	"reroute/internal/model"
	"time"
)

type HistoryRepository struct{}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{}
}

// Save stores one attempted move. Filtered events are not history.
func (r *HistoryRepository) Save(result model.RerouteResult) error {
	if result.Skipped {
		return nil
	}

	status := model.StatusSuccess
	errMsg := ""
	if result.Err != nil {
		status = model.StatusFailed
		errMsg = result.Err.Error()
	}

	history := model.History{
		Status:  status,
		Trigger: result.Trigger,
		SrcPath: result.SrcPath,
		DstPath: result.DstPath,
		Size:    result.Size,
		ErrMsg:  errMsg,
		MovedAt: time.Now(),
	}

	return db.DB.Create(&history).Error
}

type Stats struct {
	Total   int64
	Success int64
	Failed  int64
}

func (r *HistoryRepository) GetStats() (Stats, error) {
	var stats Stats
	if err := db.DB.Model(&model.History{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}

	if err := db.DB.Model(&model.History{}).
		Where("status = ?", model.StatusSuccess).
		Count(&stats.Success).Error; err != nil {
		return stats, err
	}

	stats.Failed = stats.Total - stats.Success
	return stats, nil
}

func (r *HistoryRepository) GetRecent(limit int) ([]model.History, error) {
	var histories []model.History
	result := db.DB.
		Order("moved_at desc").
		Order("id desc").
		Limit(limit).
		Find(&histories)

	return histories, result.Error
}

func (r *HistoryRepository) GetFailed() ([]model.History, error) {
	var histories []model.History
	result := db.DB.
		Where("status = ?", model.StatusFailed).
		Order("moved_at desc").
		Order("id desc").
		Find(&histories)

	return histories, result.Error
}
