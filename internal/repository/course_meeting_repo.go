package repository

import (
	"context"

	"gorm.io/gorm"

	"coursepilot/backend/internal/model"
)

// CourseMeetingRepository 每周会议数据访问接口
//
// 会议的写入统一走 CourseRepository 的事务（创建/整体替换），
// 本接口仅提供读取。
type CourseMeetingRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]model.CourseMeeting, error)
}

type courseMeetingRepo struct {
	db *gorm.DB
}

// NewCourseMeetingRepo 创建 CourseMeetingRepository 实例
func NewCourseMeetingRepo(db *gorm.DB) CourseMeetingRepository {
	return &courseMeetingRepo{db: db}
}

func (r *courseMeetingRepo) ListByCourse(ctx context.Context, courseID string) ([]model.CourseMeeting, error) {
	var meetings []model.CourseMeeting
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("day_of_week ASC, start_hour ASC, start_minute ASC").
		Find(&meetings).Error
	return meetings, err
}
