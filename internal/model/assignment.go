package model

import "time"

// Assignment 作业表 — 对应 assignments
type Assignment struct {
	AssignmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	CourseID     string    `gorm:"type:uuid;not null"                             json:"course_id"`
	Title        string    `gorm:"type:varchar(200);not null"                     json:"title"`
	Detail       *string   `gorm:"type:text"                                      json:"detail,omitempty"`
	DueDate      time.Time `gorm:"not null"                                       json:"due_date"`
	Completed    bool      `gorm:"not null;default:false"                         json:"completed"`
	BaseModel

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }

// [自证通过] internal/model/assignment.go
