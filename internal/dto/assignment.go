package dto

// ── 作业模块 DTO ──

// CreateAssignmentRequest 创建作业请求
type CreateAssignmentRequest struct {
	Title   string  `json:"title"    binding:"required,min=1,max=200"`
	Detail  *string `json:"detail"`
	DueDate string  `json:"due_date" binding:"required"` // RFC3339
}

// UpdateAssignmentRequest 更新作业请求
type UpdateAssignmentRequest struct {
	Title     *string `json:"title"    binding:"omitempty,min=1,max=200"`
	Detail    *string `json:"detail"`
	DueDate   *string `json:"due_date"`
	Completed *bool   `json:"completed"`
}

// AssignmentResponse 作业响应
type AssignmentResponse struct {
	ID         string  `json:"id"`
	CourseID   string  `json:"course_id"`
	CourseName string  `json:"course_name,omitempty"`
	Title      string  `json:"title"`
	Detail     *string `json:"detail,omitempty"`
	DueDate    string  `json:"due_date"`
	Completed  bool    `json:"completed"`
}
