package dto

// ── 课次模块 DTO ──

// UpdateLectureRequest 更新单个课次请求（标题/速记；不触及生成的日期时间）
type UpdateLectureRequest struct {
	Title *string `json:"title" binding:"omitempty,min=1,max=200"`
	Notes *string `json:"notes"`
}

// LectureResponse 课次响应
type LectureResponse struct {
	ID          string  `json:"id"`
	CourseID    string  `json:"course_id"`
	Title       string  `json:"title"`
	Date        string  `json:"date"` // RFC3339，含会议开始时刻
	Notes       *string `json:"notes,omitempty"`
	MeetingType *string `json:"meeting_type,omitempty"`
	NoteCount   int     `json:"note_count"`
	FileCount   int     `json:"file_count"`
	TaskCount   int     `json:"task_count"`
}

// CreateLectureNoteRequest 创建课次笔记请求
type CreateLectureNoteRequest struct {
	Content string `json:"content" binding:"required"`
}

// UpdateLectureNoteRequest 更新课次笔记请求
type UpdateLectureNoteRequest struct {
	Content string `json:"content" binding:"required"`
}

// LectureNoteResponse 课次笔记响应
type LectureNoteResponse struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CreateLectureFileRequest 登记课次附件请求（文件本体由外部存储托管）
type CreateLectureFileRequest struct {
	FileName string `json:"file_name" binding:"required,max=255"`
	FileURL  string `json:"file_url"  binding:"required,url"`
}

// LectureFileResponse 课次附件响应
type LectureFileResponse struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
	FileURL  string `json:"file_url"`
}

// CreateLectureTaskRequest 创建课次任务请求
type CreateLectureTaskRequest struct {
	Title string `json:"title" binding:"required,max=200"`
}

// LectureTaskResponse 课次任务响应
type LectureTaskResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}
