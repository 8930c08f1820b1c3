package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"coursepilot/backend/internal/dto"
	"coursepilot/backend/internal/service"
	"coursepilot/backend/pkg/response"
)

// LectureHandler 课次模块 HTTP 处理器
type LectureHandler struct {
	lectureSvc service.LectureService
}

// NewLectureHandler 创建 LectureHandler
func NewLectureHandler(lectureSvc service.LectureService) *LectureHandler {
	return &LectureHandler{lectureSvc: lectureSvc}
}

// ListLectures 获取课程课次列表
// GET /api/v1/courses/:id/lectures
func (h *LectureHandler) ListLectures(c *gin.Context) {
	courseID := c.Param("id")
	if courseID == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	lectures, err := h.lectureSvc.ListByCourse(c.Request.Context(), courseID, userID)
	if err != nil {
		h.handleLectureError(c, err)
		return
	}

	response.OK(c, gin.H{"list": lectures})
}

// GetLecture 获取课次详情
// GET /api/v1/lectures/:id
func (h *LectureHandler) GetLecture(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课次ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	lecture, err := h.lectureSvc.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleLectureError(c, err)
		return
	}

	response.OK(c, lecture)
}

// UpdateLecture 更新课次标题/速记
// PUT /api/v1/lectures/:id
func (h *LectureHandler) UpdateLecture(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课次ID不能为空")
		return
	}

	var req dto.UpdateLectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	lecture, err := h.lectureSvc.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleLectureError(c, err)
		return
	}

	response.OK(c, lecture)
}

// DeleteLecture 删除单个课次
// DELETE /api/v1/lectures/:id
func (h *LectureHandler) DeleteLecture(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课次ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.lectureSvc.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleLectureError(c, err)
		return
	}

	response.OK(c, nil)
}

// ────────────────────── 笔记 ──────────────────────

// AddNote 创建课次笔记
// POST /api/v1/lectures/:id/notes
func (h *LectureHandler) AddNote(c *gin.Context) {
	lectureID := c.Param("id")
	if lectureID == "" {
		response.BadRequest(c, 10001, "课次ID不能为空")
		return
	}

	var req dto.CreateLectureNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	note, err := h.lectureSvc.AddNote(c.Request.Context(), lectureID, &req, userID)
	if err != nil {
		h.handleLectureError(c, err)
		return
	}

	response.Created(c, note)
}

// UpdateNote 更新课次笔记
// PUT /api/v1/lectures/:id/notes/:noteId
func (h *LectureHandler) UpdateNote(c *gin.Context) {
	lectureID, noteID := c.Param("id"), c.Param("noteId")
	if lectureID == "" || noteID == "" {
		response.BadRequest(c, 10001, "课次ID与笔记ID不能为空")
		return
	}

	var req dto.UpdateLectureNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	note, err := h.lectureSvc.UpdateNote(c.Request.Context(), lectureID, noteID, &req, userID)
	if err != nil {
		h.handleLectureError(c, err)
		return
	}

	response.OK(c, note)
}

// DeleteNote 删除课次笔记
// DELETE /api/v1/lectures/:id/notes/:noteId
func (h *LectureHandler) DeleteNote(c *gin.Context) {
	lectureID, noteID := c.Param("id"), c.Param("noteId")
	if lectureID == "" || noteID == "" {
		response.BadRequest(c, 10001, "课次ID与笔记ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.lectureSvc.DeleteNote(c.Request.Context(), lectureID, noteID, userID); err != nil {
		h.handleLectureError(c, err)
		return
	}

	response.OK(c, nil)
}

// ────────────────────── 附件 ──────────────────────

// AddFile 登记课次附件
// POST /api/v1/lectures/:id/files
func (h *LectureHandler) AddFile(c *gin.Context) {
	lectureID := c.Param("id")
	if lectureID == "" {
		response.BadRequest(c, 10001, "课次ID不能为空")
		return
	}

	var req dto.CreateLectureFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	file, err := h.lectureSvc.AddFile(c.Request.Context(), lectureID, &req, userID)
	if err != nil {
		h.handleLectureError(c, err)
		return
	}

	response.Created(c, file)
}

// DeleteFile 删除课次附件
// DELETE /api/v1/lectures/:id/files/:fileId
func (h *LectureHandler) DeleteFile(c *gin.Context) {
	lectureID, fileID := c.Param("id"), c.Param("fileId")
	if lectureID == "" || fileID == "" {
		response.BadRequest(c, 10001, "课次ID与附件ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.lectureSvc.DeleteFile(c.Request.Context(), lectureID, fileID, userID); err != nil {
		h.handleLectureError(c, err)
		return
	}

	response.OK(c, nil)
}

// ────────────────────── 任务 ──────────────────────

// AddTask 创建课次任务
// POST /api/v1/lectures/:id/tasks
func (h *LectureHandler) AddTask(c *gin.Context) {
	lectureID := c.Param("id")
	if lectureID == "" {
		response.BadRequest(c, 10001, "课次ID不能为空")
		return
	}

	var req dto.CreateLectureTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	task, err := h.lectureSvc.AddTask(c.Request.Context(), lectureID, &req, userID)
	if err != nil {
		h.handleLectureError(c, err)
		return
	}

	response.Created(c, task)
}

// ToggleTask 切换课次任务完成状态
// PUT /api/v1/lectures/:id/tasks/:taskId/toggle
func (h *LectureHandler) ToggleTask(c *gin.Context) {
	lectureID, taskID := c.Param("id"), c.Param("taskId")
	if lectureID == "" || taskID == "" {
		response.BadRequest(c, 10001, "课次ID与任务ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	task, err := h.lectureSvc.ToggleTask(c.Request.Context(), lectureID, taskID, userID)
	if err != nil {
		h.handleLectureError(c, err)
		return
	}

	response.OK(c, task)
}

// DeleteTask 删除课次任务
// DELETE /api/v1/lectures/:id/tasks/:taskId
func (h *LectureHandler) DeleteTask(c *gin.Context) {
	lectureID, taskID := c.Param("id"), c.Param("taskId")
	if lectureID == "" || taskID == "" {
		response.BadRequest(c, 10001, "课次ID与任务ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.lectureSvc.DeleteTask(c.Request.Context(), lectureID, taskID, userID); err != nil {
		h.handleLectureError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleLectureError 统一处理课次模块业务错误
func (h *LectureHandler) handleLectureError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLectureNotFound):
		response.NotFound(c, 14001, "课次不存在")
	case errors.Is(err, service.ErrLectureNoteNotFound):
		response.NotFound(c, 14002, "课次笔记不存在")
	case errors.Is(err, service.ErrLectureTaskNotFound):
		response.NotFound(c, 14003, "课次任务不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 13001, "课程不存在")
	default:
		response.InternalError(c)
	}
}
