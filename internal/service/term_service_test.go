package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"coursepilot/backend/config"
	"coursepilot/backend/internal/dto"
	"coursepilot/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestTermService() (TermService, *testRepos) {
	repos := newTestRepos()
	cfg := &config.Config{
		Schedule: config.ScheduleConfig{Timezone: "UTC", DefaultTermMonths: 3},
	}
	courseSvc := NewCourseService(cfg, repos.toRepository(), zap.NewNop())
	svc := NewTermService(repos.toRepository(), courseSvc, zap.NewNop())
	return svc, repos
}

// ════════════════════════════════════════════════════════════
// Create / Update 测试
// ════════════════════════════════════════════════════════════

func TestTermService_Create_Success(t *testing.T) {
	svc, _ := setupTestTermService()

	resp, err := svc.Create(context.Background(), &dto.CreateTermRequest{
		Name:      "2026 秋季",
		StartDate: "2026-09-06",
		EndDate:   "2026-12-18",
	}, "user-1")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.Name != "2026 秋季" {
		t.Errorf("名称不符: %s", resp.Name)
	}
	if resp.StartDate != "2026-09-06" || resp.EndDate != "2026-12-18" {
		t.Errorf("日期不符: %s ~ %s", resp.StartDate, resp.EndDate)
	}
}

func TestTermService_Create_EndBeforeStart(t *testing.T) {
	svc, _ := setupTestTermService()

	_, err := svc.Create(context.Background(), &dto.CreateTermRequest{
		Name:      "倒置学期",
		StartDate: "2026-12-18",
		EndDate:   "2026-09-06",
	}, "user-1")
	if !errors.Is(err, ErrTermDateInvalid) {
		t.Errorf("期望 ErrTermDateInvalid，实际: %v", err)
	}
}

func TestTermService_Create_BadDateFormat(t *testing.T) {
	svc, _ := setupTestTermService()

	_, err := svc.Create(context.Background(), &dto.CreateTermRequest{
		Name:      "格式错误",
		StartDate: "09/06/2026",
		EndDate:   "2026-12-18",
	}, "user-1")
	if !errors.Is(err, ErrTermDateInvalid) {
		t.Errorf("期望 ErrTermDateInvalid，实际: %v", err)
	}
}

func TestTermService_Update_ValidatesMergedDates(t *testing.T) {
	svc, repos := setupTestTermService()
	seedTerm(repos)

	// 仅更新结束日期，使其早于既有开始日期
	_, err := svc.Update(context.Background(), "term-1", &dto.UpdateTermRequest{
		EndDate: strPtr("2026-09-01"),
	}, "user-1")
	if !errors.Is(err, ErrTermDateInvalid) {
		t.Errorf("期望 ErrTermDateInvalid，实际: %v", err)
	}
}

func TestTermService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestTermService()

	_, err := svc.Update(context.Background(), "nonexistent", &dto.UpdateTermRequest{}, "user-1")
	if !errors.Is(err, ErrTermNotFound) {
		t.Errorf("期望 ErrTermNotFound，实际: %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// Update 测试 — 学期日期变更联动课次再生成
// ════════════════════════════════════════════════════════════

// seedBoundCourse 种子一门绑定学期的课程：周二会议，课次已按学期范围生成
func seedBoundCourse(repos *testRepos, termID string) string {
	courseID := repos.seedCourse(&model.Course{
		UserID: "user-1",
		Name:   "算法导论",
		TermID: &termID,
	})
	m := meeting(model.Tuesday, 9, 0, 9, 50, "Class")
	m.CourseID = courseID
	repos.course.meetings[courseID] = []model.CourseMeeting{m}
	repos.lecture.replaceByCourse(courseID, ExpandLectures(
		"", repos.course.meetings[courseID], day(2026, 9, 6), day(2026, 9, 19), time.UTC))
	return courseID
}

func TestTermService_Update_DateChangeRegeneratesBoundCourses(t *testing.T) {
	svc, repos := setupTestTermService()
	term := seedTerm(repos)
	courseID := seedBoundCourse(repos, term.TermID)

	if got := len(repos.lecture.byCourse(courseID)); got != 2 {
		t.Fatalf("种子范围应含 2 个周二课次，实际 %d", got)
	}

	// 延长一周：范围新增 2026-09-22（周二）
	endDate := "2026-09-26"
	if _, err := svc.Update(context.Background(), term.TermID, &dto.UpdateTermRequest{
		EndDate: &endDate,
	}, "user-1"); err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}

	lectures := repos.lecture.byCourse(courseID)
	if len(lectures) != 3 {
		t.Fatalf("延长学期后期望 3 个课次，实际 %d", len(lectures))
	}
	last := lectures[len(lectures)-1].Date
	if last.Month() != 9 || last.Day() != 22 {
		t.Errorf("末个课次应落在 2026-09-22，实际 %v", last)
	}
}

func TestTermService_Update_NameOnlyKeepsLectures(t *testing.T) {
	svc, repos := setupTestTermService()
	term := seedTerm(repos)
	courseID := seedBoundCourse(repos, term.TermID)

	before := repos.lecture.byCourse(courseID)

	if _, err := svc.Update(context.Background(), term.TermID, &dto.UpdateTermRequest{
		Name: strPtr("2026 秋季（改）"),
	}, "user-1"); err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}

	after := repos.lecture.byCourse(courseID)
	if len(before) != len(after) {
		t.Fatalf("仅改名不应触发课次再生成: %d vs %d", len(before), len(after))
	}
	for i := range before {
		if before[i].LectureID != after[i].LectureID {
			t.Errorf("课次[%d] 标识不应变化: %s vs %s", i, before[i].LectureID, after[i].LectureID)
		}
	}
}

func TestTermService_Update_OverriddenCourseSkipped(t *testing.T) {
	svc, repos := setupTestTermService()
	term := seedTerm(repos)

	// 两端日期都被课程自带覆盖：有效范围与学期日期无关
	override := day(2026, 9, 6)
	overrideEnd := day(2026, 9, 12)
	termID := term.TermID
	courseID := repos.seedCourse(&model.Course{
		UserID:        "user-1",
		Name:          "线性代数",
		TermID:        &termID,
		TermStartDate: &override,
		TermEndDate:   &overrideEnd,
	})
	m := meeting(model.Tuesday, 9, 0, 9, 50, "Class")
	m.CourseID = courseID
	repos.course.meetings[courseID] = []model.CourseMeeting{m}
	repos.lecture.replaceByCourse(courseID, ExpandLectures(
		"", repos.course.meetings[courseID], override, overrideEnd, time.UTC))
	before := len(repos.lecture.byCourse(courseID))

	endDate := "2026-10-31"
	if _, err := svc.Update(context.Background(), term.TermID, &dto.UpdateTermRequest{
		EndDate: &endDate,
	}, "user-1"); err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}

	if after := len(repos.lecture.byCourse(courseID)); after != before {
		t.Errorf("日期全覆盖的课程不应被学期变更再生成: %d vs %d", before, after)
	}
}

// ════════════════════════════════════════════════════════════
// Delete 测试 — 弱归属解绑
// ════════════════════════════════════════════════════════════

func TestTermService_Delete_UnbindsCourses(t *testing.T) {
	svc, repos := setupTestTermService()
	term := seedTerm(repos)

	termID := term.TermID
	courseID := repos.seedCourse(&model.Course{
		UserID: "user-1",
		Name:   "算法导论",
		TermID: &termID,
	})

	if err := svc.Delete(context.Background(), termID, "user-1"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}

	// 课程不应被删除，仅解除学期绑定
	course, ok := repos.course.courses[courseID]
	if !ok {
		t.Fatal("删除学期不应删除课程")
	}
	if course.TermID != nil {
		t.Errorf("课程应已解除学期绑定，实际仍为 %v", *course.TermID)
	}

	if _, err := svc.GetByID(context.Background(), termID, "user-1"); !errors.Is(err, ErrTermNotFound) {
		t.Errorf("删除后期望 ErrTermNotFound，实际: %v", err)
	}
}

func TestTermService_Delete_OtherUsersTermHidden(t *testing.T) {
	svc, repos := setupTestTermService()
	seedTerm(repos)

	err := svc.Delete(context.Background(), "term-1", "user-2")
	if !errors.Is(err, ErrTermNotFound) {
		t.Errorf("跨用户访问期望 ErrTermNotFound，实际: %v", err)
	}
}
