package service

import (
	"testing"
	"time"

	"coursepilot/backend/internal/model"
)

// ── 测试辅助 ──

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func meeting(dow model.Weekday, startHour, startMinute, endHour, endMinute int, meetingType string) model.CourseMeeting {
	return model.CourseMeeting{
		DayOfWeek:   dow,
		StartHour:   startHour,
		StartMinute: startMinute,
		EndHour:     endHour,
		EndMinute:   endMinute,
		MeetingType: meetingType,
	}
}

// ════════════════════════════════════════════════════════════
// ExpandLectures 测试
// ════════════════════════════════════════════════════════════

// 两周范围内的单个周二会议应产出恰好 2 个课次
func TestExpandLectures_SingleWeeklyMeeting(t *testing.T) {
	// 2026-09-06 是周日，范围含 9/8 与 9/15 两个周二
	meetings := []model.CourseMeeting{
		meeting(model.Tuesday, 9, 0, 9, 50, "Class"),
	}

	lectures := ExpandLectures("", meetings, day(2026, 9, 6), day(2026, 9, 19), time.UTC)

	if len(lectures) != 2 {
		t.Fatalf("期望 2 个课次，实际 %d", len(lectures))
	}

	want := []time.Time{
		time.Date(2026, 9, 8, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC),
	}
	for i, lec := range lectures {
		if !lec.Date.Equal(want[i]) {
			t.Errorf("课次[%d] 期望日期 %v，实际 %v", i, want[i], lec.Date)
		}
		if lec.Title != "Class" {
			t.Errorf("课次[%d] 期望标题 Class，实际 %s", i, lec.Title)
		}
		if lec.MeetingType == nil || *lec.MeetingType != "Class" {
			t.Errorf("课次[%d] 期望类型 Class，实际 %v", i, lec.MeetingType)
		}
	}
}

// 同一天两个会议：每个扫描日各产出一个课次，同日内按开始时刻排序
func TestExpandLectures_TwoMeetingsSameDay(t *testing.T) {
	meetings := []model.CourseMeeting{
		// 故意倒序声明，验证组内排序
		meeting(model.Tuesday, 14, 0, 15, 0, "Discussion"),
		meeting(model.Tuesday, 9, 0, 9, 50, "Class"),
	}

	lectures := ExpandLectures("", meetings, day(2026, 9, 6), day(2026, 9, 19), time.UTC)

	if len(lectures) != 4 {
		t.Fatalf("期望 4 个课次（2天×2会议），实际 %d", len(lectures))
	}

	// 每个周二先 09:00 Class 后 14:00 Discussion
	for i := 0; i < len(lectures); i += 2 {
		if lectures[i].Date.Hour() != 9 {
			t.Errorf("课次[%d] 期望 09:00 开始，实际 %v", i, lectures[i].Date)
		}
		if lectures[i+1].Date.Hour() != 14 {
			t.Errorf("课次[%d] 期望 14:00 开始，实际 %v", i+1, lectures[i+1].Date)
		}
	}
}

// 输出整体按日期升序
func TestExpandLectures_OrderedByDate(t *testing.T) {
	meetings := []model.CourseMeeting{
		meeting(model.Monday, 10, 0, 11, 0, "Class"),
		meeting(model.Friday, 8, 0, 9, 0, "Lab"),
	}

	lectures := ExpandLectures("", meetings, day(2026, 9, 1), day(2026, 9, 30), time.UTC)

	for i := 1; i < len(lectures); i++ {
		if lectures[i].Date.Before(lectures[i-1].Date) {
			t.Fatalf("课次[%d] %v 早于前一个 %v，输出未按日期排序",
				i, lectures[i].Date, lectures[i-1].Date)
		}
	}
}

// 范围两端为含闭区间：起止日若命中星期几也产出课次
func TestExpandLectures_InclusiveBounds(t *testing.T) {
	// 2026-09-08 与 2026-09-15 都是周二
	meetings := []model.CourseMeeting{
		meeting(model.Tuesday, 9, 0, 10, 0, "Class"),
	}

	lectures := ExpandLectures("", meetings, day(2026, 9, 8), day(2026, 9, 15), time.UTC)

	if len(lectures) != 2 {
		t.Fatalf("含两端范围应产出 2 个课次，实际 %d", len(lectures))
	}
}

// 无会议模式不产出课次
func TestExpandLectures_NoMeetings(t *testing.T) {
	lectures := ExpandLectures("", nil, day(2026, 9, 1), day(2026, 12, 31), time.UTC)
	if len(lectures) != 0 {
		t.Errorf("无会议模式期望 0 个课次，实际 %d", len(lectures))
	}
}

// 范围倒置降级为空结果
func TestExpandLectures_InvertedRange(t *testing.T) {
	meetings := []model.CourseMeeting{
		meeting(model.Monday, 10, 0, 11, 0, "Class"),
	}

	lectures := ExpandLectures("", meetings, day(2026, 9, 30), day(2026, 9, 1), time.UTC)
	if len(lectures) != 0 {
		t.Errorf("范围倒置期望 0 个课次，实际 %d", len(lectures))
	}
}

// 单日范围：命中则恰好 1 个
func TestExpandLectures_SingleDayRange(t *testing.T) {
	meetings := []model.CourseMeeting{
		meeting(model.Tuesday, 9, 0, 10, 0, "Class"),
	}

	// 2026-09-08 周二
	hit := ExpandLectures("", meetings, day(2026, 9, 8), day(2026, 9, 8), time.UTC)
	if len(hit) != 1 {
		t.Errorf("单日命中期望 1 个课次，实际 %d", len(hit))
	}

	// 2026-09-09 周三
	miss := ExpandLectures("", meetings, day(2026, 9, 9), day(2026, 9, 9), time.UTC)
	if len(miss) != 0 {
		t.Errorf("单日未命中期望 0 个课次，实际 %d", len(miss))
	}
}

// 同一输入重复展开结果完全一致（再生成的幂等基础）
func TestExpandLectures_Deterministic(t *testing.T) {
	meetings := []model.CourseMeeting{
		meeting(model.Monday, 10, 0, 11, 0, "Class"),
		meeting(model.Wednesday, 10, 0, 11, 0, "Class"),
		meeting(model.Friday, 13, 0, 14, 30, "Lab"),
	}

	first := ExpandLectures("", meetings, day(2026, 9, 1), day(2026, 12, 18), time.UTC)
	second := ExpandLectures("", meetings, day(2026, 9, 1), day(2026, 12, 18), time.UTC)

	if len(first) != len(second) {
		t.Fatalf("两次展开数量不一致: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Date.Equal(second[i].Date) || first[i].Title != second[i].Title {
			t.Fatalf("两次展开第 %d 项不一致: %+v vs %+v", i, first[i], second[i])
		}
	}
}

// 课次总数 = 各会议在范围内的命中周数之和
func TestExpandLectures_CountAcrossRange(t *testing.T) {
	meetings := []model.CourseMeeting{
		meeting(model.Monday, 10, 0, 11, 0, ""),
		meeting(model.Thursday, 10, 0, 11, 0, ""),
	}

	// 2026-09-07（周一）~ 2026-10-04（周日）：4个完整周
	lectures := ExpandLectures("", meetings, day(2026, 9, 7), day(2026, 10, 4), time.UTC)

	if len(lectures) != 8 {
		t.Errorf("4周×2会议期望 8 个课次，实际 %d", len(lectures))
	}
}

// 标题取值顺序：显式标题 > 会议类型 > 兜底
func TestExpandLectures_TitleFallback(t *testing.T) {
	rangeStart, rangeEnd := day(2026, 9, 8), day(2026, 9, 8) // 周二

	withTitle := ExpandLectures("算法导论", []model.CourseMeeting{
		meeting(model.Tuesday, 9, 0, 10, 0, "Class"),
	}, rangeStart, rangeEnd, time.UTC)
	if withTitle[0].Title != "算法导论" {
		t.Errorf("显式标题应优先，实际 %s", withTitle[0].Title)
	}

	withType := ExpandLectures("", []model.CourseMeeting{
		meeting(model.Tuesday, 9, 0, 10, 0, "Lab"),
	}, rangeStart, rangeEnd, time.UTC)
	if withType[0].Title != "Lab" {
		t.Errorf("无显式标题时应取会议类型，实际 %s", withType[0].Title)
	}

	fallback := ExpandLectures("", []model.CourseMeeting{
		meeting(model.Tuesday, 9, 0, 10, 0, ""),
	}, rangeStart, rangeEnd, time.UTC)
	if fallback[0].Title != defaultLectureTitle {
		t.Errorf("期望兜底标题 %s，实际 %s", defaultLectureTitle, fallback[0].Title)
	}
	if fallback[0].MeetingType != nil {
		t.Errorf("空会议类型不应写入课次，实际 %v", *fallback[0].MeetingType)
	}
}

// 范围端点带时分秒时应按日历日截断
func TestExpandLectures_TruncatesToCalendarDay(t *testing.T) {
	meetings := []model.CourseMeeting{
		meeting(model.Tuesday, 9, 0, 10, 0, "Class"),
	}

	// 端点带 23:59，周二当天仍应命中
	rangeStart := time.Date(2026, 9, 8, 23, 59, 0, 0, time.UTC)
	rangeEnd := time.Date(2026, 9, 8, 23, 59, 59, 0, time.UTC)

	lectures := ExpandLectures("", meetings, rangeStart, rangeEnd, time.UTC)
	if len(lectures) != 1 {
		t.Fatalf("期望 1 个课次，实际 %d", len(lectures))
	}
	if lectures[0].Date.Hour() != 9 || lectures[0].Date.Minute() != 0 {
		t.Errorf("课次时刻应取会议开始时刻 09:00，实际 %v", lectures[0].Date)
	}
}

// 计数律对任意长度的范围都成立，三年范围不丢课次
func TestExpandLectures_LongRangeCountLaw(t *testing.T) {
	meetings := []model.CourseMeeting{
		meeting(model.Monday, 10, 0, 10, 50, "Class"),
	}

	// 2026-01-05（周一）~ 2029-01-01（周一）：含两端共 157 个周一
	lectures := ExpandLectures("", meetings, day(2026, 1, 5), day(2029, 1, 1), time.UTC)

	if len(lectures) != 157 {
		t.Fatalf("三年范围期望 157 个周一课次，实际 %d", len(lectures))
	}
	if first := lectures[0].Date; first.Year() != 2026 || first.Month() != 1 || first.Day() != 5 {
		t.Errorf("首个课次应落在 2026-01-05，实际 %v", first)
	}
	if last := lectures[len(lectures)-1].Date; last.Year() != 2029 || last.Month() != 1 || last.Day() != 1 {
		t.Errorf("末个课次应落在 2029-01-01，实际 %v", last)
	}
	for i, lec := range lectures {
		if model.WeekdayOf(lec.Date.Weekday()) != model.Monday {
			t.Fatalf("课次[%d] 不是周一: %v", i, lec.Date)
		}
	}
}

// DATE 列扫描出的 UTC 零点端点在负偏移时区下不应回退一天
func TestExpandLectures_NegativeOffsetKeepsCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	meetings := []model.CourseMeeting{
		meeting(model.Sunday, 9, 0, 9, 50, "Class"),
	}

	// 端点为 UTC 零点，2026-09-06 是周日；按分量截断后单日范围应命中
	lectures := ExpandLectures("", meetings, day(2026, 9, 6), day(2026, 9, 6), loc)

	if len(lectures) != 1 {
		t.Fatalf("期望单日范围命中周日课次，实际 %d 个", len(lectures))
	}
	got := lectures[0].Date
	if got.Year() != 2026 || got.Month() != 9 || got.Day() != 6 {
		t.Errorf("课次应落在 2026-09-06，实际 %v", got)
	}
}

// ════════════════════════════════════════════════════════════
// Weekday 编号测试
// ════════════════════════════════════════════════════════════

func TestWeekdayOf_SundayFirst(t *testing.T) {
	cases := []struct {
		date time.Time
		want model.Weekday
	}{
		{day(2026, 9, 6), model.Sunday},    // 周日 → 1
		{day(2026, 9, 7), model.Monday},    // 周一 → 2
		{day(2026, 9, 9), model.Wednesday}, // 周三 → 4
		{day(2026, 9, 12), model.Saturday}, // 周六 → 7
	}
	for _, c := range cases {
		if got := model.WeekdayOf(c.date.Weekday()); got != c.want {
			t.Errorf("%v 期望编号 %d，实际 %d", c.date.Format("2006-01-02"), c.want, got)
		}
	}
}

func TestWeekday_MondayFirstRoundTrip(t *testing.T) {
	for w := model.Sunday; w <= model.Saturday; w++ {
		idx := w.MondayFirstIndex()
		if idx < 0 || idx > 6 {
			t.Errorf("Weekday %d 的周一优先下标越界: %d", w, idx)
		}
		if back := model.FromMondayFirstIndex(idx); back != w {
			t.Errorf("Weekday %d 往返转换失败: idx=%d back=%d", w, idx, back)
		}
	}
}
