package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"coursepilot/backend/internal/model"
	"coursepilot/backend/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

// ── Mock TermRepository ──

type mockTermRepo struct {
	terms map[string]*model.Term
}

func newMockTermRepo() *mockTermRepo {
	return &mockTermRepo{terms: make(map[string]*model.Term)}
}

func (m *mockTermRepo) Create(_ context.Context, term *model.Term) error {
	if term.TermID == "" {
		term.TermID = "term-" + term.Name
	}
	m.terms[term.TermID] = term
	return nil
}

func (m *mockTermRepo) GetByID(_ context.Context, id, userID string) (*model.Term, error) {
	if t, ok := m.terms[id]; ok && t.UserID == userID {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTermRepo) List(_ context.Context, userID string) ([]model.Term, error) {
	var result []model.Term
	for _, t := range m.terms {
		if t.UserID == userID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockTermRepo) Update(_ context.Context, term *model.Term) error {
	m.terms[term.TermID] = term
	return nil
}

func (m *mockTermRepo) Delete(_ context.Context, id, _ string) error {
	delete(m.terms, id)
	return nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course
	// lectures 引用 mockLectureRepo，保证 ReplaceSchedule 语义一致
	lectures *mockLectureRepo
	// meetings courseID → 会议集合
	meetings map[string][]model.CourseMeeting

	nextID int
}

func newMockCourseRepo(lectures *mockLectureRepo) *mockCourseRepo {
	return &mockCourseRepo{
		courses:  make(map[string]*model.Course),
		lectures: lectures,
		meetings: make(map[string][]model.CourseMeeting),
	}
}

func (m *mockCourseRepo) CreateWithSchedule(_ context.Context, course *model.Course, meetings []model.CourseMeeting, lectures []model.Lecture) error {
	if course.CourseID == "" {
		m.nextID++
		course.CourseID = fmt.Sprintf("course-%d", m.nextID)
	}
	m.courses[course.CourseID] = course
	m.replaceDerived(course.CourseID, meetings, lectures)
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id, userID string) (*model.Course, error) {
	c, ok := m.courses[id]
	if !ok || c.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	// 与真实仓储一致：返回课程时带上会议模式
	copied := *c
	copied.Meetings = m.meetings[id]
	return &copied, nil
}

func (m *mockCourseRepo) List(_ context.Context, userID string) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		if c.UserID != userID {
			continue
		}
		copied := *c
		copied.Meetings = m.meetings[c.CourseID]
		copied.Lectures = m.lectures.byCourse(c.CourseID)
		result = append(result, copied)
	}
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) ReplaceSchedule(_ context.Context, course *model.Course, meetings []model.CourseMeeting, lectures []model.Lecture) error {
	m.courses[course.CourseID] = course
	m.replaceDerived(course.CourseID, meetings, lectures)
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	delete(m.courses, id)
	delete(m.meetings, id)
	m.lectures.deleteByCourse(id)
	return nil
}

func (m *mockCourseRepo) UnbindTerm(_ context.Context, termID string) error {
	for _, c := range m.courses {
		if c.TermID != nil && *c.TermID == termID {
			c.TermID = nil
		}
	}
	return nil
}

func (m *mockCourseRepo) replaceDerived(courseID string, meetings []model.CourseMeeting, lectures []model.Lecture) {
	for i := range meetings {
		meetings[i].CourseID = courseID
	}
	m.meetings[courseID] = meetings
	for i := range lectures {
		lectures[i].CourseID = courseID
	}
	m.lectures.replaceByCourse(courseID, lectures)
}

// ── Mock CourseMeetingRepository ──

type mockCourseMeetingRepo struct {
	course *mockCourseRepo
}

func (m *mockCourseMeetingRepo) ListByCourse(_ context.Context, courseID string) ([]model.CourseMeeting, error) {
	return m.course.meetings[courseID], nil
}

// ── Mock LectureRepository ──

type mockLectureRepo struct {
	lectures map[string]*model.Lecture
	notes    map[string]*model.LectureNote
	files    map[string]*model.LectureFile
	tasks    map[string]*model.LectureTask

	// courseOwner courseID → userID，供 ListByUser/GetByID 的归属判断
	courseOwner map[string]string

	nextID int
}

func newMockLectureRepo() *mockLectureRepo {
	return &mockLectureRepo{
		lectures:    make(map[string]*model.Lecture),
		notes:       make(map[string]*model.LectureNote),
		files:       make(map[string]*model.LectureFile),
		tasks:       make(map[string]*model.LectureTask),
		courseOwner: make(map[string]string),
	}
}

func (m *mockLectureRepo) ListByCourse(_ context.Context, courseID string) ([]model.Lecture, error) {
	return m.byCourse(courseID), nil
}

func (m *mockLectureRepo) ListByUser(_ context.Context, userID string) ([]model.Lecture, error) {
	var result []model.Lecture
	for _, lec := range m.lectures {
		if m.courseOwner[lec.CourseID] == userID {
			result = append(result, *lec)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

func (m *mockLectureRepo) GetByID(_ context.Context, id, userID string) (*model.Lecture, error) {
	lec, ok := m.lectures[id]
	if !ok || m.courseOwner[lec.CourseID] != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return lec, nil
}

func (m *mockLectureRepo) Update(_ context.Context, lecture *model.Lecture) error {
	m.lectures[lecture.LectureID] = lecture
	return nil
}

func (m *mockLectureRepo) Delete(_ context.Context, id string) error {
	delete(m.lectures, id)
	return nil
}

func (m *mockLectureRepo) ReplaceByCourse(_ context.Context, courseID string, lectures []model.Lecture) error {
	for i := range lectures {
		lectures[i].CourseID = courseID
	}
	m.replaceByCourse(courseID, lectures)
	return nil
}

func (m *mockLectureRepo) AddNote(_ context.Context, note *model.LectureNote) error {
	if note.NoteID == "" {
		m.nextID++
		note.NoteID = fmt.Sprintf("note-%d", m.nextID)
	}
	note.CreatedAt = time.Now()
	note.UpdatedAt = time.Now()
	m.notes[note.NoteID] = note
	return nil
}

func (m *mockLectureRepo) UpdateNote(_ context.Context, note *model.LectureNote) error {
	m.notes[note.NoteID] = note
	return nil
}

func (m *mockLectureRepo) DeleteNote(_ context.Context, noteID string) error {
	delete(m.notes, noteID)
	return nil
}

func (m *mockLectureRepo) GetNote(_ context.Context, noteID, lectureID string) (*model.LectureNote, error) {
	if n, ok := m.notes[noteID]; ok && n.LectureID == lectureID {
		return n, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLectureRepo) AddFile(_ context.Context, file *model.LectureFile) error {
	if file.FileID == "" {
		m.nextID++
		file.FileID = fmt.Sprintf("file-%d", m.nextID)
	}
	m.files[file.FileID] = file
	return nil
}

func (m *mockLectureRepo) DeleteFile(_ context.Context, fileID string) error {
	delete(m.files, fileID)
	return nil
}

func (m *mockLectureRepo) AddTask(_ context.Context, task *model.LectureTask) error {
	if task.TaskID == "" {
		m.nextID++
		task.TaskID = fmt.Sprintf("task-%d", m.nextID)
	}
	m.tasks[task.TaskID] = task
	return nil
}

func (m *mockLectureRepo) UpdateTask(_ context.Context, task *model.LectureTask) error {
	m.tasks[task.TaskID] = task
	return nil
}

func (m *mockLectureRepo) DeleteTask(_ context.Context, taskID string) error {
	delete(m.tasks, taskID)
	return nil
}

func (m *mockLectureRepo) GetTask(_ context.Context, taskID, lectureID string) (*model.LectureTask, error) {
	if t, ok := m.tasks[taskID]; ok && t.LectureID == lectureID {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// byCourse 按日期升序返回课程课次
func (m *mockLectureRepo) byCourse(courseID string) []model.Lecture {
	var result []model.Lecture
	for _, lec := range m.lectures {
		if lec.CourseID == courseID {
			result = append(result, *lec)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result
}

func (m *mockLectureRepo) replaceByCourse(courseID string, lectures []model.Lecture) {
	m.deleteByCourse(courseID)
	for i := range lectures {
		lec := lectures[i]
		if lec.LectureID == "" {
			m.nextID++
			lec.LectureID = fmt.Sprintf("lec-%d", m.nextID)
		}
		m.lectures[lec.LectureID] = &lec
	}
}

func (m *mockLectureRepo) deleteByCourse(courseID string) {
	for id, lec := range m.lectures {
		if lec.CourseID == courseID {
			delete(m.lectures, id)
		}
	}
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[string]*model.Assignment
	courseOwner map[string]string

	nextID int
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{
		assignments: make(map[string]*model.Assignment),
		courseOwner: make(map[string]string),
	}
}

func (m *mockAssignmentRepo) Create(_ context.Context, assignment *model.Assignment) error {
	if assignment.AssignmentID == "" {
		m.nextID++
		assignment.AssignmentID = fmt.Sprintf("asg-%d", m.nextID)
	}
	m.assignments[assignment.AssignmentID] = assignment
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id, userID string) (*model.Assignment, error) {
	a, ok := m.assignments[id]
	if !ok || m.courseOwner[a.CourseID] != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (m *mockAssignmentRepo) ListByCourse(_ context.Context, courseID string) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if a.CourseID == courseID {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DueDate.Before(result[j].DueDate)
	})
	return result, nil
}

func (m *mockAssignmentRepo) ListUpcoming(_ context.Context, userID string, after time.Time) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if m.courseOwner[a.CourseID] != userID {
			continue
		}
		if a.Completed || !a.DueDate.After(after) {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DueDate.Before(result[j].DueDate)
	})
	return result, nil
}

func (m *mockAssignmentRepo) Update(_ context.Context, assignment *model.Assignment) error {
	m.assignments[assignment.AssignmentID] = assignment
	return nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string) error {
	delete(m.assignments, id)
	return nil
}

// ── 聚合辅助 ──

// testRepos 聚合所有 mock repo 便于 seed 数据
type testRepos struct {
	user       *mockUserRepo
	term       *mockTermRepo
	course     *mockCourseRepo
	lecture    *mockLectureRepo
	assignment *mockAssignmentRepo
}

func newTestRepos() *testRepos {
	lecture := newMockLectureRepo()
	return &testRepos{
		user:       newMockUserRepo(),
		term:       newMockTermRepo(),
		course:     newMockCourseRepo(lecture),
		lecture:    lecture,
		assignment: newMockAssignmentRepo(),
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		User:          r.user,
		Term:          r.term,
		Course:        r.course,
		CourseMeeting: &mockCourseMeetingRepo{course: r.course},
		Lecture:       r.lecture,
		Assignment:    r.assignment,
	}
}

// seedCourse 种子课程并登记归属，返回课程 ID
func (r *testRepos) seedCourse(course *model.Course) string {
	if course.CourseID == "" {
		r.course.nextID++
		course.CourseID = fmt.Sprintf("course-%d", r.course.nextID)
	}
	r.course.courses[course.CourseID] = course
	r.lecture.courseOwner[course.CourseID] = course.UserID
	r.assignment.courseOwner[course.CourseID] = course.UserID
	return course.CourseID
}
