package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

// world is an in-memory stand-in for the relational store shared by the fakes.
type world struct {
	departments map[int64]*models.Department
	subjects    map[int64]*models.Subject
	classes     map[int64]*models.Class
	users       map[string]*models.User
	enrollments map[int64]*models.Enrollment
	nextID      int64
	inserts     int
	listErr     error
	// createErr is returned by subject and class inserts, simulating a
	// concurrent writer winning the unique constraint.
	createErr error
}

func newWorld() *world {
	return &world{
		departments: map[int64]*models.Department{},
		subjects:    map[int64]*models.Subject{},
		classes:     map[int64]*models.Class{},
		users:       map[string]*models.User{},
		enrollments: map[int64]*models.Enrollment{},
	}
}

func (w *world) id() int64 {
	w.nextID++
	return w.nextID
}

func (w *world) stamp() time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(w.nextID) * time.Minute)
}

func (w *world) addDepartment(code, name string) *models.Department {
	d := &models.Department{ID: w.id(), Code: code, Name: name}
	d.CreatedAt = w.stamp()
	w.departments[d.ID] = d
	return d
}

func (w *world) addSubject(departmentID int64, code, name string) *models.Subject {
	s := &models.Subject{ID: w.id(), DepartmentID: departmentID, Code: code, Name: name}
	s.CreatedAt = w.stamp()
	w.subjects[s.ID] = s
	return s
}

func (w *world) addUser(id string, role models.UserRole) *models.User {
	u := &models.User{ID: id, Name: strings.ToUpper(id[:1]) + id[1:], Email: id + "@example.com", Role: role}
	u.CreatedAt = w.stamp()
	w.nextID++
	w.users[id] = u
	return u
}

func (w *world) addClass(subjectID int64, teacherID, code string) *models.Class {
	c := &models.Class{ID: w.id(), SubjectID: subjectID, TeacherID: teacherID, InviteCode: code, Name: "Class " + code, Status: models.ClassStatusActive, Schedules: models.Schedules{}}
	c.CreatedAt = w.stamp()
	w.classes[c.ID] = c
	return c
}

func (w *world) enroll(classID int64, studentID string) *models.Enrollment {
	e := &models.Enrollment{ID: w.id(), ClassID: classID, StudentID: studentID}
	e.CreatedAt = w.stamp()
	w.enrollments[e.ID] = e
	return e
}

func fkError(constraint string) error {
	return &pq.Error{Code: "23503", Constraint: constraint}
}

// paginate orders newest first and slices the requested page.
func paginate[T any](items []T, created func(T) time.Time, page, limit int) ([]T, int) {
	sort.SliceStable(items, func(i, j int) bool { return created(items[i]).After(created(items[j])) })
	total := len(items)
	offset := models.Offset(page, limit)
	if offset >= total {
		return []T{}, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return items[offset:end], total
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

type fakeDepartments struct{ w *world }

func (f fakeDepartments) List(_ context.Context, filter models.DepartmentFilter) ([]models.Department, int, error) {
	if f.w.listErr != nil {
		return nil, 0, f.w.listErr
	}
	var out []models.Department
	for _, d := range f.w.departments {
		if filter.Search == "" || contains(d.Name, filter.Search) || contains(d.Code, filter.Search) {
			out = append(out, *d)
		}
	}
	items, total := paginate(out, func(d models.Department) time.Time { return d.CreatedAt }, filter.Page, filter.Limit)
	return items, total, nil
}

func (f fakeDepartments) FindByID(_ context.Context, id int64) (*models.Department, error) {
	if d, ok := f.w.departments[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (f fakeDepartments) FindByCode(_ context.Context, code string) (*models.Department, error) {
	for _, d := range f.w.departments {
		if d.Code == code {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (f fakeDepartments) Create(_ context.Context, d *models.Department) error {
	d.ID = f.w.id()
	d.CreatedAt = f.w.stamp()
	cp := *d
	f.w.departments[d.ID] = &cp
	f.w.inserts++
	return nil
}

func (f fakeDepartments) Update(_ context.Context, d *models.Department) error {
	cp := *d
	f.w.departments[d.ID] = &cp
	return nil
}

func (f fakeDepartments) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.w.departments[id]; !ok {
		return false, nil
	}
	for _, s := range f.w.subjects {
		if s.DepartmentID == id {
			return false, fkError("subjects_department_id_fkey")
		}
	}
	delete(f.w.departments, id)
	return true, nil
}

func (f fakeDepartments) CountSubjects(_ context.Context, id int64) (int, error) {
	n := 0
	for _, s := range f.w.subjects {
		if s.DepartmentID == id {
			n++
		}
	}
	return n, nil
}

type fakeSubjects struct{ w *world }

func (f fakeSubjects) detail(s *models.Subject) models.SubjectDetail {
	out := models.SubjectDetail{Subject: *s}
	if d, ok := f.w.departments[s.DepartmentID]; ok {
		out.Department = *d
	}
	return out
}

func (f fakeSubjects) List(_ context.Context, filter models.SubjectFilter) ([]models.SubjectDetail, int, error) {
	if f.w.listErr != nil {
		return nil, 0, f.w.listErr
	}
	var out []models.SubjectDetail
	for _, s := range f.w.subjects {
		d := f.detail(s)
		if filter.Search != "" && !contains(s.Name, filter.Search) && !contains(s.Code, filter.Search) {
			continue
		}
		if filter.Department != "" && !contains(d.Department.Name, filter.Department) {
			continue
		}
		if filter.DepartmentID > 0 && s.DepartmentID != filter.DepartmentID {
			continue
		}
		out = append(out, d)
	}
	items, total := paginate(out, func(s models.SubjectDetail) time.Time { return s.CreatedAt }, filter.Page, filter.Limit)
	return items, total, nil
}

func (f fakeSubjects) FindByID(_ context.Context, id int64) (*models.SubjectDetail, error) {
	if s, ok := f.w.subjects[id]; ok {
		d := f.detail(s)
		return &d, nil
	}
	return nil, nil
}

func (f fakeSubjects) FindByCode(_ context.Context, code string) (*models.Subject, error) {
	for _, s := range f.w.subjects {
		if s.Code == code {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f fakeSubjects) Create(_ context.Context, s *models.Subject) error {
	if f.w.createErr != nil {
		return f.w.createErr
	}
	s.ID = f.w.id()
	s.CreatedAt = f.w.stamp()
	cp := *s
	f.w.subjects[s.ID] = &cp
	f.w.inserts++
	return nil
}

func (f fakeSubjects) Update(_ context.Context, s *models.Subject) error {
	cp := *s
	f.w.subjects[s.ID] = &cp
	return nil
}

func (f fakeSubjects) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.w.subjects[id]; !ok {
		return false, nil
	}
	for _, c := range f.w.classes {
		if c.SubjectID == id {
			return false, fkError("classes_subject_id_fkey")
		}
	}
	delete(f.w.subjects, id)
	return true, nil
}

func (f fakeSubjects) CountClasses(_ context.Context, id int64) (int, error) {
	n := 0
	for _, c := range f.w.classes {
		if c.SubjectID == id {
			n++
		}
	}
	return n, nil
}

type fakeClasses struct{ w *world }

func (f fakeClasses) List(_ context.Context, filter models.ClassFilter) ([]models.Class, int, error) {
	if f.w.listErr != nil {
		return nil, 0, f.w.listErr
	}
	var out []models.Class
	for _, c := range f.w.classes {
		if filter.Search != "" && !contains(c.Name, filter.Search) && !contains(c.InviteCode, filter.Search) {
			continue
		}
		if filter.SubjectID > 0 && c.SubjectID != filter.SubjectID {
			continue
		}
		if filter.TeacherID != "" && c.TeacherID != filter.TeacherID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		out = append(out, *c)
	}
	items, total := paginate(out, func(c models.Class) time.Time { return c.CreatedAt }, filter.Page, filter.Limit)
	return items, total, nil
}

func (f fakeClasses) ListBySubject(_ context.Context, subjectID int64, page, limit int) ([]models.ClassWithTeacher, int, error) {
	var out []models.ClassWithTeacher
	for _, c := range f.w.classes {
		if c.SubjectID == subjectID {
			item := models.ClassWithTeacher{Class: *c}
			if u, ok := f.w.users[c.TeacherID]; ok {
				item.Teacher = *u
			}
			out = append(out, item)
		}
	}
	items, total := paginate(out, func(c models.ClassWithTeacher) time.Time { return c.CreatedAt }, page, limit)
	return items, total, nil
}

func (f fakeClasses) FindByID(_ context.Context, id int64) (*models.ClassDetail, error) {
	c, ok := f.w.classes[id]
	if !ok {
		return nil, nil
	}
	out := models.ClassDetail{Class: *c}
	if s, ok := f.w.subjects[c.SubjectID]; ok {
		out.Subject = *s
		if d, ok := f.w.departments[s.DepartmentID]; ok {
			out.Department = *d
		}
	}
	if u, ok := f.w.users[c.TeacherID]; ok {
		out.Teacher = *u
	}
	return &out, nil
}

func (f fakeClasses) FindByInviteCode(_ context.Context, code string) (*models.Class, error) {
	for _, c := range f.w.classes {
		if c.InviteCode == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f fakeClasses) Create(_ context.Context, c *models.Class) error {
	if f.w.createErr != nil {
		return f.w.createErr
	}
	c.ID = f.w.id()
	c.CreatedAt = f.w.stamp()
	cp := *c
	f.w.classes[c.ID] = &cp
	f.w.inserts++
	return nil
}

func (f fakeClasses) Update(_ context.Context, c *models.Class) error {
	cp := *c
	f.w.classes[c.ID] = &cp
	return nil
}

func (f fakeClasses) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.w.classes[id]; !ok {
		return false, nil
	}
	delete(f.w.classes, id)
	for eid, e := range f.w.enrollments {
		if e.ClassID == id {
			delete(f.w.enrollments, eid)
		}
	}
	return true, nil
}

func (f fakeClasses) CountEnrollments(_ context.Context, classID int64) (int, error) {
	n := 0
	for _, e := range f.w.enrollments {
		if e.ClassID == classID {
			n++
		}
	}
	return n, nil
}

type fakeUsers struct{ w *world }

func (f fakeUsers) List(_ context.Context, filter models.UserFilter) ([]models.User, int, error) {
	if f.w.listErr != nil {
		return nil, 0, f.w.listErr
	}
	var out []models.User
	for _, u := range f.w.users {
		if filter.Search != "" && !contains(u.Name, filter.Search) && !contains(u.Email, filter.Search) {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		out = append(out, *u)
	}
	items, total := paginate(out, func(u models.User) time.Time { return u.CreatedAt }, filter.Page, filter.Limit)
	return items, total, nil
}

func (f fakeUsers) ListRoster(_ context.Context, filter models.RosterFilter) ([]models.User, int, error) {
	inScope := func(c *models.Class) bool {
		if filter.Scope == models.RosterScopeClass {
			return c.ID == filter.ScopeID
		}
		return c.SubjectID == filter.ScopeID
	}
	seen := map[string]bool{}
	var out []models.User
	add := func(id string) {
		u, ok := f.w.users[id]
		if ok && !seen[id] && u.Role == filter.Role {
			seen[id] = true
			out = append(out, *u)
		}
	}
	for _, c := range f.w.classes {
		if !inScope(c) {
			continue
		}
		if filter.Role == models.RoleTeacher {
			add(c.TeacherID)
			continue
		}
		for _, e := range f.w.enrollments {
			if e.ClassID == c.ID {
				add(e.StudentID)
			}
		}
	}
	items, total := paginate(out, func(u models.User) time.Time { return u.CreatedAt }, filter.Page, filter.Limit)
	return items, total, nil
}

func (f fakeUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.w.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.w.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f fakeUsers) Create(_ context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = fmt.Sprintf("user-%d", f.w.id())
	}
	u.CreatedAt = f.w.stamp()
	cp := *u
	f.w.users[u.ID] = &cp
	f.w.inserts++
	return nil
}

func (f fakeUsers) Update(_ context.Context, u *models.User) error {
	cp := *u
	f.w.users[u.ID] = &cp
	return nil
}

func (f fakeUsers) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := f.w.users[id]; !ok {
		return false, nil
	}
	for _, c := range f.w.classes {
		if c.TeacherID == id {
			return false, fkError("classes_teacher_id_fkey")
		}
	}
	delete(f.w.users, id)
	return true, nil
}

type fakeEnrollments struct{ w *world }

func (f fakeEnrollments) detail(e *models.Enrollment) models.EnrollmentDetail {
	out := models.EnrollmentDetail{Enrollment: *e}
	if c, ok := f.w.classes[e.ClassID]; ok {
		out.Class = *c
	}
	if u, ok := f.w.users[e.StudentID]; ok {
		out.Student = *u
	}
	return out
}

func (f fakeEnrollments) List(_ context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	if f.w.listErr != nil {
		return nil, 0, f.w.listErr
	}
	var out []models.EnrollmentDetail
	for _, e := range f.w.enrollments {
		if filter.ClassID > 0 && e.ClassID != filter.ClassID {
			continue
		}
		if filter.StudentID != "" && e.StudentID != filter.StudentID {
			continue
		}
		out = append(out, f.detail(e))
	}
	items, total := paginate(out, func(e models.EnrollmentDetail) time.Time { return e.CreatedAt }, filter.Page, filter.Limit)
	return items, total, nil
}

func (f fakeEnrollments) FindByID(_ context.Context, id int64) (*models.EnrollmentDetail, error) {
	if e, ok := f.w.enrollments[id]; ok {
		d := f.detail(e)
		return &d, nil
	}
	return nil, nil
}

func (f fakeEnrollments) FindByClassAndStudent(_ context.Context, classID int64, studentID string) (*models.Enrollment, error) {
	for _, e := range f.w.enrollments {
		if e.ClassID == classID && e.StudentID == studentID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (f fakeEnrollments) Create(_ context.Context, e *models.Enrollment) error {
	e.ID = f.w.id()
	e.CreatedAt = f.w.stamp()
	cp := *e
	f.w.enrollments[e.ID] = &cp
	f.w.inserts++
	return nil
}

func (f fakeEnrollments) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.w.enrollments[id]; !ok {
		return false, nil
	}
	delete(f.w.enrollments, id)
	return true, nil
}

// memoryCache is a CacheRepository backed by a map of JSON-free values.
type memoryCache struct {
	values      map[string]interface{}
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]interface{}{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	v, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	switch d := dest.(type) {
	case *models.StatsOverview:
		*d = *(v.(*models.StatsOverview))
	case *models.StatsCharts:
		*d = *(v.(*models.StatsCharts))
	default:
		return errors.New("unsupported cache type")
	}
	return nil
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.values[key] = value
	return nil
}

func (m *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	m.invalidated = append(m.invalidated, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range m.values {
		if strings.HasPrefix(k, prefix) {
			delete(m.values, k)
		}
	}
	return nil
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }
