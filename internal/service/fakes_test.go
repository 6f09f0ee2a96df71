package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushq/lms-api/internal/models"
	"github.com/campushq/lms-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type memoryCourseRepo struct {
	courses     map[uint]models.Course
	nextID      uint
	assignments *memoryAssignmentRepo
	archiveErr  error
}

func newMemoryCourseRepo() *memoryCourseRepo {
	return &memoryCourseRepo{courses: make(map[uint]models.Course), nextID: 1}
}

func (m *memoryCourseRepo) GetByID(ctx context.Context, id uint) (models.Course, error) {
	course, ok := m.courses[id]
	if !ok || course.DeletedAt != nil {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (m *memoryCourseRepo) TitleTaken(ctx context.Context, ownerID uint, title string, excludeID uint) (bool, error) {
	for _, course := range m.courses {
		if course.DeletedAt != nil || course.ID == excludeID {
			continue
		}
		if course.OwnerID == ownerID && course.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryCourseRepo) Create(ctx context.Context, course *models.Course) error {
	course.ID = m.nextID
	m.nextID++
	course.CreatedAt = time.Now()
	course.UpdatedAt = course.CreatedAt
	m.courses[course.ID] = *course
	return nil
}

func (m *memoryCourseRepo) Update(ctx context.Context, course *models.Course) error {
	if _, ok := m.courses[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	course.UpdatedAt = time.Now()
	m.courses[course.ID] = *course
	return nil
}

func (m *memoryCourseRepo) SoftDelete(ctx context.Context, id uint, at time.Time) error {
	course, ok := m.courses[id]
	if !ok || course.DeletedAt != nil {
		return gorm.ErrRecordNotFound
	}
	course.DeletedAt = &at
	m.courses[id] = course
	return nil
}

// Archive mirrors the transactional repository: when the forced error fires,
// neither the course nor its assignments change.
func (m *memoryCourseRepo) Archive(ctx context.Context, course *models.Course, at time.Time) (int64, error) {
	if _, ok := m.courses[course.ID]; !ok {
		return 0, gorm.ErrRecordNotFound
	}
	if m.archiveErr != nil {
		return 0, m.archiveErr
	}

	course.UpdatedAt = time.Now()
	m.courses[course.ID] = *course

	var closed int64
	if m.assignments != nil {
		for id, assignment := range m.assignments.assignments {
			if assignment.DeletedAt != nil || assignment.CourseID != course.ID {
				continue
			}
			if assignment.Status != models.AssignmentStatusPublished {
				continue
			}
			assignment.Status = models.AssignmentStatusClosed
			assignment.ClosedAt = &at
			m.assignments.assignments[id] = assignment
			closed++
		}
	}
	return closed, nil
}

func (m *memoryCourseRepo) ListPublished(ctx context.Context, filter repository.CourseFilter) ([]models.Course, int64, error) {
	matched := make([]models.Course, 0, len(m.courses))
	for _, course := range m.courses {
		if course.DeletedAt != nil || course.Status != models.CourseStatusPublished {
			continue
		}
		if filter.CategoryID != nil && (course.CategoryID == nil || *course.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.DifficultyID != nil && (course.DifficultyID == nil || *course.DifficultyID != *filter.DifficultyID) {
			continue
		}
		matched = append(matched, course)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		start := (page - 1) * filter.PageSize
		if start >= len(matched) {
			return []models.Course{}, total, nil
		}
		end := start + filter.PageSize
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (m *memoryCourseRepo) ListByOwner(ctx context.Context, ownerID uint) ([]models.Course, error) {
	results := make([]models.Course, 0)
	for _, course := range m.courses {
		if course.DeletedAt == nil && course.OwnerID == ownerID {
			results = append(results, course)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryCourseRepo) AdjustEnrollmentCount(ctx context.Context, id uint, delta int) error {
	course, ok := m.courses[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	course.EnrollmentCount += delta
	m.courses[id] = course
	return nil
}

type memoryAssignmentRepo struct {
	assignments map[uint]models.Assignment
	nextID      uint
}

func newMemoryAssignmentRepo() *memoryAssignmentRepo {
	return &memoryAssignmentRepo{assignments: make(map[uint]models.Assignment), nextID: 1}
}

func (m *memoryAssignmentRepo) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	assignment, ok := m.assignments[id]
	if !ok || assignment.DeletedAt != nil {
		return models.Assignment{}, gorm.ErrRecordNotFound
	}
	return assignment, nil
}

func (m *memoryAssignmentRepo) ListByCourse(ctx context.Context, courseID uint, statuses ...string) ([]models.Assignment, error) {
	allowed := make(map[string]struct{}, len(statuses))
	for _, status := range statuses {
		allowed[status] = struct{}{}
	}

	results := make([]models.Assignment, 0)
	for _, assignment := range m.assignments {
		if assignment.DeletedAt != nil || assignment.CourseID != courseID {
			continue
		}
		if len(allowed) > 0 {
			if _, ok := allowed[assignment.Status]; !ok {
				continue
			}
		}
		results = append(results, assignment)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryAssignmentRepo) SumWeights(ctx context.Context, courseID uint, excludeID uint) (float64, error) {
	var sum float64
	for _, assignment := range m.assignments {
		if assignment.DeletedAt != nil || assignment.CourseID != courseID || assignment.ID == excludeID {
			continue
		}
		sum += assignment.PointsWeight
	}
	return sum, nil
}

func (m *memoryAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	assignment.ID = m.nextID
	m.nextID++
	assignment.CreatedAt = time.Now()
	assignment.UpdatedAt = assignment.CreatedAt
	m.assignments[assignment.ID] = *assignment
	return nil
}

func (m *memoryAssignmentRepo) Update(ctx context.Context, assignment *models.Assignment) error {
	if _, ok := m.assignments[assignment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	assignment.UpdatedAt = time.Now()
	m.assignments[assignment.ID] = *assignment
	return nil
}

func (m *memoryAssignmentRepo) SoftDelete(ctx context.Context, id uint, at time.Time) error {
	assignment, ok := m.assignments[id]
	if !ok || assignment.DeletedAt != nil {
		return gorm.ErrRecordNotFound
	}
	assignment.DeletedAt = &at
	m.assignments[id] = assignment
	return nil
}

type memoryEnrollmentRepo struct {
	enrollments map[uint]models.Enrollment
	nextID      uint
	courses     *memoryCourseRepo
}

func newMemoryEnrollmentRepo(courses *memoryCourseRepo) *memoryEnrollmentRepo {
	return &memoryEnrollmentRepo{enrollments: make(map[uint]models.Enrollment), nextID: 1, courses: courses}
}

func (m *memoryEnrollmentRepo) GetByLearnerAndCourse(ctx context.Context, learnerID, courseID uint) (models.Enrollment, error) {
	for _, enrollment := range m.enrollments {
		if enrollment.LearnerID == learnerID && enrollment.CourseID == courseID {
			return enrollment, nil
		}
	}
	return models.Enrollment{}, gorm.ErrRecordNotFound
}

func (m *memoryEnrollmentRepo) CountActiveByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	for _, enrollment := range m.enrollments {
		if enrollment.CourseID == courseID && enrollment.Status == models.EnrollmentStatusActive {
			count++
		}
	}
	return count, nil
}

func (m *memoryEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	for _, existing := range m.enrollments {
		if existing.LearnerID == enrollment.LearnerID && existing.CourseID == enrollment.CourseID {
			return gorm.ErrDuplicatedKey
		}
	}
	enrollment.ID = m.nextID
	m.nextID++
	enrollment.CreatedAt = time.Now()
	enrollment.UpdatedAt = enrollment.CreatedAt
	m.enrollments[enrollment.ID] = *enrollment
	return nil
}

func (m *memoryEnrollmentRepo) Update(ctx context.Context, enrollment *models.Enrollment) error {
	if _, ok := m.enrollments[enrollment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	enrollment.UpdatedAt = time.Now()
	m.enrollments[enrollment.ID] = *enrollment
	return nil
}

func (m *memoryEnrollmentRepo) ListActiveByLearner(ctx context.Context, learnerID uint) ([]models.Enrollment, error) {
	results := make([]models.Enrollment, 0)
	for _, enrollment := range m.enrollments {
		if enrollment.LearnerID != learnerID || enrollment.Status != models.EnrollmentStatusActive {
			continue
		}
		if m.courses != nil {
			if course, err := m.courses.GetByID(ctx, enrollment.CourseID); err == nil {
				copied := course
				enrollment.Course = &copied
			}
		}
		results = append(results, enrollment)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryEnrollmentRepo) ActiveCourseIDs(ctx context.Context, learnerID uint, courseIDs []uint) (map[uint]bool, error) {
	wanted := make(map[uint]struct{}, len(courseIDs))
	for _, id := range courseIDs {
		wanted[id] = struct{}{}
	}
	active := make(map[uint]bool)
	for _, enrollment := range m.enrollments {
		if enrollment.LearnerID != learnerID || enrollment.Status != models.EnrollmentStatusActive {
			continue
		}
		if _, ok := wanted[enrollment.CourseID]; ok {
			active[enrollment.CourseID] = true
		}
	}
	return active, nil
}

func (m *memoryEnrollmentRepo) HasActive(ctx context.Context, learnerID, courseID uint) (bool, error) {
	for _, enrollment := range m.enrollments {
		if enrollment.LearnerID == learnerID && enrollment.CourseID == courseID && enrollment.Status == models.EnrollmentStatusActive {
			return true, nil
		}
	}
	return false, nil
}

type memorySubmissionRepo struct {
	submissions map[uint]models.Submission
	nextID      uint
	assignments *memoryAssignmentRepo
	courses     *memoryCourseRepo
}

func newMemorySubmissionRepo(assignments *memoryAssignmentRepo, courses *memoryCourseRepo) *memorySubmissionRepo {
	return &memorySubmissionRepo{
		submissions: make(map[uint]models.Submission),
		nextID:      1,
		assignments: assignments,
		courses:     courses,
	}
}

// preload mirrors the production repository, which always joins the
// assignment and its course.
func (m *memorySubmissionRepo) preload(ctx context.Context, submission models.Submission) models.Submission {
	if m.assignments == nil {
		return submission
	}
	assignment, err := m.assignments.GetByID(ctx, submission.AssignmentID)
	if err != nil {
		return submission
	}
	if m.courses != nil {
		if course, err := m.courses.GetByID(ctx, assignment.CourseID); err == nil {
			copied := course
			assignment.Course = &copied
		}
	}
	submission.Assignment = &assignment
	return submission
}

func (m *memorySubmissionRepo) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	submission, ok := m.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return m.preload(ctx, submission), nil
}

func (m *memorySubmissionRepo) GetByAssignmentAndLearner(ctx context.Context, assignmentID, learnerID uint) (models.Submission, error) {
	for _, submission := range m.submissions {
		if submission.AssignmentID == assignmentID && submission.LearnerID == learnerID {
			return m.preload(ctx, submission), nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (m *memorySubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	for _, existing := range m.submissions {
		if existing.AssignmentID == submission.AssignmentID && existing.LearnerID == submission.LearnerID {
			return gorm.ErrDuplicatedKey
		}
	}
	submission.ID = m.nextID
	m.nextID++
	submission.CreatedAt = time.Now()
	submission.UpdatedAt = submission.CreatedAt
	m.submissions[submission.ID] = *submission
	return nil
}

func (m *memorySubmissionRepo) Update(ctx context.Context, submission *models.Submission) error {
	if _, ok := m.submissions[submission.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	submission.UpdatedAt = time.Now()
	stored := *submission
	stored.Assignment = nil
	m.submissions[submission.ID] = stored
	return nil
}

func (m *memorySubmissionRepo) ListByAssignment(ctx context.Context, assignmentID uint) ([]models.Submission, error) {
	results := make([]models.Submission, 0)
	for _, submission := range m.submissions {
		if submission.AssignmentID == assignmentID {
			results = append(results, m.preload(ctx, submission))
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memorySubmissionRepo) ListByLearner(ctx context.Context, learnerID uint) ([]models.Submission, error) {
	results := make([]models.Submission, 0)
	for _, submission := range m.submissions {
		if submission.LearnerID == learnerID {
			results = append(results, m.preload(ctx, submission))
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memorySubmissionRepo) ListByLearnerAndAssignments(ctx context.Context, learnerID uint, assignmentIDs []uint) ([]models.Submission, error) {
	wanted := make(map[uint]struct{}, len(assignmentIDs))
	for _, id := range assignmentIDs {
		wanted[id] = struct{}{}
	}
	results := make([]models.Submission, 0)
	for _, submission := range m.submissions {
		if submission.LearnerID != learnerID {
			continue
		}
		if _, ok := wanted[submission.AssignmentID]; ok {
			results = append(results, m.preload(ctx, submission))
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

type memoryTaxonomyRepo struct {
	categories   map[uint]models.Category
	difficulties map[uint]models.Difficulty
	nextID       uint
}

func newMemoryTaxonomyRepo() *memoryTaxonomyRepo {
	return &memoryTaxonomyRepo{
		categories:   make(map[uint]models.Category),
		difficulties: make(map[uint]models.Difficulty),
		nextID:       1,
	}
}

func (m *memoryTaxonomyRepo) ListCategories(ctx context.Context, onlyActive bool) ([]models.Category, error) {
	results := make([]models.Category, 0)
	for _, category := range m.categories {
		if onlyActive && !category.IsActive {
			continue
		}
		results = append(results, category)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryTaxonomyRepo) GetCategory(ctx context.Context, id uint) (models.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return models.Category{}, gorm.ErrRecordNotFound
	}
	return category, nil
}

func (m *memoryTaxonomyRepo) CreateCategory(ctx context.Context, category *models.Category) error {
	for _, existing := range m.categories {
		if strings.EqualFold(existing.Name, category.Name) {
			return gorm.ErrDuplicatedKey
		}
	}
	category.ID = m.nextID
	m.nextID++
	m.categories[category.ID] = *category
	return nil
}

func (m *memoryTaxonomyRepo) UpdateCategory(ctx context.Context, category *models.Category) error {
	if _, ok := m.categories[category.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.categories[category.ID] = *category
	return nil
}

func (m *memoryTaxonomyRepo) ListDifficulties(ctx context.Context, onlyActive bool) ([]models.Difficulty, error) {
	results := make([]models.Difficulty, 0)
	for _, difficulty := range m.difficulties {
		if onlyActive && !difficulty.IsActive {
			continue
		}
		results = append(results, difficulty)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Rank < results[j].Rank })
	return results, nil
}

func (m *memoryTaxonomyRepo) GetDifficulty(ctx context.Context, id uint) (models.Difficulty, error) {
	difficulty, ok := m.difficulties[id]
	if !ok {
		return models.Difficulty{}, gorm.ErrRecordNotFound
	}
	return difficulty, nil
}

func (m *memoryTaxonomyRepo) CreateDifficulty(ctx context.Context, difficulty *models.Difficulty) error {
	for _, existing := range m.difficulties {
		if strings.EqualFold(existing.Name, difficulty.Name) {
			return gorm.ErrDuplicatedKey
		}
	}
	difficulty.ID = m.nextID
	m.nextID++
	m.difficulties[difficulty.ID] = *difficulty
	return nil
}

func (m *memoryTaxonomyRepo) UpdateDifficulty(ctx context.Context, difficulty *models.Difficulty) error {
	if _, ok := m.difficulties[difficulty.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.difficulties[difficulty.ID] = *difficulty
	return nil
}

type memoryReportRepo struct {
	reports map[uint]models.Report
	nextID  uint
}

func newMemoryReportRepo() *memoryReportRepo {
	return &memoryReportRepo{reports: make(map[uint]models.Report), nextID: 1}
}

func (m *memoryReportRepo) GetByID(ctx context.Context, id uint) (models.Report, error) {
	report, ok := m.reports[id]
	if !ok {
		return models.Report{}, gorm.ErrRecordNotFound
	}
	return report, nil
}

func (m *memoryReportRepo) Create(ctx context.Context, report *models.Report) error {
	report.ID = m.nextID
	m.nextID++
	report.CreatedAt = time.Now()
	report.UpdatedAt = report.CreatedAt
	m.reports[report.ID] = *report
	return nil
}

func (m *memoryReportRepo) Update(ctx context.Context, report *models.Report) error {
	if _, ok := m.reports[report.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	report.UpdatedAt = time.Now()
	m.reports[report.ID] = *report
	return nil
}

func (m *memoryReportRepo) List(ctx context.Context, filter repository.ReportFilter) ([]models.Report, int64, error) {
	matched := make([]models.Report, 0, len(m.reports))
	for _, report := range m.reports {
		if filter.Status != nil && report.Status != *filter.Status {
			continue
		}
		matched = append(matched, report)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		start := (page - 1) * filter.PageSize
		if start >= len(matched) {
			return []models.Report{}, total, nil
		}
		end := start + filter.PageSize
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

type recordedActivity struct {
	entries []ActivityEntry
}

func (r *recordedActivity) Record(ctx context.Context, entry ActivityEntry) {
	r.entries = append(r.entries, entry)
}

type recordedEvent struct {
	Subject  string
	EntityID uint
	Payload  map[string]interface{}
}

type recordedPublisher struct {
	events []recordedEvent
}

func (r *recordedPublisher) Publish(ctx context.Context, subject string, entityID uint, payload map[string]interface{}) {
	r.events = append(r.events, recordedEvent{Subject: subject, EntityID: entityID, Payload: payload})
}
