package dto

// Grading actions.
const (
	GradeActionGrade                = "grade"
	GradeActionResubmissionRequired = "resubmission_required"
)

// GradeRequest describes an instructor's decision on a submission.
type GradeRequest struct {
	Action   string   `json:"action" validate:"required,oneof=grade resubmission_required"`
	Score    *float64 `json:"score" validate:"omitempty,gte=0,lte=100"`
	Feedback string   `json:"feedback" validate:"omitempty,max=10000"`
}

// CourseTotalResponse is the weighted running total for one learner in one
// course. TotalScore is nil until at least one assignment is graded.
type CourseTotalResponse struct {
	CourseID         uint     `json:"course_id"`
	TotalScore       *float64 `json:"total_score"`
	AssignmentsCount int      `json:"assignments_count"`
	GradedCount      int      `json:"graded_count"`
}

// GradeRow is one line of a learner's flat grade report.
type GradeRow struct {
	SubmissionID          uint     `json:"submission_id"`
	AssignmentTitle       string   `json:"assignment_title"`
	AssignmentDescription string   `json:"assignment_description"`
	CourseTitle           string   `json:"course_title"`
	Score                 *float64 `json:"score"`
	Feedback              *string  `json:"feedback"`
	IsLate                bool     `json:"is_late"`
	AllowResubmission     bool     `json:"allow_resubmission"`
	Status                string   `json:"status"`
	PointsWeight          float64  `json:"points_weight"`
}

// LearnerCourseReport is the per-course slice of the learner report.
type LearnerCourseReport struct {
	CourseTotalResponse
	CourseTitle string `json:"course_title"`
}

// LearnerReportResponse aggregates a learner's grades across enrolled courses.
type LearnerReportResponse struct {
	LearnerID uint                  `json:"learner_id"`
	Courses   []LearnerCourseReport `json:"courses"`
	Grades    []GradeRow            `json:"grades"`
}
