package domain

import (
	"strings"
	"time"
)

// Role is the access level assigned to a user at first sign-in.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// User is a signed-in person. ID doubles as the bearer token.
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// FullName joins first and last name the way results are displayed.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Teacher is a roster entry provisioned out of band.
type Teacher struct {
	FirstName string `json:"firstName" yaml:"firstName"`
	LastName  string `json:"lastName" yaml:"lastName"`
}

// NameKey is the case-insensitive identity of a (first, last) name pair.
func NameKey(firstName, lastName string) string {
	return strings.ToLower(strings.TrimSpace(firstName)) + "\x1f" + strings.ToLower(strings.TrimSpace(lastName))
}

// SameName reports whether two name pairs identify the same person.
func SameName(firstA, lastA, firstB, lastB string) bool {
	return NameKey(firstA, lastA) == NameKey(firstB, lastB)
}

// QuestionType distinguishes auto-graded and manually graded questions.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionOpenEnded      QuestionType = "open-ended"
)

// Question is read-only reference data. Choices and CorrectAnswer are only
// set for multiple-choice questions.
type Question struct {
	ID            string       `json:"id"`
	Text          string       `json:"text"`
	Type          QuestionType `json:"type"`
	Choices       []string     `json:"choices,omitempty"`
	CorrectAnswer string       `json:"correctAnswer,omitempty"`
}

// Public returns the question without its answer key.
func (q Question) Public() Question {
	q.CorrectAnswer = ""
	return q
}

// Quiz is the question bank served to students.
type Quiz struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// Question looks up a question by ID.
func (q Quiz) Question(id string) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

// Session is a single timed quiz window. Times are epoch milliseconds.
type Session struct {
	ID        string `json:"id"`
	StartTime int64  `json:"startTime"`
	EndTime   int64  `json:"endTime"`
	StartedBy string `json:"startedBy,omitempty"`
}

// SessionStatus is the clock's answer to "is the quiz open now".
type SessionStatus struct {
	Open        bool  `json:"testStarted"`
	RemainingMs int64 `json:"remainingTimeMs"`
	StartTime   int64 `json:"startTime,omitempty"`
	EndTime     int64 `json:"endTime,omitempty"`
}

// Answers maps question IDs to the raw submitted answer.
type Answers map[string]string

// Submission is created exactly once per student token. Score and
// OpenAnswerGrades are the only fields changed afterwards, by grading.
type Submission struct {
	Token            string            `json:"token"`
	StudentName      string            `json:"studentName"`
	SessionID        string            `json:"sessionId,omitempty"`
	Answers          Answers           `json:"answers"`
	OpenEndedAnswers map[string]string `json:"openEndedAnswers"`
	OpenAnswerGrades map[string]bool   `json:"openAnswerGrades"`
	Score            int               `json:"score"`
	TotalMCQs        int               `json:"totalMCQs"`
	SubmittedAt      time.Time         `json:"submittedAt"`
}

// Grade is the output of auto-grading a set of answers.
type Grade struct {
	Score            int
	TotalMCQs        int
	OpenEndedAnswers map[string]string
}

// MarkResult reports the effect of grading one open-ended answer.
type MarkResult struct {
	UpdatedScore  int   `json:"updatedScore"`
	PreviousGrade *bool `json:"previousGrade"`
	NewGrade      bool  `json:"newGrade"`
	ScoreChange   int   `json:"scoreChange"`
}

// QuestionResult is one row of a student's result sheet.
type QuestionResult struct {
	QuestionID    string       `json:"questionId"`
	Question      string       `json:"question"`
	Type          QuestionType `json:"type"`
	Answer        string       `json:"yourAnswer"`
	CorrectAnswer string       `json:"correctAnswer,omitempty"`
	Correct       *bool        `json:"correct"`
}

// StudentResults is what a student sees after submitting.
type StudentResults struct {
	StudentName string           `json:"studentName"`
	SubmittedAt time.Time        `json:"submittedAt"`
	Score       int              `json:"score"`
	TotalMCQs   int              `json:"totalMCQs"`
	Results     []QuestionResult `json:"results"`
}

// ResultSummary is one row of the teacher's result table.
type ResultSummary struct {
	StudentName    string `json:"studentName"`
	CorrectCount   int    `json:"correctCount"`
	TotalQuestions int    `json:"totalQuestions"`
}

// OpenAnswer is an open-ended answer awaiting or holding a teacher verdict.
type OpenAnswer struct {
	QuestionID   string `json:"questionId"`
	QuestionText string `json:"questionText"`
	Answer       string `json:"answer"`
	Grade        *bool  `json:"grade"`
}

// OpenAnswerSheet groups a student's open-ended answers.
type OpenAnswerSheet struct {
	StudentName string       `json:"studentName"`
	Answers     []OpenAnswer `json:"answers"`
}
