// Package store owns the student records: an explicitly owned object handed
// to whoever needs it. It guards itself; the transport core assumes nothing
// about locking.
package store

import "errors"

var (
	ErrNotFound        = errors.New("student not found")
	ErrSubjectNotFound = errors.New("subject not found")
	ErrDuplicateID     = errors.New("a student with this id already exists")
	ErrWrongPassword   = errors.New("wrong password")
	ErrTooManySubjects = errors.New("subject limit reached")
	ErrInvalidInput    = errors.New("invalid values")
)

// MaxSubjects bounds how many subjects a single student carries.
const MaxSubjects = 8

type Subject struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Semester        int    `json:"semester"`
	Credits         int    `json:"credits"`
	Marks           int    `json:"marks"`
	ClassesHeld     int    `json:"classes_held"`
	ClassesAttended int    `json:"classes_attended"`
}

// AttendancePercent is rounded to the nearest whole percent; zero classes
// held counts as zero.
func (s Subject) AttendancePercent() int {
	if s.ClassesHeld == 0 {
		return 0
	}

	return int(float64(s.ClassesAttended)/float64(s.ClassesHeld)*100 + 0.5)
}

type Student struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Age              int       `json:"age"`
	Dept             string    `json:"dept"`
	Year             int       `json:"year"`
	Subjects         []Subject `json:"subjects"`
	CGPA             float64   `json:"cgpa"`
	CreditsCompleted int       `json:"credits_completed"`

	// PasswordHash never leaves the store boundary in serialized form.
	PasswordHash []byte `json:"-"`
}

// MarkEntry is one row of an admin marks submission, applied to the student's
// subjects in declaration order.
type MarkEntry struct {
	Marks   int
	Credits int
}

// Store is the record backend. Two implementations exist: the in-memory one
// and the sqlite one; handlers and the console treat them identically.
type Store interface {
	// AddStudent registers the student and returns the assigned id. When
	// s.ID is zero the store picks the next free one; a non-zero id that is
	// already taken fails with ErrDuplicateID.
	AddStudent(s Student, password string) (int, error)
	// Student returns the record by id or ErrNotFound.
	Student(id int) (Student, error)
	// Students lists all records ordered by id.
	Students() ([]Student, error)
	// Authenticate verifies the student's password and returns the record.
	Authenticate(id int, password string) (Student, error)
	// AdminAuth verifies the admin credentials.
	AdminAuth(user, password string) bool
	// EnterMarks applies the entries to the student's subjects in order,
	// recomputes the semester SGPA and folds it into the stored CGPA.
	EnterMarks(id int, entries []MarkEntry) (Student, error)
	// RecordAttendance updates classes held/attended for the named subject.
	RecordAttendance(id int, subject string, held, attended int) (Student, error)
	Close() error
}
