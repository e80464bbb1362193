package store

import (
	"sort"
	"sync"

	"github.com/dchest/uniuri"
	"github.com/gradebook-web/gradebook/gpa"
	"golang.org/x/crypto/bcrypt"
)

const (
	// firstStudentID is where id assignment starts; ids below it are free for
	// explicit registration.
	firstStudentID = 1001

	defaultAdminUser = "admin"
	defaultAdminPass = "admin"

	subjectIDLen = 8
)

// Memory keeps everything in process memory. All data is lost on exit.
type Memory struct {
	mu       sync.RWMutex
	students map[int]*Student
	admins   map[string][]byte
	nextID   int
}

func NewMemory() *Memory {
	m := &Memory{
		students: map[int]*Student{},
		admins:   map[string][]byte{},
		nextID:   firstStudentID,
	}

	// the default admin account; the password is bcrypt'd even so
	hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPass), bcrypt.DefaultCost)
	if err == nil {
		m.admins[defaultAdminUser] = hash
	}

	return m
}

func (m *Memory) AddStudent(s Student, password string) (int, error) {
	if len(s.Subjects) > MaxSubjects {
		return 0, ErrTooManySubjects
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s.ID == 0 {
		s.ID = m.nextID
		m.nextID++
	} else if _, taken := m.students[s.ID]; taken {
		return 0, ErrDuplicateID
	} else if s.ID >= m.nextID {
		m.nextID = s.ID + 1
	}

	s.PasswordHash = hash
	for i := range s.Subjects {
		if s.Subjects[i].ID == "" {
			s.Subjects[i].ID = uniuri.NewLen(subjectIDLen)
		}
	}

	clone := s
	clone.Subjects = append([]Subject(nil), s.Subjects...)
	m.students[s.ID] = &clone

	return s.ID, nil
}

func (m *Memory) Student(id int) (Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.students[id]
	if !ok {
		return Student{}, ErrNotFound
	}

	return snapshot(s), nil
}

func (m *Memory) Students() ([]Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]Student, 0, len(m.students))
	for _, s := range m.students {
		all = append(all, snapshot(s))
	}

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	return all, nil
}

func (m *Memory) Authenticate(id int, password string) (Student, error) {
	m.mu.RLock()
	s, ok := m.students[id]
	if !ok {
		m.mu.RUnlock()
		return Student{}, ErrNotFound
	}

	// copy before unlocking; bcrypt is slow and must not run under the lock
	clone := snapshot(s)
	m.mu.RUnlock()

	if bcrypt.CompareHashAndPassword(clone.PasswordHash, []byte(password)) != nil {
		return Student{}, ErrWrongPassword
	}

	return clone, nil
}

func (m *Memory) AdminAuth(user, password string) bool {
	m.mu.RLock()
	hash, ok := m.admins[user]
	m.mu.RUnlock()

	return ok && bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

func (m *Memory) EnterMarks(id int, entries []MarkEntry) (Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.students[id]
	if !ok {
		return Student{}, ErrNotFound
	}

	applyMarks(s, entries)

	return snapshot(s), nil
}

func (m *Memory) RecordAttendance(id int, subject string, held, attended int) (Student, error) {
	if held <= 0 || attended < 0 || attended > held {
		return Student{}, ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.students[id]
	if !ok {
		return Student{}, ErrNotFound
	}

	for i := range s.Subjects {
		if s.Subjects[i].Name == subject || s.Subjects[i].ID == subject {
			s.Subjects[i].ClassesHeld = held
			s.Subjects[i].ClassesAttended = attended

			return snapshot(s), nil
		}
	}

	return Student{}, ErrSubjectNotFound
}

func (m *Memory) Close() error {
	return nil
}

// applyMarks writes the entries over the student's subjects in order and
// folds the resulting semester SGPA into the stored CGPA.
func applyMarks(s *Student, entries []MarkEntry) {
	for i, e := range entries {
		if i >= len(s.Subjects) {
			break
		}

		s.Subjects[i].Marks = e.Marks
		s.Subjects[i].Credits = e.Credits
	}

	graded := Graded(s.Subjects)
	sgpa := gpa.SGPA(graded)
	s.CGPA, s.CreditsCompleted = gpa.MergeCGPA(
		s.CGPA, s.CreditsCompleted, sgpa, gpa.Credits(graded),
	)
}

// Graded projects subjects onto the gpa package's view of them.
func Graded(subjects []Subject) []gpa.Graded {
	graded := make([]gpa.Graded, len(subjects))
	for i, s := range subjects {
		graded[i] = gpa.Graded{Marks: s.Marks, Credits: s.Credits}
	}

	return graded
}

func snapshot(s *Student) Student {
	clone := *s
	clone.Subjects = append([]Subject(nil), s.Subjects...)

	return clone
}
