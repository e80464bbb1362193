// Package sqlite is the durable record backend. The zero path of the system
// runs in memory; this backend is selected with the -db flag.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dchest/uniuri"
	"github.com/gradebook-web/gradebook/gpa"
	"github.com/gradebook-web/gradebook/store"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

const schema = `
CREATE TABLE IF NOT EXISTS students (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	age INTEGER NOT NULL,
	dept TEXT NOT NULL,
	year INTEGER NOT NULL,
	password_hash BLOB NOT NULL,
	cgpa REAL NOT NULL DEFAULT 0,
	credits_completed INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS subjects (
	id TEXT PRIMARY KEY,
	student_id INTEGER NOT NULL REFERENCES students(id),
	pos INTEGER NOT NULL,
	name TEXT NOT NULL,
	semester INTEGER NOT NULL DEFAULT 0,
	credits INTEGER NOT NULL DEFAULT 0,
	marks INTEGER NOT NULL DEFAULT 0,
	classes_held INTEGER NOT NULL DEFAULT 0,
	classes_attended INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS admins (
	username TEXT PRIMARY KEY,
	password_hash BLOB NOT NULL
);
`

type Store struct {
	db *sql.DB
}

// Open opens (and creates, if missing) the database at path and ensures the
// schema and the default admin exist.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: schema: %w", err)
	}

	s := &Store{db: db}
	if err = s.seedAdmin(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) seedAdmin() error {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM admins`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`INSERT INTO admins(username, password_hash) VALUES(?, ?)`, "admin", hash)

	return err
}

func (s *Store) AddStudent(student store.Student, password string) (int, error) {
	if len(student.Subjects) > store.MaxSubjects {
		return 0, store.ErrTooManySubjects
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if student.ID != 0 {
		var taken int
		if err = tx.QueryRow(`SELECT COUNT(*) FROM students WHERE id = ?`, student.ID).Scan(&taken); err != nil {
			return 0, err
		}
		if taken > 0 {
			return 0, store.ErrDuplicateID
		}
	}

	id := student.ID
	if id == 0 {
		// assigned ids start at 1001
		if err = tx.QueryRow(`SELECT COALESCE(MAX(id), 1000) + 1 FROM students`).Scan(&id); err != nil {
			return 0, err
		}
	}

	_, err = tx.Exec(
		`INSERT INTO students(id, name, age, dept, year, password_hash, cgpa, credits_completed)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		id, student.Name, student.Age, student.Dept, student.Year, hash,
		student.CGPA, student.CreditsCompleted,
	)
	if err != nil {
		return 0, err
	}

	for pos, sub := range student.Subjects {
		subID := sub.ID
		if subID == "" {
			subID = uniuri.NewLen(8)
		}

		_, err = tx.Exec(
			`INSERT INTO subjects(id, student_id, pos, name, semester, credits, marks, classes_held, classes_attended)
			 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			subID, id, pos, sub.Name, sub.Semester, sub.Credits, sub.Marks,
			sub.ClassesHeld, sub.ClassesAttended,
		)
		if err != nil {
			return 0, err
		}
	}

	return id, tx.Commit()
}

func (s *Store) Student(id int) (store.Student, error) {
	row := s.db.QueryRow(
		`SELECT id, name, age, dept, year, password_hash, cgpa, credits_completed
		 FROM students WHERE id = ?`, id,
	)

	student, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Student{}, store.ErrNotFound
	}
	if err != nil {
		return store.Student{}, err
	}

	student.Subjects, err = s.subjects(id)

	return student, err
}

func (s *Store) Students() ([]store.Student, error) {
	rows, err := s.db.Query(
		`SELECT id, name, age, dept, year, password_hash, cgpa, credits_completed
		 FROM students ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []store.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}

		all = append(all, student)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	for i := range all {
		if all[i].Subjects, err = s.subjects(all[i].ID); err != nil {
			return nil, err
		}
	}

	return all, nil
}

func (s *Store) Authenticate(id int, password string) (store.Student, error) {
	student, err := s.Student(id)
	if err != nil {
		return store.Student{}, err
	}

	if bcrypt.CompareHashAndPassword(student.PasswordHash, []byte(password)) != nil {
		return store.Student{}, store.ErrWrongPassword
	}

	return student, nil
}

func (s *Store) AdminAuth(user, password string) bool {
	var hash []byte
	err := s.db.QueryRow(`SELECT password_hash FROM admins WHERE username = ?`, user).Scan(&hash)

	return err == nil && bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

func (s *Store) EnterMarks(id int, entries []store.MarkEntry) (store.Student, error) {
	student, err := s.Student(id)
	if err != nil {
		return store.Student{}, err
	}

	for i, e := range entries {
		if i >= len(student.Subjects) {
			break
		}

		student.Subjects[i].Marks = e.Marks
		student.Subjects[i].Credits = e.Credits
	}

	graded := store.Graded(student.Subjects)
	sgpa := gpa.SGPA(graded)
	student.CGPA, student.CreditsCompleted = gpa.MergeCGPA(
		student.CGPA, student.CreditsCompleted, sgpa, gpa.Credits(graded),
	)

	tx, err := s.db.Begin()
	if err != nil {
		return store.Student{}, err
	}
	defer tx.Rollback()

	for _, sub := range student.Subjects {
		_, err = tx.Exec(
			`UPDATE subjects SET marks = ?, credits = ? WHERE id = ?`,
			sub.Marks, sub.Credits, sub.ID,
		)
		if err != nil {
			return store.Student{}, err
		}
	}

	_, err = tx.Exec(
		`UPDATE students SET cgpa = ?, credits_completed = ? WHERE id = ?`,
		student.CGPA, student.CreditsCompleted, id,
	)
	if err != nil {
		return store.Student{}, err
	}

	return student, tx.Commit()
}

func (s *Store) RecordAttendance(id int, subject string, held, attended int) (store.Student, error) {
	if held <= 0 || attended < 0 || attended > held {
		return store.Student{}, store.ErrInvalidInput
	}

	res, err := s.db.Exec(
		`UPDATE subjects SET classes_held = ?, classes_attended = ?
		 WHERE student_id = ? AND (name = ? OR id = ?)`,
		held, attended, id, subject, subject,
	)
	if err != nil {
		return store.Student{}, err
	}

	changed, err := res.RowsAffected()
	if err != nil {
		return store.Student{}, err
	}
	if changed == 0 {
		if _, err = s.Student(id); errors.Is(err, store.ErrNotFound) {
			return store.Student{}, store.ErrNotFound
		}

		return store.Student{}, store.ErrSubjectNotFound
	}

	return s.Student(id)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) subjects(studentID int) ([]store.Subject, error) {
	rows, err := s.db.Query(
		`SELECT id, name, semester, credits, marks, classes_held, classes_attended
		 FROM subjects WHERE student_id = ? ORDER BY pos`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []store.Subject
	for rows.Next() {
		var sub store.Subject
		err = rows.Scan(
			&sub.ID, &sub.Name, &sub.Semester, &sub.Credits, &sub.Marks,
			&sub.ClassesHeld, &sub.ClassesAttended,
		)
		if err != nil {
			return nil, err
		}

		subjects = append(subjects, sub)
	}

	return subjects, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanStudent(row scannable) (store.Student, error) {
	var student store.Student
	err := row.Scan(
		&student.ID, &student.Name, &student.Age, &student.Dept, &student.Year,
		&student.PasswordHash, &student.CGPA, &student.CreditsCompleted,
	)

	return student, err
}
