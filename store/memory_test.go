package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleStudent() Student {
	return Student{
		Name: "Ella Fine",
		Age:  20,
		Dept: "CS",
		Year: 2,
		Subjects: []Subject{
			{Name: "Algorithms"},
			{Name: "Databases"},
		},
	}
}

func TestMemoryAddStudent(t *testing.T) {
	t.Run("ids are assigned from 1001", func(t *testing.T) {
		m := NewMemory()

		first, err := m.AddStudent(sampleStudent(), "pw")
		require.NoError(t, err)
		require.Equal(t, 1001, first)

		second, err := m.AddStudent(sampleStudent(), "pw")
		require.NoError(t, err)
		require.Equal(t, 1002, second)
	})

	t.Run("explicit id is honored", func(t *testing.T) {
		m := NewMemory()

		s := sampleStudent()
		s.ID = 2500
		id, err := m.AddStudent(s, "pw")
		require.NoError(t, err)
		require.Equal(t, 2500, id)

		// assignment continues past the explicit id
		next, err := m.AddStudent(sampleStudent(), "pw")
		require.NoError(t, err)
		require.Equal(t, 2501, next)
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		m := NewMemory()

		s := sampleStudent()
		s.ID = 1500
		_, err := m.AddStudent(s, "pw")
		require.NoError(t, err)

		_, err = m.AddStudent(s, "pw")
		require.ErrorIs(t, err, ErrDuplicateID)
	})

	t.Run("subject limit", func(t *testing.T) {
		m := NewMemory()

		s := sampleStudent()
		s.Subjects = make([]Subject, MaxSubjects+1)
		_, err := m.AddStudent(s, "pw")
		require.ErrorIs(t, err, ErrTooManySubjects)
	})

	t.Run("subjects receive ids", func(t *testing.T) {
		m := NewMemory()

		id, err := m.AddStudent(sampleStudent(), "pw")
		require.NoError(t, err)

		stored, err := m.Student(id)
		require.NoError(t, err)
		for _, sub := range stored.Subjects {
			require.NotEmpty(t, sub.ID)
		}
	})
}

func TestMemoryAuthenticate(t *testing.T) {
	m := NewMemory()
	id, err := m.AddStudent(sampleStudent(), "secret")
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		s, err := m.Authenticate(id, "secret")
		require.NoError(t, err)
		require.Equal(t, "Ella Fine", s.Name)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := m.Authenticate(id, "nope")
		require.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("unknown student", func(t *testing.T) {
		_, err := m.Authenticate(9999, "secret")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryAdminAuth(t *testing.T) {
	m := NewMemory()

	require.True(t, m.AdminAuth("admin", "admin"))
	require.False(t, m.AdminAuth("admin", "wrong"))
	require.False(t, m.AdminAuth("nobody", "admin"))
}

func TestMemoryEnterMarks(t *testing.T) {
	m := NewMemory()
	id, err := m.AddStudent(sampleStudent(), "pw")
	require.NoError(t, err)

	entries := []MarkEntry{
		{Marks: 95, Credits: 4}, // point 10
		{Marks: 85, Credits: 4}, // point 9
	}

	s, err := m.EnterMarks(id, entries)
	require.NoError(t, err)
	require.Equal(t, 95, s.Subjects[0].Marks)
	require.Equal(t, 85, s.Subjects[1].Marks)
	require.InDelta(t, 9.5, s.CGPA, 1e-9)
	require.Equal(t, 8, s.CreditsCompleted)

	t.Run("second semester folds into cgpa", func(t *testing.T) {
		s, err := m.EnterMarks(id, []MarkEntry{
			{Marks: 75, Credits: 4}, // point 8
			{Marks: 75, Credits: 4},
		})
		require.NoError(t, err)
		// (9.5*8 + 8.0*8) / 16
		require.InDelta(t, 8.75, s.CGPA, 1e-9)
		require.Equal(t, 16, s.CreditsCompleted)
	})

	t.Run("extra entries beyond the subjects are dropped", func(t *testing.T) {
		_, err := m.EnterMarks(id, []MarkEntry{
			{Marks: 50, Credits: 1},
			{Marks: 50, Credits: 1},
			{Marks: 50, Credits: 1},
		})
		require.NoError(t, err)
	})

	t.Run("unknown student", func(t *testing.T) {
		_, err := m.EnterMarks(4242, entries)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryRecordAttendance(t *testing.T) {
	m := NewMemory()
	id, err := m.AddStudent(sampleStudent(), "pw")
	require.NoError(t, err)

	t.Run("by subject name", func(t *testing.T) {
		s, err := m.RecordAttendance(id, "Algorithms", 40, 30)
		require.NoError(t, err)
		require.Equal(t, 40, s.Subjects[0].ClassesHeld)
		require.Equal(t, 30, s.Subjects[0].ClassesAttended)
		require.Equal(t, 75, s.Subjects[0].AttendancePercent())
	})

	t.Run("by subject id", func(t *testing.T) {
		stored, err := m.Student(id)
		require.NoError(t, err)

		s, err := m.RecordAttendance(id, stored.Subjects[1].ID, 10, 10)
		require.NoError(t, err)
		require.Equal(t, 100, s.Subjects[1].AttendancePercent())
	})

	t.Run("unknown subject", func(t *testing.T) {
		_, err := m.RecordAttendance(id, "Astrology", 10, 5)
		require.ErrorIs(t, err, ErrSubjectNotFound)
	})

	t.Run("invalid numbers", func(t *testing.T) {
		_, err := m.RecordAttendance(id, "Algorithms", 0, 0)
		require.ErrorIs(t, err, ErrInvalidInput)

		_, err = m.RecordAttendance(id, "Algorithms", 10, 11)
		require.ErrorIs(t, err, ErrInvalidInput)

		_, err = m.RecordAttendance(id, "Algorithms", 10, -1)
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestMemoryConcurrentAuthAndMarks(t *testing.T) {
	m := NewMemory()
	id, err := m.AddStudent(sampleStudent(), "pw")
	require.NoError(t, err)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		entries := []MarkEntry{
			{Marks: 90, Credits: 4},
			{Marks: 80, Credits: 3},
		}
		for {
			select {
			case <-stop:
				return
			default:
			}

			if _, err := m.EnterMarks(id, entries); err != nil {
				t.Errorf("enter marks: %s", err)
				return
			}
			if _, err := m.RecordAttendance(id, "Algorithms", 40, 30); err != nil {
				t.Errorf("attendance: %s", err)
				return
			}
		}
	}()

	for i := 0; i < 10; i++ {
		s, err := m.Authenticate(id, "pw")
		require.NoError(t, err)
		require.Equal(t, "Ella Fine", s.Name)
	}

	close(stop)
	wg.Wait()
}

func TestMemorySnapshotsAreIsolated(t *testing.T) {
	m := NewMemory()
	id, err := m.AddStudent(sampleStudent(), "pw")
	require.NoError(t, err)

	s, err := m.Student(id)
	require.NoError(t, err)
	s.Subjects[0].Marks = 99
	s.Name = "Imposter"

	stored, err := m.Student(id)
	require.NoError(t, err)
	require.Zero(t, stored.Subjects[0].Marks)
	require.Equal(t, "Ella Fine", stored.Name)
}

func TestMemoryStudentsSorted(t *testing.T) {
	m := NewMemory()

	high := sampleStudent()
	high.ID = 3000
	_, err := m.AddStudent(high, "pw")
	require.NoError(t, err)

	low := sampleStudent()
	low.ID = 1200
	_, err = m.AddStudent(low, "pw")
	require.NoError(t, err)

	all, err := m.Students()
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, 1200, all[0].ID)
	require.Equal(t, 3000, all[1].ID)
}
