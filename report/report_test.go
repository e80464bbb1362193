package report

import (
	"os"
	"testing"

	"github.com/gradebook-web/gradebook/store"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndLoad(t *testing.T) {
	dir := t.TempDir()

	s := store.Student{
		ID:   1001,
		Name: "Ella <Fine>",
		Dept: "CS",
		Year: 2,
		Subjects: []store.Subject{
			{Name: "Algorithms", Marks: 91, Credits: 4, ClassesHeld: 20, ClassesAttended: 18},
		},
		CGPA:             9.1,
		CreditsCompleted: 4,
	}

	name, err := Generate(dir, s, "Tech College", "Semester 3", "Finals")
	require.NoError(t, err)
	require.Equal(t, "1001_result.html", name)

	data, err := Load(dir, name)
	require.NoError(t, err)

	page := string(data)
	require.Contains(t, page, "Tech College")
	require.Contains(t, page, "Semester 3")
	require.Contains(t, page, "Algorithms")
	// markup in names never reaches the page unescaped
	require.Contains(t, page, "Ella &lt;Fine&gt;")
	require.NotContains(t, page, "Ella <Fine>")
}

func TestGenerateCreatesDir(t *testing.T) {
	dir := t.TempDir() + "/nested/reports"

	_, err := Generate(dir, store.Student{ID: 7}, "C", "S", "E")
	require.NoError(t, err)

	_, err = os.Stat(dir + "/7_result.html")
	require.NoError(t, err)
}

func TestLoadRejectsBadNames(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{
		"",
		"..",
		"../secrets.txt",
		"a/../../b.html",
		"sub/dir.html",
		"back\\slash.html",
	} {
		_, err := Load(dir, name)
		require.ErrorIs(t, err, ErrBadName, "%q", name)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir(), "1001_result.html")
	require.ErrorIs(t, err, os.ErrNotExist)
}
