// Package report writes the printable HTML result sheet for a student into
// the reports directory and serves it back by name.
package report

import (
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gradebook-web/gradebook/gpa"
	"github.com/gradebook-web/gradebook/store"
)

var ErrBadName = errors.New("report name is not acceptable")

// Filename is where the report for the student lands, relative to the
// reports directory.
func Filename(id int) string {
	return fmt.Sprintf("%d_result.html", id)
}

// Generate renders the result sheet and writes it to dir, creating the
// directory if needed. Returns the file name within dir.
func Generate(dir string, s store.Student, college, semester, exam string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("report: %w", err)
	}

	name := Filename(s.ID)
	if err := os.WriteFile(filepath.Join(dir, name), []byte(render(s, college, semester, exam)), 0o644); err != nil {
		return "", fmt.Errorf("report: %w", err)
	}

	return name, nil
}

// Load reads a previously generated report back. Names reaching outside the
// directory are rejected here, not in the router: the routing contract only
// guarantees prefix extraction.
func Load(dir, name string) ([]byte, error) {
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, "/\\") {
		return nil, ErrBadName
	}

	return os.ReadFile(filepath.Join(dir, name))
}

func render(s store.Student, college, semester, exam string) string {
	var b strings.Builder

	b.WriteString("<!doctype html><html><head><meta charset='utf-8'><title>Result</title>")
	b.WriteString("<style>body{font-family:Arial,sans-serif;margin:24px}table{border-collapse:collapse;width:100%}" +
		"th,td{border:1px solid #999;padding:6px;text-align:left}h1{font-size:22px}.meta{color:#555}</style>" +
		"</head><body>")

	fmt.Fprintf(&b, "<h1>%s</h1>", html.EscapeString(college))
	fmt.Fprintf(&b, "<p class='meta'>%s &mdash; %s</p>",
		html.EscapeString(semester), html.EscapeString(exam))
	fmt.Fprintf(&b, "<p><strong>%s</strong> (ID %d) | Dept: %s | Year: %d</p>",
		html.EscapeString(s.Name), s.ID, html.EscapeString(s.Dept), s.Year)

	b.WriteString("<table><tr><th>#</th><th>Subject</th><th>Marks</th><th>Credits</th>" +
		"<th>Grade Point</th><th>Attendance</th></tr>")
	for i, sub := range s.Subjects {
		fmt.Fprintf(&b, "<tr><td>%d</td><td>%s</td><td>%d</td><td>%d</td><td>%d</td><td>%d%%</td></tr>",
			i+1, html.EscapeString(sub.Name), sub.Marks, sub.Credits,
			gpa.GradePoint(sub.Marks), sub.AttendancePercent())
	}
	b.WriteString("</table>")

	graded := store.Graded(s.Subjects)
	fmt.Fprintf(&b, "<p><strong>SGPA:</strong> %.3f &nbsp; <strong>CGPA:</strong> %.3f (Credits: %d)</p>",
		gpa.SGPA(graded), s.CGPA, s.CreditsCompleted)

	fmt.Fprintf(&b, "<p class='meta'>Generated on %s</p>", time.Now().Format("02 Jan 2006 15:04"))
	b.WriteString("</body></html>")

	return b.String()
}
