package webapp

import (
	"fmt"
	"html"
	"strings"

	"github.com/gradebook-web/gradebook/gpa"
	"github.com/gradebook-web/gradebook/store"
)

const pageStyle = "<style>" +
	"body{margin:0;font-family:Inter,Arial,Helvetica,sans-serif;background:#f5f7fb}" +
	".wrap{max-width:1000px;margin:32px auto;background:#fff;border-radius:10px;padding:24px;" +
	"box-shadow:0 6px 18px rgba(0,0,0,0.06)}" +
	"table{width:100%;border-collapse:collapse}th,td{padding:8px;border:1px solid #eee;text-align:left;font-size:14px}" +
	"input,textarea,button{width:100%;padding:8px;margin:4px 0;border-radius:6px;border:1px solid #dde3ef;font-size:14px}" +
	"button{cursor:pointer;background:#2b6ef6;color:#fff;border:none}" +
	".card{border:1px solid #eef1f8;border-radius:8px;padding:16px;margin:12px 0}" +
	".muted{color:#6b7280;font-size:13px}" +
	"</style>"

func page(title, body string) string {
	var b strings.Builder
	b.WriteString("<!doctype html><html><head><meta charset='utf-8'><title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title><meta name='viewport' content='width=device-width,initial-scale=1'/>")
	b.WriteString(pageStyle)
	b.WriteString("</head><body><div class='wrap'>")
	b.WriteString(body)
	b.WriteString("</div></body></html>")

	return b.String()
}

func landingPage() string {
	var b strings.Builder

	b.WriteString("<h1>Student Record &amp; Result Management</h1>")
	b.WriteString("<p class='muted'>Choose an option to continue: admin login, student sign up, or student sign in.</p>")

	b.WriteString("<div class='card'><h3>Admin Login</h3>" +
		"<form method='post' action='/admin-login'>" +
		"<input name='username' placeholder='Admin username' required />" +
		"<input name='password' placeholder='Admin password' type='password' required />" +
		"<button>Login as Admin</button></form></div>")

	b.WriteString("<div class='card'><h3>Student Sign Up</h3>" +
		"<form method='post' action='/student-signup'>" +
		"<input name='name' placeholder='Full name' required />" +
		"<input name='age' placeholder='Age' required />" +
		"<input name='dept' placeholder='Department' required />" +
		"<input name='year' placeholder='Year' required />" +
		"<input name='subjects' placeholder='Subjects, comma-separated' required />" +
		"<input name='password' placeholder='Password' type='password' required />" +
		"<button>Sign up</button></form>" +
		"<p class='muted'>Your student ID is assigned on registration; use it to sign in.</p></div>")

	b.WriteString("<div class='card'><h3>Student Sign In</h3>" +
		"<form method='get' action='/dashboard'>" +
		"<input name='id' placeholder='Student ID' required />" +
		"<input name='pass' placeholder='Password' type='password' required />" +
		"<button>Sign in</button></form></div>")

	return page("Student System", b.String())
}

func listPage(students []store.Student) string {
	var b strings.Builder

	b.WriteString("<h2>Students</h2>")
	b.WriteString("<table><tr><th>ID</th><th>Name</th><th>Year</th><th>Dept</th><th>CGPA</th></tr>")
	for _, s := range students {
		fmt.Fprintf(&b, "<tr><td>%d</td><td>%s</td><td>%d</td><td>%s</td><td>%.3f</td></tr>",
			s.ID, html.EscapeString(s.Name), s.Year, html.EscapeString(s.Dept), s.CGPA)
	}
	b.WriteString("</table><p><a href='/'>Back</a></p>")

	return page("Students", b.String())
}

func dashboardPage(s store.Student) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<h2>Welcome, %s</h2>", html.EscapeString(s.Name))
	fmt.Fprintf(&b, "<p>ID: %d | Dept: %s | Year: %d | Age: %d</p>",
		s.ID, html.EscapeString(s.Dept), s.Year, s.Age)

	graded := store.Graded(s.Subjects)
	fmt.Fprintf(&b, "<p><strong>SGPA (current):</strong> %.3f &nbsp; <strong>CGPA:</strong> %.3f (Credits: %d)</p>",
		gpa.SGPA(graded), s.CGPA, s.CreditsCompleted)

	b.WriteString("<h3>Attendance (per subject)</h3>")
	b.WriteString(attendanceChart(s.Subjects))

	b.WriteString("<h3>Subjects &amp; Marks</h3>")
	b.WriteString("<table><tr><th>#</th><th>Subject</th><th>Marks</th><th>Credits</th>" +
		"<th>Grade Point</th><th>Attendance</th></tr>")
	for i, sub := range s.Subjects {
		fmt.Fprintf(&b, "<tr><td>%d</td><td>%s</td><td>%d</td><td>%d</td><td>%d</td><td>%d%%</td></tr>",
			i+1, html.EscapeString(sub.Name), sub.Marks, sub.Credits,
			gpa.GradePoint(sub.Marks), sub.AttendancePercent())
	}
	b.WriteString("</table><p><a href='/'>&larr; Back to Home</a></p>")

	return page("Dashboard", b.String())
}

// attendanceChart draws the inline SVG bar chart of per-subject attendance.
func attendanceChart(subjects []store.Subject) string {
	const (
		w, h, pad = 480, 160, 30
		gap       = 8
	)

	if len(subjects) == 0 {
		return "<p class='muted'>No subjects yet.</p>"
	}

	barw := (w-pad*2)/len(subjects) - gap
	if barw < 8 {
		barw = 8
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<svg viewBox='0 0 %d %d' width='%d' height='%d' xmlns='http://www.w3.org/2000/svg'>",
		w, h, w, h)
	fmt.Fprintf(&b, "<line x1='%d' y1='%d' x2='%d' y2='%d' stroke='#ddd'/>", pad, h-pad, w-pad, h-pad)

	for i, sub := range subjects {
		x := pad + i*(barw+gap)
		barh := sub.AttendancePercent() * (h - pad*2) / 100
		fmt.Fprintf(&b, "<rect x='%d' y='%d' width='%d' height='%d' rx='4' fill='#3b82f6' opacity='0.85'/>",
			x, (h-pad)-barh, barw, barh)
		fmt.Fprintf(&b, "<text x='%d' y='%d' font-size='10' fill='#111'>%s</text>",
			x, h-pad+14, html.EscapeString(sub.Name))
	}
	b.WriteString("</svg>")

	return b.String()
}

func adminPage() string {
	var b strings.Builder

	b.WriteString("<h2>Admin Dashboard</h2>")
	b.WriteString("<h3>View all students</h3><p><a href='/list'>Open students list</a></p>")

	b.WriteString("<div class='card'><h3>Add student</h3>" +
		"<form method='post' action='/add'>" +
		"<input name='name' placeholder='Full name' required />" +
		"<input name='age' placeholder='Age' required />" +
		"<input name='dept' placeholder='Department' required />" +
		"<input name='year' placeholder='Year' required />" +
		"<input name='subjects' placeholder='Subjects, comma-separated' required />" +
		"<input name='password' placeholder='Password' required />" +
		"<button>Add student</button></form></div>")

	b.WriteString("<div class='card'><h3>Enter marks</h3>" +
		"<form method='post' action='/enter-marks'>" +
		"<input name='id' placeholder='Student ID' required />" +
		"<textarea name='marks' rows='6' placeholder='90,3&#10;85,4&#10;78,3'></textarea>" +
		"<button>Submit marks</button></form></div>")

	b.WriteString("<div class='card'><h3>Record attendance</h3>" +
		"<form method='post' action='/attendance'>" +
		"<input name='id' placeholder='Student ID' required />" +
		"<input name='subject' placeholder='Subject name' required />" +
		"<input name='held' placeholder='Classes held' required />" +
		"<input name='attended' placeholder='Classes attended' required />" +
		"<button>Save attendance</button></form></div>")

	b.WriteString("<div class='card'><h3>Generate report</h3>" +
		"<form method='post' action='/generate'>" +
		"<input name='id' placeholder='Student ID' required />" +
		"<input name='college' placeholder='College' />" +
		"<input name='semester' placeholder='Semester' />" +
		"<input name='exam' placeholder='Exam' />" +
		"<button>Generate</button></form></div>")

	b.WriteString("<p><a href='/'>Back</a></p>")

	return page("Admin Dashboard", b.String())
}

func signupDonePage(id int) string {
	return page("Registered", fmt.Sprintf(
		"<p>Registration successful. Your Student ID: <strong>%d</strong></p><p><a href='/'>Back to home</a></p>", id))
}

func marksDonePage(s store.Student) string {
	return page("Marks updated", fmt.Sprintf(
		"<p>Marks updated for ID %d. CGPA is now %.3f.</p><p><a href='/'>Back</a></p>", s.ID, s.CGPA))
}

func reportDonePage(name string) string {
	escaped := html.EscapeString(name)
	return page("Report generated", fmt.Sprintf(
		"<p>Report generated: <a href='/reports/%s'>%s</a></p><p><a href='/'>Back</a></p>", escaped, escaped))
}
