// Package webapp is the domain layer behind the transport core: the route
// table and the handlers that read decoded forms, call the record store, and
// always terminate in exactly one response.
package webapp

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/gradebook-web/gradebook/form"
	"github.com/gradebook-web/gradebook/http"
	"github.com/gradebook-web/gradebook/http/status"
	"github.com/gradebook-web/gradebook/report"
	"github.com/gradebook-web/gradebook/router"
	"github.com/gradebook-web/gradebook/store"
)

type App struct {
	store      store.Store
	reportsDir string
}

func New(st store.Store, reportsDir string) *App {
	return &App{
		store:      st,
		reportsDir: reportsDir,
	}
}

// Router declares the route table. Order matters: the longer /reports/ prefix
// and the exact paths come before anything that could shadow them, since the
// first matching entry always wins.
func (a *App) Router() *router.Router {
	r := router.New()

	r.GetPrefix("/reports/", a.reportFile)
	r.Get("/", a.landing)
	r.Get("/list", a.list)
	r.Get("/dashboard", a.dashboard)
	r.Get("/api/students", a.apiStudents)

	r.Post("/admin-login", a.adminLogin)
	r.Post("/student-signup", a.signup)
	r.Post("/add", a.addStudent)
	r.PostPrefix("/enter-marks", a.enterMarks)
	r.PostPrefix("/attendance", a.attendance)
	r.Post("/generate", a.generate)

	return r
}

func (a *App) landing(*http.Request) *http.Response {
	return http.NewResponse().WithHTML(landingPage())
}

func (a *App) list(*http.Request) *http.Response {
	students, err := a.store.Students()
	if err != nil {
		log.Printf("webapp: list: %s", err)
		return http.Error(status.ErrInternalServerError)
	}

	return http.NewResponse().WithHTML(listPage(students))
}

func (a *App) dashboard(req *http.Request) *http.Response {
	q := req.Query()
	id, okID := q.Int("id")
	pass, okPass := q.Lookup("pass")
	if !okID || !okPass || pass == "" {
		return http.NewResponse().
			WithCode(status.BadRequest).
			WithString("Missing id or pass (use the sign-in form).")
	}

	student, err := a.store.Authenticate(id, pass)
	if err != nil {
		return storeFailure(err)
	}

	return http.NewResponse().WithHTML(dashboardPage(student))
}

func (a *App) adminLogin(req *http.Request) *http.Response {
	f := req.Form()
	user, okUser := f.Lookup("username")
	pass, okPass := f.Lookup("password")
	if !okUser || !okPass {
		return http.NewResponse().
			WithCode(status.BadRequest).
			WithString("Missing username or password")
	}

	if !a.store.AdminAuth(user, pass) {
		return http.NewResponse().
			WithCode(status.Unauthorized).
			WithString("Invalid admin credentials")
	}

	return http.NewResponse().WithHTML(adminPage())
}

func (a *App) signup(req *http.Request) *http.Response {
	student, password, resp := studentFromForm(req.Form())
	if resp != nil {
		return resp
	}

	id, err := a.store.AddStudent(student, password)
	if err != nil {
		return storeFailure(err)
	}

	return http.NewResponse().WithHTML(signupDonePage(id))
}

func (a *App) addStudent(req *http.Request) *http.Response {
	student, password, resp := studentFromForm(req.Form())
	if resp != nil {
		return resp
	}

	if _, err := a.store.AddStudent(student, password); err != nil {
		return storeFailure(err)
	}

	return http.NewResponse().WithHTML("<p>Student added. <a href='/'>Back</a></p>")
}

func (a *App) enterMarks(req *http.Request) *http.Response {
	f := req.Form()
	id, okID := f.Int("id")
	marks, okMarks := f.Lookup("marks")
	if !okID || !okMarks {
		return http.NewResponse().
			WithCode(status.BadRequest).
			WithString("Missing id or marks")
	}

	student, err := a.store.EnterMarks(id, parseMarkEntries(marks))
	if err != nil {
		return storeFailure(err)
	}

	return http.NewResponse().WithHTML(marksDonePage(student))
}

func (a *App) attendance(req *http.Request) *http.Response {
	f := req.Form()
	id, okID := f.Int("id")
	subject, okSubject := f.Lookup("subject")
	held, okHeld := f.Int("held")
	attended, okAttended := f.Int("attended")
	if !okID || !okSubject || !okHeld || !okAttended {
		return http.NewResponse().
			WithCode(status.BadRequest).
			WithString("Missing id, subject, held or attended")
	}

	if _, err := a.store.RecordAttendance(id, subject, held, attended); err != nil {
		return storeFailure(err)
	}

	return http.NewResponse().
		WithHTML("<p>Attendance recorded. <a href='/'>Back</a></p>")
}

func (a *App) generate(req *http.Request) *http.Response {
	f := req.Form()
	id, okID := f.Int("id")
	if !okID {
		return http.NewResponse().
			WithCode(status.BadRequest).
			WithString("Missing id")
	}

	student, err := a.store.Student(id)
	if err != nil {
		return storeFailure(err)
	}

	name, err := report.Generate(
		a.reportsDir, student,
		valueOr(f, "college", "Your College"),
		valueOr(f, "semester", "Semester -"),
		valueOr(f, "exam", "Exam -"),
	)
	if err != nil {
		log.Printf("webapp: generate: %s", err)
		return http.Error(status.ErrInternalServerError)
	}

	return http.NewResponse().WithHTML(reportDonePage(name))
}

func (a *App) reportFile(req *http.Request) *http.Response {
	name := strings.TrimLeft(strings.TrimPrefix(req.Path, "/reports/"), "/")

	data, err := report.Load(a.reportsDir, name)
	switch {
	case errors.Is(err, report.ErrBadName):
		return http.Error(status.ErrBadRequest)
	case errors.Is(err, os.ErrNotExist):
		return http.Error(status.ErrNotFound)
	case err != nil:
		log.Printf("webapp: report %q: %s", name, err)
		return http.Error(status.ErrInternalServerError)
	}

	return http.NewResponse().
		WithContentType("text/html; charset=utf-8").
		WithBody(data)
}

func (a *App) apiStudents(req *http.Request) *http.Response {
	if id, ok := req.Query().Int("id"); ok {
		student, err := a.store.Student(id)
		if err != nil {
			return storeFailure(err)
		}

		return http.NewResponse().WithJSON(student)
	}

	students, err := a.store.Students()
	if err != nil {
		log.Printf("webapp: api: %s", err)
		return http.Error(status.ErrInternalServerError)
	}

	return http.NewResponse().WithJSON(students)
}

// studentFromForm assembles a student record out of the signup/add form. The
// third return value is non-nil when the form cannot yield a valid record,
// and is itself the terminal 400 response.
func studentFromForm(f *form.Form) (store.Student, string, *http.Response) {
	name, okName := f.Lookup("name")
	age, okAge := f.Int("age")
	dept, okDept := f.Lookup("dept")
	year, okYear := f.Int("year")
	subjects, okSubjects := f.Lookup("subjects")
	password, okPassword := f.Lookup("password")

	if !okName || !okAge || !okDept || !okYear || !okSubjects || !okPassword {
		return store.Student{}, "", http.NewResponse().
			WithCode(status.BadRequest).
			WithString("Missing fields")
	}

	student := store.Student{
		Name: name,
		Age:  age,
		Dept: dept,
		Year: year,
	}

	// an explicit id is optional; a taken one surfaces as 409 from the store
	if id, ok := f.Int("id"); ok {
		student.ID = id
	}

	semester, _ := f.Int("semester")
	for _, sub := range strings.Split(subjects, ",") {
		sub = strings.TrimSpace(sub)
		if sub == "" {
			continue
		}

		student.Subjects = append(student.Subjects, store.Subject{
			Name:     sub,
			Semester: semester,
		})
	}

	return student, password, nil
}

// parseMarkEntries reads the textarea format of the admin form: one
// "marks,credits" pair per line. Lines that do not parse are skipped.
func parseMarkEntries(text string) []store.MarkEntry {
	var entries []store.MarkEntry

	for _, line := range strings.Split(text, "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), ",", 2)
		if len(parts) != 2 {
			continue
		}

		marks, okMarks := atoi(parts[0])
		credits, okCredits := atoi(parts[1])
		if !okMarks || !okCredits {
			continue
		}

		entries = append(entries, store.MarkEntry{Marks: marks, Credits: credits})
	}

	return entries
}

func storeFailure(err error) *http.Response {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.NewResponse().
			WithCode(status.NotFound).
			WithString("Student not found")
	case errors.Is(err, store.ErrSubjectNotFound):
		return http.NewResponse().
			WithCode(status.NotFound).
			WithString("Subject not found")
	case errors.Is(err, store.ErrWrongPassword):
		return http.NewResponse().
			WithCode(status.Unauthorized).
			WithString("Wrong password")
	case errors.Is(err, store.ErrDuplicateID):
		return http.NewResponse().
			WithCode(status.Conflict).
			WithString("A student with this id already exists")
	case errors.Is(err, store.ErrInvalidInput), errors.Is(err, store.ErrTooManySubjects):
		return http.NewResponse().
			WithCode(status.BadRequest).
			WithString(err.Error())
	default:
		log.Printf("webapp: %s", err)
		return http.Error(status.ErrInternalServerError)
	}
}

func valueOr(f *form.Form, key, fallback string) string {
	if value, ok := f.Lookup(key); ok && value != "" {
		return value
	}

	return fallback
}

func atoi(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}

		n = n*10 + int(s[i]-'0')
	}

	return n, true
}
