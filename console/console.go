// Package console is the interactive terminal front end. It drives the same
// record store as the web handlers through line-oriented menus.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gradebook-web/gradebook/gpa"
	"github.com/gradebook-web/gradebook/report"
	"github.com/gradebook-web/gradebook/store"
)

type Console struct {
	store      store.Store
	reportsDir string
	in         *bufio.Scanner
	out        io.Writer
}

func New(st store.Store, reportsDir string, in io.Reader, out io.Writer) *Console {
	return &Console{
		store:      st,
		reportsDir: reportsDir,
		in:         bufio.NewScanner(in),
		out:        out,
	}
}

// Run loops over the main menu until the user exits or input ends.
func (c *Console) Run() error {
	for {
		fmt.Fprint(c.out,
			"\n==== Student Record & Result Management ====\n"+
				"1. Admin login\n"+
				"2. Student sign up\n"+
				"3. Student sign in\n"+
				"4. Exit\n"+
				"Choice: ")

		line, ok := c.readLine()
		if !ok {
			return nil
		}

		switch strings.TrimSpace(line) {
		case "1":
			c.adminLogin()
		case "2":
			c.signup()
		case "3":
			c.studentLogin()
		case "4", "q", "exit":
			fmt.Fprintln(c.out, "Bye.")
			return nil
		default:
			fmt.Fprintln(c.out, "Unknown choice.")
		}
	}
}

func (c *Console) adminLogin() {
	user := c.prompt("Admin username: ")
	pass := c.prompt("Admin password: ")

	if !c.store.AdminAuth(user, pass) {
		fmt.Fprintln(c.out, "Invalid admin credentials.")
		return
	}

	c.adminMenu()
}

func (c *Console) adminMenu() {
	for {
		fmt.Fprint(c.out,
			"\n---- Admin ----\n"+
				"1. List students\n"+
				"2. Add student\n"+
				"3. Enter marks\n"+
				"4. Record attendance\n"+
				"5. Generate report\n"+
				"6. Back\n"+
				"Choice: ")

		line, ok := c.readLine()
		if !ok {
			return
		}

		switch strings.TrimSpace(line) {
		case "1":
			c.listStudents()
		case "2":
			c.addStudent()
		case "3":
			c.enterMarks()
		case "4":
			c.recordAttendance()
		case "5":
			c.generateReport()
		case "6":
			return
		default:
			fmt.Fprintln(c.out, "Unknown choice.")
		}
	}
}

func (c *Console) listStudents() {
	students, err := c.store.Students()
	if err != nil {
		fmt.Fprintf(c.out, "Error: %s\n", err)
		return
	}
	if len(students) == 0 {
		fmt.Fprintln(c.out, "No students registered yet.")
		return
	}

	fmt.Fprintf(c.out, "%-6s %-24s %-5s %-12s %s\n", "ID", "Name", "Year", "Dept", "CGPA")
	for _, s := range students {
		fmt.Fprintf(c.out, "%-6d %-24s %-5d %-12s %.3f\n", s.ID, s.Name, s.Year, s.Dept, s.CGPA)
	}
}

func (c *Console) addStudent() {
	s := store.Student{
		Name: c.prompt("Name: "),
		Age:  c.promptInt("Age: "),
		Dept: c.prompt("Department: "),
		Year: c.promptInt("Year: "),
	}

	for _, name := range strings.Split(c.prompt("Subjects (comma-separated): "), ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		s.Subjects = append(s.Subjects, store.Subject{Name: name})
	}

	password := c.prompt("Password: ")

	id, err := c.store.AddStudent(s, password)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %s\n", err)
		return
	}

	fmt.Fprintf(c.out, "Student added with ID %d.\n", id)
}

func (c *Console) signup() {
	c.addStudent()
}

func (c *Console) enterMarks() {
	id := c.promptInt("Student ID: ")

	student, err := c.store.Student(id)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %s\n", err)
		return
	}

	var entries []store.MarkEntry
	for _, sub := range student.Subjects {
		fmt.Fprintf(c.out, "%s:\n", sub.Name)
		entries = append(entries, store.MarkEntry{
			Marks:   c.promptInt("  Marks: "),
			Credits: c.promptInt("  Credits: "),
		})
	}

	updated, err := c.store.EnterMarks(id, entries)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %s\n", err)
		return
	}

	fmt.Fprintf(c.out, "Saved. CGPA is now %.3f.\n", updated.CGPA)
}

func (c *Console) recordAttendance() {
	id := c.promptInt("Student ID: ")
	subject := c.prompt("Subject name: ")
	held := c.promptInt("Classes held: ")
	attended := c.promptInt("Classes attended: ")

	if _, err := c.store.RecordAttendance(id, subject, held, attended); err != nil {
		fmt.Fprintf(c.out, "Error: %s\n", err)
		return
	}

	fmt.Fprintln(c.out, "Attendance recorded.")
}

func (c *Console) generateReport() {
	id := c.promptInt("Student ID: ")

	student, err := c.store.Student(id)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %s\n", err)
		return
	}

	college := orDefault(c.prompt("College [Your College]: "), "Your College")
	semester := orDefault(c.prompt("Semester [Semester -]: "), "Semester -")
	exam := orDefault(c.prompt("Exam [Exam -]: "), "Exam -")

	name, err := report.Generate(c.reportsDir, student, college, semester, exam)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %s\n", err)
		return
	}

	fmt.Fprintf(c.out, "Report written: %s\n", name)
}

func (c *Console) studentLogin() {
	id := c.promptInt("Student ID: ")
	pass := c.prompt("Password: ")

	student, err := c.store.Authenticate(id, pass)
	switch {
	case errors.Is(err, store.ErrNotFound):
		fmt.Fprintln(c.out, "No such student.")
		return
	case errors.Is(err, store.ErrWrongPassword):
		fmt.Fprintln(c.out, "Wrong password.")
		return
	case err != nil:
		fmt.Fprintf(c.out, "Error: %s\n", err)
		return
	}

	c.showDashboard(student)
}

func (c *Console) showDashboard(s store.Student) {
	fmt.Fprintf(c.out, "\n%s (ID %d) | Dept: %s | Year: %d | Age: %d\n",
		s.Name, s.ID, s.Dept, s.Year, s.Age)

	fmt.Fprintf(c.out, "%-3s %-20s %-6s %-8s %-6s %s\n",
		"#", "Subject", "Marks", "Credits", "Grade", "Attendance")
	for i, sub := range s.Subjects {
		fmt.Fprintf(c.out, "%-3d %-20s %-6d %-8d %-6d %d%%\n",
			i+1, sub.Name, sub.Marks, sub.Credits,
			gpa.GradePoint(sub.Marks), sub.AttendancePercent())
	}

	graded := store.Graded(s.Subjects)
	fmt.Fprintf(c.out, "SGPA: %.3f  CGPA: %.3f (Credits: %d)\n",
		gpa.SGPA(graded), s.CGPA, s.CreditsCompleted)
}

func (c *Console) prompt(label string) string {
	fmt.Fprint(c.out, label)
	line, _ := c.readLine()

	return strings.TrimSpace(line)
}

func (c *Console) promptInt(label string) int {
	for {
		raw := c.prompt(label)
		if raw == "" {
			return 0
		}

		n, err := strconv.Atoi(raw)
		if err == nil {
			return n
		}

		fmt.Fprintln(c.out, "Not a number, try again.")
	}
}

func (c *Console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}

	return c.in.Text(), true
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}

	return s
}
