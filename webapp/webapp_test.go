package webapp

import (
	"strings"
	"testing"

	"github.com/gradebook-web/gradebook/http"
	"github.com/gradebook-web/gradebook/http/method"
	"github.com/gradebook-web/gradebook/http/status"
	"github.com/gradebook-web/gradebook/router"
	"github.com/gradebook-web/gradebook/store"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T) (*App, *router.Router, *store.Memory) {
	t.Helper()

	st := store.NewMemory()
	app := New(st, t.TempDir())

	return app, app.Router(), st
}

func get(path, query string) *http.Request {
	r := http.NewRequest()
	r.Method = method.GET
	r.Path = path
	r.RawQuery = query

	return r
}

func post(path, body string) *http.Request {
	r := http.NewRequest()
	r.Method = method.POST
	r.Path = path
	r.Body = []byte(body)

	return r
}

func enroll(t *testing.T, st *store.Memory, password string) int {
	t.Helper()

	id, err := st.AddStudent(store.Student{
		Name: "Ella Fine",
		Age:  20,
		Dept: "CS",
		Year: 2,
		Subjects: []store.Subject{
			{Name: "Algorithms"},
			{Name: "Databases"},
		},
	}, password)
	require.NoError(t, err)

	return id
}

func TestLanding(t *testing.T) {
	_, r, _ := newApp(t)

	resp := r.OnRequest(get("/", ""))
	require.Equal(t, status.OK, resp.Code)
	require.Equal(t, "text/html; charset=utf-8", resp.ContentType)
	require.Contains(t, string(resp.Body), "Student Sign Up")
}

func TestDashboard(t *testing.T) {
	_, r, st := newApp(t)
	enroll(t, st, "secret")

	t.Run("missing credentials", func(t *testing.T) {
		resp := r.OnRequest(get("/dashboard", ""))
		require.Equal(t, status.BadRequest, resp.Code)
		require.Contains(t, string(resp.Body), "Missing id or pass")
	})

	t.Run("unknown student", func(t *testing.T) {
		resp := r.OnRequest(get("/dashboard", "id=4242&pass=secret"))
		require.Equal(t, status.NotFound, resp.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := r.OnRequest(get("/dashboard", "id=1001&pass=nope"))
		require.Equal(t, status.Unauthorized, resp.Code)
	})

	t.Run("success", func(t *testing.T) {
		resp := r.OnRequest(get("/dashboard", "id=1001&pass=secret"))
		require.Equal(t, status.OK, resp.Code)
		require.Contains(t, string(resp.Body), "Ella Fine")
		require.Contains(t, string(resp.Body), "<svg")
	})
}

func TestAdminLogin(t *testing.T) {
	_, r, _ := newApp(t)

	t.Run("missing fields", func(t *testing.T) {
		resp := r.OnRequest(post("/admin-login", ""))
		require.Equal(t, status.BadRequest, resp.Code)
	})

	t.Run("bad credentials", func(t *testing.T) {
		resp := r.OnRequest(post("/admin-login", "username=admin&password=oops"))
		require.Equal(t, status.Unauthorized, resp.Code)
		require.Contains(t, string(resp.Body), "Invalid admin credentials")
	})

	t.Run("default admin", func(t *testing.T) {
		resp := r.OnRequest(post("/admin-login", "username=admin&password=admin"))
		require.Equal(t, status.OK, resp.Code)
		require.Contains(t, string(resp.Body), "Admin Dashboard")
	})
}

func TestSignup(t *testing.T) {
	_, r, st := newApp(t)

	t.Run("missing fields", func(t *testing.T) {
		resp := r.OnRequest(post("/student-signup", "name=Bob"))
		require.Equal(t, status.BadRequest, resp.Code)
		require.Contains(t, string(resp.Body), "Missing fields")
	})

	t.Run("success", func(t *testing.T) {
		resp := r.OnRequest(post("/student-signup",
			"name=Bob+Smith&age=19&dept=EE&year=1&subjects=Circuits,Fields&password=pw"))
		require.Equal(t, status.OK, resp.Code)
		require.Contains(t, string(resp.Body), "1001")

		s, err := st.Student(1001)
		require.NoError(t, err)
		require.Equal(t, "Bob Smith", s.Name)
		require.Len(t, s.Subjects, 2)
	})

	t.Run("duplicate explicit id", func(t *testing.T) {
		body := "id=1001&name=Dup&age=19&dept=EE&year=1&subjects=X&password=pw"
		resp := r.OnRequest(post("/add", body))
		require.Equal(t, status.Conflict, resp.Code)
	})
}

func TestEnterMarks(t *testing.T) {
	_, r, st := newApp(t)
	id := enroll(t, st, "pw")

	t.Run("missing fields", func(t *testing.T) {
		resp := r.OnRequest(post("/enter-marks", "id=1001"))
		require.Equal(t, status.BadRequest, resp.Code)
	})

	t.Run("success", func(t *testing.T) {
		resp := r.OnRequest(post("/enter-marks", "id=1001&marks=95%2C4%0A85%2C4"))
		require.Equal(t, status.OK, resp.Code)

		s, err := st.Student(id)
		require.NoError(t, err)
		require.Equal(t, 95, s.Subjects[0].Marks)
		require.Equal(t, 4, s.Subjects[1].Credits)
		require.InDelta(t, 9.5, s.CGPA, 1e-9)
	})

	t.Run("unknown student", func(t *testing.T) {
		resp := r.OnRequest(post("/enter-marks", "id=4242&marks=95%2C4"))
		require.Equal(t, status.NotFound, resp.Code)
	})

	t.Run("wrong method on the form path", func(t *testing.T) {
		resp := r.OnRequest(get("/enter-marks", ""))
		require.Equal(t, status.MethodNotAllowed, resp.Code)
	})
}

func TestAttendance(t *testing.T) {
	_, r, st := newApp(t)
	id := enroll(t, st, "pw")

	resp := r.OnRequest(post("/attendance", "id=1001&subject=Algorithms&held=40&attended=36"))
	require.Equal(t, status.OK, resp.Code)

	s, err := st.Student(id)
	require.NoError(t, err)
	require.Equal(t, 90, s.Subjects[0].AttendancePercent())

	t.Run("unknown subject", func(t *testing.T) {
		resp := r.OnRequest(post("/attendance", "id=1001&subject=Nope&held=10&attended=5"))
		require.Equal(t, status.NotFound, resp.Code)
	})

	t.Run("bad numbers", func(t *testing.T) {
		resp := r.OnRequest(post("/attendance", "id=1001&subject=Algorithms&held=10&attended=11"))
		require.Equal(t, status.BadRequest, resp.Code)
	})
}

func TestGenerateAndFetchReport(t *testing.T) {
	_, r, st := newApp(t)
	enroll(t, st, "pw")

	resp := r.OnRequest(post("/generate", "id=1001&college=Tech+College&semester=Sem+3&exam=Finals"))
	require.Equal(t, status.OK, resp.Code)
	require.Contains(t, string(resp.Body), "1001_result.html")

	t.Run("served back", func(t *testing.T) {
		resp := r.OnRequest(get("/reports/1001_result.html", ""))
		require.Equal(t, status.OK, resp.Code)
		require.Equal(t, "text/html; charset=utf-8", resp.ContentType)
		require.Contains(t, string(resp.Body), "Tech College")
	})

	t.Run("escape attempts", func(t *testing.T) {
		resp := r.OnRequest(get("/reports/../secrets", ""))
		require.Equal(t, status.BadRequest, resp.Code)
	})

	t.Run("missing report", func(t *testing.T) {
		resp := r.OnRequest(get("/reports/9999_result.html", ""))
		require.Equal(t, status.NotFound, resp.Code)
	})

	t.Run("defaults fill the blanks", func(t *testing.T) {
		resp := r.OnRequest(post("/generate", "id=1001"))
		require.Equal(t, status.OK, resp.Code)

		page := r.OnRequest(get("/reports/1001_result.html", ""))
		require.Contains(t, string(page.Body), "Your College")
	})
}

func TestAPIStudents(t *testing.T) {
	_, r, st := newApp(t)
	enroll(t, st, "pw")

	t.Run("all", func(t *testing.T) {
		resp := r.OnRequest(get("/api/students", ""))
		require.Equal(t, status.OK, resp.Code)
		require.Equal(t, "application/json", resp.ContentType)

		body := string(resp.Body)
		require.Contains(t, body, `"id":1001`)
		require.Contains(t, body, `"name":"Ella Fine"`)
		// the hash never serializes
		require.NotContains(t, body, "password")
	})

	t.Run("single", func(t *testing.T) {
		resp := r.OnRequest(get("/api/students", "id=1001"))
		require.Contains(t, string(resp.Body), `"name":"Ella Fine"`)
	})

	t.Run("single unknown", func(t *testing.T) {
		resp := r.OnRequest(get("/api/students", "id=4242"))
		require.Equal(t, status.NotFound, resp.Code)
	})
}

func TestList(t *testing.T) {
	_, r, st := newApp(t)
	enroll(t, st, "pw")

	resp := r.OnRequest(get("/list", ""))
	require.Equal(t, status.OK, resp.Code)
	require.Contains(t, string(resp.Body), "Ella Fine")
}

func TestParseMarkEntries(t *testing.T) {
	entries := parseMarkEntries("95,4\r\n85, 3\n\nbroken\n70,x\n,2\n60,1")
	require.Equal(t, []store.MarkEntry{
		{Marks: 95, Credits: 4},
		{Marks: 85, Credits: 3},
		{Marks: 60, Credits: 1},
	}, entries)
}

func TestStudentFromForm(t *testing.T) {
	t.Run("subjects are trimmed and empties dropped", func(t *testing.T) {
		req := post("/student-signup", "name=A&age=20&dept=CS&year=2&subjects=+Algo+,+,DB&password=pw")
		s, password, resp := studentFromForm(req.Form())
		require.Nil(t, resp)
		require.Equal(t, "pw", password)
		require.Len(t, s.Subjects, 2)
		require.Equal(t, "Algo", s.Subjects[0].Name)
		require.Equal(t, "DB", s.Subjects[1].Name)
	})

	t.Run("semester applies to every subject", func(t *testing.T) {
		req := post("/student-signup", "name=A&age=20&dept=CS&year=2&semester=3&subjects=X,Y&password=pw")
		s, _, resp := studentFromForm(req.Form())
		require.Nil(t, resp)
		require.Equal(t, 3, s.Subjects[0].Semester)
		require.Equal(t, 3, s.Subjects[1].Semester)
	})
}
