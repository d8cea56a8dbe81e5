package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/user"
)

func Test_attendanceApi_mark(t *testing.T) {
	env := newTestServer(t)

	teacher := env.createUser(t, "Teacher", "teach1", "teach@test.cd", "", []string{user.RoleTeacher}, true)
	parent := env.createUser(t, "Parent", "parent1", "parent@test.cd", "", []string{user.RoleParent}, true)
	b := env.seedBatch(t, "Math A")
	st := env.seedStudent(t, "Amani", b.ID)

	markBody := func(studentID, batchID int, date string, status attendance.Status) []byte {
		return marchallObj(t, attendance.NewAttendance{StudentID: studentID, BatchID: batchID, Date: date, Status: status})
	}

	tests := []httpTest{
		{name: "auth required", body: markBody(st.ID, b.ID, "2021-03-01", attendance.StatusPresent),
			wantCode: http.StatusUnauthorized, wantData: httpErr("missing or malformed jwt")},
		{name: "staff only", token: getToken(t, parent), body: markBody(st.ID, b.ID, "2021-03-01", attendance.StatusPresent),
			wantCode: http.StatusForbidden, wantData: httpErr("permission denied")},
		{name: "bad status", token: getToken(t, teacher), body: markBody(st.ID, b.ID, "2021-03-01", "vanished"),
			wantCode: http.StatusBadRequest},
		{name: "bad date", token: getToken(t, teacher), body: markBody(st.ID, b.ID, "01-03-2021", attendance.StatusPresent),
			wantCode: http.StatusBadRequest},
		{name: "unknown student", token: getToken(t, teacher), body: markBody(999, b.ID, "2021-03-01", attendance.StatusPresent),
			wantCode: http.StatusNotFound, wantData: httpErr("student not found")},
		{name: "unknown batch", token: getToken(t, teacher), body: markBody(st.ID, 999, "2021-03-01", attendance.StatusPresent),
			wantCode: http.StatusNotFound, wantData: httpErr("batch not found")},
		{name: "marked", token: getToken(t, teacher), body: markBody(st.ID, b.ID, "2021-03-01", attendance.StatusLate),
			wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/attendance", tt.token, tt.body)
			env.server.ServeHTTP(rec, req)

			checkCodeAndData(t, tt, rec)
			if tt.wantCode == http.StatusCreated {
				var att attendance.Attendance
				if err := json.Unmarshal(rec.Body.Bytes(), &att); err != nil {
					t.Fatalf("mark() invalid response, %v", err)
				}
				if att.ID == 0 {
					t.Error("mark() did not persist the record")
				}
				if att.MarkedByID != teacher.ID {
					t.Errorf("mark() markedByID = %d; want %d", att.MarkedByID, teacher.ID)
				}
			}
		})
	}
}

func Test_attendanceApi_studentSummary(t *testing.T) {
	env := newTestServer(t)

	parent := env.createUser(t, "Parent", "parent1", "parent@test.cd", "", []string{user.RoleParent}, true)
	b := env.seedBatch(t, "Math A")
	st := env.seedStudent(t, "Amani", b.ID)

	env.seedRecord(t, st.ID, b.ID, "2021-03-01", attendance.StatusPresent)
	env.seedRecord(t, st.ID, b.ID, "2021-03-02", attendance.StatusPresent)
	env.seedRecord(t, st.ID, b.ID, "2021-03-03", attendance.StatusAbsent)
	env.seedRecord(t, st.ID, b.ID, "2021-03-04", attendance.StatusLate)
	env.seedRecord(t, st.ID, b.ID, "2021-03-05", attendance.StatusExcused)

	token := getToken(t, parent)
	path := "/v1/attendance/student/" + itoa(st.ID) + "/summary"

	tests := []httpTest{
		{name: "auth required", path: path, wantCode: http.StatusUnauthorized, wantData: httpErr("missing or malformed jwt")},
		{name: "unknown student", path: "/v1/attendance/student/999/summary", token: token,
			wantCode: http.StatusNotFound, wantData: httpErr("student not found")},
		{name: "bad fromDate", path: path + "?fromDate=lol", token: token, wantCode: http.StatusBadRequest},
		{name: "full range", path: path, token: token, wantCode: http.StatusOK,
			wantData: marchallObj(t, attendance.Summary{
				TotalClasses: 5, PresentCount: 2, AbsentCount: 1, LateCount: 1, ExcusedCount: 1,
				AttendancePercent: 70,
			})},
		{name: "bounded range", path: path + "?fromDate=2021-03-01&toDate=2021-03-02", token: token, wantCode: http.StatusOK,
			wantData: marchallObj(t, attendance.Summary{
				TotalClasses: 2, PresentCount: 2, AttendancePercent: 100,
			})},
		{name: "inverted range", path: path + "?fromDate=2021-03-05&toDate=2021-03-01", token: token, wantCode: http.StatusOK,
			wantData: marchallObj(t, attendance.Summary{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_attendanceApi_markBatch(t *testing.T) {
	env := newTestServer(t)

	teacher := env.createUser(t, "Teacher", "teach1", "teach@test.cd", "", []string{user.RoleTeacher}, true)
	b := env.seedBatch(t, "Math A")
	st1 := env.seedStudent(t, "Amani", b.ID)
	st2 := env.seedStudent(t, "Zawadi", b.ID)

	body := marchallObj(t, attendance.BulkMark{Entries: []attendance.BulkEntry{
		{StudentID: st1.ID, Status: attendance.StatusPresent},
		{StudentID: st2.ID, Status: attendance.StatusAbsent, Note: "sick"},
	}})
	token := getToken(t, teacher)
	path := "/v1/attendance/batch/" + itoa(b.ID) + "/date/2021-03-01"

	t.Run("empty entries", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, path, token, []byte(`{"entries":[]}`))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("markBatch() code = %v; want %v", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("bad date param", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/batch/"+itoa(b.ID)+"/date/lol", token, body)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("markBatch() code = %v; want %v", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("marked then listed", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, path, token, body)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("markBatch() code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var atts []attendance.Attendance
		if err := json.Unmarshal(rec.Body.Bytes(), &atts); err != nil {
			t.Fatalf("markBatch() invalid response, %v", err)
		}
		if len(atts) != 2 {
			t.Fatalf("markBatch() created %d records; want 2", len(atts))
		}

		req, rec = newAuthRequest(http.MethodGet, path, token)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("listByBatchDate() code = %v; want %v", rec.Code, http.StatusOK)
		}
		var listed []attendance.Attendance
		if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
			t.Fatalf("listByBatchDate() invalid response, %v", err)
		}
		if len(listed) != 2 {
			t.Errorf("listByBatchDate() returned %d records; want 2", len(listed))
		}
	})
}
