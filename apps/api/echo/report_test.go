package echoapi

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/fee"
	"github.com/trezcool/shule/core/report"
	"github.com/trezcool/shule/core/user"
)

func (env *testEnv) seedFee(t *testing.T, studentID int, amount, paid float64) {
	t.Helper()

	now := time.Now().UTC()
	f := fee.Fee{
		StudentID:  studentID,
		Amount:     amount,
		PaidAmount: paid,
		DueDate:    now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.DeriveStatus()
	if _, err := env.feeRepo.CreateFee(context.Background(), f); err != nil {
		t.Fatalf("seedFee() failed, %v", err)
	}
}

func Test_reportApi_dashboard(t *testing.T) {
	env := newTestServer(t)

	admin := env.createUser(t, "Admin", "admin1", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	parent := env.createUser(t, "Parent", "parent1", "parent@test.cd", "", []string{user.RoleParent}, true)

	b := env.seedBatch(t, "Math A")
	st1 := env.seedStudent(t, "Amani", b.ID)
	st2 := env.seedStudent(t, "Zawadi", b.ID)

	env.seedRecord(t, st1.ID, b.ID, "2021-03-01", attendance.StatusPresent)
	env.seedRecord(t, st1.ID, b.ID, "2021-03-02", attendance.StatusExcused)
	env.seedRecord(t, st2.ID, b.ID, "2021-03-01", attendance.StatusLate)
	env.seedRecord(t, st2.ID, b.ID, "2021-03-02", attendance.StatusAbsent)

	env.seedFee(t, st1.ID, 100, 30)
	env.seedFee(t, st2.ID, 50, 0)

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: httpErr("missing or malformed jwt")},
		{name: "staff only", token: getToken(t, parent), wantCode: http.StatusForbidden, wantData: httpErr("permission denied")},
		{name: "computed", token: getToken(t, admin), wantCode: http.StatusOK,
			wantData: marchallObj(t, report.DashboardStats{
				TotalStudents:            2,
				ActiveBatches:            1,
				AttendancePercentOverall: 50,
				FeesDue:                  120,
			})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/reports/dashboard", tt.token)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_reportApi_batchAttendance(t *testing.T) {
	env := newTestServer(t)

	teacher := env.createUser(t, "Teacher", "teach1", "teach@test.cd", "", []string{user.RoleTeacher}, true)
	b := env.seedBatch(t, "Math A")
	st := env.seedStudent(t, "Amani", b.ID)

	env.seedRecord(t, st.ID, b.ID, "2021-03-01", attendance.StatusPresent)
	env.seedRecord(t, st.ID, b.ID, "2021-03-02", attendance.StatusExcused)

	token := getToken(t, teacher)

	tests := []httpTest{
		{name: "unknown batch", path: "/v1/reports/batch-attendance/999", token: token,
			wantCode: http.StatusNotFound, wantData: httpErr("batch not found")},
		{name: "bad from param", path: "/v1/reports/batch-attendance/" + itoa(b.ID) + "?from=lol", token: token,
			wantCode: http.StatusBadRequest},
		{name: "stats", path: "/v1/reports/batch-attendance/" + itoa(b.ID), token: token, wantCode: http.StatusOK,
			wantData: marchallObj(t, []attendance.StudentStats{{
				StudentID: st.ID, StudentName: "Amani",
				TotalClasses: 2, PresentCount: 1, ExcusedCount: 1,
				PresentPercent: 50,
			}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_reportApi_exportBatchAttendance(t *testing.T) {
	env := newTestServer(t)

	teacher := env.createUser(t, "Teacher", "teach1", "teach@test.cd", "", []string{user.RoleTeacher}, true)
	b := env.seedBatch(t, "Math A")
	st := env.seedStudent(t, "Amani", b.ID)

	env.seedRecord(t, st.ID, b.ID, "2021-03-01", attendance.StatusPresent)
	env.seedRecord(t, st.ID, b.ID, "2021-03-02", attendance.StatusAbsent)

	req, rec := newAuthRequest(http.MethodGet, "/v1/reports/batch-attendance/"+itoa(b.ID)+"/export", getToken(t, teacher))
	env.server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("exportBatchAttendance() code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("exportBatchAttendance() Content-Type = %q; want %q", ct, xlsxContentType)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("exportBatchAttendance() Content-Disposition = %q; want an attachment", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("exportBatchAttendance() returned an unreadable workbook, %v", err)
	}
	rows, err := f.GetRows("Attendance")
	if err != nil {
		t.Fatalf("GetRows() failed, %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("exportBatchAttendance() wrote %d rows; want 2", len(rows))
	}
	if rows[1][1] != "Amani" {
		t.Errorf("exportBatchAttendance() student = %q; want %q", rows[1][1], "Amani")
	}
}
