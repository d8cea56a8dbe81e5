package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/shule/core/user"
)

func Test_userApi_login(t *testing.T) {
	env := newTestServer(t)

	env.createUser(t, "Active", "active1", "active@test.cd", "LikeAHurricane!", nil, true)
	env.createUser(t, "Inactive", "inactive1", "inactive@test.cd", "LikeAHurricane!", nil, false)

	loginBody := func(uname, pwd string) []byte {
		return marchallObj(t, LoginRequest{Username: uname, Password: pwd})
	}

	tests := []httpTest{
		{name: "empty body", body: []byte("{}"), wantCode: http.StatusBadRequest},
		{name: "unknown user", body: loginBody("ghost", "lol"), wantCode: http.StatusBadRequest, wantData: httpErr("authentication failed")},
		{name: "wrong password", body: loginBody("active1", "lol"), wantCode: http.StatusBadRequest, wantData: httpErr("authentication failed")},
		{name: "deactivated account", body: loginBody("inactive1", "LikeAHurricane!"), wantCode: http.StatusForbidden, wantData: httpErr("account deactivated")},
		{name: "login with username", body: loginBody("active1", "LikeAHurricane!"), wantCode: http.StatusOK},
		{name: "login with email", body: loginBody("active@test.cd", "LikeAHurricane!"), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			env.server.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("login() code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			} else if tt.wantCode == http.StatusOK {
				var res LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
					t.Fatalf("login() invalid response, %v", err)
				}
				if res.Token == "" {
					t.Error("login() returned an empty token")
				}
			}
		})
	}
}

func Test_userApi_query(t *testing.T) {
	env := newTestServer(t)

	admin := env.createUser(t, "Admin", "admin1", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	teacher := env.createUser(t, "Teacher", "teach1", "teach@test.cd", "", []string{user.RoleTeacher}, true)
	parent := env.createUser(t, "Parent", "parent1", "parent@test.cd", "", []string{user.RoleParent}, true)

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: httpErr("missing or malformed jwt")},
		{name: "admin only (teacher)", token: getToken(t, teacher), wantCode: http.StatusForbidden, wantData: httpErr("permission denied")},
		{name: "admin only (parent)", token: getToken(t, parent), wantCode: http.StatusForbidden, wantData: httpErr("permission denied")},
		{name: "all users", token: getToken(t, admin), wantCode: http.StatusOK, wantData: marchallObj(t, []user.User{admin, parent, teacher})}, // name order
		{name: "role filter", path: "/v1/users?role=teacher%3A", token: getToken(t, admin), wantCode: http.StatusOK, wantData: marchallObj(t, []user.User{teacher})},
	}
	for _, tt := range tests {
		if tt.path == "" {
			tt.path = "/v1/users"
		}
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_retrieve(t *testing.T) {
	env := newTestServer(t)

	admin := env.createUser(t, "Admin", "admin1", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	parent := env.createUser(t, "Parent", "parent1", "parent@test.cd", "", []string{user.RoleParent}, true)
	other := env.createUser(t, "Other", "other1", "other@test.cd", "", []string{user.RoleParent}, true)

	tests := []httpTest{
		{name: "self", path: "/v1/users/" + itoa(parent.ID), token: getToken(t, parent), wantCode: http.StatusOK, wantData: marchallObj(t, parent)},
		{name: "someone else", path: "/v1/users/" + itoa(other.ID), token: getToken(t, parent), wantCode: http.StatusNotFound},
		{name: "admin can read anyone", path: "/v1/users/" + itoa(other.ID), token: getToken(t, admin), wantCode: http.StatusOK, wantData: marchallObj(t, other)},
		{name: "unknown id", path: "/v1/users/999", token: getToken(t, admin), wantCode: http.StatusNotFound},
		{name: "malformed id", path: "/v1/users/lol", token: getToken(t, admin), wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
