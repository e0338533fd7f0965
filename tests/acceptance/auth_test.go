//go:build acceptance

package acceptance

import (
	"net/http"
)

func (s *Suite) TestLogin_Success() {
	resp, body := s.doJSON(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    superAdminEmail,
		"password": superAdminPassword,
	})

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(true, body["success"])

	data := body["data"].(map[string]any)
	user := data["user"].(map[string]any)
	s.Equal(superAdminEmail, user["email"])
	s.Equal("SUPER_ADMIN", user["role"])

	tokens := data["tokens"].(map[string]any)
	s.NotEmpty(tokens["accessToken"])
	s.NotEmpty(tokens["refreshToken"])
	s.Equal("Bearer", tokens["tokenType"])
}

func (s *Suite) TestLogin_WrongPassword() {
	resp, body := s.doJSON(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    superAdminEmail,
		"password": "not-the-password",
	})

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal("Invalid email or password", body["error"])
	s.Equal("/api/v1/auth/login", body["path"])
	s.Equal("POST", body["method"])
	s.NotEmpty(body["timestamp"])
}

func (s *Suite) TestLogin_UnknownEmailSameMessage() {
	_, wrongPass := s.doJSON(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    superAdminEmail,
		"password": "wrong",
	})
	_, unknown := s.doJSON(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "ghost@darkhorse3pl.test",
		"password": "wrong",
	})

	s.Equal(wrongPass["error"], unknown["error"], "login must not reveal which emails exist")
}

func (s *Suite) TestMe() {
	access, _ := s.loginAs(superAdminEmail, superAdminPassword)

	resp, body := s.doJSON(http.MethodGet, "/api/v1/auth/me", access, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	user := body["data"].(map[string]any)
	s.Equal(superAdminEmail, user["email"])
}

func (s *Suite) TestMe_NoToken() {
	resp, _ := s.doJSON(http.MethodGet, "/api/v1/auth/me", "", nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestRefresh_RotatesTokens() {
	access, refresh := s.loginAs(superAdminEmail, superAdminPassword)

	resp, body := s.doJSON(http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{
		"refreshToken": refresh,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	tokens := body["data"].(map[string]any)["tokens"].(map[string]any)
	newAccess := tokens["accessToken"].(string)
	s.NotEqual(access, newAccess)

	// The old access token was superseded by the rotation.
	resp, _ = s.doJSON(http.MethodGet, "/api/v1/auth/me", access, nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	// The new one works.
	resp, _ = s.doJSON(http.MethodGet, "/api/v1/auth/me", newAccess, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	// The consumed refresh token is dead.
	resp, _ = s.doJSON(http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{
		"refreshToken": refresh,
	})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestLogout() {
	access, _ := s.loginAs(superAdminEmail, superAdminPassword)

	resp, _ := s.doJSON(http.MethodPost, "/api/v1/auth/logout", access, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, _ = s.doJSON(http.MethodGet, "/api/v1/auth/me", access, nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestLogoutAll() {
	first, _ := s.loginAs(superAdminEmail, superAdminPassword)
	second, _ := s.loginAs(superAdminEmail, superAdminPassword)

	resp, body := s.doJSON(http.MethodPost, "/api/v1/auth/logout-all", second, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal(float64(2), body["data"].(map[string]any)["revokedSessions"])

	resp, _ = s.doJSON(http.MethodGet, "/api/v1/auth/me", first, nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	resp, _ = s.doJSON(http.MethodGet, "/api/v1/auth/me", second, nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestSessions_List() {
	access, _ := s.loginAs(superAdminEmail, superAdminPassword)
	s.loginAs(superAdminEmail, superAdminPassword)

	resp, body := s.doJSON(http.MethodGet, "/api/v1/auth/sessions", access, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	s.Equal(float64(2), data["total"])
	s.NotEmpty(data["current"])
}
