//go:build acceptance

package acceptance

import (
	"net/http"
	"strings"
)

// createStore makes a store as the super admin and returns its id.
func (s *Suite) createStore(access, name, slug string) string {
	resp, body := s.doJSON(http.MethodPost, "/api/v1/stores", access, map[string]string{
		"name": name,
		"slug": slug,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, "store creation failed: %v", body)
	return body["data"].(map[string]any)["id"].(string)
}

// inviteStoreAdmin invites a store admin and returns the emailed token.
func (s *Suite) inviteStoreAdmin(access, storeID, email string) string {
	resp, body := s.doJSON(http.MethodPost, "/api/v1/auth/invitations/store-admin", access, map[string]string{
		"email":    email,
		"fullName": "Invited Admin",
		"storeId":  storeID,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, "invitation failed: %v", body)

	sent, ok := s.Mailer.LastInvitation()
	s.Require().True(ok, "invitation email was not sent")
	s.Require().Equal(email, sent.To)

	// The acceptance link carries the token as its only query parameter.
	parts := strings.Split(sent.InvitationLink, "token=")
	s.Require().Len(parts, 2)
	return parts[1]
}

func (s *Suite) TestInvitationFlow() {
	access, _ := s.loginAs(superAdminEmail, superAdminPassword)
	storeID := s.createStore(access, "Acme", "acme")
	token := s.inviteStoreAdmin(access, storeID, "admin@acme.test")

	// The token validates before acceptance.
	resp, body := s.doJSON(http.MethodGet, "/api/v1/auth/invitations/validate/"+token, "", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal("Acme", body["data"].(map[string]any)["storeName"])

	// Accepting creates the account and logs it in.
	resp, body = s.doJSON(http.MethodPost, "/api/v1/auth/invitations/accept", "", map[string]string{
		"token":     token,
		"password":  "Str0ngPass",
		"firstName": "Invited",
		"lastName":  "Admin",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, "acceptance failed: %v", body)

	data := body["data"].(map[string]any)
	user := data["user"].(map[string]any)
	s.Equal("admin@acme.test", user["email"])
	s.Equal("STORE_ADMIN", user["role"])
	s.Equal("ACTIVE", user["status"])
	s.Equal(storeID, user["storeId"])
	s.NotNil(data["tokens"], "acceptance should log the new user in")

	// The new admin can log in normally afterwards.
	s.loginAs("admin@acme.test", "Str0ngPass")
}

func (s *Suite) TestInvitation_AcceptTwice() {
	access, _ := s.loginAs(superAdminEmail, superAdminPassword)
	storeID := s.createStore(access, "Acme", "acme")
	token := s.inviteStoreAdmin(access, storeID, "admin@acme.test")

	payload := map[string]string{
		"token":     token,
		"password":  "Str0ngPass",
		"firstName": "Only",
		"lastName":  "Once",
	}

	resp, _ := s.doJSON(http.MethodPost, "/api/v1/auth/invitations/accept", "", payload)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	// A spent link reads as an unknown token.
	resp, _ = s.doJSON(http.MethodPost, "/api/v1/auth/invitations/accept", "", payload)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *Suite) TestInvitation_RequiresSuperAdmin() {
	access, _ := s.loginAs(superAdminEmail, superAdminPassword)
	storeID := s.createStore(access, "Acme", "acme")
	token := s.inviteStoreAdmin(access, storeID, "admin@acme.test")

	resp, _ := s.doJSON(http.MethodPost, "/api/v1/auth/invitations/accept", "", map[string]string{
		"token":     token,
		"password":  "Str0ngPass",
		"firstName": "Store",
		"lastName":  "Admin",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	storeAdminAccess, _ := s.loginAs("admin@acme.test", "Str0ngPass")

	resp, _ = s.doJSON(http.MethodPost, "/api/v1/auth/invitations/store-admin", storeAdminAccess, map[string]string{
		"email":    "another@acme.test",
		"fullName": "Another",
		"storeId":  storeID,
	})
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *Suite) TestInvitation_RoleHierarchyChain() {
	access, _ := s.loginAs(superAdminEmail, superAdminPassword)
	storeID := s.createStore(access, "Acme", "acme")

	// SUPER_ADMIN -> STORE_ADMIN
	token := s.inviteStoreAdmin(access, storeID, "admin@acme.test")
	resp, _ := s.doJSON(http.MethodPost, "/api/v1/auth/invitations/accept", "", map[string]string{
		"token": token, "password": "Str0ngPass", "firstName": "Store", "lastName": "Admin",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	adminAccess, _ := s.loginAs("admin@acme.test", "Str0ngPass")

	// STORE_ADMIN -> DIRECTOR, storeId defaulting to own store
	resp, body := s.doJSON(http.MethodPost, "/api/v1/auth/invitations", adminAccess, map[string]string{
		"email":    "director@acme.test",
		"fullName": "Director",
		"role":     "DIRECTOR",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, "director invite failed: %v", body)
	s.Equal(storeID, body["data"].(map[string]any)["storeId"])

	// STORE_ADMIN cannot skip a level.
	resp, _ = s.doJSON(http.MethodPost, "/api/v1/auth/invitations", adminAccess, map[string]string{
		"email":    "manager@acme.test",
		"fullName": "Manager",
		"role":     "MANAGER",
	})
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *Suite) TestInvitation_DuplicatePending() {
	access, _ := s.loginAs(superAdminEmail, superAdminPassword)
	storeID := s.createStore(access, "Acme", "acme")
	s.inviteStoreAdmin(access, storeID, "admin@acme.test")

	resp, _ := s.doJSON(http.MethodPost, "/api/v1/auth/invitations/store-admin", access, map[string]string{
		"email":    "admin@acme.test",
		"fullName": "Duplicate",
		"storeId":  storeID,
	})
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *Suite) TestInvitation_Resend() {
	access, _ := s.loginAs(superAdminEmail, superAdminPassword)
	storeID := s.createStore(access, "Acme", "acme")

	resp, body := s.doJSON(http.MethodPost, "/api/v1/auth/invitations/store-admin", access, map[string]string{
		"email":    "admin@acme.test",
		"fullName": "Invited Admin",
		"storeId":  storeID,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	invitationID := body["data"].(map[string]any)["id"].(string)

	resp, _ = s.doJSON(http.MethodPost, "/api/v1/auth/invitations/"+invitationID+"/resend", access, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Len(s.Mailer.Invitations, 2)
}

func (s *Suite) TestInvitation_UnknownToken() {
	resp, _ := s.doJSON(http.MethodGet, "/api/v1/auth/invitations/validate/deadbeef", "", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}
