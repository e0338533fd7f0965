//go:build acceptance

package acceptance

import "net/http"

func (s *Suite) TestStore_CRUD() {
	access, _ := s.loginAs(superAdminEmail, superAdminPassword)

	storeID := s.createStore(access, "Acme", "acme")

	resp, body := s.doJSON(http.MethodGet, "/api/v1/stores/"+storeID, access, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	s.Equal("Acme", data["name"])
	s.Equal("acme", data["slug"])
	s.Equal(false, data["sallaConnected"])

	newName := "Acme Fulfillment"
	resp, body = s.doJSON(http.MethodPut, "/api/v1/stores/"+storeID, access, map[string]any{
		"name": newName,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal(newName, body["data"].(map[string]any)["name"])
	// Slug stays untouched on a partial update.
	s.Equal("acme", body["data"].(map[string]any)["slug"])

	resp, _ = s.doJSON(http.MethodDelete, "/api/v1/stores/"+storeID, access, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp, _ = s.doJSON(http.MethodGet, "/api/v1/stores/"+storeID, access, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *Suite) TestStore_DuplicateSlug() {
	access, _ := s.loginAs(superAdminEmail, superAdminPassword)
	s.createStore(access, "Acme", "acme")

	resp, _ := s.doJSON(http.MethodPost, "/api/v1/stores", access, map[string]string{
		"name": "Other",
		"slug": "acme",
	})
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *Suite) TestStore_ListPagination() {
	access, _ := s.loginAs(superAdminEmail, superAdminPassword)
	s.createStore(access, "Acme", "acme")
	s.createStore(access, "Beta", "beta")
	s.createStore(access, "Gamma", "gamma")

	resp, body := s.doJSON(http.MethodGet, "/api/v1/stores?page=1&limit=2", access, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	s.Len(data["stores"], 2)

	pagination := data["pagination"].(map[string]any)
	s.Equal(float64(3), pagination["total"])
	s.Equal(float64(1), pagination["page"])
	s.Equal(float64(2), pagination["limit"])
	s.Equal(float64(2), pagination["totalPages"])
}

func (s *Suite) TestStore_DeleteWithUsersBlocked() {
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

	resp, _ = s.doJSON(http.MethodDelete, "/api/v1/stores/"+storeID, access, nil)
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *Suite) TestStore_UsersVisibleToOwnAdmin() {
	access, _ := s.loginAs(superAdminEmail, superAdminPassword)
	storeID := s.createStore(access, "Acme", "acme")
	otherID := s.createStore(access, "Beta", "beta")
	token := s.inviteStoreAdmin(access, storeID, "admin@acme.test")

	resp, _ := s.doJSON(http.MethodPost, "/api/v1/auth/invitations/accept", "", map[string]string{
		"token":     token,
		"password":  "Str0ngPass",
		"firstName": "Store",
		"lastName":  "Admin",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	adminAccess, _ := s.loginAs("admin@acme.test", "Str0ngPass")

	resp, body := s.doJSON(http.MethodGet, "/api/v1/stores/"+storeID+"/users", adminAccess, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Len(body["data"].(map[string]any)["users"], 1)

	// A store admin cannot read another store's roster.
	resp, _ = s.doJSON(http.MethodGet, "/api/v1/stores/"+otherID+"/users", adminAccess, nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *Suite) TestStore_CreateForbiddenForStoreAdmin() {
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
	adminAccess, _ := s.loginAs("admin@acme.test", "Str0ngPass")

	resp, _ = s.doJSON(http.MethodPost, "/api/v1/stores", adminAccess, map[string]string{
		"name": "Rogue",
		"slug": "rogue",
	})
	s.Equal(http.StatusForbidden, resp.StatusCode)
}
