package handlers

import (
	"net/http"
	"testing"

	"github.com/designdesk/backend/internal/models"
)

func TestDesignersEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	_, clientToken := createTestUser(t, env.db, "client@test.com", models.UserRoleClient)
	_, designerToken := createTestUser(t, env.db, "designer-a@test.com", models.UserRoleDesigner)
	createTestUser(t, env.db, "designer-b@test.com", models.UserRoleDesigner)
	_, managerToken := createTestUser(t, env.db, "manager@test.com", models.UserRoleProjectManager)

	t.Run("manager lists designers", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/users/designers", nil, authHeaders(managerToken))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)

		data := dataList(t, body)
		if len(data) != 2 {
			t.Fatalf("expected 2 designers, got %d", len(data))
		}
		for _, entry := range data {
			user := entry.(map[string]any)
			if user["role"] != string(models.UserRoleDesigner) {
				t.Fatalf("expected only designers, got %v", user["role"])
			}
		}
	})

	t.Run("client may not list designers", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/users/designers", nil, authHeaders(clientToken))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusForbidden)
		assertEnvelopeError(t, body, "access denied")
	})

	t.Run("designer may not list designers", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/users/designers", nil, authHeaders(designerToken))
		assertStatus(t, resp, http.StatusForbidden)
	})
}
