package server

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benedikt-weyer/streamline-scheduler/internal/realtime"
)

func createProjectPayload() map[string]any {
	return map[string]any{
		"encrypted_data": "ciphertext",
		"iv":             "iv-value",
		"salt":           "salt-value",
	}
}

func decodeProject(t *testing.T, body []byte) projectResponse {
	t.Helper()
	var resp struct {
		Data projectResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Data
}

func TestProjects_CRUDFlow(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.registerUser(t, "alice@example.com")

	// Create
	rec := env.doJSON(t, http.MethodPost, "/api/projects", token, createProjectPayload(), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeProject(t, rec.Body.Bytes())
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, userID, created.UserID)

	// Get
	rec = env.doJSON(t, http.MethodGet, "/api/projects/"+created.ID.String(), token, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decodeProject(t, rec.Body.Bytes()).ID)

	// Update a subset of fields
	rec = env.doJSON(t, http.MethodPut, "/api/projects/"+created.ID.String(), token, map[string]any{
		"encrypted_data": "new-ciphertext",
		"is_collapsed":   true,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeProject(t, rec.Body.Bytes())
	assert.Equal(t, "new-ciphertext", updated.EncryptedData)
	assert.True(t, updated.IsCollapsed)
	// Untouched fields keep their values.
	assert.Equal(t, "iv-value", updated.IV)

	// List
	rec = env.doJSON(t, http.MethodGet, "/api/projects", token, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listResp struct {
		Data []projectResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	assert.Len(t, listResp.Data, 1)

	// Delete
	rec = env.doJSON(t, http.MethodDelete, "/api/projects/"+created.ID.String(), token, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(t, http.MethodGet, "/api/projects/"+created.ID.String(), token, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjects_ListFilters(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.registerUser(t, "alice@example.com")

	rec := env.doJSON(t, http.MethodPost, "/api/projects", token, createProjectPayload(), nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	root := decodeProject(t, rec.Body.Bytes())

	childPayload := createProjectPayload()
	childPayload["parent_id"] = root.ID.String()
	rec = env.doJSON(t, http.MethodPost, "/api/projects", token, childPayload, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	child := decodeProject(t, rec.Body.Bytes())

	listProjects := func(path string) []projectResponse {
		t.Helper()
		rec := env.doJSON(t, http.MethodGet, path, token, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp struct {
			Data []projectResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp.Data
	}

	// Default returns root projects only.
	roots := listProjects("/api/projects")
	require.Len(t, roots, 1)
	assert.Equal(t, root.ID, roots[0].ID)

	children := listProjects("/api/projects?parent_id=" + root.ID.String())
	require.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].ID)

	all := listProjects("/api/projects?all=true")
	assert.Len(t, all, 2)
}

func TestProjects_ListInvalidParentID(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.registerUser(t, "alice@example.com")

	rec := env.doJSON(t, http.MethodGet, "/api/projects?parent_id=not-a-uuid", token, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjects_InvalidID(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.registerUser(t, "alice@example.com")

	rec := env.doJSON(t, http.MethodGet, "/api/projects/not-a-uuid", token, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjects_MissingCiphertext(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.registerUser(t, "alice@example.com")

	rec := env.doJSON(t, http.MethodPost, "/api/projects", token, map[string]any{
		"encrypted_data": "ciphertext",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjects_IsolatedBetweenUsers(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, _ := env.registerUser(t, "alice@example.com")
	bobToken, _ := env.registerUser(t, "bob@example.com")

	rec := env.doJSON(t, http.MethodPost, "/api/projects", aliceToken, createProjectPayload(), nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeProject(t, rec.Body.Bytes())

	rec = env.doJSON(t, http.MethodGet, "/api/projects/"+created.ID.String(), bobToken, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.doJSON(t, http.MethodDelete, "/api/projects/"+created.ID.String(), bobToken, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func receiveChangeEvent(t *testing.T, conn *realtime.Connection) realtime.ChangeEvent {
	t.Helper()
	select {
	case event := <-conn.Events():
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change event")
		return realtime.ChangeEvent{}
	}
}

func TestProjects_MutationBroadcastsChangeEvent(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.registerUser(t, "alice@example.com")

	conn := realtime.NewConnection()
	env.registry.Register(userID, conn)
	defer env.registry.Deregister(userID, conn.ID)

	rec := env.doJSON(t, http.MethodPost, "/api/projects", token, createProjectPayload(), nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeProject(t, rec.Body.Bytes())

	event := receiveChangeEvent(t, conn)
	assert.Equal(t, realtime.EventInsert, event.Type)
	assert.Equal(t, "projects", event.Table)
	assert.Equal(t, userID, event.UserID)
	require.NotNil(t, event.RecordID)
	assert.Equal(t, created.ID, *event.RecordID)

	var snapshot projectResponse
	require.NoError(t, json.Unmarshal(event.Data, &snapshot))
	assert.Equal(t, "ciphertext", snapshot.EncryptedData)
}

func TestProjects_DeleteBroadcastsNullData(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.registerUser(t, "alice@example.com")

	rec := env.doJSON(t, http.MethodPost, "/api/projects", token, createProjectPayload(), nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeProject(t, rec.Body.Bytes())

	conn := realtime.NewConnection()
	env.registry.Register(userID, conn)
	defer env.registry.Deregister(userID, conn.ID)

	rec = env.doJSON(t, http.MethodDelete, "/api/projects/"+created.ID.String(), token, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	event := receiveChangeEvent(t, conn)
	assert.Equal(t, realtime.EventDelete, event.Type)
	require.NotNil(t, event.RecordID)
	assert.Equal(t, created.ID, *event.RecordID)
	assert.Nil(t, event.Data)
}

func TestProjects_OriginConnectionExcluded(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.registerUser(t, "alice@example.com")

	origin := realtime.NewConnection()
	other := realtime.NewConnection()
	env.registry.Register(userID, origin)
	env.registry.Register(userID, other)
	defer env.registry.Deregister(userID, origin.ID)
	defer env.registry.Deregister(userID, other.ID)

	rec := env.doJSON(t, http.MethodPost, "/api/projects", token, createProjectPayload(), map[string]string{
		connectionIDHeader: origin.ID.String(),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	receiveChangeEvent(t, other)

	select {
	case <-origin.Events():
		t.Fatal("originating connection received its own change event")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestProjects_MalformedOriginHeaderMeansNoExclusion(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.registerUser(t, "alice@example.com")

	conn := realtime.NewConnection()
	env.registry.Register(userID, conn)
	defer env.registry.Deregister(userID, conn.ID)

	rec := env.doJSON(t, http.MethodPost, "/api/projects", token, createProjectPayload(), map[string]string{
		connectionIDHeader: "not-a-uuid",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	receiveChangeEvent(t, conn)
}
