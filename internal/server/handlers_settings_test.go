package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_GetBeforeUpsert(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.registerUser(t, "alice@example.com")

	rec := env.doJSON(t, http.MethodGet, "/api/user-settings", token, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSettings_UpsertThenGet(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.registerUser(t, "alice@example.com")

	payload := map[string]string{
		"encrypted_data": "ciphertext",
		"iv":             "iv-value",
		"salt":           "salt-value",
	}

	rec := env.doJSON(t, http.MethodPut, "/api/user-settings", token, payload, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data settingsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, userID, resp.Data.UserID)
	assert.Equal(t, "ciphertext", resp.Data.EncryptedData)

	rec = env.doJSON(t, http.MethodGet, "/api/user-settings", token, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ciphertext", resp.Data.EncryptedData)
}

func TestSettings_UpsertValidation(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.registerUser(t, "alice@example.com")

	rec := env.doJSON(t, http.MethodPut, "/api/user-settings", token, map[string]string{
		"encrypted_data": "ciphertext",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
