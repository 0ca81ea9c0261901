package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func phones(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = gofakeit.Numerify("9665########")
	}
	return out
}

func TestSendCampaign_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		body   interface{}
		status int
		errMsg string
	}{
		{"malformed json", `{"phones": [`, http.StatusInternalServerError, ""},
		{"phones missing", map[string]interface{}{"message": "hi"}, http.StatusBadRequest, "Invalid request - phones array required"},
		{"phones empty", map[string]interface{}{"phones": []string{}, "message": "hi"}, http.StatusBadRequest, "Invalid request - phones array required"},
		{"phones not an array", map[string]interface{}{"phones": "966500000000", "message": "hi"}, http.StatusBadRequest, "Invalid request - phones array required"},
		{"message missing", map[string]interface{}{"phones": phones(1)}, http.StatusBadRequest, "Invalid request - message required"},
		{"message blank", map[string]interface{}{"phones": phones(1), "message": "   "}, http.StatusBadRequest, "Invalid request - message required"},
		{"message not a string", map[string]interface{}{"phones": phones(1), "message": 5}, http.StatusBadRequest, "Invalid request - message required"},
		{"too many phones", map[string]interface{}{"phones": phones(11), "message": "hi"}, http.StatusBadRequest, "Maximum 10 recipients allowed per campaign"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := env.do(t, http.MethodPost, "/api/campaigns/send", env.token(t, entities.RoleUser), tt.body)

			assert.Equal(t, tt.status, rec.Code)
			msg := errorBody(t, rec)
			if tt.errMsg != "" {
				assert.Equal(t, tt.errMsg, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
			assert.Empty(t, env.dispatcher.got)
		})
	}
}

func TestSendCampaign_RequiresToken(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]interface{}{"phones": phones(1), "message": "hi"}

	rec := env.do(t, http.MethodPost, "/api/campaigns/send", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized - No token provided", errorBody(t, rec))

	rec = env.do(t, http.MethodPost, "/api/campaigns/send", "not-a-jwt", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized - Invalid token", errorBody(t, rec))

	rec = env.do(t, http.MethodGet, "/api/campaigns/history", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authorization header required", errorBody(t, rec))
}

func TestSendCampaign_Success(t *testing.T) {
	env := newTestEnv(t)
	env.withTenant()
	env.campaigns.On("Create", mock.Anything, mock.AnythingOfType("*entities.CampaignHistory")).Return(nil).Once()

	to := phones(3)
	rec := env.do(t, http.MethodPost, "/api/campaigns/send", env.token(t, entities.RoleUser),
		map[string]interface{}{"phones": to, "message": "  Eid sale starts today  "})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"recipientCount":3}`, rec.Body.String())

	require.Len(t, env.dispatcher.got, 1)
	got := env.dispatcher.got[0]
	assert.Equal(t, to, got.Phones)
	assert.Equal(t, "Eid sale starts today", got.Message)
	assert.Equal(t, testUserID, got.UserID)
	require.NotNil(t, got.ClientID)
	assert.Equal(t, testClientID, *got.ClientID)
	env.campaigns.AssertExpectations(t)
}

func TestSendCampaign_WithoutProfile(t *testing.T) {
	env := newTestEnv(t)
	env.users.On("FindProfile", mock.Anything, testUserID).Return(nil, apperrors.ErrNotFound)
	env.campaigns.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed")).Once()

	rec := env.do(t, http.MethodPost, "/api/campaigns/send", env.token(t, entities.RoleUser),
		map[string]interface{}{"phones": phones(1), "message": "hi"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env.dispatcher.got, 1)
	assert.Nil(t, env.dispatcher.got[0].ClientID)
}

func TestSendCampaign_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.withTenant()
	env.notifications.On("Create", mock.Anything, mock.AnythingOfType("*entities.Notification")).Return(nil).Once()
	env.dispatcher.err = fmt.Errorf("%w: webhook returned 500", apperrors.ErrUpstream)

	rec := env.do(t, http.MethodPost, "/api/campaigns/send", env.token(t, entities.RoleUser),
		map[string]interface{}{"phones": phones(2), "message": "hi"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Failed to send campaign", errorBody(t, rec))
	env.campaigns.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	env.notifications.AssertExpectations(t)
}

func TestSendCampaign_TransportFailure(t *testing.T) {
	env := newTestEnv(t)
	env.users.On("FindProfile", mock.Anything, testUserID).Return(nil, apperrors.ErrNotFound)
	env.dispatcher.err = errors.New("dial tcp 10.0.0.1:443: connect: connection refused")

	rec := env.do(t, http.MethodPost, "/api/campaigns/send", env.token(t, entities.RoleUser),
		map[string]interface{}{"phones": phones(1), "message": "hi"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.Contains(errorBody(t, rec), "connection refused"))
}

func TestCampaignHistory(t *testing.T) {
	env := newTestEnv(t)
	env.withTenant()
	env.campaigns.On("Latest", mock.Anything, 20).Return(nil, nil).Once()

	rec := env.do(t, http.MethodGet, "/api/campaigns/history", env.token(t, entities.RoleUser), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestDecodeCampaign(t *testing.T) {
	req, err := decodeCampaign([]byte(`{"phones":null,"message":"hi"}`))
	require.NoError(t, err)
	assert.Nil(t, req.Phones)
	require.NotNil(t, req.Message)
	assert.Equal(t, "hi", *req.Message)

	_, err = decodeCampaign([]byte(`{"phones":[1,2]}`))
	assert.True(t, apperrors.IsBadRequestError(err))

	_, err = decodeCampaign([]byte(`[]`))
	assert.Error(t, err)
	assert.False(t, apperrors.IsBadRequestError(err))
}
