package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/coopassist/verify-service/internal/api/dto"
	"github.com/coopassist/verify-service/internal/api/handlers"
	domainerrors "github.com/coopassist/verify-service/internal/domain/errors"
	"github.com/coopassist/verify-service/internal/domain/models"
	"github.com/coopassist/verify-service/tests/mocks"
	"github.com/coopassist/verify-service/tests/testutils"
)

func TestSessionsHandler_GetSession_RedactsSecrets(t *testing.T) {
	// Setup
	sess := testutils.NewTestSession()
	sess.Status = models.StatusNeedOTP
	sess.OTPExpected = "123456"
	sess.AuthToken = "tok-secret"

	mockStore := &mocks.MockStore{}
	mockStore.On("Get", mock.Anything, testutils.TestRoomID).Return(sess)

	handler := handlers.NewSessionsHandler(mockStore)

	router := testutils.SetupTestRouter()
	router.GET("/rooms/:roomId/session", handler.GetSession)

	// Execute
	w := testutils.PerformRequest(router, "GET", "/rooms/"+testutils.TestRoomID+"/session", nil, nil)

	// Assert
	testutils.AssertStatusCode(t, http.StatusOK, w)

	var response dto.SessionResponse
	testutils.ParseJSONResponse(t, w, &response)

	assert.Equal(t, testutils.TestRoomID, response.RoomID)
	assert.True(t, response.Stored)
	assert.Equal(t, string(models.StatusNeedOTP), response.Session["status"])
	// Secrets never leave the service, even for operators.
	assert.NotContains(t, w.Body.String(), "123456")
	assert.NotContains(t, w.Body.String(), "tok-secret")
}

func TestSessionsHandler_GetSession_AbsentRoom(t *testing.T) {
	// Setup
	mockStore := &mocks.MockStore{}
	mockStore.On("Get", mock.Anything, "room-unknown").Return(models.NewSession("room-unknown"))

	handler := handlers.NewSessionsHandler(mockStore)

	router := testutils.SetupTestRouter()
	router.GET("/rooms/:roomId/session", handler.GetSession)

	// Execute
	w := testutils.PerformRequest(router, "GET", "/rooms/room-unknown/session", nil, nil)

	// Assert
	testutils.AssertStatusCode(t, http.StatusOK, w)

	var response dto.SessionResponse
	testutils.ParseJSONResponse(t, w, &response)

	assert.False(t, response.Stored)
	assert.Equal(t, string(models.StatusNeedTenant), response.Session["status"])
}

func TestSessionsHandler_DeleteSession(t *testing.T) {
	// Setup
	mockStore := &mocks.MockStore{}
	mockStore.On("Delete", mock.Anything, testutils.TestRoomID).Return(nil)

	handler := handlers.NewSessionsHandler(mockStore)

	router := testutils.SetupTestRouter()
	router.DELETE("/rooms/:roomId/session", handler.DeleteSession)

	// Execute
	w := testutils.PerformRequest(router, "DELETE", "/rooms/"+testutils.TestRoomID+"/session", nil, nil)

	// Assert
	testutils.AssertStatusCode(t, http.StatusOK, w)
	mockStore.AssertExpectations(t)
}

func TestSessionsHandler_DeleteSession_StoreError(t *testing.T) {
	// Setup
	mockStore := &mocks.MockStore{}
	mockStore.On("Delete", mock.Anything, testutils.TestRoomID).
		Return(domainerrors.NewStorageError("delete", assert.AnError))

	handler := handlers.NewSessionsHandler(mockStore)

	router := testutils.SetupTestRouter()
	router.DELETE("/rooms/:roomId/session", handler.DeleteSession)

	// Execute
	w := testutils.PerformRequest(router, "DELETE", "/rooms/"+testutils.TestRoomID+"/session", nil, nil)

	// Assert
	testutils.AssertStatusCode(t, http.StatusServiceUnavailable, w)

	var response dto.ErrorResponse
	testutils.ParseJSONResponse(t, w, &response)
	assert.Equal(t, domainerrors.ErrCodeStorage, response.Code)
}
