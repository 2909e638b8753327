package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gstbill/internal/domain"
	"gstbill/internal/handler"
	"gstbill/mocks"
)

func TestProfileHandler_Upsert(t *testing.T) {
	mockSvc := new(mocks.MockProfileService)
	h := handler.NewProfileHandler(mockSvc)

	mockSvc.On("Upsert", mock.Anything, "user-7", mock.AnythingOfType("service.UpsertProfileInput")).
		Return(&domain.BusinessProfile{UserID: "user-7", GSTIN: "27ABCDE1234F1Z5"}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPut, "/api/v1/profiles/user-7", map[string]interface{}{
		"business_name": "Asha Designs",
		"gstin":         "27abcde1234f1z5",
		"address":       "Pune",
		"pincode":       "411001",
		"state":         "MH",
	})
	c.Params = gin.Params{{Key: "user_id", Value: "user-7"}}

	h.Upsert(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestProfileHandler_Upsert_MissingRequiredField(t *testing.T) {
	mockSvc := new(mocks.MockProfileService)
	h := handler.NewProfileHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPut, "/api/v1/profiles/user-7", map[string]interface{}{
		"business_name": "Asha Designs",
	})
	c.Params = gin.Params{{Key: "user_id", Value: "user-7"}}

	h.Upsert(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestProfileHandler_Get_NotFound(t *testing.T) {
	mockSvc := new(mocks.MockProfileService)
	h := handler.NewProfileHandler(mockSvc)

	mockSvc.On("GetByUserID", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/profiles/missing", nil)
	c.Params = gin.Params{{Key: "user_id", Value: "missing"}}

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}
