package campaigns

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/divluffy/lightforgaza/config"
	"github.com/divluffy/lightforgaza/models"
	"github.com/divluffy/lightforgaza/utils"
)

func newMockController(t *testing.T) (*CampaignController, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	dialector := gormmysql.New(gormmysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	cfg := &config.Config{JWT: config.JWT{Secret: "test-secret"}}
	return NewCampaignController(db, cfg), mock
}

func authedRequest(method, target string, body []byte, userID, role string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), utils.UserIDKey, userID)
	ctx = context.WithValue(ctx, utils.UserRoleKey, role)
	return req.WithContext(ctx)
}

func campaignBody(goal float64) map[string]interface{} {
	return map[string]interface{}{
		"title":             "Rebuild the school",
		"description":       "Help us rebuild the classrooms.",
		"goal_amount":       goal,
		"campaign_type":     "Education",
		"image_url":         "https://img.example.com/school.jpg",
		"thank_you_message": "Thank you for standing with us.",
	}
}

func TestCreateCampaign_GoalBounds(t *testing.T) {
	c, _ := newMockController(t)

	for _, goal := range []float64{999, 100001} {
		raw, _ := json.Marshal(campaignBody(goal))
		req := authedRequest(http.MethodPost, "/v1/campaigns", raw, "user-1", models.RoleUser)
		rec := httptest.NewRecorder()
		c.Create(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "goal %v", goal)
	}
}

func TestCreateCampaign_InvalidType(t *testing.T) {
	c, _ := newMockController(t)

	body := campaignBody(5000)
	body["campaign_type"] = "Charity"
	raw, _ := json.Marshal(body)
	req := authedRequest(http.MethodPost, "/v1/campaigns", raw, "user-1", models.RoleUser)
	rec := httptest.NewRecorder()
	c.Create(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCampaign_StartsUnapproved(t *testing.T) {
	c, mock := newMockController(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `campaigns`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	raw, _ := json.Marshal(campaignBody(5000))
	req := authedRequest(http.MethodPost, "/v1/campaigns", raw, "user-1", models.RoleUser)
	rec := httptest.NewRecorder()
	c.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())

	var resp struct {
		Data models.Campaign `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Approved)
	assert.Equal(t, "user-1", resp.Data.OwnerID)
}

func TestCreateCampaign_Unauthenticated(t *testing.T) {
	c, _ := newMockController(t)

	raw, _ := json.Marshal(campaignBody(5000))
	req := httptest.NewRequest(http.MethodPost, "/v1/campaigns", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c.Create(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateCampaign_NonOwnerForbidden(t *testing.T) {
	c, mock := newMockController(t)

	rows := sqlmock.NewRows([]string{"id", "title", "approved", "owner_id"}).
		AddRow("camp-1", "Rebuild the school", true, "owner-1")
	mock.ExpectQuery("SELECT (.+) FROM `campaigns`").WillReturnRows(rows)

	raw, _ := json.Marshal(campaignBody(5000))
	req := authedRequest(http.MethodPut, "/v1/campaigns/camp-1", raw, "intruder", models.RoleUser)
	req = mux.SetURLVars(req, map[string]string{"id": "camp-1"})
	rec := httptest.NewRecorder()
	c.Update(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCampaign_AdminEditsForeignCampaign(t *testing.T) {
	c, mock := newMockController(t)

	rows := sqlmock.NewRows([]string{"id", "title", "approved", "owner_id"}).
		AddRow("camp-1", "Rebuild the school", true, "owner-1")
	mock.ExpectQuery("SELECT (.+) FROM `campaigns`").WillReturnRows(rows)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `campaigns` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	raw, _ := json.Marshal(campaignBody(5000))
	req := authedRequest(http.MethodPut, "/v1/campaigns/camp-1", raw, "admin-1", models.RoleAdmin)
	req = mux.SetURLVars(req, map[string]string{"id": "camp-1"})
	rec := httptest.NewRecorder()
	c.Update(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCampaign_NonOwnerForbidden(t *testing.T) {
	c, mock := newMockController(t)

	rows := sqlmock.NewRows([]string{"id", "title", "approved", "owner_id"}).
		AddRow("camp-1", "Rebuild the school", true, "owner-1")
	mock.ExpectQuery("SELECT (.+) FROM `campaigns`").WillReturnRows(rows)

	req := authedRequest(http.MethodDelete, "/v1/campaigns/camp-1", nil, "intruder", models.RoleUser)
	req = mux.SetURLVars(req, map[string]string{"id": "camp-1"})
	rec := httptest.NewRecorder()
	c.Delete(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCampaigns_ApprovedOnlyFilter(t *testing.T) {
	c, mock := newMockController(t)

	rows := sqlmock.NewRows([]string{"id", "title", "approved", "owner_id", "current_amount"}).
		AddRow("camp-1", "Rebuild the school", true, "owner-1", 150)
	mock.ExpectQuery("SELECT (.+) FROM `campaigns` WHERE approved = \\?").WillReturnRows(rows)

	ownerRows := sqlmock.NewRows([]string{"id", "name", "email"}).
		AddRow("owner-1", "Amal", "amal@example.com")
	mock.ExpectQuery("SELECT (.+) FROM `users`").WillReturnRows(ownerRows)

	req := httptest.NewRequest(http.MethodGet, "/v1/campaigns", nil)
	rec := httptest.NewRecorder()
	c.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())

	var resp struct {
		Data []models.Campaign `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Rebuild the school", resp.Data[0].Title)
	require.NotNil(t, resp.Data[0].Owner)
	assert.Equal(t, "Amal", resp.Data[0].Owner.Name)
}

func TestListCampaigns_InvalidTypeRejected(t *testing.T) {
	c, _ := newMockController(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/campaigns?type=Charity", nil)
	rec := httptest.NewRecorder()
	c.List(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
