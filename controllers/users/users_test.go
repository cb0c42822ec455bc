package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/divluffy/lightforgaza/config"
	"github.com/divluffy/lightforgaza/utils"
)

func newMockController(t *testing.T) (*UserController, sqlmock.Sqlmock) {
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

	return NewUserController(db, &config.Config{JWT: config.JWT{Secret: "test-secret"}}), mock
}

func authedJSON(t *testing.T, method, target string, body map[string]interface{}, userID string) *http.Request {
	t.Helper()
	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, target, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), utils.UserIDKey, userID)
	return req.WithContext(ctx)
}

func TestUpdateMe_EmailCollision(t *testing.T) {
	c, mock := newMockController(t)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow("other", "taken@example.com"))

	req := authedJSON(t, http.MethodPut, "/v1/users/me", map[string]interface{}{
		"email": "taken@example.com",
	}, "u1")
	rec := httptest.NewRecorder()
	c.UpdateMe(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMe_EmailCollisionRace(t *testing.T) {
	c, mock := newMockController(t)

	// The pre-check misses but the update hits the unique index.
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'taken@example.com' for key 'users.email'"})
	mock.ExpectRollback()

	req := authedJSON(t, http.MethodPut, "/v1/users/me", map[string]interface{}{
		"email": "taken@example.com",
	}, "u1")
	rec := httptest.NewRecorder()
	c.UpdateMe(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMe_InvalidGovernorate(t *testing.T) {
	c, _ := newMockController(t)

	req := authedJSON(t, http.MethodPut, "/v1/users/me", map[string]interface{}{
		"governorate": "JERUSALEM",
	}, "u1")
	rec := httptest.NewRecorder()
	c.UpdateMe(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateMe_NothingToUpdate(t *testing.T) {
	c, _ := newMockController(t)

	req := authedJSON(t, http.MethodPut, "/v1/users/me", map[string]interface{}{}, "u1")
	rec := httptest.NewRecorder()
	c.UpdateMe(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	c, mock := newMockController(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "password"}).AddRow("u1", string(hash)))

	req := authedJSON(t, http.MethodPost, "/v1/users/change-password", map[string]interface{}{
		"current_password":      "not-secret",
		"new_password":          "newsecret",
		"password_confirmation": "newsecret",
	}, "u1")
	rec := httptest.NewRecorder()
	c.ChangePassword(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePassword_Success(t *testing.T) {
	c, mock := newMockController(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "password"}).AddRow("u1", string(hash)))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET `password`=\\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `refresh_tokens` SET `revoked`=\\?").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	req := authedJSON(t, http.MethodPost, "/v1/users/change-password", map[string]interface{}{
		"current_password":      "secret1",
		"new_password":          "newsecret",
		"password_confirmation": "newsecret",
	}, "u1")
	rec := httptest.NewRecorder()
	c.ChangePassword(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMe_Unauthenticated(t *testing.T) {
	c, _ := newMockController(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
	rec := httptest.NewRecorder()
	c.Me(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
