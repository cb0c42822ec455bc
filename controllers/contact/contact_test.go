package contact

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockController(t *testing.T) (*ContactController, sqlmock.Sqlmock) {
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

	return NewContactController(db), mock
}

func submit(t *testing.T, c *ContactController, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/v1/contact", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c.Submit(rec, req)
	return rec
}

func TestSubmit_Success(t *testing.T) {
	c, mock := newMockController(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `contact_requests`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	rec := submit(t, c, map[string]interface{}{
		"full_name": "Amal",
		"email":     "amal@example.com",
		"phone":     "0590000000",
		"subject":   "Partnership",
		"message":   "Hello, we would like to help.",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmit_MissingFields(t *testing.T) {
	c, _ := newMockController(t)

	rec := submit(t, c, map[string]interface{}{
		"full_name": "Amal",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmit_BadEmail(t *testing.T) {
	c, _ := newMockController(t)

	rec := submit(t, c, map[string]interface{}{
		"full_name": "Amal",
		"email":     "not-an-email",
		"phone":     "0590000000",
		"subject":   "Partnership",
		"message":   "Hello.",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
