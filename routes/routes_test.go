package routes

import (
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
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	mockDB, _, err := sqlmock.New()
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
	return InitRouter(cfg, db, nil)
}

func routeMatches(router *mux.Router, method, target string) bool {
	req := httptest.NewRequest(method, target, nil)
	var match mux.RouteMatch
	return router.Match(req, &match) && match.MatchErr == nil
}

func TestRouter_AdminCampaignRoutes(t *testing.T) {
	router := newTestRouter(t)

	assert.True(t, routeMatches(router, http.MethodGet, "/v1/admin/campaigns/pending"))
	assert.True(t, routeMatches(router, http.MethodPost, "/v1/admin/campaigns/camp-1/approve"))
	assert.True(t, routeMatches(router, http.MethodPut, "/v1/admin/campaigns/camp-1"))
	assert.True(t, routeMatches(router, http.MethodDelete, "/v1/admin/campaigns/camp-1"))
}

func TestRouter_UserCampaignRoutes(t *testing.T) {
	router := newTestRouter(t)

	assert.True(t, routeMatches(router, http.MethodGet, "/v1/campaigns"))
	assert.True(t, routeMatches(router, http.MethodPut, "/v1/campaigns/camp-1"))
	assert.False(t, routeMatches(router, http.MethodPatch, "/v1/campaigns/camp-1"))
}
