package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/clinic-scheduler/internal/logging"
	"github.com/BruksfildServices01/clinic-scheduler/internal/tools"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

// ======================================================
// Tools
// ======================================================

type stubCaller struct {
	name string
	args string
	res  tools.Result
}

func (s *stubCaller) CallNamed(_ context.Context, name string, args []byte) tools.Result {
	s.name, s.args = name, string(args)
	return s.res
}

func newToolRouter(caller ToolCaller) *gin.Engine {
	h := NewToolHandler(caller, logging.Discard())
	r := gin.New()
	r.GET("/api/tools", h.List)
	r.POST("/api/tools/:name", h.Call)
	return r
}

func TestToolHandlerList(t *testing.T) {
	r := newToolRouter(&stubCaller{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tools", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Data []struct {
			Function struct {
				Name string `json:"name"`
			} `json:"function"`
		} `json:"data"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, len(tools.All()), out.Total)
	assert.Equal(t, "check_patient", out.Data[0].Function.Name)
}

func TestToolHandlerCallPassesArgumentsThrough(t *testing.T) {
	caller := &stubCaller{res: tools.Info("Sábado, clínica fechada.", map[string]any{"reason": "weekend"})}
	r := newToolRouter(caller)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/tools/list_available_slots",
		strings.NewReader(`{"date":"sábado"}`)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "list_available_slots", caller.name)
	assert.Equal(t, `{"date":"sábado"}`, caller.args)
	assert.JSONEq(t, `{"info":"Sábado, clínica fechada.","reason":"weekend"}`, w.Body.String())
}

func TestToolHandlerErrorResultIsStill200(t *testing.T) {
	r := newToolRouter(&stubCaller{res: tools.Error("falhou", nil).WithStatus()})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/tools/cancel_appointment", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"error":"falhou","status":"error"}`, w.Body.String())
}

func TestToolHandlerUnknownTool(t *testing.T) {
	caller := &stubCaller{}
	r := newToolRouter(caller)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/tools/drop_tables", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "unknown_tool")
	assert.Empty(t, caller.name)
}

func TestToolHandlerBodyTooLarge(t *testing.T) {
	r := newToolRouter(&stubCaller{})

	big := `{"notes":"` + strings.Repeat("x", maxToolArgsBytes) + `"}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/tools/book_followup", strings.NewReader(big)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

// ======================================================
// Audit logs
// ======================================================

func TestAuditLogsListFilters(t *testing.T) {
	db, mock := newMockDB(t)
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "audit_logs" WHERE patient_key = \$1 AND action = \$2`).
		WithArgs("12345678900", "booking_partial_failure").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`SELECT \* FROM "audit_logs" WHERE patient_key = \$1 AND action = \$2 ORDER BY created_at DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "patient_key", "action", "entity", "entity_id", "metadata", "created_at"}).
			AddRow(7, "12345678900", "booking_partial_failure", "appointment", "apt-1", `{"event_id":"evt-1"}`, time.Now()))

	r := gin.New()
	r.GET("/api/audit-logs", NewAuditLogsHandler(db, loc).List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/audit-logs?patient_key=123.456.789-00&action=booking_partial_failure&limit=500", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
		Total int `json:"total"`
		Logs  []struct {
			ID       uint   `json:"id"`
			EntityID string `json:"entity_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 50, out.Limit)
	assert.Equal(t, 1, out.Total)
	require.Len(t, out.Logs, 1)
	assert.Equal(t, "apt-1", out.Logs[0].EntityID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLogsInvalidDate(t *testing.T) {
	db, mock := newMockDB(t)

	r := gin.New()
	r.GET("/api/audit-logs", NewAuditLogsHandler(db, time.UTC).List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/audit-logs?from=19/10/2026", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_from")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealth(t *testing.T) {
	db, _ := newMockDB(t)

	r := gin.New()
	r.GET("/health", NewHealthHandler(db).Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
