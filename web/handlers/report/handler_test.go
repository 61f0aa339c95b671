package report

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"worktime.app/worktime/core"
	"worktime.app/worktime/model"
	"worktime.app/worktime/render"
)

func newTestRouter(t *testing.T, renderer *render.Client) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := core.Open(":memory:", core.LogLevelSilent)
	require.NoError(t, err)
	t.Cleanup(func() { core.Close(db) })

	r := gin.New()
	Register(r.Group("/api"), db, renderer, core.PolicyStrict)
	return r, db
}

func seedWeek(t *testing.T, db *gorm.DB) model.User {
	t.Helper()
	user := model.User{Username: "alice", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	// Mon + Tue of the bi-weekly period starting 2024-01-08, 8h net each
	for _, date := range []string{"2024-01-08", "2024-01-09"} {
		require.NoError(t, db.Create(&model.WorkSession{
			UserID: user.ID, Date: date, ArrivalTime: "08:00", DepartureTime: "16:30", BreakMinutes: 30,
		}).Error)
	}
	return user
}

func get(r *gin.Engine, url string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestResolvePeriod(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := get(r, "/api/period?date=2024-02-14&mode=monthly")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Data core.Period `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, core.Period{Start: "2024-01-29", End: "2024-03-03"}, envelope.Data)
}

func TestResolvePeriodBadInput(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	assert.Equal(t, http.StatusBadRequest, get(r, "/api/period?date=nope").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/api/period?date=2024-01-08&mode=fortnightly").Code)
}

func TestGetReportJSON(t *testing.T) {
	r, db := newTestRouter(t, nil)
	user := seedWeek(t, db)

	w := get(r, fmt.Sprintf("/api/report?userId=%d&monday=2024-01-08&format=json", user.ID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Data core.ReportData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))

	assert.Equal(t, core.Period{Start: "2024-01-08", End: "2024-01-21"}, envelope.Data.Period)
	assert.Equal(t, 960, envelope.Data.TotalMinutes)
	assert.Equal(t, "16:00", envelope.Data.Total)
	assert.Len(t, envelope.Data.Sessions, 2)
}

func TestGetReportExcel(t *testing.T) {
	r, db := newTestRouter(t, nil)
	user := seedWeek(t, db)

	w := get(r, fmt.Sprintf("/api/report?userId=%d&monday=2024-01-08&format=excel", user.ID))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "report-2024-01-08.xlsx")
	assert.NotZero(t, w.Body.Len())
}

func TestGetReportPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4 rendered"))
	}))
	defer srv.Close()

	r, db := newTestRouter(t, render.NewClient(srv.URL, 5*time.Second))
	user := seedWeek(t, db)

	w := get(r, fmt.Sprintf("/api/report?userId=%d&monday=2024-01-08", user.ID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-1.4 rendered", w.Body.String())
}

func TestGetReportPDFRendererDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r, db := newTestRouter(t, render.NewClient(srv.URL, 5*time.Second))
	user := seedWeek(t, db)

	w := get(r, fmt.Sprintf("/api/report?userId=%d&monday=2024-01-08", user.ID))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetReportMissingUserID(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	assert.Equal(t, http.StatusBadRequest, get(r, "/api/report?monday=2024-01-08").Code)
}

func TestGetReportMalformedUserID(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	for _, userID := range []string{"12abc", "-3", "0", "abc"} {
		w := get(r, "/api/report?userId="+userID+"&monday=2024-01-08&format=json")
		assert.Equal(t, http.StatusBadRequest, w.Code, userID)
	}
}

func TestBulkJSONSkipsEmptyPeriods(t *testing.T) {
	r, db := newTestRouter(t, nil)
	user := seedWeek(t, db)
	// a later, isolated session two buckets on
	require.NoError(t, db.Create(&model.WorkSession{
		UserID: user.ID, Date: "2024-02-05", ArrivalTime: "09:00", DepartureTime: "17:00",
	}).Error)

	w := get(r, fmt.Sprintf("/api/report/bulk?userId=%d&from=2024-01-08&to=2024-02-18&format=json", user.ID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Data []core.ReportData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))

	require.Len(t, envelope.Data, 2)
	assert.Equal(t, "2024-01-08", envelope.Data[0].Period.Start)
	assert.Equal(t, "2024-02-05", envelope.Data[1].Period.Start)
}

func TestBulkWorkbook(t *testing.T) {
	r, db := newTestRouter(t, nil)
	user := seedWeek(t, db)

	w := get(r, fmt.Sprintf("/api/report/bulk?userId=%d&from=2024-01-08&to=2024-01-21", user.ID))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "export-2024-01-08-to-2024-01-21.xlsx")
}

func TestBulkInvalidRange(t *testing.T) {
	r, db := newTestRouter(t, nil)
	user := seedWeek(t, db)

	w := get(r, fmt.Sprintf("/api/report/bulk?userId=%d&from=2024-02-18&to=2024-01-08", user.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
