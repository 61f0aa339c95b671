package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"worktime.app/worktime/core"
	"worktime.app/worktime/model"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := core.Open(":memory:", core.LogLevelSilent)
	require.NoError(t, err)
	t.Cleanup(func() { core.Close(db) })

	r := gin.New()
	Register(r.Group("/api"), db)
	return r, db
}

func seedUser(t *testing.T, db *gorm.DB) model.User {
	t.Helper()
	user := model.User{Username: "alice", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func doJSON(r *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestCreateAndList(t *testing.T) {
	r, db := newTestRouter(t)
	user := seedUser(t, db)

	w := doJSON(r, http.MethodPost, "/api/sessions", SessionDTO{
		UserID:        user.ID,
		Date:          "2024-01-08",
		ArrivalTime:   "09:00",
		DepartureTime: "17:00",
		BreakMinutes:  45,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created model.WorkSession
	decodeData(t, w, &created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "2024-01-08", created.Date)

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/sessions?userId=%d", user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var sessions []model.WorkSession
	decodeData(t, w, &sessions)
	require.Len(t, sessions, 1)
	assert.Equal(t, 45, sessions[0].BreakMinutes)
}

func TestListBoundsAndOrder(t *testing.T) {
	r, db := newTestRouter(t)
	user := seedUser(t, db)

	for _, date := range []string{"2024-01-08", "2024-01-09", "2024-01-15"} {
		require.NoError(t, db.Create(&model.WorkSession{
			UserID: user.ID, Date: date, ArrivalTime: "09:00", DepartureTime: "17:00",
		}).Error)
	}

	w := doJSON(r, http.MethodGet,
		fmt.Sprintf("/api/sessions?userId=%d&from=2024-01-08&to=2024-01-14", user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var sessions []model.WorkSession
	decodeData(t, w, &sessions)
	require.Len(t, sessions, 2)
	// most recent first
	assert.Equal(t, "2024-01-09", sessions[0].Date)
	assert.Equal(t, "2024-01-08", sessions[1].Date)
}

func TestCreateValidation(t *testing.T) {
	r, db := newTestRouter(t)
	user := seedUser(t, db)

	cases := []struct {
		name string
		dto  SessionDTO
	}{
		{"missing user", SessionDTO{Date: "2024-01-08", ArrivalTime: "09:00", DepartureTime: "17:00"}},
		{"bad date", SessionDTO{UserID: user.ID, Date: "08/01/2024", ArrivalTime: "09:00", DepartureTime: "17:00"}},
		{"bad arrival", SessionDTO{UserID: user.ID, Date: "2024-01-08", ArrivalTime: "9am", DepartureTime: "17:00"}},
		{"missing departure", SessionDTO{UserID: user.ID, Date: "2024-01-08", ArrivalTime: "09:00"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/sessions", tc.dto)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestUpdate(t *testing.T) {
	r, db := newTestRouter(t)
	user := seedUser(t, db)

	row := model.WorkSession{UserID: user.ID, Date: "2024-01-08", ArrivalTime: "09:00", DepartureTime: "17:00"}
	require.NoError(t, db.Create(&row).Error)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/api/sessions/%d", row.ID), SessionDTO{
		UserID:        user.ID,
		Date:          "2024-01-08",
		ArrivalTime:   "08:30",
		DepartureTime: "16:00",
		BreakMinutes:  30,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated model.WorkSession
	decodeData(t, w, &updated)
	assert.Equal(t, row.ID, updated.ID)
	assert.Equal(t, "08:30", updated.ArrivalTime)
	assert.Equal(t, 30, updated.BreakMinutes)
}

func TestUpdateNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPut, "/api/sessions/999", SessionDTO{
		Date: "2024-01-08", ArrivalTime: "09:00", DepartureTime: "17:00",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDelete(t *testing.T) {
	r, db := newTestRouter(t)
	user := seedUser(t, db)

	row := model.WorkSession{UserID: user.ID, Date: "2024-01-08", ArrivalTime: "09:00", DepartureTime: "17:00"}
	require.NoError(t, db.Create(&row).Error)

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/api/sessions/%d", row.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/sessions/%d", row.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteAllScopedToUser(t *testing.T) {
	r, db := newTestRouter(t)
	alice := seedUser(t, db)
	bob := model.User{Username: "bob", PasswordHash: "x"}
	require.NoError(t, db.Create(&bob).Error)

	for _, u := range []uint{alice.ID, bob.ID} {
		require.NoError(t, db.Create(&model.WorkSession{
			UserID: u, Date: "2024-01-08", ArrivalTime: "09:00", DepartureTime: "17:00",
		}).Error)
	}

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/api/sessions/all?userId=%d", alice.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&model.WorkSession{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeletePeriod(t *testing.T) {
	r, db := newTestRouter(t)
	user := seedUser(t, db)

	for _, date := range []string{"2024-01-08", "2024-01-21", "2024-01-22"} {
		require.NoError(t, db.Create(&model.WorkSession{
			UserID: user.ID, Date: date, ArrivalTime: "09:00", DepartureTime: "17:00",
		}).Error)
	}

	// bi-weekly period 2024-01-08 .. 2024-01-21
	w := doJSON(r, http.MethodDelete,
		fmt.Sprintf("/api/sessions/period?userId=%d&monday=2024-01-08", user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var remaining []model.WorkSession
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "2024-01-22", remaining[0].Date)
}

func TestBulkReconcileEndpoint(t *testing.T) {
	r, db := newTestRouter(t)
	user := seedUser(t, db)

	w := doJSON(r, http.MethodPost, "/api/sessions/bulk", BulkReconcileDTO{
		UserID: user.ID,
		Sessions: []core.SessionEdit{
			{Date: "2024-01-08", ArrivalTime: "09:00", DepartureTime: "17:00"},
			{Date: "2024-01-13", ArrivalTime: "09:00", DepartureTime: "17:00"}, // Saturday
			{Date: "2024-01-09", ArrivalTime: "bogus", DepartureTime: "17:00"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var results []model.WorkSession
	decodeData(t, w, &results)
	require.Len(t, results, 1)
	assert.Equal(t, "2024-01-08", results[0].Date)
}

func TestBulkReconcileEmptyDateIsRowScoped(t *testing.T) {
	r, db := newTestRouter(t)
	user := seedUser(t, db)

	// a blank date skips that row only, never the whole batch
	w := doJSON(r, http.MethodPost, "/api/sessions/bulk", BulkReconcileDTO{
		UserID: user.ID,
		Sessions: []core.SessionEdit{
			{Date: "", ArrivalTime: "09:00", DepartureTime: "17:00"},
			{Date: "2024-01-08", ArrivalTime: "09:00", DepartureTime: "17:00"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var results []model.WorkSession
	decodeData(t, w, &results)
	require.Len(t, results, 1)
	assert.Equal(t, "2024-01-08", results[0].Date)
}

func TestBulkReconcileUnknownUser(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/sessions/bulk", BulkReconcileDTO{
		UserID:   42,
		Sessions: []core.SessionEdit{{Date: "2024-01-08"}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
