package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyticColumns() []string {
	return []string{
		"id", "created_at", "updated_at", "slug", "title", "excerpt",
		"file_url", "file_type", "published", "published_at", "tags",
	}
}

// Minimal but well-formed PDF header so MIME sniffing has something real.
var pdfStub = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func TestCreateAnalyticStoresPDF(t *testing.T) {
	mock := setupTestDB(t)
	r, _ := testRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "analytics"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectCommit()

	body, contentType := multipartBody(t, map[string]string{
		"title":     "Quarterly Report",
		"published": "true",
		"tags":      `["data","report"]`,
	}, "file", "report.pdf", pdfStub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analytics", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	date := time.Now().UTC().Format("20060102")
	assert.Equal(t, "quarterly-report-"+date, resp["slug"])
	assert.Equal(t, "application/pdf", resp["file_type"])
	assert.Contains(t, resp["file_url"], "/static/uploads/analytics/")
	assert.Equal(t, true, resp["published"])
	assert.NotNil(t, resp["published_at"])
	assert.Equal(t, []interface{}{"data", "report"}, resp["tags"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAnalyticRequiresFile(t *testing.T) {
	setupTestDB(t)
	r, _ := testRouter(t)

	body, contentType := multipartBody(t, map[string]string{"title": "No File"}, "", "", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analytics", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "file is required")
}

func TestCreateAnalyticRequiresTitle(t *testing.T) {
	setupTestDB(t)
	r, _ := testRouter(t)

	body, contentType := multipartBody(t, map[string]string{"excerpt": "only excerpt"}, "file", "r.pdf", pdfStub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analytics", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "title is required")
}

func TestUpdateAnalyticUnpublishClearsTimestamp(t *testing.T) {
	mock := setupTestDB(t)
	r, _ := testRouter(t)

	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT \* FROM "analytics"`).
		WillReturnRows(sqlmock.NewRows(analyticColumns()).
			AddRow(3, now, now, "quarterly-report", "Quarterly Report", "", "/static/uploads/analytics/r.pdf", "application/pdf", true, now, nil))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "analytics" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "analytics"`).
		WillReturnRows(sqlmock.NewRows(analyticColumns()).
			AddRow(3, now, now, "quarterly-report", "Quarterly Report", "", "/static/uploads/analytics/r.pdf", "application/pdf", false, nil, nil))

	body, contentType := multipartBody(t, map[string]string{"published": "false"}, "", "", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/analytics/quarterly-report", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["published"])
	assert.Nil(t, resp["published_at"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAnalyticRemovesStoredFile(t *testing.T) {
	mock := setupTestDB(t)
	r, cfg := testRouter(t)

	stored := writeUploadFile(t, cfg, "analytics", "r.pdf")

	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT \* FROM "analytics"`).
		WillReturnRows(sqlmock.NewRows(analyticColumns()).
			AddRow(3, now, now, "quarterly-report", "Quarterly Report", "", "/static/uploads/analytics/r.pdf", "application/pdf", true, now, nil))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "analytics"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/analytics/quarterly-report", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NoFileExists(t, stored)
	assert.NoError(t, mock.ExpectationsWereMet())
}
