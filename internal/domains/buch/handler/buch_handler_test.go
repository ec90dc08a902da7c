package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buchladen-backend/internal/domains/buch/service"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc, files := service.NewMockService()
	h := NewHandler(svc, nil)
	fh := NewFileHandler(files)

	router := gin.New()
	buecher := router.Group("/api/v1/buecher")
	buecher.GET("", h.GetAll)
	buecher.GET("/:id", h.GetByID)
	buecher.GET("/:id/file", fh.Download)
	buecher.POST("", h.Create)
	buecher.PUT("/:id", h.Update)
	buecher.PUT("/:id/file", fh.Upload)
	buecher.DELETE("/:id", h.Delete)
	return router
}

func doJSON(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const validBuchJSON = `{
	"titel": "Gamma",
	"verlag": "FOO_VERLAG",
	"preis": 19.99,
	"isbn": "9780201616224",
	"schlagwoerter": ["JAVASCRIPT"]
}`

func createBuch(t *testing.T, router *gin.Engine, body string) string {
	t.Helper()

	w := doJSON(router, http.MethodPost, "/api/v1/buecher", body, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	location := w.Header().Get("Location")
	require.NotEmpty(t, location)
	parts := strings.Split(location, "/")
	return parts[len(parts)-1]
}

func TestGetAllReturns404WhenNothingMatches(t *testing.T) {
	router := newTestRouter()

	w := doJSON(router, http.MethodGet, "/api/v1/buecher?titel=zzz", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAllReturnsItemsWithSelfLinks(t *testing.T) {
	router := newTestRouter()

	w := doJSON(router, http.MethodGet, "/api/v1/buecher", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []struct {
		ID    string `json:"id"`
		Links struct {
			Self struct {
				Href string `json:"href"`
			} `json:"self"`
		} `json:"_links"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.NotEmpty(t, items)
	for _, item := range items {
		assert.True(t, strings.HasSuffix(item.Links.Self.Href, "/buecher/"+item.ID))
	}
}

func TestGetAllUnknownTagKeyIsIgnored(t *testing.T) {
	router := newTestRouter()

	all := doJSON(router, http.MethodGet, "/api/v1/buecher", "", nil)
	filtered := doJSON(router, http.MethodGet, "/api/v1/buecher?kotlin=true", "", nil)

	assert.Equal(t, http.StatusOK, filtered.Code)
	assert.JSONEq(t, all.Body.String(), filtered.Body.String())
}

func TestGetByIDSetsETagAndHonorsIfNoneMatch(t *testing.T) {
	router := newTestRouter()
	id := createBuch(t, router, validBuchJSON)

	w := doJSON(router, http.MethodGet, "/api/v1/buecher/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `"0"`, w.Header().Get("ETag"))

	w = doJSON(router, http.MethodGet, "/api/v1/buecher/"+id, "", map[string]string{
		"If-None-Match": `"0"`,
	})
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestGetByIDUnknownIs404(t *testing.T) {
	router := newTestRouter()

	w := doJSON(router, http.MethodGet, "/api/v1/buecher/e2f897f0-44ab-4a77-b33a-a8b1ed388c85", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRejectsWrongContentType(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/buecher", strings.NewReader("titel=Gamma"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotAcceptable, w.Code)
}

func TestCreateValidationFailureReturnsFieldMap(t *testing.T) {
	router := newTestRouter()

	w := doJSON(router, http.MethodPost, "/api/v1/buecher", `{"titel":""}`, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Errors, "titel")
	assert.Contains(t, body.Errors, "verlag")
}

func TestCreateDuplicateTitelReturnsPlainText400(t *testing.T) {
	router := newTestRouter()
	createBuch(t, router, validBuchJSON)

	second := strings.Replace(validBuchJSON, "9780201616224", "9783161484100", 1)
	w := doJSON(router, http.MethodPost, "/api/v1/buecher", second, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Titel")
}

func TestUpdatePreconditionLadder(t *testing.T) {
	router := newTestRouter()
	id := createBuch(t, router, validBuchJSON)
	changed := strings.Replace(validBuchJSON, "Gamma", "Gamma Revised", 1)

	// Missing If-Match is distinct from a malformed one.
	w := doJSON(router, http.MethodPut, "/api/v1/buecher/"+id, changed, nil)
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)

	w = doJSON(router, http.MethodPut, "/api/v1/buecher/"+id, changed, map[string]string{
		"If-Match": `"`,
	})
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)

	// Correct version succeeds.
	w = doJSON(router, http.MethodPut, "/api/v1/buecher/"+id, changed, map[string]string{
		"If-Match": `"0"`,
	})
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Subsequent read carries the incremented ETag.
	w = doJSON(router, http.MethodGet, "/api/v1/buecher/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `"1"`, w.Header().Get("ETag"))

	// Reusing the consumed version is stale.
	again := strings.Replace(validBuchJSON, "Gamma", "Gamma Third", 1)
	w = doJSON(router, http.MethodPut, "/api/v1/buecher/"+id, again, map[string]string{
		"If-Match": `"0"`,
	})
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
}

func TestUpdateUnknownIDIs412(t *testing.T) {
	router := newTestRouter()

	w := doJSON(router, http.MethodPut,
		"/api/v1/buecher/e2f897f0-44ab-4a77-b33a-a8b1ed388c85", validBuchJSON,
		map[string]string{"If-Match": `"0"`})

	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
}

func TestUpdateValidationFailureIs400(t *testing.T) {
	router := newTestRouter()
	id := createBuch(t, router, validBuchJSON)

	w := doJSON(router, http.MethodPut, "/api/v1/buecher/"+id,
		`{"titel":"","verlag":"FOO_VERLAG","preis":1}`,
		map[string]string{"If-Match": `"0"`})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteAlwaysReturns204(t *testing.T) {
	router := newTestRouter()
	id := createBuch(t, router, validBuchJSON)

	w := doJSON(router, http.MethodDelete, "/api/v1/buecher/"+id, "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Deleting again is still 204.
	w = doJSON(router, http.MethodDelete, "/api/v1/buecher/"+id, "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/buecher/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFileUploadAndDownloadRoundTrip(t *testing.T) {
	router := newTestRouter()
	id := createBuch(t, router, validBuchJSON)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/buecher/"+id+"/file",
		strings.NewReader("cover bytes"))
	req.Header.Set("Content-Type", "image/png")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/buecher/"+id+"/file", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "cover bytes", w.Body.String())
}

func TestFileDownloadWithoutUploadIs404(t *testing.T) {
	router := newTestRouter()
	id := createBuch(t, router, validBuchJSON)

	w := doJSON(router, http.MethodGet, "/api/v1/buecher/"+id+"/file", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFileUploadForUnknownBuchIs404(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPut,
		"/api/v1/buecher/e2f897f0-44ab-4a77-b33a-a8b1ed388c85/file",
		strings.NewReader("cover bytes"))
	req.Header.Set("Content-Type", "image/png")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
