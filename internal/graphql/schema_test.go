package graphql

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	buchservice "buchladen-backend/internal/domains/buch/service"
	kundeservice "buchladen-backend/internal/domains/kunde/service"
)

func newGraphQLRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	buchSvc, _ := buchservice.NewMockService()
	kundeSvc, _ := kundeservice.NewMockService()

	schema, err := NewSchema(buchSvc, kundeSvc)
	require.NoError(t, err)

	router := gin.New()
	router.POST("/graphql", Handler(schema))
	return router
}

func postQuery(router *gin.Engine, query string) map[string]interface{} {
	body, _ := json.Marshal(map[string]string{"query": query})
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var result map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

func TestQueryBuecherByTitel(t *testing.T) {
	router := newGraphQLRouter(t)

	result := postQuery(router, `{ buecher(titel: "Alpha") { titel version } }`)

	require.NotContains(t, result, "errors")
	data := result["data"].(map[string]interface{})
	buecher := data["buecher"].([]interface{})
	require.Len(t, buecher, 1)
	assert.Equal(t, "Alpha", buecher[0].(map[string]interface{})["titel"])
}

func TestQueryKundenAndBuecherShareOneSchema(t *testing.T) {
	router := newGraphQLRouter(t)

	result := postQuery(router, `{ buecher { titel } kunden { nachname } }`)

	require.NotContains(t, result, "errors")
	data := result["data"].(map[string]interface{})
	assert.NotEmpty(t, data["buecher"])
	assert.NotEmpty(t, data["kunden"])
}

func TestCreateBuchMutation(t *testing.T) {
	router := newGraphQLRouter(t)

	result := postQuery(router, `mutation {
		createBuch(titel: "Gamma", verlag: "FOO_VERLAG", preis: 19.99) { id version titel }
	}`)

	require.NotContains(t, result, "errors", "%v", result)
	created := result["data"].(map[string]interface{})["createBuch"].(map[string]interface{})
	assert.NotEmpty(t, created["id"])
	assert.Equal(t, float64(0), created["version"])
}

func TestDuplicateTitelSurfacesAsGraphQLError(t *testing.T) {
	router := newGraphQLRouter(t)

	result := postQuery(router, `mutation {
		createBuch(titel: "Alpha", verlag: "FOO_VERLAG", preis: 1.0) { id }
	}`)

	errs, ok := result["errors"].([]interface{})
	require.True(t, ok, "expected errors array, got %v", result)
	assert.Contains(t, errs[0].(map[string]interface{})["message"], "Alpha")
}

func TestDeleteBuchMutation(t *testing.T) {
	router := newGraphQLRouter(t)

	result := postQuery(router,
		`mutation { deleteBuch(id: "00000000-0000-0000-0000-000000000001") }`)

	require.NotContains(t, result, "errors")
	data := result["data"].(map[string]interface{})
	assert.Equal(t, true, data["deleteBuch"])
}
