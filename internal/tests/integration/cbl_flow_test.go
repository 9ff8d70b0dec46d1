package integration

import (
	"net/http"
	"testing"

	"github.com/ebarcelosf/Activelearn-hub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCBLCycle_e2e(t *testing.T) {
	// 1. Setup
	srv := setupTestDB(t)
	token := srv.registerUser(t, "ciclo@escola.dev")

	// 2. Create project
	w := srv.performRequest(http.MethodPost, "/api/projects", map[string]string{"title": "Água na escola"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := parse(t, w)
	assert.Equal(t, []string{"explorador"}, ids(body["badges"]))
	projectID := body["project"].(map[string]interface{})["id"].(string)
	base := "/api/projects/" + projectID

	// 3. Engage
	w = srv.performRequest(http.MethodPatch, base, map[string]string{
		"bigIdea":           "Sustentabilidade",
		"essentialQuestion": "Como reduzir o desperdício de água?",
		"challenge":         "Reduzir o consumo em 20%",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"visionario", "questionador", "desafiador"}, ids(parse(t, w)["badges"]))

	w = srv.performRequest(http.MethodPost, base+"/phases/engage/complete", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"engajado", "investigador_iniciante"}, ids(parse(t, w)["granted"]))

	// 4. Investigate
	w = srv.performRequest(http.MethodPost, base+"/phases/investigate/complete", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.performRequest(http.MethodPost, base+"/questions", map[string]string{"question": "Onde vaza?", "answer": "Nos banheiros"}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"primeira_resposta"}, ids(parse(t, w)["badges"]))

	w = srv.performRequest(http.MethodPost, base+"/activities", map[string]string{"title": "Medir hidrômetro"}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"planejador"}, ids(parse(t, w)["badges"]))

	w = srv.performRequest(http.MethodPost, base+"/resources", map[string]interface{}{"title": "Relatório ANA", "tags": []string{"água"}}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"bibliotecario"}, ids(parse(t, w)["badges"]))

	w = srv.performRequest(http.MethodPatch, base, map[string]interface{}{
		"synthesis": map[string]string{"mainFindings": "Descargas antigas"},
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.performRequest(http.MethodPost, base+"/phases/investigate/complete", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"investigador"}, ids(parse(t, w)["granted"]))

	// 5. Act
	w = srv.performRequest(http.MethodPost, base+"/prototypes", map[string]string{"title": "Descarga econômica", "fidelity": "medium"}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"inovador"}, ids(parse(t, w)["badges"]))

	w = srv.performRequest(http.MethodPatch, base, map[string]interface{}{
		"solution":       map[string]string{"description": "Trocar válvulas"},
		"implementation": map[string]string{"overview": "Um banheiro por semana"},
		"evaluation":     map[string]string{"objectives": "Conta 20% menor"},
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.performRequest(http.MethodPost, base+"/phases/act/complete", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = parse(t, w)
	assert.Equal(t, []string{"implementador", "mestre_cbl"}, ids(body["granted"]))
	assert.Equal(t, float64(100), body["progress"])

	// 6. Standing
	w = srv.performRequest(http.MethodGet, "/api/badges/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	summary := parse(t, w)["summary"].(map[string]interface{})
	assert.Equal(t, float64(900), summary["totalXP"])
	assert.Equal(t, float64(4), summary["level"])
	assert.Equal(t, float64(75), summary["progressPercentage"])

	// 7. Replaying every trigger changes nothing
	for _, trigger := range []string{"project_created", "act_completed", "cbl_cycle_completed"} {
		w = srv.performRequest(http.MethodPost, "/api/badges/trigger", map[string]interface{}{
			"trigger": trigger,
			"data":    map[string]interface{}{"projectId": projectID},
		}, token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, ids(parse(t, w)["granted"]))
	}

	var rows int64
	srv.db.Model(&models.UserBadge{}).Count(&rows)
	assert.Equal(t, int64(13), rows)

	w = srv.performRequest(http.MethodGet, "/api/badges/notifications", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, parse(t, w)["notifications"], 13)
}

func TestProjects_RequireAuth(t *testing.T) {
	srv := setupTestDB(t)

	w := srv.performRequest(http.MethodGet, "/api/projects", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = srv.performRequest(http.MethodGet, "/api/projects", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// the catalog is public
	w = srv.performRequest(http.MethodGet, "/api/badges/catalog", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = srv.performRequest(http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	srv := setupTestDB(t)

	w := srv.performRequest(http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	checks := parse(t, w)["checks"].(map[string]interface{})
	assert.Equal(t, "ok", checks["database"])
	assert.Equal(t, "not configured", checks["redis"])
}
