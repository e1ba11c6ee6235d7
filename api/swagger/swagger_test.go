package swagger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestDocumentIsRegistered(t *testing.T) {
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var parsed struct {
		Paths map[string]map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))

	for _, path := range []string{
		"/api/departments/{id}/subjects",
		"/api/subjects/{id}/users",
		"/api/classes/invite/{code}",
		"/api/classes/{id}/users/export",
		"/api/enrollments/join",
		"/api/stats/charts",
	} {
		assert.Contains(t, parsed.Paths, path)
	}
	assert.Contains(t, parsed.Paths["/api/enrollments/join"], "post")
}
