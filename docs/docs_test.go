package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestReadDoc_SpecValida(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Swagger string                    `json:"swagger"`
		Info    struct{ Title string }    `json:"info"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, SwaggerInfo.Title, doc.Info.Title)
	assert.Contains(t, doc.Paths, "/api/auth/login")
	assert.Contains(t, doc.Paths["/api/invoices/{id}/pdf"], "get")
	assert.Contains(t, doc.Paths["/api/appointments/{id}/status"], "put")
}
