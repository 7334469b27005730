package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

// The docs package registers itself on import and its template must
// render a valid swagger document with the default delimiters.
func TestRegisteredDocRendersValidJSON(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var spec struct {
		Swagger string                     `json:"swagger"`
		Info    map[string]any             `json:"info"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &spec))

	require.Equal(t, "2.0", spec.Swagger)
	require.Equal(t, SwaggerInfo.Title, spec.Info["title"])
	for _, route := range []string{
		"/queue/increment",
		"/queue/decrement",
		"/queue/status",
		"/queue/count/{queue_name}",
		"/queues/summary",
	} {
		require.Contains(t, spec.Paths, route)
	}
}
