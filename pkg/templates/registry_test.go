package templates

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLoadAndRender(t *testing.T) {
	fsys := fstest.MapFS{
		"partials/greeting.tmpl": {Data: []byte(`{{define "greeting"}}Hello {{.Name}}{{end}}`)},
		"messages/welcome.tmpl":  {Data: []byte(`{{template "greeting" .}}!`)},
		"messages/plain.tmpl":    {Data: []byte(`Bye {{.Name}}`)},
		"README.md":              {Data: []byte(`ignored`)},
	}

	reg, err := NewRegistryFromFS(fsys)
	require.NoError(t, err)

	assert.Equal(t, []string{"messages/plain", "messages/welcome"}, reg.List())

	rendered, err := reg.Render("messages/welcome", map[string]string{"Name": "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Alice!", rendered)

	rendered, err = reg.Render("messages/plain", map[string]string{"Name": "Bob"})
	require.NoError(t, err)
	assert.Equal(t, "Bye Bob", rendered)
}

func TestRegistryWithoutPartials(t *testing.T) {
	reg, err := NewRegistryFromFS(fstest.MapFS{
		"a.tmpl": {Data: []byte(`{{.}}`)},
	})
	require.NoError(t, err)

	rendered, err := reg.Render("a", 42)
	require.NoError(t, err)
	assert.Equal(t, "42", rendered)
}

func TestRegistryUnknownTemplate(t *testing.T) {
	reg, err := NewRegistryFromFS(fstest.MapFS{})
	require.NoError(t, err)

	_, err = reg.Render("missing", nil)
	assert.Error(t, err)
}

func TestRegistryParseError(t *testing.T) {
	_, err := NewRegistryFromFS(fstest.MapFS{
		"broken.tmpl": {Data: []byte(`{{.Name`)},
	})
	assert.Error(t, err)
}

func TestRegistryMissingKey(t *testing.T) {
	reg, err := NewRegistryFromFS(fstest.MapFS{
		"a.tmpl": {Data: []byte(`{{.Name}}`)},
	})
	require.NoError(t, err)

	_, err = reg.Render("a", map[string]string{})
	assert.Error(t, err)
}

func TestEmbeddedReceipts(t *testing.T) {
	ids := Get().List()
	assert.Contains(t, ids, "receipts/admin")
	assert.Contains(t, ids, "receipts/customer")
	assert.NotContains(t, ids, "partials/items")
}
