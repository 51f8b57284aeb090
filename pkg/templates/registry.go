package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"text/template"
)

//go:embed assets/**/*.tmpl
var embeddedFS embed.FS

// partialsDir holds {{define}} blocks shared by every template
const partialsDir = "partials"

// Template represents a parsed template.
type Template struct {
	ID      string
	Path    string
	Content string

	parsed *template.Template
}

// Render executes the template with the provided data and returns the result.
func (t *Template) Render(data any) (string, error) {
	var buf bytes.Buffer
	if err := t.parsed.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", t.ID, err)
	}

	return buf.String(), nil
}

// Registry holds loaded templates and resolves them by ID
// (path relative to the root without the .tmpl extension).
type Registry struct {
	fs        fs.FS
	partials  *template.Template
	templates map[string]*Template
	mu        sync.RWMutex
}

// NewRegistryFromFS constructs a registry from an arbitrary filesystem.
// Files under partials/ are parsed into every other template.
func NewRegistryFromFS(filesystem fs.FS) (*Registry, error) {
	r := &Registry{
		fs:        filesystem,
		partials:  template.New(partialsDir),
		templates: map[string]*Template{},
	}

	if err := r.loadPartials(); err != nil {
		return nil, err
	}
	if err := r.loadAll(); err != nil {
		return nil, err
	}

	return r, nil
}

// Get returns a lazily initialized default registry rooted at embedded assets.
func Get() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = newEmbeddedRegistry()
	})

	if defaultErr != nil {
		panic(defaultErr)
	}

	return defaultRegistry
}

// GetTemplate retrieves a template by its ID.
func (r *Registry) GetTemplate(id string) (*Template, error) {
	r.mu.RLock()
	tmpl, ok := r.templates[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("template not found: %s", id)
	}
	return tmpl, nil
}

// Render executes a template by ID using the provided data.
func (r *Registry) Render(id string, data any) (string, error) {
	tmpl, err := r.GetTemplate(id)
	if err != nil {
		return "", err
	}

	return tmpl.Render(data)
}

// List returns all known template IDs, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

func (r *Registry) loadPartials() error {
	if _, err := fs.Stat(r.fs, partialsDir); err != nil {
		return nil
	}

	return r.walk(partialsDir, func(p string, content []byte) error {
		if _, err := r.partials.New(p).Parse(string(content)); err != nil {
			return fmt.Errorf("parse partial %s: %w", p, err)
		}
		return nil
	})
}

func (r *Registry) loadAll() error {
	return r.walk(".", func(p string, content []byte) error {
		if strings.HasPrefix(p, partialsDir+"/") {
			return nil
		}
		return r.loadTemplate(p, content)
	})
}

func (r *Registry) walk(root string, fn func(path string, content []byte) error) error {
	return fs.WalkDir(r.fs, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".tmpl" {
			return nil
		}

		content, err := fs.ReadFile(r.fs, p)
		if err != nil {
			return fmt.Errorf("read template %s: %w", p, err)
		}
		return fn(p, content)
	})
}

func (r *Registry) loadTemplate(p string, content []byte) error {
	id := strings.TrimSuffix(p, path.Ext(p))

	base, err := r.partials.Clone()
	if err != nil {
		return fmt.Errorf("clone partials for %s: %w", id, err)
	}

	parsed, err := base.New(id).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return fmt.Errorf("parse template %s: %w", id, err)
	}

	r.mu.Lock()
	r.templates[id] = &Template{
		ID:      id,
		Path:    p,
		Content: string(content),
		parsed:  parsed,
	}
	r.mu.Unlock()

	return nil
}

func newEmbeddedRegistry() (*Registry, error) {
	subFS, err := fs.Sub(embeddedFS, "assets")
	if err != nil {
		return nil, fmt.Errorf("prepare embedded templates: %w", err)
	}

	return NewRegistryFromFS(subFS)
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)
