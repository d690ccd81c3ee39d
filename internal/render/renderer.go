// Package render enveloppe un texte sérialisé (HTML ou Markdown) dans un document
// complet à partir de templates text/template.
package render

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"
	"text/template"

	"github.com/patrickprogramme/medialink/internal/assets"
	"github.com/patrickprogramme/medialink/internal/fsutil"
	"github.com/patrickprogramme/medialink/internal/logging"
	"github.com/patrickprogramme/medialink/pkg/model"
)

var log = logging.Logger("render")

// Renderer gère parsing paresseux (lazy) des templates et fournit des méthodes de rendu.
type Renderer struct {
	templates *template.Template // templates parsés
	fsys      fs.FS              // source des templates (embed.FS ou os.DirFS)
	patterns  []string           // patterns relatifs au fsys, ex: "templates/*.tmpl"
	once      sync.Once          // protège l'initialisation paresseuse
	err       error              // mémorise l'erreur d'initialisation (utile avec once)
}

// NewRendererFromFS construit un Renderer configuré pour parser ultérieurement les patterns
// fournis depuis le fsys (ne parse pas immédiatement).
func NewRendererFromFS(fsys fs.FS, patterns []string) (*Renderer, error) {
	if fsys == nil {
		return nil, fmt.Errorf("fsys est nil")
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("aucun template fourni")
	}
	cp := append([]string(nil), patterns...)
	return &Renderer{
		fsys:     fsys,
		patterns: cp,
	}, nil
}

// DefaultRenderer lit les templates du dossier "templates" à côté du binaire.
// Si le dossier ne contient aucun template, on retombe sur les templates embarqués.
func DefaultRenderer(exePath string) (*Renderer, error) {
	tplDir := filepath.Join(filepath.Dir(exePath), "templates")

	var (
		r   *Renderer
		err error
	)
	found, derr := fsutil.HasFiles(tplDir, "*.tmpl")
	if derr == nil && found {
		r, err = NewRendererFromFS(os.DirFS(tplDir), []string{"*.tmpl"})
	} else {
		if derr != nil {
			log.Warnf("templates dir %s unreadable, using embedded: %v", tplDir, derr)
		}
		r, err = EmbeddedRenderer()
	}
	if err != nil {
		return nil, err
	}
	if err := r.ParseNow(); err != nil {
		return nil, err
	}
	return r, nil
}

// EmbeddedRenderer construit un Renderer sur les templates embarqués.
func EmbeddedRenderer() (*Renderer, error) {
	return NewRendererFromFS(assets.Embedded, assets.DefaultTemplatePaths)
}

// TemplateFor retourne le nom du template qui enveloppe le format donné.
// Le texte brut n'a pas de template.
func TemplateFor(f model.Format) (string, bool) {
	p, ok := assets.TemplateByName[string(f)]
	if !ok {
		return "", false
	}
	return path.Base(p), true
}

// parseTemplates effectue le parsing des templates une seule fois (sync.Once).
func (r *Renderer) parseTemplates() error {
	r.once.Do(func() {
		t := template.New("root").Funcs(baseFuncMap())
		for _, p := range r.patterns {
			var parseErr error
			t, parseErr = t.ParseFS(r.fsys, p)
			if parseErr != nil {
				r.err = fmt.Errorf("parse pattern %q: %w", p, parseErr)
				return
			}
		}
		r.templates = t
	})
	return r.err
}

// ParseNow force l'initialisation / parsing immédiat et retourne l'erreur si problème.
func (r *Renderer) ParseNow() error {
	if r == nil {
		return fmt.Errorf("nil renderer")
	}
	return r.parseTemplates()
}

// Render exécute le template nommé tmplName (basename du fichier .tmpl) avec data.
func (r *Renderer) Render(tmplName string, data DocumentData) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("renderer is nil")
	}
	if err := r.parseTemplates(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, tmplName, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", tmplName, err)
	}
	return buf.Bytes(), nil
}

// TemplateNames retourne la liste des noms (basenames) des templates parsés.
// Si le parsing n'a pas encore été fait, renvoie les basenames des patterns.
func (r *Renderer) TemplateNames() []string {
	if r == nil {
		return nil
	}
	if r.templates == nil {
		out := make([]string, 0, len(r.patterns))
		for _, p := range r.patterns {
			out = append(out, path.Base(p))
		}
		return out
	}
	names := make([]string, 0, len(r.templates.Templates()))
	for _, t := range r.templates.Templates() {
		if n := t.Name(); n != "" && n != "root" {
			names = append(names, n)
		}
	}
	return names
}

func baseFuncMap() template.FuncMap {
	return template.FuncMap{
		"linkList": linkListPure,
	}
}
