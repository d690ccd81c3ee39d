package assets

import "embed"

//go:embed medialink.example.yaml
//go:embed templates/*tmpl
var Embedded embed.FS

// Nom de l'asset de config par défaut (chemin DANS Embedded)
const DefaultConfigAsset = "medialink.example.yaml"

// DefaultTemplatePaths : liste ordonnée des templates "par défaut" embarqués.
// Ce sont des chemins relatifs DANS Embedded (ex: "templates/document.html.tmpl").
var DefaultTemplatePaths = []string{
	"templates/document.html.tmpl",
	"templates/document.md.tmpl",
}

// TemplateByName donne un accès par clé (map).
var TemplateByName = map[string]string{
	"html": "templates/document.html.tmpl",
	"md":   "templates/document.md.tmpl",
}
