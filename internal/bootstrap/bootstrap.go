package bootstrap

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/patrickprogramme/medialink/internal/fsutil"
)

// Statuts retournés par ExportDefaults, par fichier embarqué.
const (
	StatusWritten     = "written"
	StatusUnchanged   = "unchanged"
	StatusSkipped     = "skipped (different)"
	StatusOverwritten = "overwritten"
)

// ExportDefaults copie récursivement tous les fichiers sous srcPrefix (dans fsys)
// vers destDir en préservant la hiérarchie relative.
// srcPrefix peut aussi désigner un seul fichier (ex: "medialink.example.yaml").
// Avec force, un fichier différent est sauvegardé (.bak.<date>) puis écrasé.
//
// Retourne une map[embeddedPath]status et une erreur globale si Walk échoue.
func ExportDefaults(fsys fs.FS, srcPrefix, destDir string, force bool) (map[string]string, error) {
	status := make(map[string]string)

	err := fs.WalkDir(fsys, srcPrefix, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		// chemin relatif par rapport à srcPrefix (un fichier seul garde son nom)
		rel := path.Base(p)
		if p != srcPrefix {
			r, err := filepath.Rel(filepath.FromSlash(srcPrefix), filepath.FromSlash(p))
			if err != nil {
				return err
			}
			rel = r
		}
		destPath := filepath.Join(destDir, rel)

		if d.IsDir() {
			if p == srcPrefix {
				return nil
			}
			return os.MkdirAll(destPath, 0o755)
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			status[p] = "error: read embedded failed"
			return err
		}

		// si le fichier existe déjà : comparer
		if existing, err := os.ReadFile(destPath); err == nil {
			if bytes.Equal(existing, data) {
				status[p] = StatusUnchanged
				return nil
			}
			if !force {
				status[p] = StatusSkipped
				return nil
			}
			backup := destPath + ".bak." + time.Now().Format("20060102T150405")
			if err := fsutil.WriteFileAtomic(backup, existing, 0o644); err != nil {
				status[p] = "error: backup failed"
				return fmt.Errorf("backup failed for %s: %w", destPath, err)
			}
			if err := fsutil.WriteFileAtomic(destPath, data, 0o644); err != nil {
				status[p] = "error: overwrite failed"
				return err
			}
			status[p] = StatusOverwritten
			return nil
		}

		if err := fsutil.WriteFileAtomic(destPath, data, 0o644); err != nil {
			status[p] = "error: write failed"
			return err
		}
		status[p] = StatusWritten
		return nil
	})

	return status, err
}

// EnsureTemplatesPresent s'assure que les templates listés existent dans tplDir.
//
// - tplDir  : dossier destination sur disque (ex: binDir/templates)
// - fsys    : embed.FS (ou autre fs.FS) contenant les ressources embarquées
// - srcFiles: liste explicite de chemins DANS fsys (ex: "templates/document.html.tmpl")
//
// Le dossier est créé si besoin. Seuls les fichiers absents sont copiés :
// un template modifié par l'utilisateur n'est jamais remplacé.
func EnsureTemplatesPresent(tplDir string, fsys fs.FS, srcFiles []string) error {
	parent := filepath.Dir(tplDir)
	if st, err := os.Stat(parent); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("le répertoire parent n'existe pas : %s", parent)
		}
		return fmt.Errorf("échec lors du test du répertoire parent %s : %w", parent, err)
	} else if !st.IsDir() {
		return fmt.Errorf("le parent existe mais n'est pas un répertoire : %s", parent)
	}

	if err := os.MkdirAll(tplDir, 0o755); err != nil {
		return fmt.Errorf("échec de création du répertoire de templates %s : %w", tplDir, err)
	}

	// dossier vide -> tout copier sans tester chaque fichier
	nonEmpty, err := fsutil.HasFiles(tplDir)
	if err != nil {
		return fmt.Errorf("échec lors de la vérification du répertoire %s : %w", tplDir, err)
	}

	for _, src := range srcFiles {
		dest := filepath.Join(tplDir, path.Base(src))
		if nonEmpty {
			if _, err := os.Stat(dest); err == nil {
				continue
			} else if !os.IsNotExist(err) {
				return fmt.Errorf("échec lors du test du fichier %s : %w", dest, err)
			}
		}
		data, rerr := fs.ReadFile(fsys, src)
		if rerr != nil {
			return fmt.Errorf("fichier embarqué introuvable %s : %w", src, rerr)
		}
		if err := fsutil.WriteFileAtomic(dest, data, 0o644); err != nil {
			return fmt.Errorf("échec d'écriture du template %s : %w", dest, err)
		}
	}
	return nil
}
