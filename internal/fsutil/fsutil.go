// Package fsutil regroupe les écritures de documents sur disque : écriture
// atomique, choix d'un nom libre et nom de fichier tiré d'un titre.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"
)

// HasFiles indique si dir contient au moins une entrée dont le nom correspond
// à l'un des motifs (syntaxe path.Match, sans récursion). Sans motif, toute
// entrée compte. Un dossier absent ne contient rien.
func HasFiles(dir string, patterns ...string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read dir %s: %w", dir, err)
	}
	if len(patterns) == 0 {
		return len(entries) > 0, nil
	}
	for _, e := range entries {
		for _, pat := range patterns {
			ok, err := path.Match(pat, e.Name())
			if err != nil {
				return false, fmt.Errorf("pattern %q: %w", pat, err)
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, nil
}

// WriteFileAtomic écrit data dans dest via un fichier temporaire du même
// dossier puis un rename : dest contient l'ancien ou le nouveau contenu,
// jamais un document tronqué. Les dossiers parents sont créés.
func WriteFileAtomic(dest string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("rename to %s: %w", dest, err)
	}
	return nil
}

// maxSuffix borne la recherche d'un nom libre avant de passer à l'horodatage.
const maxSuffix = 999

// FreePath retourne dir/base.ext, ou dir/base_1.ext, dir/base_2.ext... si le
// fichier existe déjà.
func FreePath(dir, base, ext string) string {
	candidate := filepath.Join(dir, base+"."+ext)
	for i := 1; exists(candidate); i++ {
		suffix := strconv.Itoa(i)
		if i > maxSuffix {
			suffix = strconv.FormatInt(time.Now().UnixNano(), 10)
		}
		candidate = filepath.Join(dir, base+"_"+suffix+"."+ext)
	}
	return candidate
}

// SaveDocumentAtomic écrit content dans dir sous le nom tiré de title
// (voir DocumentName) avec l'extension ext. Sans overwrite, un fichier existant
// est conservé et le document reçoit un suffixe (voir FreePath).
// Retourne le chemin écrit.
func SaveDocumentAtomic(dir, title, ext string, content []byte, overwrite bool) (string, error) {
	if ext == "" {
		return "", errors.New("save document: empty extension")
	}
	base := DocumentName(title)
	dest := filepath.Join(dir, base+"."+ext)
	if !overwrite {
		dest = FreePath(dir, base, ext)
	}
	if err := WriteFileAtomic(dest, content, 0o644); err != nil {
		return "", err
	}
	return dest, nil
}

func exists(p string) bool {
	_, err := os.Lstat(p)
	return err == nil
}
