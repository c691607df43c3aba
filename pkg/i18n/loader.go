package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Translation files follow the {lang}/{namespace}.{ext} convention:
//
//	en/common.yaml
//	en/errors.yaml
//	de/common.yaml
//
// The language comes from the directory, the namespace from the filename.

// WithYAMLDir loads every .yaml/.yml file under fsys as translations.
func WithYAMLDir(fsys fs.FS) Option {
	return func(i *I18n) error {
		return loadFiles(i, fsys, []string{".yaml", ".yml"}, yaml.Unmarshal)
	}
}

// WithJSONDir loads every .json file under fsys as translations.
func WithJSONDir(fsys fs.FS) Option {
	return func(i *I18n) error {
		return loadFiles(i, fsys, []string{".json"}, json.Unmarshal)
	}
}

func loadFiles(i *I18n, fsys fs.FS, exts []string, unmarshal func([]byte, any) error) error {
	return fs.WalkDir(fsys, ".", func(file string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := strings.ToLower(path.Ext(file))
		found := false
		for _, want := range exts {
			if ext == want {
				found = true
				break
			}
		}
		if !found {
			return nil
		}

		dir := path.Dir(file)
		if dir == "." {
			return fmt.Errorf("%w: %q is not inside a language directory", ErrInvalidFile, file)
		}

		raw, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("i18n: read %q: %w", file, err)
		}
		var data map[string]any
		if err := unmarshal(raw, &data); err != nil {
			return fmt.Errorf("%w: %q: %w", ErrInvalidFile, file, err)
		}

		lang := path.Base(dir)
		namespace := strings.TrimSuffix(path.Base(file), ext)
		i.merge(lang, namespace, data)
		return nil
	})
}
