// Package files reads templates from a directory.
//
// Files named *.yaml, *.yml or *.json are templates.
// The id of a template is the name of its file without extension.
package files

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/mycelium-catalog/mycelium/pkg/domain"
	xe "github.com/mycelium-catalog/mycelium/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Extensions of template files.
var Extensions = []string{".yaml", ".yml", ".json"}

// IsTemplate tells whether the file at path is a template file by its name.
func IsTemplate(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Load reads all templates in dir, in the order of file names.
//
// Files which can not be read as a template are logged and skipped.
// When files share an id (like "s3.json" and "s3.yaml"), the last one in name order wins.
// When dir does not exist, no templates are loaded.
//
// # Returns
//
// - []domain.Template
//
// - error: when dir can not be listed.
func Load(dir string, logger *log.Logger) ([]domain.Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warnf("templates directory %s is not found", dir)
			return []domain.Template{}, nil
		}
		return nil, xe.Wrap(err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	templates := []domain.Template{}
	index := map[string]int{}
	for _, e := range entries {
		if e.IsDir() || !IsTemplate(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		t, err := Read(path)
		if err != nil {
			logger.Errorf("template file %s is skipped: %s", path, err)
			continue
		}
		if nth, ok := index[t.Id]; ok {
			logger.Warnf("template %s is overridden by %s", t.Id, path)
			templates[nth] = t
			continue
		}
		logger.Debugf("template %s is loaded", t.Id)
		index[t.Id] = len(templates)
		templates = append(templates, t)
	}

	if len(templates) == 0 {
		logger.Warnf("no templates are found in %s", dir)
	} else {
		logger.Infof("%d templates are loaded from %s", len(templates), dir)
	}
	return templates, nil
}

// Read reads a template file.
func Read(path string) (domain.Template, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.Template{}, err
	}

	t := domain.Template{}
	unmarshal := yaml.Unmarshal
	if strings.EqualFold(filepath.Ext(path), ".json") {
		unmarshal = json.Unmarshal
	}
	if err := unmarshal(content, &t); err != nil {
		return domain.Template{}, err
	}
	base := filepath.Base(path)
	t.Id = strings.TrimSuffix(base, filepath.Ext(base))
	if err := t.Validate(); err != nil {
		return domain.Template{}, err
	}
	return t, nil
}
