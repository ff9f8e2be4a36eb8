package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/totegamma/brandproof"
	"github.com/totegamma/brandproof/internal/domain"
)

// FileBrandRepository reads brand configuration from {dir}/{brand}.json,
// where brand is the normalized brand name.
type FileBrandRepository struct {
	dir string
}

func NewFileBrandRepository(dir string) *FileBrandRepository {
	return &FileBrandRepository{dir: dir}
}

// Path returns the configuration file of brand. ok is false when the
// normalized name cannot stay inside the configuration directory.
func (r *FileBrandRepository) Path(brand string) (path string, ok bool) {
	name := brandproof.NormalizeBrand(brand)
	if !storableName(name) {
		return "", false
	}
	return filepath.Join(r.dir, name+".json"), true
}

func (r *FileBrandRepository) Load(ctx context.Context, brand string) (domain.BrandConfig, error) {
	path, ok := r.Path(brand)
	if !ok {
		return domain.BrandConfig{}, domain.ConfigNotFoundError{Brand: brand}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.BrandConfig{}, domain.ConfigNotFoundError{Brand: brand}
		}
		return domain.BrandConfig{}, errors.Wrapf(err, "read config for %s", brand)
	}

	var cfg domain.BrandConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return domain.BrandConfig{}, errors.Wrapf(err, "decode config for %s", brand)
	}
	return cfg, nil
}

// Names lists the brand names with a configuration file in the directory.
func (r *FileBrandRepository) Names() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(r.dir, "*.json"))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, strings.TrimSuffix(filepath.Base(f), ".json"))
	}
	return names, nil
}

func storableName(name string) bool {
	if name == "" || name == "." || strings.Contains(name, "..") {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return false
	}
	return filepath.Base(name) == name
}
