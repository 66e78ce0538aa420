package saves

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wyrmgate/engine/internal/errors"
)

const saveExtension = ".json"

// FileRepoConfig holds configuration for the file repository.
type FileRepoConfig struct {
	// Dir is the saves directory. Created on first write if missing.
	Dir string
}

// fileRepository implements Repository on a directory of JSON files,
// one per save. Files are pretty-printed so saves diff cleanly.
type fileRepository struct {
	dir string
}

// NewFileRepository creates a new file-backed save repository.
func NewFileRepository(cfg *FileRepoConfig) Repository {
	if cfg.Dir == "" {
		panic("saves directory is required")
	}
	return &fileRepository{dir: cfg.Dir}
}

// validName rejects names that would escape the saves directory.
func validName(name string) error {
	if name == "" {
		return errors.Validation("save name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return errors.Validationf("save name %q may not contain path separators", name)
	}
	if strings.HasPrefix(name, ".") {
		return errors.Validationf("save name %q may not start with a dot", name)
	}
	return nil
}

func (r *fileRepository) path(name string) string {
	return filepath.Join(r.dir, name+saveExtension)
}

func (r *fileRepository) Put(_ context.Context, name string, save *Save) error {
	if save == nil {
		return errors.InvalidArgument("save cannot be nil")
	}
	if err := validName(name); err != nil {
		return err
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return errors.WrapWithCode(err, errors.CodeIO, "creating saves directory")
	}

	data, err := json.MarshalIndent(save, "", "  ")
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInternal, "serializing save")
	}
	data = append(data, '\n')

	if err := os.WriteFile(r.path(name), data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.CodeIO, "writing "+r.path(name))
	}
	return nil
}

func (r *fileRepository) Get(_ context.Context, name string) (*Save, error) {
	if err := validName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("save %q not found", name)
		}
		return nil, errors.WrapWithCode(err, errors.CodeIO, "reading "+r.path(name))
	}

	// Unknown fields mean the save came from a different engine build.
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var save Save
	if err := dec.Decode(&save); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeValidation, "parsing save "+name)
	}
	return &save, nil
}

func (r *fileRepository) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, errors.WrapWithCode(err, errors.CodeIO, "listing "+r.dir)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), saveExtension) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), saveExtension))
	}
	sort.Strings(names)
	return names, nil
}

func (r *fileRepository) Delete(_ context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := os.Remove(r.path(name)); err != nil {
		if os.IsNotExist(err) {
			return errors.NotFoundf("save %q not found", name)
		}
		return errors.WrapWithCode(err, errors.CodeIO, "deleting "+r.path(name))
	}
	return nil
}
