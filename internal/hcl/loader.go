package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/itemforge/internal/config"
	"github.com/vk/itemforge/internal/ctxlog"
	"github.com/vk/itemforge/internal/fsutil"
	"github.com/vk/itemforge/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL item file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load orchestrates the item loading process: it discovers .hcl files under
// the given paths, parses them, and translates every item block into the
// unified model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := config.NewModel()
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root schema.ItemConfig
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		src := parser.Sources()[file]
		for _, item := range root.Items {
			def, err := l.translateItem(ctx, item, file, src)
			if err != nil {
				return nil, nil, err
			}
			if err := model.Define(def); err != nil {
				return nil, nil, err
			}
		}
		logger.Debug("Loaded item definitions from file.", "file", file, "count", len(root.Items))
	}

	logger.Info("Item model loaded.", "definitions", len(model.Order))
	return model, NewConverter(), nil
}

// findAllHCLFiles expands the given paths into a flat list of .hcl files.
// Files are accepted directly; directories are walked recursively.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot access items path %s: %w", path, err)
		}

		var found []string
		if info.IsDir() {
			found, err = fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, fmt.Errorf("failed to find item files in %s: %w", path, err)
			}
		} else if filepath.Ext(path) == ".hcl" {
			found = []string{path}
		}

		for _, f := range found {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			files = append(files, f)
		}
	}

	return files, nil
}
