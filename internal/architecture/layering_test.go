package architecture_test

import (
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
)

const modulePrefix = "brack/internal/modules/"

// importsByFile parses every non-test Go file under root and returns its
// import paths keyed by slash-separated file path.
func importsByFile(t *testing.T, root string) map[string][]string {
	t.Helper()
	fset := token.NewFileSet()
	out := map[string][]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		node, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		slash := filepath.ToSlash(path)
		for _, imp := range node.Imports {
			out[slash] = append(out[slash], strings.Trim(imp.Path.Value, `"`))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	return out
}

func TestHexagonalLayerImports(t *testing.T) {
	t.Parallel()
	for file, imports := range importsByFile(t, filepath.Join("..", "modules")) {
		module, layer := moduleName(file), detectLayer(file)
		if module == "" || layer == "" {
			continue
		}
		for _, imp := range imports {
			if !strings.HasPrefix(imp, modulePrefix) {
				continue
			}
			if violatesLayerRule(module, layer, imp) {
				t.Errorf("forbidden import in %s (%s): %s", file, layer, imp)
			}
		}
	}
}

// Domain code stays pure: standard library, sibling domain packages and the
// shared sentinel errors only.
func TestDomainHasNoInfrastructureImports(t *testing.T) {
	t.Parallel()
	for file, imports := range importsByFile(t, filepath.Join("..", "modules")) {
		if detectLayer(file) != "domain" {
			continue
		}
		for _, imp := range imports {
			if imp == "brack/internal/platform/errors" || (strings.HasPrefix(imp, modulePrefix) && strings.HasSuffix(imp, "/domain")) {
				continue
			}
			if strings.Contains(strings.SplitN(imp, "/", 2)[0], ".") || strings.HasPrefix(imp, "brack/") {
				t.Errorf("domain file %s imports %s", file, imp)
			}
		}
	}
}

func TestPlatformDoesNotImportModules(t *testing.T) {
	t.Parallel()
	for file, imports := range importsByFile(t, filepath.Join("..", "platform")) {
		for _, imp := range imports {
			if strings.HasPrefix(imp, modulePrefix) {
				t.Errorf("platform file %s imports module package %s", file, imp)
			}
		}
	}
}

func moduleName(path string) string {
	parts := strings.Split(path, "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "modules" {
			return parts[i+1]
		}
	}
	return ""
}

func detectLayer(path string) string {
	for _, layer := range []string{"adapter/in", "adapter/out", "usecase", "service", "domain", "port/in", "port/out", "dto"} {
		if strings.Contains(path, "/"+layer+"/") {
			return layer
		}
	}
	return ""
}

func isPortIn(path string) bool {
	return strings.Contains(path, "/port/in/") || strings.HasSuffix(path, "/port/in")
}

func isDTO(path string) bool {
	return strings.Contains(path, "/dto/") || strings.HasSuffix(path, "/dto")
}

// Other modules are reachable only through their inbound port and DTOs.
func violatesLayerRule(module, layer, importPath string) bool {
	if !strings.HasPrefix(importPath, modulePrefix+module+"/") {
		if strings.Contains(importPath, "/service") || strings.Contains(importPath, "/adapter/") || strings.Contains(importPath, "/usecase") {
			return true
		}
		if isPortIn(importPath) || isDTO(importPath) {
			return false
		}
	}

	switch layer {
	case "adapter/in":
		return !isPortIn(importPath) && !isDTO(importPath)
	case "usecase":
		return strings.Contains(importPath, "/adapter/")
	case "service":
		return strings.Contains(importPath, "/adapter/") || strings.Contains(importPath, "/usecase")
	case "domain":
		return strings.Contains(importPath, "/adapter/") || strings.Contains(importPath, "/usecase") || strings.Contains(importPath, "/service")
	default:
		return false
	}
}
