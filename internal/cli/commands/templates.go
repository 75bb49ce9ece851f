package commands

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed all:templates
var templateFS embed.FS

// templateSuffix marks files rendered with text/template before writing.
const templateSuffix = ".tmpl"

// scaffoldData is the data available to .tmpl files.
type scaffoldData struct {
	Dialect string
}

// scaffoldFile is one file of a project template.
type scaffoldFile struct {
	Source   string // path inside templateFS
	Rel      string // path relative to the target directory
	Category string // "config" or "models"
	Exists   bool   // target already present
}

// planScaffold lists the files template would write into targetDir.
func planScaffold(templateName, targetDir string) ([]scaffoldFile, error) {
	root := path.Join("templates", templateName)
	if _, err := fs.Stat(templateFS, root); err != nil {
		return nil, fmt.Errorf("unknown template %q", templateName)
	}

	var files []scaffoldFile
	err := fs.WalkDir(templateFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel := targetName(strings.TrimPrefix(p, root+"/"))
		_, statErr := os.Stat(filepath.Join(targetDir, filepath.FromSlash(rel)))
		files = append(files, scaffoldFile{
			Source:   p,
			Rel:      rel,
			Category: fileCategory(rel),
			Exists:   statErr == nil,
		})
		return nil
	})
	return files, err
}

// writeScaffold writes the planned files, skipping existing ones unless
// force is set. It returns the files actually written.
func writeScaffold(files []scaffoldFile, targetDir string, data scaffoldData, force bool) ([]scaffoldFile, error) {
	var written []scaffoldFile
	for _, f := range files {
		if f.Exists && !force {
			continue
		}
		content, err := renderTemplateFile(f.Source, data)
		if err != nil {
			return written, err
		}
		target := filepath.Join(targetDir, filepath.FromSlash(f.Rel))
		if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil {
			return written, err
		}
		if err := os.WriteFile(target, content, 0644); err != nil {
			return written, err
		}
		written = append(written, f)
	}
	return written, nil
}

func renderTemplateFile(source string, data scaffoldData) ([]byte, error) {
	content, err := templateFS.ReadFile(source)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(source, templateSuffix) {
		return content, nil
	}
	tmpl, err := template.New(path.Base(source)).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", source, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("template %s: %w", source, err)
	}
	return buf.Bytes(), nil
}

// targetName maps a template path to the path written: "gitignore" becomes
// ".gitignore" and the .tmpl suffix is dropped.
func targetName(rel string) string {
	rel = strings.TrimSuffix(rel, templateSuffix)
	dir, base := path.Split(rel)
	if base == "gitignore" {
		base = ".gitignore"
	}
	return dir + base
}

func fileCategory(rel string) string {
	if strings.HasSuffix(rel, ".sql") {
		return "models"
	}
	return "config"
}

// groupScaffold groups file paths by category for display.
func groupScaffold(files []scaffoldFile) map[string][]string {
	groups := map[string][]string{
		"config": {},
		"models": {},
	}
	for _, f := range files {
		groups[f.Category] = append(groups[f.Category], f.Rel)
	}
	return groups
}
