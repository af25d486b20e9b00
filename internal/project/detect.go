// Package project identifies what kind of project a repository is from its
// manifest files.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/modfile"
)

// Language represents a programming language.
type Language string

const (
	LangGo         Language = "go"
	LangTypeScript Language = "typescript"
	LangJavaScript Language = "javascript"
	LangPython     Language = "python"
	LangRust       Language = "rust"
	LangJava       Language = "java"
	LangKotlin     Language = "kotlin"
	LangUnknown    Language = "unknown"
)

// Info describes a detected project.
type Info struct {
	Language Language `json:"language" yaml:"language"`
	// Manifest is the manifest file name relative to the root, empty when
	// none was found.
	Manifest string `json:"manifest,omitempty" yaml:"manifest,omitempty"`
	// Name comes from the manifest when it declares one, otherwise it is the
	// directory name.
	Name string `json:"name" yaml:"name"`
}

// manifests in priority order.
var manifests = []struct {
	path string
	lang Language
}{
	{"go.mod", LangGo},
	{"package.json", LangTypeScript}, // refined below
	{"Cargo.toml", LangRust},
	{"pyproject.toml", LangPython},
	{"requirements.txt", LangPython},
	{"setup.py", LangPython},
	{"pom.xml", LangJava},
	{"build.gradle", LangJava},
	{"build.gradle.kts", LangKotlin},
}

// Detect inspects root and returns what it finds. It never fails: a
// directory without a known manifest is LangUnknown.
func Detect(root string) Info {
	info := Info{Language: LangUnknown, Name: filepath.Base(root)}

	lang, manifest, ok := DetectLanguage(root)
	if !ok {
		return info
	}
	info.Language = lang
	info.Manifest = manifest

	if name := manifestName(filepath.Join(root, manifest)); name != "" {
		info.Name = name
	}
	return info
}

// DetectLanguage detects the primary language of a project from manifest files.
// Returns the language, manifest path, and whether detection succeeded.
func DetectLanguage(root string) (Language, string, bool) {
	for _, m := range manifests {
		fullPath := filepath.Join(root, m.path)
		if _, err := os.Stat(fullPath); err == nil {
			lang := m.lang
			if m.path == "package.json" {
				lang = detectJSorTS(root)
			}
			return lang, m.path, true
		}
	}

	return LangUnknown, "", false
}

// manifestName extracts the declared project name, or "" when the manifest
// does not declare one or cannot be parsed.
func manifestName(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	switch filepath.Base(path) {
	case "go.mod":
		return modfile.ModulePath(data)
	case "package.json":
		var pkg struct {
			Name string `json:"name"`
		}
		if json.Unmarshal(data, &pkg) != nil {
			return ""
		}
		return pkg.Name
	case "Cargo.toml":
		var cargo struct {
			Package struct {
				Name string `toml:"name"`
			} `toml:"package"`
		}
		if toml.Unmarshal(data, &cargo) != nil {
			return ""
		}
		return cargo.Package.Name
	case "pyproject.toml":
		var py struct {
			Project struct {
				Name string `toml:"name"`
			} `toml:"project"`
			Tool struct {
				Poetry struct {
					Name string `toml:"name"`
				} `toml:"poetry"`
			} `toml:"tool"`
		}
		if toml.Unmarshal(data, &py) != nil {
			return ""
		}
		if py.Project.Name != "" {
			return py.Project.Name
		}
		return py.Tool.Poetry.Name
	}
	return ""
}

// detectJSorTS checks if a project is TypeScript or JavaScript.
func detectJSorTS(root string) Language {
	if _, err := os.Stat(filepath.Join(root, "tsconfig.json")); err == nil {
		return LangTypeScript
	}
	if hasFileWithExt(root, ".ts") || hasFileWithExt(filepath.Join(root, "src"), ".ts") {
		return LangTypeScript
	}
	return LangJavaScript
}

func hasFileWithExt(dir, ext string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ext) {
			return true
		}
	}
	return false
}

// LanguageDisplayName returns a human-readable name for the language.
func LanguageDisplayName(lang Language) string {
	switch lang {
	case LangGo:
		return "Go"
	case LangTypeScript:
		return "TypeScript"
	case LangJavaScript:
		return "JavaScript"
	case LangPython:
		return "Python"
	case LangRust:
		return "Rust"
	case LangJava:
		return "Java"
	case LangKotlin:
		return "Kotlin"
	default:
		return "Unknown"
	}
}
