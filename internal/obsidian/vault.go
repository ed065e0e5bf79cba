// Package obsidian reads and writes notes in an Obsidian vault on disk.
// Note paths are vault-relative with forward slashes, e.g. "Projects/plan.md".
package obsidian

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/julianstephens/bium/internal/config"
)

const noteExt = ".md"

var (
	ErrVaultNotConfigured = errors.New("obsidian vault path is not configured")
	ErrVaultNotFound      = errors.New("obsidian vault not found")
	ErrInvalidFolder      = errors.New("folder must stay inside the vault")
)

type Vault struct {
	root string
}

// Validation describes a candidate vault path.
type Validation struct {
	Valid           bool   `json:"valid"`
	IsObsidianVault bool   `json:"isObsidianVault"`
	Error           string `json:"error,omitempty"`
}

// Validate reports whether vaultPath is a usable directory and whether it
// carries Obsidian's .obsidian config folder.
func Validate(vaultPath string) Validation {
	if strings.TrimSpace(vaultPath) == "" {
		return Validation{Error: "path is required"}
	}
	root, err := config.ExpandHome(vaultPath)
	if err != nil {
		return Validation{Error: err.Error()}
	}
	info, err := os.Stat(root)
	if err != nil {
		return Validation{Error: "path does not exist"}
	}
	if !info.IsDir() {
		return Validation{Error: "path is not a directory"}
	}
	_, err = os.Stat(filepath.Join(root, ".obsidian"))
	return Validation{Valid: true, IsObsidianVault: err == nil}
}

// Open returns the vault at vaultPath. A leading ~ is expanded.
func Open(vaultPath string) (*Vault, error) {
	if strings.TrimSpace(vaultPath) == "" {
		return nil, ErrVaultNotConfigured
	}
	root, err := config.ExpandHome(vaultPath)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w at %s", ErrVaultNotFound, root)
	}
	return &Vault{root: root}, nil
}

func (v *Vault) Root() string {
	return v.root
}

// Name is the vault name Obsidian uses in URIs: the root folder's base name.
func (v *Vault) Name() string {
	return filepath.Base(v.root)
}

// Notes lists every markdown note, skipping hidden folders such as .obsidian.
func (v *Vault) Notes() ([]string, error) {
	var notes []string
	err := v.walk(func(rel string, d fs.DirEntry) {
		if !d.IsDir() && strings.EqualFold(path.Ext(rel), noteExt) {
			notes = append(notes, rel)
		}
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(notes)
	return notes, nil
}

// Folders lists every non-hidden folder below the root.
func (v *Vault) Folders() ([]string, error) {
	var folders []string
	err := v.walk(func(rel string, d fs.DirEntry) {
		if d.IsDir() {
			folders = append(folders, rel)
		}
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(folders)
	return folders, nil
}

func (v *Vault) walk(visit func(rel string, d fs.DirEntry)) error {
	return fs.WalkDir(os.DirFS(v.root), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == "." {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		visit(p, d)
		return nil
	})
}

// CreateNote writes a new note named after title in folder (vault-relative,
// "" for the root) and returns its path. An existing name gets a numeric
// suffix; existing notes are never overwritten.
func (v *Vault) CreateNote(title, folder string) (string, error) {
	name := SanitizeTitle(title)

	folder = strings.Trim(filepath.ToSlash(strings.TrimSpace(folder)), "/")
	if folder != "" {
		clean := path.Clean(folder)
		if clean == ".." || strings.HasPrefix(clean, "../") || path.IsAbs(clean) {
			return "", fmt.Errorf("%w: %s", ErrInvalidFolder, folder)
		}
		folder = clean
	}

	dir := filepath.Join(v.root, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}

	content := []byte("# " + strings.TrimSpace(title) + "\n")
	for i := 0; ; i++ {
		file := name + noteExt
		if i > 0 {
			file = fmt.Sprintf("%s %d%s", name, i, noteExt)
		}
		f, err := os.OpenFile(filepath.Join(dir, file), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create note: %w", err)
		}
		_, werr := f.Write(content)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return "", fmt.Errorf("failed to write note: %w", werr)
		}
		return path.Join(folder, file), nil
	}
}

// URI builds the obsidian:// link that opens notePath in this vault.
func (v *Vault) URI(notePath string) string {
	return URI(v.Name(), notePath)
}

// URI builds an obsidian://open link. The note's .md extension is dropped.
func URI(vaultName, notePath string) string {
	file := strings.TrimSuffix(notePath, noteExt)
	return "obsidian://open?vault=" + encode(vaultName) + "&file=" + encode(file)
}

func encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// SanitizeTitle turns a task title into a safe note file name.
func SanitizeTitle(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', '#', '^', '[', ']':
			return -1
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, title)
	name = strings.Join(strings.Fields(name), " ")
	name = strings.TrimLeft(name, ".")
	if name == "" {
		return "Untitled"
	}
	return name
}
