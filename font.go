package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

const DefaultFont = "arial.ttf"

var fontDirs = []string{
	"/usr/share/fonts/truetype/msttcorefonts",
	"/usr/share/fonts/truetype",
	"/usr/share/fonts/TTF",
	"/usr/share/fonts",
	"/Library/Fonts",
	"/System/Library/Fonts/Supplemental",
	`C:\Windows\Fonts`,
}

// FontLoader resolves the label face. A zero FontLoader uses DefaultFont
// and the system font directories.
type FontLoader struct {
	Path   string
	Dirs   []string
	Logger *slog.Logger
}

// Face returns the preferred scalable font at sizePx pixels, or the basic
// 7x13 bitmap face when the preferred font cannot be used. It never fails.
func (l FontLoader) Face(sizePx int) font.Face {
	face, err := l.scalable(sizePx)
	if err != nil {
		l.logger().Debug("using fallback label font", "font", l.name(), "error", err)
		return basicfont.Face7x13
	}
	return face
}

func (l FontLoader) scalable(sizePx int) (font.Face, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("font size %d px", sizePx)
	}

	dirs := l.Dirs
	if dirs == nil {
		dirs = fontDirs
	}
	path, err := findFont(l.name(), dirs)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(sizePx),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("face %s: %w", path, err)
	}
	l.logger().Debug("loaded label font", "path", path, "size", sizePx)
	return face, nil
}

func (l FontLoader) name() string {
	if l.Path == "" {
		return DefaultFont
	}
	return l.Path
}

func (l FontLoader) logger() *slog.Logger {
	if l.Logger == nil {
		return newNopLogger()
	}
	return l.Logger
}

// findFont looks for name as given, then by base name in dirs and their
// immediate subdirectories, ignoring case ("arial.ttf" matches "Arial.ttf").
func findFont(name string, dirs []string) (string, error) {
	if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
		return name, nil
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("font %s not found", name)
	}

	base := filepath.Base(name)
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		if path, ok := matchFont(dir, entries, base); ok {
			return path, nil
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			sub := filepath.Join(dir, e.Name())
			subEntries, err := os.ReadDir(sub)
			if err != nil {
				continue
			}
			if path, ok := matchFont(sub, subEntries, base); ok {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("font %s not found", name)
}

// matchFont prefers an exact match over a case-insensitive one.
func matchFont(dir string, entries []os.DirEntry, base string) (string, bool) {
	folded := ""
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if e.Name() == base {
			return filepath.Join(dir, e.Name()), true
		}
		if folded == "" && strings.EqualFold(e.Name(), base) {
			folded = filepath.Join(dir, e.Name())
		}
	}
	return folded, folded != ""
}
