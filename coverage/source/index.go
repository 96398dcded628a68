// Package source 项目源文件索引，把报告中的路径解析为项目文件。
package source

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nyg123/go_clover/def"
)

// languageSuffixes 语言 -> 文件后缀
var languageSuffixes = map[string][]string{
	"java": {".java"},
	"grvy": {".groovy", ".gvy", ".gy", ".gsh"},
}

// Index 构建后只读，可以并发使用
type Index struct {
	base    string
	prefix  string
	files   map[string]string // 绝对路径 -> 相对路径
	exclude []*regexp.Regexp
}

// Build 遍历项目目录，收集指定语言的源文件
func Build(config def.Config) (*Index, error) {
	base, err := filepath.Abs(config.Path)
	if err != nil {
		return nil, err
	}
	languages := config.Languages
	if len(languages) == 0 {
		languages = def.DefaultLanguages
	}
	suffixes := map[string]bool{}
	for _, lang := range languages {
		exts, ok := languageSuffixes[lang]
		if !ok {
			return nil, fmt.Errorf("unknown language %q", lang)
		}
		for _, ext := range exts {
			suffixes[ext] = true
		}
	}
	idx := &Index{base: base, prefix: config.CoveragePrefix, files: map[string]string{}}
	for _, exclude := range config.UnitExclude {
		reg, err := regexp.Compile(exclude)
		if err != nil {
			return nil, fmt.Errorf("unit_exclude %q: %w", exclude, err)
		}
		idx.exclude = append(idx.exclude, reg)
	}
	err = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != base && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !suffixes[filepath.Ext(path)] {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		idx.files[path] = filepath.ToSlash(rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", base, err)
	}
	return idx, nil
}

// FromPath 去掉配置的前缀，相对路径基于项目目录
func (i *Index) FromPath(path string) (def.InputFile, bool) {
	p := strings.TrimSpace(path)
	if i.prefix != "" {
		p = strings.Replace(p, i.prefix, "", 1)
	}
	p = filepath.FromSlash(strings.ReplaceAll(p, "\\", "/"))
	if !filepath.IsAbs(p) {
		p = filepath.Join(i.base, p)
	}
	p = filepath.Clean(p)
	key, ok := i.files[p]
	if !ok || i.excluded(key) {
		return def.InputFile{}, false
	}
	return def.InputFile{Key: key, AbsPath: p}, true
}

func (i *Index) Len() int {
	return len(i.files)
}

func (i *Index) excluded(key string) bool {
	for _, reg := range i.exclude {
		if reg.MatchString(key) {
			return true
		}
	}
	return false
}
