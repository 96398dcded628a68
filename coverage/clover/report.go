package clover

import (
	"fmt"
	"strings"

	"github.com/nyg123/go_clover/coverage/cursor"
	"github.com/nyg123/go_clover/def"
)

// run 一次 Collect 的状态，结束后丢弃
type run struct {
	parser *Parser
	stats  Stats
	lines  *def.FileCoverage
}

// stream project -> package -> file -> (class|line)
func (r *run) stream(root *cursor.Cursor) error {
	ok, err := root.Advance()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: document element", cursor.ErrNoElement)
	}
	project := root
	if root.LocalName() != "project" {
		if project, err = root.Descend("project"); err != nil {
			return err
		}
	}
	packages := project.ChildCursor(cursor.StartElements())
	if err := packages.SkipFirst(); err != nil {
		return err
	}
	return r.collectPackages(packages)
}

func (r *run) collectPackages(packages *cursor.Cursor) error {
	for {
		ok, err := packages.Advance()
		if err != nil || !ok {
			return err
		}
		files := packages.DescendantCursor(cursor.StartElements())
		if err := files.SkipFirst(); err != nil {
			return err
		}
		files.SetFilter(cursor.Named("file"))
		if err := r.collectFiles(files); err != nil {
			return err
		}
	}
}

func (r *run) collectFiles(files *cursor.Cursor) error {
	for {
		ok, err := files.Advance()
		if err != nil || !ok {
			return err
		}
		path, ok := files.Attr("path")
		if !ok {
			continue
		}
		children := files.ChildCursor(cursor.StartElements())
		eligible, err := hasElements(children)
		if err != nil {
			return fmt.Errorf("file %s: %w", path, err)
		}
		if !eligible {
			continue
		}
		r.stats.Total++
		file, found := r.parser.provider.FromPath(path)
		if !found {
			r.stats.unmatched(path)
			r.parser.log.Warnf("Unmatched file in Clover report: %s", path)
			continue
		}
		if err := r.saveHits(file, path, children); err != nil {
			return err
		}
	}
}

// saveHits lines 游标停在 metrics 上，继续读取后面的 line
func (r *run) saveHits(file def.InputFile, path string, lines *cursor.Cursor) error {
	r.lines.Reset()
	defer r.lines.Reset()
	for {
		ok, err := lines.Advance()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if isClass(lines) || lines.LocalName() != "line" {
			continue
		}
		if err := r.readLine(lines); err != nil {
			return fmt.Errorf("file %s: %w", path, err)
		}
	}
	if r.lines.Len() == 0 {
		return nil
	}
	m := r.lines.Measures(file.Key)
	m.AbsPath = file.AbsPath
	if err := r.parser.sink.Save(file, m); err != nil {
		return &sinkError{key: file.Key, err: err}
	}
	r.stats.Saved++
	return nil
}

// readLine count 存在且非空为语句行，否则为分支行
func (r *run) readLine(line *cursor.Cursor) error {
	rawNum, ok := line.Attr("num")
	if !ok {
		return fmt.Errorf("line without num attribute")
	}
	num, err := parseInteger("num", rawNum)
	if err != nil {
		return err
	}
	if count, ok := line.Attr("count"); ok && strings.TrimSpace(count) != "" {
		hits, err := parseInteger("count", count)
		if err != nil {
			return fmt.Errorf("line %d: %w", num, err)
		}
		if hits < 0 {
			return fmt.Errorf("line %d: negative count %d", num, hits)
		}
		r.lines.SetHits(num, hits)
		return nil
	}
	trueAttr, _ := line.Attr("truecount")
	falseAttr, _ := line.Attr("falsecount")
	r.lines.SetConditions(num, optionalCount(trueAttr), optionalCount(falseAttr))
	return nil
}

// hasElements 跳过 1.x 格式中 metrics 前的 class，metrics 的 elements 大于 0 才统计
func hasElements(metrics *cursor.Cursor) (bool, error) {
	ok, err := metrics.AdvanceWhile(isClass)
	if err != nil || !ok {
		return false, err
	}
	raw, ok := metrics.Attr("elements")
	if !ok {
		return false, nil
	}
	elements, err := parseNumber(raw)
	if err != nil {
		return false, fmt.Errorf("metrics elements: %w", err)
	}
	return elements > 0, nil
}

func isClass(c *cursor.Cursor) bool {
	return c.LocalName() == "class"
}
