// Package cursor 流式 XML 游标，按层级遍历元素，不构建 DOM。
//
// 游标只关心开始标签：Advance 移动到下一个满足过滤条件的兄弟(或后代)元素，
// ChildCursor / DescendantCursor 进入当前元素内部。父游标前进后，子游标自动失效。
package cursor

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// ErrNoElement Descend 找不到目标元素
var ErrNoElement = errors.New("element not found")

// Filter 过滤开始标签
type Filter func(e xml.StartElement) bool

// StartElements 接受所有元素
func StartElements() Filter {
	return func(xml.StartElement) bool { return true }
}

// Named 只接受指定标签名(不含命名空间前缀)
func Named(names ...string) Filter {
	return func(e xml.StartElement) bool {
		for _, n := range names {
			if e.Name.Local == n {
				return true
			}
		}
		return false
	}
}

type Cursor struct {
	p           *stream
	parent      *Cursor
	parentSeq   int
	level       int // 所属元素的深度，0 为文档
	descendants bool
	filter      Filter

	cur      *xml.StartElement
	curDepth int
	seq      int
	done     bool
}

// Advance 移动到下一个匹配的元素，返回 false 表示已经遍历完(不是错误)
func (c *Cursor) Advance() (bool, error) {
	if c.done {
		return false, nil
	}
	if c.stale() {
		c.finish()
		return false, nil
	}
	c.seq++
	c.cur = nil
	for {
		if c.p.depth < c.level {
			c.finish()
			return false, nil
		}
		tok, err := c.p.next()
		if err == io.EOF {
			c.finish()
			return false, nil
		}
		if err != nil {
			return false, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if (c.descendants || c.p.depth-1 == c.level) && c.filter(t) {
				c.cur = &t
				c.curDepth = c.p.depth
				return true, nil
			}
		case xml.EndElement:
			if c.p.depth < c.level {
				c.finish()
				return false, nil
			}
		}
	}
}

// AdvanceWhile 至少前进一次，当前元素满足 skip 时继续前进
func (c *Cursor) AdvanceWhile(skip func(*Cursor) bool) (bool, error) {
	for {
		ok, err := c.Advance()
		if err != nil || !ok {
			return false, err
		}
		if !skip(c) {
			return true, nil
		}
	}
}

// SkipFirst 丢弃第一个匹配的元素，project / package 下用来跳过 metrics
func (c *Cursor) SkipFirst() error {
	_, err := c.Advance()
	return err
}

// ChildCursor 遍历当前元素的直接子元素
func (c *Cursor) ChildCursor(f Filter) *Cursor {
	return c.sub(f, false)
}

// DescendantCursor 按文档顺序遍历当前元素的所有后代元素
func (c *Cursor) DescendantCursor(f Filter) *Cursor {
	return c.sub(f, true)
}

// Descend 返回定位在第一个名为 name 的后代元素上的游标
func (c *Cursor) Descend(name string) (*Cursor, error) {
	d := c.DescendantCursor(Named(name))
	ok, err := d.Advance()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: <%s>", ErrNoElement, name)
	}
	return d, nil
}

// SetFilter 替换过滤条件，从下一次 Advance 开始生效
func (c *Cursor) SetFilter(f Filter) {
	if f == nil {
		f = StartElements()
	}
	c.filter = f
}

// Attr 读取当前元素的属性
func (c *Cursor) Attr(name string) (string, bool) {
	if c.cur == nil {
		return "", false
	}
	for _, a := range c.cur.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// LocalName 当前元素的标签名，游标未定位时为空
func (c *Cursor) LocalName() string {
	if c.cur == nil {
		return ""
	}
	return c.cur.Name.Local
}

// Exhausted 是否已经遍历完
func (c *Cursor) Exhausted() bool {
	return c.done
}

func (c *Cursor) sub(f Filter, descendants bool) *Cursor {
	if f == nil {
		f = StartElements()
	}
	child := &Cursor{
		p:           c.p,
		parent:      c,
		parentSeq:   c.seq,
		level:       c.curDepth,
		descendants: descendants,
		filter:      f,
	}
	if c.cur == nil {
		child.done = true
	}
	return child
}

// stale 任一祖先游标移动过，当前游标的范围就已经被消费了
func (c *Cursor) stale() bool {
	for x := c; x.parent != nil; x = x.parent {
		if x.parent.seq != x.parentSeq || x.parent.done {
			return true
		}
	}
	return false
}

func (c *Cursor) finish() {
	c.done = true
	c.cur = nil
}
