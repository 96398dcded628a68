package cursor

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// Handler 同步消费根游标
type Handler func(root *Cursor) error

// Error 读取或解析 XML 失败，Line 为 0 表示没有位置信息。
// 位置基于改写实体之后的内容：行号不变，未声明实体之后的列号会偏大(&name; 改写为 &amp;name;)。
type Error struct {
	Line   int
	Column int
	Err    error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("xml: line %d, column %d: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("xml: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ParseFile 打开文件并解析，任何情况下文件都会被关闭
func ParseFile(path string, h Handler) (err error) {
	file, err := os.Open(path)
	if err != nil {
		return &Error{Err: err}
	}
	defer func(file *os.File) {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = &Error{Err: closeErr}
		}
	}(file)
	return Parse(file, h)
}

// Parse handler 返回后继续读完剩余内容，截断的文档在这里报错
func Parse(r io.Reader, h Handler) error {
	s := newStream(r)
	if err := h(&Cursor{p: s, filter: StartElements()}); err != nil {
		return err
	}
	return s.drain()
}

type stream struct {
	dec   *xml.Decoder
	depth int
	err   error
}

func newStream(r io.Reader) *stream {
	dec := xml.NewDecoder(transform.NewReader(r, &entityResolver{}))
	dec.Strict = true
	dec.CharsetReader = charsetReader
	return &stream{dec: dec}
}

func (s *stream) next() (xml.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	tok, err := s.dec.Token()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		line, col := s.dec.InputPos()
		s.err = &Error{Line: line, Column: col, Err: err}
		return nil, s.err
	}
	switch tok.(type) {
	case xml.StartElement:
		s.depth++
	case xml.EndElement:
		s.depth--
	}
	return tok, nil
}

func (s *stream) drain() error {
	for {
		if _, err := s.next(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}
