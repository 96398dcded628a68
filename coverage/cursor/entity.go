package cursor

import (
	"bytes"
	"strconv"
	"unicode"

	"golang.org/x/text/transform"
)

// 没有 DTD，除了 XML 预定义实体外的实体引用都是未声明的。
// &uXXXX; 替换成对应的字符，其余未声明实体按原文 &name; 保留在文本中。

const maxReferenceLen = 32

var (
	commentStart = []byte("<!--")
	commentEnd   = []byte("-->")
	cdataStart   = []byte("<![CDATA[")
	cdataEnd     = []byte("]]>")
)

var predefinedEntities = map[string]bool{
	"amp":  true,
	"lt":   true,
	"gt":   true,
	"quot": true,
	"apos": true,
}

const (
	inText = iota
	inComment
	inCDATA
)

type entityResolver struct {
	state int
}

func (t *entityResolver) Reset() {
	t.state = inText
}

func (t *entityResolver) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		rest := src[nSrc:]
		room := len(dst) - nDst

		switch t.state {
		case inComment, inCDATA:
			end := commentEnd
			if t.state == inCDATA {
				end = cdataEnd
			}
			n := len(rest)
			closed := false
			if i := bytes.Index(rest, end); i >= 0 {
				n, closed = i+len(end), true
			} else if !atEOF {
				// 结束标记可能被截断在缓冲区末尾
				n -= len(end) - 1
				if n <= 0 {
					return nDst, nSrc, transform.ErrShortSrc
				}
			}
			if n > room {
				n, closed = room, false
			}
			if n == 0 {
				return nDst, nSrc, transform.ErrShortDst
			}
			nDst += copy(dst[nDst:], rest[:n])
			nSrc += n
			if closed {
				t.state = inText
			}
			continue
		}

		i := bytes.IndexAny(rest, "<&")
		if i != 0 {
			if i < 0 {
				i = len(rest)
			}
			if i > room {
				i = room
			}
			if i == 0 {
				return nDst, nSrc, transform.ErrShortDst
			}
			nDst += copy(dst[nDst:], rest[:i])
			nSrc += i
			continue
		}

		var out []byte
		var consumed int
		if rest[0] == '<' {
			switch {
			case bytes.HasPrefix(rest, commentStart):
				consumed = len(commentStart)
				t.state = inComment
			case bytes.HasPrefix(rest, cdataStart):
				consumed = len(cdataStart)
				t.state = inCDATA
			case !atEOF && len(rest) < len(cdataStart) &&
				(bytes.HasPrefix(commentStart, rest) || bytes.HasPrefix(cdataStart, rest)):
				return nDst, nSrc, transform.ErrShortSrc
			default:
				consumed = 1
			}
			out = rest[:consumed]
		} else {
			var short bool
			out, consumed, short = resolveReference(rest, atEOF)
			if short {
				return nDst, nSrc, transform.ErrShortSrc
			}
		}
		if len(out) > room {
			// 状态已经可能变化，回滚
			if rest[0] == '<' {
				t.state = inText
			}
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], out)
		nSrc += consumed
	}
	return nDst, nSrc, nil
}

// resolveReference rest 以 & 开头，返回替换内容和消费的字节数
func resolveReference(rest []byte, atEOF bool) (out []byte, consumed int, short bool) {
	end := -1
	for j := 1; j < len(rest) && j <= maxReferenceLen; j++ {
		c := rest[j]
		if c == ';' {
			end = j
			break
		}
		if !isReferenceByte(c) {
			// 不是实体引用，交给解码器判断
			return rest[:1], 1, false
		}
	}
	if end < 0 {
		if !atEOF && len(rest) <= maxReferenceLen {
			return nil, 0, true
		}
		return rest[:1], 1, false
	}
	name := string(rest[1:end])
	if name == "" || name[0] == '#' || predefinedEntities[name] {
		return rest[:end+1], end + 1, false
	}
	if r, ok := unicodeEntity(name); ok {
		return []byte("&#x" + strconv.FormatInt(int64(r), 16) + ";"), end + 1, false
	}
	return []byte("&amp;" + name + ";"), end + 1, false
}

// unicodeEntity u + 4 位十六进制，且是已定义、XML 允许的字符
func unicodeEntity(name string) (rune, bool) {
	if len(name) != 5 || (name[0] != 'u' && name[0] != 'U') {
		return 0, false
	}
	v, err := strconv.ParseUint(name[1:], 16, 32)
	if err != nil {
		return 0, false
	}
	r := rune(v)
	if !isXMLChar(r) {
		return 0, false
	}
	if !unicode.In(r, unicode.L, unicode.M, unicode.N, unicode.P, unicode.S, unicode.Z, unicode.C) {
		return 0, false
	}
	return r, true
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}

func isReferenceByte(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '<', '>', '&', '"', '\'', '/', '=':
		return false
	}
	return true
}
