// Package export 导出覆盖率数据，支持 json / yaml / msgpack
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/nyg123/go_clover/def"
)

const (
	JSON    = "json"
	YAML    = "yaml"
	MsgPack = "msgpack"
)

// Formats 支持的格式
var Formats = []string{JSON, YAML, MsgPack}

type Document struct {
	Files []*def.FileMeasures `json:"files" yaml:"files" msgpack:"files"`
}

// NewDocument 按文件路径排序
func NewDocument(coverage def.CoverageFmt) Document {
	doc := Document{Files: make([]*def.FileMeasures, 0, len(coverage))}
	for _, key := range coverage.Keys() {
		doc.Files = append(doc.Files, coverage[key])
	}
	return doc
}

func Write(w io.Writer, format string, coverage def.CoverageFmt) error {
	doc := NewDocument(coverage)
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case MsgPack:
		return msgpack.NewEncoder(w).Encode(doc)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
