package clover

import (
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nyg123/go_clover/coverage/source"
	"github.com/nyg123/go_clover/def"
)

// MemorySink 把覆盖率保存在内存中，可并发写入
type MemorySink struct {
	mu       sync.Mutex
	coverage def.CoverageFmt
}

func NewMemorySink() *MemorySink {
	return &MemorySink{coverage: make(def.CoverageFmt)}
}

func (s *MemorySink) Save(file def.InputFile, m *def.FileMeasures) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coverage[file.Key] = m
	return nil
}

// Coverage 返回副本
func (s *MemorySink) Coverage() def.CoverageFmt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(def.CoverageFmt, len(s.coverage))
	for k, v := range s.coverage {
		out[k] = v
	}
	return out
}

// ReportPath 配置中的报告路径，相对路径基于项目目录
func ReportPath(config def.Config) string {
	if config.CoveragePath == "" || filepath.IsAbs(config.CoveragePath) {
		return config.CoveragePath
	}
	return filepath.Join(config.Path, config.CoveragePath)
}

// Result 单个报告的解析结果
type Result struct {
	Report   string
	Stats    Stats
	Coverage def.CoverageFmt
}

// GetCoverage 按配置解析覆盖率文件，reports 为空时使用配置中的 coverage_path
func GetCoverage(config def.Config, reports []string, opts ...Option) ([]Result, error) {
	log := New(nil, nil, opts...).log
	if len(reports) == 0 {
		reports = []string{ReportPath(config)}
	}
	var existing []string
	for _, report := range reports {
		if !ReportExists(report) {
			log.Warnf("%s: %s", MissingReportMessage, report)
			continue
		}
		existing = append(existing, report)
	}
	if len(existing) == 0 {
		return nil, nil
	}

	index, err := source.Build(config)
	if err != nil {
		return nil, err
	}
	log.Infof("%d source files indexed under %s", index.Len(), config.Path)

	// 每个报告一个 Parser 和 MemorySink
	results := make([]Result, len(existing))
	g := new(errgroup.Group)
	for i, report := range existing {
		i, report := i, report
		g.Go(func() error {
			sink := NewMemorySink()
			stats, err := New(index, sink, opts...).Collect(report)
			if err != nil {
				return fmt.Errorf("%s: %w", report, err)
			}
			results[i] = Result{Report: report, Stats: stats, Coverage: sink.Coverage()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
