package clover

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nyg123/go_clover/coverage/cursor"
	"github.com/nyg123/go_clover/def"
)

// MissingReportMessage 报告文件不存在时的提示
const MissingReportMessage = "Clover XML report not found"

// ErrMalformedReport XML 语法错误、读取失败、必填数字不合法
var ErrMalformedReport = errors.New("malformed clover report")

// FileProvider 把报告中的路径解析成项目文件
type FileProvider interface {
	FromPath(path string) (def.InputFile, bool)
}

type FileProviderFunc func(path string) (def.InputFile, bool)

func (f FileProviderFunc) FromPath(path string) (def.InputFile, bool) {
	return f(path)
}

// Sink 接收单个文件的覆盖率指标
type Sink interface {
	Save(file def.InputFile, m *def.FileMeasures) error
}

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type Parser struct {
	provider FileProvider
	sink     Sink
	log      Logger
}

type Option func(*Parser)

func WithLogger(l Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.log = l
		}
	}
}

func New(provider FileProvider, sink Sink, opts ...Option) *Parser {
	p := &Parser{provider: provider, sink: sink, log: nopLogger{}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ReportExists 报告是否为存在的普通文件
func ReportExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Collect 解析报告文件，报告不存在时什么也不做
func (p *Parser) Collect(reportPath string) (Stats, error) {
	if !ReportExists(reportPath) {
		return Stats{}, nil
	}
	if abs, err := filepath.Abs(reportPath); err == nil {
		reportPath = abs
	}
	p.log.Infof("Parsing %s", reportPath)
	r := p.newRun()
	return p.finish(r, cursor.ParseFile(reportPath, r.stream))
}

// CollectReader 解析已经打开的报告
func (p *Parser) CollectReader(in io.Reader) (Stats, error) {
	r := p.newRun()
	return p.finish(r, cursor.Parse(in, r.stream))
}

func (p *Parser) newRun() *run {
	return &run{parser: p, lines: def.NewFileCoverage()}
}

func (p *Parser) finish(r *run, err error) (Stats, error) {
	if err != nil {
		var se *sinkError
		if errors.As(err, &se) {
			p.log.Errorf("Saving coverage failed: %v", se)
			return r.stats, se
		}
		p.log.Errorf("Clover report is malformed: %v", err)
		return r.stats, fmt.Errorf("%w: %w", ErrMalformedReport, err)
	}
	p.summary(r.stats)
	return r.stats, nil
}

func (p *Parser) summary(s Stats) {
	percent, ok := s.MatchedPercent()
	if !ok {
		p.log.Infof("No files found in Clover report")
		return
	}
	p.log.Infof("Matched files in Clover report: %d%% (%d of %d)", percent, s.Total-s.Unmatched, s.Total)
	if s.Unmatched > 0 {
		p.log.Warnf("%d files in Clover report did not match any file in the project: %s", s.Unmatched, s.UnmatchedList())
	}
}

type sinkError struct {
	key string
	err error
}

func (e *sinkError) Error() string {
	return fmt.Sprintf("save %s: %v", e.key, e.err)
}

func (e *sinkError) Unwrap() error {
	return e.err
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
