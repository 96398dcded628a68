package def

import "sort"

// BranchConditions 分支行固定的条件数
const BranchConditions = 2

// Line 单行覆盖记录，只有 StatementLine 和 BranchLine 两种
type Line interface {
	Number() int
	Hits() int
	line()
}

// StatementLine 语句行，count 为执行次数
type StatementLine struct {
	Num   int
	Count int
}

func (l StatementLine) Number() int { return l.Num }
func (l StatementLine) Hits() int   { return l.Count }
func (StatementLine) line()         {}

// BranchLine 分支行，truecount / falsecount 为两个分支的执行次数
type BranchLine struct {
	Num        int
	TrueCount  int
	FalseCount int
}

func (l BranchLine) Number() int { return l.Num }

// Hits 分支行的执行次数为两个分支之和
func (l BranchLine) Hits() int { return l.TrueCount + l.FalseCount }

// Conditions 分支条件总数
func (BranchLine) Conditions() int { return BranchConditions }

// Covered 被覆盖的分支数 0,1,2
func (l BranchLine) Covered() int {
	covered := 0
	if l.TrueCount > 0 {
		covered++
	}
	if l.FalseCount > 0 {
		covered++
	}
	return covered
}

func (BranchLine) line() {}

// FileCoverage 单个文件的行覆盖累加器，同一行后写覆盖先写
type FileCoverage struct {
	lines map[int]Line
}

func NewFileCoverage() *FileCoverage {
	return &FileCoverage{lines: make(map[int]Line)}
}

// SetHits 记录语句行
func (c *FileCoverage) SetHits(num, count int) {
	c.lines[num] = StatementLine{Num: num, Count: count}
}

// SetConditions 记录分支行
func (c *FileCoverage) SetConditions(num, trueCount, falseCount int) {
	c.lines[num] = BranchLine{Num: num, TrueCount: trueCount, FalseCount: falseCount}
}

func (c *FileCoverage) Len() int {
	return len(c.lines)
}

func (c *FileCoverage) Reset() {
	c.lines = make(map[int]Line)
}

// Lines 按行号排序返回
func (c *FileCoverage) Lines() []Line {
	out := make([]Line, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number() < out[j].Number() })
	return out
}

// Measures 生成文件的覆盖率指标
func (c *FileCoverage) Measures(key string) *FileMeasures {
	m := &FileMeasures{Path: key}
	for _, l := range c.Lines() {
		hit := LineHit{Line: l.Number(), Hits: l.Hits()}
		m.LinesToCover++
		if hit.Hits == 0 {
			m.UncoveredLines++
		}
		if b, ok := l.(BranchLine); ok {
			hit.Conditions = b.Conditions()
			hit.CoveredConditions = b.Covered()
			m.ConditionsToCover += hit.Conditions
			m.UncoveredConditions += hit.Conditions - hit.CoveredConditions
		}
		m.Lines = append(m.Lines, hit)
	}
	return m
}
