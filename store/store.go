// Package store 把覆盖率指标保存到 sqlite
package store

import (
	"fmt"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/nyg123/go_clover/def"
)

const schema = `
CREATE TABLE IF NOT EXISTS files (
    path TEXT PRIMARY KEY,
    abs_path TEXT,
    lines_to_cover INTEGER NOT NULL,
    uncovered_lines INTEGER NOT NULL,
    conditions_to_cover INTEGER NOT NULL,
    uncovered_conditions INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS lines (
    path TEXT NOT NULL,
    line INTEGER NOT NULL,
    hits INTEGER NOT NULL,
    conditions INTEGER NOT NULL,
    covered_conditions INTEGER NOT NULL,
    PRIMARY KEY (path, line)
);

CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    report TEXT NOT NULL,
    total INTEGER NOT NULL,
    unmatched INTEGER NOT NULL,
    created_at TEXT NOT NULL
);
`

// Store 单个连接，不能跨 goroutine 使用
type Store struct {
	conn *sqlite.Conn
}

// Run 一次导入的记录
type Run struct {
	ID        int64
	Report    string
	Total     int
	Unmatched int
	CreatedAt time.Time
}

func Open(path string) (*Store, error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenCreate, sqlite.OpenReadWrite, sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := sqlitex.ExecuteTransient(conn, "PRAGMA synchronous = NORMAL", nil); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &Store{conn: conn}, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

// SaveAll 在一个事务中写入
func (s *Store) SaveAll(coverage def.CoverageFmt) (err error) {
	endFn, err := sqlitex.ImmediateTransaction(s.conn)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer endFn(&err)
	for _, key := range coverage.Keys() {
		if err = s.save(key, coverage[key]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) save(key string, m *def.FileMeasures) error {
	if err := sqlitex.Execute(s.conn, `DELETE FROM lines WHERE path = ?`, &sqlitex.ExecOptions{
		Args: []any{key},
	}); err != nil {
		return fmt.Errorf("delete lines %s: %w", key, err)
	}
	if err := sqlitex.Execute(s.conn,
		`INSERT INTO files (path, abs_path, lines_to_cover, uncovered_lines, conditions_to_cover, uncovered_conditions)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
    abs_path = COALESCE(NULLIF(excluded.abs_path, ''), files.abs_path),
    lines_to_cover = excluded.lines_to_cover,
    uncovered_lines = excluded.uncovered_lines,
    conditions_to_cover = excluded.conditions_to_cover,
    uncovered_conditions = excluded.uncovered_conditions`,
		&sqlitex.ExecOptions{
			Args: []any{key, m.AbsPath, m.LinesToCover, m.UncoveredLines, m.ConditionsToCover, m.UncoveredConditions},
		}); err != nil {
		return fmt.Errorf("insert file %s: %w", key, err)
	}

	stmt, err := s.conn.Prepare(`INSERT INTO lines (path, line, hits, conditions, covered_conditions) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare line insert: %w", err)
	}
	for _, l := range m.Lines {
		stmt.BindText(1, key)
		stmt.BindInt64(2, int64(l.Line))
		stmt.BindInt64(3, int64(l.Hits))
		stmt.BindInt64(4, int64(l.Conditions))
		stmt.BindInt64(5, int64(l.CoveredConditions))
		_, err := stmt.Step()
		_ = stmt.Reset()
		if err != nil {
			return fmt.Errorf("insert line %s:%d: %w", key, l.Line, err)
		}
	}
	return nil
}

// Coverage 读取全部文件的覆盖率
func (s *Store) Coverage() (def.CoverageFmt, error) {
	coverage := make(def.CoverageFmt)
	err := sqlitex.Execute(s.conn,
		`SELECT path, COALESCE(abs_path, ''), lines_to_cover, uncovered_lines, conditions_to_cover, uncovered_conditions FROM files`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				m := &def.FileMeasures{
					Path:                stmt.ColumnText(0),
					AbsPath:             stmt.ColumnText(1),
					LinesToCover:        stmt.ColumnInt(2),
					UncoveredLines:      stmt.ColumnInt(3),
					ConditionsToCover:   stmt.ColumnInt(4),
					UncoveredConditions: stmt.ColumnInt(5),
				}
				coverage[m.Path] = m
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("select files: %w", err)
	}
	err = sqlitex.Execute(s.conn,
		`SELECT path, line, hits, conditions, covered_conditions FROM lines ORDER BY path, line`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				m, ok := coverage[stmt.ColumnText(0)]
				if !ok {
					return nil
				}
				m.Lines = append(m.Lines, def.LineHit{
					Line:              stmt.ColumnInt(1),
					Hits:              stmt.ColumnInt(2),
					Conditions:        stmt.ColumnInt(3),
					CoveredConditions: stmt.ColumnInt(4),
				})
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("select lines: %w", err)
	}
	return coverage, nil
}

// RecordRun 记录一次导入的统计
func (s *Store) RecordRun(report string, total, unmatched int) error {
	return sqlitex.Execute(s.conn,
		`INSERT INTO runs (report, total, unmatched, created_at) VALUES (?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{report, total, unmatched, time.Now().UTC().Format(time.RFC3339)},
		})
}

// Runs 按导入顺序返回
func (s *Store) Runs() ([]Run, error) {
	var runs []Run
	err := sqlitex.Execute(s.conn,
		`SELECT id, report, total, unmatched, created_at FROM runs ORDER BY id`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				created, err := time.Parse(time.RFC3339, stmt.ColumnText(4))
				if err != nil {
					return err
				}
				runs = append(runs, Run{
					ID:        stmt.ColumnInt64(0),
					Report:    stmt.ColumnText(1),
					Total:     stmt.ColumnInt(2),
					Unmatched: stmt.ColumnInt(3),
					CreatedAt: created,
				})
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	return runs, nil
}
