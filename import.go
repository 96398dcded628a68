package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nyg123/go_clover/coverage/clover"
	"github.com/nyg123/go_clover/def"
	"github.com/nyg123/go_clover/store"
)

var importCmd = &cobra.Command{
	Use:   "import [flags] [clover.xml ...]",
	Short: "解析 Clover 报告并保存覆盖率",
	Long:  `不传报告时使用配置中的 coverage_path`,
	RunE:  runImport,
}

func init() {
	importCmd.Flags().String("db", "", "sqlite 数据库，默认使用配置中的 db_path")
}

func runImport(cmd *cobra.Command, args []string) error {
	log, err := setup(cmd)
	if err != nil {
		return err
	}
	results, err := clover.GetCoverage(Config, args, clover.WithLogger(log))
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return nil
	}

	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = Config.DBPath
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = st.Close()
	}()
	merged := make(def.CoverageFmt)
	for _, r := range results {
		if err := st.SaveAll(r.Coverage); err != nil {
			return fmt.Errorf("%s: %w", r.Report, err)
		}
		if err := st.RecordRun(r.Report, r.Stats.Total, r.Stats.Unmatched); err != nil {
			return err
		}
		for k, v := range r.Coverage {
			merged[k] = v
		}
	}
	log.Infof("%d files saved to %s", len(merged), dbPath)

	if !Config.ShowDetail {
		return nil
	}
	name := time.Now().Format("0102150405") + "_uncovered.log"
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	if err := writeDetail(f, merged); err != nil {
		return err
	}
	log.Infof("uncovered lines written to %s", name)
	return nil
}

// writeDetail 每个未覆盖行一行 file:line
func writeDetail(w io.Writer, coverage def.CoverageFmt) error {
	for _, key := range coverage.Keys() {
		for _, line := range coverage[key].UncoveredLineNumbers() {
			if _, err := fmt.Fprintf(w, "%s:%d \n", key, line); err != nil {
				return err
			}
		}
	}
	return nil
}
