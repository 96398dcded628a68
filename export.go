package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nyg123/go_clover/export"
	"github.com/nyg123/go_clover/store"
)

var exportCmd = &cobra.Command{
	Use:   "export [flags]",
	Short: "导出已保存的覆盖率",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().String("format", export.JSON, "output format ("+strings.Join(export.Formats, "|")+")")
	exportCmd.Flags().StringP("output", "o", "", "输出文件，默认 stdout")
	exportCmd.Flags().String("db", "", "sqlite 数据库，默认使用配置中的 db_path")
}

func runExport(cmd *cobra.Command, _ []string) error {
	if _, err := setup(cmd); err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = Config.DBPath
	}
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("no coverage database: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = st.Close()
	}()
	coverage, err := st.Coverage()
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer func(f *os.File) {
			_ = f.Close()
		}(f)
		out = f
	}
	return export.Write(out, format, coverage)
}
