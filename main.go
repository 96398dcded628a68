package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nyg123/go_clover/def"
	"github.com/nyg123/go_clover/logger"
)

var rootCmd = &cobra.Command{
	Use:          "go_clover",
	Short:        "Clover XML 覆盖率导入",
	Long:         `解析 Clover XML 覆盖率报告，匹配项目源文件，按行保存覆盖率`,
	SilenceUsage: true,
}

var Config = def.Config{}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)

	rootCmd.PersistentFlags().StringP("config", "c", "unitConf.json", "配置文件")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "只输出警告和错误")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup 读取配置，创建日志
func setup(cmd *cobra.Command) (*logger.Console, error) {
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}
	Config, err = def.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	log := logger.New(cmd.ErrOrStderr(), colorFlag)
	log.SetQuiet(quiet)
	return log, nil
}
