package main

import (
	"fmt"
	"os"

	"github.com/gonewx/expandedstorage/pkg/embedded"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	catalogPath string
	verbose     bool
	memoryOnly  bool
)

func main() {
	// 初始化嵌入数据（必须在任何数据加载之前）
	embedded.Init(dataFS)

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "expandedstorage",
		Short:         "Expanded Storage - 存储物品行为配置工具",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "模组配置文件路径，覆盖内置 data/config.yaml（EXPANDEDSTORAGE_* 环境变量优先级最高）")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "物品目录 YAML 文件（默认使用内置示例目录）")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")
	rootCmd.PersistentFlags().BoolVar(&memoryOnly, "memory", false, "不读写持久化的用户覆盖配置")

	rootCmd.AddCommand(
		newInspectCmd(),
		newSimulateCmd(),
		newSeedCmd(),
		newResetCmd(),
		newValidateCmd(),
	)
	return rootCmd
}
