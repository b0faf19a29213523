// bombquest 是一个网格炸弹动作游戏的引擎与同步服务器。
//
// Usage:
//
//	bombquest serve      - 启动多人同步服务器
//	bombquest simulate   - 无界面跑一局，打印事件流
//	bombquest levels     - 列出内置关卡
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bombquest",
	Short: "网格炸弹动作游戏引擎与同步服务器",
	Long: `bombquest 提供完整的对局引擎（地图、炸弹、敌人 AI、Boss）
和一个房间制的多人同步服务器。

Examples:
  bombquest serve --addr :7777 --proto tcp
  bombquest serve --proto kcp
  bombquest simulate --level world1-1 --seconds 30
  bombquest levels`,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(levelsCmd)
}
