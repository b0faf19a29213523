package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bombquest/internal/server"
)

var (
	flagAddr  string
	flagProto string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动多人同步服务器",
	Long: `启动房间制的多人同步服务器。

协议选择：
  tcp - 普通 TCP（默认），4 字节长度前缀分帧
  kcp - 基于 UDP 的低延迟传输
  ws  - websocket（浏览器客户端），路径 /ws

Examples:
  bombquest serve
  bombquest serve --addr :7777 --proto kcp
  bombquest serve --proto ws`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", ":7777", "监听地址 (host:port)")
	serveCmd.Flags().StringVar(&flagProto, "proto", "tcp", "传输协议 (tcp|kcp|ws)")
}

func runServe(_ *cobra.Command, _ []string) {
	srv := server.NewGameServer(flagAddr, flagProto)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("收到信号 %v，开始关闭", sig)
		srv.Shutdown()
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("服务器启动失败: %v", err)
	}
}
