package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// 退出码契约。
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run())
}

func versionString() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime)
}

// createApp 创建 CLI 应用。输入输出通过参数注入，便于测试。
func createApp(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xipscan",
		Usage:     "从文本中提取 IPv4/IPv6 地址字面量",
		ArgsUsage: "<command> [files...]",
		Version:   versionString(),
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     globalFlags(),
		Commands:  createCommands(),
		// 未指定子命令时显示帮助。
		DefaultCommand: "help",
		OnUsageError:   onUsageError,
		// 禁止 urfave/cli 直接调用 os.Exit，由 run() 统一映射退出码。
		ExitErrHandler: func(_ context.Context, cmd *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(cmd.Root().ErrWriter, err)
			}
		},
		Description: `xipscan 逐码点扫描文本，输出其中出现的 IP 地址字面量。
畸形字面量内部的合法子串同样会被识别，例如 "999.1.1.1" 输出 "99.1.1.1"。

命令:
  v4 [文件...]        仅提取 IPv4
  v6 [文件...]        仅提取 IPv6
  all [文件...]       同时提取两个地址族，按出现位置排序
  watch <文件...>     监听文件变化并重新提取，直到收到 SIGINT/SIGTERM
  version             显示版本信息

未给出文件或文件为 "-" 时读取标准输入，"-" 不能与文件同时给出。
v4/v6/all 的选项须写在子命令之前，"--" 之后的参数都按文件名处理。

退出码:
  0  成功（没有匹配也视为成功）
  1  运行时错误
  2  参数错误`,
	}
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// watch 另由 xrun 监听同一组信号，两处都会收到。
	stop := setupSignalHandler(cancel)
	defer stop()

	return runApp(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
}

// runApp 执行应用并把错误映射为退出码。
func runApp(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := createApp(stdin, stdout, stderr)
	if err := app.Run(ctx, args); err != nil {
		return exitCode(err, stderr)
	}
	return exitOK
}

func exitCode(err error, stderr io.Writer) int {
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	var usageErr *usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
		return exitUsage
	}
	// 框架产生的参数错误（如未知命令）已由 ExitErrHandler 输出。
	if isCLIUsageError(err) {
		return exitUsage
	}
	fmt.Fprintf(stderr, "错误: %v\n", err)
	return exitFailure
}

// isCLIUsageError 报告 err 是否为 urfave/cli 生成的退出错误。
// 业务错误都不实现 [cli.ExitCoder]，因此框架错误一律按参数错误处理。
func isCLIUsageError(err error) bool {
	var coder cli.ExitCoder
	return errors.As(err, &coder)
}

// setupSignalHandler 第一次信号取消 ctx，第二次信号强制退出。
func setupSignalHandler(cancel context.CancelFunc) (stop func()) {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-done:
			return
		}
		select {
		case <-sigCh:
			signal.Stop(sigCh)
			os.Exit(130)
		case <-done:
		}
	}()
	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}
