package main

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xipscan/pkg/lifecycle/xrun"
	"github.com/omeyang/xipscan/pkg/observability/xlog"
	"github.com/omeyang/xipscan/pkg/scan/xextract"
	"github.com/omeyang/xipscan/pkg/util/xfile"
	"github.com/omeyang/xipscan/pkg/util/xnet"
)

// stdinName 表示标准输入的参数与结果名。
const stdinName = "-"

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "配置文件路径（.yaml/.yml/.json）",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "输出格式: text 或 json",
			Value:   formatText,
		},
		&cli.BoolFlag{
			Name:  "offsets",
			Usage: "输出每个地址的码点偏移与长度",
		},
		&cli.BoolFlag{
			Name:  "unique",
			Usage: "同一输入内重复的地址只输出一次",
		},
		&cli.StringSliceFlag{
			Name:    "range",
			Aliases: []string{"r"},
			Usage:   "只输出落在该范围内的地址，可重复（CIDR、a-b 或单个地址）",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "并发处理的文件数",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "日志级别 (debug/info/warn/error)",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "日志格式: text 或 json",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "日志文件路径，按大小轮转；默认写标准错误",
		},
	}
}

// 创建所有子命令。
func createCommands() []*cli.Command {
	return []*cli.Command{
		createScanCommand("v4", "提取 IPv4 地址", xnet.V4),
		createScanCommand("v6", "提取 IPv6 地址", xnet.V6),
		createScanCommand("all", "提取 IPv4 与 IPv6 地址", xnet.V4, xnet.V6),
		createWatchCommand(),
		createVersionCommand(),
	}
}

// createScanCommand 的参数原样交给 scanInputs 处理：框架解析 flag 时
// 遇到单独的 "-" 会丢弃其后的参数。
func createScanCommand(name, usage string, families ...xnet.Version) *cli.Command {
	return &cli.Command{
		Name:            name,
		Usage:           usage,
		ArgsUsage:       "[--] [files...]",
		OnUsageError:    onUsageError,
		SkipFlagParsing: true,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			inputs, help, err := scanInputs(cmd.Args().Slice())
			if err != nil {
				return err
			}
			if help {
				return cli.ShowCommandHelp(ctx, cmd.Root(), cmd.Name)
			}
			return cmdScan(ctx, cmd, families, inputs)
		},
	}
}

// scanInputs 校验扫描子命令的位置参数。选项必须写在子命令之前，
// "--" 之后的参数一律视为文件名。
func scanInputs(args []string) (inputs []string, help bool, err error) {
	for i, arg := range args {
		switch {
		case arg == "--":
			return append(inputs, args[i+1:]...), false, nil
		case arg == "-h" || arg == "--help":
			return nil, true, nil
		case len(arg) > 1 && arg[0] == '-':
			return nil, false, &usageError{msg: fmt.Sprintf("flag %q must precede the command (or use -- before file names)", arg)}
		}
		inputs = append(inputs, arg)
	}
	return inputs, false, nil
}

func createWatchCommand() *cli.Command {
	return &cli.Command{
		Name:         "watch",
		Aliases:      []string{"w"},
		Usage:        "监听文件变化并重新提取，直到收到 SIGINT/SIGTERM",
		ArgsUsage:    "<files...>",
		OnUsageError: onUsageError,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "family",
				Usage: "地址族: v4、v6 或 all，默认取配置 scan.family",
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "同一文件连续变化的合并窗口",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdWatch(ctx, cmd, cmd.Args().Slice())
		},
	}
}

func createVersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "显示版本信息",
		Action: func(_ context.Context, cmd *cli.Command) error {
			_, err := fmt.Fprintf(cmd.Root().Writer, "xipscan %s\n", versionString())
			return err
		},
	}
}

// session 一次命令执行所需的日志器与 Extractor。
type session struct {
	settings Settings
	logger   xlog.LoggerWithLevel
	ex       *xextract.Extractor
	cleanup  func() error
}

func newSession(cmd *cli.Command, families []xnet.Version) (*session, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	logger, cleanup, err := newLogger(cmd, s.Log)
	if err != nil {
		return nil, err
	}
	ex, err := newExtractor(s.Scan, logger, families)
	if err != nil {
		return nil, errors.Join(err, cleanup())
	}
	return &session{settings: s, logger: logger, ex: ex, cleanup: cleanup}, nil
}

func (s *session) Close() error {
	err := s.ex.Close()
	xlog.ResetDefault()
	return errors.Join(err, s.cleanup())
}

func newCmdPrinter(cmd *cli.Command, prefix bool) (*printer, error) {
	return newPrinter(cmd.Root().Writer, cmd.String("format"),
		cmd.Bool("offsets"), cmd.Bool("unique"), prefix)
}

// cmdScan 提取 inputs 中的地址。inputs 为空或仅为 "-" 时读取标准输入。
// 部分文件失败时其余文件照常输出，最终以退出码 1 结束。
func cmdScan(ctx context.Context, cmd *cli.Command, families []xnet.Version, inputs []string) (err error) {
	useStdin := len(inputs) == 0 || (len(inputs) == 1 && inputs[0] == stdinName)
	if !useStdin && slices.Contains(inputs, stdinName) {
		return &usageError{msg: `"-" cannot be combined with file arguments`}
	}

	p, err := newCmdPrinter(cmd, len(inputs) > 1)
	if err != nil {
		return err
	}
	sess, err := newSession(cmd, families)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if useStdin {
		res, err := sess.ex.ExtractReader(ctx, stdinName, cmd.Root().Reader)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		return p.Print(res)
	}

	results, extractErr := sess.ex.ExtractFiles(ctx, inputs)
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(cmd.Root().ErrWriter, "xipscan: %v\n", res.Err)
			continue
		}
		if err := p.Print(res); err != nil {
			return err
		}
	}
	if extractErr != nil {
		return &exitError{code: exitFailure}
	}
	return nil
}

// cmdWatch 先输出一次全部文件的结果，之后每次文件变化输出该文件的新结果。
func cmdWatch(ctx context.Context, cmd *cli.Command, paths []string) (err error) {
	if len(paths) == 0 {
		return &usageError{msg: "watch requires at least one file"}
	}
	if slices.Contains(paths, stdinName) {
		return &usageError{msg: "watch cannot read stdin"}
	}

	var families []xnet.Version
	if name := cmd.String("family"); name != "" {
		if families, err = parseFamilies(name); err != nil {
			return err
		}
	}

	p, err := newCmdPrinter(cmd, len(paths) > 1)
	if err != nil {
		return err
	}
	sess, err := newSession(cmd, families)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	debounce := sess.settings.Scan.Debounce
	if cmd.IsSet("debounce") {
		debounce = cmd.Duration("debounce")
	}

	w, err := xextract.NewWatcher(sess.ex, paths, func(res xextract.Result) {
		if perr := p.Print(res); perr != nil {
			sess.logger.Error(ctx, "write output failed", xlog.Err(perr))
		}
	}, xextract.WithDebounce(debounce))
	if err != nil {
		if isPathError(err) {
			return &usageError{msg: err.Error()}
		}
		return err
	}

	err = xrun.Run(ctx, []xrun.Option{
		xrun.WithLogger(sess.logger),
		xrun.WithName("xipscan-watch"),
	}, w.Run)
	if err == nil || errors.Is(err, xrun.ErrSignal) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func isPathError(err error) bool {
	return errors.Is(err, xfile.ErrEmptyPath) ||
		errors.Is(err, xfile.ErrInvalidPath) ||
		errors.Is(err, xfile.ErrPathTraversal) ||
		errors.Is(err, xfile.ErrNullByte)
}
