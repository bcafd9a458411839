package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"go4.org/netipx"

	"github.com/omeyang/xipscan/pkg/config/xconf"
	"github.com/omeyang/xipscan/pkg/observability/xlog"
	"github.com/omeyang/xipscan/pkg/observability/xrotate"
	"github.com/omeyang/xipscan/pkg/scan/xextract"
	"github.com/omeyang/xipscan/pkg/util/xnet"
)

// Settings 配置文件结构。命令行 flag 优先于配置文件。
type Settings struct {
	Scan ScanSettings `koanf:"scan"`
	Log  LogSettings  `koanf:"log"`
}

// ScanSettings 提取相关配置。
type ScanSettings struct {
	Family    string        `koanf:"family"`
	Workers   int           `koanf:"workers"`
	QueueSize int           `koanf:"queue_size"`
	CacheSize int           `koanf:"cache_size"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`
	Ranges    []string      `koanf:"ranges"`
	MaxBytes  int64         `koanf:"max_bytes"`
	Debounce  time.Duration `koanf:"debounce"`
}

// LogSettings 日志配置。File 为空时写标准错误。
type LogSettings struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

func defaultSettings() Settings {
	return Settings{
		Scan: ScanSettings{
			Family:    "all",
			Workers:   xextract.DefaultWorkers,
			QueueSize: xextract.DefaultQueueSize,
			CacheSize: 256,
			CacheTTL:  10 * time.Minute,
			MaxBytes:  xextract.DefaultMaxBytes,
			Debounce:  xextract.DefaultDebounce,
		},
		Log: LogSettings{
			Level:      "warn",
			Format:     "text",
			MaxSizeMB:  xrotate.DefaultMaxSizeMB,
			MaxBackups: xrotate.DefaultMaxBackups,
			MaxAgeDays: xrotate.DefaultMaxAgeDays,
		},
	}
}

// loadSettings 依次应用默认值、配置文件与命令行 flag。
// 配置文件中的未知字段视为参数错误。
func loadSettings(cmd *cli.Command) (Settings, error) {
	s := defaultSettings()

	if path := cmd.String("config"); path != "" {
		cfg, err := xconf.Load(path, xconf.WithStrict(true))
		if err != nil {
			if errors.Is(err, xconf.ErrLoadFailed) {
				return s, err
			}
			return s, &usageError{msg: err.Error()}
		}
		if err := cfg.Unmarshal("", &s); err != nil {
			return s, &usageError{msg: err.Error()}
		}
	}

	if cmd.IsSet("workers") {
		s.Scan.Workers = cmd.Int("workers")
	}
	if cmd.IsSet("range") {
		s.Scan.Ranges = cmd.StringSlice("range")
	}
	if cmd.IsSet("log-level") {
		s.Log.Level = cmd.String("log-level")
	}
	if cmd.IsSet("log-format") {
		s.Log.Format = cmd.String("log-format")
	}
	if cmd.IsSet("log-file") {
		s.Log.File = cmd.String("log-file")
	}
	return s, nil
}

// parseFamilies 把 scan.family 解析为地址族列表，"all" 表示两者。
func parseFamilies(s string) ([]xnet.Version, error) {
	if s == "all" || s == "" {
		return []xnet.Version{xnet.V4, xnet.V6}, nil
	}
	v, err := xnet.ParseVersion(s)
	if err != nil {
		return nil, &usageError{msg: fmt.Sprintf("scan.family: %v", err)}
	}
	return []xnet.Version{v}, nil
}

// newLogger 按配置构建日志器并设为全局默认。返回的 cleanup 负责关闭日志文件。
func newLogger(cmd *cli.Command, s LogSettings) (xlog.LoggerWithLevel, func() error, error) {
	b := xlog.New().
		SetOutput(cmd.Root().ErrWriter).
		SetLevelString(s.Level).
		SetFormat(s.Format)
	if s.File != "" {
		b.SetRotation(s.File,
			xrotate.WithMaxSize(s.MaxSizeMB),
			xrotate.WithMaxBackups(s.MaxBackups),
			xrotate.WithMaxAge(s.MaxAgeDays),
			xrotate.WithCompress(s.Compress),
		)
	}
	logger, cleanup, err := b.Build()
	if err != nil {
		return nil, nil, &usageError{msg: err.Error()}
	}
	xlog.SetDefault(logger)
	return logger, cleanup, nil
}

// newExtractor 按配置构建 Extractor。families 为空时使用 scan.family。
func newExtractor(s ScanSettings, logger xlog.Logger, families []xnet.Version) (*xextract.Extractor, error) {
	if len(families) == 0 {
		var err error
		if families, err = parseFamilies(s.Family); err != nil {
			return nil, err
		}
	}

	var ranges *netipx.IPSet
	if len(s.Ranges) > 0 {
		set, err := xnet.ParseRanges(s.Ranges)
		if err != nil {
			return nil, &usageError{msg: err.Error()}
		}
		ranges = set
	}

	ex, err := xextract.New(
		xextract.WithFamilies(families...),
		xextract.WithWorkers(s.Workers),
		xextract.WithQueueSize(s.QueueSize),
		xextract.WithCache(s.CacheSize, s.CacheTTL),
		xextract.WithRanges(ranges),
		xextract.WithMaxBytes(s.MaxBytes),
		xextract.WithLogger(logger),
	)
	if err != nil {
		return nil, &usageError{msg: err.Error()}
	}
	return ex, nil
}
