package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/omeyang/xipscan/pkg/scan/xextract"
	"github.com/omeyang/xipscan/pkg/util/xnet"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// printer 把提取结果写到标准输出。
type printer struct {
	w       *bufio.Writer
	format  string
	offsets bool
	unique  bool
	// prefix 为 true 时文本输出每行前加 "name:"。
	prefix bool
}

func newPrinter(w io.Writer, format string, offsets, unique, prefix bool) (*printer, error) {
	switch format {
	case formatText, formatJSON:
	default:
		return nil, &usageError{msg: fmt.Sprintf("unknown output format %q (want text or json)", format)}
	}
	return &printer{
		w:       bufio.NewWriter(w),
		format:  format,
		offsets: offsets,
		unique:  unique,
		prefix:  prefix,
	}, nil
}

type jsonResult struct {
	Source  string       `json:"source"`
	Matches []xnet.Match `json:"matches"`
}

// Print 写出一个结果并立即刷新。res.Err 非空的结果不输出。
func (p *printer) Print(res xextract.Result) error {
	if res.Err != nil {
		return nil
	}
	matches := res.Matches
	if p.unique {
		matches = dedupe(matches)
	}

	if p.format == formatJSON {
		if err := json.NewEncoder(p.w).Encode(jsonResult{Source: res.Source, Matches: matches}); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return p.flush()
	}

	for _, m := range matches {
		if p.prefix {
			fmt.Fprintf(p.w, "%s:", res.Source)
		}
		if p.offsets {
			fmt.Fprintf(p.w, "%d:%d:", m.Offset, m.Length)
		}
		fmt.Fprintln(p.w, m.Text)
	}
	return p.flush()
}

func (p *printer) flush() error {
	if err := p.w.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// dedupe 按首次出现保留每个字面量。
func dedupe(matches []xnet.Match) []xnet.Match {
	seen := make(map[string]struct{}, len(matches))
	out := make([]xnet.Match, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m.Text]; ok {
			continue
		}
		seen[m.Text] = struct{}{}
		out = append(out, m)
	}
	return out
}
