package xnet

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// IPv4 扫描测试
// =============================================================================

func TestFindAllIPv4Addresses(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: []string{}},
		{name: "no literal", input: "no addresses here", want: []string{}},
		{name: "private", input: "192.168.1.1", want: []string{"192.168.1.1"}},
		{name: "all zeros", input: "0.0.0.0", want: []string{"0.0.0.0"}},
		{name: "broadcast", input: "255.255.255.255", want: []string{"255.255.255.255"}},
		{name: "embedded", input: "gw=10.0.0.1, dns=8.8.8.8;", want: []string{"10.0.0.1", "8.8.8.8"}},
		{name: "duplicates", input: "1.1.1.1 1.1.1.1", want: []string{"1.1.1.1", "1.1.1.1"}},
		{name: "too few components", input: "1.2.3", want: []string{}},
		{name: "trailing dot", input: "1.2.3.", want: []string{}},
		{name: "empty component", input: "1..2.3.4", want: []string{}},
		{name: "fifth component ignored", input: "1.2.3.4.5", want: []string{"1.2.3.4"}},
		{name: "recovery inside out of range", input: "999.1.1.1", want: []string{"99.1.1.1"}},
		{name: "recovery after 256", input: "256.1.1.1", want: []string{"56.1.1.1"}},
		{name: "recovery after long run", input: "1234.1.1.1", want: []string{"234.1.1.1"}},
		{name: "leading zero", input: "192.168.01.1", want: []string{}},
		{name: "long last component", input: "1.2.3.4567", want: []string{}},
		{name: "leading zero last", input: "1.2.3.04", want: []string{}},
		{name: "ipv6 text", input: "fe80::1", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindAllIPv4Addresses(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindAllIPv4Addresses_RejectsNonCanonicalSpan(t *testing.T) {
	for _, input := range []string{"192.168.01.1", "192.168.001.1", "256.1.1.1", "01.1.1.1"} {
		t.Run(input, func(t *testing.T) {
			assert.NotContains(t, FindAllIPv4Addresses(input), input)
		})
	}
}

func TestScanIPv4_Offsets(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantText   string
		wantOffset int
		wantByte   int
	}{
		{name: "ascii", input: "ip 1.2.3.4", wantText: "1.2.3.4", wantOffset: 3, wantByte: 3},
		{name: "cjk prefix", input: "地址：192.168.0.1。", wantText: "192.168.0.1", wantOffset: 3, wantByte: 9},
		{name: "astral prefix", input: "😀1.1.1.1", wantText: "1.1.1.1", wantOffset: 1, wantByte: 4},
		{name: "invalid utf8 prefix", input: "\xff\xfe1.1.1.1", wantText: "1.1.1.1", wantOffset: 2, wantByte: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScanIPv4(tt.input)
			require.Len(t, got, 1)
			m := got[0]
			assert.Equal(t, tt.wantText, m.Text)
			assert.Equal(t, V4, m.Version)
			assert.Equal(t, tt.wantOffset, m.Offset)
			assert.Equal(t, len(tt.wantText), m.Length)
			assert.Equal(t, tt.wantByte, m.ByteOffset)
			assert.Equal(t, tt.wantText, tt.input[m.ByteOffset:m.ByteOffset+m.Length])
			assert.Equal(t, m.Offset+m.Length, m.End())
		})
	}
}

// =============================================================================
// IPv6 扫描测试
// =============================================================================

func TestFindAllIPv6Addresses(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: []string{}},
		{name: "all zeros", input: "::", want: []string{"::"}},
		{name: "loopback", input: "::1", want: []string{"::1"}},
		{name: "trailing compression", input: "1::", want: []string{"1::"}},
		{name: "middle compression", input: "1::2", want: []string{"1::2"}},
		{name: "compression after zeros", input: "0:0::0", want: []string{"0:0::0"}},
		{name: "leading compression", input: "::1:2", want: []string{"::1:2"}},
		{name: "full", input: "1:2:3:4:5:6:7:8", want: []string{"1:2:3:4:5:6:7:8"}},
		{name: "case preserved", input: "2001:DB8::ff00:42:8329", want: []string{"2001:DB8::ff00:42:8329"}},
		{name: "leading zeros legal", input: "0001:00::0db8", want: []string{"0001:00::0db8"}},
		{name: "ninth component ignored", input: "1:2:3:4:5:6:7:8:9", want: []string{"1:2:3:4:5:6:7:8"}},
		{name: "zone id not included", input: "fe80::1%eth0", want: []string{"fe80::1"}},
		{name: "brackets and port", input: "[::1]:80", want: []string{"::1"}},
		{name: "url", input: "LOCATION: http://[fe80::1]:5000/desc.xml", want: []string{"fe80::1"}},
		{name: "single component", input: "abcd", want: []string{}},
		{name: "single trailing colon", input: "abcd:", want: []string{}},
		{name: "wrapped colons", input: ":abcd:", want: []string{}},
		{name: "two components", input: "abcd:abcd:", want: []string{}},
		{name: "plain words", input: "hello world", want: []string{}},
		{name: "ipv4 text", input: "192.168.1.1", want: []string{}},
		{name: "duplicates", input: "::1 ::1", want: []string{"::1", "::1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindAllIPv6Addresses(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindAllIPv6Addresses_DoubleCompression(t *testing.T) {
	got := FindAllIPv6Addresses("0::0::0")
	assert.NotContains(t, got, "0::0::0")
	// 起点 0/1/2 均因压缩模式无效而失败，单码点恢复在起点 3 匹配到 "0::0"。
	assert.Equal(t, []string{"0::0"}, got)

	// 非零段同理：匹配到的是后一半。
	assert.Equal(t, []string{"2::3"}, FindAllIPv6Addresses("1::2::3"))
	assert.False(t, IsLiteral("1::2::3", V6))
}

func TestFindAllIPv6Addresses_ComponentTooLong(t *testing.T) {
	got := FindAllIPv6Addresses("12345::")
	assert.NotContains(t, got, "12345::")
	assert.Equal(t, []string{"2345::"}, got)
}

func TestScanIPv6_Offsets(t *testing.T) {
	got := ScanIPv6("主机 fe80::1 与 ::1")
	require.Len(t, got, 2)

	assert.Equal(t, Match{Text: "fe80::1", Version: V6, Offset: 3, Length: 7, ByteOffset: 7}, got[0])
	assert.Equal(t, "::1", got[1].Text)
	assert.Equal(t, 13, got[1].Offset)
}

// =============================================================================
// 入口函数与错误测试
// =============================================================================

func TestScan_InvalidVersion(t *testing.T) {
	_, err := Scan("1.2.3.4", V0)
	assert.ErrorIs(t, err, ErrInvalidVersion)

	_, err = FindAll("1.2.3.4", Version(5))
	assert.ErrorIs(t, err, ErrInvalidVersion)

	_, err = ScanBytes([]byte("1.2.3.4"), V0)
	assert.ErrorIs(t, err, ErrInvalidVersion)

	_, err = ScanReader(strings.NewReader("1.2.3.4"), V0)
	assert.ErrorIs(t, err, ErrInvalidVersion)
}

func TestFindAll(t *testing.T) {
	const text = "a=10.0.0.1 b=fe80::1"

	v4, err := FindAll(text, V4)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1"}, v4)

	v6, err := FindAll(text, V6)
	require.NoError(t, err)
	assert.Equal(t, []string{"fe80::1"}, v6)
}

func TestScanBytes(t *testing.T) {
	t.Run("nil is absent input", func(t *testing.T) {
		got, err := ScanBytes(nil, V4)
		assert.ErrorIs(t, err, ErrNilInput)
		assert.Nil(t, got)
	})

	t.Run("empty is not an error", func(t *testing.T) {
		got, err := ScanBytes([]byte{}, V6)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("content", func(t *testing.T) {
		got, err := ScanBytes([]byte("x 127.0.0.1 y"), V4)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "127.0.0.1", got[0].Text)
		assert.Equal(t, 2, got[0].Offset)
	})
}

func TestScanReader(t *testing.T) {
	t.Run("nil reader", func(t *testing.T) {
		_, err := ScanReader(nil, V4)
		assert.ErrorIs(t, err, ErrNilInput)
	})

	t.Run("read error is wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := ScanReader(iotest.ErrReader(boom), V6)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("content", func(t *testing.T) {
		got, err := ScanReader(iotest.OneByteReader(strings.NewReader("::1 and 1::")), V6)
		require.NoError(t, err)
		assert.Equal(t, []string{"::1", "1::"}, texts(got))
	})
}

func TestIsLiteral(t *testing.T) {
	assert.True(t, IsLiteral("10.0.0.1", V4))
	assert.True(t, IsLiteral("::", V6))
	assert.True(t, IsLiteral("1:2:3:4:5:6:7:8", V6))

	assert.False(t, IsLiteral("10.0.0.1 ", V4))
	assert.False(t, IsLiteral("10.0.0.01", V4))
	assert.False(t, IsLiteral("999.1.1.1", V4))
	assert.False(t, IsLiteral("1:2:3:4:5:6:7:8:", V6))
	assert.False(t, IsLiteral("0::0::0", V6))
	assert.False(t, IsLiteral("10.0.0.1", V0))
}

// =============================================================================
// 性质测试：幂等、不重叠、原位复核
// =============================================================================

var propertyCorpus = []string{
	"",
	"999.1.1.1",
	"256.256.256.256 1.2.3.4.5.6.7.8",
	"0::0::0 12345:: ::ffff:1.2.3.4",
	"std::vector<int> a::b::c 1:2:3:4:5:6:7::",
	"GET / HTTP/1.1\r\nHost: 192.168.0.1:8080\r\nX-Forwarded-For: 2001:db8::1, 10.0.0.1\r\n",
	"地址：10.1.1.1，网关 fe80::1%eth0，😀::😀",
	"1.1.1.1.1.1.1.1 :::::::: 0.0.0.0.0",
}

func TestScan_Properties(t *testing.T) {
	for _, text := range propertyCorpus {
		for _, v := range []Version{V4, V6} {
			assertScanInvariants(t, text, v)
		}
	}
}

// assertScanInvariants 校验一次扫描结果的通用性质。
func assertScanInvariants(t *testing.T, text string, v Version) {
	t.Helper()

	m, err := matcherFor(v)
	require.NoError(t, err)

	matches, err := Scan(text, v)
	require.NoError(t, err)

	runes := []rune(text)
	prevEnd := 0
	for i, got := range matches {
		// 不重叠，且按出现顺序排列
		assert.GreaterOrEqual(t, got.Offset, prevEnd, "match %d overlaps previous in %q", i, text)
		prevEnd = got.End()

		// 在原文中的起点复核，长度一致
		lit, n, ok := m(runes, got.Offset)
		assert.True(t, ok, "match %q does not re-validate at offset %d", got.Text, got.Offset)
		assert.Equal(t, got.Text, lit)
		assert.Equal(t, got.Length, n)
		assert.Equal(t, got.Text, string(runes[got.Offset:got.End()]))

		// 单独扫描匹配文本得到自身
		again, err := FindAll(got.Text, v)
		require.NoError(t, err)
		assert.Equal(t, []string{got.Text}, again, "rescanning %q", got.Text)
		assert.True(t, IsLiteral(got.Text, v))
	}
}
