package attrs

import (
	"image/color"
	"sort"
	"strconv"
	"strings"
)

// 持久化格式分隔符
const (
	ColorSeparator     = ";" // 颜色之间
	ComponentSeparator = "," // 颜色分量之间
	PairSeparator      = "," // 键值对之间
	KeyValueSeparator  = "=" // 键与值之间
)

// ParseString 原样返回
func ParseString(raw string) (string, bool) {
	return raw, true
}

// FormatString 原样返回
func FormatString(value string) string {
	return value
}

// ParseBool 解析 "true"/"false"（大小写不敏感）
func ParseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.EqualFold(raw, "true"):
		return true, true
	case strings.EqualFold(raw, "false"):
		return false, true
	}
	return false, false
}

// FormatBool 序列化为 "true"/"false"
func FormatBool(value bool) string {
	return strconv.FormatBool(value)
}

// ParseInt 解析十进制整数
func ParseInt(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatInt 序列化为十进制
func FormatInt(value int) string {
	return strconv.Itoa(value)
}

// ParseColors 解析颜色序列
//
// 格式："R,G,B[,A];R,G,B[,A];..."，分量为 0~255 的十进制整数，缺省 A=255。
// 空字符串解析为空序列；任意一项非法则整体视为格式错误。
func ParseColors(raw string) ([]color.RGBA, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []color.RGBA{}, true
	}

	parts := strings.Split(raw, ColorSeparator)
	colors := make([]color.RGBA, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c, ok := parseColor(part)
		if !ok {
			return nil, false
		}
		colors = append(colors, c)
	}
	return colors, true
}

func parseColor(raw string) (color.RGBA, bool) {
	fields := strings.Split(raw, ComponentSeparator)
	if len(fields) != 3 && len(fields) != 4 {
		return color.RGBA{}, false
	}

	var components [4]uint8
	components[3] = 255
	for i, field := range fields {
		n, err := strconv.ParseUint(strings.TrimSpace(field), 10, 8)
		if err != nil {
			return color.RGBA{}, false
		}
		components[i] = uint8(n)
	}
	return color.RGBA{R: components[0], G: components[1], B: components[2], A: components[3]}, true
}

// FormatColors 序列化颜色序列，A=255 时省略 A 分量
func FormatColors(colors []color.RGBA) string {
	parts := make([]string, 0, len(colors))
	for _, c := range colors {
		fields := []string{
			strconv.Itoa(int(c.R)),
			strconv.Itoa(int(c.G)),
			strconv.Itoa(int(c.B)),
		}
		if c.A != 255 {
			fields = append(fields, strconv.Itoa(int(c.A)))
		}
		parts = append(parts, strings.Join(fields, ComponentSeparator))
	}
	return strings.Join(parts, ColorSeparator)
}

// ParseDict 解析 "k1=v1,k2=v2" 形式的映射
// 键和值中的 "\"、","、"=" 以 "\" 转义。
// 空字符串解析为空映射；缺少 "=" 或键为空视为格式错误
func ParseDict(raw string) (map[string]string, bool) {
	dict := make(map[string]string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return dict, true
	}

	for _, pair := range splitEscaped(raw, PairSeparator[0]) {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := splitEscaped(pair, KeyValueSeparator[0])
		if len(parts) < 2 {
			return nil, false
		}
		key := unescapeDict(strings.TrimSpace(parts[0]))
		if key == "" {
			return nil, false
		}
		// 只有第一个未转义的 "=" 是分隔符
		value := strings.Join(parts[1:], KeyValueSeparator)
		dict[key] = unescapeDict(strings.TrimSpace(value))
	}
	return dict, true
}

// FormatDict 按键排序序列化映射，分隔符和转义符会被转义
func FormatDict(dict map[string]string) string {
	keys := make([]string, 0, len(dict))
	for k := range dict {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, dictEscaper.Replace(k)+KeyValueSeparator+dictEscaper.Replace(dict[k]))
	}
	return strings.Join(pairs, PairSeparator)
}

const escapeChar = '\\'

var dictEscaper = strings.NewReplacer(
	`\`, `\\`,
	PairSeparator, `\`+PairSeparator,
	KeyValueSeparator, `\`+KeyValueSeparator,
)

// splitEscaped 按未转义的 sep 切分，保留各段中的转义序列
func splitEscaped(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case escapeChar:
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// unescapeDict 去掉转义符，末尾孤立的 "\" 保留
func unescapeDict(s string) string {
	if strings.IndexByte(s, escapeChar) < 0 {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == escapeChar && i+1 < len(s) {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
