package compiler

import "strings"

// Sanitize 将文件名转换为符号安全的标识符：非 [A-Za-z0-9_] 字符逐个替换为 '_'，
// 以数字开头时补一个前导 '_'。
func Sanitize(filename string) string {
	var b strings.Builder
	b.Grow(len(filename) + 1)
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name := b.String()
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}
