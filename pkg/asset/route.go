package asset

// ValidRoute 报告 route 能否作为字面路径段挂载到任意宿主路由器：
// 仅允许 [A-Za-z0-9._-]，且不能是 "." 或 ".."。
// 路由器语法字符（{ } : + * ?）与空格均被拒绝。
func ValidRoute(route string) bool {
	if route == "" || route == "." || route == ".." {
		return false
	}
	for i := 0; i < len(route); i++ {
		c := route[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.', c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}
