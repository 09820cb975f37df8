package asset

// Record 是单个静态文件编译后的形态：gzip 正文 + 元数据。
type Record struct {
	// Name 由文件名清洗得到的符号键，在一个 Table 内唯一。
	Name string
	// Route 是对外可见的路径片段，保持原始文件名不变。
	Route string
	// Payload 为 gzip 压缩后的正文，构建完成后只读。
	Payload []byte
	// MimeType 在编译期确定，请求期不再推断。
	MimeType string
	// Fingerprint 是压缩后字节的十六进制摘要，同时作为 ETag。
	Fingerprint string
	// Primary 标记默认/落地资源，一个 Table 至多一个。
	Primary bool
}

// Length 返回压缩正文的字节数。
func (r Record) Length() int {
	return len(r.Payload)
}
