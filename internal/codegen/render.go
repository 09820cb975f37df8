package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"go/token"
	"strconv"
	"strings"
	"text/template"

	"github.com/gzasset/gzasset/pkg/asset"
	"github.com/gzasset/gzasset/pkg/webasset"
)

const (
	// DefaultTool 出现在生成文件的首行标记中。
	DefaultTool = "gzasset"

	assetImport    = "github.com/gzasset/gzasset/pkg/asset"
	webassetImport = "github.com/gzasset/gzasset/pkg/webasset"

	// bytesPerLine 控制字节字面量每行的长度。
	bytesPerLine = 32
)

// ErrRender 表示生成代码失败，此时不应写出任何产物。
var ErrRender = errors.New("render generated source")

// Options 控制生成文件的包名、路由前缀与工具标记。
type Options struct {
	Package string
	Prefix  string
	Tool    string
}

type fileData struct {
	Tool           string
	Package        string
	Prefix         string
	Mount          string
	Epoch          string
	AssetImport    string
	WebassetImport string
	Assets         []assetData
}

type assetData struct {
	Name        string
	Route       string
	Len         int
	MimeType    string
	Fingerprint string
	Primary     bool
	Data        []string
}

var sourceTemplate = template.Must(template.New("assets").Parse(`// Code generated by {{.Tool}}; DO NOT EDIT.

package {{.Package}}

import (
	"{{.AssetImport}}"
	"{{.WebassetImport}}"
)

// lastModified 是本次构建所有资源共享的 Last-Modified。
const lastModified = {{printf "%q" .Epoch}}

const staticPrefix = {{printf "%q" .Prefix}}
{{range .Assets}}
// {{.Route}}
const (
	{{.Name}}_len      = {{.Len}}
	{{.Name}}_mimetype = {{printf "%q" .MimeType}}
	{{.Name}}_etag     = {{printf "%q" .Fingerprint}}
)

var {{.Name}}_data = []byte({{range $i, $line := .Data}}{{if $i}} +
	{{end}}"{{$line}}"{{end}})
{{end}}
var table = asset.MustNewTable(asset.Epoch(lastModified), []asset.Record{
{{- range .Assets}}
	{Name: {{printf "%q" .Name}}, Route: {{printf "%q" .Route}}, Payload: {{.Name}}_data, MimeType: {{.Name}}_mimetype, Fingerprint: {{.Name}}_etag{{if .Primary}}, Primary: true{{end}}},
{{- end}}
})

// Table 返回编译期生成的资源表。
func Table() *asset.Table {
	return table
}

// RegisterStaticFiles 将全部资源挂载到 host 的 {{.Mount}} 下，返回 primary 资源的处理器（没有时为 nil）。
func RegisterStaticFiles(host webasset.Host) webasset.Handler {
	return webasset.Register(host, staticPrefix, table)
}
`))

// Render 生成 gofmt 格式化后的 Go 源码。
func Render(table *asset.Table, opts Options) ([]byte, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: nil table", ErrRender)
	}
	if !token.IsIdentifier(opts.Package) || token.IsKeyword(opts.Package) {
		return nil, fmt.Errorf("%w: invalid package name %q", ErrRender, opts.Package)
	}
	tool := strings.TrimSpace(opts.Tool)
	if tool == "" {
		tool = DefaultTool
	}

	data := fileData{
		Tool:           tool,
		Package:        opts.Package,
		Prefix:         strings.Trim(opts.Prefix, "/"),
		Mount:          webasset.Route(opts.Prefix, ""),
		Epoch:          table.Epoch().String(),
		AssetImport:    assetImport,
		WebassetImport: webassetImport,
	}
	for _, rec := range table.Records() {
		if !token.IsIdentifier(rec.Name + "_data") {
			return nil, fmt.Errorf("%w: %q is not a valid identifier", ErrRender, rec.Name)
		}
		data.Assets = append(data.Assets, assetData{
			Name:        rec.Name,
			Route:       rec.Route,
			Len:         rec.Length(),
			MimeType:    rec.MimeType,
			Fingerprint: rec.Fingerprint,
			Primary:     rec.Primary,
			Data:        escapeLines(rec.Payload),
		})
	}

	var buf bytes.Buffer
	if err := sourceTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return src, nil
}

// escapeLines 将字节切分为多行 \xNN 转义字符串（不含引号）。
func escapeLines(payload []byte) []string {
	if len(payload) == 0 {
		return []string{""}
	}
	lines := make([]string, 0, len(payload)/bytesPerLine+1)
	var sb strings.Builder
	for start := 0; start < len(payload); start += bytesPerLine {
		end := min(start+bytesPerLine, len(payload))
		sb.Reset()
		sb.Grow((end - start) * 4)
		for _, b := range payload[start:end] {
			sb.WriteString(`\x`)
			if b < 0x10 {
				sb.WriteByte('0')
			}
			sb.WriteString(strconv.FormatUint(uint64(b), 16))
		}
		lines = append(lines, sb.String())
	}
	return lines
}
