// Package source enumerates and reads asset source files through viant/afs,
// so build inputs can live on the local disk (plain paths, file://) or in
// memory (mem://) for tests.
package source

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/option"
)

// File 描述一个待编译的源文件：原始文件名 + 可读取的 URL。
type File struct {
	Name string
	URL  string
	Size int64
}

// Reader 读取单个源文件的全部字节。
type Reader interface {
	Read(ctx context.Context, URL string) ([]byte, error)
}

// Lister 列出目录下的直接子文件（不递归）。
type Lister interface {
	List(ctx context.Context, dirURL string) ([]File, error)
}

// Service 基于 afs.Service 同时实现 Reader 与 Lister。
type Service struct {
	fs afs.Service
}

// New 构造 Service；fs 为空时使用 afs.New()。
func New(fs afs.Service) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{fs: fs}
}

// List 返回 dirURL 下按文件名排序的普通文件，忽略子目录与隐藏文件。
func (s *Service) List(ctx context.Context, dirURL string) ([]File, error) {
	if strings.TrimSpace(dirURL) == "" {
		return nil, fmt.Errorf("source dir required")
	}

	exists, err := s.fs.Exists(ctx, dirURL)
	if err != nil {
		return nil, fmt.Errorf("check source dir %s: %w", dirURL, err)
	}
	if !exists {
		return nil, fmt.Errorf("source dir %s does not exist", dirURL)
	}

	objects, err := s.fs.List(ctx, dirURL, option.NewRecursive(false))
	if err != nil {
		return nil, fmt.Errorf("list source dir %s: %w", dirURL, err)
	}

	files := make([]File, 0, len(objects))
	for _, object := range objects {
		if object.IsDir() {
			continue
		}
		name := object.Name()
		if name == "" || strings.HasPrefix(name, ".") {
			continue
		}
		files = append(files, File{
			Name: name,
			URL:  object.URL(),
			Size: object.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// Read 下载 URL 对应的全部内容。
func (s *Service) Read(ctx context.Context, URL string) ([]byte, error) {
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path.Base(URL), err)
	}
	return data, nil
}
