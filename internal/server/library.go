package server

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/gzasset/gzasset/pkg/asset"
)

// Library 持有当前生效的资源表，watch 模式重建后通过 Swap 原子替换，
// 正在处理的请求继续使用旧表，不会读到半成品。
type Library struct {
	prefix string
	table  atomic.Pointer[asset.Table]
}

// NewLibrary 以静态前缀和初始表构建 Library。调用方应在启动阶段创建一次并复用。
func NewLibrary(prefix string, table *asset.Table) (*Library, error) {
	if table == nil {
		return nil, errors.New("asset table is nil")
	}
	lib := &Library{prefix: strings.Trim(prefix, "/")}
	lib.table.Store(table)
	return lib, nil
}

// Prefix 返回去掉首尾斜杠的静态前缀。
func (l *Library) Prefix() string {
	return l.prefix
}

// Current 返回当前资源表。
func (l *Library) Current() *asset.Table {
	return l.table.Load()
}

// Swap 替换资源表并返回旧表；nil 被忽略。
func (l *Library) Swap(table *asset.Table) *asset.Table {
	if table == nil {
		return l.Current()
	}
	return l.table.Swap(table)
}

// Lookup 按原始文件名查找记录，同时返回该表的 Epoch。
func (l *Library) Lookup(route string) (asset.Record, asset.Epoch, bool) {
	table := l.Current()
	rec, ok := table.LookupRoute(route)
	return rec, table.Epoch(), ok
}

// Primary 返回落地资源及其 Epoch。
func (l *Library) Primary() (asset.Record, asset.Epoch, bool) {
	table := l.Current()
	rec, ok := table.Primary()
	return rec, table.Epoch(), ok
}
