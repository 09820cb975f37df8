package asset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyEpoch 表示 Table 缺少构建时间戳。
	ErrEmptyEpoch = errors.New("build epoch required")
	// ErrDuplicateName 表示两个记录清洗后得到同一个符号键。
	ErrDuplicateName = errors.New("duplicate asset name")
	// ErrDuplicateRoute 表示两个记录使用同一路径。
	ErrDuplicateRoute = errors.New("duplicate asset route")
	// ErrMultiplePrimary 表示超过一个记录被标记为 primary。
	ErrMultiplePrimary = errors.New("more than one primary asset")
	// ErrInvalidRecord 表示记录缺少必填字段。
	ErrInvalidRecord = errors.New("invalid asset record")
)

// Table 是一次构建产出的只读资源表，所有记录共享同一个 Epoch。
type Table struct {
	epoch   Epoch
	records []Record
	byName  map[string]int
	byRoute map[string]int
	primary int
}

// NewTable 校验记录并构建 Table；records 按传入顺序保存。
func NewTable(epoch Epoch, records []Record) (*Table, error) {
	if epoch == "" {
		return nil, ErrEmptyEpoch
	}

	t := &Table{
		epoch:   epoch,
		records: make([]Record, len(records)),
		byName:  make(map[string]int, len(records)),
		byRoute: make(map[string]int, len(records)),
		primary: -1,
	}
	copy(t.records, records)
	foldedRoutes := make(map[string]struct{}, len(records))

	for i, rec := range t.records {
		if rec.Name == "" || rec.Route == "" {
			return nil, fmt.Errorf("%w: record #%d missing name or route", ErrInvalidRecord, i)
		}
		if !ValidRoute(rec.Route) {
			return nil, fmt.Errorf("%w: route %q is not a literal path segment", ErrInvalidRecord, rec.Route)
		}
		if rec.Fingerprint == "" {
			return nil, fmt.Errorf("%w: %s has no fingerprint", ErrInvalidRecord, rec.Route)
		}
		if prev, exists := t.byName[rec.Name]; exists {
			return nil, fmt.Errorf("%w: %s (%s, %s)", ErrDuplicateName, rec.Name, t.records[prev].Route, rec.Route)
		}
		folded := strings.ToLower(rec.Route)
		if _, exists := foldedRoutes[folded]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRoute, rec.Route)
		}
		foldedRoutes[folded] = struct{}{}
		if rec.Primary {
			if t.primary >= 0 {
				return nil, fmt.Errorf("%w: %s, %s", ErrMultiplePrimary, t.records[t.primary].Route, rec.Route)
			}
			t.primary = i
		}
		t.byName[rec.Name] = i
		t.byRoute[rec.Route] = i
	}

	return t, nil
}

// MustNewTable 在校验失败时 panic，供生成代码在包初始化时调用。
func MustNewTable(epoch Epoch, records []Record) *Table {
	t, err := NewTable(epoch, records)
	if err != nil {
		panic(err)
	}
	return t
}

// Epoch 返回整张表共享的 Last-Modified 值。
func (t *Table) Epoch() Epoch {
	return t.epoch
}

// Len 返回记录数量。
func (t *Table) Len() int {
	return len(t.records)
}

// Records 返回记录切片的副本；Payload 仍与表共享，调用方不得修改。
func (t *Table) Records() []Record {
	result := make([]Record, len(t.records))
	copy(result, t.records)
	return result
}

// Lookup 按符号键查找记录。
func (t *Table) Lookup(name string) (Record, bool) {
	idx, ok := t.byName[name]
	if !ok {
		return Record{}, false
	}
	return t.records[idx], true
}

// LookupRoute 按原始文件名查找记录。
func (t *Table) LookupRoute(route string) (Record, bool) {
	idx, ok := t.byRoute[route]
	if !ok {
		return Record{}, false
	}
	return t.records[idx], true
}

// Primary 返回被标记为 primary 的记录。
func (t *Table) Primary() (Record, bool) {
	if t.primary < 0 {
		return Record{}, false
	}
	return t.records[t.primary], true
}

// TotalBytes 返回所有压缩正文的字节总数。
func (t *Table) TotalBytes() int {
	total := 0
	for _, rec := range t.records {
		total += rec.Length()
	}
	return total
}
