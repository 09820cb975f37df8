package logging

import (
	"github.com/sirupsen/logrus"

	"github.com/gzasset/gzasset/pkg/asset"
)

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// AssetFields 输出单个资源的编译结果（压缩后大小、指纹等）。
func AssetFields(rec asset.Record) logrus.Fields {
	return logrus.Fields{
		"asset":       rec.Name,
		"route":       rec.Route,
		"mime_type":   rec.MimeType,
		"bytes":       rec.Length(),
		"fingerprint": rec.Fingerprint,
		"primary":     rec.Primary,
	}
}

// RequestFields 提供预览服务请求日志字段。
func RequestFields(requestID, method, path string, status int) logrus.Fields {
	return logrus.Fields{
		"request_id": requestID,
		"method":     method,
		"path":       path,
		"status":     status,
	}
}
