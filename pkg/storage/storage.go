// Package storage 将导入的表格文件归档到对象存储。
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"order-admin/pkg/config"

	"github.com/google/uuid"
	"github.com/volcengine/ve-tos-golang-sdk/v2/tos"
)

// MaxFileSize 允许归档的最大文件 (10MB)
const MaxFileSize = 10 * 1024 * 1024

// Archiver 归档文件，返回对象 key
type Archiver interface {
	Archive(ctx context.Context, directory, filename string, content []byte) (string, error)
}

// TOSArchiver 火山引擎 TOS 实现
type TOSArchiver struct {
	cfg    config.StorageConfig
	client *tos.ClientV2
}

// NewTOSArchiver 创建 TOS 客户端
func NewTOSArchiver(cfg config.StorageConfig) (*TOSArchiver, error) {
	if !cfg.Enabled() {
		return nil, errors.New("TOS配置参数不完整")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30
	}

	credential := tos.NewStaticCredentials(cfg.AccessKeyID, cfg.AccessKeySecret)
	client, err := tos.NewClientV2(cfg.Endpoint,
		tos.WithCredentials(credential),
		tos.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("初始化TOS客户端失败: %w", err)
	}

	return &TOSArchiver{cfg: cfg, client: client}, nil
}

// ObjectKey 生成 directory/日期/uuid+扩展名
func ObjectKey(directory, filename string, now time.Time) string {
	directory = strings.Trim(directory, "/")
	if directory != "" {
		directory += "/"
	}
	ext := strings.ToLower(filepath.Ext(filename))
	return directory + now.Format("2006/01/02/") + uuid.NewString() + ext
}

func (a *TOSArchiver) Archive(ctx context.Context, directory, filename string, content []byte) (string, error) {
	if len(content) > MaxFileSize {
		return "", fmt.Errorf("文件过大，最大允许 %d MB", MaxFileSize/(1024*1024))
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(a.cfg.Timeout)*time.Second)
	defer cancel()

	key := ObjectKey(directory, filename, time.Now())
	input := &tos.PutObjectV2Input{
		PutObjectBasicInput: tos.PutObjectBasicInput{
			Bucket:      a.cfg.BucketName,
			Key:         key,
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Meta:        map[string]string{"original-name": filepath.Base(filename)},
		},
		Content: bytes.NewReader(content),
	}

	if _, err := a.client.PutObjectV2(ctx, input); err != nil {
		return "", fmt.Errorf("上传文件到TOS失败: %w", err)
	}
	return key, nil
}

// Close 关闭客户端
func (a *TOSArchiver) Close() {
	if a.client != nil {
		a.client.Close()
	}
}

// NopArchiver 未配置对象存储时使用
type NopArchiver struct{}

func (NopArchiver) Archive(context.Context, string, string, []byte) (string, error) {
	return "", nil
}
