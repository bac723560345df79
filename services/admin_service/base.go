package admin_service

import (
	"context"
	"errors"
	"strings"
	"time"

	"order-admin/pkg/apperr"
	"order-admin/pkg/audit"
	"order-admin/pkg/database"
	"order-admin/pkg/events"
	"order-admin/pkg/lock"
	"order-admin/pkg/logger"
	"order-admin/pkg/query"
	"order-admin/pkg/storage"

	"gorm.io/gorm"
)

// Deps 服务依赖，可选项为空时使用本地实现
type Deps struct {
	DB       *gorm.DB
	Location *time.Location
	Events   events.Publisher
	Audit    audit.Recorder
	Locker   lock.Locker
	Archiver storage.Archiver
	Now      func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Events == nil {
		d.Events = events.NopPublisher{}
	}
	if d.Audit == nil {
		d.Audit = audit.LogRecorder{}
	}
	if d.Locker == nil {
		d.Locker = lock.NewLocalLocker()
	}
	if d.Archiver == nil {
		d.Archiver = storage.NopArchiver{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// userNamesLockKey 客户表是全局共享的，按名称创建客户的步骤都串行在这把锁上
const userNamesLockKey = "user_names"

// lockUserNames 获取客户名称锁，超时返回 Conflict
func (d Deps) lockUserNames(ctx context.Context) (func(), error) {
	release, err := d.Locker.Acquire(ctx, userNamesLockKey, importLockTTL, importLockWait)
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			return nil, apperr.Conflict("其他任务正在创建客户，请稍后重试", err)
		}
		return nil, apperr.Internal("获取客户名称锁失败", err)
	}
	return release, nil
}

// publish 发布失败只记录日志，不影响已提交的写入
func (d Deps) publish(ctx context.Context, e events.Event) {
	if err := d.Events.Publish(ctx, e); err != nil {
		logger.WithComponent(ctx, "events").WithError(err).WithField("type", e.Type).Warn("事件发布失败")
	}
}

// parseDate 按业务时区解析请求中的日期
func (d Deps) parseDate(field, value string) (time.Time, error) {
	t, _, ok := query.ParseDate(value, d.Location)
	if !ok {
		return time.Time{}, apperr.Validation("日期格式错误", map[string]string{field: "无法解析日期: " + value})
	}
	return t, nil
}

// translateError 把存储层错误转换为业务错误
func translateError(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(notFound)
	}
	if database.IsDuplicateKey(err) {
		return apperr.Conflict("数据已存在", err)
	}
	return apperr.Internal("数据库操作失败", err)
}

// distinctNames 去掉首尾空格和空值，大小写不敏感去重，保留首次出现的写法和顺序
func distinctNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

func lowerAll(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = strings.ToLower(name)
	}
	return out
}

func distinctIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
