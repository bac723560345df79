// Package audit 记录批量导入的审计日志。
package audit

import (
	"context"
	"sync"
	"time"

	"order-admin/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
)

// 导入结果
const (
	OutcomeSuccess    = "success"
	OutcomeUnresolved = "unresolved"
	OutcomeInvalid    = "invalid"
	OutcomeFailed     = "failed"
)

// ImportRecord 一次批量导入的记录
type ImportRecord struct {
	AdminID       string    `bson:"admin_id" json:"adminId"`
	RowCount      int       `bson:"row_count" json:"rowCount"`
	CreatedOrders int       `bson:"created_orders" json:"createdOrders"`
	CreatedUsers  []string  `bson:"created_users" json:"createdUsers"`
	Missing       []string  `bson:"missing,omitempty" json:"missing,omitempty"`
	Outcome       string    `bson:"outcome" json:"outcome"`
	Error         string    `bson:"error,omitempty" json:"error,omitempty"`
	ArchiveKey    string    `bson:"archive_key,omitempty" json:"archiveKey,omitempty"`
	StartedAt     time.Time `bson:"started_at" json:"startedAt"`
	Duration      int64     `bson:"duration_ms" json:"durationMs"`
}

// Recorder 写入审计记录
type Recorder interface {
	RecordImport(ctx context.Context, rec ImportRecord) error
}

// MongoRecorder 写入 MongoDB 集合
type MongoRecorder struct {
	coll *mongo.Collection
}

func NewMongoRecorder(coll *mongo.Collection) *MongoRecorder {
	return &MongoRecorder{coll: coll}
}

func (r *MongoRecorder) RecordImport(ctx context.Context, rec ImportRecord) error {
	_, err := r.coll.InsertOne(ctx, rec)
	return err
}

// LogRecorder 只写应用日志
type LogRecorder struct{}

func (LogRecorder) RecordImport(ctx context.Context, rec ImportRecord) error {
	logger.WithComponent(ctx, "import_audit").WithFields(map[string]interface{}{
		"admin_id":       rec.AdminID,
		"row_count":      rec.RowCount,
		"created_orders": rec.CreatedOrders,
		"created_users":  len(rec.CreatedUsers),
		"outcome":        rec.Outcome,
		"error":          rec.Error,
	}).Info("批量导入")
	return nil
}

// MemoryRecorder 保存在内存中，测试使用
type MemoryRecorder struct {
	mu      sync.Mutex
	records []ImportRecord
}

func (r *MemoryRecorder) RecordImport(_ context.Context, rec ImportRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

// Records 返回已记录的副本
func (r *MemoryRecorder) Records() []ImportRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ImportRecord(nil), r.records...)
}
