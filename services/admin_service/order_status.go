package admin_service

import (
	"context"
	"sort"
	"strings"
	"time"

	"order-admin/model/admin_model"
	"order-admin/pkg/apperr"
	"order-admin/pkg/events"
	"order-admin/pkg/monitoring"

	"gorm.io/gorm"
)

// NextStatusChangeDate 状态变更后的 statusChangeDate：
// 状态不变时保持原值，回到 ONGOING 时清空，其余变更记为 now
func NextStatusChangeDate(current, next string, previous *time.Time, now time.Time) *time.Time {
	if next == current {
		return previous
	}
	if next == admin_model.StatusOngoing {
		return nil
	}
	return &now
}

// StatusPartition 批量改状态时按订单当前状态分组，三组互不相交，并集为输入
type StatusPartition struct {
	// ToClear 改回 ONGOING，清空日期
	ToClear []string
	// ToStamp 改为其他状态，记录当前时间
	ToStamp []string
	// Unchanged 已经是目标状态
	Unchanged []string
}

// PartitionStatusUpdate current 为订单ID到当前状态的映射
func PartitionStatusUpdate(ids []string, current map[string]string, target string) StatusPartition {
	var p StatusPartition
	for _, id := range ids {
		switch {
		case current[id] == target:
			p.Unchanged = append(p.Unchanged, id)
		case target == admin_model.StatusOngoing:
			p.ToClear = append(p.ToClear, id)
		default:
			p.ToStamp = append(p.ToStamp, id)
		}
	}
	return p
}

type statusRow struct {
	ID     string
	Status string
}

// BulkUpdateStatus 批量改状态，两条 UPDATE 在同一事务中执行；有不存在的ID时不做任何写入
func (s *OrderService) BulkUpdateStatus(ctx context.Context, ids []string, status string) (StatusPartition, error) {
	if !admin_model.ValidStatus(status) {
		return StatusPartition{}, apperr.Validation("订单状态错误", map[string]string{"status": "未知状态: " + status})
	}
	ids = distinctIDs(ids)
	if len(ids) == 0 {
		return StatusPartition{}, apperr.Validation("请选择订单", map[string]string{"ids": "不能为空"})
	}

	now := s.deps.Now()
	var partition StatusPartition
	err := s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []statusRow
		if err := tx.Model(&admin_model.Order{}).Select("id, status").Where("id IN ?", ids).Find(&rows).Error; err != nil {
			return err
		}

		current := make(map[string]string, len(rows))
		for _, r := range rows {
			current[r.ID] = r.Status
		}
		if missing := missingIDs(ids, current); len(missing) > 0 {
			return apperr.NotFound("订单不存在: " + strings.Join(missing, ", "))
		}

		partition = PartitionStatusUpdate(ids, current, status)
		if len(partition.ToClear) > 0 {
			if err := tx.Model(&admin_model.Order{}).Where("id IN ?", partition.ToClear).
				Updates(map[string]interface{}{"status": status, "status_change_date": nil, "updated_at": now}).Error; err != nil {
				return err
			}
		}
		if len(partition.ToStamp) > 0 {
			if err := tx.Model(&admin_model.Order{}).Where("id IN ?", partition.ToStamp).
				Updates(map[string]interface{}{"status": status, "status_change_date": now, "updated_at": now}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return StatusPartition{}, translateError(err, "订单不存在")
	}

	monitoring.RecordStatusTransitions(status, len(partition.ToClear)+len(partition.ToStamp))
	if len(partition.ToClear)+len(partition.ToStamp) > 0 {
		s.deps.publish(ctx, events.NewEvent(events.OrderStatusChanged, events.StatusChanged{
			Status:  status,
			Cleared: partition.ToClear,
			Stamped: partition.ToStamp,
		}))
	}
	return partition, nil
}

func missingIDs(ids []string, found map[string]string) []string {
	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return missing
}
