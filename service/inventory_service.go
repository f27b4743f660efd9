// service/inventory_service.go
package service

import (
	"sort"

	"Gin_postgres_redis_mr_tool/models"
)

// LowStockWatermark 物料目录状态徽标用的全局水位线，与逐物料的
// safety_stock 是两套独立口径，刻意不合并（面板告警数 vs 目录徽标）。
const LowStockWatermark = 20

const (
	StockStatusOut = "Out of Stock"
	StockStatusLow = "Low Stock"
	StockStatusIn  = "In Stock"
)

// StockStatusOf 目录徽标口径：0 缺货，低于水位线为低库存
func StockStatusOf(quantity int) string {
	switch {
	case quantity == 0:
		return StockStatusOut
	case quantity < LowStockWatermark:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// LowStock 面板告警口径：只看设置了 safety_stock 的物料，
// 未设置的永远不计入。
func LowStock(materials []models.Material) []models.Material {
	var out []models.Material
	for _, m := range materials {
		if m.SafetyStock != nil && m.Quantity < *m.SafetyStock {
			out = append(out, m)
		}
	}
	return out
}

// 环形图配色，首色对齐柱状图的 #3b82f6，按名次循环取色
var distributionPalette = []string{
	"#3b82f6", "#8b5cf6", "#10b981", "#f59e0b", "#ef4444", "#64748b",
}

const maxDistributionSlices = 6

type DistributionSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// Distribution 按物料类别分组计数，降序排列；超过 6 组时只保留前 5 组,
// 其余合并为 "Other"。所有分片值之和恒等于物料总数。
func Distribution(materials []models.Material) []DistributionSlice {
	type bucket struct {
		name  string
		count int
	}
	byType := map[uint]*bucket{}
	for _, m := range materials {
		b, ok := byType[m.MaterialTypeID]
		if !ok {
			name := "Uncategorized"
			if m.MaterialType != nil {
				name = m.MaterialType.Title
			}
			b = &bucket{name: name}
			byType[m.MaterialTypeID] = b
		}
		b.count++
	}

	buckets := make([]bucket, 0, len(byType))
	for _, b := range byType {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].count != buckets[j].count {
			return buckets[i].count > buckets[j].count
		}
		return buckets[i].name < buckets[j].name // 并列时按名称稳定排序
	})

	if len(buckets) > maxDistributionSlices {
		other := bucket{name: "Other"}
		for _, b := range buckets[maxDistributionSlices-1:] {
			other.count += b.count
		}
		buckets = append(buckets[:maxDistributionSlices-1], other)
	}

	out := make([]DistributionSlice, len(buckets))
	for i, b := range buckets {
		out[i] = DistributionSlice{
			Name:  b.name,
			Value: b.count,
			Color: distributionPalette[i%len(distributionPalette)],
		}
	}
	return out
}
