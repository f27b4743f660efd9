// service/reporting_service.go
package service

import (
	"fmt"
	"sort"
	"time"

	"Gin_postgres_redis_mr_tool/models"
)

type VolumePoint struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// VolumeByMonth 以 now 所在月为基准，按偏移量（0=当月，负数=往前 N 月）
// 统计 form_date 落在该月的单量，输出按时间先后排序。
func VolumeByMonth(reqs []models.Requisition, offsets []int, now time.Time) []VolumePoint {
	// 取月初再做月份加减，避免 31 号这类日期的进位问题
	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type monthKey struct {
		year  int
		month time.Month
	}
	counts := map[monthKey]int{}
	for _, r := range reqs {
		d := r.FormDate.In(now.Location())
		counts[monthKey{d.Year(), d.Month()}]++
	}

	seen := map[monthKey]bool{}
	type point struct {
		key monthKey
		p   VolumePoint
	}
	points := make([]point, 0, len(offsets))
	for _, off := range offsets {
		t := base.AddDate(0, off, 0)
		k := monthKey{t.Year(), t.Month()}
		if seen[k] {
			continue
		}
		seen[k] = true
		points = append(points, point{key: k, p: VolumePoint{Name: t.Format("Jan"), Value: counts[k]}})
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].key.year != points[j].key.year {
			return points[i].key.year < points[j].key.year
		}
		return points[i].key.month < points[j].key.month
	})

	out := make([]VolumePoint, len(points))
	for i, p := range points {
		out[i] = p.p
	}
	return out
}

type Activity struct {
	RefNo    string    `json:"ref_no"`
	Creator  string    `json:"creator"`
	Item     string    `json:"item"`
	FormDate time.Time `json:"form_date"`
	Status   string    `json:"status"`
}

// RecentActivity 取最近创建的 limit 条领料单，拼出行项摘要
func RecentActivity(reqs []models.Requisition, limit int) []Activity {
	sorted := make([]models.Requisition, len(reqs))
	copy(sorted, reqs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]Activity, len(sorted))
	for i, r := range sorted {
		creator := "Unknown User"
		if r.Creator != nil {
			creator = r.Creator.Fullname
		}
		out[i] = Activity{
			RefNo:    r.RefNo,
			Creator:  creator,
			Item:     itemSummary(r.Items),
			FormDate: r.FormDate,
			Status:   r.Status.Label(),
		}
	}
	return out
}

func itemSummary(items []models.RequisitionItem) string {
	if len(items) == 0 {
		return "No items in requisition"
	}
	// 物料可能在表单之后被删掉，标题解析不到时降级提示
	text := "Item name not available"
	if items[0].Material != nil {
		text = items[0].Material.Title
	}
	if len(items) > 1 {
		text = fmt.Sprintf("%s and %d more", text, len(items)-1)
	}
	return text
}

// CountByStatus 精确按状态计数，面板 "Pending Requisitions" 指标用
func CountByStatus(reqs []models.Requisition, status models.Status) int {
	n := 0
	for _, r := range reqs {
		if r.Status == status {
			n++
		}
	}
	return n
}
