// service/validator.go
package service

import (
	"fmt"

	"Gin_postgres_redis_mr_tool/models"
)

// ItemInput 候选行项。MaterialID 用指针承接客户端可能传 null 的情况。
type ItemInput struct {
	MaterialID *uint `json:"material_id"`
	Quantity   int   `json:"quantity"`
}

// ValidateItems 对候选行项做引用与数量校验，返回归一化的行项列表。
// 纯函数：只读 materials，创建和编辑共用。submit=false 时允许空列表（草稿）。
func ValidateItems(items []ItemInput, materials map[uint]models.Material, submit bool) ([]models.RequisitionItem, error) {
	if len(items) == 0 {
		if submit {
			return nil, ErrEmptyRequisition
		}
		return nil, nil
	}

	out := make([]models.RequisitionItem, 0, len(items))
	for i, in := range items {
		if in.MaterialID == nil {
			return nil, fmt.Errorf("item %d: %w", i, ErrInvalidReference)
		}
		if _, ok := materials[*in.MaterialID]; !ok {
			return nil, fmt.Errorf("item %d: material %d: %w", i, *in.MaterialID, ErrInvalidReference)
		}
		if in.Quantity <= 0 {
			return nil, fmt.Errorf("item %d: %w", i, ErrInvalidQuantity)
		}
		out = append(out, models.RequisitionItem{
			MaterialID: *in.MaterialID,
			Quantity:   in.Quantity,
		})
	}
	return out, nil
}
