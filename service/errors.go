package service

import "errors"

// 校验/状态错误在写库之前就地返回；网关错误原样向上抛，不自动重试。
var (
	ErrInvalidReference    = errors.New("line item references an unknown material")
	ErrInvalidQuantity     = errors.New("line item quantity must be a positive integer")
	ErrEmptyRequisition    = errors.New("requisition must carry at least one line item")
	ErrSubjectRequired     = errors.New("subject is required")
	ErrInvalidDate         = errors.New("form_date must be YYYY-MM-DD or RFC3339")
	ErrInvalidTransition   = errors.New("illegal status transition")
	ErrImmutableState      = errors.New("requisition is no longer editable")
	ErrNotFound            = errors.New("record not found")
	ErrRefNoExhausted      = errors.New("could not allocate a unique ref_no")
	ErrPersonnelReferenced = errors.New("personnel is referenced by existing requisitions")
)
