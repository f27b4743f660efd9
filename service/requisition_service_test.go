package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"Gin_postgres_redis_mr_tool/models"

	"gorm.io/gorm"
)

// memStore 内存版实体网关，语义对齐 db.Repo：找不到记录返回
// gorm.ErrRecordNotFound，建单为原子操作。
type memStore struct {
	personnel map[uint]models.Personnel
	materials map[uint]models.Material
	forms     map[uint]*models.Requisition
	nextID    uint

	refAlwaysTaken bool
}

func newMemStore() *memStore {
	return &memStore{
		personnel: map[uint]models.Personnel{
			7: {ID: 7, Fullname: "Ada Okoro", Position: "Site Engineer"},
		},
		materials: map[uint]models.Material{
			3: {ID: 3, Title: "Copper Wire", Unit: "m", Quantity: 120},
			4: {ID: 4, Title: "Fuse 10A", Unit: "pcs", Quantity: 40},
		},
		forms: map[uint]*models.Requisition{},
	}
}

func (m *memStore) GetPersonnel(_ context.Context, id uint) (*models.Personnel, error) {
	p, ok := m.personnel[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (m *memStore) MaterialsByIDs(_ context.Context, ids []uint) (map[uint]models.Material, error) {
	out := map[uint]models.Material{}
	for _, id := range ids {
		if mat, ok := m.materials[id]; ok {
			out[id] = mat
		}
	}
	return out, nil
}

func (m *memStore) CreateRequisition(_ context.Context, form *models.Requisition) error {
	m.nextID++
	form.ID = m.nextID
	form.CreatedAt = time.Now()
	form.UpdatedAt = form.CreatedAt
	for i := range form.Items {
		form.Items[i].MRFormID = form.ID
	}
	cp := *form
	cp.Items = append([]models.RequisitionItem(nil), form.Items...)
	m.forms[form.ID] = &cp
	return nil
}

func (m *memStore) GetRequisition(_ context.Context, id uint) (*models.Requisition, error) {
	f, ok := m.forms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *f
	cp.Items = append([]models.RequisitionItem(nil), f.Items...)
	return &cp, nil
}

func (m *memStore) ReplaceRequisition(_ context.Context, form *models.Requisition, items []models.RequisitionItem) error {
	f, ok := m.forms[form.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	f.Subject = form.Subject
	f.Description = form.Description
	f.FormDate = form.FormDate
	f.OwnerID = form.OwnerID
	f.UpdatedAt = time.Now()
	if items != nil {
		for i := range items {
			items[i].MRFormID = f.ID
		}
		f.Items = append([]models.RequisitionItem(nil), items...)
	}
	return nil
}

func (m *memStore) UpdateRequisitionStatus(_ context.Context, id uint, next models.Status) error {
	f, ok := m.forms[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	f.Status = next
	f.UpdatedAt = time.Now()
	return nil
}

func (m *memStore) DeleteRequisition(_ context.Context, id uint) error {
	delete(m.forms, id)
	return nil
}

func (m *memStore) RefNoExists(_ context.Context, refNo string) (bool, error) {
	if m.refAlwaysTaken {
		return true, nil
	}
	for _, f := range m.forms {
		if f.RefNo == refNo {
			return true, nil
		}
	}
	return false, nil
}

func newTestService(store Store) *RequisitionService {
	return NewRequisitionService(store, nil)
}

func validCreate() CreateInput {
	return CreateInput{
		Subject:  "Q3 Maintenance",
		FormDate: "2024-07-01", // 客户端只发日期串
		OwnerID:  7,
		Items:    []ItemInput{{MaterialID: uintPtr(3), Quantity: 5}},
	}
}

var refNoPattern = regexp.MustCompile(`^REQ-\d+$`)

func TestCreateRequisition(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	form, err := svc.Create(context.Background(), 1, validCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !refNoPattern.MatchString(form.RefNo) {
		t.Errorf("ref_no %q does not match REQ-<digits>", form.RefNo)
	}
	if form.Status != models.StatusPending {
		t.Errorf("new requisition must be Pending, got %v", form.Status)
	}
	if form.CreatorID != 1 || form.OwnerID != 7 {
		t.Errorf("creator/owner: %+v", form)
	}
	if len(form.Items) != 1 || form.Items[0].MaterialID != 3 || form.Items[0].Quantity != 5 {
		t.Errorf("items: %+v", form.Items)
	}
	if want := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC); !form.FormDate.Equal(want) {
		t.Errorf("form_date: got %v, want %v", form.FormDate, want)
	}

	// 成功 create 后行项永不为空
	stored, _ := store.GetRequisition(context.Background(), form.ID)
	if len(stored.Items) == 0 {
		t.Fatal("persisted requisition has no line items")
	}
}

func TestCreateValidationFailures(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*CreateInput)
		wantErr error
	}{
		{"empty subject", func(in *CreateInput) { in.Subject = "  " }, ErrSubjectRequired},
		{"unknown owner", func(in *CreateInput) { in.OwnerID = 42 }, ErrInvalidReference},
		{"nil material", func(in *CreateInput) {
			in.Items = []ItemInput{{MaterialID: nil, Quantity: 2}}
		}, ErrInvalidReference},
		{"zero quantity", func(in *CreateInput) {
			in.Items = []ItemInput{{MaterialID: uintPtr(3), Quantity: 0}}
		}, ErrInvalidQuantity},
		{"no items", func(in *CreateInput) { in.Items = nil }, ErrEmptyRequisition},
		{"garbled date", func(in *CreateInput) { in.FormDate = "01/07/2024" }, ErrInvalidDate},
		{"empty date", func(in *CreateInput) { in.FormDate = "" }, ErrInvalidDate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemStore()
			svc := newTestService(store)
			in := validCreate()
			tc.mutate(&in)

			_, err := svc.Create(context.Background(), 1, in)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
			// 校验失败不允许留下任何落库痕迹
			if len(store.forms) != 0 {
				t.Fatalf("no requisition may be persisted, found %d", len(store.forms))
			}
		})
	}
}

func TestFormDateWireFormats(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{"2024-07-01", time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), true},
		{"2024-07-01T08:30:00Z", time.Date(2024, time.July, 1, 8, 30, 0, 0, time.UTC), true},
		{"2024-7-1", time.Time{}, false},
		{"today", time.Time{}, false},
	}
	for _, tc := range cases {
		got, err := parseFormDate(tc.raw)
		if tc.ok {
			if err != nil {
				t.Errorf("parseFormDate(%q): %v", tc.raw, err)
				continue
			}
			if !got.Equal(tc.want) {
				t.Errorf("parseFormDate(%q) = %v, want %v", tc.raw, got, tc.want)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidDate) {
			t.Errorf("parseFormDate(%q): want ErrInvalidDate, got %v", tc.raw, err)
		}
	}
}

func TestCreateRefNoExhausted(t *testing.T) {
	store := newMemStore()
	store.refAlwaysTaken = true
	svc := newTestService(store)

	_, err := svc.Create(context.Background(), 1, validCreate())
	if !errors.Is(err, ErrRefNoExhausted) {
		t.Fatalf("want ErrRefNoExhausted, got %v", err)
	}
}

func TestCreateRefNoUnique(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		form, err := svc.Create(context.Background(), 1, validCreate())
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if seen[form.RefNo] {
			t.Fatalf("duplicate ref_no %q", form.RefNo)
		}
		seen[form.RefNo] = true
	}
}

func TestUpdatePending(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	form, _ := svc.Create(context.Background(), 1, validCreate())

	subject := "Q3 Maintenance (revised)"
	formDate := "2024-08-15"
	items := []ItemInput{
		{MaterialID: uintPtr(3), Quantity: 2},
		{MaterialID: uintPtr(4), Quantity: 1},
	}
	got, err := svc.Update(context.Background(), form.ID, UpdateInput{
		Subject:  &subject,
		FormDate: &formDate,
		Items:    &items,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Subject != subject {
		t.Errorf("subject: %q", got.Subject)
	}
	if want := time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC); !got.FormDate.Equal(want) {
		t.Errorf("form_date: got %v, want %v", got.FormDate, want)
	}
	if len(got.Items) != 2 {
		t.Errorf("items after update: %+v", got.Items)
	}
	if got.RefNo != form.RefNo {
		t.Errorf("ref_no must not change on update")
	}
}

func TestUpdateKeepsItemsWhenNotProvided(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	form, _ := svc.Create(context.Background(), 1, validCreate())

	subject := "retitled"
	got, err := svc.Update(context.Background(), form.ID, UpdateInput{Subject: &subject})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("items must be untouched, got %+v", got.Items)
	}
}

func TestUpdateRejectsBadDate(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	form, _ := svc.Create(context.Background(), 1, validCreate())

	bad := "15/08/2024"
	_, err := svc.Update(context.Background(), form.ID, UpdateInput{FormDate: &bad})
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("want ErrInvalidDate, got %v", err)
	}
}

func TestUpdateRejectsEmptyItems(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	form, _ := svc.Create(context.Background(), 1, validCreate())

	items := []ItemInput{}
	_, err := svc.Update(context.Background(), form.ID, UpdateInput{Items: &items})
	if !errors.Is(err, ErrEmptyRequisition) {
		t.Fatalf("want ErrEmptyRequisition, got %v", err)
	}
}

func TestUpdateImmutableAfterApproval(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	form, _ := svc.Create(context.Background(), 1, validCreate())

	if _, err := svc.Transition(context.Background(), form.ID, models.StatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}

	subject := "too late"
	_, err := svc.Update(context.Background(), form.ID, UpdateInput{Subject: &subject})
	if !errors.Is(err, ErrImmutableState) {
		t.Fatalf("want ErrImmutableState, got %v", err)
	}
}

func TestTransitionStateMachine(t *testing.T) {
	cases := []struct {
		name    string
		first   models.Status
		second  models.Status
		wantErr error
	}{
		{"approve then approve again", models.StatusApproved, models.StatusApproved, ErrInvalidTransition},
		{"approve then reject", models.StatusApproved, models.StatusRejected, ErrInvalidTransition},
		{"reject then approve", models.StatusRejected, models.StatusApproved, ErrInvalidTransition},
		{"approve then back to pending", models.StatusApproved, models.StatusPending, ErrInvalidTransition},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemStore()
			svc := newTestService(store)
			form, _ := svc.Create(context.Background(), 1, validCreate())

			got, err := svc.Transition(context.Background(), form.ID, tc.first)
			if err != nil {
				t.Fatalf("first transition: %v", err)
			}
			if got.Status != tc.first {
				t.Fatalf("status after first transition: %v", got.Status)
			}

			_, err = svc.Transition(context.Background(), form.ID, tc.second)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("second transition: want %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestTransitionPendingToPending(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	form, _ := svc.Create(context.Background(), 1, validCreate())

	_, err := svc.Transition(context.Background(), form.ID, models.StatusPending)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	form, _ := svc.Create(context.Background(), 1, validCreate())

	if err := svc.Delete(context.Background(), form.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Update(context.Background(), form.ID, UpdateInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteTerminalBlocked(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	form, _ := svc.Create(context.Background(), 1, validCreate())
	_, _ = svc.Transition(context.Background(), form.ID, models.StatusRejected)

	if err := svc.Delete(context.Background(), form.ID); !errors.Is(err, ErrImmutableState) {
		t.Fatalf("want ErrImmutableState, got %v", err)
	}
}

func TestNotFound(t *testing.T) {
	svc := newTestService(newMemStore())

	if _, err := svc.Update(context.Background(), 99, UpdateInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update: want ErrNotFound, got %v", err)
	}
	if _, err := svc.Transition(context.Background(), 99, models.StatusApproved); !errors.Is(err, ErrNotFound) {
		t.Fatalf("transition: want ErrNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete: want ErrNotFound, got %v", err)
	}
}
