package store

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/happygreeting/billing-app/internal/models"
)

// GormStore persists invoices through gorm (SQLite in development and tests,
// Postgres in production) and fans out full-list snapshots to subscribers
// after every successful mutation.
type GormStore struct {
	db  *gorm.DB
	log *logrus.Logger

	mu     sync.Mutex
	subs   map[int]Subscriber
	nextID int
}

func NewGormStore(db *gorm.DB, log *logrus.Logger) *GormStore {
	return &GormStore{db: db, log: log, subs: map[int]Subscriber{}}
}

func (s *GormStore) List(ctx context.Context) ([]models.Invoice, error) {
	var invs []models.Invoice
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Order("created_at desc, id desc").
		Find(&invs).Error
	if err != nil {
		return nil, &SyncError{Op: "list", Err: err}
	}
	return invs, nil
}

func (s *GormStore) Subscribe(cb Subscriber) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = cb
	s.mu.Unlock()

	// Initial snapshot, mirroring the change notifications so new readers
	// need no separate load path.
	if invs, err := s.List(context.Background()); err == nil {
		cb(invs)
	}
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *GormStore) Create(ctx context.Context, inv *models.Invoice) error {
	for i := range inv.Items {
		inv.Items[i].Position = i
	}
	if err := s.db.WithContext(ctx).Create(inv).Error; err != nil {
		return &SyncError{Op: "create", Err: err}
	}
	s.notify()
	return nil
}

func (s *GormStore) Update(ctx context.Context, id uint, fields Fields) error {
	items, hasItems := fields["items"].([]models.LineItem)
	cols := make(map[string]any, len(fields))
	for k, v := range fields {
		if k != "items" {
			cols[k] = v
		}
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv models.Invoice
		if err := tx.First(&inv, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if len(cols) > 0 {
			if err := tx.Model(&inv).Updates(cols).Error; err != nil {
				return err
			}
		}
		if hasItems {
			if err := tx.Where("invoice_id = ?", id).Delete(&models.LineItem{}).Error; err != nil {
				return err
			}
			for i := range items {
				items[i].InvoiceID = id
				items[i].Position = i
			}
			if len(items) > 0 {
				if err := tx.Create(&items).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return &SyncError{Op: "update", Err: err}
	}
	s.notify()
	return nil
}

func (s *GormStore) Delete(ctx context.Context, id uint) error {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&models.LineItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Invoice{}, id)
		deleted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return &SyncError{Op: "delete", Err: err}
	}
	if deleted > 0 {
		s.notify()
	}
	return nil
}

// notify loads the canonical list once and delivers it to every subscriber.
// Callbacks run outside the registry lock so a subscriber may cancel itself.
func (s *GormStore) notify() {
	invs, err := s.List(context.Background())
	if err != nil {
		s.log.WithError(err).Error("store: snapshot for subscribers failed")
		return
	}
	s.mu.Lock()
	cbs := make([]Subscriber, 0, len(s.subs))
	for _, cb := range s.subs {
		cbs = append(cbs, cb)
	}
	s.mu.Unlock()
	for _, cb := range cbs {
		cb(invs)
	}
}
