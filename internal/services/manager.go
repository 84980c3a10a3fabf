package services

import (
	"sync"

	"github.com/diewo77/go-pos/internal/config"
	"github.com/diewo77/go-pos/internal/repository"
)

// SaleManager keeps one in-flight sale per user. Completed or cancelled
// sales are replaced by a fresh workflow on the next access.
type SaleManager struct {
	mu     sync.Mutex
	repos  *repository.Registry
	cfg    config.Config
	active map[string]*SaleWorkflow
}

func NewSaleManager(repos *repository.Registry, cfg config.Config) *SaleManager {
	return &SaleManager{repos: repos, cfg: cfg, active: map[string]*SaleWorkflow{}}
}

// Current returns the user's open sale, starting one if needed.
func (m *SaleManager) Current(userID string) *SaleWorkflow {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.active[userID]; ok {
		if s := w.State(); s != StateCompleted && s != StateCancelled {
			return w
		}
	}
	w := NewSaleWorkflow(m.repos, m.cfg)
	m.active[userID] = w
	return w
}
