package memory

import (
	"context"
	"time"

	"github.com/SscSPs/property_management_app/internal/core/domain"
)

// AddPOSOrder records a POS order for the pre-audit checklist.
func (s *Store) AddPOSOrder(order POSOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.posOrders[order.OrderID] = order
}

// AddHousekeepingTask records a housekeeping task for the pre-audit checklist.
func (s *Store) AddHousekeepingTask(task HousekeepingTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.tasks[task.TaskID] = task
}

func (s *Store) CountUnpostedPOSOrders(_ context.Context, propertyID string, businessDate time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	day := domain.NormalizeDate(businessDate).Format(domain.DateLayout)
	n := 0
	for _, o := range s.data.posOrders {
		if o.PropertyID == propertyID && o.BusinessDate == day && !o.Posted {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountIncompleteHousekeepingTasks(_ context.Context, propertyID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, t := range s.data.tasks {
		if t.PropertyID == propertyID && !t.Completed {
			n++
		}
	}
	return n, nil
}
