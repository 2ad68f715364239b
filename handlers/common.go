package handlers

import (
	"errors"

	"tiffin-api/models"

	"gorm.io/gorm"
)

// errConcurrentUpdate signals that another request changed the order between
// our read and write
var errConcurrentUpdate = errors.New("order was modified concurrently")

// saveTransition persists an in-memory transition applied by the state
// machine. The status update is conditional on the previously read status so
// a concurrent read-modify-write on the same order is never silently lost.
func saveTransition(db *gorm.DB, order *models.Order, prev models.OrderStatus) error {
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, prev).
			Updates(map[string]interface{}{
				"status":                     order.Status,
				"vendor_notes":               order.VendorNotes,
				"cancellation_reason":        order.Cancellation.Reason,
				"cancellation_cancelled_by":  order.Cancellation.CancelledBy,
				"cancellation_cancelled_at":  order.Cancellation.CancelledAt,
				"cancellation_refund_amount": order.Cancellation.RefundAmount,
				"cancellation_refund_status": order.Cancellation.RefundStatus,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errConcurrentUpdate
		}
		// Exactly one history entry was appended by the state machine
		entry := order.StatusHistory[len(order.StatusHistory)-1]
		return tx.Create(&entry).Error
	})
}
