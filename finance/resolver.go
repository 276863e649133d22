package finance

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mabarril/api-desbravador/models"
)

// resolvedReference is the record a payment settles, resolved through the
// closed set of reference kinds. The payment's member (when present) rides
// along because event settlement addresses the participant row with it.
type resolvedReference struct {
	kind     string
	id       uint
	memberID *uint
}

// resolveReference validates a (kind, id) pair against the store and returns
// the handle used to settle or unsettle the referenced record.
//
// Kind "other" and references without an id resolve to no record and no
// mutation; an unknown kind is rejected before any query. For registrations
// and monthly fees the referenced row must belong to the payment's member
// when one is named. Event participations are settled on behalf of a member
// and carry no ownership check.
func resolveReference(tx *gorm.DB, kind string, id *uint, memberID *uint) (*resolvedReference, error) {
	if kind == "" || id == nil {
		return nil, nil
	}

	switch kind {
	case models.ReferenceOther:
		return nil, nil

	case models.ReferenceRegistration:
		var reg models.Registration
		if err := tx.First(&reg, *id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFoundErr("no registration found with ID %d", *id)
			}
			return nil, persistenceErr("look up registration", err)
		}
		if memberID != nil && reg.MemberID != *memberID {
			return nil, ownershipErr("registration %d does not belong to member %d", *id, *memberID)
		}

	case models.ReferenceMonthlyFee:
		var fee models.MonthlyFee
		if err := tx.First(&fee, *id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFoundErr("no monthly fee found with ID %d", *id)
			}
			return nil, persistenceErr("look up monthly fee", err)
		}
		if memberID != nil && fee.MemberID != *memberID {
			return nil, ownershipErr("monthly fee %d does not belong to member %d", *id, *memberID)
		}

	case models.ReferenceEvent:
		var event models.Event
		if err := tx.First(&event, *id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFoundErr("no event found with ID %d", *id)
			}
			return nil, persistenceErr("look up event", err)
		}

	default:
		return nil, validationErr("invalid reference type %q", kind)
	}

	return &resolvedReference{kind: kind, id: *id, memberID: memberID}, nil
}

// markSettled flips the referenced record to paid. Monthly fees also get the
// payment date stamped. Event settlement without a member is a no-op.
func (r *resolvedReference) markSettled(tx *gorm.DB, paymentDate string) error {
	var err error
	switch r.kind {
	case models.ReferenceRegistration:
		err = tx.Model(&models.Registration{}).Where("id = ?", r.id).
			Update("payment_status", models.FeePaid).Error
	case models.ReferenceMonthlyFee:
		err = tx.Model(&models.MonthlyFee{}).Where("id = ?", r.id).
			Updates(map[string]any{"status": models.FeePaid, "payment_date": paymentDate}).Error
	case models.ReferenceEvent:
		if r.memberID == nil {
			return nil
		}
		err = tx.Model(&models.EventParticipant{}).
			Where("event_id = ? AND member_id = ?", r.id, *r.memberID).
			Update("payment_status", models.FeePaid).Error
	}
	if err != nil {
		return persistenceErr("mark reference settled", err)
	}
	return nil
}

// markUnsettled reverts the referenced record to pending. For monthly fees
// the payment date is cleared; for events only payment_status moves,
// attendance_status is untouched.
func (r *resolvedReference) markUnsettled(tx *gorm.DB) error {
	var err error
	switch r.kind {
	case models.ReferenceRegistration:
		err = tx.Model(&models.Registration{}).Where("id = ?", r.id).
			Update("payment_status", models.FeePending).Error
	case models.ReferenceMonthlyFee:
		err = tx.Model(&models.MonthlyFee{}).Where("id = ?", r.id).
			Updates(map[string]any{"status": models.FeePending, "payment_date": nil}).Error
	case models.ReferenceEvent:
		if r.memberID == nil {
			return nil
		}
		err = tx.Model(&models.EventParticipant{}).
			Where("event_id = ? AND member_id = ?", r.id, *r.memberID).
			Update("payment_status", models.FeePending).Error
	}
	if err != nil {
		return persistenceErr("mark reference unsettled", err)
	}
	return nil
}
