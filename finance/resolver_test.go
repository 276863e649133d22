package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabarril/api-desbravador/models"
)

func TestResolveReferenceNoRecordKinds(t *testing.T) {
	db := openTestDB(t)

	// No kind, no id, kind without id, "other": none resolve to a record.
	for _, tc := range []struct {
		name     string
		kind     string
		id       *uint
		memberID *uint
	}{
		{"empty kind", "", ptr(uint(1)), nil},
		{"no id", models.ReferenceRegistration, nil, nil},
		{"other", models.ReferenceOther, ptr(uint(1)), nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ref, err := resolveReference(db, tc.kind, tc.id, tc.memberID)
			require.NoError(t, err)
			assert.Nil(t, ref)
		})
	}
}

func TestResolveReferenceUnknownKind(t *testing.T) {
	db := openTestDB(t)

	_, err := resolveReference(db, "invoice", ptr(uint(1)), nil)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestResolveReferenceNotFound(t *testing.T) {
	db := openTestDB(t)

	for _, kind := range []string{
		models.ReferenceRegistration,
		models.ReferenceMonthlyFee,
		models.ReferenceEvent,
	} {
		t.Run(kind, func(t *testing.T) {
			_, err := resolveReference(db, kind, ptr(uint(4242)), nil)
			require.Error(t, err)
			assert.Equal(t, KindNotFound, KindOf(err))
		})
	}
}

func TestResolveReferenceOwnership(t *testing.T) {
	db := openTestDB(t)

	owner := seedMember(t, db, "Ana")
	other := seedMember(t, db, "Bia")
	fee := seedFee(t, db, owner.ID, 1, 2024, "25.00")
	reg := seedRegistration(t, db, owner.ID)

	_, err := resolveReference(db, models.ReferenceMonthlyFee, &fee.ID, &other.ID)
	require.Error(t, err)
	assert.Equal(t, KindOwnershipMismatch, KindOf(err))

	_, err = resolveReference(db, models.ReferenceRegistration, &reg.ID, &other.ID)
	require.Error(t, err)
	assert.Equal(t, KindOwnershipMismatch, KindOf(err))

	// Without a member on the payment there is nothing to check against.
	ref, err := resolveReference(db, models.ReferenceMonthlyFee, &fee.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, fee.ID, ref.id)
}

func TestResolveReferenceEventSkipsOwnershipCheck(t *testing.T) {
	db := openTestDB(t)

	participant := seedMember(t, db, "Ana")
	payer := seedMember(t, db, "Bia")
	event, _ := seedEventWithParticipant(t, db, participant.ID)

	// A member may pay toward an event they are not registered for; the
	// participant row addressed at settlement is simply absent.
	ref, err := resolveReference(db, models.ReferenceEvent, &event.ID, &payer.ID)
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, models.ReferenceEvent, ref.kind)
}
