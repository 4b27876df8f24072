package batch_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitza/batchtrace-go/internal/domain/batch"
	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

func testClock() *shared.MockClock {
	return shared.NewMockClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
}

func newTestBatch(t *testing.T, id string) *batch.Batch {
	t.Helper()
	b, err := batch.NewBatch(id, shared.ProductPepperoni, 120, false, nil, testClock())
	require.NoError(t, err)
	return b
}

func flourUsage() batch.MaterialUsage {
	return batch.MaterialUsage{
		Material:       shared.RawMaterial{MaterialID: "RM-001", Name: "Flour Type 65"},
		Quantity:       25.5,
		ExpirationDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
	}
}

func mixerReading() batch.MixerReading {
	return batch.MixerReading{
		MachineTelemetry: batch.MachineTelemetry{
			MachineID:   "MIX-01",
			MachineName: "Main Mixer",
			Status:      batch.MachineStopped,
			ReadAt:      time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC),
		},
		RPM:       118.2,
		DoughTemp: 24.1,
		MotorAmps: 14.5,
	}
}

func TestNewBatch_StartsBlockedAndEmpty(t *testing.T) {
	// Act
	b, err := batch.NewBatch("LOT-2025-001", shared.ProductPepperoni, 120, false, nil, testClock())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, batch.StateBlocked, b.State())
	assert.Empty(t, b.MaterialsUsed())
	assert.Empty(t, b.MachineReadings())
	assert.Empty(t, b.SensorReadings())
	assert.Empty(t, b.CleaningRecords())
	assert.Empty(t, b.DiscardReasons())
	assert.Equal(t, 0, b.Version())
}

func TestNewBatch_RejectsInvalidInput(t *testing.T) {
	clock := testClock()

	_, err := batch.NewBatch("", shared.ProductPepperoni, 10, false, nil, clock)
	assert.Error(t, err)

	_, err = batch.NewBatch("LOT-1", "", 10, false, nil, clock)
	assert.Error(t, err)

	_, err = batch.NewBatch("LOT-1", shared.ProductPepperoni, -1, false, nil, clock)
	assert.Error(t, err)

	// Order batches must name their customer
	_, err = batch.NewBatch("LOT-1", shared.ProductPepperoni, 10, true, nil, clock)
	assert.Error(t, err)
}

func TestRecordMaterialUsage_AppendsOnce(t *testing.T) {
	// Arrange
	b := newTestBatch(t, "LOT-1")

	// Act
	err := b.RecordMaterialUsage("materials-1", flourUsage())
	require.NoError(t, err)

	// Same token again - idempotent redelivery
	err = b.RecordMaterialUsage("materials-1", flourUsage())

	// Assert
	var dup *batch.ErrDuplicateContribution
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "materials-1", dup.Token)
	assert.Len(t, b.MaterialsUsed(), 1)
	assert.True(t, b.HasContribution("materials-1"))
}

func TestRecordMachineReading_RejectedAfterFinalization(t *testing.T) {
	// Arrange
	b := newTestBatch(t, "LOT-1")
	require.NoError(t, b.Approve())

	// Act
	err := b.RecordMachineReading("mes-1", mixerReading())

	// Assert
	var invalid *batch.ErrInvalidTransition
	assert.ErrorAs(t, err, &invalid)
	assert.Empty(t, b.MachineReadings())
}

func TestRecordMaterialUsage_RedeliveryAfterFinalizationIsDuplicate(t *testing.T) {
	// Arrange
	b := newTestBatch(t, "LOT-1")
	require.NoError(t, b.RecordMaterialUsage("materials-1", flourUsage()))
	require.NoError(t, b.Approve())

	// Act - the engine redelivers a contribution recorded before approval
	err := b.RecordMaterialUsage("materials-1", flourUsage())

	// Assert - recognized as duplicate, not a transition failure
	var dup *batch.ErrDuplicateContribution
	assert.ErrorAs(t, err, &dup)
	assert.Len(t, b.MaterialsUsed(), 1)
}

func TestDiscard_RequiresAtLeastOneReason(t *testing.T) {
	// Arrange
	b := newTestBatch(t, "LOT-2")

	// Act
	err := b.Discard(nil)

	// Assert
	var missing *batch.ErrMissingDiscardReason
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, batch.StateBlocked, b.State())
	assert.Empty(t, b.DiscardReasons())
}

func TestDiscard_ThenApproveFails(t *testing.T) {
	// Arrange
	b := newTestBatch(t, "LOT-2")
	reason := batch.DiscardReason{Actor: batch.ActorLaboratory, Reason: "yeast contamination"}
	require.NoError(t, b.Discard([]batch.DiscardReason{reason}))

	// Act
	err := b.Approve()

	// Assert
	var invalid *batch.ErrInvalidTransition
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, batch.StateDiscarded, b.State())
	assert.Equal(t, []batch.DiscardReason{reason}, b.DiscardReasons())
}

func TestDiscard_ConsumesPendingReasons(t *testing.T) {
	// Arrange
	b := newTestBatch(t, "LOT-3")
	labReason := batch.DiscardReason{Actor: batch.ActorLaboratory, Reason: "failed microbiology panel"}
	qcReason := batch.DiscardReason{Actor: batch.ActorQualityControl, Reason: "wrong bake colour"}
	require.NoError(t, b.AddDiscardReason(labReason))
	assert.Equal(t, batch.StateBlocked, b.State())

	// Act
	err := b.Discard([]batch.DiscardReason{qcReason})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, batch.StateDiscarded, b.State())
	assert.Equal(t, []batch.DiscardReason{labReason, qcReason}, b.DiscardReasons())
	assert.Empty(t, b.PendingReasons())
}

func TestApprove_DropsUncommittedReasons(t *testing.T) {
	// Arrange
	b := newTestBatch(t, "LOT-4")
	require.NoError(t, b.AddDiscardReason(batch.DiscardReason{
		Actor:  batch.ActorQualityControl,
		Reason: "pending visual re-check",
	}))

	// Act
	err := b.Approve()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, batch.StateApproved, b.State())
	assert.Empty(t, b.DiscardReasons())
	assert.Empty(t, b.PendingReasons())
}

func TestRecordContribution_DisjointBranchesBothLand(t *testing.T) {
	// Two branches merge in either order; each lands exactly once even
	// when one branch is replayed.
	materials := batch.NewMaterialContribution("materials-1", flourUsage())
	machines := batch.NewMachineContribution("mes-1", mixerReading())

	// Materials first, then machines, then a machines replay
	first := newTestBatch(t, "LOT-1")
	require.NoError(t, first.RecordContribution(materials))
	require.NoError(t, first.RecordContribution(machines))
	var dup *batch.ErrDuplicateContribution
	require.ErrorAs(t, first.RecordContribution(machines), &dup)

	// Reverse arrival order
	second := newTestBatch(t, "LOT-1")
	require.NoError(t, second.RecordContribution(machines))
	require.NoError(t, second.RecordContribution(materials))

	for _, b := range []*batch.Batch{first, second} {
		assert.Len(t, b.MaterialsUsed(), 1)
		assert.Len(t, b.MachineReadings(), 1)
		assert.ElementsMatch(t, []string{"materials-1", "mes-1"}, b.ContributionTokens())
	}
}

func TestDocumentRoundTrip_PreservesSnapshot(t *testing.T) {
	// Arrange
	b := newTestBatch(t, "LOT-7")
	require.NoError(t, b.RecordMaterialUsage("materials-1", flourUsage()))
	require.NoError(t, b.RecordMachineReading("mes-1", mixerReading()))
	require.NoError(t, b.RecordSensorReading("iot-1", batch.TemperatureReading{
		SensorSnapshot: batch.SensorSnapshot{
			SensorID: "TEMP-01",
			Location: "dough room",
			ReadAt:   time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		},
		TemperatureCelsius: 21.4,
	}))
	require.NoError(t, b.RecordCleaningRecord("clean-1", batch.CleaningRecord{
		Line:              batch.LineDough,
		CleaningType:      batch.CleaningEndOfBatch,
		LineClear:         true,
		PackagingRemoved:  true,
		WasteEmptied:      true,
		ConveyorSanitized: true,
		Approved:          true,
	}))

	// Act
	doc, err := batch.ToDocument(b)
	require.NoError(t, err)
	restored, err := batch.FromDocument(doc, testClock())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, b.BatchID(), restored.BatchID())
	assert.Equal(t, b.State(), restored.State())
	assert.Equal(t, b.MaterialsUsed(), restored.MaterialsUsed())
	assert.Equal(t, b.MachineReadings(), restored.MachineReadings())
	assert.Equal(t, b.SensorReadings(), restored.SensorReadings())
	assert.Equal(t, b.CleaningRecords(), restored.CleaningRecords())
	assert.ElementsMatch(t, b.ContributionTokens(), restored.ContributionTokens())
	assert.True(t, restored.HasContribution("mes-1"))
}
