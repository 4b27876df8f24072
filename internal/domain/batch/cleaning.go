package batch

// ProductionLine identifies a physical line in the factory
type ProductionLine string

const (
	LineDough ProductionLine = "PIZZA_DOUGH_LINE"
	LineSauce ProductionLine = "PIZZA_SAUCE_LINE"
)

// CleaningType distinguishes routine from deep sanitation procedures
type CleaningType string

const (
	// CleaningEndOfBatch is the standard cleaning between two batches
	CleaningEndOfBatch CleaningType = "END_OF_BATCH"

	// CleaningDeep is a full sanitization of the line
	CleaningDeep CleaningType = "DEEP_CLEANING"
)

// CleaningRecord is the pre-production sanitation checklist for a line.
// The boolean fields mirror the paper checklist filled in on the floor.
type CleaningRecord struct {
	Line              ProductionLine `json:"line"`
	CleaningType      CleaningType   `json:"cleaningType"`
	LineClear         bool           `json:"lineClear"`
	PackagingRemoved  bool           `json:"packagingRemoved"`
	WasteEmptied      bool           `json:"wasteEmptied"`
	ConveyorSanitized bool           `json:"conveyorSanitized"`
	Observations      string         `json:"observations"`
	Approved          bool           `json:"approved"`
}
