package enums

// IndexType selects the novelty index backend.
type IndexType string

const (
	MEMORY IndexType = "MEMORY"
	QDRANT IndexType = "QDRANT"
)

// SinkType selects the dataset sink backend.
type SinkType string

const (
	KAFKA  SinkType = "KAFKA"
	SCYLLA SinkType = "SCYLLA"
)
