package constants

// ResultType is the canonical document verdict in API responses.
type ResultType string

// Stable values (clients and stored rows depend on these exact strings).
const (
	ResultTypeLab    ResultType = "lab"
	ResultTypeNonLab ResultType = "non-lab"
)
