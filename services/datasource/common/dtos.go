package common

// Reading is one meter sample as reported by an agent. Voltage and VoltAmperes are nil when absent
type Reading struct {
	Channel     string   `json:"channel"`
	Timestamp   int64    `json:"timestamp"`
	Power       float64  `json:"power"`
	Voltage     *float64 `json:"voltage,omitempty"`
	VoltAmperes *float64 `json:"voltAmperes,omitempty"`
}

// ReportPayload represents the incoming JSON body on /api/report
type ReportPayload struct {
	Agent    string    `json:"agent"`
	Readings []Reading `json:"readings"`
}

// Bounds holds the earliest and latest stored timestamps, in epoch seconds
type Bounds struct {
	Minimum int64
	Maximum int64
	HasData bool
}

// TableRequest holds the parsed query parameters of a table request. Nil pointers are absent parameters
type TableRequest struct {
	Start          *int64
	End            *int64
	RangeStart     *int64
	RangeEnd       *int64
	Resolution     int64
	ExtraPoints    int64
	RealTimeAdjust bool
}

// Column describes one table column
type Column struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// Cell is one table cell. A nil V is serialized as null, an absent value
type Cell struct {
	V interface{} `json:"v"`
}

// Row is one table row. The first cell holds the display clock timestamp
type Row struct {
	C []Cell `json:"c"`
}

// Table is the time-series table served on the data endpoint
type Table struct {
	Cols []Column          `json:"cols"`
	Rows []Row             `json:"rows"`
	P    map[string]string `json:"p"`
}

// TableResponse is the successful response envelope
type TableResponse struct {
	Status string `json:"status"`
	Table  *Table `json:"table"`
}

// ErrorDetail is one entry of the error response envelope
type ErrorDetail struct {
	Reason          string `json:"reason"`
	Message         string `json:"message"`
	DetailedMessage string `json:"detailed_message,omitempty"`
}

// ErrorResponse is the error response envelope
type ErrorResponse struct {
	Status string        `json:"status"`
	Errors []ErrorDetail `json:"errors"`
}
