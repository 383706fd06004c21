package common

// Reading is one sample taken from a meter channel. Voltage and VoltAmperes are nil when the meter does not
// provide them
type Reading struct {
	Channel     string   `json:"channel"`
	Timestamp   int64    `json:"timestamp"`
	Power       float64  `json:"power"`
	Voltage     *float64 `json:"voltage,omitempty"`
	VoltAmperes *float64 `json:"voltAmperes,omitempty"`
}

// ReportPayload is the payload sent to the data source ingest endpoint
type ReportPayload struct {
	Agent    string    `json:"agent"`
	Readings []Reading `json:"readings"`
}
