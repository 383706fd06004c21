package engine

// RequestState is the single-flight state of the data source queries
type RequestState int

const (
	// RequestIdle no query is in flight
	RequestIdle RequestState = iota
	// RequestFetching one query is in flight
	RequestFetching
	// RequestFetchingWithPendingQuery a newer query was asked for while one was in flight
	RequestFetchingWithPendingQuery
	// RequestFetchingWithPendingDraw a redraw was asked for while a query was in flight
	RequestFetchingWithPendingDraw
	// RequestFetchingWithPendingQueryAndDraw both a newer query and a redraw are waiting
	RequestFetchingWithPendingQueryAndDraw
)

// String returns the human-readable state name
func (s RequestState) String() string {
	switch s {
	case RequestIdle:
		return "Idle"
	case RequestFetching:
		return "Fetching"
	case RequestFetchingWithPendingQuery:
		return "FetchingWithPendingQuery"
	case RequestFetchingWithPendingDraw:
		return "FetchingWithPendingDraw"
	case RequestFetchingWithPendingQueryAndDraw:
		return "FetchingWithPendingQueryAndDraw"
	default:
		return "Unknown"
	}
}

// InFlight returns true if a query is outstanding
func (s RequestState) InFlight() bool {
	return s != RequestIdle
}

// HasPendingQuery returns true if a query must follow the outstanding one
func (s RequestState) HasPendingQuery() bool {
	return s == RequestFetchingWithPendingQuery || s == RequestFetchingWithPendingQueryAndDraw
}

// HasPendingDraw returns true if a redraw waits for the outstanding query
func (s RequestState) HasPendingDraw() bool {
	return s == RequestFetchingWithPendingDraw || s == RequestFetchingWithPendingQueryAndDraw
}

func (s RequestState) withPendingQuery() RequestState {
	switch s {
	case RequestFetching, RequestFetchingWithPendingQuery:
		return RequestFetchingWithPendingQuery
	case RequestFetchingWithPendingDraw, RequestFetchingWithPendingQueryAndDraw:
		return RequestFetchingWithPendingQueryAndDraw
	default:
		return s
	}
}

func (s RequestState) withPendingDraw() RequestState {
	switch s {
	case RequestFetching, RequestFetchingWithPendingDraw:
		return RequestFetchingWithPendingDraw
	case RequestFetchingWithPendingQuery, RequestFetchingWithPendingQueryAndDraw:
		return RequestFetchingWithPendingQueryAndDraw
	default:
		return s
	}
}

// DrawState tracks the round trips with the rendering widget
type DrawState int

const (
	// DrawSettled the widget is idle and its range matches the controller
	DrawSettled DrawState = iota
	// DrawDrawing a self-initiated draw or range change waits for its ready notification
	DrawDrawing
	// DrawDrawingWithPendingRedraw another draw was requested before the previous ready arrived
	DrawDrawingWithPendingRedraw
	// DrawRangeSettling the user is moving the range and the debounce timer is armed
	DrawRangeSettling
)

// String returns the human-readable state name
func (s DrawState) String() string {
	switch s {
	case DrawSettled:
		return "Settled"
	case DrawDrawing:
		return "Drawing"
	case DrawDrawingWithPendingRedraw:
		return "DrawingWithPendingRedraw"
	case DrawRangeSettling:
		return "RangeSettling"
	default:
		return "Unknown"
	}
}

// SelfInitiated returns true if the next widget notifications are caused by the controller
func (s DrawState) SelfInitiated() bool {
	return s == DrawDrawing || s == DrawDrawingWithPendingRedraw
}
