package series

import (
	"github.com/iulianpascalau/electric-monitoring/services/datasource/common"
)

// rowsBuilder groups readings sharing a timestamp into table rows, one cell per channel column
type rowsBuilder struct {
	channels       []string
	channelIndex   map[string]int
	viewColumns    []column
	timeZoneOffset int64
	rows           []common.Row
}

func newRowsBuilder(channels []string, viewColumns []column, timeZoneOffset int64) *rowsBuilder {
	channelIndex := make(map[string]int, len(channels))
	for i, channel := range channels {
		channelIndex[channel] = i
	}

	return &rowsBuilder{
		channels:       channels,
		channelIndex:   channelIndex,
		viewColumns:    viewColumns,
		timeZoneOffset: timeZoneOffset,
		rows:           make([]common.Row, 0),
	}
}

func (rb *rowsBuilder) columns() []common.Column {
	cols := make([]common.Column, 0, 1+len(rb.channels)*len(rb.viewColumns))
	cols = append(cols, common.Column{
		ID:    timeColumnID,
		Label: timeColumnLabel,
		Type:  columnTypeNumber,
	})
	for _, channel := range rb.channels {
		for _, col := range rb.viewColumns {
			cols = append(cols, common.Column{
				ID:    channel + col.suffix,
				Label: channel + col.suffix,
				Type:  columnTypeNumber,
			})
		}
	}

	return cols
}

// append expects the readings ordered by timestamp
func (rb *rowsBuilder) append(readings []common.Reading) {
	var current *common.Row
	currentTimestamp := int64(0)
	for _, reading := range readings {
		idx, found := rb.channelIndex[reading.Channel]
		if !found {
			continue
		}

		if current == nil || reading.Timestamp != currentTimestamp {
			rb.rows = append(rb.rows, rb.newRow(reading.Timestamp))
			current = &rb.rows[len(rb.rows)-1]
			currentTimestamp = reading.Timestamp
		}

		for i, col := range rb.viewColumns {
			current.C[1+idx*len(rb.viewColumns)+i] = common.Cell{V: col.extract(reading)}
		}
	}
}

func (rb *rowsBuilder) newRow(timestamp int64) common.Row {
	cells := make([]common.Cell, 1+len(rb.channels)*len(rb.viewColumns))
	cells[0] = common.Cell{V: timestamp + rb.timeZoneOffset}

	return common.Row{C: cells}
}
