package datasource

import (
	"github.com/iulianpascalau/electric-monitoring/services/viewer/common"
	"github.com/tidwall/gjson"
)

const statusOK = "ok"

// ParseTable decodes a data source response into a series table. The first column holds the row timestamps
func ParseTable(body []byte) (*common.SeriesTable, error) {
	if !gjson.ValidBytes(body) {
		return nil, errPathNotFound("status")
	}

	response := gjson.ParseBytes(body)
	status := response.Get("status")
	if !status.Exists() {
		return nil, errPathNotFound("status")
	}
	if status.String() != statusOK {
		first := response.Get("errors.0")
		return nil, &errDataSource{
			reason:  first.Get("reason").String(),
			message: first.Get("message").String(),
		}
	}

	table := response.Get("table")
	if !table.Exists() {
		return nil, errPathNotFound("table")
	}

	result := &common.SeriesTable{}
	cols := table.Get("cols").Array()
	for i, col := range cols {
		if i == 0 {
			continue
		}
		result.Labels = append(result.Labels, col.Get("label").String())
	}

	for _, row := range table.Get("rows").Array() {
		cells := row.Get("c").Array()
		if len(cells) == 0 {
			continue
		}

		sample := common.Sample{
			Timestamp: common.Timestamp(cells[0].Get("v").Int()),
			Values:    make([]common.Value, len(result.Labels)),
		}
		for i := range sample.Values {
			if i+1 >= len(cells) {
				break
			}
			v := cells[i+1].Get("v")
			if v.Type == gjson.Number {
				sample.Values[i] = common.NewValue(v.Float())
			}
		}
		result.Samples = append(result.Samples, sample)
	}

	properties := table.Get("p")
	result.TimeZoneOffset = properties.Get("timeZoneOffset").Int()
	result.ResolutionString = properties.Get("resolutionString").String()
	result.Resolution = properties.Get("resolution").Int()
	result.ServerMinimum = common.Timestamp(properties.Get("minimum").Int())
	result.ServerMaximum = common.Timestamp(properties.Get("maximum").Int())

	return result, nil
}
