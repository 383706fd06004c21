package api

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/iulianpascalau/electric-monitoring/services/datasource/common"
)

const realTimeAdjustYes = "yes"

// parseTableRequest reads the table query parameters. Absent parameters stay nil or zero
func parseTableRequest(c *gin.Context) (common.TableRequest, error) {
	req := common.TableRequest{
		RealTimeAdjust: c.Query("realTimeAdjust") == realTimeAdjustYes,
	}

	var err error
	req.Start, err = optionalInt(c, "start")
	if err != nil {
		return req, err
	}
	req.End, err = optionalInt(c, "end")
	if err != nil {
		return req, err
	}
	req.RangeStart, err = optionalInt(c, "rangeStart")
	if err != nil {
		return req, err
	}
	req.RangeEnd, err = optionalInt(c, "rangeEnd")
	if err != nil {
		return req, err
	}

	resolution, err := optionalInt(c, "resolution")
	if err != nil {
		return req, err
	}
	if resolution != nil {
		req.Resolution = *resolution
	}

	extraPoints, err := optionalInt(c, "extraPoints")
	if err != nil {
		return req, err
	}
	if extraPoints != nil {
		req.ExtraPoints = *extraPoints
	}

	return req, nil
}

func optionalInt(c *gin.Context, name string) (*int64, error) {
	raw, found := c.GetQuery(name)
	if !found || len(raw) == 0 {
		return nil, nil
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, common.NewRequestError(common.ReasonInvalidRequest, fmt.Sprintf("invalid %s parameter: %s", name, raw))
	}

	return &value, nil
}
