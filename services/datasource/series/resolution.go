package series

import (
	"github.com/iulianpascalau/electric-monitoring/services/datasource/common"
)

const (
	autoSuffix   = " (auto)"
	cappedSuffix = " (capped)"
)

// resolutionForRange returns the finest resolution that spans the range in fewer than numDataPoints samples
func resolutionForRange(width int64, numDataPoints int64) common.Resolution {
	for _, res := range common.Resolutions {
		if res.Seconds*numDataPoints > width {
			return res
		}
	}

	return common.Resolutions[len(common.Resolutions)-1]
}

// resolutionForResAndRange returns the finest resolution at least as coarse as the requested one that spans the
// range in fewer than maxDataPoints samples. The second value is true when a coarser one had to be chosen
func resolutionForResAndRange(requested int64, width int64, maxDataPoints int64) (common.Resolution, bool) {
	for _, res := range common.Resolutions {
		if res.Seconds < requested {
			continue
		}
		if res.Seconds*maxDataPoints > width {
			return res, res.Seconds != requested
		}
	}

	return resolutionForRange(width, maxDataPoints), true
}

// coarserOrEqual returns the stored resolutions between fine and coarse, coarsest first
func coarserOrEqual(fine common.Resolution, coarse common.Resolution) []common.Resolution {
	result := make([]common.Resolution, 0, len(common.Resolutions))
	for i := len(common.Resolutions) - 1; i >= 0; i-- {
		res := common.Resolutions[i]
		if res.Seconds >= fine.Seconds && res.Seconds <= coarse.Seconds {
			result = append(result, res)
		}
	}

	return result
}
