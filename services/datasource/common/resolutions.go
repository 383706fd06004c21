package common

// Resolution is one of the sampling granularities the readings are stored at
type Resolution struct {
	Seconds int64
	Label   string
}

// Resolutions lists the stored granularities, finest first
var Resolutions = []Resolution{
	{Seconds: 1, Label: `1"`},
	{Seconds: 4, Label: `4"`},
	{Seconds: 15, Label: `15"`},
	{Seconds: 60, Label: "1'"},
	{Seconds: 60 * 4, Label: "4'"},
	{Seconds: 60 * 15, Label: "15'"},
	{Seconds: 60 * 60, Label: "1h"},
	{Seconds: 60 * 60 * 3, Label: "3h"},
	{Seconds: 60 * 60 * 8, Label: "8h"},
	{Seconds: 60 * 60 * 24, Label: "1d"},
}

// BucketStart returns the start of the bucket holding the timestamp. Buckets are aligned to the local clock given
// by the time zone offset
func BucketStart(timestamp int64, seconds int64, timeZoneOffset int64) int64 {
	local := timestamp + timeZoneOffset
	bucket := local / seconds * seconds
	if local < 0 && local%seconds != 0 {
		bucket -= seconds
	}

	return bucket - timeZoneOffset
}
