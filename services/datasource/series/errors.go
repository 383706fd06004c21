package series

import "errors"

var errNilStorage = errors.New("nil storage")
var errInvalidNumDataPoints = errors.New("invalid number of data points")
var errInvalidMaxDataPoints = errors.New("invalid maximum number of data points")
