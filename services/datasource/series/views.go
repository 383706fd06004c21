package series

import (
	"math"

	"github.com/iulianpascalau/electric-monitoring/services/datasource/common"
)

// Views served on the data endpoint
const (
	ViewPower               = "power"
	ViewVoltage             = "voltage"
	ViewVoltAmperes         = "volt-amperes"
	ViewVoltAmperesReactive = "volt-amperes-reactive"
	ViewCombinedPower       = "combined-power"
	ViewPowerFactor         = "power-factor"
)

const columnTypeNumber = "number"

// extractor returns the value of a column out of a reading, or nil if absent
type extractor func(reading common.Reading) interface{}

type column struct {
	suffix  string
	extract extractor
}

// views maps each view to the columns produced for every channel
var views = map[string][]column{
	ViewPower:               {{extract: power}},
	ViewVoltage:             {{extract: voltage}},
	ViewVoltAmperes:         {{extract: voltAmperes}},
	ViewVoltAmperesReactive: {{extract: voltAmperesReactive}},
	ViewCombinedPower: {
		{suffix: " W", extract: power},
		{suffix: " VA", extract: voltAmperes},
	},
	ViewPowerFactor: {{extract: powerFactor}},
}

func power(reading common.Reading) interface{} {
	return reading.Power
}

func voltage(reading common.Reading) interface{} {
	if reading.Voltage == nil {
		return nil
	}

	return *reading.Voltage
}

func voltAmperes(reading common.Reading) interface{} {
	if reading.VoltAmperes == nil {
		return nil
	}

	return *reading.VoltAmperes
}

func voltAmperesReactive(reading common.Reading) interface{} {
	if reading.VoltAmperes == nil {
		return nil
	}

	va := *reading.VoltAmperes
	squared := va*va - reading.Power*reading.Power
	if squared < 0 {
		squared = 0
	}

	return math.Sqrt(squared)
}

func powerFactor(reading common.Reading) interface{} {
	if reading.VoltAmperes == nil || *reading.VoltAmperes == 0 {
		return nil
	}

	return reading.Power / *reading.VoltAmperes
}
