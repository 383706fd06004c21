package common

import "fmt"

// Views served by the data source, used as the request path
const (
	ViewPower               = "power"
	ViewVoltage             = "voltage"
	ViewVoltAmperes         = "volt-amperes"
	ViewVoltAmperesReactive = "volt-amperes-reactive"
	ViewCombinedPower       = "combined-power"
	ViewPowerFactor         = "power-factor"
)

// AllViews lists every known view in display order
var AllViews = []string{
	ViewPower,
	ViewVoltage,
	ViewVoltAmperes,
	ViewVoltAmperesReactive,
	ViewCombinedPower,
	ViewPowerFactor,
}

// ValueSuffix returns the unit appended to the values of a view
func ValueSuffix(view string) string {
	switch view {
	case ViewVoltage:
		return "V"
	case ViewVoltAmperes:
		return "VA"
	case ViewVoltAmperesReactive:
		return "var"
	case ViewPowerFactor:
		return ""
	default:
		return "W"
	}
}

// CheckViewAvailable returns an error if the view is unknown or needs meter capabilities that are missing
func CheckViewAvailable(view string, hasVoltage bool, hasKVA bool) error {
	switch view {
	case ViewPower:
		return nil
	case ViewVoltage:
		if !hasVoltage {
			return fmt.Errorf("view %s needs voltage readings", view)
		}
		return nil
	case ViewVoltAmperes, ViewVoltAmperesReactive, ViewCombinedPower, ViewPowerFactor:
		if !hasKVA {
			return fmt.Errorf("view %s needs kVA readings", view)
		}
		return nil
	default:
		return fmt.Errorf("unknown view %s", view)
	}
}
