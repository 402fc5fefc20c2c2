package domain

// Trade is an enumerated service category a provider can offer and a
// project can require.
type Trade string

const (
	TradeGeneralContractor  Trade = "General Contractor"
	TradeElectrician        Trade = "Electrician"
	TradePlumber            Trade = "Plumber"
	TradeCarpenter          Trade = "Carpenter"
	TradePainter            Trade = "Painter"
	TradeHVAC               Trade = "HVAC"
	TradeLandscaper         Trade = "Landscaper"
	TradeRoofer             Trade = "Roofer"
	TradeMason              Trade = "Mason"
	TradeFlooringSpecialist Trade = "Flooring Specialist"
	TradeWelder             Trade = "Welder"
	TradeHandyman           Trade = "Handyman"
	TradeMechanic           Trade = "Mechanic"
	TradeCleaner            Trade = "Cleaner"
	TradeMover              Trade = "Mover"
)

// DefaultTrade is the fallback label used when classification fails or
// returns nothing usable.
const DefaultTrade = TradeHandyman

// AllTrades is the fixed vocabulary accepted from the classifier and
// from provider profiles.
var AllTrades = []Trade{
	TradeGeneralContractor,
	TradeElectrician,
	TradePlumber,
	TradeCarpenter,
	TradePainter,
	TradeHVAC,
	TradeLandscaper,
	TradeRoofer,
	TradeMason,
	TradeFlooringSpecialist,
	TradeWelder,
	TradeHandyman,
	TradeMechanic,
	TradeCleaner,
	TradeMover,
}

func (t Trade) IsValid() bool {
	for _, known := range AllTrades {
		if t == known {
			return true
		}
	}
	return false
}

// TradesIntersect reports whether the two sets share at least one label.
func TradesIntersect(a, b []Trade) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// ContainsTrade reports whether set contains t.
func ContainsTrade(set []Trade, t Trade) bool {
	for _, x := range set {
		if x == t {
			return true
		}
	}
	return false
}
