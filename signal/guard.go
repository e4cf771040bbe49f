package signal

// Status is the trading permission derived from a Quality value.
type Status string

// Color is the dashboard color paired with a Status.
type Color string

const (
	StatusTradeable Status = "TRADEABLE"
	StatusCaution   Status = "CAUTION"
	StatusNoTrade   Status = "NO_TRADE"

	ColorGreen  Color = "GREEN"
	ColorYellow Color = "YELLOW"
	ColorRed    Color = "RED"
)

// Decision is a deterministic, side-effect-free classification of a Quality
// value into a trading permission.
type Decision struct {
	Status Status   `json:"status"`
	Color  Color    `json:"color"`
	Issues []string `json:"issues"`
}

// Evaluate accumulates issues in a fixed order and maps the count to a
// permission: 0 issues TRADEABLE/GREEN, 1-2 CAUTION/YELLOW, 3-4 NO_TRADE/RED.
// A missing correlation counts as 0 for the weak-relationship check.
func Evaluate(q Quality) Decision {
	issues := []string{}

	if !q.Stationary {
		issues = append(issues, "Not mean-reverting")
	}
	corr := 0.0
	if q.Correlation != nil {
		corr = *q.Correlation
	}
	if corr < 0.5 {
		issues = append(issues, "Weak relationship")
	}
	if !q.HedgeRatioStable {
		issues = append(issues, "Unstable relationship")
	}
	if !q.LiquidityOK {
		issues = append(issues, "Low liquidity")
	}

	var status Status
	var color Color
	switch {
	case len(issues) == 0:
		status, color = StatusTradeable, ColorGreen
	case len(issues) <= 2:
		status, color = StatusCaution, ColorYellow
	default:
		status, color = StatusNoTrade, ColorRed
	}
	return Decision{Status: status, Color: color, Issues: issues}
}
