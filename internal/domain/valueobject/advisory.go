package valueobject

// Advisory is the operator-facing notice raised for a risk level.
type Advisory struct {
	Title   string
	Message string
	Actions []string
}

// AdvisoryFor returns the advisory for a level. Low and Safe share the
// general advisory.
func AdvisoryFor(level RiskLevel) Advisory {
	switch {
	case level.Equal(RiskLevelHigh):
		return Advisory{
			Title:   "CRITICAL ALERT: HIGH ROCKFALL RISK DETECTED",
			Message: "Immediate evacuation required. All personnel must leave the area immediately.",
			Actions: []string{
				"Evacuate all personnel from the danger zone",
				"Stop all mining operations immediately",
				"Contact emergency services",
				"Activate emergency response protocol",
			},
		}
	case level.Equal(RiskLevelMedium):
		return Advisory{
			Title:   "WARNING: ELEVATED ROCKFALL RISK",
			Message: "Increased monitoring and caution required in the specified area.",
			Actions: []string{
				"Increase monitoring frequency",
				"Restrict access to high-risk zones",
				"Review safety protocols",
				"Prepare contingency measures",
			},
		}
	default:
		return Advisory{
			Title:   "ADVISORY: ROCKFALL RISK DETECTED",
			Message: "Continue operations with enhanced monitoring.",
			Actions: []string{
				"Maintain standard safety protocols",
				"Monitor conditions closely",
				"Brief personnel on current conditions",
			},
		}
	}
}
