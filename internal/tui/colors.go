package tui

// Color constants for the shyft TUI theme
const (
	// Base Colors
	ColorCardBackground = "#14212B" // Deep slate
	ColorBorder         = "#34495E" // Blue-grey

	// Text Colors
	ColorPrimaryText   = "#ECEFF4" // Labels, user input, titles
	ColorSecondaryText = "#A3B1C2" // Hints and secondary values
	ColorDisabledText  = "#5E6B7A" // Pending steps
	ColorPlaceholder   = "#7B8A9A"
	ColorHelpText      = "240" // Dark grey for help text

	// Accent Colors (teal theme)
	ColorAccentMain   = "#0F9D8A" // Borders, active panels
	ColorAccentBright = "#2DD4BF" // Clock digits, current step

	// State Colors
	ColorError   = "#EF4444" // Validation errors
	ColorSuccess = "#22C55E" // Completed steps
	ColorWarning = "#F59E0B" // Cancel confirmation
)
