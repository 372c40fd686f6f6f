package tui

import "github.com/shopspring/decimal"

// SwitchScreenMsg requests a screen change
type SwitchScreenMsg struct {
	Screen Screen
}

// RefreshDataMsg requests data refresh
type RefreshDataMsg struct{}

// ErrorMsg carries error information
type ErrorMsg struct {
	Err error
}

// OpenNewScooterFormMsg tells the fleet screen to open the new scooter form
type OpenNewScooterFormMsg struct{}

// firstRunCheckMsg reports whether the fleet has any scooters
type firstRunCheckMsg struct {
	hasScooters bool
}

// rentalEndedMsg reports a finished rental from any screen
type rentalEndedMsg struct {
	scooterID string
	price     decimal.Decimal
	err       error
}

// (Price ticks are managed by the screens that show open rentals)
