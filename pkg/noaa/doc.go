// Package noaa retrieves station water-level data from the NOAA CO-OPS API.
// Observed six-minute water levels arrive as a time series per station (see
// WaterLevelQuery); the package hands the core a validated series and is the
// only place the remote wire format lives. All times are UTC.
package noaa
