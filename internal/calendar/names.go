// internal/calendar/names.go
package calendar

// Day and month abbreviations shared by display formatting and the
// DST table generator. Index is Weekday (0=Sunday) and Month-1.
var (
	dayNames   = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

// DayName returns the three-letter name of weekday (0=Sunday).
// Out-of-range values return "???".
func DayName(weekday int) string {
	if weekday < 0 || weekday >= len(dayNames) {
		return "???"
	}
	return dayNames[weekday]
}

// MonthName returns the three-letter name of month (1-12).
// Out-of-range values return "???".
func MonthName(month int) string {
	if month < 1 || month > len(monthNames) {
		return "???"
	}
	return monthNames[month-1]
}
