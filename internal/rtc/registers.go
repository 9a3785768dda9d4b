// internal/rtc/registers.go
package rtc

import (
	"fmt"

	"github.com/tamzrod/ntpclock/internal/calendar"
)

// RTC register block layout, one holding register per calendar field.
// These values define the protocol and MUST NOT be configurable.
const (
	RegYear = iota
	RegMonth
	RegDay
	RegWeekday
	RegHour
	RegMinute
	RegSecond

	// BlockLen is the number of registers in the block.
	BlockLen
)

// Encode converts calendar fields into the register block.
func Encode(d calendar.DateTime) []uint16 {
	regs := make([]uint16, BlockLen)

	regs[RegYear] = uint16(d.Year)
	regs[RegMonth] = uint16(d.Month)
	regs[RegDay] = uint16(d.Day)
	regs[RegWeekday] = uint16(d.Weekday)
	regs[RegHour] = uint16(d.Hour)
	regs[RegMinute] = uint16(d.Minute)
	regs[RegSecond] = uint16(d.Second)

	return regs
}

// Decode converts a register block back into calendar fields.
func Decode(regs []uint16) (calendar.DateTime, error) {
	if len(regs) != BlockLen {
		return calendar.DateTime{}, fmt.Errorf("rtc: block has %d registers, want %d", len(regs), BlockLen)
	}

	d := calendar.DateTime{
		Year:    int(regs[RegYear]),
		Month:   int(regs[RegMonth]),
		Day:     int(regs[RegDay]),
		Weekday: int(regs[RegWeekday]),
		Hour:    int(regs[RegHour]),
		Minute:  int(regs[RegMinute]),
		Second:  int(regs[RegSecond]),
	}

	if err := d.Validate(); err != nil {
		return calendar.DateTime{}, fmt.Errorf("rtc: invalid register contents: %w", err)
	}
	return d, nil
}
