package utils

import (
	"fmt"
	"strings"
	"time"
)

// MessageType selects the color a terminal message is printed with.
type MessageType int

const (
	DefaultMessage MessageType = iota
	SuccessMessage
	ErrorMessage
	StatusMessage
	WarningMessage
)

// ANSI escape sequences of the message colors.
const (
	DefaultColor = "\x1b[0m"
	StatusColor  = "\x1b[36m"
	SuccessColor = "\x1b[32m"
	ErrorColor   = "\x1b[31m"
	WarningColor = "\x1b[33m"
)

var palette = map[MessageType]string{
	DefaultMessage: DefaultColor,
	SuccessMessage: SuccessColor,
	ErrorMessage:   ErrorColor,
	StatusMessage:  StatusColor,
	WarningMessage: WarningColor,
}

// DecorateText wraps s in the color of msgType. Unknown types leave s as it is.
func DecorateText(s string, msgType MessageType) string {
	c, ok := palette[msgType]
	if !ok {
		return s
	}
	return c + s + DefaultColor
}

// Banner prefixes a status line with the application name.
func Banner(s string) string {
	return DecorateText("⚡ IMPASTO", StatusMessage) + " " + DecorateText("⇢ "+s, DefaultMessage)
}

// FormatTime prints d as hours, minutes and seconds, omitting the leading
// units that are zero.
func FormatTime(d time.Duration) string {
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	sec := fmt.Sprintf("%.2fs", d.Seconds())

	var b strings.Builder
	switch {
	case h > 0:
		fmt.Fprintf(&b, "%dh %dm ", h, m)
	case m > 0:
		fmt.Fprintf(&b, "%dm ", m)
	}
	b.WriteString(sec)
	return b.String()
}
