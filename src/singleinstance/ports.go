package singleinstance

import "fmt"

const (
	DefaultPortStart = 49500
	DefaultPortEnd   = 49550
)

// PortRange is an inclusive range of loopback ports.
type PortRange struct {
	Start int
	End   int
}

func DefaultPortRange() PortRange {
	return PortRange{Start: DefaultPortStart, End: DefaultPortEnd}
}

// Normalize clamps the range to [1024, 65535] and orders it. A zero range
// becomes the default one.
func (p PortRange) Normalize() PortRange {
	if p.Start == 0 && p.End == 0 {
		return DefaultPortRange()
	}
	if p.Start < 1024 {
		p.Start = 1024
	}
	if p.End > 65535 {
		p.End = 65535
	}
	if p.End < p.Start {
		p.Start, p.End = p.End, p.Start
	}
	return p
}

func (p PortRange) String() string {
	return fmt.Sprintf("%d-%d", p.Start, p.End)
}
