package jpeg

import "fmt"

// Segment markers. Each appears on the wire as 0xFF followed by the low
// byte; the constants keep both bytes for readability.
const (
	markerTEM  = 0xFF01
	markerSOF0 = 0xFFC0
	markerDHT  = 0xFFC4
	markerJPG  = 0xFFC8
	markerDAC  = 0xFFCC
	markerRST0 = 0xFFD0
	markerRST7 = 0xFFD7
	markerSOI  = 0xFFD8
	markerEOI  = 0xFFD9
	markerSOS  = 0xFFDA
	markerDQT  = 0xFFDB
	markerDNL  = 0xFFDC
	markerDRI  = 0xFFDD
	markerAPP0 = 0xFFE0
	markerAPP1 = 0xFFE1
	markerCOM  = 0xFFFE
)

// standalone reports whether a marker carries no length or payload.
func standalone(m uint16) bool {
	return m == markerTEM || m == markerSOI || m == markerEOI ||
		(m >= markerRST0 && m <= markerRST7)
}

// markerName returns the conventional short name for a marker, or its
// hex form when it has none.
func markerName(m uint16) string {
	switch m {
	case markerTEM:
		return "TEM"
	case markerDHT:
		return "DHT"
	case markerJPG:
		return "JPG"
	case markerDAC:
		return "DAC"
	case markerSOI:
		return "SOI"
	case markerEOI:
		return "EOI"
	case markerSOS:
		return "SOS"
	case markerDQT:
		return "DQT"
	case markerDNL:
		return "DNL"
	case markerDRI:
		return "DRI"
	case markerCOM:
		return "COM"
	}
	switch {
	case m >= markerSOF0 && m <= markerDAC:
		return fmt.Sprintf("SOF%d", m-markerSOF0)
	case m >= markerRST0 && m <= markerRST7:
		return fmt.Sprintf("RST%d", m-markerRST0)
	case m >= markerAPP0 && m <= 0xFFEF:
		return fmt.Sprintf("APP%d", m-markerAPP0)
	}
	return fmt.Sprintf("0x%04X", m)
}

// sofMarker reports whether a marker is a start-of-frame variant, which
// carries image dimensions in its payload.
func sofMarker(m uint16) bool {
	switch m {
	case markerDHT, markerJPG, markerDAC:
		return false
	}
	return m >= markerSOF0 && m <= markerDAC
}
