package usart

// Instance base addresses (STM32F0).
const (
	USART1 uintptr = 0x4001_3800
	USART2 uintptr = 0x4000_4400
	USART3 uintptr = 0x4000_4800
	USART4 uintptr = 0x4000_4c00
	USART5 uintptr = 0x4000_5000
	USART6 uintptr = 0x4001_1400
	USART7 uintptr = 0x4001_1800
	USART8 uintptr = 0x4001_1c00
)

var instances = map[string]uintptr{
	"usart1": USART1,
	"usart2": USART2,
	"usart3": USART3,
	"usart4": USART4,
	"usart5": USART5,
	"usart6": USART6,
	"usart7": USART7,
	"usart8": USART8,
}

// Base looks up an instance by its lower-case name ("usart1").
func Base(name string) (uintptr, bool) {
	b, ok := instances[name]
	return b, ok
}

// Name is the inverse of Base; unknown bases return "".
func Name(base uintptr) string {
	for n, b := range instances {
		if b == base {
			return n
		}
	}
	return ""
}

// Register offsets.
const (
	offCR1  = 0x00
	offCR2  = 0x04
	offCR3  = 0x08
	offBRR  = 0x0c
	offGTPR = 0x10
	offRTOR = 0x14
	offRQR  = 0x18
	offISR  = 0x1c
	offICR  = 0x20
	offRDR  = 0x24
	offTDR  = 0x28
)

// CR1 bits.
const (
	cr1UE     = 1 << 0
	cr1UESM   = 1 << 1
	cr1RE     = 1 << 2
	cr1TE     = 1 << 3
	cr1IDLEIE = 1 << 4
	cr1RXNEIE = 1 << 5
	cr1TCIE   = 1 << 6
	cr1TXEIE  = 1 << 7
	cr1PEIE   = 1 << 8
	cr1PS     = 1 << 9
	cr1PCE    = 1 << 10
	cr1WAKE   = 1 << 11
	cr1M0     = 1 << 12
	cr1MME    = 1 << 13
	cr1CMIE   = 1 << 14
	cr1OVER8  = 1 << 15
	cr1RTOIE  = 1 << 26
	cr1EOBIE  = 1 << 27
	cr1M1     = 1 << 28

	cr1Parity = cr1PCE | cr1PS
	cr1Mode   = cr1RE | cr1TE
	cr1Word   = cr1M0 | cr1M1
)

// CR2 fields.
const (
	cr2StopShift   = 12
	cr2StopMask    = 0x3 << cr2StopShift
	cr2ABREN       = 1 << 20
	cr2ABRModShift = 21
	cr2ABRModMask  = 0x3 << cr2ABRModShift
	cr2RTOEN       = 1 << 23
)

// RQR requests.
const (
	rqrABRRQ = 1 << 0
	rqrSBKRQ = 1 << 1
	rqrMMRQ  = 1 << 2
	rqrRXFRQ = 1 << 3
	rqrTXFRQ = 1 << 4
)

// RTOR.RTO width, in bit times.
const MaxReceiverTimeout = 1<<24 - 1

// CR3 bits.
const (
	cr3EIE    = 1 << 0
	cr3IREN   = 1 << 1
	cr3HDSEL  = 1 << 3
	cr3DMAR   = 1 << 6
	cr3DMAT   = 1 << 7
	cr3RTSE   = 1 << 8
	cr3CTSE   = 1 << 9
	cr3CTSIE  = 1 << 10
	cr3ONEBIT = 1 << 11
	cr3OVRDIS = 1 << 12

	cr3Flow = cr3RTSE | cr3CTSE
)

// Flag is an ISR status bit.
type Flag uint32

const (
	FlagPE    Flag = 1 << 0
	FlagFE    Flag = 1 << 1
	FlagNF    Flag = 1 << 2
	FlagORE   Flag = 1 << 3
	FlagIDLE  Flag = 1 << 4
	FlagRXNE  Flag = 1 << 5
	FlagTC    Flag = 1 << 6
	FlagTXE   Flag = 1 << 7
	FlagLBDF  Flag = 1 << 8
	FlagCTSIF Flag = 1 << 9
	FlagCTS   Flag = 1 << 10
	FlagRTOF  Flag = 1 << 11
	FlagEOBF  Flag = 1 << 12
	FlagABRE  Flag = 1 << 14
	FlagABRF  Flag = 1 << 15
	FlagBUSY  Flag = 1 << 16
	FlagCMF   Flag = 1 << 17
	FlagSBKF  Flag = 1 << 18
	FlagRWU   Flag = 1 << 19
	FlagWUF   Flag = 1 << 20
	FlagTEACK Flag = 1 << 21
	FlagREACK Flag = 1 << 22
)

// ICR clear bits; each clears the ISR flag at the same position.
const (
	ClearPE   Flag = 1 << 0
	ClearFE   Flag = 1 << 1
	ClearNF   Flag = 1 << 2
	ClearORE  Flag = 1 << 3
	ClearIDLE Flag = 1 << 4
	ClearTC   Flag = 1 << 6
	ClearLBD  Flag = 1 << 8
	ClearCTS  Flag = 1 << 9
	ClearRTO  Flag = 1 << 11
	ClearEOB  Flag = 1 << 12
	ClearCM   Flag = 1 << 17
	ClearWU   Flag = 1 << 20
)

// AutoBaudMode selects what CR2.ABRMOD measures.
type AutoBaudMode uint8

const (
	AutoBaudStartBit    AutoBaudMode = 0 // start bit duration
	AutoBaudFallingEdge AutoBaudMode = 1 // falling edge to falling edge
	AutoBaud0x7F        AutoBaudMode = 2 // 0x7F frame
	AutoBaud0x55        AutoBaudMode = 3 // 0x55 frame ('U')
)
