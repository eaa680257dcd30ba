package usbotg

import "cm3hal/mmio"

// Core base addresses (STM32F4).
const (
	FS uintptr = 0x5000_0000
	HS uintptr = 0x4004_0000
)

// ---------------- Core global registers ----------------

const (
	GOTGCTL   = 0x000
	GOTGINT   = 0x004
	GAHBCFG   = 0x008
	GUSBCFG   = 0x00c
	GRSTCTL   = 0x010
	GINTSTS   = 0x014
	GINTMSK   = 0x018
	GRXSTSR   = 0x01c
	GRXSTSP   = 0x020
	GRXFSIZ   = 0x024
	GNPTXFSIZ = 0x028 // host mode
	DIEPTXF0  = 0x028 // device mode
	GNPTXSTS  = 0x02c
	GI2CCTL   = 0x030
	GCCFG     = 0x038
	CID       = 0x03c
	GLPMCFG   = 0x054
	HPTXFSIZ  = 0x100
)

// GOTGCTL
const (
	GOTGCTL_VER       = 1 << 20
	GOTGCTL_BSVLD     = 1 << 19
	GOTGCTL_ASVLD     = 1 << 18
	GOTGCTL_DBCT      = 1 << 17
	GOTGCTL_CIDSTS    = 1 << 16
	GOTGCTL_EHEN      = 1 << 12
	GOTGCTL_DHNPEN    = 1 << 11
	GOTGCTL_HSHNPEN   = 1 << 10
	GOTGCTL_HNPRQ     = 1 << 9
	GOTGCTL_HNGSCS    = 1 << 8
	GOTGCTL_BVALOVAL  = 1 << 7 // HS
	GOTGCTL_BVALOEN   = 1 << 6 // HS
	GOTGCTL_AVALOVAL  = 1 << 5 // HS
	GOTGCTL_AVALOEN   = 1 << 4 // HS
	GOTGCTL_VBVALOVAL = 1 << 3 // HS
	GOTGCTL_VBVALOEN  = 1 << 2 // HS
	GOTGCTL_SRQ       = 1 << 1
	GOTGCTL_SRQSCS    = 1 << 0
)

// GOTGINT
const (
	GOTGINT_IDCHNG  = 1 << 20
	GOTGINT_DBCDNE  = 1 << 19
	GOTGINT_ADTOCHG = 1 << 18
	GOTGINT_HNGDET  = 1 << 17
	GOTGINT_HNSSCHG = 1 << 9
	GOTGINT_SRSSCHG = 1 << 8
	GOTGINT_SEDET   = 1 << 2
)

// GAHBCFG
const (
	GAHBCFG_PTXFELVL = 1 << 8
	GAHBCFG_TXFELVL  = 1 << 7
	GAHBCFG_DMAEN    = 1 << 5 // HS
	GAHBCFG_GINTMSK  = 1 << 0

	GAHBCFG_HBSTLEN_SINGLE = 0
	GAHBCFG_HBSTLEN_INCR   = 1
	GAHBCFG_HBSTLEN_INCR4  = 3
	GAHBCFG_HBSTLEN_INCR8  = 5
	GAHBCFG_HBSTLEN_INCR16 = 7
)

var GAHBCFG_HBSTLEN = mmio.Field{Shift: 1, Mask: 0xf} // HS

// GUSBCFG
const (
	GUSBCFG_FDMOD      = 1 << 30
	GUSBCFG_FHMOD      = 1 << 29
	GUSBCFG_ULPIIPD    = 1 << 25 // HS
	GUSBCFG_PTCI       = 1 << 24 // HS
	GUSBCFG_PCCI       = 1 << 23 // HS
	GUSBCFG_TSDPS      = 1 << 22 // HS
	GUSBCFG_ULPIEVBUSI = 1 << 21 // HS
	GUSBCFG_ULPIEVBUSD = 1 << 20 // HS
	GUSBCFG_ULPICSM    = 1 << 19 // HS
	GUSBCFG_ULPIAR     = 1 << 18 // HS
	GUSBCFG_ULPIFSLS   = 1 << 17 // HS
	GUSBCFG_PHYLPCS    = 1 << 15 // HS
	GUSBCFG_HNPCAP     = 1 << 9
	GUSBCFG_SRPCAP     = 1 << 8
	GUSBCFG_PHYSEL     = 1 << 6
)

var (
	GUSBCFG_TRDT  = mmio.Field{Shift: 10, Mask: 0xf}
	GUSBCFG_TOCAL = mmio.Field{Shift: 0, Mask: 0x7}
)

// GRSTCTL
const (
	GRSTCTL_AHBIDL  = 1 << 31
	GRSTCTL_DMAREQ  = 1 << 30 // HS
	GRSTCTL_TXFFLSH = 1 << 5
	GRSTCTL_RXFFLSH = 1 << 4
	GRSTCTL_FCRST   = 1 << 2 // FS
	GRSTCTL_HSRST   = 1 << 1
	GRSTCTL_CSRST   = 1 << 0

	// TXFNUM value that flushes every transmit FIFO.
	GRSTCTL_TXFNUM_ALL = 0x10
)

var GRSTCTL_TXFNUM = mmio.Field{Shift: 6, Mask: 0x1f}

// GINTSTS
const (
	GINTSTS_WKUPINT      = 1 << 31
	GINTSTS_SRQINT       = 1 << 30
	GINTSTS_DISCINT      = 1 << 29
	GINTSTS_CIDSCHG      = 1 << 28
	GINTSTS_LPMINT       = 1 << 27 // FS
	GINTSTS_PTXFE        = 1 << 26
	GINTSTS_HCINT        = 1 << 25
	GINTSTS_HPRTINT      = 1 << 24
	GINTSTS_RSTDET       = 1 << 23 // FS
	GINTSTS_DATAFSUSP    = 1 << 22 // HS
	GINTSTS_IPXFR        = 1 << 21 // host
	GINTSTS_INCOMPISOOUT = 1 << 21 // device
	GINTSTS_IISOIXFR     = 1 << 20
	GINTSTS_OEPINT       = 1 << 19
	GINTSTS_IEPINT       = 1 << 18
	GINTSTS_EOPF         = 1 << 15
	GINTSTS_ISOODRP      = 1 << 14
	GINTSTS_ENUMDNE      = 1 << 13
	GINTSTS_USBRST       = 1 << 12
	GINTSTS_USBSUSP      = 1 << 11
	GINTSTS_ESUSP        = 1 << 10
	GINTSTS_GONAKEFF     = 1 << 7
	GINTSTS_GINAKEFF     = 1 << 6
	GINTSTS_NPTXFE       = 1 << 5
	GINTSTS_RXFLVL       = 1 << 4
	GINTSTS_SOF          = 1 << 3
	GINTSTS_OTGINT       = 1 << 2
	GINTSTS_MMIS         = 1 << 1
	GINTSTS_CMOD         = 1 << 0
)

// GINTMSK
const (
	GINTMSK_WUIM      = 1 << 31
	GINTMSK_SRQIM     = 1 << 30
	GINTMSK_DISCINT   = 1 << 29
	GINTMSK_CIDSCHGM  = 1 << 28
	GINTMSK_LPMINTM   = 1 << 27
	GINTMSK_PTXFEM    = 1 << 26
	GINTMSK_HCIM      = 1 << 25
	GINTMSK_PRTIM     = 1 << 24
	GINTMSK_RSTDETM   = 1 << 23
	GINTMSK_FSUSPM    = 1 << 22 // HS
	GINTMSK_IPXFRM    = 1 << 21 // host
	GINTMSK_IISOOXFRM = 1 << 21 // device
	GINTMSK_IISOIXFRM = 1 << 20
	GINTMSK_OEPINT    = 1 << 19
	GINTMSK_IEPINT    = 1 << 18
	GINTMSK_EOPFM     = 1 << 15
	GINTMSK_ISOODRPM  = 1 << 14
	GINTMSK_ENUMDNEM  = 1 << 13
	GINTMSK_USBRST    = 1 << 12
	GINTMSK_USBSUSPM  = 1 << 11
	GINTMSK_ESUSPM    = 1 << 10
	GINTMSK_GONAKEFFM = 1 << 7
	GINTMSK_GINAKEFFM = 1 << 6
	GINTMSK_NPTXFEM   = 1 << 5
	GINTMSK_RXFLVLM   = 1 << 4
	GINTMSK_SOFM      = 1 << 3
	GINTMSK_OTGINT    = 1 << 2
	GINTMSK_MMISM     = 1 << 1
)

// GRXSTSR / GRXSTSP
var (
	GRXSTS_FRMNUM = mmio.Field{Shift: 21, Mask: 0xf}
	GRXSTS_PKTSTS = mmio.Field{Shift: 17, Mask: 0xf}
	GRXSTS_DPID   = mmio.Field{Shift: 15, Mask: 0x3}
	GRXSTS_BCNT   = mmio.Field{Shift: 4, Mask: 0x3ff}
	GRXSTS_CHNUM  = mmio.Field{Shift: 0, Mask: 0xf} // host
	GRXSTS_EPNUM  = mmio.Field{Shift: 0, Mask: 0xf} // device
)

// GRXSTS packet status values.
const (
	PKTSTS_HOST_IN_DATA     = 2
	PKTSTS_HOST_IN_COMPLETE = 3
	PKTSTS_HOST_TOGGLE_ERR  = 5
	PKTSTS_HOST_HALTED      = 7

	PKTSTS_DEV_GLOBAL_NAK     = 1
	PKTSTS_DEV_OUT_DATA       = 2
	PKTSTS_DEV_OUT_COMPLETE   = 3
	PKTSTS_DEV_SETUP_COMPLETE = 4
	PKTSTS_DEV_SETUP_DATA     = 6
)

// Data PIDs as encoded in GRXSTS.DPID.
const (
	DPID_DATA0 = 0
	DPID_DATA2 = 1
	DPID_DATA1 = 2
	DPID_MDATA = 3
)

// FIFO size registers: GRXFSIZ, GNPTXFSIZ/DIEPTXF0, HPTXFSIZ, DIEPTXFx.
// Depth and start address are in 32-bit words.
var (
	GRXFSIZ_RXFD  = mmio.Field{Shift: 0, Mask: 0xffff}
	TXFSIZ_DEPTH  = mmio.Field{Shift: 16, Mask: 0xffff}
	TXFSIZ_START  = mmio.Field{Shift: 0, Mask: 0xffff}
	GNPTXSTS_QTOP = mmio.Field{Shift: 24, Mask: 0x7f}
	GNPTXSTS_QSAV = mmio.Field{Shift: 16, Mask: 0xff}
	GNPTXSTS_FSAV = mmio.Field{Shift: 0, Mask: 0xffff}
)

// GI2CCTL (HS)
const (
	GI2CCTL_BSYDNE    = 1 << 31
	GI2CCTL_RW        = 1 << 30
	GI2CCTL_I2CDATSE0 = 1 << 28
	GI2CCTL_ACK       = 1 << 24
	GI2CCTL_I2CEN     = 1 << 23
)

var (
	GI2CCTL_I2CDEVADR = mmio.Field{Shift: 26, Mask: 0x3}
	GI2CCTL_ADDR      = mmio.Field{Shift: 16, Mask: 0x7f}
	GI2CCTL_REGADDR   = mmio.Field{Shift: 8, Mask: 0xff}
	GI2CCTL_RWDATA    = mmio.Field{Shift: 0, Mask: 0xff}
)

// GCCFG. VBDEN shares bit 21 with the pre-1.2 NOVBUSSENS.
const (
	GCCFG_VBDEN      = 1 << 21
	GCCFG_NOVBUSSENS = 1 << 21
	GCCFG_SOFOUTEN   = 1 << 20
	GCCFG_VBUSBSEN   = 1 << 19
	GCCFG_VBUSASEN   = 1 << 18
	GCCFG_PWRDWN     = 1 << 16
)

// GLPMCFG
const (
	GLPMCFG_ENBESL  = 1 << 28
	GLPMCFG_SNDLPM  = 1 << 24
	GLPMCFG_L1RSMOK = 1 << 16
	GLPMCFG_SLPSTS  = 1 << 15
	GLPMCFG_L1DSEN  = 1 << 12
	GLPMCFG_L1SSEN  = 1 << 7
	GLPMCFG_REMWAKE = 1 << 6
	GLPMCFG_LPMACK  = 1 << 1
	GLPMCFG_LPMEN   = 1 << 0
)

var (
	GLPMCFG_LPMRCNTSTS = mmio.Field{Shift: 25, Mask: 0x7}
	GLPMCFG_LPMRCNT    = mmio.Field{Shift: 21, Mask: 0x7}
	GLPMCFG_LPMCHIDX   = mmio.Field{Shift: 17, Mask: 0xf}
	GLPMCFG_LPMRST     = mmio.Field{Shift: 13, Mask: 0x3}
	GLPMCFG_BESLTHRS   = mmio.Field{Shift: 8, Mask: 0xf}
	GLPMCFG_BESL       = mmio.Field{Shift: 2, Mask: 0xf}
)

// ---------------- Host mode ----------------

const (
	HCFG     = 0x400
	HFIR     = 0x404
	HFNUM    = 0x408
	HPTXSTS  = 0x410
	HAINT    = 0x414
	HAINTMSK = 0x418
	HPRT     = 0x440
)

const (
	HCFG_FSLSS         = 1 << 2
	HCFG_FSLSPCS_48MHZ = 1
	HCFG_FSLSPCS_6MHZ  = 2

	HFIR_RLDCTRL = 1 << 16
)

var (
	HCFG_FSLSPCS  = mmio.Field{Shift: 0, Mask: 0x3}
	HFIR_FRIVL    = mmio.Field{Shift: 0, Mask: 0xffff}
	HFNUM_FTREM   = mmio.Field{Shift: 16, Mask: 0xffff}
	HFNUM_FRNUM   = mmio.Field{Shift: 0, Mask: 0xffff}
	HPTXSTS_QTOP  = mmio.Field{Shift: 24, Mask: 0xff}
	HPTXSTS_QSAV  = mmio.Field{Shift: 16, Mask: 0xff}
	HPTXSTS_FSAVL = mmio.Field{Shift: 0, Mask: 0xffff}
	HAINT_HAINT   = mmio.Field{Shift: 0, Mask: 0xffff}
	HAINTMSK_MASK = mmio.Field{Shift: 0, Mask: 0xffff}
)

// HPRT. PENA, PCDET, PENCHNG and POCCHNG are write-1-to-clear; preserve
// them as zero when modifying other bits (HPRT_W1C).
const (
	HPRT_PPWR    = 1 << 12
	HPRT_PRST    = 1 << 8
	HPRT_PSUSP   = 1 << 7
	HPRT_PRES    = 1 << 6
	HPRT_POCCHNG = 1 << 5
	HPRT_POCA    = 1 << 4
	HPRT_PENCHNG = 1 << 3
	HPRT_PENA    = 1 << 2
	HPRT_PCDET   = 1 << 1
	HPRT_PCSTS   = 1 << 0

	HPRT_W1C = HPRT_PENA | HPRT_PCDET | HPRT_PENCHNG | HPRT_POCCHNG
)

var (
	HPRT_PSPD  = mmio.Field{Shift: 17, Mask: 0x3}
	HPRT_PTCTL = mmio.Field{Shift: 13, Mask: 0xf}
	HPRT_PLSTS = mmio.Field{Shift: 10, Mask: 0x3}
)

// Host channel register offsets, relative to the channel block.
const (
	hcBase   = 0x500
	hcStride = 0x20

	offHCCHAR   = 0x00
	offHCSPLT   = 0x04
	offHCINT    = 0x08
	offHCINTMSK = 0x0c
	offHCTSIZ   = 0x10
	offHCDMA    = 0x14 // HS
)

// HCCHAR
const (
	HCCHAR_CHENA  = 1 << 31
	HCCHAR_CHDIS  = 1 << 30
	HCCHAR_ODDFRM = 1 << 29
	HCCHAR_LSDEV  = 1 << 17
	HCCHAR_EPDIR  = 1 << 15 // set for IN

	EPTYP_CONTROL     = 0
	EPTYP_ISOCHRONOUS = 1
	EPTYP_BULK        = 2
	EPTYP_INTERRUPT   = 3
)

var (
	HCCHAR_DAD    = mmio.Field{Shift: 22, Mask: 0x7f}
	HCCHAR_MCNT   = mmio.Field{Shift: 20, Mask: 0x3}
	HCCHAR_EPTYP  = mmio.Field{Shift: 18, Mask: 0x3}
	HCCHAR_EPNUM  = mmio.Field{Shift: 11, Mask: 0xf}
	HCCHAR_MPSIZ  = mmio.Field{Shift: 0, Mask: 0x7ff}
	HCSPLT_XACTPS = mmio.Field{Shift: 14, Mask: 0x3}
	HCSPLT_HUB    = mmio.Field{Shift: 7, Mask: 0x7f}
	HCSPLT_PORT   = mmio.Field{Shift: 0, Mask: 0x7f}
)

// HCSPLT
const (
	HCSPLT_SPLITEN   = 1 << 31
	HCSPLT_COMPLSPLT = 1 << 16

	XACTPOS_MID   = 0
	XACTPOS_END   = 1
	XACTPOS_BEGIN = 2
	XACTPOS_ALL   = 3
)

// HCINT / HCINTMSK share bit positions.
const (
	HCINT_DTERR  = 1 << 10
	HCINT_FRMOR  = 1 << 9
	HCINT_BBERR  = 1 << 8
	HCINT_TXERR  = 1 << 7
	HCINT_NYET   = 1 << 6 // HS
	HCINT_ACK    = 1 << 5
	HCINT_NAK    = 1 << 4
	HCINT_STALL  = 1 << 3
	HCINT_AHBERR = 1 << 2 // HS
	HCINT_CHH    = 1 << 1
	HCINT_XFRC   = 1 << 0
)

// HCTSIZ
const (
	HCTSIZ_DOPING = 1 << 31

	HCTSIZ_DPID_DATA0 = 0
	HCTSIZ_DPID_DATA2 = 1
	HCTSIZ_DPID_DATA1 = 2
	HCTSIZ_DPID_SETUP = 3 // FS
	HCTSIZ_DPID_MDATA = 3 // HS
)

var (
	HCTSIZ_DPID   = mmio.Field{Shift: 29, Mask: 0x3}
	HCTSIZ_PKTCNT = mmio.Field{Shift: 19, Mask: 0x3ff}
	HCTSIZ_XFRSIZ = mmio.Field{Shift: 0, Mask: 0x7ffff}
)

// ---------------- Device mode ----------------

const (
	DCFG       = 0x800
	DCTL       = 0x804
	DSTS       = 0x808
	DIEPMSK    = 0x810
	DOEPMSK    = 0x814
	DAINT      = 0x818
	DAINTMSK   = 0x81c
	DVBUSDIS   = 0x828
	DVBUSPULSE = 0x82c
	DTHRCTL    = 0x830 // HS
	DIEPEMPMSK = 0x834
	DEACHINT   = 0x838 // HS
	DEACHINTMS = 0x83c // HS
	PCGCCTL    = 0xe00
)

// DCFG
const (
	DCFG_ERRATIM  = 1 << 15
	DCFG_NZLSOHSK = 1 << 2

	DCFG_PERSCHIVL_25PCT = 0
	DCFG_PERSCHIVL_50PCT = 1
	DCFG_PERSCHIVL_75PCT = 2

	DSPD_HIGH         = 0
	DSPD_FULL_EXT_PHY = 1
	DSPD_FULL         = 3
)

var (
	DCFG_PERSCHIVL = mmio.Field{Shift: 24, Mask: 0x3} // HS
	DCFG_PFIVL     = mmio.Field{Shift: 11, Mask: 0x3}
	DCFG_DAD       = mmio.Field{Shift: 4, Mask: 0x7f}
	DCFG_DSPD      = mmio.Field{Shift: 0, Mask: 0x3}
)

// DCTL
const (
	DCTL_DSBESLRJCT = 1 << 18
	DCTL_POPRGDNE   = 1 << 11
	DCTL_CGONAK     = 1 << 10
	DCTL_SGONAK     = 1 << 9
	DCTL_CGINAK     = 1 << 8
	DCTL_SGINAK     = 1 << 7
	DCTL_GONSTS     = 1 << 3
	DCTL_GINSTS     = 1 << 2
	DCTL_SDIS       = 1 << 1
	DCTL_RWUSIG     = 1 << 0

	TCTL_DISABLE      = 0
	TCTL_TEST_J       = 1
	TCTL_TEST_K       = 2
	TCTL_TEST_SE0_NAK = 3
	TCTL_TEST_PACKET  = 4
	TCTL_FORCE_ENABLE = 5
)

var DCTL_TCTL = mmio.Field{Shift: 4, Mask: 0x7}

// DSTS
const (
	DSTS_EERR    = 1 << 3
	DSTS_SUSPSTS = 1 << 0
)

var (
	DSTS_DEVLNSTS = mmio.Field{Shift: 22, Mask: 0x3}
	DSTS_FNSOF    = mmio.Field{Shift: 8, Mask: 0x3fff}
	DSTS_ENUMSPD  = mmio.Field{Shift: 1, Mask: 0x3}
)

// DIEPMSK
const (
	DIEPMSK_NAKM      = 1 << 13
	DIEPMSK_BIM       = 1 << 9 // HS
	DIEPMSK_TXFURM    = 1 << 8 // HS
	DIEPMSK_INEPNEM   = 1 << 6
	DIEPMSK_INEPNMM   = 1 << 5
	DIEPMSK_ITTXFEMSK = 1 << 4
	DIEPMSK_TOM       = 1 << 3
	DIEPMSK_EPDM      = 1 << 1
	DIEPMSK_XFRCM     = 1 << 0
)

// DOEPMSK
const (
	DOEPMSK_NYETMSK = 1 << 14 // HS
	DOEPMSK_BOIM    = 1 << 9  // HS
	DOEPMSK_OPEM    = 1 << 8  // HS
	DOEPMSK_B2BSTUP = 1 << 6  // HS
	DOEPMSK_OTEPDM  = 1 << 4
	DOEPMSK_STUPM   = 1 << 3
	DOEPMSK_EPDM    = 1 << 1
	DOEPMSK_XFRCM   = 1 << 0
)

var (
	DAINT_OEPINT       = mmio.Field{Shift: 16, Mask: 0xffff}
	DAINT_IEPINT       = mmio.Field{Shift: 0, Mask: 0xffff}
	DAINTMSK_OEPM      = mmio.Field{Shift: 16, Mask: 0xffff}
	DAINTMSK_IEPM      = mmio.Field{Shift: 0, Mask: 0xffff}
	DVBUSDIS_VBUSDT    = mmio.Field{Shift: 0, Mask: 0xffff}
	DVBUSPULSE_DVBUSP  = mmio.Field{Shift: 0, Mask: 0xffff}
	DTHRCTL_RXTHRLEN   = mmio.Field{Shift: 17, Mask: 0x1ff}
	DTHRCTL_TXTHRLEN   = mmio.Field{Shift: 2, Mask: 0x1ff}
	DIEPEMPMSK_INEPTXF = mmio.Field{Shift: 0, Mask: 0xffff}
)

// DTHRCTL (HS)
const (
	DTHRCTL_ARPEN      = 1 << 27
	DTHRCTL_RXTHREN    = 1 << 16
	DTHRCTL_ISOTHREN   = 1 << 1
	DTHRCTL_NONISOTHEN = 1 << 0
)

// DEACHINT / DEACHINTMSK (HS)
const (
	DEACHINT_OEP1INT = 1 << 17
	DEACHINT_IEP1INT = 1 << 1
)

// Endpoint register blocks.
const (
	inEPBase  = 0x900
	outEPBase = 0xb00
	epStride  = 0x20

	offEPCTL   = 0x00
	offEPINT   = 0x08
	offEPTSIZ  = 0x10
	offEPDMA   = 0x14 // HS
	offDTXFSTS = 0x18 // IN only
)

// DIEPCTLx / DOEPCTLx. Bits 28-29 are the DATA0/DATA1 PID setters on
// bulk and interrupt endpoints and the even/odd frame setters on
// isochronous ones.
const (
	EPCTL_EPENA   = 1 << 31
	EPCTL_EPDIS   = 1 << 30
	EPCTL_SD1PID  = 1 << 29
	EPCTL_SODDFRM = 1 << 29
	EPCTL_SD0PID  = 1 << 28
	EPCTL_SEVNFRM = 1 << 28
	EPCTL_SNAK    = 1 << 27
	EPCTL_CNAK    = 1 << 26
	EPCTL_STALL   = 1 << 21
	EPCTL_SNPM    = 1 << 20 // OUT only
	EPCTL_NAKSTS  = 1 << 17
	EPCTL_EONUM   = 1 << 16
	EPCTL_DPID    = 1 << 16
	EPCTL_USBAEP  = 1 << 15
)

var (
	DIEPCTL_TXFNUM = mmio.Field{Shift: 22, Mask: 0xf}
	EPCTL_EPTYP    = mmio.Field{Shift: 18, Mask: 0x3}
	EPCTL_MPSIZ    = mmio.Field{Shift: 0, Mask: 0x7ff}
	// Endpoint 0 encodes its max packet size in two bits.
	EP0CTL_MPSIZ = mmio.Field{Shift: 0, Mask: 0x3}
)

// EP0 MPSIZ codes.
const (
	EP0_MPSIZ_64 = 0
	EP0_MPSIZ_32 = 1
	EP0_MPSIZ_16 = 2
	EP0_MPSIZ_8  = 3
)

// DIEPINTx
const (
	DIEPINT_NAK       = 1 << 13 // HS
	DIEPINT_BERR      = 1 << 12 // HS
	DIEPINT_PKTDRPSTS = 1 << 11 // HS
	DIEPINT_BNA       = 1 << 9  // HS
	DIEPINT_TXFIFOUDR = 1 << 8  // HS
	DIEPINT_TXFE      = 1 << 7
	DIEPINT_INEPNE    = 1 << 6
	DIEPINT_ITTXFE    = 1 << 4
	DIEPINT_TOC       = 1 << 3
	DIEPINT_EPDISD    = 1 << 1
	DIEPINT_XFRC      = 1 << 0
)

// DOEPINTx
const (
	DOEPINT_B2BSTUP = 1 << 6
	DOEPINT_OTEPDIS = 1 << 4
	DOEPINT_STUP    = 1 << 3
	DOEPINT_EPDISD  = 1 << 1
	DOEPINT_XFRC    = 1 << 0
)

// DIEPTSIZx / DOEPTSIZx. MCNT (IN), STUPCNT (OUT EP0) and RXDPID (OUT
// isochronous) share bits 30:29.
var (
	EPTSIZ_MCNT    = mmio.Field{Shift: 29, Mask: 0x3}
	EPTSIZ_STUPCNT = mmio.Field{Shift: 29, Mask: 0x3}
	EPTSIZ_RXDPID  = mmio.Field{Shift: 29, Mask: 0x3}
	EPTSIZ_PKTCNT  = mmio.Field{Shift: 19, Mask: 0x3ff}
	EPTSIZ_XFRSIZ  = mmio.Field{Shift: 0, Mask: 0x7ffff}
	DTXFSTS_FSAV   = mmio.Field{Shift: 0, Mask: 0xffff}
)

// PCGCCTL
const (
	PCGCCTL_SUSP     = 1 << 7
	PCGCCTL_PHYSLEEP = 1 << 6
	PCGCCTL_ENL1GTG  = 1 << 5
	PCGCCTL_PHYSUSP  = 1 << 4
	PCGCCTL_GATEHCLK = 1 << 1
	PCGCCTL_STPPCLK  = 1 << 0
)

// Data FIFO windows.
const (
	fifoBase   = 0x1000
	fifoStride = 0x1000
)
