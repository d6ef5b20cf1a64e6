package sx1278

// SX1278 register addresses (LoRa page). The SPI address field is 7 bits;
// the MSB of the first frame byte selects read (0) or write (1).
const (
	RegFifo               = 0x00 // FIFO read/write access
	RegOpMode             = 0x01 // Operating mode and modulation selection
	RegFrfMsb             = 0x06 // RF carrier frequency MSB
	RegFrfMid             = 0x07 // RF carrier frequency middle byte
	RegFrfLsb             = 0x08 // RF carrier frequency LSB
	RegPaConfig           = 0x09 // PA selection and output power
	RegPaRamp             = 0x0A // PA ramp time
	RegOcp                = 0x0B // Over-current protection
	RegLna                = 0x0C // LNA gain settings
	RegFifoAddrPtr        = 0x0D // FIFO SPI access pointer
	RegFifoTxBaseAddr     = 0x0E // FIFO TX buffer base address
	RegFifoRxBaseAddr     = 0x0F // FIFO RX buffer base address
	RegFifoRxCurrentAddr  = 0x10 // Start address of last packet received
	RegIrqFlagsMask       = 0x11 // IRQ mask bits
	RegIrqFlags           = 0x12 // IRQ status bits
	RegRxNbBytes          = 0x13 // Number of received payload bytes
	RegRxPacketCntMsb     = 0x16 // Received packet counter MSB
	RegRxPacketCntLsb     = 0x17 // Received packet counter LSB
	RegModemStat          = 0x18 // Modem status
	RegPktSnrValue        = 0x19 // SNR of last packet
	RegPktRssiValue       = 0x1A // RSSI of last packet
	RegRssiValue          = 0x1B // Current RSSI
	RegHopChannel         = 0x1C // FHSS channel status
	RegModemConfig1       = 0x1D // Bandwidth, coding rate, header mode
	RegModemConfig2       = 0x1E // Spreading factor, CRC
	RegPreambleMsb        = 0x20 // Preamble length MSB
	RegPreambleLsb        = 0x21 // Preamble length LSB
	RegPayloadLength      = 0x22 // Payload length
	RegMaxPayloadLength   = 0x23 // Maximum payload length
	RegHopPeriod          = 0x24 // FHSS hop period
	RegModemConfig3       = 0x26 // Low data rate optimize, AGC
	RegDetectOptimize     = 0x31 // LoRa detection optimize
	RegDetectionThreshold = 0x37 // LoRa detection threshold
	RegSyncWord           = 0x39 // LoRa sync word
)

// Write flag, OR'd into the address byte of a write frame.
const spiWriteFlag = 0x80

// RegOpMode encodings. Bit 7 selects the modulation family: clear is the
// legacy FSK/OOK page the chip boots into, set is LoRa. The chip only
// accepts a family switch while in sleep.
const (
	ModeFSKSleep     = 0x08
	ModeFSKCad       = 0x0F
	ModeLoRaSleep    = 0x88
	ModeLoRaStandby  = 0x89
	ModeLoRaTx       = 0x8B
	ModeLoRaRxCont   = 0x8D
	ModeLoRaRxSingle = 0x8E
	ModeLoRaCad      = 0x8F

	longRangeModeBit = 0x80
)

// RegIrqFlags bits.
const (
	IrqRxTimeout         = 0x80
	IrqRxDone            = 0x40
	IrqPayloadCrcError   = 0x20
	IrqValidHeader       = 0x10
	IrqTxDone            = 0x08
	IrqCadDone           = 0x04
	IrqFhssChangeChannel = 0x02
	IrqCadDetected       = 0x01
)

// FIFO layout values used by the transmit test.
const (
	FifoTxBase  = 0x80 // upper half of the 256-byte FIFO
	TestPayload = 0xCC
)

// RegisterDescriptions maps each register address to a short label for
// diagnostics output.
var RegisterDescriptions = map[uint8]string{
	RegFifo:               "FIFO - FIFO data access",
	RegOpMode:             "OP_MODE - Operating mode",
	RegFrfMsb:             "FRF_MSB - Carrier frequency MSB",
	RegFrfMid:             "FRF_MID - Carrier frequency middle",
	RegFrfLsb:             "FRF_LSB - Carrier frequency LSB",
	RegPaConfig:           "PA_CONFIG - PA selection and power",
	RegPaRamp:             "PA_RAMP - PA ramp time",
	RegOcp:                "OCP - Over-current protection",
	RegLna:                "LNA - LNA gain",
	RegFifoAddrPtr:        "FIFO_ADDR_PTR - FIFO access pointer",
	RegFifoTxBaseAddr:     "FIFO_TX_BASE - TX buffer base",
	RegFifoRxBaseAddr:     "FIFO_RX_BASE - RX buffer base",
	RegFifoRxCurrentAddr:  "FIFO_RX_CURRENT - Last packet start",
	RegIrqFlagsMask:       "IRQ_FLAGS_MASK - IRQ mask",
	RegIrqFlags:           "IRQ_FLAGS - IRQ status",
	RegRxNbBytes:          "RX_NB_BYTES - Received byte count",
	RegRxPacketCntMsb:     "RX_PKT_CNT_MSB - RX packet counter MSB",
	RegRxPacketCntLsb:     "RX_PKT_CNT_LSB - RX packet counter LSB",
	RegModemStat:          "MODEM_STAT - Modem status",
	RegPktSnrValue:        "PKT_SNR - Last packet SNR",
	RegPktRssiValue:       "PKT_RSSI - Last packet RSSI",
	RegRssiValue:          "RSSI - Current RSSI",
	RegHopChannel:         "HOP_CHANNEL - FHSS channel",
	RegModemConfig1:       "MODEM_CONFIG1 - BW, coding rate, header",
	RegModemConfig2:       "MODEM_CONFIG2 - SF, CRC",
	RegPreambleMsb:        "PREAMBLE_MSB - Preamble length MSB",
	RegPreambleLsb:        "PREAMBLE_LSB - Preamble length LSB",
	RegPayloadLength:      "PAYLOAD_LENGTH - Payload length",
	RegMaxPayloadLength:   "MAX_PAYLOAD_LENGTH - Max payload length",
	RegHopPeriod:          "HOP_PERIOD - FHSS hop period",
	RegModemConfig3:       "MODEM_CONFIG3 - LDRO, AGC",
	RegDetectOptimize:     "DETECT_OPTIMIZE - Detection optimize",
	RegDetectionThreshold: "DETECT_THRESH - Detection threshold",
	RegSyncWord:           "SYNC_WORD - LoRa sync word",
}

// diagnosticRegisters lists every named register except RegFifo, in address
// order. Reading the FIFO data register would advance the chip's internal
// address pointer, so the dump must never touch it.
var diagnosticRegisters = []uint8{
	RegOpMode,
	RegFrfMsb,
	RegFrfMid,
	RegFrfLsb,
	RegPaConfig,
	RegPaRamp,
	RegOcp,
	RegLna,
	RegFifoAddrPtr,
	RegFifoTxBaseAddr,
	RegFifoRxBaseAddr,
	RegFifoRxCurrentAddr,
	RegIrqFlagsMask,
	RegIrqFlags,
	RegRxNbBytes,
	RegRxPacketCntMsb,
	RegRxPacketCntLsb,
	RegModemStat,
	RegPktSnrValue,
	RegPktRssiValue,
	RegRssiValue,
	RegHopChannel,
	RegModemConfig1,
	RegModemConfig2,
	RegPreambleMsb,
	RegPreambleLsb,
	RegPayloadLength,
	RegMaxPayloadLength,
	RegHopPeriod,
	RegModemConfig3,
	RegDetectOptimize,
	RegDetectionThreshold,
	RegSyncWord,
}

// IrqFlagsString renders the set bits of an IRQ flags value as a
// human-readable list, e.g. "[TxDone]".
func IrqFlagsString(flags uint8) string {
	if flags == 0 {
		return "[]"
	}
	names := []struct {
		bit  uint8
		name string
	}{
		{IrqRxTimeout, "RxTimeout"},
		{IrqRxDone, "RxDone"},
		{IrqPayloadCrcError, "PayloadCrcError"},
		{IrqValidHeader, "ValidHeader"},
		{IrqTxDone, "TxDone"},
		{IrqCadDone, "CadDone"},
		{IrqFhssChangeChannel, "FhssChangeChannel"},
		{IrqCadDetected, "CadDetected"},
	}
	s := "["
	for _, n := range names {
		if flags&n.bit == 0 {
			continue
		}
		if len(s) > 1 {
			s += " "
		}
		s += n.name
	}
	return s + "]"
}

// ModeString returns the name of a RegOpMode encoding.
func ModeString(mode uint8) string {
	switch mode {
	case ModeFSKSleep:
		return "fsk_sleep"
	case ModeFSKCad:
		return "fsk_cad"
	case ModeLoRaSleep:
		return "lora_sleep"
	case ModeLoRaStandby:
		return "lora_standby"
	case ModeLoRaTx:
		return "lora_tx"
	case ModeLoRaRxCont:
		return "lora_rx_continuous"
	case ModeLoRaRxSingle:
		return "lora_rx_single"
	case ModeLoRaCad:
		return "lora_cad"
	}
	return "unknown"
}
