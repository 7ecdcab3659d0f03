package emu

// DMAMode is the OAM DMA sequencer state.
type DMAMode int

const (
	DMAOff DMAMode = iota
	DMAWaiting
	DMATransferring
)

const (
	regDMA = 0xFF46

	dmaStartDelay = 1
	dmaLength     = 160 // Bytes copied, and cycles spent transferring
)

// DMA copies 160 bytes into OAM after a fixed delay. The CPU is not stalled.
type DMA struct {
	mode   DMAMode
	ticks  int
	source uint16
	reg    uint8
}

// Start latches the source page and enters the waiting state.
func (d *DMA) Start(val uint8) {
	d.reg = val
	d.mode = DMAWaiting
	d.source = uint16(val) << 8
	d.ticks = 0
}

// Tick advances the sequencer. The copy happens in one go once the
// transfer period has elapsed.
func (d *DMA) Tick(cycles int, b *Bus) {
	if d.mode == DMAOff {
		return
	}
	d.ticks += cycles

	switch d.mode {
	case DMAWaiting:
		if d.ticks >= dmaStartDelay {
			d.ticks -= dmaStartDelay
			d.mode = DMATransferring
		}
	case DMATransferring:
		if d.ticks >= dmaLength {
			for i := uint16(0); i < dmaLength; i++ {
				b.mem.oam[i] = b.Read(d.source + i)
			}
			d.mode = DMAOff
		}
	}
}

// Mode returns the current sequencer state.
func (d *DMA) Mode() DMAMode {
	return d.mode
}
