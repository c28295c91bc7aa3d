// spi/legacy.go
//
// Previous-generation bus surface, expressed purely in terms of the current
// one so there is exactly one copy of the transfer/copy logic.
package spi

// TransferAndReceiveData transfers buf in place and returns the mutated
// buffer, matching the older generation's transfer signature.
func (b *Bus) TransferAndReceiveData(buf []byte) ([]byte, error) {
	if err := b.TransferInPlace(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// TransferAndReceiveByte clocks out v and returns the byte received in the
// same cycle. Delegates to the poll-style pair; after a successful
// WriteByte the slot is always occupied, so this never blocks.
func (b *Bus) TransferAndReceiveByte(v byte) (byte, error) {
	if err := b.WriteByte(v); err != nil {
		return 0, err
	}
	return b.ReadByte()
}
