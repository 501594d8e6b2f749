package io

// Queue is a scripted Keyboard, a circular buffer of pending keys with a
// fixed capacity.
type Queue struct {
	Capacity int // Capacity in keys.

	ReadIndex  int
	WriteIndex int
	Size       int
	Data       []int16
}

var _ Keyboard = (*Queue)(nil)

// Rewind resets the queue to empty, resetting indices and reinitializing
// the data buffer.
func (kq *Queue) Rewind() {
	kq.ReadIndex = 0
	kq.WriteIndex = 0
	kq.Size = 0
	kq.Data = make([]int16, kq.Capacity)
}

// Send appends a key at the current write position.
// Returns ErrChannelFull if the buffer has reached capacity.
func (kq *Queue) Send(key int16) (err error) {
	if len(kq.Data) != kq.Capacity {
		kq.Rewind()
	}

	if kq.Size >= kq.Capacity {
		err = ErrChannelFull
		return
	}

	kq.Data[kq.WriteIndex] = key

	kq.WriteIndex++
	if kq.WriteIndex == kq.Capacity {
		kq.WriteIndex = 0
	}
	kq.Size++

	return
}

// SendString queues every byte of text.
func (kq *Queue) SendString(text string) (err error) {
	for n := range len(text) {
		err = kq.Send(int16(text[n]))
		if err != nil {
			return
		}
	}
	return
}

// Poll removes the oldest key from the buffer.
func (kq *Queue) Poll() (key int16, ok bool) {
	if kq.Size == 0 {
		return
	}

	key = kq.Data[kq.ReadIndex]
	kq.ReadIndex++
	if kq.ReadIndex == kq.Capacity {
		kq.ReadIndex = 0
	}
	kq.Size--
	ok = true

	return
}
