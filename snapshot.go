package flagmask

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"sort"

	"github.com/hupe1980/flagmask/codec"
	"github.com/hupe1980/flagmask/internal/blockcodec"
	"github.com/hupe1980/flagmask/internal/conv"
	"github.com/hupe1980/flagmask/internal/lane"
)

// Snapshot layout:
//
//	"FLGM" | version u8 | compression u8 | codec name len u8 | codec name
//	| blockcodec frame of payload
//
// payload:
//
//	size u64 | width u8 | table len u32 | table | size lane values, little-endian
var snapshotMagic = [4]byte{'F', 'L', 'G', 'M'}

const snapshotVersion = 1

type tableEntry struct {
	Name string `json:"name"`
	Bit  uint8  `json:"bit"`
}

// MarshalBinary encodes the population size, strip width, flag table and
// every entity's bitmask.
func (m *Manager) MarshalBinary() ([]byte, error) {
	table := make([]tableEntry, 0, len(m.bits))
	for name, bit := range m.bits {
		table = append(table, tableEntry{Name: name, Bit: bit})
	}
	sort.Slice(table, func(i, j int) bool { return table[i].Bit < table[j].Bit })

	c := m.opts.codec
	tableBytes, err := c.Marshal(table)
	if err != nil {
		return nil, err
	}

	tableLen, err := conv.IntToUint32(len(tableBytes))
	if err != nil {
		return nil, err
	}

	w := m.lanes.Width()
	payload := make([]byte, 0, 13+len(tableBytes)+m.size*w.Bytes())
	payload = binary.LittleEndian.AppendUint64(payload, uint64(m.size))
	payload = append(payload, uint8(w))
	payload = binary.LittleEndian.AppendUint32(payload, tableLen)
	payload = append(payload, tableBytes...)
	payload = m.lanes.AppendLE(payload)

	frame, err := blockcodec.Encode(payload, m.opts.compression)
	if err != nil {
		return nil, err
	}

	name := c.Name()
	if len(name) > math.MaxUint8 {
		return nil, errors.New("codec name too long")
	}

	out := make([]byte, 0, len(snapshotMagic)+3+len(name)+len(frame))
	out = append(out, snapshotMagic[:]...)
	out = append(out, snapshotVersion, uint8(m.opts.compression), uint8(len(name)))
	out = append(out, name...)
	out = append(out, frame...)
	return out, nil
}

// UnmarshalBinary replaces the receiver's state with a snapshot produced by
// MarshalBinary. On error the receiver is left unchanged.
//
// A zero Manager may be used as the receiver; it gets default options.
func (m *Manager) UnmarshalBinary(data []byte) error {
	if len(data) < len(snapshotMagic)+3 || !bytes.Equal(data[:4], snapshotMagic[:]) {
		return corrupt("bad magic")
	}
	if v := data[4]; v != snapshotVersion {
		return corrupt("unsupported version %d", v)
	}
	compression := blockcodec.Type(data[5])
	if !compression.Valid() {
		return corrupt("unknown compression type %d", compression)
	}
	nameLen := int(data[6])
	rest := data[7:]
	if len(rest) < nameLen {
		return corrupt("truncated codec name")
	}
	c, ok := codec.ByName(string(rest[:nameLen]))
	if !ok {
		return corrupt("unknown codec %q", rest[:nameLen])
	}

	frame := rest[nameLen:]
	payload, n, err := blockcodec.Decode(frame, compression)
	if err != nil {
		return corrupt("%v", err)
	}
	if n != len(frame) {
		return corrupt("%d trailing bytes after payload", len(frame)-n)
	}
	if len(payload) < 13 {
		return corrupt("payload too short")
	}

	size, err := conv.Uint64ToInt(binary.LittleEndian.Uint64(payload[0:]))
	if err != nil {
		return corrupt("population size: %v", err)
	}
	width := lane.Width(payload[8])
	if !width.Valid() {
		return corrupt("%v: %d", ErrInvalidWidth, width)
	}
	tableLen := int(binary.LittleEndian.Uint32(payload[9:]))
	payload = payload[13:]
	if len(payload) < tableLen {
		return corrupt("truncated flag table")
	}

	var table []tableEntry
	if err := c.Unmarshal(payload[:tableLen], &table); err != nil {
		return corrupt("flag table: %v", err)
	}

	bitsByName := make(map[string]uint8, len(table))
	var used uint64
	for _, e := range table {
		if e.Bit >= uint8(width) {
			return corrupt("flag %q at bit %d exceeds width %d", e.Name, e.Bit, width)
		}
		if _, dup := bitsByName[e.Name]; dup {
			return corrupt("duplicate flag %q", e.Name)
		}
		if used&(1<<e.Bit) != 0 {
			return corrupt("bit %d assigned twice", e.Bit)
		}
		bitsByName[e.Name] = e.Bit
		used |= 1 << e.Bit
	}

	raw := payload[tableLen:]
	if len(raw)%width.Bytes() != 0 || len(raw)/width.Bytes() != size {
		return corrupt("expected %d entities of %d bytes, got %d bytes", size, width.Bytes(), len(raw))
	}
	lanes, err := lane.DecodeLE(width, size, raw)
	if err != nil {
		return corrupt("%v", err)
	}

	if m.opts.logger == nil {
		m.opts = defaultOptions()
	}
	m.size = size
	m.lanes = lanes
	m.bits = bitsByName
	m.used = used
	return nil
}

// WriteTo writes the snapshot of m to w. It implements io.WriterTo.
func (m *Manager) WriteTo(w io.Writer) (int64, error) {
	data, err := m.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// ReadFrom replaces m's state with a snapshot read from r until EOF.
// It implements io.ReaderFrom.
func (m *Manager) ReadFrom(r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return int64(len(data)), err
	}
	return int64(len(data)), m.UnmarshalBinary(data)
}

// Load decodes a snapshot into a new Manager configured with optFns.
// The snapshot's own codec and compression are used for decoding; optFns
// apply to later operations and snapshots.
func Load(data []byte, optFns ...Option) (*Manager, error) {
	opts, err := newOptions(optFns)
	if err != nil {
		return nil, err
	}
	m := &Manager{opts: opts}
	if err := m.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return m, nil
}
