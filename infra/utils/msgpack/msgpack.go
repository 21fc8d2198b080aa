package msgpack

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// RawMessage - сырое msgpack-значение, декодируется позже
type RawMessage = msgpack.RawMessage

type Converter struct {
	buf     *bytes.Buffer
	encoder *msgpack.Encoder
}

func New() Converter {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.UseCompactFloats(true)
	enc.UseCompactInts(true)
	return Converter{
		buf:     &buf,
		encoder: enc,
	}
}

func (c Converter) Marshal(v interface{}) ([]byte, error) {
	if err := c.encoder.Encode(v); err != nil {
		return nil, err
	}
	return io.ReadAll(c.buf)
}

// MarshalVariant - кодирует значение как enum в стиле serde: map с
// единственным ключом-именем варианта; nil payload кодирует unit-вариант
func (c Converter) MarshalVariant(name string, payload interface{}) ([]byte, error) {
	if err := c.encoder.Encode(map[string]interface{}{name: payload}); err != nil {
		return nil, err
	}
	return io.ReadAll(c.buf)
}

func Unmarshal(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}

// UnmarshalVariant - достает имя варианта и его сырую полезную нагрузку.
// Ровно один ключ, иначе это не enum.
func UnmarshalVariant(data []byte) (string, RawMessage, error) {
	m := make(map[string]RawMessage, 1)
	if err := msgpack.Unmarshal(data, &m); err != nil {
		return "", nil, err
	}
	if len(m) != 1 {
		return "", nil, errors.Errorf("expected single-variant enum map, got %d keys", len(m))
	}
	for name, payload := range m {
		return name, payload, nil
	}
	return "", nil, errors.New("unreachable")
}
