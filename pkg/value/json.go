package value

import (
	"bytes"
	"encoding/json"

	"gitlab.com/tozd/go/errors"
)

// Marshal encodes a Value as compact JSON, used by ValueToString for
// arrays/maps and by the toJson family of helpers.
func Marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, errors.Errorf("marshal value: %w", err)
	}
	return buf.Bytes(), nil
}

// MarshalIndent encodes a Value as pretty-printed JSON, used by
// toPrettyJson.
func MarshalIndent(v Value, prefix, indent string) ([]byte, error) {
	raw, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, prefix, indent); err != nil {
		return nil, errors.Errorf("indent value: %w", err)
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v Value) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
		return nil
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case KindInt:
		enc, err := json.Marshal(v.i)
		if err != nil {
			return err
		}
		buf.Write(enc)
		return nil
	case KindUint:
		enc, err := json.Marshal(v.u)
		if err != nil {
			return err
		}
		buf.Write(enc)
		return nil
	case KindFloat:
		enc, err := json.Marshal(v.f)
		if err != nil {
			return err
		}
		buf.Write(enc)
		return nil
	case KindString:
		enc, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(enc)
		return nil
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case KindMap:
		buf.WriteByte('{')
		first := true
		v.m.Each(func(k string, ev Value) {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			keyEnc, _ := json.Marshal(k)
			buf.Write(keyEnc)
			buf.WriteByte(':')
			_ = encode(buf, ev)
		})
		buf.WriteByte('}')
		return nil
	default:
		buf.WriteString("null")
		return nil
	}
}

// Unmarshal decodes JSON bytes into a Value, used to load CLI --data input
// and by the fromJson family of helpers. Object key order is preserved.
func Unmarshal(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Null(), errors.Errorf("unmarshal value: %w", err)
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Null(), err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Null(), err
		}
		return Float(f), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			var arr []Value
			for dec.More() {
				elem, err := decodeValue(dec)
				if err != nil {
					return Null(), err
				}
				arr = append(arr, elem)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Null(), err
			}
			return Array(arr), nil
		case '{':
			m := NewOrderedMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Null(), err
				}
				key, _ := keyTok.(string)
				val, err := decodeValue(dec)
				if err != nil {
					return Null(), err
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Null(), err
			}
			return Map(m), nil
		}
	}
	return Null(), errors.Errorf("unexpected JSON token %v", tok)
}
