package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// Table represents an AMQP field table
type Table map[string]interface{}

// encodeShortString encodes a short string (1-byte length prefix)
func encodeShortString(s string) []byte {
	result := make([]byte, 1+len(s))
	result[0] = byte(len(s))
	copy(result[1:], s)
	return result
}

// encodeLongString encodes a long string (4-byte length prefix)
func encodeLongString(data []byte) []byte {
	result := make([]byte, 4+len(data))
	binary.BigEndian.PutUint32(result[0:4], uint32(len(data)))
	copy(result[4:], data)
	return result
}

// decodeShortString decodes a short string at offset, returning the value
// and the offset past it
func decodeShortString(data []byte, offset int) (string, int, error) {
	if offset >= len(data) {
		return "", 0, fmt.Errorf("insufficient data for short string length")
	}
	length := int(data[offset])
	offset++
	if offset+length > len(data) {
		return "", 0, fmt.Errorf("insufficient data for short string: need %d bytes", length)
	}
	return string(data[offset : offset+length]), offset + length, nil
}

// decodeLongString decodes a long string at offset
func decodeLongString(data []byte, offset int) ([]byte, int, error) {
	if offset+4 > len(data) {
		return nil, 0, fmt.Errorf("insufficient data for long string length")
	}
	length := int(binary.BigEndian.Uint32(data[offset : offset+4]))
	offset += 4
	if offset+length > len(data) {
		return nil, 0, fmt.Errorf("insufficient data for long string: need %d bytes", length)
	}
	value := make([]byte, length)
	copy(value, data[offset:offset+length])
	return value, offset + length, nil
}

// EncodeFieldTable encodes an AMQP field table with a 4-byte length prefix
func EncodeFieldTable(fields Table) ([]byte, error) {
	var body []byte
	for name, value := range fields {
		if len(name) > 255 {
			return nil, fmt.Errorf("field name too long: %d bytes", len(name))
		}
		body = append(body, encodeShortString(name)...)
		encoded, err := encodeFieldValue(value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		body = append(body, encoded...)
	}

	result := make([]byte, 4, 4+len(body))
	binary.BigEndian.PutUint32(result[0:4], uint32(len(body)))
	return append(result, body...), nil
}

// DecodeFieldTable decodes an AMQP field table at offset, returning the
// table and the offset past it
func DecodeFieldTable(data []byte, offset int) (Table, int, error) {
	if offset+4 > len(data) {
		return nil, 0, fmt.Errorf("insufficient data for field table length")
	}
	length := int(binary.BigEndian.Uint32(data[offset : offset+4]))
	offset += 4
	if offset+length > len(data) {
		return nil, 0, fmt.Errorf("insufficient data for field table: need %d bytes", length)
	}

	table := make(Table)
	end := offset + length
	for offset < end {
		name, next, err := decodeShortString(data, offset)
		if err != nil {
			return nil, 0, err
		}
		value, next, err := decodeFieldValue(data, next)
		if err != nil {
			return nil, 0, fmt.Errorf("field %q: %w", name, err)
		}
		table[name] = value
		offset = next
	}
	if offset != end {
		return nil, 0, fmt.Errorf("field table overran its declared length")
	}
	return table, offset, nil
}

// encodeFieldValue encodes a single field value with its type indicator
func encodeFieldValue(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case bool:
		b := byte(0)
		if v {
			b = 1
		}
		return []byte{'t', b}, nil
	case int8:
		return []byte{'b', byte(v)}, nil
	case uint8:
		return []byte{'B', v}, nil
	case int16:
		buf := make([]byte, 3)
		buf[0] = 's'
		binary.BigEndian.PutUint16(buf[1:], uint16(v))
		return buf, nil
	case uint16:
		buf := make([]byte, 3)
		buf[0] = 'u'
		binary.BigEndian.PutUint16(buf[1:], v)
		return buf, nil
	case int32:
		buf := make([]byte, 5)
		buf[0] = 'I'
		binary.BigEndian.PutUint32(buf[1:], uint32(v))
		return buf, nil
	case uint32:
		buf := make([]byte, 5)
		buf[0] = 'i'
		binary.BigEndian.PutUint32(buf[1:], v)
		return buf, nil
	case int:
		buf := make([]byte, 5)
		buf[0] = 'I'
		binary.BigEndian.PutUint32(buf[1:], uint32(int32(v)))
		return buf, nil
	case int64:
		buf := make([]byte, 9)
		buf[0] = 'l'
		binary.BigEndian.PutUint64(buf[1:], uint64(v))
		return buf, nil
	case float32:
		buf := make([]byte, 5)
		buf[0] = 'f'
		binary.BigEndian.PutUint32(buf[1:], math.Float32bits(v))
		return buf, nil
	case float64:
		buf := make([]byte, 9)
		buf[0] = 'd'
		binary.BigEndian.PutUint64(buf[1:], math.Float64bits(v))
		return buf, nil
	case string:
		return append([]byte{'S'}, encodeLongString([]byte(v))...), nil
	case []byte:
		return append([]byte{'S'}, encodeLongString(v)...), nil
	case time.Time:
		buf := make([]byte, 9)
		buf[0] = 'T'
		binary.BigEndian.PutUint64(buf[1:], uint64(v.Unix()))
		return buf, nil
	case Table:
		encoded, err := EncodeFieldTable(v)
		if err != nil {
			return nil, err
		}
		return append([]byte{'F'}, encoded...), nil
	case map[string]interface{}:
		encoded, err := EncodeFieldTable(Table(v))
		if err != nil {
			return nil, err
		}
		return append([]byte{'F'}, encoded...), nil
	case []interface{}:
		encoded, err := encodeFieldArray(v)
		if err != nil {
			return nil, err
		}
		return append([]byte{'A'}, encoded...), nil
	case nil:
		return []byte{'V'}, nil
	default:
		return nil, fmt.Errorf("unsupported field value type: %T", value)
	}
}

// decodeFieldValue decodes a single field value at offset
func decodeFieldValue(data []byte, offset int) (interface{}, int, error) {
	if offset >= len(data) {
		return nil, 0, fmt.Errorf("insufficient data for field type indicator")
	}
	indicator := data[offset]
	offset++

	switch indicator {
	case 't':
		if offset >= len(data) {
			return nil, 0, fmt.Errorf("insufficient data for boolean")
		}
		return data[offset] != 0, offset + 1, nil
	case 'b':
		if offset >= len(data) {
			return nil, 0, fmt.Errorf("insufficient data for int8")
		}
		return int8(data[offset]), offset + 1, nil
	case 'B':
		if offset >= len(data) {
			return nil, 0, fmt.Errorf("insufficient data for uint8")
		}
		return data[offset], offset + 1, nil
	case 's':
		if offset+2 > len(data) {
			return nil, 0, fmt.Errorf("insufficient data for int16")
		}
		return int16(binary.BigEndian.Uint16(data[offset:])), offset + 2, nil
	case 'u':
		if offset+2 > len(data) {
			return nil, 0, fmt.Errorf("insufficient data for uint16")
		}
		return binary.BigEndian.Uint16(data[offset:]), offset + 2, nil
	case 'I':
		if offset+4 > len(data) {
			return nil, 0, fmt.Errorf("insufficient data for int32")
		}
		return int32(binary.BigEndian.Uint32(data[offset:])), offset + 4, nil
	case 'i':
		if offset+4 > len(data) {
			return nil, 0, fmt.Errorf("insufficient data for uint32")
		}
		return binary.BigEndian.Uint32(data[offset:]), offset + 4, nil
	case 'l':
		if offset+8 > len(data) {
			return nil, 0, fmt.Errorf("insufficient data for int64")
		}
		return int64(binary.BigEndian.Uint64(data[offset:])), offset + 8, nil
	case 'f':
		if offset+4 > len(data) {
			return nil, 0, fmt.Errorf("insufficient data for float32")
		}
		return math.Float32frombits(binary.BigEndian.Uint32(data[offset:])), offset + 4, nil
	case 'd':
		if offset+8 > len(data) {
			return nil, 0, fmt.Errorf("insufficient data for float64")
		}
		return math.Float64frombits(binary.BigEndian.Uint64(data[offset:])), offset + 8, nil
	case 'S':
		value, next, err := decodeLongString(data, offset)
		if err != nil {
			return nil, 0, err
		}
		return string(value), next, nil
	case 'T':
		if offset+8 > len(data) {
			return nil, 0, fmt.Errorf("insufficient data for timestamp")
		}
		return time.Unix(int64(binary.BigEndian.Uint64(data[offset:])), 0), offset + 8, nil
	case 'F':
		return DecodeFieldTable(data, offset)
	case 'A':
		return decodeFieldArray(data, offset)
	case 'V':
		return nil, offset, nil
	default:
		return nil, 0, fmt.Errorf("unknown field type indicator: %c", indicator)
	}
}

// encodeFieldArray encodes an array of field values with a 4-byte length prefix
func encodeFieldArray(values []interface{}) ([]byte, error) {
	var body []byte
	for i, value := range values {
		encoded, err := encodeFieldValue(value)
		if err != nil {
			return nil, fmt.Errorf("array element %d: %w", i, err)
		}
		body = append(body, encoded...)
	}

	result := make([]byte, 4, 4+len(body))
	binary.BigEndian.PutUint32(result[0:4], uint32(len(body)))
	return append(result, body...), nil
}

// decodeFieldArray decodes an array of field values at offset
func decodeFieldArray(data []byte, offset int) ([]interface{}, int, error) {
	if offset+4 > len(data) {
		return nil, 0, fmt.Errorf("insufficient data for array length")
	}
	length := int(binary.BigEndian.Uint32(data[offset : offset+4]))
	offset += 4
	if offset+length > len(data) {
		return nil, 0, fmt.Errorf("insufficient data for array: need %d bytes", length)
	}

	values := []interface{}{}
	end := offset + length
	for offset < end {
		value, next, err := decodeFieldValue(data, offset)
		if err != nil {
			return nil, 0, err
		}
		values = append(values, value)
		offset = next
	}
	return values, offset, nil
}

// packBits packs up to eight consecutive bit fields into one byte, LSB first
func packBits(flags ...bool) byte {
	var packed byte
	for i, flag := range flags {
		if flag {
			packed |= 1 << uint(i)
		}
	}
	return packed
}

// bitSet reports whether bit i of b is set
func bitSet(b byte, i uint) bool {
	return b&(1<<i) != 0
}
