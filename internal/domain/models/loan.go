package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LoanField is one key/value pair of a tenant-defined loan record. Keys carry
// semantic hints in their names ("amount", "dueDate", "status") but no schema
// is guaranteed.
type LoanField struct {
	Key   string
	Value interface{}
}

// LoanRecord is a schema-tolerant loan record: an ordered list of fields,
// preserving the key order of the upstream JSON object so rendered summaries
// are stable.
type LoanRecord struct {
	Fields []LoanField
}

// Get returns the value for key and whether it is present.
func (r LoanRecord) Get(key string) (interface{}, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the field keys in upstream order.
func (r LoanRecord) Keys() []string {
	keys := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Set replaces the value for key, or appends the field when absent.
func (r *LoanRecord) Set(key string, value interface{}) {
	for i, f := range r.Fields {
		if f.Key == key {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, LoanField{Key: key, Value: value})
}

// Empty reports whether the record carries no fields.
func (r LoanRecord) Empty() bool {
	return len(r.Fields) == 0
}

// UnmarshalJSON decodes a JSON object into an ordered field list. Values are
// decoded the way encoding/json decodes into interface{} (numbers as float64).
func (r *LoanRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("loan record must be a JSON object, got %v", tok)
	}

	r.Fields = nil
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key token %v", keyTok)
		}
		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return err
		}
		r.Fields = append(r.Fields, LoanField{Key: key, Value: value})
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON emits the record as a JSON object in field order.
func (r LoanRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// LoanData is the upstream loan payload: a single record or an array of them.
type LoanData struct {
	Records []LoanRecord
}

// Empty reports whether the payload carries no usable records.
func (d LoanData) Empty() bool {
	for _, r := range d.Records {
		if !r.Empty() {
			return false
		}
	}
	return true
}

// UnmarshalJSON accepts either a JSON object or a JSON array of objects.
func (d *LoanData) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		d.Records = nil
		return nil
	}
	if trimmed[0] == '[' {
		return json.Unmarshal(data, &d.Records)
	}
	var rec LoanRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	d.Records = []LoanRecord{rec}
	return nil
}

// MarshalJSON emits a single record as an object, multiple as an array.
func (d LoanData) MarshalJSON() ([]byte, error) {
	if len(d.Records) == 1 {
		return json.Marshal(d.Records[0])
	}
	return json.Marshal(d.Records)
}
