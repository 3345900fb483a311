package datasource

import (
	"encoding/json"
	"time"
)

/*
Document is a decoded JSON response from either strategy: an object, array or
scalar, exactly as the backend or fixture produced it. Its shape belongs to
the backend and the fixtures; nothing in this package reads it.

Reports carry a few fields the front end uses to animate progress. The
accessors below only exist so callers don't have to type-assert them; a
missing or mistyped field, or a document that isn't an object, reads as the
zero value.
*/
type Document struct {
	value interface{}
}

func NewDocument(value interface{}) Document {
	return Document{value: value}
}

func decodeDocument(body []byte) (Document, error) {
	var value interface{}
	if err := json.Unmarshal(body, &value); err != nil {
		return Document{}, err
	}
	return Document{value: value}, nil
}

// Value is the decoded JSON: map[string]interface{}, []interface{}, string,
// float64, bool or nil.
func (d Document) Value() interface{} {
	return d.value
}

func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.value)
}

// Field returns a top-level field of an object document, or nil.
func (d Document) Field(key string) interface{} {
	object, ok := d.value.(map[string]interface{})
	if !ok {
		return nil
	}
	return object[key]
}

func (d Document) Status() string {
	status, _ := d.Field("status").(string)
	return status
}

func (d Document) Progress() float64 {
	progress, _ := d.Field("progress").(float64)
	return progress
}

func (d Document) EstNextUpdate() time.Duration {
	seconds, ok := d.Field("estNextUpdateSec").(float64)
	if !ok || seconds < 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}
