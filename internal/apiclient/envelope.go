package apiclient

import (
	"bytes"
	"encoding/json"
)

// Shape names the three payload layouts the backend answers with.
type Shape int

const (
	// ShapeBare is a payload returned as-is, e.g. a raw array.
	ShapeBare Shape = iota
	// ShapeEnvelope is {success, data, message}.
	ShapeEnvelope
	// ShapeNestedEnvelope is an envelope whose data is itself an envelope.
	ShapeNestedEnvelope
)

// Payload is a classified response body.
type Payload struct {
	Shape   Shape
	Success *bool
	Message string
	Data    json.RawMessage
}

type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Classify inspects raw and locates the payload the caller is after.
func Classify(raw json.RawMessage) Payload {
	outer, ok := asEnvelope(raw)
	if !ok {
		return Payload{Shape: ShapeBare, Data: raw}
	}
	payload := Payload{Shape: ShapeEnvelope, Success: outer.Success, Message: outer.Message, Data: outer.Data}
	if inner, ok := asEnvelope(outer.Data); ok && isNestedEnvelope(outer.Data) {
		payload.Shape = ShapeNestedEnvelope
		payload.Data = inner.Data
		if inner.Success != nil {
			payload.Success = inner.Success
		}
		if inner.Message != "" {
			payload.Message = inner.Message
		}
	}
	return payload
}

// Unwrap classifies raw and decodes the located payload into T. A 2xx body
// that reports success:false becomes a RequestFailed error.
func Unwrap[T any](raw json.RawMessage) (T, error) {
	var out T
	payload := Classify(raw)
	if payload.Success != nil && !*payload.Success {
		message := payload.Message
		if message == "" {
			message = unsuccessfulMessage
		}
		return out, &RequestError{Kind: KindRequestFailed, Message: message, Body: raw}
	}
	return Decode[T](payload.Data)
}

// Decode unmarshals raw into T, reporting failures as UnknownRequestError.
func Decode[T any](raw json.RawMessage) (T, error) {
	var out T
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, newUnknown(malformedBodyMessage, err)
	}
	return out, nil
}

func asEnvelope(raw json.RawMessage) (envelope, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return envelope{}, false
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &keys); err != nil {
		return envelope{}, false
	}
	if _, hasData := keys["data"]; !hasData {
		return envelope{}, false
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return envelope{}, false
	}
	return env, true
}

// isNestedEnvelope only accepts inner objects that look like envelopes, so a
// record that merely has a "data" field is not unwrapped twice.
func isNestedEnvelope(raw json.RawMessage) bool {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return false
	}
	for key := range keys {
		switch key {
		case "data", "success", "message", "count", "total", "pagination":
		default:
			return false
		}
	}
	return true
}
