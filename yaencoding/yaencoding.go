// Package yaencoding converts Go values to and from socket messages.
//
// JSON travels in text frames and MessagePack in binary frames, so Decode can
// pick the right format from the frame type alone.
//
// Each encode/decode returns yaerrors.Error to unify structured error handling
// across GoYaSocket.
//
// Example usage:
//
//	type Quote struct {
//	    Symbol string  `json:"symbol" msgpack:"symbol"`
//	    Price  float64 `json:"price"  msgpack:"price"`
//	}
//
//	msg, err := yaencoding.EncodeMessagePack(Quote{Symbol: "YA", Price: 4.2})
//	if err != nil {
//	    log.Fatalf("encode failed: %v", err)
//	}
//
//	_ = socket.Send(msg)
//
//	// in a message listener
//	quote, err := yaencoding.Decode[Quote](ev.Message)
//	if err != nil {
//	    log.Fatalf("decode failed: %v", err)
//	}
//
//	fmt.Println(quote.Symbol) // Output: YA
package yaencoding

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/YaCodeDev/GoYaSocket/yaerrors"
	"github.com/YaCodeDev/GoYaSocket/yasocket"
)

// Format selects the serialization used by Encode.
type Format uint8

const (
	FormatJSON Format = iota
	FormatMessagePack
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMessagePack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// Encode serializes value with format.
//
// Example:
//
//	msg, err := yaencoding.Encode(yaencoding.FormatJSON, payload)
func Encode(format Format, value any) (yasocket.Message, yaerrors.Error) {
	switch format {
	case FormatJSON:
		return EncodeJSON(value)
	case FormatMessagePack:
		return EncodeMessagePack(value)
	default:
		return yasocket.Message{}, yaerrors.FromError(
			http.StatusInternalServerError,
			ErrUnknownFormat,
			fmt.Sprintf("[ENCODING] failed to encode `%T`", value),
		)
	}
}

// EncodeJSON serializes value as JSON into a text message.
func EncodeJSON(value any) (yasocket.Message, yaerrors.Error) {
	data, err := json.Marshal(value)
	if err != nil {
		return yasocket.Message{}, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[ENCODING] failed to marshal `%T` as json", value),
		)
	}

	return yasocket.Message{Type: yasocket.TextMessage, Data: data}, nil
}

// EncodeMessagePack serializes value using the MessagePack format into a
// binary message.
//
// Example:
//
//	msg, err := yaencoding.EncodeMessagePack(myStruct)
func EncodeMessagePack(value any) (yasocket.Message, yaerrors.Error) {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return yasocket.Message{}, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[ENCODING] failed to marshal `%T` using message pack format", value),
		)
	}

	return yasocket.Message{Type: yasocket.BinaryMessage, Data: data}, nil
}

// Decode reads msg into a new T: text frames as JSON, binary frames as
// MessagePack.
//
// Example:
//
//	val, err := yaencoding.Decode[User](ev.Message)
func Decode[T any](msg yasocket.Message) (*T, yaerrors.Error) {
	switch msg.Type {
	case yasocket.TextMessage:
		return DecodeJSON[T](msg.Data)
	case yasocket.BinaryMessage:
		return DecodeMessagePack[T](msg.Data)
	default:
		return nil, yaerrors.FromError(
			http.StatusBadRequest,
			ErrUnknownMessageType,
			fmt.Sprintf("[ENCODING] failed to decode %s message", msg.Type),
		)
	}
}

func DecodeJSON[T any](data []byte) (*T, yaerrors.Error) {
	var res T

	if err := json.Unmarshal(data, &res); err != nil {
		return nil, yaerrors.FromError(
			http.StatusBadRequest,
			err,
			fmt.Sprintf("[ENCODING] failed to unmarshal json to `%T`", res),
		)
	}

	return &res, nil
}

func DecodeMessagePack[T any](data []byte) (*T, yaerrors.Error) {
	var res T

	if err := msgpack.Unmarshal(data, &res); err != nil {
		return nil, yaerrors.FromError(
			http.StatusBadRequest,
			err,
			fmt.Sprintf("[ENCODING] failed to unmarshal message pack to `%T`", res),
		)
	}

	return &res, nil
}

// ToString converts a byte slice into a base64 string.
// Useful for printing binary payloads.
func ToString(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// ToBytes decodes a base64 string into bytes.
func ToBytes(data string) ([]byte, yaerrors.Error) {
	bytes, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, yaerrors.FromError(
			http.StatusBadRequest,
			err,
			"[ENCODING] failed to decode string to bytes",
		)
	}

	return bytes, nil
}
