package server

import (
	"bytes"
	"gridtactics/pkg/api"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// encoder пишет один кадр состояния в соединение
type encoder func(conn *websocket.Conn, msg api.ServerResponse) error

// codecFor выбирает формат кадров по параметру ?codec=. По умолчанию JSON.
func codecFor(name string) encoder {
	if strings.EqualFold(name, "msgpack") {
		return writeMsgpack
	}
	return writeJSON
}

func writeJSON(conn *websocket.Conn, msg api.ServerResponse) error {
	return conn.WriteJSON(msg)
}

// writeMsgpack - те же поля, что и в JSON (по json-тегам), но бинарным кадром
func writeMsgpack(conn *websocket.Conn, msg api.ServerResponse) error {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(&msg); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.BinaryMessage, buf.Bytes())
}

// decodeMsgpack - обратная операция к writeMsgpack
func decodeMsgpack(data []byte) (api.ServerResponse, error) {
	var msg api.ServerResponse
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	err := dec.Decode(&msg)
	return msg, err
}
