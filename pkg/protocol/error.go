package protocol

import "fmt"

// ErrorMessage is sent when the server cannot handle a client frame.
type ErrorMessage struct {
	Code    string // Error code from the race error registry (e.g. "P001")
	Message string // Human-readable error message
	Fatal   bool   // If true, the connection is closed after this frame
}

// Error implements the error interface.
func (em *ErrorMessage) Error() string {
	return fmt.Sprintf("%s: %s", em.Code, em.Message)
}

// EncodeErrorMessage encodes an ErrorMessage payload.
func EncodeErrorMessage(em *ErrorMessage) []byte {
	e := NewEncoder()
	e.WriteString(em.Code)
	e.WriteString(em.Message)
	e.WriteBool(em.Fatal)
	return e.Bytes()
}

// DecodeErrorMessage decodes an ErrorMessage payload.
func DecodeErrorMessage(payload []byte) (*ErrorMessage, error) {
	var err error
	em := &ErrorMessage{}
	d := NewDecoder(payload)
	if em.Code, err = d.ReadString(); err != nil {
		return nil, err
	}
	if em.Message, err = d.ReadString(); err != nil {
		return nil, err
	}
	if em.Fatal, err = d.ReadBool(); err != nil {
		return nil, err
	}
	return em, nil
}
