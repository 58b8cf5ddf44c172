package models

import (
	"errors"
	"fmt"
)

// ErrorKind — таксономия ошибок, которую адаптер отдаёт наружу как есть.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindResolution     ErrorKind = "resolution"
	KindAuthentication ErrorKind = "authentication"
	KindOrderRejected  ErrorKind = "order_rejected"
	KindNetwork        ErrorKind = "network"
)

// TradeError несёт вид ошибки как данные, а не как control flow.
type TradeError struct {
	Kind ErrorKind
	Msg  string
	// NotFound взводится для order_rejected, когда IG отвечает,
	// что позиции уже нет — для монитора это эквивалент закрытия.
	NotFound bool
	Err      error
}

func (e *TradeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *TradeError) Unwrap() error { return e.Err }

func NewValidation(format string, args ...any) *TradeError {
	return &TradeError{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NewResolution(format string, args ...any) *TradeError {
	return &TradeError{Kind: KindResolution, Msg: fmt.Sprintf(format, args...)}
}

func NewAuth(format string, args ...any) *TradeError {
	return &TradeError{Kind: KindAuthentication, Msg: fmt.Sprintf(format, args...)}
}

func NewRejected(format string, args ...any) *TradeError {
	return &TradeError{Kind: KindOrderRejected, Msg: fmt.Sprintf(format, args...)}
}

func NewRejectedNotFound(format string, args ...any) *TradeError {
	return &TradeError{Kind: KindOrderRejected, NotFound: true, Msg: fmt.Sprintf(format, args...)}
}

func NewNetwork(format string, args ...any) *TradeError {
	return &TradeError{Kind: KindNetwork, Msg: fmt.Sprintf(format, args...)}
}

// WrapNetwork оборачивает транспортную ошибку (таймаут == сетевая ошибка).
func WrapNetwork(err error, format string, args ...any) *TradeError {
	return &TradeError{Kind: KindNetwork, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf вытаскивает вид ошибки; всё неопознанное считаем сетевым сбоем.
func KindOf(err error) ErrorKind {
	var te *TradeError
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindNetwork
}

// IsNotFound — IG сообщил, что позиции уже не существует.
func IsNotFound(err error) bool {
	var te *TradeError
	return errors.As(err, &te) && te.NotFound
}
