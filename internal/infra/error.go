package infra

import (
	"errors"
	"log/slog"

	"offer-compare/internal/pkg/errs"
)

type ErrorKind string

// Error is the typed failure every adapter in this layer returns.
type Error struct {
	Kind ErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e Error) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e Error) Unwrap() error {
	return e.err
}

func WrapErr(slogger *slog.Logger, kind ErrorKind, msg string, err error, attrs ...any) error {
	logArgs := append([]any{slog.String("kind", string(kind))}, attrs...)
	if err != nil {
		logArgs = append(logArgs, slog.Any("error", err))
	}

	slogger.Warn("Adapter error: "+msg, logArgs...)

	if err != nil {
		err = errs.Wrap(err, msg)
	}

	return Error{Kind: kind, msg: msg, err: err}
}

func IsKind(err error, kind ErrorKind) bool {
	var e Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Infrastructure-specific error kinds
const (
	KindTransport       ErrorKind = "TRANSPORT"
	KindStatus          ErrorKind = "STATUS"
	KindDecode          ErrorKind = "DECODE"
	KindUnknownProvider ErrorKind = "UNKNOWN_PROVIDER"
	KindNotFound        ErrorKind = "NOT_FOUND"
)
