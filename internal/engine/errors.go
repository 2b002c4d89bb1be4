package engine

import "github.com/pkg/errors"

// Typed failures returned by engine operations. Callers match them
// with errors.Is; the transport layer translates them into response
// status codes. The engine never retries and never logs.
var (
	ErrDuplicateRecord = errors.New("record already exists")
	ErrRecordNotFound  = errors.New("record not found")
	ErrTableNotFound   = errors.New("table not found")
	ErrUnindexedField  = errors.New("field is not indexed")
)
