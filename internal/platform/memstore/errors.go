package memstore

import "errors"

var errClosed = errors.New("memstore: closed")
