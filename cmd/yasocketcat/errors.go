package main

import "errors"

var ErrUnknownKind = errors.New("[CAT] unknown kind")
