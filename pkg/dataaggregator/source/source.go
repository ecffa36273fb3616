package source

import "errors"

var UnsupportedSourceError = errors.New("unsupported query for source")
