package workerpool

import "errors"

var errFailingInit = errors.New("thread creation refused")
