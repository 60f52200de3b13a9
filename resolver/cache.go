// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"reflect"
	"unsafe"
)

// stopCleanupGoroutine stops the background goroutine that an expirable LRU
// starts for purging expired entries. golang-lru v2.0.7 doesn't offer any
// public means to stop it, so this closes the LRU's unexported "done"
// channel. It returns false if the LRU's layout doesn't match, or if the
// channel was already closed.
func stopCleanupGoroutine(lru any) (stopped bool) {
	defer func() {
		if r := recover(); r != nil {
			stopped = false
		}
	}()
	v := reflect.ValueOf(lru)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return false
	}
	done := v.Elem().FieldByName("done")
	if !done.IsValid() || done.Type() != reflect.TypeOf(make(chan struct{})) || done.IsNil() {
		return false
	}
	close(*(*chan struct{})(unsafe.Pointer(done.UnsafeAddr())))
	return true
}
