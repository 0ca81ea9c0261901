package utils

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/picelmedia/wabot-admin/pkg/logger"
	"go.uber.org/zap"
)

// RecoverFn handles a recovered panic.
type RecoverFn func(r interface{}, stack []byte)

// SafeGo runs fn in a goroutine and recovers any panic.
func SafeGo(fn func(), onPanic RecoverFn) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				if onPanic != nil {
					onPanic(r, stack)
					return
				}
				if logger.Log != nil {
					logger.Log.Error("[panic] recovered in goroutine",
						zap.Any("panic", r),
						zap.ByteString("stack", stack),
					)
					return
				}
				fmt.Fprintf(os.Stderr, "[PANIC] recovered in goroutine: %v\n%s\n", r, stack)
			}
		}()
		fn()
	}()
}
