// Package middleware provides the only logging surface in this repository
// (§4.0 "Logging"): a decorator chain a caller can wrap around a Compile
// call to observe timing and outcome, kept deliberately outside the
// compiler package itself — the core stays a pure, silent function (§5).
package middleware

import (
	"fmt"
	"time"
)

// Operation names the kind of call being dispatched through the chain.
type Operation string

const (
	OperationCompile     Operation = "compile"
	OperationBuildSelect Operation = "build_select"
	OperationBuildSort   Operation = "build_sort"
	OperationPaginate    Operation = "paginate"
)

// Handler executes one operation against payload and returns its result.
type Handler func(op Operation, payload any) (any, error)

// Middleware wraps a Handler with additional cross-cutting logic.
type Middleware func(next Handler) Handler

var globalMiddlewareList []Middleware

// Use registers a global middleware, applied to every Dispatch call.
// Middlewares run in reverse registration order: the most recently
// registered one executes first.
func Use(mw Middleware) {
	globalMiddlewareList = append(globalMiddlewareList, mw)
}

// Reset clears every registered middleware. Exists for tests that need a
// clean chain between cases.
func Reset() {
	globalMiddlewareList = nil
}

func runMiddlewares(final Handler) Handler {
	h := final
	for _, mw := range globalMiddlewareList {
		h = mw(h)
	}
	return h
}

// Dispatch executes exec through the registered middleware chain. Callers
// wrap compiler.Compile / queryhelpers.Build* with this to get observable
// logging without the compiler itself performing any I/O.
func Dispatch(op Operation, payload any, exec func() (any, error)) (any, error) {
	handler := runMiddlewares(func(op Operation, payload any) (any, error) {
		return exec()
	})
	return handler(op, payload)
}

// DebugMiddleware logs every dispatched operation: its payload on entry,
// then success/failure and elapsed time on exit.
func DebugMiddleware() Middleware {
	return func(next Handler) Handler {
		return func(op Operation, payload any) (any, error) {
			start := time.Now()
			fmt.Printf("[DEBUG] op=%s payload=%+v\n", op, payload)
			result, err := next(op, payload)
			elapsed := time.Since(start)
			if err != nil {
				fmt.Printf("[DEBUG] op=%s error=%v took=%s\n", op, err, elapsed)
			} else {
				fmt.Printf("[DEBUG] op=%s success took=%s\n", op, elapsed)
			}
			return result, err
		}
	}
}
