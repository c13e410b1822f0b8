// Package assert holds constructor preconditions. A failed assertion is a
// programming error, so it panics.
package assert

import "fmt"

func NotNil(value any) {
	if value == nil {
		panic("expected value to be not nil")
	}
}

func Positive[T ~int | ~int64 | ~float64](name string, value T) {
	if value <= 0 {
		panic(fmt.Sprintf("expected %s to be positive, got %v", name, value))
	}
}
