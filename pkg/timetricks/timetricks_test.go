package timetricks

import (
	"fmt"
	"time"
)

func ExampleTrimClock() {
	t := time.Date(2020, time.July, 6, 14, 45, 12, 0, time.UTC)
	fmt.Println(TrimClock(t))
	fmt.Println(SetClock(t, 6, 30))
	// Output:
	// 2020-07-06 00:00:00 +0000 UTC
	// 2020-07-06 06:30:00 +0000 UTC
}

func ExampleSameDay() {
	a := time.Date(2020, time.July, 6, 1, 0, 0, 0, time.UTC)
	b := time.Date(2020, time.July, 6, 23, 59, 0, 0, time.UTC)
	c := time.Date(2020, time.July, 7, 0, 0, 0, 0, time.UTC)
	fmt.Println(SameDay(a, b), SameDay(b, c))
	// Output:
	// true false
}
