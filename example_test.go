package atomicslice_test

import (
	"fmt"

	"github.com/zeebo/atomicslice"
)

func Example() {
	limits := atomicslice.New([]int{10, 20, 30})

	lease := limits.Read()
	fmt.Println(lease.Values())
	lease.Release()

	if err := limits.Write([]int{15, 25, 35}); err != nil {
		panic(err)
	}
	limits.View(func(values []int) { fmt.Println(values) })

	fmt.Println(limits.Write([]int{1}) != nil)

	// Output:
	// [10 20 30]
	// [15 25 35]
	// true
}
