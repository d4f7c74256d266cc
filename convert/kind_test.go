package convert_test

import (
	"fmt"
	"reflect"
	"time"

	"fixed-format/convert"
)

func ExampleKindOf() {
	type Amount int64
	type Code string
	type Empty struct{}

	fmt.Println(convert.KindOf(reflect.TypeOf(int(0))))
	fmt.Println(convert.KindOf(reflect.TypeOf("")))
	fmt.Println(convert.KindOf(reflect.TypeOf(Amount(0))))
	fmt.Println(convert.KindOf(reflect.TypeOf(Code(""))))
	fmt.Println(convert.KindOf(reflect.TypeOf(time.Duration(0))))
	fmt.Println(convert.KindOf(reflect.TypeOf(Empty{})))
	// Output:
	// int
	// string
	// int64
	// string
	// int64
	// unknown
}
