package tensor

import (
	"fmt"
	"math"
	"math/rand"
)

// Zeros returns a tensor of the given shape filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var zero T
	raw, err := NewRaw(shape, inferDataType(zero), b.Device())
	if err != nil {
		panic(fmt.Sprintf("tensor: Zeros: %v", err))
	}
	return New[T](raw, b)
}

// Ones returns a tensor of the given shape filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T](shape, b)
	data := t.Data()
	var one T
	switch any(one).(type) {
	case float32:
		one = any(float32(1)).(T)
	case float64:
		one = any(float64(1)).(T)
	case int32:
		one = any(int32(1)).(T)
	case int64:
		one = any(int64(1)).(T)
	case bool:
		one = any(true).(T)
	}
	for i := range data {
		data[i] = one
	}
	return t
}

// Full returns a tensor of the given shape filled with value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn returns a float tensor with elements drawn from N(0, 1).
// Only float32 and float64 element types are supported.
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T](shape, b)
	data := t.Data()
	for i := range data {
		//nolint:gosec // math/rand is fine for synthetic draws, nothing security-critical here
		v := rand.NormFloat64()
		switch p := any(data).(type) {
		case []float32:
			p[i] = float32(v)
		case []float64:
			p[i] = v
		default:
			panic("tensor: Randn requires a float element type")
		}
	}
	return t
}

// Rand returns a float tensor with elements drawn uniformly from [0, 1).
// Only float32 and float64 element types are supported.
func Rand[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T](shape, b)
	data := t.Data()
	for i := range data {
		//nolint:gosec // math/rand is fine for synthetic draws, nothing security-critical here
		v := rand.Float64()
		switch p := any(data).(type) {
		case []float32:
			p[i] = float32(v)
		case []float64:
			p[i] = v
		default:
			panic("tensor: Rand requires a float element type")
		}
	}
	return t
}

// Arange returns a 1-D tensor of consecutive values [start, end) with step 1.
func Arange[T DType, B Backend](start, end T, b B) *Tensor[T, B] {
	n := 0
	switch s := any(start).(type) {
	case float32:
		n = int(math.Ceil(float64(any(end).(float32) - s)))
	case float64:
		n = int(math.Ceil(any(end).(float64) - s))
	case int32:
		n = int(any(end).(int32) - s)
	case int64:
		n = int(any(end).(int64) - s)
	default:
		panic("tensor: Arange requires a numeric element type")
	}
	if n <= 0 {
		panic(fmt.Sprintf("tensor: Arange: empty range [%v, %v)", start, end))
	}

	t := Zeros[T](Shape{n}, b)
	data := t.Data()
	switch p := any(data).(type) {
	case []float32:
		s := any(start).(float32)
		for i := range p {
			p[i] = s + float32(i)
		}
	case []float64:
		s := any(start).(float64)
		for i := range p {
			p[i] = s + float64(i)
		}
	case []int32:
		s := any(start).(int32)
		for i := range p {
			p[i] = s + int32(i)
		}
	case []int64:
		s := any(start).(int64)
		for i := range p {
			p[i] = s + int64(i)
		}
	}
	return t
}

// Linspace returns a 1-D tensor of num evenly spaced values from start to
// stop inclusive. This is the axis generator for prediction grids.
func Linspace[T DType, B Backend](start, stop T, num int, b B) *Tensor[T, B] {
	if num < 2 {
		panic(fmt.Sprintf("tensor: Linspace needs at least 2 points, got %d", num))
	}

	t := Zeros[T](Shape{num}, b)
	data := t.Data()
	switch p := any(data).(type) {
	case []float32:
		s, e := any(start).(float32), any(stop).(float32)
		step := (e - s) / float32(num-1)
		for i := range p {
			p[i] = s + float32(i)*step
		}
		p[num-1] = e
	case []float64:
		s, e := any(start).(float64), any(stop).(float64)
		step := (e - s) / float64(num-1)
		for i := range p {
			p[i] = s + float64(i)*step
		}
		p[num-1] = e
	default:
		panic("tensor: Linspace requires a float element type")
	}
	return t
}
