package shardstore

import (
	"math"
	"reflect"
	"unsafe"
)

// column is a single type-erased, growable Struct-of-Arrays array: one
// archetype table keeps one column per component type. The backing array
// is allocated via reflect.ArrayOf so the column never needs
// per-concrete-type code generation, while a cached unsafe.Pointer base
// address keeps element access at raw-pointer-arithmetic speed on the hot
// path instead of going through reflect.Value on every Get/Set.
type column struct {
	buffer   reflect.Value
	base     unsafe.Pointer
	elemType reflect.Type
	itemSize uintptr
	len      uint32
	cap      uint32
}

// newColumn creates an empty column. initialCap may be 0 — a column's
// real capacity is established lazily, on its first push, by growing to
// the configured archetype allocation floor.
func newColumn(elemType reflect.Type, initialCap uint32) column {
	buf := reflect.New(reflect.ArrayOf(int(initialCap), elemType)).Elem()
	return column{
		buffer:   buf,
		base:     buf.Addr().UnsafePointer(),
		elemType: elemType,
		itemSize: elemType.Size(),
		cap:      initialCap,
	}
}

// at returns a pointer to the element at index, valid until the next
// growing mutation of the column.
func (c *column) at(index uint32) unsafe.Pointer {
	return unsafe.Add(c.base, uintptr(index)*c.itemSize)
}

// grow doubles capacity (at minimum enough to fit one more element),
// copying existing elements into the new backing array. Allocation is
// grow-only: the column never shrinks its capacity.
func (c *column) grow(floor uint32) {
	if c.cap >= c.len+1 {
		return
	}
	newCap := c.cap * 2
	if newCap < floor {
		newCap = floor
	}
	if newCap < c.len+1 {
		newCap = c.len + 1
	}
	old := c.buffer
	c.buffer = reflect.New(reflect.ArrayOf(int(newCap), c.elemType)).Elem()
	c.base = c.buffer.Addr().UnsafePointer()
	c.cap = newCap
	reflect.Copy(c.buffer, old)
}

// pushZero appends a zero-valued element and returns its index.
func (c *column) pushZero(allocFloor uint32) uint32 {
	c.grow(allocFloor)
	idx := c.len
	c.len++
	c.zero(idx)
	return idx
}

// pushValue appends a copy of the bytes at src (itemSize wide) and returns
// the new element's index.
func (c *column) pushValue(src unsafe.Pointer, allocFloor uint32) uint32 {
	c.grow(allocFloor)
	idx := c.len
	c.len++
	c.writeAt(idx, src)
	return idx
}

// writeAt overwrites the element at index with the bytes at src.
func (c *column) writeAt(index uint32, src unsafe.Pointer) {
	dst := c.at(index)
	dstSlice := (*[math.MaxInt32]byte)(dst)[:c.itemSize:c.itemSize]
	srcSlice := (*[math.MaxInt32]byte)(src)[:c.itemSize:c.itemSize]
	copy(dstSlice, srcSlice)
}

func (c *column) zero(index uint32) {
	dst := c.at(index)
	for i := uintptr(0); i < c.itemSize; i++ {
		*(*byte)(dst) = 0
		dst = unsafe.Add(dst, 1)
	}
}

// swapRemove removes the element at index by overwriting it with the last
// element and truncating length by one. Reports whether a swap happened
// (false when index was already the last element, or the only element).
func (c *column) swapRemove(index uint32) bool {
	last := c.len - 1
	moved := false
	if index < last {
		c.writeAt(index, c.at(last))
		moved = true
	}
	c.zero(last)
	c.len--
	return moved
}

// slice returns a reflect.Value slice header over the live portion of the
// column, for typed projection into a Go slice of T by the caller.
func (c *column) slice() reflect.Value {
	return c.buffer.Slice(0, int(c.len))
}
