package types

// IsCompatible reports whether a and b may stand for each other during
// unification. The relation is symmetric and only inspects the outer shape:
//
//  1. Unknown on either side is compatible with anything
//  2. identical types are compatible
//  3. a fixed list of cross-universe pairs is compatible
//  4. everything else is not
//
// It is not transitive and never infers new pairs.
func IsCompatible(a, b Type) bool {
	if isUnknown(a) || isUnknown(b) {
		return true
	}
	if Identical(a, b) {
		return true
	}
	return bridged(a, b) || bridged(b, a)
}

// bridged holds the enumerated cross-universe pairs in one direction
func bridged(a, b Type) bool {
	switch x := a.(type) {
	case *DynList:
		_, ok := b.(*TargetVec)
		return ok
	case *DynDict:
		_, ok := b.(*TargetMap)
		return ok
	case *RuntimeType:
		if x.Kind != RuntimeListObject {
			return false
		}
		_, ok := b.(*TargetVec)
		return ok
	}
	return false
}

func isUnknown(t Type) bool {
	if t == nil {
		return true
	}
	_, ok := t.(*Unknown)
	return ok
}

// Identical reports structural equality of two types. A nil type is treated
// as Unknown.
func Identical(a, b Type) bool {
	if isUnknown(a) || isUnknown(b) {
		return isUnknown(a) && isUnknown(b)
	}
	switch x := a.(type) {
	case *DynPrimitive:
		y, ok := b.(*DynPrimitive)
		return ok && x.Kind == y.Kind
	case *DynList:
		y, ok := b.(*DynList)
		return ok && Identical(x.Elem, y.Elem)
	case *DynDict:
		y, ok := b.(*DynDict)
		return ok && Identical(x.Key, y.Key) && Identical(x.Value, y.Value)
	case *DynTuple:
		y, ok := b.(*DynTuple)
		return ok && identicalAll(x.Elems, y.Elems)
	case *DynSet:
		y, ok := b.(*DynSet)
		return ok && Identical(x.Elem, y.Elem)
	case *DynNone:
		_, ok := b.(*DynNone)
		return ok
	case *DynAny:
		_, ok := b.(*DynAny)
		return ok
	case *DynClass:
		y, ok := b.(*DynClass)
		return ok && x.Name == y.Name
	case *NativePrimitive:
		y, ok := b.(*NativePrimitive)
		return ok && x.Kind == y.Kind
	case *NativePointer:
		y, ok := b.(*NativePointer)
		return ok && identicalNative(x.Elem, y.Elem)
	case *NativeArray:
		y, ok := b.(*NativeArray)
		if !ok || !identicalNative(x.Elem, y.Elem) {
			return false
		}
		if x.Size == nil || y.Size == nil {
			return x.Size == nil && y.Size == nil
		}
		return *x.Size == *y.Size
	case *NativeStruct:
		y, ok := b.(*NativeStruct)
		return ok && x.Name == y.Name
	case *NativeUnion:
		y, ok := b.(*NativeUnion)
		return ok && x.Name == y.Name
	case *NativeTypedef:
		y, ok := b.(*NativeTypedef)
		return ok && x.Name == y.Name
	case *RuntimeType:
		y, ok := b.(*RuntimeType)
		return ok && x.Kind == y.Kind
	case *TargetInt:
		y, ok := b.(*TargetInt)
		return ok && x.Bits == y.Bits && x.Signed == y.Signed
	case *TargetFloat:
		y, ok := b.(*TargetFloat)
		return ok && x.Bits == y.Bits
	case *TargetBool:
		_, ok := b.(*TargetBool)
		return ok
	case *TargetString:
		_, ok := b.(*TargetString)
		return ok
	case *TargetStr:
		_, ok := b.(*TargetStr)
		return ok
	case *TargetVec:
		y, ok := b.(*TargetVec)
		return ok && Identical(x.Elem, y.Elem)
	case *TargetMap:
		y, ok := b.(*TargetMap)
		return ok && Identical(x.Key, y.Key) && Identical(x.Value, y.Value)
	case *TargetTuple:
		y, ok := b.(*TargetTuple)
		return ok && identicalAll(x.Elems, y.Elems)
	case *TargetOption:
		y, ok := b.(*TargetOption)
		return ok && Identical(x.Inner, y.Inner)
	case *TargetResult:
		y, ok := b.(*TargetResult)
		return ok && Identical(x.Ok, y.Ok) && Identical(x.Err, y.Err)
	case *TargetRef:
		y, ok := b.(*TargetRef)
		return ok && x.Mutable == y.Mutable && Identical(x.Inner, y.Inner)
	case *TargetNamed:
		y, ok := b.(*TargetNamed)
		return ok && x.Name == y.Name
	case *TargetUnit:
		_, ok := b.(*TargetUnit)
		return ok
	case *Generic:
		y, ok := b.(*Generic)
		if !ok || x.Name != y.Name || len(x.Bounds) != len(y.Bounds) {
			return false
		}
		for i := range x.Bounds {
			if x.Bounds[i] != y.Bounds[i] {
				return false
			}
		}
		return true
	case *Function:
		y, ok := b.(*Function)
		return ok && identicalAll(x.Params, y.Params) && Identical(x.Return, y.Return)
	}
	return false
}

func identicalNative(a, b NativeType) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Identical(a, b)
}

func identicalAll(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Identical(a[i], b[i]) {
			return false
		}
	}
	return true
}
