package types

// Primitive spellings per universe. Lookups are exact and case-sensitive.

var dynamicBuiltins = map[string]func() Type{
	"int":   func() Type { return &DynPrimitive{Kind: DynInt} },
	"float": func() Type { return &DynPrimitive{Kind: DynFloat} },
	"str":   func() Type { return &DynPrimitive{Kind: DynStr} },
	"bool":  func() Type { return &DynPrimitive{Kind: DynBool} },
	"None":  func() Type { return &DynNone{} },
	"Any":   func() Type { return &DynAny{} },
}

var nativeBuiltins = map[string]func() Type{
	"void":           func() Type { return &NativePrimitive{Kind: NativeVoid} },
	"char":           func() Type { return &NativePrimitive{Kind: NativeChar} },
	"int":            func() Type { return &NativePrimitive{Kind: NativeInt} },
	"long":           func() Type { return &NativePrimitive{Kind: NativeLong} },
	"size_t":         func() Type { return &NativePrimitive{Kind: NativeSizeT} },
	"float":          func() Type { return &NativePrimitive{Kind: NativeFloat} },
	"double":         func() Type { return &NativePrimitive{Kind: NativeDouble} },
	"PyObject*":      func() Type { return &RuntimeType{Kind: RuntimeObject} },
	"PyListObject*":  func() Type { return &RuntimeType{Kind: RuntimeListObject} },
	"PyDictObject*":  func() Type { return &RuntimeType{Kind: RuntimeDictObject} },
	"PyTupleObject*": func() Type { return &RuntimeType{Kind: RuntimeTupleObject} },
	"PyTypeObject*":  func() Type { return &RuntimeType{Kind: RuntimeTypeObject} },
	"Py_ssize_t":     func() Type { return &RuntimeType{Kind: RuntimeSsizeT} },
}

var targetBuiltins = map[string]func() Type{
	"i8":     func() Type { return &TargetInt{Bits: IntSize8, Signed: true} },
	"i16":    func() Type { return &TargetInt{Bits: IntSize16, Signed: true} },
	"i32":    func() Type { return &TargetInt{Bits: IntSize32, Signed: true} },
	"i64":    func() Type { return &TargetInt{Bits: IntSize64, Signed: true} },
	"i128":   func() Type { return &TargetInt{Bits: IntSize128, Signed: true} },
	"isize":  func() Type { return &TargetInt{Bits: IntSizePtr, Signed: true} },
	"u8":     func() Type { return &TargetInt{Bits: IntSize8} },
	"u16":    func() Type { return &TargetInt{Bits: IntSize16} },
	"u32":    func() Type { return &TargetInt{Bits: IntSize32} },
	"u64":    func() Type { return &TargetInt{Bits: IntSize64} },
	"u128":   func() Type { return &TargetInt{Bits: IntSize128} },
	"usize":  func() Type { return &TargetInt{Bits: IntSizePtr} },
	"f32":    func() Type { return &TargetFloat{Bits: 32} },
	"f64":    func() Type { return &TargetFloat{Bits: 64} },
	"bool":   func() Type { return &TargetBool{} },
	"String": func() Type { return &TargetString{} },
	"&str":   func() Type { return &TargetStr{} },
	"()":     func() Type { return &TargetUnit{} },
}

// IsBuiltinType checks if name spells a primitive of the given universe
func IsBuiltinType(u Universe, name string) bool {
	_, ok := builtinsFor(u)[name]
	return ok
}

func builtinsFor(u Universe) map[string]func() Type {
	switch u {
	case UniverseDynamic:
		return dynamicBuiltins
	case UniverseNative:
		return nativeBuiltins
	case UniverseTarget:
		return targetBuiltins
	}
	return nil
}
