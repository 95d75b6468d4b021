package demangle

import "reflect"

// StorageClass is a bit set of type qualifiers. It attaches to a single
// type node and qualifies that node only, never the types it wraps.
type StorageClass uint32

const (
	SCConst StorageClass = 1 << iota
	SCVolatile
	SCFar
	SCHuge
	SCUnaligned
	SCRestrict
)

// Has reports whether all flags in f are set.
func (sc StorageClass) Has(f StorageClass) bool { return sc&f == f }

// FuncClass is a bit set describing a member function's visibility and
// linkage class.
type FuncClass uint32

const (
	FCPublic FuncClass = 1 << iota
	FCProtected
	FCPrivate
	FCGlobal
	FCStatic
	FCVirtual
	FCFar
	FCThunk
)

// Has reports whether all flags in f are set.
func (fc FuncClass) Has(f FuncClass) bool { return fc&f == f }

// CallingConv identifies a function calling convention.
type CallingConv int

const (
	CCCdecl CallingConv = iota
	CCPascal
	CCThiscall
	CCStdcall
	CCFastcall
	CCRegcall
)

// Name is one component of a qualified C++ name. Implementations are
// Operator, Identifier, Template, Discriminator, ParsedName and
// AnonymousNamespace.
type Name interface {
	isName()
}

// Operator is an overloaded-operator or compiler-generated special name,
// drawn from a fixed table. Constructors and destructors use the
// placeholder spellings opCtor/opDtor; the serializer substitutes the
// enclosing class name for them.
type Operator struct {
	Spelling string
}

// Identifier is a plain source-level name.
type Identifier struct {
	Raw string
}

// Template is a template instantiation: a base name plus its arguments.
type Template struct {
	Base   Name
	Params Params
}

// Discriminator numbers an anonymous or function-local entity.
type Discriminator struct {
	Value int32
}

// ParsedName is a complete symbol embedded as a name component, as mangled
// for local statics and similar scoped entities.
type ParsedName struct {
	Inner *ParseResult
}

// AnonymousNamespace marks an anonymous-namespace scope component.
type AnonymousNamespace struct{}

func (*Operator) isName()           {}
func (*Identifier) isName()         {}
func (*Template) isName()           {}
func (*Discriminator) isName()      {}
func (*ParsedName) isName()         {}
func (*AnonymousNamespace) isName() {}

// NameSequence is a scope chain in parse order, innermost scope first.
// Printing reverses it.
type NameSequence struct {
	Names []Name
}

// Params is an ordered function or template argument list.
type Params struct {
	Types []Type
}

// Symbol is a declared entity: an unqualified name plus its scope chain.
type Symbol struct {
	Name  Name
	Scope NameSequence
}

// ParseResult is the output of parsing one mangled symbol. Type is
// *NoType for symbols with no type encoding, such as bare template
// names.
type ParseResult struct {
	Symbol Symbol
	Type   Type
}

// Type is a node of the type grammar. Implementations are the variant
// structs below; the parser constructs them and the serializer consumes
// them with exhaustive type switches.
type Type interface {
	isType()
}

// NoType is the absence of a type encoding.
type NoType struct{}

// MemberFunction is a member function signature. ThisQuals qualifies the
// implicit this pointer.
type MemberFunction struct {
	Class     FuncClass
	CallConv  CallingConv
	Params    Params
	ThisQuals StorageClass
	Return    Type
}

// MemberFunctionPointer is a pointer to member function.
type MemberFunctionPointer struct {
	ClassName Name
	Params    Params
	ThisQuals StorageClass
	Return    Type
}

// NonMemberFunction is a free function signature.
type NonMemberFunction struct {
	CallConv CallingConv
	Params   Params
	Quals    StorageClass
	Return   Type
}

// VFTable marks a virtual function table symbol.
type VFTable struct {
	Scope NameSequence
	Quals StorageClass
}

// VBTable marks a virtual base table symbol.
type VBTable struct {
	Scope NameSequence
	Quals StorageClass
}

// TemplateParam refers to a template parameter by index.
type TemplateParam struct {
	Index int32
}

// ThreadSafeStaticGuard marks a guard variable for a thread-safe static.
type ThreadSafeStaticGuard struct {
	Num int32
}

// Constant is a non-type template argument.
type Constant struct {
	Value int32
}

// Ptr is a pointer. Quals qualifies the pointer itself, not the pointee.
type Ptr struct {
	Inner Type
	Quals StorageClass
}

// Ref is an lvalue reference.
type Ref struct {
	Inner Type
	Quals StorageClass
}

// RValueRef is an rvalue reference.
type RValueRef struct {
	Inner Type
	Quals StorageClass
}

// Array is one dimension of an array type. Multi-dimensional arrays nest,
// outermost dimension first.
type Array struct {
	Len   int32
	Inner Type
	Quals StorageClass
}

// TagKind identifies the keyword of a nominal type.
type TagKind int

const (
	TagUnion TagKind = iota
	TagStruct
	TagClass
	TagEnum
)

var tagNames = map[TagKind]string{
	TagUnion:  "union",
	TagStruct: "struct",
	TagClass:  "class",
	TagEnum:   "enum",
}

// TagType is a nominal struct/union/class/enum type.
type TagType struct {
	Kind  TagKind
	Sym   Symbol
	Quals StorageClass
}

// PrimitiveKind identifies a fundamental type.
type PrimitiveKind int

const (
	PrimVoid PrimitiveKind = iota
	PrimBool
	PrimChar
	PrimSChar
	PrimUChar
	PrimShort
	PrimUShort
	PrimInt
	PrimUInt
	PrimLong
	PrimULong
	PrimInt64
	PrimUInt64
	PrimWChar
	PrimChar16
	PrimChar32
	PrimFloat
	PrimDouble
	PrimLongDouble
)

var primitiveNames = map[PrimitiveKind]string{
	PrimVoid:       "void",
	PrimBool:       "bool",
	PrimChar:       "char",
	PrimSChar:      "signed char",
	PrimUChar:      "unsigned char",
	PrimShort:      "short",
	PrimUShort:     "unsigned short",
	PrimInt:        "int",
	PrimUInt:       "unsigned int",
	PrimLong:       "long",
	PrimULong:      "unsigned long",
	PrimInt64:      "int64_t",
	PrimUInt64:     "uint64_t",
	PrimWChar:      "wchar_t",
	PrimChar16:     "char16_t",
	PrimChar32:     "char32_t",
	PrimFloat:      "float",
	PrimDouble:     "double",
	PrimLongDouble: "long double",
}

// Primitive is a fundamental type.
type Primitive struct {
	Kind  PrimitiveKind
	Quals StorageClass
}

// VarArgs marks a trailing "..." parameter.
type VarArgs struct{}

// EmptyParameterPack marks an explicitly empty template parameter pack.
type EmptyParameterPack struct{}

// NullptrType is std::nullptr_t.
type NullptrType struct{}

func (*NoType) isType()                {}
func (*MemberFunction) isType()        {}
func (*MemberFunctionPointer) isType() {}
func (*NonMemberFunction) isType()     {}
func (*VFTable) isType()               {}
func (*VBTable) isType()               {}
func (*TemplateParam) isType()         {}
func (*ThreadSafeStaticGuard) isType() {}
func (*Constant) isType()              {}
func (*Ptr) isType()                   {}
func (*Ref) isType()                   {}
func (*RValueRef) isType()             {}
func (*Array) isType()                 {}
func (*TagType) isType()               {}
func (*Primitive) isType()             {}
func (*VarArgs) isType()               {}
func (*EmptyParameterPack) isType()    {}
func (*NullptrType) isType()           {}

// nameEqual and typeEqual compare nodes structurally. Back-reference
// tables use them to keep entries distinct.
func nameEqual(a, b Name) bool { return reflect.DeepEqual(a, b) }

func typeEqual(a, b Type) bool { return reflect.DeepEqual(a, b) }
