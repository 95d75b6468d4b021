package demangle

import (
	"fmt"
	"strconv"
)

// serializer flattens a parsed symbol back into C++ source syntax.
//
// C declarator syntax wraps around the declared name, so the output cannot
// be produced by a single left-to-right walk. A pointer to a function
// returning int prints as "int (*x)(void)": the return type and the "(*"
// come before the name, the ")(void)" after. writePre emits everything to
// the left of the name and writePost everything to the right.
type serializer struct {
	mode WhitespaceMode
	buf  []byte
}

func (s *serializer) serialize(r *ParseResult) error {
	if err := s.writePre(r.Type); err != nil {
		return err
	}
	if err := s.writeName(&r.Symbol); err != nil {
		return err
	}
	return s.writePost(r.Type)
}

func (s *serializer) writeString(str string) {
	s.buf = append(s.buf, str...)
}

func (s *serializer) writeByte(b byte) {
	s.buf = append(s.buf, b)
}

func (s *serializer) writeInt(n int32) {
	s.buf = strconv.AppendInt(s.buf, int64(n), 10)
}

func (s *serializer) lastByte() (byte, bool) {
	if len(s.buf) == 0 {
		return 0, false
	}
	return s.buf[len(s.buf)-1], true
}

func isASCIIAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// writeSpace separates two tokens that would otherwise run together. In
// the spacious mode it also pads after punctuation that MSVC's undname
// pads after.
func (s *serializer) writeSpace() {
	c, ok := s.lastByte()
	if !ok {
		return
	}
	switch s.mode {
	case LessWhitespace:
		if isASCIIAlpha(c) {
			s.writeByte(' ')
		}
	case LotsOfWhitespace:
		if isASCIIAlpha(c) || c == '*' || c == '&' || c == '>' {
			s.writeByte(' ')
		}
	}
}

// writeSpacePre is writeSpace for the position right before a name, where
// a '*' never wants a following space.
func (s *serializer) writeSpacePre() {
	c, ok := s.lastByte()
	if !ok {
		return
	}
	switch s.mode {
	case LessWhitespace:
		if isASCIIAlpha(c) {
			s.writeByte(' ')
		}
	case LotsOfWhitespace:
		if isASCIIAlpha(c) || c == '&' || c == '>' {
			s.writeByte(' ')
		}
	}
}

func (s *serializer) writeCallingConv(cc CallingConv) {
	if c, ok := s.lastByte(); !ok || c != ' ' {
		s.writeByte(' ')
	}
	switch cc {
	case CCCdecl:
		s.writeString("__cdecl ")
	case CCPascal:
		// Pascal has no source-level spelling.
	case CCThiscall:
		s.writeString("__thiscall ")
	case CCStdcall:
		s.writeString("__stdcall ")
	case CCFastcall:
		s.writeString("__fastcall ")
	case CCRegcall:
		s.writeString("__regcall ")
	}
}

// needsGrouping reports whether a pointer or reference to t must be
// parenthesized. "[]" and "()" bind tighter than "*", so "int *x(int)"
// declares a function returning a pointer; a pointer to the function
// needs "int (*x)(int)".
func needsGrouping(t Type) bool {
	switch t.(type) {
	case *MemberFunction, *NonMemberFunction, *Array:
		return true
	}
	return false
}

// writePre emits everything that precedes the symbol name.
func (s *serializer) writePre(t Type) error {
	var quals StorageClass

	switch t := t.(type) {
	case *NoType:
		return nil

	case *MemberFunction:
		if t.Class.Has(FCThunk) {
			s.writeString("[thunk]:")
		}
		if t.Class.Has(FCPrivate) {
			s.writeString("private: ")
		}
		if t.Class.Has(FCProtected) {
			s.writeString("protected: ")
		}
		if t.Class.Has(FCPublic) {
			s.writeString("public: ")
		}
		if t.Class.Has(FCStatic) {
			s.writeString("static ")
		}
		if t.Class.Has(FCVirtual) {
			s.writeString("virtual ")
		}
		if err := s.writePre(t.Return); err != nil {
			return err
		}
		s.writeCallingConv(t.CallConv)
		return nil

	case *MemberFunctionPointer:
		if err := s.writePre(t.Return); err != nil {
			return err
		}
		if s.mode == LotsOfWhitespace {
			s.writeSpace()
		}
		s.writeByte('(')
		if s.mode == LotsOfWhitespace {
			s.writeSpace()
		}
		if err := s.writeOneName(t.ClassName); err != nil {
			return err
		}
		s.writeString("::*)")
		return nil

	case *NonMemberFunction:
		if err := s.writePre(t.Return); err != nil {
			return err
		}
		s.writeCallingConv(t.CallConv)
		return nil

	case *VFTable:
		quals = t.Quals

	case *VBTable:
		quals = t.Quals

	case *TemplateParam:
		s.writeString("`template-parameter")
		s.writeInt(t.Index)
		s.writeByte('\'')
		return nil

	case *ThreadSafeStaticGuard:
		s.writeString("TSS")
		s.writeInt(t.Num)
		return nil

	case *Constant:
		s.writeInt(t.Value)
		return nil

	case *VarArgs:
		s.writeString("...")
		return nil

	case *Ptr:
		if err := s.writeIndirection(t.Inner, "*"); err != nil {
			return err
		}
		quals = t.Quals

	case *Ref:
		if err := s.writeIndirection(t.Inner, "&"); err != nil {
			return err
		}
		quals = t.Quals

	case *RValueRef:
		if err := s.writeIndirection(t.Inner, "&&"); err != nil {
			return err
		}
		quals = t.Quals

	case *Array:
		if err := s.writePre(t.Inner); err != nil {
			return err
		}
		quals = t.Quals

	case *TagType:
		s.writeString(tagNames[t.Kind])
		s.writeByte(' ')
		if err := s.writeName(&t.Sym); err != nil {
			return err
		}
		quals = t.Quals

	case *Primitive:
		s.writeString(primitiveNames[t.Kind])
		quals = t.Quals

	case *NullptrType:
		s.writeString("std::nullptr_t")
		return nil

	case *EmptyParameterPack:
		return nil

	default:
		return &SerializeError{Message: fmt.Sprintf("unhandled type %T", t)}
	}

	if quals.Has(SCConst) {
		s.writeSpace()
		s.writeString("const")
	}
	if quals.Has(SCVolatile) {
		s.writeSpace()
		s.writeString("volatile")
	}
	return nil
}

// writeIndirection emits the inner type of a pointer or reference, the
// opening grouping paren if one is needed, and the indirection token.
func (s *serializer) writeIndirection(inner Type, token string) error {
	if err := s.writePre(inner); err != nil {
		return err
	}
	if needsGrouping(inner) {
		if s.mode == LotsOfWhitespace {
			s.writeSpace()
		}
		s.writeByte('(')
	}
	if s.mode == LotsOfWhitespace {
		s.writeSpace()
	}
	s.writeString(token)
	return nil
}

// writePost emits everything that follows the symbol name.
func (s *serializer) writePost(t Type) error {
	switch t := t.(type) {
	case *MemberFunction:
		return s.writeFuncPost(t.Params, t.Return, t.ThisQuals)

	case *NonMemberFunction:
		return s.writeFuncPost(t.Params, t.Return, t.Quals)

	case *MemberFunctionPointer:
		return s.writeFuncPost(t.Params, t.Return, t.ThisQuals)

	case *VBTable:
		if err := s.writeScope(t.Scope); err != nil {
			return err
		}
		s.writeString("'}")

	case *Ptr:
		return s.writeIndirectionPost(t.Inner)

	case *Ref:
		return s.writeIndirectionPost(t.Inner)

	case *Array:
		s.writeByte('[')
		s.writeInt(t.Len)
		s.writeByte(']')
		return s.writePost(t.Inner)
	}
	return nil
}

func (s *serializer) writeFuncPost(params Params, ret Type, quals StorageClass) error {
	s.writeByte('(')
	if err := s.writeTypes(params.Types); err != nil {
		return err
	}
	s.writeByte(')')

	if err := s.writePost(ret); err != nil {
		return err
	}

	if quals.Has(SCConst) {
		s.writeString("const")
		if s.mode == LotsOfWhitespace {
			s.writeSpace()
		}
	}
	return nil
}

func (s *serializer) writeIndirectionPost(inner Type) error {
	if needsGrouping(inner) {
		s.writeByte(')')
	}
	return s.writePost(inner)
}

// writeTypes emits a comma separated parameter or argument list.
func (s *serializer) writeTypes(types []Type) error {
	for i, t := range types {
		if i > 0 {
			s.writeByte(',')
		}
		if err := s.writePre(t); err != nil {
			return err
		}
		if err := s.writePost(t); err != nil {
			return err
		}
	}
	return nil
}

// writeOneName emits a single scope component.
func (s *serializer) writeOneName(n Name) error {
	switch n := n.(type) {
	case *Operator:
		if s.mode == LotsOfWhitespace {
			s.writeSpace()
		}
		s.writeString(n.Spelling)

	case *Identifier:
		s.writeString(n.Raw)

	case *Template:
		if err := s.writeOneName(n.Base); err != nil {
			return err
		}
		return s.writeTemplateParams(n.Params)

	case *Discriminator:
		s.writeByte('`')
		s.writeInt(n.Value)
		s.writeByte('\'')

	case *ParsedName:
		inner, err := Serialize(n.Inner, s.mode)
		if err != nil {
			return err
		}
		s.writeByte('`')
		s.writeString(inner)
		s.writeByte('\'')

	case *AnonymousNamespace:
		s.writeString("`anonymous namespace`")

	default:
		return &SerializeError{Message: fmt.Sprintf("unhandled name %T", n)}
	}
	return nil
}

// writeScope emits a scope chain outermost first. Components are stored
// innermost first, so the walk is reversed.
func (s *serializer) writeScope(scope NameSequence) error {
	for i := len(scope.Names) - 1; i >= 0; i-- {
		if i != len(scope.Names)-1 {
			s.writeString("::")
		}
		if err := s.writeOneName(scope.Names[i]); err != nil {
			return err
		}
	}
	return nil
}

// writeName emits a fully qualified symbol name. Constructors, destructors
// and vbtables spell their enclosing class rather than themselves.
func (s *serializer) writeName(sym *Symbol) error {
	s.writeSpacePre()

	if err := s.writeScope(sym.Scope); err != nil {
		return err
	}
	if len(sym.Scope.Names) > 0 {
		s.writeString("::")
	}

	switch n := sym.Name.(type) {
	case *Operator:
		switch n.Spelling {
		case opCtor:
			if len(sym.Scope.Names) == 0 {
				return &SerializeError{Message: "constructor without an enclosing class"}
			}
			return s.writeOneName(sym.Scope.Names[0])
		case opDtor:
			if len(sym.Scope.Names) == 0 {
				return &SerializeError{Message: "destructor without an enclosing class"}
			}
			s.writeByte('~')
			return s.writeOneName(sym.Scope.Names[0])
		case opVBTable:
			// The closing "'}" comes from the vbtable type's writePost.
			s.writeString("`vbtable'{for `")
		default:
			if s.mode == LotsOfWhitespace {
				s.writeSpace()
			}
			s.writeString(n.Spelling)
		}

	case *Identifier:
		s.writeString(n.Raw)

	case *Template:
		if err := s.writeOneName(n.Base); err != nil {
			return err
		}
		return s.writeTemplateParams(n.Params)

	case *Discriminator:
		s.writeByte('`')
		s.writeInt(n.Value)
		s.writeByte('\'')

	case *ParsedName:
		inner, err := Serialize(n.Inner, s.mode)
		if err != nil {
			return err
		}
		s.writeString(inner)

	case *AnonymousNamespace:
		return &SerializeError{Message: "anonymous namespace as a symbol name"}

	default:
		return &SerializeError{Message: fmt.Sprintf("unhandled name %T", n)}
	}
	return nil
}

// writeTemplateParams emits an argument list in angle brackets. A
// trailing empty parameter pack is dropped, and adjacent closing brackets
// are kept apart so the output stays parseable as C++.
func (s *serializer) writeTemplateParams(params Params) error {
	types := params.Types
	if len(types) > 0 {
		if _, ok := types[len(types)-1].(*EmptyParameterPack); ok {
			types = types[:len(types)-1]
		}
	}

	s.writeByte('<')
	if len(types) > 0 {
		if err := s.writeTypes(types); err != nil {
			return err
		}
		if c, ok := s.lastByte(); ok && c == '>' {
			s.writeByte(' ')
		}
	}
	s.writeByte('>')
	return nil
}
